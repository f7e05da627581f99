package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tvm-calculator/config"
	httpLayer "tvm-calculator/http"
	"tvm-calculator/repository"
	"tvm-calculator/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	calcRepo, closeRepo := newCalculationRepository(cfg)
	defer closeRepo()

	cache, closeCache := newCache(cfg)
	defer closeCache()

	engine := service.NewTVMEngine(service.SolverConfig{
		Tolerance:     cfg.SolverTolerance,
		MaxIterations: cfg.SolverMaxIterations,
		InitialGuess:  service.DefaultRateGuess,
	})
	tvmService := service.NewTVMService(engine, calcRepo, cache)
	tvmHandler := httpLayer.NewTVMHandler(tvmService)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer rateLimiter.Stop()

	limited := func(h http.HandlerFunc) http.Handler {
		return httpLayer.RateLimitMiddleware(rateLimiter, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/tvm/future-value", limited(tvmHandler.FutureValue))
	mux.Handle("/tvm/present-value", limited(tvmHandler.PresentValue))
	mux.Handle("/tvm/periods", limited(tvmHandler.Periods))
	mux.Handle("/tvm/rate", limited(tvmHandler.Rate))
	mux.Handle("/tvm/history", limited(tvmHandler.History))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, server, shutdownTimeout); err != nil {
		log.Printf("Error: %v", err)
		return
	}
	log.Println("TVM API stopped")
}

// serve runs server until ctx is cancelled, then drains in-flight requests
// for at most grace.
func serve(ctx context.Context, server *http.Server, grace time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Printf("TVM API listening on %s", server.Addr)
		listenErr <- server.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newCalculationRepository(cfg config.Config) (repository.CalculationRepository, func()) {
	if cfg.DatabaseURL == "" {
		return repository.NewCalculationRepositoryMemory(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.NewCalculationRepositoryPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: postgres unavailable, keeping history in memory: %v", err)
		return repository.NewCalculationRepositoryMemory(), func() {}
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			log.Printf("Error closing postgres: %v", err)
		}
	}
}

func newCache(cfg config.Config) (repository.CacheRepository, func()) {
	if len(cfg.RedisAddrs) == 0 {
		return repository.NewMockCache(), func() {}
	}

	nodes := make([]*repository.RedisCache, 0, len(cfg.RedisAddrs))
	shards := make(map[string]repository.CacheRepository, len(cfg.RedisAddrs))
	for _, addr := range cfg.RedisAddrs {
		node := repository.NewRedisCache(addr, cfg.CacheTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := node.Ping(ctx); err != nil {
			log.Printf("Warning: redis %s not reachable yet: %v", addr, err)
		}
		cancel()

		nodes = append(nodes, node)
		shards[addr] = node
	}
	closeAll := func() {
		for _, n := range nodes {
			if err := n.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			}
		}
	}

	if len(nodes) == 1 {
		return nodes[0], closeAll
	}
	sharded, err := repository.NewShardedCache(shards)
	if err != nil {
		log.Fatalf("Error building sharded cache: %v", err)
	}
	return sharded, closeAll
}
