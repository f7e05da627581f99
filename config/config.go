package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server settings read from the environment.
type Config struct {
	Addr string
	// RedisAddrs empty selects the in-process cache; more than one address
	// shards the cache across nodes.
	RedisAddrs []string
	CacheTTL   time.Duration
	// DatabaseURL empty keeps the calculation history in memory.
	DatabaseURL string
	// RateLimit is requests per minute per client.
	RateLimit           int
	SolverTolerance     float64
	SolverMaxIterations int
}

var Default = Config{
	Addr:                ":8080",
	CacheTTL:            10 * time.Minute,
	RateLimit:           5,
	SolverTolerance:     1e-10,
	SolverMaxIterations: 100,
}

// Load reads the TVM_*, REDIS_ADDRS and DATABASE_URL variables over Default.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default

	if v := getenv("TVM_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("REDIS_ADDRS"); v != "" {
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.RedisAddrs = append(cfg.RedisAddrs, addr)
			}
		}
	}
	if v := getenv("TVM_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("TVM_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}
	cfg.DatabaseURL = getenv("DATABASE_URL")
	if v := getenv("TVM_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("TVM_RATE_LIMIT: must be a positive integer, got %q", v)
		}
		cfg.RateLimit = n
	}
	if v := getenv("TVM_SOLVER_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return Config{}, fmt.Errorf("TVM_SOLVER_TOLERANCE: must be a positive number, got %q", v)
		}
		cfg.SolverTolerance = f
	}
	if v := getenv("TVM_SOLVER_MAX_ITER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("TVM_SOLVER_MAX_ITER: must be a positive integer, got %q", v)
		}
		cfg.SolverMaxIterations = n
	}

	return cfg, nil
}
