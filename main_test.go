package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tvm-calculator/config"
	"tvm-calculator/repository"
)

func TestServe_StopsWhenContextEnds(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_ListenError(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:not-a-port"}

	if err := serve(context.Background(), server, time.Second); err == nil {
		t.Error("expected listen error")
	}
}

func TestBackends_DefaultToInMemory(t *testing.T) {
	repo, closeRepo := newCalculationRepository(config.Default)
	defer closeRepo()
	if _, ok := repo.(*repository.CalculationRepositoryMemory); !ok {
		t.Errorf("expected in-memory history, got %T", repo)
	}

	cache, closeCache := newCache(config.Default)
	defer closeCache()
	if _, ok := cache.(*repository.MockCache); !ok {
		t.Errorf("expected in-process cache, got %T", cache)
	}
}
