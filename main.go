package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-advisor/config"
	httpLayer "finance-advisor/http"
	"finance-advisor/repository"
	"finance-advisor/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	cache, closeCache := newCache(cfg)
	defer closeCache()

	generator := service.NewGeneratorClient(cfg)
	recommendationService := service.NewRecommendationService(cfg, generator, cache)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      httpLayer.NewRouter(recommendationService, rateLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GeneratorTimeout + cfg.GeneratorProbeTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Recommender listening on %s (generator %s, model %s, cache %s)",
			cfg.ListenAddr, cfg.GeneratorURL, cfg.GeneratorModel, cfg.CacheBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}

// newCache builds the configured generator cache. A backend that cannot be
// created falls back to the in-memory cache.
func newCache(cfg *config.Config) (repository.CacheRepository, func()) {
	switch cfg.CacheBackend {
	case config.CacheNone:
		return repository.NoopCache{}, func() {}

	case config.CacheRistretto:
		cache, err := repository.NewRistrettoCache(cfg.CacheCapacity)
		if err != nil {
			log.Printf("Warning: ristretto cache unavailable, using memory cache: %v", err)
			break
		}
		return cache, cache.Close

	case config.CacheRedis:
		cache := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheCapacity)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.Ping(ctx); err != nil {
			log.Printf("Warning: redis at %s not reachable yet: %v", cfg.RedisAddr, err)
		}
		return cache, func() {
			if err := cache.Close(); err != nil {
				log.Printf("Error closing redis cache: %v", err)
			}
		}
	}

	return repository.NewMemoryCache(cfg.CacheCapacity), func() {}
}
