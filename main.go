// Command fooskill runs the skill-rating HTTP service: it loads
// configuration, connects to Redis, and serves the route table from
// SPEC_FULL.md §4.11.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"crab.casa/fooskill/api"
	"crab.casa/fooskill/config"
	"crab.casa/fooskill/groupid"
	"crab.casa/fooskill/skill"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		charmlog.Fatal("config load failed", "err", err)
	}

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "fooskill",
		Level:           parseLevel(cfg.LogLevel),
	})

	groupKey, err := cfg.GroupKeyBytes()
	if err != nil {
		logger.Fatal("invalid group key", "err", err)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("invalid redis url", "err", err)
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	service := skill.New(redisClient)
	codec := groupid.NewCodec(groupKey)
	server := api.NewServer(service, codec, logger)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		<-quit
		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		httpServer.SetKeepAlivesEnabled(false)
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
		}
		close(done)
	}()

	logger.Info("listening", "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", "err", err)
	}

	<-done
	logger.Info("stopped")
}

func parseLevel(level string) charmlog.Level {
	switch level {
	case "debug":
		return charmlog.DebugLevel
	case "warn":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}
