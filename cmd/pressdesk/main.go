// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the PressDesk server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pressdesk/internal/cache"
	"pressdesk/internal/config"
	"pressdesk/internal/database"
	"pressdesk/internal/handlers"
	"pressdesk/internal/logging"
	"pressdesk/internal/middleware"
	"pressdesk/internal/notify"
	"pressdesk/internal/router"
	"pressdesk/internal/session"
	"pressdesk/internal/store"
)

// publishInterval is how often scheduled posts are checked.
const publishInterval = time.Minute

func main() {
	// Load configuration from the environment and .env.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLog := logging.Setup(logging.FromConfig(cfg))
	defer closeLog()

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"category_delete_policy", cfg.CategoryDeletePolicy,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		closeLog()
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Connect to Valkey (cache, sessions and notification feeds).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	// In non-development environments, cookies are Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	responseCache := cache.New(valkeyClient, cfg.CacheTTL)

	feed := notify.NewFeedSink(valkeyClient, 0, 0)
	sink := notify.Multi{notify.LogSink{Logger: logger}, feed}

	stores := handlers.Stores{
		Categories: store.NewCategoryStore(db, cfg.CategoryDeletePolicy),
		Posts:      store.NewPostStore(db),
		Users:      store.NewUserStore(db),
		Customers:  store.NewCustomerStore(db),
		Settings:   store.NewSiteSettingStore(db),
		Stats:      store.NewStatsStore(db),
		Sessions:   sessionStore,
	}
	pages := handlers.PageSizes{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:     sessionStore,
		Admin:        handlers.NewAdmin(stores, responseCache, sink, feed, pages),
		Auth:         handlers.NewAuth(sessionStore, stores.Users),
		Public:       handlers.NewPublic(stores.Posts, stores.Categories, responseCache, pages),
		Health: handlers.NewHealth(map[string]handlers.Check{
			"postgres": db.PingContext,
			"valkey": func(ctx context.Context) error {
				return valkeyClient.Ping(ctx).Err()
			},
		}),
		LoginLimiter:  loginLimiter,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: secureCookies,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Publish scheduled posts once their time has come.
	g.Go(func() error {
		ticker := time.NewTicker(publishInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := stores.Posts.PublishDue(ctx)
				if err != nil {
					logger.Error("publish scheduled posts", "error", err)
					continue
				}
				if n > 0 {
					responseCache.InvalidatePrefix(ctx, cache.PrefixPublicPosts)
					responseCache.InvalidatePrefix(ctx, cache.PrefixCategories)
					logger.Info("scheduled posts published", "count", n)
				}
			}
		}
	})

	// Graceful shutdown: wait for a signal, then drain connections.
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown signal received")

		// Give active requests up to 30 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
