package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/config"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/routes"
	"github.com/01moynul/storefront-golang/internal/session"
	"github.com/01moynul/storefront-golang/internal/store"
)

func main() {
	// 0. --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// 1. --- Database Connection + Schema ---
	db, err := database.OpenDB(cfg.DBPath, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, log); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	if n, err := database.SeedCategories(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to seed categories")
	} else if n > 0 {
		log.WithField("count", n).Info("seeded starter categories")
	}
	if _, err := database.EnsureDefaultCategory(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to ensure default category")
	}

	st := store.New(db)
	if cfg.AdminUsername != "" {
		created, err := st.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			log.WithError(err).Fatal("failed to bootstrap admin user")
		}
		if created {
			log.WithField("username", cfg.AdminUsername).Info("admin user created")
		}
	}

	// 2. --- Sessions ---
	sessions := session.NewStore(db, cfg.SessionCookieName, cfg.SessionMaxAge, cfg.SessionSecure)

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:               db,
		Store:            st,
		Sessions:         sessions,
		Log:              log,
		AllowAdminSignup: cfg.AllowAdminSignup,
	}

	// 3. --- Background Jobs (Cron) ---
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, log)
	scheduler, err := session.StartReaper(sessions, cfg.SessionReapSchedule, log)
	if err != nil {
		log.WithError(err).Fatal("failed to schedule session reaper")
	}
	if _, err := scheduler.AddFunc("@every 10m", func() { loginLimiter.Cleanup(30 * time.Minute) }); err != nil {
		log.WithError(err).Fatal("failed to schedule rate limiter cleanup")
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		TrustedProxies: cfg.TrustedProxyList(),
		LoginLimiter:   loginLimiter,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	go func() {
		log.WithField("addr", srv.Addr).Info("storefront API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
