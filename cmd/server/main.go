package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/omiri/backend/config"
	httpDelivery "github.com/omiri/backend/internal/delivery/http"
	"github.com/omiri/backend/internal/domain"
	"github.com/omiri/backend/internal/infrastructure/cache"
	"github.com/omiri/backend/internal/infrastructure/logger"
	"github.com/omiri/backend/internal/infrastructure/notify"
	"github.com/omiri/backend/internal/infrastructure/omiri"
	"github.com/omiri/backend/internal/infrastructure/preferences"
	"github.com/omiri/backend/internal/infrastructure/sentryconnect"
	"github.com/omiri/backend/internal/scheduler"
	"github.com/omiri/backend/internal/usecase"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	log.WithFields(log.Fields{
		"version":     httpDelivery.Version,
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"storage":     cfg.Storage.Type,
	}).Info("Starting Omiri backend")

	sentryEnv := cfg.Sentry.Environment
	if sentryEnv == "" {
		sentryEnv = cfg.Server.Environment
	}
	hub, err := sentryconnect.Init(cfg.Sentry.DSN, sentryconnect.ModuleName+"@"+httpDelivery.Version, sentryEnv, false)
	if err != nil {
		log.Warnf("Sentry disabled: %v", err)
	}
	if hub != nil {
		defer sentry.Flush(2 * time.Second)
	}

	prefs, closePrefs, err := openPreferences(cfg, hub)
	if err != nil {
		log.Fatalf("Failed to open preference store: %v", err)
	}
	defer closePrefs()

	if cfg.API.Token == "" {
		log.Warnf("Deals API token not configured (%s), requests may be rejected", cfg.API.BaseURL)
	}
	apiClient := omiri.NewClient(omiri.ClientConfig{
		BaseURL:       cfg.API.BaseURL,
		Token:         cfg.API.Token,
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
		Burst:         cfg.API.Burst,
	})

	task := usecase.NewReconciliationTask(prefs, apiClient, apiClient, newNotifier(cfg), usecase.ReconciliationConfig{
		DeepLink: cfg.Notification.DeepLink,
	})

	storeCache := cache.NewMemoryCache(time.Hour)
	defer storeCache.Close()
	storeCatalog := usecase.NewStoreCatalog(storeCache, apiClient, usecase.StoreCatalogConfig{
		CacheTTL: cfg.Cache.TTL,
	})

	sched := scheduler.New(task, hub, scheduler.Config{
		Interval:   cfg.Scheduler.Interval,
		RetryBase:  cfg.Scheduler.RetryBase,
		MaxRetries: cfg.Scheduler.MaxRetries,
		RunOnStart: cfg.Scheduler.RunOnStart,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedDone := make(chan struct{})
	if cfg.Scheduler.Enabled {
		go func() {
			defer close(schedDone)
			sched.Start(ctx)
		}()
	} else {
		close(schedDone)
		log.Info("Scheduler disabled, reconciliation runs on demand only")
	}

	handler := httpDelivery.NewHandler(usecase.NewShoppingListService(prefs), storeCatalog, sched)
	router := httpDelivery.SetupRouter(cfg, handler, hub)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogAndCapture(hub, err, "Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}

	// The preference store closes on return; let an in-flight run finish first
	select {
	case <-schedDone:
	case <-shutdownCtx.Done():
		log.Warn("Scheduler did not stop before shutdown timeout")
	}
}

// openPreferences builds the configured preference store and its close func
func openPreferences(cfg *config.Config, hub *sentry.Hub) (domain.PreferenceStore, func(), error) {
	if cfg.Storage.Type == "memory" {
		log.Warn("Using in-memory preferences, data is lost on restart")
		return preferences.NewMemory(), func() {}, nil
	}

	backend := preferences.NewBadgerBackend(cfg.Storage.Path, hub)
	if err := backend.Open(); err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := backend.Close(); err != nil {
			log.Errorf("Failed to close preference database: %v", err)
		}
	}
	return preferences.New(backend), closeFn, nil
}

// newNotifier builds the configured notification sink
func newNotifier(cfg *config.Config) domain.Notifier {
	if cfg.Notification.Type == "webhook" {
		return notify.NewWebhookNotifier(cfg.Notification.WebhookURL, cfg.Notification.Timeout)
	}
	return notify.NewLogNotifier(nil)
}
