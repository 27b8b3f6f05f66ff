package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/moyim-dev/moyim/internal/backend"
	"github.com/moyim-dev/moyim/internal/backend/pg"
	"github.com/moyim-dev/moyim/internal/backend/rest"
	"github.com/moyim-dev/moyim/internal/boards"
	"github.com/moyim-dev/moyim/internal/feed"
	"github.com/moyim-dev/moyim/internal/notify"
	"github.com/moyim-dev/moyim/internal/profile"
	"github.com/moyim-dev/moyim/internal/session"
	"github.com/moyim-dev/moyim/internal/viewer"
	"github.com/moyim-dev/moyim/shared/config"
	"github.com/moyim-dev/moyim/shared/logger"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()
	cfg := config.MustLoad(configFolder)

	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	var b backend.Backend
	var restClient *rest.Client
	switch cfg.Public.Backend {
	case "pg":
		storage, err := pg.New(cfg.Public.Pg)
		if err != nil {
			logger.Log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer storage.Cleanup()
		b = storage
	case "rest":
		restClient = rest.New(cfg.Public.Rest.BaseURL, cfg.Public.Rest.StreamURL)
		b = restClient
	}

	sess := session.New(cfg.JwtKey())
	profiles := profile.NewCache(b)
	notifier := notify.New(b)
	inbox := notify.NewInbox(b)

	catalog := boards.New(b)
	f := feed.New(b, sess, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := catalog.Load(ctx); err != nil {
		logger.Log.Warn("board catalog unavailable at startup", "error", err)
	}
	if err := f.Start(ctx); err != nil {
		logger.Log.Error("failed to start feed", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	h := viewer.New(f, catalog, sess, profiles, inbox)
	if restClient != nil {
		h.WithTokenSink(restClient)
	}
	srv := &http.Server{
		Addr:    cfg.Public.ViewerAddr,
		Handler: h.Router(),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Log.Info("viewer listening", "addr", cfg.Public.ViewerAddr, "backend", cfg.Public.Backend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
