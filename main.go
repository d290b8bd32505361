package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/VishalRathod21/yt-transcript/config"
	"github.com/VishalRathod21/yt-transcript/handlers"
	"github.com/VishalRathod21/yt-transcript/logger"
	"github.com/VishalRathod21/yt-transcript/middleware"
	"github.com/VishalRathod21/yt-transcript/repository/sqlite"
	"github.com/VishalRathod21/yt-transcript/transcript"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	if err := config.Validate(cfg); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	if err := logger.Init(cfg.LogDir, cfg.Debug); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}

	repo, err := sqlite.NewRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize repository")
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close repository")
		}
	}()

	service := transcript.NewService(repo, transcript.Config{
		DefaultLanguage: cfg.Transcript.DefaultLanguage,
		MaxRetries:      cfg.Transcript.MaxRetries,
		RequestTimeout:  cfg.Transcript.FetchTimeout,
	})

	mux := http.NewServeMux()
	handlers.New(service, cfg.RequestTimeout, version).Register(mux)

	limiter := rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimit)
	handler := middleware.Chain(
		mux,
		middleware.RequestID(),
		middleware.Recovery(logrus.StandardLogger()),
		middleware.Logging(logrus.StandardLogger()),
		middleware.RateLimit(limiter),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("Listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logrus.Info("Shutting down the server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server shutdown failed")
	}
}
