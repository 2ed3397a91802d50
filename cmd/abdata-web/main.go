package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/franfreezy/abdata/pkg/authgw"
	"github.com/franfreezy/abdata/pkg/config"
	"github.com/franfreezy/abdata/pkg/observability"
	"github.com/franfreezy/abdata/pkg/webapp"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(logrusLevel(cfg.Observability.LogLevel))

	appLogger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	var federated *authgw.Federated
	if cfg.OIDC.Enabled() {
		federated, err = authgw.NewFederated(context.Background(), authgw.FederatedConfig{
			IssuerURL:    cfg.OIDC.IssuerURL,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
		}, appLogger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to configure federated sign-in")
		}
		logger.WithField("issuer", cfg.OIDC.IssuerURL).Info("Federated sign-in enabled")
	}

	registry := prometheus.NewRegistry()
	server, err := webapp.NewServer(cfg, federated, appLogger, registry)
	if err != nil {
		logger.WithError(err).Fatal("Failed to assemble server")
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    cfg.Server.Addr(),
			"backend": cfg.Backend.BaseURL,
		}).Info("AB DATA web front-end listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
	server.Close()
	logger.Info("Shutdown complete")
}

func logrusLevel(level observability.LogLevel) logrus.Level {
	switch level {
	case observability.DebugLevel:
		return logrus.DebugLevel
	case observability.WarnLevel:
		return logrus.WarnLevel
	case observability.ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
