package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/microblog/backend/internal/middleware"
	"github.com/anonto42/microblog/backend/internal/router"
	"github.com/anonto42/microblog/backend/pkg/config"
	"github.com/anonto42/microblog/backend/pkg/firebase"
	"github.com/anonto42/microblog/backend/pkg/logger"
	"github.com/anonto42/microblog/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	logger.Init(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "initialize databases")
	}
	defer db.CloseDB()

	auth, err := authMiddleware(ctx, cfg)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e)
	if err := router.SetupRoutes(ctx, e, cfg, db, auth); err != nil {
		return errors.Wrap(err, "setup routes")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("http server exited with error")
			stop()
		}
	}()
	logrus.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env, "auth": cfg.AuthProvider}).Info("server started")

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Wrap(e.Shutdown(shutdownCtx), "shutdown http server")
}

// authMiddleware selects the token verifier named by AUTH_PROVIDER.
func authMiddleware(ctx context.Context, cfg *config.Config) (echo.MiddlewareFunc, error) {
	if cfg.AuthProvider == config.AuthProviderFirebase {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, errors.Wrap(err, "initialize firebase")
		}
		return middleware.FirebaseAuthMiddleware(app.AuthClient), nil
	}
	return middleware.JWTAuthMiddleware(cfg.JWTSecret), nil
}
