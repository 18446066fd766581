// Command tareas runs the personal task manager.
//
// It loads configuration from the environment (and an optional .env file), wires the stores,
// the session backend and the mail dispatcher, serves HTTP and shuts down gracefully on
// SIGINT/SIGTERM. `tareas migrate` applies the database migrations and exits.
//
// @title Tareas API
// @version 1.0
// @description Personal task manager: accounts, sessions and per-user paginated tasks.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/tareas-go/config"
	"github.com/user/tareas-go/db"
	"github.com/user/tareas-go/server"
)

func main() {
	app := &cli.App{
		Name:  "tareas",
		Usage: "personal task manager",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file to load before reading the environment",
				Value:   ".env",
				EnvVars: []string{"TAREAS_ENV_FILE"},
			},
		},
		Before: func(c *cli.Context) error {
			if err := godotenv.Load(c.String("env-file")); err != nil {
				log.Printf("Warning: %s not loaded: %v", c.String("env-file"), err)
			}
			return nil
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("tareas: %v", err)
	}
}

func loadConfig() (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, newLogger(cfg.Server.LogLevel), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func migrate(_ *cli.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StoreBackend != config.BackendPostgres {
		return fmt.Errorf("migrate needs STORE_BACKEND=%s, got %q", config.BackendPostgres, cfg.StoreBackend)
	}
	return db.RunMigrations(cfg.DB, logger)
}

func serve(c *cli.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := server.New(c.Context, cfg, logger)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr, "store", cfg.StoreBackend, "sessions", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		_ = app.Close(context.Background())
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("server shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := app.Close(ctx); err != nil {
		return err
	}
	logger.Info("server stopped gracefully")
	return nil
}
