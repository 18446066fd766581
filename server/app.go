package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user/tareas-go/auth"
	"github.com/user/tareas-go/config"
	"github.com/user/tareas-go/db"
	"github.com/user/tareas-go/forms"
	"github.com/user/tareas-go/mail"
	"github.com/user/tareas-go/ratelimit"
	"github.com/user/tareas-go/tasks"
	"github.com/user/tareas-go/users"
	"github.com/user/tareas-go/web"
)

// App is the fully wired application. There is no global state: everything a handler
// needs is reachable from here.
type App struct {
	Handler http.Handler

	dispatcher *mail.Dispatcher
	pool       *pgxpool.Pool
	redis      *redis.Client
	logger     *slog.Logger
}

// New builds the application for cfg: it opens the configured stores, applies migrations when
// asked to, starts the mail dispatcher and mounts the router. Call Close when done.
func New(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}
	health := map[string]HealthCheck{}

	var (
		userRepo users.Repository
		taskRepo tasks.Repository
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if cfg.DB.AutoMigrate {
			if err := db.RunMigrations(cfg.DB, logger); err != nil {
				return nil, err
			}
		}
		pool, err := db.NewDBPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		app.pool = pool
		sqlxDB := db.NewSQLX(pool)
		userRepo = users.NewPostgresRepository(sqlxDB)
		taskRepo = tasks.NewPostgresRepository(sqlxDB)
		health["postgres"] = pool.Ping
	default:
		logger.Warn("using in-memory stores; data is lost on restart")
		userRepo = users.NewMemoryRepository()
		taskRepo = tasks.NewMemoryRepository()
	}

	var (
		sessions auth.SessionStore
		limiter  ratelimit.Limiter
	)
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			app.closeStores()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		app.redis = client
		sessions = auth.NewRedisSessionStore(client)
		if cfg.Auth.LoginRatePerMinute > 0 {
			limiter = ratelimit.NewRedisLimiter(client, "credentials", cfg.Auth.LoginRatePerMinute, time.Minute)
		}
		health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	default:
		sessions = auth.NewMemorySessionStore()
		if cfg.Auth.LoginRatePerMinute > 0 {
			limiter = ratelimit.NewLocalLimiter(cfg.Auth.LoginRatePerMinute)
		}
	}

	var mailer mail.Mailer
	if cfg.Mail.Enabled() {
		mailer = mail.NewSMTPMailer(*cfg.Mail)
	} else {
		mailer = mail.NewLogMailer(cfg.Mail.Sender, logger)
	}
	app.dispatcher = mail.NewDispatcher(mailer, 0, 0, logger)
	app.dispatcher.Start()

	validator := forms.NewValidator()
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	userService := users.NewService(userRepo, hasher, logger)

	gateway := auth.NewGateway(auth.GatewayDeps{
		Users:      userService,
		Verifier:   hasher,
		Sessions:   sessions,
		Tokens:     auth.NewTokenSigner(cfg.Auth.SecretKey),
		Validator:  validator,
		Welcome:    app.dispatcher,
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     logger,
	})

	flash := web.NewFlasher(cfg.Auth.SecretKey, cfg.Auth.CookieSecure)
	resp := web.NewResponder(web.NewJSONRenderer(flash, logger), flash, logger)

	app.Handler = NewRouter(RouterDeps{
		Gateway:       gateway,
		Tasks:         tasks.NewTaskService(taskRepo, validator, logger),
		Validator:     validator,
		Responder:     resp,
		Flash:         flash,
		LoginLimiter:  limiter,
		CORSOrigins:   cfg.Server.CORSAllowedOrigins,
		SecureCookies: cfg.Auth.CookieSecure,
		Health:        health,
	})

	return app, nil
}

// Close drains queued mail and releases the stores.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.dispatcher != nil {
		if err := a.dispatcher.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop mail dispatcher: %w", err))
		}
	}
	if err := a.closeStores(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeStores() error {
	var err error
	if a.redis != nil {
		if cerr := a.redis.Close(); cerr != nil {
			err = fmt.Errorf("close redis: %w", cerr)
		}
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return err
}
