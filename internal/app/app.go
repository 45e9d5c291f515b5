// Package app assembles the service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/api"
	"github.com/Buffden/Event-Management-System-sub004/internal/api/handler"
	"github.com/Buffden/Event-Management-System-sub004/internal/api/middleware"
	"github.com/Buffden/Event-Management-System-sub004/internal/application"
	"github.com/Buffden/Event-Management-System-sub004/internal/config"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/notification"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/transaction"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
	"github.com/Buffden/Event-Management-System-sub004/internal/infrastructure/auth"
	"github.com/Buffden/Event-Management-System-sub004/internal/infrastructure/email"
	"github.com/Buffden/Event-Management-System-sub004/internal/infrastructure/memory"
	"github.com/Buffden/Event-Management-System-sub004/internal/infrastructure/postgres"
	redisinfra "github.com/Buffden/Event-Management-System-sub004/internal/infrastructure/redis"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/metrics"
	"github.com/Buffden/Event-Management-System-sub004/internal/worker"
)

// App is the assembled service.
type App struct {
	Echo    *echo.Echo
	Events  *application.EventService
	Venues  *application.VenueService
	Metrics *metrics.Metrics

	sweeper  *worker.CompletionSweeper
	sweeping bool
	closers  []func() error
}

type options struct {
	registry    *prometheus.Registry
	redisClient *redis.Client
	venues      []*venue.Venue
	publishers  []notification.Publisher
	now         func() time.Time
}

// Option customizes New, mainly for tests.
type Option func(*options)

// WithRegistry registers metrics on reg instead of the default registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithRedisClient uses client instead of dialing cfg.Redis. The caller owns it.
func WithRedisClient(client *redis.Client) Option {
	return func(o *options) { o.redisClient = client }
}

// WithVenues seeds the memory store instead of the default catalogue.
func WithVenues(venues ...*venue.Venue) Option {
	return func(o *options) { o.venues = venues }
}

// WithPublisher adds a notification publisher.
func WithPublisher(p notification.Publisher) Option {
	return func(o *options) { o.publishers = append(o.publishers, p) }
}

// WithClock overrides the lifecycle clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New wires every component described by cfg. Resources opened here are
// released by Shutdown.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	a := &App{}
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if o.registry != nil {
		a.Metrics = metrics.NewWithRegistry(o.registry)
		gatherer = o.registry
	} else {
		a.Metrics = metrics.Init()
	}

	checks := map[string]handler.HealthCheck{}

	var (
		txManager transaction.Manager
		events    event.Repository
		venues    venue.Repository
	)
	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		seed := o.venues
		if seed == nil {
			seed = DefaultVenues()
		}
		for _, v := range seed {
			store.AddVenue(v)
		}
		txManager = store
		events = memory.NewEventRepository(store)
		venues = memory.NewVenueRepository(store)
		logger.Warn("using in-memory store; data is lost on restart")
	case "postgres":
		db, err := openDatabase(&cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		checks["database"] = func(ctx context.Context) error { return postgres.Ping(ctx, db) }
		txManager = postgres.NewTxManager(db)
		events = postgres.NewEventRepository(db)
		venues = postgres.NewVenueRepository(db)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store.Driver)
	}

	publishers := append([]notification.Publisher{}, o.publishers...)
	serviceOpts := []application.Option{application.WithMetrics(a.Metrics)}
	if o.now != nil {
		serviceOpts = append(serviceOpts, application.WithClock(o.now))
	}

	client := o.redisClient
	if client == nil && cfg.Redis.Enabled {
		client = redisinfra.NewClient(&cfg.Redis)
		if err := redisinfra.Ping(ctx, client); err != nil {
			client.Close()
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, client) }
		venues = redisinfra.NewCachedVenueRepository(venues, redisinfra.NewVenueCache(client), cfg.Cache.VenueTTL)
		publishers = append(publishers, redisinfra.NewPublisher(client, cfg.Notification.ChannelPrefix))
		if cfg.Lock.Enabled {
			locker := redisinfra.NewVenueLocker(redisinfra.NewLockManager(client), redisinfra.VenueLockConfig{
				TTL:        cfg.Lock.TTL,
				MaxRetries: cfg.Lock.MaxRetries,
				RetryDelay: cfg.Lock.RetryDelay,
			}, a.Metrics)
			serviceOpts = append(serviceOpts, application.WithVenueLocker(locker))
		}
	}

	mailCfg := cfg.Notification.Mail
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    mailCfg.Provider,
		FromAddress: mailCfg.FromAddress,
		FromName:    mailCfg.FromName,
		SES: email.SESConfig{
			Region:          mailCfg.SESRegion,
			AccessKeyID:     mailCfg.SESAccessKeyID,
			SecretAccessKey: mailCfg.SESSecretAccessKey,
			Endpoint:        mailCfg.SESEndpoint,
		},
	})
	if err != nil {
		a.close()
		return nil, err
	}
	publishers = append(publishers, email.NewSpeakerPublisher(mailer))

	dispatcher := application.NewEffectDispatcher(notification.Multi(publishers), venues, a.Metrics, cfg.Notification.PublishTimeout)
	a.Events = application.NewEventService(txManager, events, venues, dispatcher, serviceOpts...)
	a.Venues = application.NewVenueService(venues)

	if cfg.Worker.CompletionSweepInterval > 0 {
		a.sweeper = worker.NewCompletionSweeper(a.Events, cfg.Worker.CompletionSweepInterval)
	}

	a.Echo = newEcho(cfg, a, checks, gatherer)
	return a, nil
}

func openDatabase(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(db.DB, cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("database migrations applied", zap.String("path", cfg.MigrationsPath))
	}
	return db, nil
}

func newEcho(cfg *config.Config, a *App, checks map[string]handler.HealthCheck, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(a.Metrics))

	handler.Routes{
		Health:          handler.NewHealthHandler(checks),
		Events:          handler.NewEventHandler(a.Events),
		Venues:          handler.NewVenueHandler(a.Venues),
		Resolver:        auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		IdentityTimeout: cfg.Auth.IdentityTimeout,
	}.Register(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
		middleware.MetricsBasicAuth(cfg.Metrics.User, cfg.Metrics.Password))
	return e
}

// Start launches background workers. They stop when ctx is cancelled or on Shutdown.
func (a *App) Start(ctx context.Context) {
	if a.sweeper != nil && !a.sweeping {
		a.sweeping = true
		go a.sweeper.Start(ctx)
	}
}

// Serve listens on addr until the server is shut down.
func (a *App) Serve(addr string) error {
	if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP traffic, stops workers and closes connections.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if a.sweeping {
		a.sweeper.Stop()
		a.sweeping = false
	}
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// DefaultVenues is the catalogue seeded into a fresh store.
func DefaultVenues() []*venue.Venue {
	return []*venue.Venue{
		{Name: "Grand Conference Hall", Address: "100 Main Street", Capacity: 500, OpeningTime: "08:00", ClosingTime: "22:00"},
		{Name: "Innovation Lab", Address: "42 Tech Park Avenue", Capacity: 80, OpeningTime: "09:00", ClosingTime: "18:00"},
		{Name: "Riverside Auditorium", Address: "7 River Road", Capacity: 250, OpeningTime: "10:00", ClosingTime: "23:00"},
	}
}
