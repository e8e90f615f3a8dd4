package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/revuhub/entitlement/modules/api"
	"github.com/revuhub/entitlement/pkg/config"
	"github.com/revuhub/entitlement/pkg/email"
	"github.com/revuhub/entitlement/pkg/httpserver"
	"github.com/revuhub/entitlement/pkg/logger"
	"github.com/revuhub/entitlement/pkg/pg"
	pkgredis "github.com/revuhub/entitlement/pkg/redis"
	"github.com/revuhub/entitlement/svc/billing"
	"github.com/revuhub/entitlement/svc/catalog"
	"github.com/revuhub/entitlement/svc/entitlement"
	"github.com/revuhub/entitlement/svc/subscription"
)

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Env, cfg.Name))
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	redisClient, err := pkgredis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Plan catalog. The default-tier check inside NewService is the
	// startup gate: a catalog without a Basic plan is a configuration
	// error and the process must not come up.
	var source catalog.Source
	if cfg.CatalogFile != "" {
		source = catalog.NewYAMLSource(cfg.CatalogFile)
	} else {
		source = catalog.NewPgSource(pool)
	}
	source = catalog.NewCachedSource(source, redisClient, cfg.CatalogCacheTTL, log)

	plans, err := catalog.NewService(ctx, source)
	if err != nil {
		return err
	}

	subStore := subscription.NewPgStore(pool)
	subs := subscription.NewService(subStore,
		subscription.WithLogger(log.With(logger.Component("subscription"))))

	eval := entitlement.NewEvaluator(plans, subs)
	advisor := entitlement.NewAdvisor(plans, eval)

	var sender email.EmailSender
	if cfg.Email.PostmarkServerToken != "" {
		sender, err = email.NewPostmarkClient(cfg.Email)
		if err != nil {
			return err
		}
	} else {
		sender = email.NewDevSender(cfg.EmailDevDir)
	}

	gateway, err := billing.NewPaddleGateway(cfg.Paddle)
	if err != nil {
		return err
	}

	checkout := billing.NewCheckoutService(
		billing.NewPgBusinessResolver(pool),
		plans,
		billing.NewCalculator(cfg.Calculator),
		gateway,
		billing.NewPgInvoiceStore(pool),
		billing.WithNotificationSender(sender),
		billing.WithCheckoutLogger(log.With(logger.Component("checkout"))),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool), pkgredis.Healthcheck(redisClient)))
	r.Mount("/v1", api.Router(api.RouterOptions{
		Plans:         plans,
		Subscriptions: subs,
		Evaluator:     eval,
		Advisor:       advisor,
		Checkout:      checkout,
		Logger:        log.With(logger.Component("api")),
	}))

	sweeper := subscription.NewSweeper(subStore,
		subscription.WithSweepInterval(cfg.SweepInterval),
		subscription.WithSweeperLogger(log.With(logger.Component("sweeper"))))

	srv := httpserver.New(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("server starting", "addr", cfg.HTTP.Addr, "env", cfg.Env)
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("server stopped")
		}),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := sweeper.Start(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error { return srv.Run(ctx, r) })

	return g.Wait()
}
