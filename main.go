package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"kal-storefront/config"
	httpapi "kal-storefront/internal/api/http"
	"kal-storefront/internal/client"
	"kal-storefront/internal/service"
	"kal-storefront/internal/storage"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "restaurant storefront API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: withConfig(serve),
			},
			{
				Name:   "aggregate",
				Usage:  "consume order events into dashboard statistics",
				Action: withConfig(aggregate),
			},
			{
				Name:   "migrate",
				Usage:  "create the database schema and seed the default menu",
				Action: withConfig(migrate),
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("storefront exited")
	}
}

func withConfig(run func(ctx context.Context, cfg *config.Config) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.SetupLogging(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	}
}

type repositories struct {
	catalog  service.CatalogRepository
	settings service.SettingsRepository
	orders   service.OrderRepository
	carts    service.CartRepository
	stats    service.StatsStore
	closers  []func() error
}

func (r *repositories) close() {
	for _, closeFn := range r.closers {
		if err := closeFn(); err != nil {
			log.WithError(err).Warn("failed to close backend")
		}
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	memory := storage.NewMemoryStore()
	repos := &repositories{catalog: memory, settings: memory, orders: memory, carts: memory, stats: memory}

	if cfg.PostgresEnabled() {
		db := config.MustInitPostgres(cfg)
		repos.closers = append(repos.closers, db.Close)
		pg := storage.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		if err := pg.Seed(ctx); err != nil {
			return nil, err
		}
		repos.catalog, repos.settings, repos.orders = pg, pg, pg
		log.WithField("host", cfg.DBHost).Info("using postgres storage")
	} else {
		log.Warn("DB_HOST not set, catalog and orders are kept in memory")
	}

	if cfg.RedisEnabled() {
		rdb := config.MustInitRedis(cfg)
		repos.closers = append(repos.closers, rdb.Close)
		repos.carts = storage.NewRedisCartStore(rdb, cfg.CartTTL)
		repos.stats = storage.NewRedisStatsStore(rdb)
		log.WithField("addr", cfg.RedisAddr).Info("using redis for carts and statistics")
	}

	return repos, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	var publisher service.EventPublisher = service.InlinePublisher{Aggregator: service.NewAggregator(nil, repos.stats)}
	if cfg.KafkaEnabled() {
		writer := config.NewKafkaWriter(cfg)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	}

	dispatcher := service.NewDispatcher(cfg.Workers, cfg.QueueSize, cfg.WebhookTimeout)
	httpClient := &http.Client{Timeout: cfg.WebhookTimeout}

	catalog := service.NewCatalogService(repos.catalog)
	settings := service.NewSettingsService(repos.settings)
	locks := service.NewSessionLocks()
	carts := service.NewCartService(repos.carts, repos.catalog, locks)
	orders := service.NewOrderService(service.OrderServiceConfig{
		Orders:    repos.orders,
		Carts:     repos.carts,
		Settings:  repos.settings,
		Notifier:  client.NewWebhookNotifier(httpClient),
		Tasks:     dispatcher,
		Publisher: publisher,
		QR:        service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL},
		Locks:     locks,
	})
	completer := client.NewCompletionClient(&http.Client{}, cfg.CompletionURL, cfg.CompletionAPIKey, cfg.CompletionModel)
	assistant := service.NewAssistantService(completer, repos.catalog, repos.settings, cfg.AssistantTimeout)
	stats := service.NewStatsService(repos.stats, repos.catalog)

	handler := httpapi.NewHandler(catalog, settings, carts, orders, assistant, stats)
	handler.AdminToken = cfg.AdminToken
	handler.UploadDir = cfg.UploadDir
	if cfg.AdminToken == "" {
		log.Warn("ADMIN_TOKEN not set, admin routes are locked")
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return dispatcher.Run(ctx)
	})
	group.Go(func() error {
		return httpapi.StartServer(ctx, cfg.HTTPAddr, httpapi.NewRouter(handler))
	})
	if err := group.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func aggregate(ctx context.Context, cfg *config.Config) error {
	if !cfg.KafkaEnabled() {
		return errors.New("aggregate requires KAFKA_BROKER")
	}
	if !cfg.RedisEnabled() {
		return errors.New("aggregate requires REDIS_ADDR")
	}

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()
	reader := config.NewKafkaReader(cfg)
	defer reader.Close()

	return service.NewAggregator(reader, storage.NewRedisStatsStore(rdb)).Start(ctx)
}

func migrate(ctx context.Context, cfg *config.Config) error {
	if !cfg.PostgresEnabled() {
		return errors.New("migrate requires DB_HOST")
	}
	db := config.MustInitPostgres(cfg)
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.Seed(ctx); err != nil {
		return err
	}
	log.Info("schema ready")
	return nil
}
