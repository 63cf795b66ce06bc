package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-engine/internal/api/http"
	"github.com/spec-kit/support-engine/internal/api/http/handlers"
	"github.com/spec-kit/support-engine/internal/catalog"
	"github.com/spec-kit/support-engine/internal/compliance"
	"github.com/spec-kit/support-engine/internal/config"
	"github.com/spec-kit/support-engine/internal/dispatch"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/faq"
	"github.com/spec-kit/support-engine/internal/nlp"
	"github.com/spec-kit/support-engine/internal/observability"
	"github.com/spec-kit/support-engine/internal/persistence"
	"github.com/spec-kit/support-engine/internal/render"
	"github.com/spec-kit/support-engine/internal/repository"
	"github.com/spec-kit/support-engine/internal/service"
	"github.com/spec-kit/support-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	bundle, err := catalog.Load(cfg.Data)
	if err != nil {
		logger.Fatal("failed to load data catalogs", zap.Error(err))
	}

	store, healthDeps, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init ticket store", zap.Error(err))
	}
	defer cleanup()

	var embedder nlp.Embedder
	if cfg.OpenAI.APIKey != "" {
		embedder = nlp.NewOpenAIEmbedder(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set; semantic layers run degraded")
	}

	var moodModel nlp.MoodModel
	if cfg.Data.MoodModelPath != "" && embedder != nil {
		moodModel, err = nlp.LoadLinearMoodModel(cfg.Data.MoodModelPath, embedder)
		if err != nil {
			logger.Warn("mood model unavailable; falling back to lexicon", zap.Error(err))
		}
	}

	intents := nlp.NewIntentClassifier(ctx, embedder, nlp.DefaultIntentAnchors, cfg.Engine.IntentFloor, logger)
	moods := nlp.NewMoodClassifier(ctx, moodModel, embedder, nlp.DefaultMoodAnchors, cfg.Engine.MoodMinProb, cfg.Engine.MoodAnchorFloor, logger)
	faqEngine := faq.NewEngine(ctx, embedder, bundle.KnowledgeBase, logger)

	renderer, err := render.NewRenderer(logger)
	if err != nil {
		logger.Fatal("failed to parse response templates", zap.Error(err))
	}

	var reviewer compliance.Reviewer = compliance.PassthroughReviewer{}
	if cfg.OpenAI.ReviewEnabled && cfg.OpenAI.APIKey != "" {
		reviewer = compliance.NewOpenAIReviewer(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(logger, nil).Register(dispatcher)

	flow := service.NewFlowService(service.FlowDependencies{
		Store:        store,
		Intents:      intents,
		Moods:        moods,
		FAQ:          faqEngine,
		Dispatcher:   dispatch.NewDispatcher(bundle.IntentRules, bundle.ReferenceData),
		Renderer:     renderer,
		Reviewer:     reviewer,
		Rules:        bundle.IntentRules,
		Events:       dispatcher,
		Refs:         bundle.ReferenceData,
		Logger:       logger,
		Metrics:      metrics,
		FAQThreshold: cfg.Engine.FAQThreshold,
	})
	admin := service.NewTicketAdminService(store, dispatcher, logger, metrics)

	sweeper := worker.NewMaintenanceWorker(store, dispatcher, logger, metrics, cfg.Maintenance.Schedule, cfg.Maintenance.IdleTTL())
	if err := sweeper.Start(ctx); err != nil {
		logger.Fatal("failed to start maintenance worker", zap.Error(err))
	}
	defer sweeper.Stop()

	go serveMetrics(cfg.Metrics.Addr, metrics, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthDeps),
		Messages: handlers.NewMessagesHandler(flow),
		Tickets:  handlers.NewTicketsHandler(admin),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildStore selects the ticket store backend and returns it along with
// its readiness checks and a cleanup func.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.TicketStore, map[string]handlers.Pinger, func(), error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, nil, nil, err
			}
		}
		store := repository.NewPostgresStore(pg.PoolHandle())
		return store, map[string]handlers.Pinger{"postgres": pg}, pg.Close, nil

	case config.StoreRedis:
		rds := persistence.NewRedis(cfg.Redis, logger)
		store := repository.NewRedisStore(rds.Client, cfg.Redis.KeyPrefix)
		return store, map[string]handlers.Pinger{"redis": rds}, rds.Close, nil

	default:
		store, err := repository.NewFileStore(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, map[string]handlers.Pinger{}, func() {}, nil
	}
}

func serveMetrics(addr string, metrics *observability.Metrics, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	logger.Info("metrics listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener stopped", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
