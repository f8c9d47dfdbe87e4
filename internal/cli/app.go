package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"eino_grocery_bot/internal/config"
	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/internal/knowledge"
	"eino_grocery_bot/internal/metrics"
	"eino_grocery_bot/internal/nodes"
	"eino_grocery_bot/internal/storage"
	"eino_grocery_bot/src"
	"eino_grocery_bot/src/conversation"
	"eino_grocery_bot/src/llm/fallback"
	"eino_grocery_bot/src/logger"
)

// App is the fully wired bot shared by every command
type App struct {
	Config     *src.Config
	Processor  *core.Processor
	Unanswered *storage.JSONUnansweredLog
	// History is nil unless REDIS_URL is set
	History  conversation.Repository
	Registry *prometheus.Registry

	redis *redis.Client
}

// NewApp loads the knowledge base and wires the pipeline. A knowledge base
// that cannot be loaded is fatal; Redis and the fallback model degrade.
func NewApp(ctx context.Context, cfg *src.Config) (*App, error) {
	coreConfig, err := config.BuildCoreConfig(cfg.BotConfig)
	if err != nil {
		return nil, err
	}

	kb, err := knowledge.Load(cfg.BotConfig.FAQFile, cfg.BotConfig.CatalogFile, coreConfig.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	faqs, categories, items, festivals := kb.Stats()
	logger.Info().
		Int("faqs", faqs).
		Int("categories", categories).
		Int("items", items).
		Int("festivals", festivals).
		Msg("📚 Knowledge base loaded")

	unanswered, err := storage.NewJSONUnansweredLog(cfg.BotConfig.UnansweredFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open unanswered log: %w", err)
	}

	app := &App{
		Config:     cfg,
		Unanswered: unanswered,
		Registry:   prometheus.NewRegistry(),
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var contexts core.ContextStore = storage.NewMemoryContextStore(cfg.SessionConfig.TTL)
	sinks := []conversation.Sink{conversation.NewLogSink(nil)}
	if cfg.SessionConfig.RedisURL != "" {
		client, err := storage.NewRedisClient(ctx, cfg.SessionConfig.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, keeping sessions in memory")
		} else {
			app.redis = client
			contexts = storage.NewRedisContextStore(client, cfg.SessionConfig.TTL)
			repo := conversation.NewRedisRepository(client, cfg.SessionConfig.TTL)
			app.History = repo
			sinks = append(sinks, repo)
			logger.Info().Msg("✅ Sessions and transcripts stored in Redis")
		}
	}

	chatModel, err := fallback.NewChatModel(ctx, cfg.LLMConfig)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.LLMConfig.Provider).Msg("Fallback model unavailable")
		chatModel = nil
	}
	gateway, err := fallback.NewGateway(ctx, chatModel, config.BuildGatewayConfig(cfg.BotConfig, cfg.LLMConfig))
	if err != nil {
		app.Close()
		return nil, err
	}
	if !gateway.Enabled() {
		logger.Warn().Msg("Fallback model disabled, unmatched questions get the apology")
	}

	app.Processor = core.NewProcessor(coreConfig, contexts, unanswered,
		core.WithTranscript(conversation.NewService(sinks...)),
		core.WithMetrics(metrics.New(app.Registry)),
	)
	if err := registerNodes(app.Processor, kb, coreConfig, gateway); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

func registerNodes(p *core.Processor, kb *knowledge.KnowledgeBase, coreConfig core.Config, gateway nodes.Asker) error {
	bindings := []struct {
		state core.State
		node  core.Node
	}{
		{core.StateGreetingCheck, nodes.NewGreetingNode(coreConfig)},
		{core.StateFAQ, nodes.NewFAQNode(kb, coreConfig)},
		{core.StateCatalog, nodes.NewCatalogNode(kb, coreConfig)},
		{core.StateFestival, nodes.NewFestivalNode(kb)},
		{core.StateContextFollowup, nodes.NewFollowupNode(kb)},
		{core.StateFallback, nodes.NewFallbackNode(gateway)},
	}

	for _, b := range bindings {
		if err := p.AddNode(b.state, b.node); err != nil {
			return fmt.Errorf("failed to add %s node: %w", b.state, err)
		}
	}
	return nil
}

// Close releases the Redis connection, if any
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
