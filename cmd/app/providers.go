package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/health"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/inlineedit"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/interpretation"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/wellness"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/config"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/editstore"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/eventstore"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/chatgpt"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/tokens"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/stripegw"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/subscriptionrepo"
)

// provideChatClient returns nil when no key is configured; the completer then
// serves every request from the fallback catalog.
func provideChatClient(cfg *config.Config, logger *slog.Logger) completion.ChatClient {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn("openai api key not set, interpretations will use the fallback catalog")
		return nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Error("failed to build chat client, using fallback catalog", "error", err)
		return nil
	}
	logger.Info("chat client enabled", "models", cfg.LLM.Models())
	return client
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) completion.TokenCounter {
	return tokens.NewEstimator(cfg.LLM.Model, logger)
}

func provideCompletionConfig(cfg *config.Config) completion.Config {
	return completion.Config{
		Models:      cfg.LLM.Models(),
		Deadline:    cfg.LLM.Deadline,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
}

func provideDefaultLanguage(cfg *config.Config) locale.Language {
	return cfg.Interpretation.Language()
}

func provideInterpretationConfig(cfg *config.Config) interpretation.Config {
	return cfg.InterpretationPipeline()
}

func provideWellnessConfig(cfg *config.Config, lang locale.Language) wellness.Config {
	return wellness.Config{
		DefaultLanguage: lang,
		Limits:          wellness.DefaultLimits,
		Temperature:     cfg.Wellness.Temperature,
	}
}

func provideBillingConfig(cfg *config.Config) billing.Config {
	prices := make(map[billing.Plan]string)
	if id := strings.TrimSpace(cfg.Billing.MonthlyPriceID); id != "" {
		prices[billing.PlanMonthly] = id
	}
	if id := strings.TrimSpace(cfg.Billing.AnnualPriceID); id != "" {
		prices[billing.PlanAnnual] = id
	}
	return billing.Config{
		FrontendOrigin: cfg.Billing.FrontendOrigin,
		Prices:         prices,
		WebhookSecret:  cfg.Billing.WebhookSecret,
		EventTTL:       cfg.Billing.EventTTL,
	}
}

func provideInlineEditConfig(cfg *config.Config) inlineedit.Config {
	return inlineedit.Config{Enabled: cfg.InlineEdit.Enabled}
}

func provideStripeGateway(cfg *config.Config, logger *slog.Logger) billing.Gateway {
	if strings.TrimSpace(cfg.Billing.SecretKey) == "" {
		logger.Info("stripe secret key not set, checkout disabled")
		return nil
	}
	gw, err := stripegw.New(cfg.Billing.SecretKey, logger)
	if err != nil {
		logger.Error("failed to build stripe gateway, checkout disabled", "error", err)
		return nil
	}
	return gw
}

// provideSubscriptionRepository prefers postgres, then sqlite, then memory.
func provideSubscriptionRepository(cfg *config.Config, logger *slog.Logger) billing.SubscriptionRepository {
	if repo := openPostgres(cfg.Storage.Postgres, logger); repo != nil {
		return repo
	}
	if path := strings.TrimSpace(cfg.Storage.SQLitePath); path != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		repo, err := subscriptionrepo.OpenSQLite(ctx, path)
		if err != nil {
			logger.Error("sqlite unavailable, using memory subscription repository", "path", path, "error", err)
			return subscriptionrepo.NewMemoryRepository()
		}
		logger.Info("sqlite subscription repository enabled", "path", path)
		return repo
	}
	logger.Info("no database configured, using memory subscription repository")
	return subscriptionrepo.NewMemoryRepository()
}

func openPostgres(cfg config.PostgresConfig, logger *slog.Logger) *subscriptionrepo.PostgresRepository {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, skipping postgres", "error", err)
		return nil
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, skipping postgres", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, skipping postgres", "error", err)
		pool.Close()
		return nil
	}
	repo := subscriptionrepo.NewPostgresRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		logger.Error("postgres migration failed, skipping postgres", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres subscription repository enabled")
	return repo
}

func provideEventStore(cfg *config.Config, logger *slog.Logger) billing.EventStore {
	if !cfg.Storage.Valkey.Enabled {
		return eventstore.NewMemoryStore()
	}
	opt, err := buildValkeyOptions(cfg.Storage.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory event store", "error", err)
		return eventstore.NewMemoryStore()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory event store", "error", err)
		return eventstore.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory event store", "error", err)
		client.Close()
		return eventstore.NewMemoryStore()
	}
	logger.Info("valkey event store enabled", "addr", cfg.Storage.Valkey.Addr)
	return eventstore.NewValkeyStore(client, "ohmyfreud:webhook")
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideEditStore(cfg *config.Config, logger *slog.Logger) inlineedit.Store {
	oc := cfg.Storage.ObjectStore
	if !oc.Configured() {
		return editstore.NewMemoryStore()
	}
	store, err := editstore.NewObjectStore(editstore.ObjectStoreConfig{
		Endpoint:  oc.Endpoint,
		AccessKey: oc.AccessKey,
		SecretKey: oc.SecretKey,
		Bucket:    oc.Bucket,
		Region:    oc.Region,
	}, logger)
	if err != nil {
		logger.Error("object store unavailable, using memory edit store", "error", err)
		return editstore.NewMemoryStore()
	}
	logger.Info("object store edit store enabled", "bucket", oc.Bucket)
	return store
}

// provideHealthIntegrations reports the adapters that were actually wired,
// so a failed connection shows up as missing.
func provideHealthIntegrations(chat completion.ChatClient, billingSvc billing.Service, subs billing.SubscriptionRepository, events billing.EventStore, edits inlineedit.Store) health.Integrations {
	status := billingSvc.Status()
	integrations := health.Integrations{
		OpenAI:  chat != nil,
		Stripe:  status.Checkout,
		Webhook: status.Webhook,
	}
	switch subs.(type) {
	case *subscriptionrepo.PostgresRepository, *subscriptionrepo.SQLiteRepository:
		integrations.Database = true
	}
	_, integrations.Cache = events.(*eventstore.ValkeyStore)
	_, integrations.ObjectStore = edits.(*editstore.ObjectStore)
	return integrations
}
