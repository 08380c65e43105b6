//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/Boltflix/oh-my-freud-backend/internal/bootstrap"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/health"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/inlineedit"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/interpretation"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/wellness"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/config"
	httpiface "github.com/Boltflix/oh-my-freud-backend/internal/interface/http"
	"github.com/Boltflix/oh-my-freud-backend/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChatClient,
		provideTokenCounter,
		provideCompletionConfig,
		provideDefaultLanguage,
		provideInterpretationConfig,
		provideWellnessConfig,
		provideBillingConfig,
		provideInlineEditConfig,
		provideStripeGateway,
		provideSubscriptionRepository,
		provideEventStore,
		provideEditStore,
		provideHealthIntegrations,
		completion.NewCompleter,
		interpretation.LoadCatalog,
		interpretation.NewService,
		wellness.LoadCatalog,
		wellness.NewService,
		billing.NewService,
		inlineedit.NewService,
		health.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
