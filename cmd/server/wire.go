// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"estate_leads_backend/internal/agent"
	"estate_leads_backend/internal/app"
	"estate_leads_backend/internal/careers"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/interest"
	"estate_leads_backend/internal/jobs"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/platform/elasticsearch"
	"estate_leads_backend/internal/platform/redis"
	"estate_leads_backend/internal/profile"
	"estate_leads_backend/internal/property"
	"estate_leads_backend/internal/question"
	"estate_leads_backend/internal/session"
	"estate_leads_backend/internal/valuation"

	"github.com/google/wire"
	"go.uber.org/zap"
)

var platformSet = wire.NewSet(
	database.NewPublicDB,
	database.NewServiceDB,
	elasticsearch.NewClient,
	redis.NewClient,
	app.NewStorage,
)

var identitySet = wire.NewSet(
	profile.NewGORMRepository,
	profile.NewService,
	session.NewVerifier,
	session.NewHandler,
)

var leadsSet = wire.NewSet(
	notification.NewGORMWriter,
	notification.NewRecorder,
	notification.NewGORMRepository,
	notification.NewService,
	notification.NewHandler,

	property.NewPresenter,
	property.NewIndexer,
	property.NewGORMPublicRepository,
	property.NewService,
	property.NewHandler,
	property.NewGORMAdminRepository,
	property.NewAdminService,
	property.NewAdminHandler,

	agent.NewGORMPublicRepository,
	agent.NewService,
	agent.NewHandler,
	agent.NewGORMRepository,
	agent.NewAdminService,
	agent.NewAdminHandler,

	question.NewGORMCustomerRepository,
	question.NewService,
	question.NewHandler,
	question.NewGORMRepository,
	question.NewAdminService,
	question.NewAdminHandler,

	valuation.NewGORMCustomerRepository,
	valuation.NewService,
	valuation.NewHandler,
	valuation.NewGORMRepository,
	app.NewValuationAdminService,
	valuation.NewAdminHandler,

	app.NewPropertyLookup,
	interest.NewGORMPublicRepository,
	interest.NewService,
	interest.NewHandler,
	interest.NewGORMRepository,
	interest.NewAdminService,
	interest.NewAdminHandler,

	careers.NewGORMPublicRepository,
	careers.NewService,
	careers.NewHandler,
	careers.NewGORMRepository,
	careers.NewAdminService,
	careers.NewAdminHandler,
)

var intakeSet = wire.NewSet(
	intake.NewBuiltinRegistry,
	app.NewDraftStore,
	intake.NewGuard,
	intake.NewGORMAuditRepository,
	app.NewSubmitters,
	intake.NewService,
	intake.NewHandler,
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config, logger *zap.Logger) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		identitySet,
		leadsSet,
		intakeSet,

		app.NewPostingArchiver,
		jobs.NewPostingArchiveJob,

		wire.Struct(new(app.Handlers), "*"),
		app.NewServer,
	)
	return nil, nil, nil
}
