package app

import (
	"context"

	"estate_leads_backend/internal/agent"
	"estate_leads_backend/internal/careers"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/interest"
	"estate_leads_backend/internal/jobs"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/platform/storage"
	"estate_leads_backend/internal/profile"
	"estate_leads_backend/internal/property"
	"estate_leads_backend/internal/question"
	"estate_leads_backend/internal/valuation"

	"go.uber.org/zap"
)

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&profile.Profile{},
		&agent.Agent{},
		&property.Property{},
		&question.Question{},
		&valuation.Valuation{},
		&interest.DownloadInterest{},
		&careers.JobPosting{},
		&careers.Application{},
		&notification.Notification{},
		&intake.SubmissionRecord{},
	}
}

// Migrate auto-migrates Models on the service tier.
func Migrate(ctx context.Context, db *database.ServiceDB, logger *zap.Logger) error {
	if err := database.Migrate(ctx, db, Models()...); err != nil {
		return err
	}
	logger.Info("Database migrated", zap.Int("tables", len(Models())))
	return nil
}

// NewSubmitters routes each built-in form to the service that stores it.
func NewSubmitters(
	properties property.Service,
	applications careers.Service,
	valuations valuation.Service,
	questions question.Service,
	interests interest.Service,
) intake.Submitters {
	return intake.Submitters{
		intake.FormSellerListing:    properties,
		intake.FormCareers:          applications,
		intake.FormValuation:        valuations,
		intake.FormCustomerQuestion: questions,
		intake.FormDownloadInterest: interests,
	}
}

func NewDraftStore(cfg *config.Config) *intake.DraftStore {
	return intake.NewDraftStore(cfg.IntakeSessionTTL)
}

func NewStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	return storage.New(context.Background(), cfg, logger.Named("storage"))
}

func NewValuationAdminService(repo valuation.Repository, cfg *config.Config, logger *zap.Logger) valuation.AdminService {
	return valuation.NewAdminService(repo, cfg.DefaultCurrency, logger)
}

func NewPropertyLookup(repo property.PublicRepository) interest.PropertyLookup { return repo }

func NewPostingArchiver(admin careers.AdminService) jobs.PostingArchiver { return admin }
