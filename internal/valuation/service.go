package valuation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/status"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const statusCompleted = "completed"

// FilterKeys are the query parameters read by the admin list.
var FilterKeys = []string{"status", "property_type"}

var valuationTriage = triage.Config[ValuationResponse]{
	Search: []func(ValuationResponse) string{
		func(v ValuationResponse) string { return v.Location },
	},
	Filters: map[string]func(ValuationResponse) string{
		"status":        func(v ValuationResponse) string { return v.Status },
		"property_type": func(v ValuationResponse) string { return v.PropertyType },
	},
}

// Service is the customer side of valuation requests and the submitter of the
// valuation-request intake form.
type Service interface {
	intake.Submitter
	Request(ctx context.Context, profileID uuid.UUID, req CreateRequest) (*ValuationResponse, error)
	ListMine(ctx context.Context, profileID uuid.UUID) ([]ValuationResponse, error)
}

type service struct {
	repo     CustomerRepository
	notifier notification.Recorder
	logger   *zap.Logger
}

func NewService(repo CustomerRepository, notifier notification.Recorder, logger *zap.Logger) Service {
	return &service{repo: repo, notifier: notifier, logger: logger}
}

func (s *service) Request(ctx context.Context, profileID uuid.UUID, req CreateRequest) (*ValuationResponse, error) {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return nil, common.BindingError(err)
	}
	v, err := s.create(ctx, profileID, req)
	if err != nil {
		return nil, err
	}
	out := ToValuationResponse(v)
	return &out, nil
}

func (s *service) create(ctx context.Context, profileID uuid.UUID, req CreateRequest) (*Valuation, error) {
	v := &Valuation{
		ProfileID:    profileID,
		PropertyType: req.PropertyType,
		Location:     strings.TrimSpace(req.Location),
		Size:         req.Size,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		YearBuilt:    req.YearBuilt,
		Condition:    req.Condition,
		Status:       "pending",
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error("Failed to create valuation request", zap.String("profileID", profileID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not save your valuation request.")
	}
	s.notifier.Record(ctx, notification.KindValuation, v.ID,
		fmt.Sprintf("New valuation request: %s in %s", v.PropertyType, v.Location))
	return v, nil
}

func (s *service) ListMine(ctx context.Context, profileID uuid.UUID) ([]ValuationResponse, error) {
	rows, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		s.logger.Error("Failed to list valuations", zap.String("profileID", profileID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve your valuations.")
	}
	return toResponses(rows), nil
}

func (s *service) SubmitIntake(ctx context.Context, sub intake.Submission) (intake.Created, error) {
	if sub.ProfileID == nil {
		return intake.Created{}, common.ErrUnauthorized.WithDetails("Sign in to request a valuation.")
	}
	v := sub.Values
	req := CreateRequest{
		PropertyType: v.String("property_type"),
		Location:     v.String("location"),
		Condition:    v.String("condition"),
		Notes:        v.String("notes"),
	}
	req.Size, _ = v.Float("size")
	req.Bedrooms, _ = v.Int("bedrooms")
	req.Bathrooms, _ = v.Int("bathrooms")
	req.YearBuilt, _ = v.Int("year_built")
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return intake.Created{}, common.BindingError(err)
	}
	row, err := s.create(ctx, *sub.ProfileID, req)
	if err != nil {
		return intake.Created{}, err
	}
	return intake.Created{Entity: "property_valuation", ID: row.ID, Redirect: "/account/valuations"}, nil
}

// AdminService backs the admin valuations screen.
type AdminService interface {
	List(ctx context.Context, q triage.Query) ([]ValuationResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*ValuationResponse, error)
	Update(ctx context.Context, id uuid.UUID, patch []byte) (*ValuationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	repo            Repository
	defaultCurrency string
	logger          *zap.Logger
	now             func() time.Time
}

func NewAdminService(repo Repository, defaultCurrency string, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, defaultCurrency: defaultCurrency, logger: logger, now: time.Now}
}

func (s *adminService) internal(msg string, err error, fields ...zap.Field) error {
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	return common.ErrInternalServer.WithDetails(msg + ".")
}

func (s *adminService) List(ctx context.Context, q triage.Query) ([]ValuationResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal("Could not retrieve valuations", err)
	}
	return valuationTriage.Apply(toResponses(rows), q).Items, nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*ValuationResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve valuation", err, zap.String("valuationID", id.String()))
	}
	out := ToValuationResponse(row)
	return &out, nil
}

// Update merges status, estimate, currency and notes. completed_at is stamped on
// the first move to completed and kept from then on.
func (s *adminService) Update(ctx context.Context, id uuid.UUID, patch []byte) (*ValuationResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve valuation", err, zap.String("valuationID", id.String()))
	}
	req, err := triage.Merge(UpdateRequest{
		Status:         row.Status,
		EstimatedValue: row.EstimatedValue,
		Currency:       row.Currency,
		Notes:          row.Notes,
	}, patch)
	if err != nil {
		return nil, err
	}
	if err := status.Valuation.Validate(req.Status); err != nil {
		return nil, err
	}

	row.Status = req.Status
	row.EstimatedValue = req.EstimatedValue
	row.Currency = strings.ToUpper(req.Currency)
	row.Notes = req.Notes
	if row.EstimatedValue != nil && row.Currency == "" {
		row.Currency = s.defaultCurrency
	}
	if row.Status == statusCompleted && row.CompletedAt == nil {
		now := s.now()
		row.CompletedAt = &now
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, s.internal("Could not update valuation", err, zap.String("valuationID", id.String()))
	}
	s.logger.Info("Valuation updated", zap.String("valuationID", id.String()), zap.String("status", row.Status))
	out := ToValuationResponse(row)
	return &out, nil
}

func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.internal("Could not delete valuation", err, zap.String("valuationID", id.String()))
	}
	s.logger.Info("Valuation deleted", zap.String("valuationID", id.String()))
	return nil
}

func toResponses(rows []Valuation) []ValuationResponse {
	out := make([]ValuationResponse, len(rows))
	for i := range rows {
		out[i] = ToValuationResponse(&rows[i])
	}
	return out
}
