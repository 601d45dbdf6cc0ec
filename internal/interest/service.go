package interest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/platform/crypto"
	"estate_leads_backend/internal/property"
	"estate_leads_backend/internal/status"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// tokenBytes is the randomness of a download token.
const tokenBytes = 24

// FilterKeys are the query parameters read by the admin list.
var FilterKeys = []string{"status", "download_type"}

var interestTriage = triage.Config[InterestResponse]{
	Search: []func(InterestResponse) string{
		func(r InterestResponse) string { return r.FullName },
		func(r InterestResponse) string { return r.Email },
	},
	Filters: map[string]func(InterestResponse) string{
		"status":        func(r InterestResponse) string { return r.Status },
		"download_type": func(r InterestResponse) string { return r.DownloadType },
	},
}

// PropertyLookup resolves the published property a lead is interested in.
type PropertyLookup interface {
	FindPublished(ctx context.Context, idOrSlug string) (*property.Property, error)
}

// Captured is what the public capture returns.
type Captured struct {
	Interest    InterestResponse `json:"download_interest"`
	DownloadURL string           `json:"download_url"`
}

// Service captures leads in front of property downloads. It is also the
// submitter of the download-interest intake form.
type Service interface {
	intake.Submitter
	Capture(ctx context.Context, propertyIDOrSlug string, req CreateRequest) (*Captured, error)
	Resolve(ctx context.Context, token string) (string, error)
}

type service struct {
	repo       PublicRepository
	properties PropertyLookup
	notifier   notification.Recorder
	logger     *zap.Logger
}

func NewService(repo PublicRepository, properties PropertyLookup, notifier notification.Recorder, logger *zap.Logger) Service {
	return &service{repo: repo, properties: properties, notifier: notifier, logger: logger}
}

func (s *service) Capture(ctx context.Context, propertyIDOrSlug string, req CreateRequest) (*Captured, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	p, err := s.properties.FindPublished(ctx, propertyIDOrSlug)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to load property for download interest", zap.String("property", propertyIDOrSlug), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve property.")
	}

	token, err := crypto.GenerateSecureRandomString(tokenBytes)
	if err != nil {
		s.logger.Error("Failed to generate download token", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not prepare the download.")
	}
	preferred := req.PreferredContact
	if preferred == "" {
		preferred = "email"
	}
	d := &DownloadInterest{
		PropertyID:       p.ID,
		DownloadType:     req.DownloadType,
		FullName:         strings.TrimSpace(req.FullName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            strings.TrimSpace(req.Phone),
		PreferredContact: preferred,
		Budget:           req.Budget,
		FinancingType:    req.FinancingType,
		PreApproved:      req.PreApproved,
		Timeline:         req.Timeline,
		Status:           StatusNew,
		DownloadToken:    token,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("Failed to create download interest", zap.String("propertyID", p.ID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not save your details.")
	}
	d.Property = p

	s.notifier.Record(ctx, notification.KindDownloadInterest, d.ID,
		fmt.Sprintf("%s requested the %s of %s", d.FullName, strings.ReplaceAll(d.DownloadType, "_", " "), p.Title))
	s.logger.Info("Download interest captured", zap.String("interestID", d.ID.String()), zap.String("propertyID", p.ID.String()))

	return &Captured{Interest: ToInterestResponse(d), DownloadURL: DownloadPath(token)}, nil
}

// Resolve maps a download token to the file it unlocks: the first property
// document, or the first image when the property has no documents.
func (s *service) Resolve(ctx context.Context, token string) (string, error) {
	d, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return "", err
		}
		s.logger.Error("Failed to resolve download token", zap.Error(err))
		return "", common.ErrInternalServer
	}
	if d.Property == nil || !d.Property.Published {
		return "", common.ErrNotFound.WithDetails("The property is no longer available.")
	}
	for _, candidates := range [][]string{d.Property.Documents, d.Property.Images} {
		if len(candidates) > 0 {
			return candidates[0], nil
		}
	}
	return "", common.ErrNotFound.WithDetails("No download is available for this property yet.")
}

func (s *service) SubmitIntake(ctx context.Context, sub intake.Submission) (intake.Created, error) {
	v := sub.Values
	req := CreateRequest{
		DownloadType:     v.String("download_type"),
		FullName:         v.String("full_name"),
		Email:            v.String("email"),
		Phone:            v.String("phone"),
		PreferredContact: v.String("preferred_contact"),
		Budget:           v.String("budget"),
		FinancingType:    v.String("financing_type"),
		PreApproved:      v.Bool("pre_approved"),
		Timeline:         v.String("timeline"),
	}
	captured, err := s.Capture(ctx, v.String("property_id"), req)
	if err != nil {
		return intake.Created{}, err
	}
	return intake.Created{Entity: "download_interest", ID: captured.Interest.ID, Redirect: captured.DownloadURL}, nil
}

// DownloadPath is the public route that redeems token.
func DownloadPath(token string) string {
	return "/api/downloads/" + token
}

func validateCreate(req CreateRequest) error {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return common.BindingError(err)
	}
	if req.Timeline != "" && !slices.Contains(Timelines, req.Timeline) {
		return common.NewValidationAPIError(map[string]string{
			"timeline": fmt.Sprintf("The timeline field must be one of: %s.", strings.Join(Timelines, ", ")),
		})
	}
	return nil
}

// AdminService backs the admin download-interests screen.
type AdminService interface {
	List(ctx context.Context, q triage.Query) ([]InterestResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*InterestResponse, error)
	Update(ctx context.Context, id uuid.UUID, patch []byte) (*InterestResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewAdminService(repo Repository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger, now: time.Now}
}

func (s *adminService) internal(msg string, err error, fields ...zap.Field) error {
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	return common.ErrInternalServer.WithDetails(msg + ".")
}

func (s *adminService) List(ctx context.Context, q triage.Query) ([]InterestResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal("Could not retrieve download interests", err)
	}
	out := make([]InterestResponse, len(rows))
	for i := range rows {
		out[i] = ToInterestResponse(&rows[i])
	}
	return interestTriage.Apply(out, q).Items, nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*InterestResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve download interest", err, zap.String("interestID", id.String()))
	}
	out := ToInterestResponse(row)
	return &out, nil
}

// Update merges a status change into the stored lead. Entering contacted,
// qualified or converted for the first time stamps the matching timestamp;
// timestamps are never cleared.
func (s *adminService) Update(ctx context.Context, id uuid.UUID, patch []byte) (*InterestResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve download interest", err, zap.String("interestID", id.String()))
	}
	req, err := triage.Merge(StatusUpdate{ID: row.ID, Status: row.Status}, patch)
	if err != nil {
		return nil, err
	}
	if err := status.DownloadInterest.Validate(req.Status); err != nil {
		return nil, err
	}

	previous := row.Status
	row.Status = req.Status
	stampFirst(row.Status, s.now(), &row.ContactedAt, &row.QualifiedAt, &row.ConvertedAt)
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, s.internal("Could not update download interest", err, zap.String("interestID", id.String()))
	}
	s.logger.Info("Download interest status changed",
		zap.String("interestID", id.String()),
		zap.String("from", previous),
		zap.String("to", row.Status),
	)
	out := ToInterestResponse(row)
	return &out, nil
}

func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.internal("Could not delete download interest", err, zap.String("interestID", id.String()))
	}
	return nil
}
