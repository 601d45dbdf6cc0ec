package careers

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
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var (
	PostingFilterKeys     = []string{"status", "department", "type"}
	ApplicationFilterKeys = []string{"status", "job_posting_id"}
)

var postingTriage = triage.Config[PostingResponse]{
	Search: []func(PostingResponse) string{
		func(p PostingResponse) string { return p.Title },
		func(p PostingResponse) string { return p.Department },
	},
	Filters: map[string]func(PostingResponse) string{
		"status":     func(p PostingResponse) string { return p.Status },
		"department": func(p PostingResponse) string { return p.Department },
		"type":       func(p PostingResponse) string { return p.Type },
	},
}

var applicationTriage = triage.Config[ApplicationResponse]{
	Search: []func(ApplicationResponse) string{
		func(a ApplicationResponse) string { return a.FullName },
		func(a ApplicationResponse) string { return a.JobTitle },
	},
	Filters: map[string]func(ApplicationResponse) string{
		"status":         func(a ApplicationResponse) string { return a.Status },
		"job_posting_id": func(a ApplicationResponse) string { return a.JobPostingID.String() },
	},
}

// Service is the public careers page and the submitter of the
// careers-application intake form.
type Service interface {
	intake.Submitter
	ListActive(ctx context.Context) ([]PostingResponse, error)
	Get(ctx context.Context, idOrSlug string) (*PostingResponse, error)
}

type service struct {
	repo     PublicRepository
	notifier notification.Recorder
	logger   *zap.Logger
}

func NewService(repo PublicRepository, notifier notification.Recorder, logger *zap.Logger) Service {
	return &service{repo: repo, notifier: notifier, logger: logger}
}

func (s *service) ListActive(ctx context.Context) ([]PostingResponse, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list active job postings", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve job postings.")
	}
	out := make([]PostingResponse, len(rows))
	for i := range rows {
		out[i] = ToPostingResponse(&rows[i])
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, idOrSlug string) (*PostingResponse, error) {
	p, err := s.repo.FindActive(ctx, idOrSlug)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to load job posting", zap.String("posting", idOrSlug), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve job posting.")
	}
	out := ToPostingResponse(p)
	return &out, nil
}

// SubmitIntake stores a careers application against an active posting.
func (s *service) SubmitIntake(ctx context.Context, sub intake.Submission) (intake.Created, error) {
	v := sub.Values
	posting, err := s.repo.FindActive(ctx, v.String("job_posting_id"))
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Is(common.ErrNotFound) {
			return intake.Created{}, common.NewValidationAPIError(map[string]string{
				"job_posting_id": "This position is no longer open.",
			})
		}
		s.logger.Error("Failed to load job posting for application", zap.Error(err))
		return intake.Created{}, common.ErrInternalServer.WithDetails("Could not submit the application.")
	}

	resumes := sub.FileURLs("resume")
	if len(resumes) == 0 {
		return intake.Created{}, common.NewValidationAPIError(map[string]string{"resume": "A résumé is required."})
	}
	a := &Application{
		JobPostingID: posting.ID,
		JobTitle:     posting.Title,
		FullName:     v.String("full_name"),
		Email:        strings.ToLower(v.String("email")),
		Phone:        v.String("phone"),
		Experience:   v.String("experience"),
		ResumeURL:    resumes[0],
		CoverLetter:  v.String("cover_letter"),
		Status:       "pending",
	}
	if err := s.repo.CreateApplication(ctx, a); err != nil {
		s.logger.Error("Failed to create application", zap.String("postingID", posting.ID.String()), zap.Error(err))
		return intake.Created{}, common.ErrInternalServer.WithDetails("Could not submit the application.")
	}
	s.notifier.Record(ctx, notification.KindApplication, a.ID, fmt.Sprintf("%s applied for %s", a.FullName, a.JobTitle))

	return intake.Created{
		Entity:   "job_application",
		ID:       a.ID,
		Redirect: "/careers/thank-you?ref=" + sub.Reference,
	}, nil
}

// AdminService backs the admin jobs and applications screens.
type AdminService interface {
	ListPostings(ctx context.Context, q triage.Query) ([]PostingResponse, error)
	CreatePosting(ctx context.Context, req PostingRequest) (*PostingResponse, error)
	UpdatePosting(ctx context.Context, id uuid.UUID, patch []byte) (*PostingResponse, error)
	DeletePosting(ctx context.Context, id uuid.UUID) error
	ArchiveStalePostings(ctx context.Context, lifespan time.Duration) (int64, error)

	ListApplications(ctx context.Context, q triage.Query) ([]ApplicationResponse, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, patch []byte) (*ApplicationResponse, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
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

func (s *adminService) ListPostings(ctx context.Context, q triage.Query) ([]PostingResponse, error) {
	rows, err := s.repo.ListPostings(ctx)
	if err != nil {
		return nil, s.internal("Could not retrieve job postings", err)
	}
	out := make([]PostingResponse, len(rows))
	for i := range rows {
		out[i] = ToPostingResponse(&rows[i])
	}
	return postingTriage.Apply(out, q).Items, nil
}

func (s *adminService) CreatePosting(ctx context.Context, req PostingRequest) (*PostingResponse, error) {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return nil, common.BindingError(err)
	}
	if req.Status != "" {
		if err := status.JobPosting.Validate(req.Status); err != nil {
			return nil, err
		}
	}
	p := &JobPosting{PostedAt: s.now()}
	applyPosting(req, p)
	source := req.Slug
	if source == "" {
		source = req.Title
	}
	var err error
	if p.Slug, err = s.uniqueSlug(ctx, source, uuid.Nil); err != nil {
		return nil, s.internal("Could not create job posting", err)
	}
	if err := s.repo.CreatePosting(ctx, p); err != nil {
		return nil, s.internal("Could not create job posting", err)
	}
	s.logger.Info("Job posting created", zap.String("postingID", p.ID.String()), zap.String("slug", p.Slug))
	out := ToPostingResponse(p)
	return &out, nil
}

func (s *adminService) UpdatePosting(ctx context.Context, id uuid.UUID, patch []byte) (*PostingResponse, error) {
	p, err := s.repo.FindPosting(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve job posting", err, zap.String("postingID", id.String()))
	}
	req, err := triage.Merge(ToPostingResponse(p).request(), patch)
	if err != nil {
		return nil, err
	}
	if err := status.JobPosting.Validate(req.Status); err != nil {
		return nil, err
	}
	wasArchived := p.Status == PostingArchived
	applyPosting(req, p)
	if req.Slug != "" && slug.Make(req.Slug) != p.Slug {
		if p.Slug, err = s.uniqueSlug(ctx, req.Slug, p.ID); err != nil {
			return nil, s.internal("Could not update job posting", err)
		}
	}
	if wasArchived && p.Status == PostingActive {
		p.PostedAt = s.now()
	}
	if err := s.repo.SavePosting(ctx, p); err != nil {
		return nil, s.internal("Could not update job posting", err, zap.String("postingID", id.String()))
	}
	out := ToPostingResponse(p)
	return &out, nil
}

func (s *adminService) DeletePosting(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePosting(ctx, id); err != nil {
		return s.internal("Could not delete job posting", err, zap.String("postingID", id.String()))
	}
	s.logger.Info("Job posting deleted", zap.String("postingID", id.String()))
	return nil
}

// ArchiveStalePostings archives active postings older than lifespan.
func (s *adminService) ArchiveStalePostings(ctx context.Context, lifespan time.Duration) (int64, error) {
	cutoff := s.now().Add(-lifespan)
	n, err := s.repo.ArchivePostedBefore(ctx, cutoff)
	if err != nil {
		return 0, s.internal("Could not archive job postings", err)
	}
	if n > 0 {
		s.logger.Info("Archived stale job postings", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}

func (s *adminService) ListApplications(ctx context.Context, q triage.Query) ([]ApplicationResponse, error) {
	rows, err := s.repo.ListApplications(ctx)
	if err != nil {
		return nil, s.internal("Could not retrieve applications", err)
	}
	out := make([]ApplicationResponse, len(rows))
	for i := range rows {
		out[i] = ToApplicationResponse(&rows[i])
	}
	return applicationTriage.Apply(out, q).Items, nil
}

func (s *adminService) UpdateApplication(ctx context.Context, id uuid.UUID, patch []byte) (*ApplicationResponse, error) {
	a, err := s.repo.FindApplication(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve application", err, zap.String("applicationID", id.String()))
	}
	req, err := triage.Merge(ApplicationStatusUpdate{Status: a.Status}, patch)
	if err != nil {
		return nil, err
	}
	if err := status.Application.Validate(req.Status); err != nil {
		return nil, err
	}
	a.Status = req.Status
	if err := s.repo.SaveApplication(ctx, a); err != nil {
		return nil, s.internal("Could not update application", err, zap.String("applicationID", id.String()))
	}
	out := ToApplicationResponse(a)
	return &out, nil
}

func (s *adminService) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteApplication(ctx, id); err != nil {
		return s.internal("Could not delete application", err, zap.String("applicationID", id.String()))
	}
	return nil
}

func (s *adminService) uniqueSlug(ctx context.Context, source string, self uuid.UUID) (string, error) {
	base := slug.Make(source)
	if base == "" {
		base = "job"
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate, self)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func applyPosting(req PostingRequest, p *JobPosting) {
	p.Title = strings.TrimSpace(req.Title)
	p.Department = req.Department
	p.Location = req.Location
	p.Type = req.Type
	if p.Type == "" {
		p.Type = "full-time"
	}
	p.Description = req.Description
	p.Requirements = req.Requirements
	p.Salary = req.Salary
	p.Status = req.Status
	if p.Status == "" {
		p.Status = PostingActive
	}
}
