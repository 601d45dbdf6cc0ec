package question

import (
	"context"
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

// FilterKeys are the query parameters read by the admin list.
var FilterKeys = []string{"status", "category"}

var questionTriage = triage.Config[QuestionResponse]{
	Search: []func(QuestionResponse) string{
		func(q QuestionResponse) string { return q.Subject },
		func(q QuestionResponse) string { return q.Message },
	},
	Filters: map[string]func(QuestionResponse) string{
		"status":   func(q QuestionResponse) string { return q.Status },
		"category": func(q QuestionResponse) string { return q.Category },
	},
}

// Service is the customer side: asking and listing one's own questions. It is
// also the submitter of the customer-question intake form.
type Service interface {
	intake.Submitter
	Ask(ctx context.Context, profileID uuid.UUID, req CreateRequest) (*QuestionResponse, error)
	ListMine(ctx context.Context, profileID uuid.UUID) ([]QuestionResponse, error)
}

type service struct {
	repo     CustomerRepository
	notifier notification.Recorder
	logger   *zap.Logger
}

func NewService(repo CustomerRepository, notifier notification.Recorder, logger *zap.Logger) Service {
	return &service{repo: repo, notifier: notifier, logger: logger}
}

func (s *service) Ask(ctx context.Context, profileID uuid.UUID, req CreateRequest) (*QuestionResponse, error) {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return nil, common.BindingError(err)
	}
	q, err := s.create(ctx, profileID, req)
	if err != nil {
		return nil, err
	}
	out := ToQuestionResponse(q)
	return &out, nil
}

func (s *service) create(ctx context.Context, profileID uuid.UUID, req CreateRequest) (*Question, error) {
	category := req.Category
	if category == "" {
		category = "general"
	}
	q := &Question{
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		Category:  category,
		Status:    "pending",
		ProfileID: profileID,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		s.logger.Error("Failed to create question", zap.String("profileID", profileID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not save your question.")
	}
	s.notifier.Record(ctx, notification.KindCustomerQuestion, q.ID, "New customer question: "+q.Subject)
	return q, nil
}

func (s *service) ListMine(ctx context.Context, profileID uuid.UUID) ([]QuestionResponse, error) {
	rows, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		s.logger.Error("Failed to list questions", zap.String("profileID", profileID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve your questions.")
	}
	return toResponses(rows), nil
}

func (s *service) SubmitIntake(ctx context.Context, sub intake.Submission) (intake.Created, error) {
	if sub.ProfileID == nil {
		return intake.Created{}, common.ErrUnauthorized.WithDetails("Sign in to ask a question.")
	}
	req := CreateRequest{
		Subject:  sub.Values.String("subject"),
		Message:  sub.Values.String("message"),
		Category: sub.Values.String("category"),
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return intake.Created{}, common.BindingError(err)
	}
	q, err := s.create(ctx, *sub.ProfileID, req)
	if err != nil {
		return intake.Created{}, err
	}
	return intake.Created{Entity: "customer_question", ID: q.ID, Redirect: "/account/questions"}, nil
}

// AdminService backs the admin questions screen.
type AdminService interface {
	List(ctx context.Context, q triage.Query) ([]QuestionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*QuestionResponse, error)
	Update(ctx context.Context, id uuid.UUID, patch []byte) (*QuestionResponse, error)
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

func (s *adminService) List(ctx context.Context, q triage.Query) ([]QuestionResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal("Could not retrieve questions", err)
	}
	return questionTriage.Apply(toResponses(rows), q).Items, nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*QuestionResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve question", err, zap.String("questionID", id.String()))
	}
	out := ToQuestionResponse(row)
	return &out, nil
}

// Update merges status and answer into the stored question. A new answer stamps
// answered_at and moves a pending question to answered unless the body names a
// status itself.
func (s *adminService) Update(ctx context.Context, id uuid.UUID, patch []byte) (*QuestionResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve question", err, zap.String("questionID", id.String()))
	}
	req, err := triage.Merge(UpdateRequest{Status: row.Status, Answer: row.Answer}, patch)
	if err != nil {
		return nil, err
	}
	req.Answer = strings.TrimSpace(req.Answer)
	if err := status.Question.Validate(req.Status); err != nil {
		return nil, err
	}

	if req.Answer != "" && req.Answer != row.Answer {
		now := s.now()
		row.AnsweredAt = &now
		if row.Status == "pending" && !triage.Present(patch, "status") {
			req.Status = "answered"
		}
	}
	row.Status = req.Status
	row.Answer = req.Answer

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, s.internal("Could not update question", err, zap.String("questionID", id.String()))
	}
	s.logger.Info("Question updated", zap.String("questionID", id.String()), zap.String("status", row.Status))
	out := ToQuestionResponse(row)
	return &out, nil
}

func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.internal("Could not delete question", err, zap.String("questionID", id.String()))
	}
	return nil
}

func toResponses(rows []Question) []QuestionResponse {
	out := make([]QuestionResponse, len(rows))
	for i := range rows {
		out[i] = ToQuestionResponse(&rows[i])
	}
	return out
}
