package agent

import (
	"context"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FilterKeys are the query parameters read by the admin list.
var FilterKeys = []string{"status", "verified"}

var agentTriage = triage.Config[AgentResponse]{
	Search: []func(AgentResponse) string{
		func(a AgentResponse) string { return a.Title },
		func(a AgentResponse) string { return a.Brokerage },
	},
	Filters: map[string]func(AgentResponse) string{
		"status": func(a AgentResponse) string { return a.Status.Value },
		"verified": func(a AgentResponse) string {
			if a.Verified {
				return "true"
			}
			return "false"
		},
	},
}

// Service lists approved agents for the public site.
type Service interface {
	ListApproved(ctx context.Context, limit int) ([]AgentResponse, error)
}

type service struct {
	repo   PublicRepository
	logger *zap.Logger
}

func NewService(repo PublicRepository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) ListApproved(ctx context.Context, limit int) ([]AgentResponse, error) {
	rows, err := s.repo.ListApproved(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list approved agents", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve agents.")
	}
	return toResponses(rows), nil
}

// AdminService backs the admin agents screen.
type AdminService interface {
	List(ctx context.Context, q triage.Query) ([]AgentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*AgentResponse, error)
	Create(ctx context.Context, req AgentRequest) (*AgentResponse, error)
	Update(ctx context.Context, id uuid.UUID, patch []byte) (*AgentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	repo   Repository
	logger *zap.Logger
}

func NewAdminService(repo Repository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

func (s *adminService) internal(msg string, err error, fields ...zap.Field) error {
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	return common.ErrInternalServer.WithDetails(msg + ".")
}

func (s *adminService) List(ctx context.Context, q triage.Query) ([]AgentResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal("Could not retrieve agents", err)
	}
	return agentTriage.Apply(toResponses(rows), q).Items, nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*AgentResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve agent", err, zap.String("agentID", id.String()))
	}
	out := ToAgentResponse(row)
	return &out, nil
}

func (s *adminService) Create(ctx context.Context, req AgentRequest) (*AgentResponse, error) {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return nil, common.BindingError(err)
	}
	row := &Agent{}
	req.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.internal("Could not create agent", err)
	}
	s.logger.Info("Agent created", zap.String("agentID", row.ID.String()))
	out := ToAgentResponse(row)
	return &out, nil
}

// Update accepts a full or partial body. Absent fields keep their stored value.
func (s *adminService) Update(ctx context.Context, id uuid.UUID, patch []byte) (*AgentResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve agent", err, zap.String("agentID", id.String()))
	}
	req, err := triage.Merge(requestFrom(row), patch)
	if err != nil {
		return nil, err
	}
	wasApproved := row.Approved
	req.apply(row)
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, s.internal("Could not update agent", err, zap.String("agentID", id.String()))
	}
	if wasApproved != row.Approved {
		s.logger.Info("Agent approval changed", zap.String("agentID", id.String()), zap.Bool("approved", row.Approved))
	}
	out := ToAgentResponse(row)
	return &out, nil
}

func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.internal("Could not delete agent", err, zap.String("agentID", id.String()))
	}
	s.logger.Info("Agent deleted", zap.String("agentID", id.String()))
	return nil
}

func toResponses(rows []Agent) []AgentResponse {
	out := make([]AgentResponse, len(rows))
	for i := range rows {
		out[i] = ToAgentResponse(&rows[i])
	}
	return out
}
