package console

import (
	"context"
	"fmt"
	"net/http"

	"estate_leads_backend/internal/agent"
	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/triage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AgentsScreen is the admin agents list.
type AgentsScreen struct {
	client *Client
	Rows   *triage.Store[agent.AgentResponse]
}

func NewAgentsScreen(client *Client) *AgentsScreen {
	return &AgentsScreen{client: client, Rows: triage.NewStore[agent.AgentResponse]()}
}

func (s *AgentsScreen) Load(ctx context.Context, limit int) common.Result[[]agent.AgentResponse] {
	var body struct {
		Agents []agent.AgentResponse `json:"agents"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/admin/agents"+encodeQuery(triage.Query{Limit: limit}), nil, &body); err != nil {
		return common.Failure[[]agent.AgentResponse](err)
	}
	s.Rows.Replace(body.Agents)
	return common.Success(body.Agents)
}

// SetApproved flips the row and its badge at once, then saves the full record.
// A failed save puts the previous row back.
func (s *AgentsScreen) SetApproved(ctx context.Context, id uuid.UUID, approved bool) common.Result[agent.AgentResponse] {
	current, ok := s.Rows.Get(id)
	if !ok {
		return common.Failure[agent.AgentResponse](common.ErrNotFound.WithDetails("Agent is not on this screen."))
	}
	undo, _ := s.Rows.Patch(id, func(a *agent.AgentResponse) { *a = a.WithApproved(approved) })

	req := current.Request()
	req.Approved = approved
	var body struct {
		Agent agent.AgentResponse `json:"agent"`
	}
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/agents/%s", id), req, &body); err != nil {
		undo()
		s.client.logger.Info("Agent approval rolled back", zap.String("agentID", id.String()), zap.Error(err))
		return common.Failure[agent.AgentResponse](err)
	}
	s.Rows.Upsert(body.Agent)
	return common.Success(body.Agent)
}

func (s *AgentsScreen) Delete(ctx context.Context, id uuid.UUID) common.Result[uuid.UUID] {
	undo, ok := s.Rows.Remove(id)
	if !ok {
		return common.Failure[uuid.UUID](common.ErrNotFound.WithDetails("Agent is not on this screen."))
	}
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/agents/%s", id), nil, nil); err != nil {
		undo()
		return common.Failure[uuid.UUID](err)
	}
	return common.Success(id)
}
