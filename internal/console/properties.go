package console

import (
	"context"
	"net/http"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/property"
	"estate_leads_backend/internal/triage"

	"github.com/google/uuid"
)

// PropertiesScreen is the admin properties list with multi-select bulk actions.
type PropertiesScreen struct {
	client     *Client
	Rows       *triage.Store[property.Card]
	Pagination *common.Pagination
}

func NewPropertiesScreen(client *Client) *PropertiesScreen {
	return &PropertiesScreen{client: client, Rows: triage.NewStore[property.Card]()}
}

func (s *PropertiesScreen) Load(ctx context.Context, q triage.Query) common.Result[[]property.Card] {
	var body struct {
		Properties []property.Card     `json:"properties"`
		Pagination *common.Pagination `json:"pagination"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/admin/properties"+encodeQuery(q), nil, &body); err != nil {
		return common.Failure[[]property.Card](err)
	}
	s.Rows.Replace(body.Properties)
	s.Pagination = body.Pagination
	return common.Success(body.Properties)
}

func (s *PropertiesScreen) Select(ids ...uuid.UUID) { s.Rows.Select(ids...) }

func (s *PropertiesScreen) Toggle(id uuid.UUID) { s.Rows.Toggle(id) }

// ApplyBulk runs action on the selection. Rows change locally first; ids the
// server reports as failed get their previous row back.
func (s *PropertiesScreen) ApplyBulk(ctx context.Context, action string) common.Result[property.BulkResult] {
	ids := s.Rows.Selected()
	if len(ids) == 0 {
		return common.Failure[property.BulkResult](common.ErrBadRequest.WithDetails("Select at least one property."))
	}

	undo := s.applyLocal(action, ids)
	var body struct {
		Bulk property.BulkResult `json:"bulk"`
	}
	if err := s.client.do(ctx, http.MethodPost, "/api/admin/properties/bulk", property.BulkRequest{Action: action, IDs: ids}, &body); err != nil {
		undo()
		s.Rows.Select(ids...)
		return common.Failure[property.BulkResult](err)
	}

	if len(body.Bulk.Failed) > 0 {
		undo()
		s.applyLocal(action, body.Bulk.Succeeded)
	}
	s.Rows.ClearSelection()
	return common.Success(body.Bulk)
}

func (s *PropertiesScreen) applyLocal(action string, ids []uuid.UUID) func() {
	if action == property.BulkDelete {
		_, undo := s.Rows.RemoveMany(ids)
		return undo
	}

	var set func(*property.Card)
	switch action {
	case property.BulkPublish:
		set = func(c *property.Card) { c.Published = true }
	case property.BulkUnpublish:
		set = func(c *property.Card) { c.Published = false }
	case property.BulkFeature:
		set = func(c *property.Card) { c.Featured = true }
	case property.BulkUnfeature:
		set = func(c *property.Card) { c.Featured = false }
	default:
		return func() {}
	}

	undos := make([]func(), 0, len(ids))
	for _, id := range ids {
		if u, ok := s.Rows.Patch(id, set); ok {
			undos = append(undos, u)
		}
	}
	return func() {
		for i := len(undos) - 1; i >= 0; i-- {
			undos[i]()
		}
	}
}
