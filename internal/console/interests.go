package console

import (
	"context"
	"net/http"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/interest"
	"estate_leads_backend/internal/status"
	"estate_leads_backend/internal/triage"

	"github.com/google/uuid"
)

// InterestsScreen is the admin download-interests list.
type InterestsScreen struct {
	client *Client
	Rows   *triage.Store[interest.InterestResponse]
	now    func() time.Time
}

func NewInterestsScreen(client *Client) *InterestsScreen {
	return &InterestsScreen{client: client, Rows: triage.NewStore[interest.InterestResponse](), now: time.Now}
}

func (s *InterestsScreen) Load(ctx context.Context) common.Result[[]interest.InterestResponse] {
	var body struct {
		Interests []interest.InterestResponse `json:"download_interests"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/admin/download-interests", nil, &body); err != nil {
		return common.Failure[[]interest.InterestResponse](err)
	}
	s.Rows.Replace(body.Interests)
	return common.Success(body.Interests)
}

// SetStatus moves the row locally, then sends {id, status}.
func (s *InterestsScreen) SetStatus(ctx context.Context, id uuid.UUID, next string) common.Result[interest.InterestResponse] {
	if err := status.DownloadInterest.Validate(next); err != nil {
		return common.Failure[interest.InterestResponse](err)
	}
	undo, ok := s.Rows.Patch(id, func(r *interest.InterestResponse) { *r = r.WithStatus(next, s.now()) })
	if !ok {
		return common.Failure[interest.InterestResponse](common.ErrNotFound.WithDetails("Download interest is not on this screen."))
	}

	var body struct {
		Interest interest.InterestResponse `json:"download_interest"`
	}
	err := s.client.do(ctx, http.MethodPut, "/api/admin/download-interests", interest.StatusUpdate{ID: id, Status: next}, &body)
	if err != nil {
		undo()
		return common.Failure[interest.InterestResponse](err)
	}
	s.Rows.Upsert(body.Interest)
	return common.Success(body.Interest)
}

// Detail reads the row from local state.
func (s *InterestsScreen) Detail(id uuid.UUID) (interest.InterestResponse, bool) {
	return s.Rows.Get(id)
}
