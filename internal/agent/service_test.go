package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/platform/database/dbtest"
	"estate_leads_backend/internal/status"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAgents(t *testing.T) (Service, AdminService) {
	t.Helper()
	public, svc := dbtest.Open(t, &Agent{})
	return NewService(NewGORMPublicRepository(public), zap.NewNop()),
		NewAdminService(NewGORMRepository(svc), zap.NewNop())
}

func TestToAgentResponse_Badge(t *testing.T) {
	pending := ToAgentResponse(&Agent{Title: "Sara"})
	assert.Equal(t, "Pending", pending.Status.Label)
	assert.Equal(t, status.Yellow, pending.Status.Color)

	approved := pending.WithApproved(true)
	assert.True(t, approved.Approved)
	assert.Equal(t, "Approved", approved.Status.Label)
	assert.Equal(t, status.Green, approved.Status.Color)
	assert.False(t, pending.Approved, "WithApproved must not touch the receiver")
}

func TestAdminService_PartialUpdateKeepsOtherFields(t *testing.T) {
	_, admin := setupAgents(t)
	ctx := dbtest.AdminContext()

	created, err := admin.Create(ctx, AgentRequest{
		Title:           "Omar Haddad",
		Brokerage:       "Marina Homes",
		LicenseNo:       "BRN-1022",
		Rating:          4.5,
		ExperienceYears: 7,
	})
	require.NoError(t, err)
	assert.False(t, created.Approved)

	updated, err := admin.Update(ctx, created.ID, []byte(`{"approved":true,"verified":true}`))
	require.NoError(t, err)
	assert.True(t, updated.Approved)
	assert.True(t, updated.Verified)
	assert.Equal(t, "Marina Homes", updated.Brokerage)
	assert.Equal(t, "BRN-1022", updated.LicenseNo)
	assert.InDelta(t, 4.5, updated.Rating, 0.001)
	assert.Equal(t, "approved", updated.Status.Value)

	_, err = admin.Update(ctx, created.ID, []byte(`{"rating":9}`))
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestAdminService_RequiresServiceTier(t *testing.T) {
	_, admin := setupAgents(t)
	_, err := admin.List(t.Context(), triage.Query{})
	require.Error(t, err)

	_, err = admin.Create(t.Context(), AgentRequest{Title: "Nope"})
	require.ErrorIs(t, err, common.ErrInternalServer)
}

func TestService_ListApprovedOnly(t *testing.T) {
	public, admin := setupAgents(t)
	ctx := dbtest.AdminContext()

	for i, name := range []string{"Aisha", "Bilal", "Chen"} {
		a, err := admin.Create(ctx, AgentRequest{Title: name, Rating: float64(i)})
		require.NoError(t, err)
		if name != "Bilal" {
			_, err = admin.Update(ctx, a.ID, []byte(`{"approved":true}`))
			require.NoError(t, err)
		}
	}

	agents, err := public.ListApproved(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "Chen", agents[0].Title)
	assert.Equal(t, "Aisha", agents[1].Title)

	limited, err := public.ListApproved(t.Context(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	all, err := admin.List(ctx, triage.Query{Filters: map[string]string{"status": "pending"}})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bilal", all[0].Title)

	found, err := admin.List(ctx, triage.Query{Search: "CHE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestAdminHandler_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, admin := setupAgents(t)

	router := gin.New()
	group := router.Group("/api/admin", func(c *gin.Context) {
		c.Request = c.Request.WithContext(database.WithTier(c.Request.Context(), database.TierService))
		c.Next()
	})
	NewAdminHandler(admin, zap.NewNop()).RegisterRoutes(group)

	do := func(method, path string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/api/admin/agents", []byte(`{"title":"Dana Kim","office":"JLT"}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Agent AgentResponse `json:"agent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Agent.ID
	require.NotEqual(t, uuid.Nil, id)

	w = do(http.MethodPut, "/api/admin/agents/"+id.String(), []byte(`{"approved":true}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"office":"JLT"`)
	assert.Contains(t, w.Body.String(), `"label":"Approved"`)

	w = do(http.MethodGet, "/api/admin/agents?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"agents"`)

	w = do(http.MethodDelete, "/api/admin/agents/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(http.MethodDelete, "/api/admin/agents/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodPut, "/api/admin/agents/not-a-uuid", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
