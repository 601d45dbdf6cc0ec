package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVerifier struct {
	sessions map[string]*session.Session
}

func (v stubVerifier) Verify(ctx context.Context, token string) (*session.Session, error) {
	if s, ok := v.sessions[token]; ok {
		return s, nil
	}
	return nil, common.ErrUnauthorized.WithDetails("Invalid token.")
}

func (v stubVerifier) Revoke(ctx context.Context, s *session.Session) error { return nil }

func newTestRouter() (*gin.Engine, stubVerifier) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	verifier := stubVerifier{sessions: map[string]*session.Session{
		"admin-token":    {ProfileID: uuid.New(), Role: common.RoleAdmin},
		"customer-token": {ProfileID: uuid.New(), Role: common.RoleCustomer},
	}}

	r := gin.New()
	r.Use(ZapLogger(logger, &config.Config{GinMode: gin.TestMode}), ErrorHandler(logger))

	admin := r.Group("/admin", Authenticate(verifier, logger), RequireRole(common.RoleAdmin), StampServiceTier())
	admin.GET("/tier", func(c *gin.Context) {
		c.String(http.StatusOK, string(database.TierFrom(c.Request.Context())))
	})

	open := r.Group("/open", OptionalAuth(verifier, logger))
	open.GET("/who", func(c *gin.Context) {
		if id := session.ProfileIDFromGin(c); id != nil {
			c.String(http.StatusOK, id.String())
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r, verifier
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminGroup_StampsServiceTier(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodGet, "/admin/tier", "admin-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(database.TierService), w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAdminGroup_RejectsCustomerAndAnonymous(t *testing.T) {
	r, _ := newTestRouter()

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin/tier", "customer-token").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin/tier", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin/tier", "forged").Code)
}

func TestOptionalAuth(t *testing.T) {
	r, verifier := newTestRouter()

	assert.Equal(t, "anonymous", do(r, http.MethodGet, "/open/who", "").Body.String())
	assert.Equal(t, "anonymous", do(r, http.MethodGet, "/open/who", "forged").Body.String())
	assert.Equal(t, verifier.sessions["customer-token"].ProfileID.String(), do(r, http.MethodGet, "/open/who", "customer-token").Body.String())
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodGet, "/nowhere", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "network_error", body["result"])
}
