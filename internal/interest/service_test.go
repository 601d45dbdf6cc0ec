package interest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/platform/database/dbtest"
	"estate_leads_backend/internal/property"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type interestSuite struct {
	public   *database.PublicDB
	customer Service
	admin    *adminService
	listing  *property.Property
}

func setupInterests(t *testing.T) *interestSuite {
	t.Helper()
	public, svc := dbtest.Open(t, &property.Property{}, &DownloadInterest{}, &notification.Notification{})
	properties := property.NewGORMPublicRepository(public)

	listing := &property.Property{
		Slug:          "marina-gate-2br",
		Title:         "Marina Gate 2BR",
		ListingStatus: "sale",
		Price:         2500000,
		Published:     true,
		Documents:     pq.StringArray{"/uploads/marina-gate-brochure.pdf"},
	}
	require.NoError(t, properties.Create(context.Background(), listing))

	recorder := notification.NewRecorder(notification.NewGORMWriter(public), zap.NewNop())
	return &interestSuite{
		public:   public,
		customer: NewService(NewGORMPublicRepository(public), properties, recorder, zap.NewNop()),
		admin:    NewAdminService(NewGORMRepository(svc), zap.NewNop()).(*adminService),
		listing:  listing,
	}
}

func lead() CreateRequest {
	return CreateRequest{
		DownloadType:  "brochure",
		FullName:      "Priya Menon",
		Email:         "Priya@Example.com",
		Phone:         "+971501234567",
		FinancingType: "mortgage",
		Timeline:      "1-3 months",
	}
}

func TestCapture_CreatesLeadAndDownloadLink(t *testing.T) {
	ts := setupInterests(t)

	captured, err := ts.customer.Capture(context.Background(), ts.listing.Slug, lead())
	require.NoError(t, err)
	assert.Equal(t, StatusNew, captured.Interest.Status)
	assert.Equal(t, "priya@example.com", captured.Interest.Email)
	assert.Equal(t, "email", captured.Interest.PreferredContact)
	assert.Equal(t, "Marina Gate 2BR", captured.Interest.PropertyTitle)
	assert.Regexp(t, `^/api/downloads/[A-Za-z0-9_-]{32}$`, captured.DownloadURL)

	token := captured.DownloadURL[len("/api/downloads/"):]
	target, err := ts.customer.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/marina-gate-brochure.pdf", target)

	_, err = ts.customer.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)

	var notes int64
	require.NoError(t, ts.public.DB.Model(&notification.Notification{}).Where("kind = ?", notification.KindDownloadInterest).Count(&notes).Error)
	assert.EqualValues(t, 1, notes)
}

func TestCapture_Validation(t *testing.T) {
	ts := setupInterests(t)

	bad := lead()
	bad.Timeline = "someday"
	_, err := ts.customer.Capture(context.Background(), ts.listing.ID.String(), bad)
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, map[string]string{"timeline": "The timeline field must be one of: immediately, 1-3 months, 3-6 months, 6+ months."}, apiErr.Details)

	_, err = ts.customer.Capture(context.Background(), uuid.NewString(), lead())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAdminUpdate_StampsFirstTransitionOnly(t *testing.T) {
	ts := setupInterests(t)
	captured, err := ts.customer.Capture(context.Background(), ts.listing.Slug, lead())
	require.NoError(t, err)
	id := captured.Interest.ID
	ctx := dbtest.AdminContext()

	t0 := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	ts.admin.now = func() time.Time { return t0 }
	contacted, err := ts.admin.Update(ctx, id, []byte(`{"status":"contacted"}`))
	require.NoError(t, err)
	require.NotNil(t, contacted.ContactedAt)
	assert.Nil(t, contacted.ConvertedAt)
	assert.Equal(t, "Contacted", contacted.Badge.Label)

	ts.admin.now = func() time.Time { return t0.Add(24 * time.Hour) }
	converted, err := ts.admin.Update(ctx, id, []byte(`{"id":"`+id.String()+`","status":"converted"}`))
	require.NoError(t, err)
	assert.True(t, t0.Equal(*converted.ContactedAt))
	require.NotNil(t, converted.ConvertedAt)
	assert.True(t, t0.Add(24*time.Hour).Equal(*converted.ConvertedAt))

	ts.admin.now = func() time.Time { return t0.Add(72 * time.Hour) }
	back, err := ts.admin.Update(ctx, id, []byte(`{"status":"contacted"}`))
	require.NoError(t, err)
	assert.True(t, t0.Equal(*back.ContactedAt))
	assert.NotNil(t, back.ConvertedAt)

	_, err = ts.admin.Update(ctx, id, []byte(`{"status":"won"}`))
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestInterestResponse_WithStatus(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	row := ToInterestResponse(&DownloadInterest{Status: StatusNew})

	moved := row.WithStatus(StatusConverted, at)
	assert.Equal(t, "Converted", moved.Badge.Label)
	require.NotNil(t, moved.ConvertedAt)
	assert.Nil(t, row.ConvertedAt)

	again := moved.WithStatus(StatusConverted, at.Add(time.Hour))
	assert.True(t, at.Equal(*again.ConvertedAt))
}

func TestSubmitIntake_UsesPropertyID(t *testing.T) {
	ts := setupInterests(t)
	created, err := ts.customer.SubmitIntake(context.Background(), intake.Submission{
		Form: intake.FormDownloadInterest,
		Values: intake.Values{
			"property_id":   ts.listing.ID.String(),
			"download_type": "floor_plan",
			"full_name":     "Tom Baker",
			"email":         "tom@example.com",
			"phone":         "+971 55 000 1122",
			"pre_approved":  "on",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "download_interest", created.Entity)
	assert.Contains(t, created.Redirect, "/api/downloads/")

	rows, err := ts.admin.List(dbtest.AdminContext(), triage.Query{Filters: map[string]string{"download_type": "floor_plan"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].PreApproved)
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := setupInterests(t)

	router := gin.New()
	api := router.Group("/api")
	NewHandler(ts.customer, zap.NewNop()).RegisterRoutes(api)
	admin := api.Group("/admin", func(c *gin.Context) {
		c.Request = c.Request.WithContext(database.WithTier(c.Request.Context(), database.TierService))
		c.Next()
	})
	NewAdminHandler(ts.admin, zap.NewNop()).RegisterRoutes(admin)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/api/properties/"+ts.listing.ID.String()+"/download-interests", lead())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var captured Captured
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &captured))
	assert.NotEmpty(t, captured.DownloadURL)

	w = do(http.MethodGet, captured.DownloadURL, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/uploads/marina-gate-brochure.pdf", w.Header().Get("Location"))

	id := captured.Interest.ID.String()
	w = do(http.MethodPut, "/api/admin/download-interests", map[string]string{"id": id, "status": "qualified"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"download_interest"`)
	assert.Contains(t, w.Body.String(), `"qualified_at"`)

	w = do(http.MethodPut, "/api/admin/download-interests", map[string]string{"status": "qualified"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodPut, "/api/admin/download-interests/"+id, map[string]string{"status": "converted"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(http.MethodGet, "/api/admin/download-interests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		DownloadInterests []InterestResponse `json:"download_interests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.DownloadInterests, 1)
	assert.Equal(t, StatusConverted, list.DownloadInterests[0].Status)

	w = do(http.MethodDelete, "/api/admin/download-interests/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(http.MethodGet, "/api/admin/download-interests/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
