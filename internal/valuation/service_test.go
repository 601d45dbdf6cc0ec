package valuation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/platform/database/dbtest"
	"estate_leads_backend/internal/session"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, kind notification.Kind, entityID uuid.UUID, message string) {
	m.Called(ctx, kind, entityID, message)
}

func setupValuations(t *testing.T) (Service, *adminService, *MockRecorder) {
	t.Helper()
	public, svc := dbtest.Open(t, &Valuation{})
	recorder := new(MockRecorder)
	customer := NewService(NewGORMCustomerRepository(public), recorder, zap.NewNop())
	admin := NewAdminService(NewGORMRepository(svc), "AED", zap.NewNop()).(*adminService)
	return customer, admin, recorder
}

func villaRequest() CreateRequest {
	return CreateRequest{PropertyType: "villa", Location: "Arabian Ranches", Size: 3200, Bedrooms: 4, Bathrooms: 5, Condition: "good"}
}

func TestValuation_CompletedAtIsStampedOnceAndKept(t *testing.T) {
	customer, admin, recorder := setupValuations(t)
	recorder.On("Record", mock.Anything, notification.KindValuation, mock.AnythingOfType("uuid.UUID"), "New valuation request: villa in Arabian Ranches").Once()

	created, err := customer.Request(context.Background(), uuid.New(), villaRequest())
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Nil(t, created.CompletedAt)
	recorder.AssertExpectations(t)

	first := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	admin.now = func() time.Time { return first }
	ctx := dbtest.AdminContext()

	inReview, err := admin.Update(ctx, created.ID, []byte(`{"status":"in_review","notes":"site visit booked"}`))
	require.NoError(t, err)
	assert.Nil(t, inReview.CompletedAt)
	assert.Equal(t, "In Review", inReview.Badge.Label)

	done, err := admin.Update(ctx, created.ID, []byte(`{"status":"completed","estimated_value":4150000}`))
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, first.Equal(*done.CompletedAt))
	require.NotNil(t, done.EstimatedValue)
	assert.InDelta(t, 4150000, *done.EstimatedValue, 0.01)
	assert.Equal(t, "AED", done.Currency)
	assert.Equal(t, "site visit booked", done.Notes)

	admin.now = func() time.Time { return first.Add(48 * time.Hour) }
	reopened, err := admin.Update(ctx, created.ID, []byte(`{"status":"in_review"}`))
	require.NoError(t, err)
	require.NotNil(t, reopened.CompletedAt)
	assert.True(t, first.Equal(*reopened.CompletedAt))

	again, err := admin.Update(ctx, created.ID, []byte(`{"status":"completed"}`))
	require.NoError(t, err)
	assert.True(t, first.Equal(*again.CompletedAt))
}

func TestValuation_AdminUpdateRejectsUnknownStatus(t *testing.T) {
	customer, admin, recorder := setupValuations(t)
	recorder.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	created, err := customer.Request(context.Background(), uuid.New(), villaRequest())
	require.NoError(t, err)

	_, err = admin.Update(dbtest.AdminContext(), created.ID, []byte(`{"status":"done"}`))
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	_, err = admin.Update(dbtest.AdminContext(), created.ID, []byte(`{"currency":"DIRHAM"}`))
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)

	_, err = admin.Update(dbtest.AdminContext(), uuid.New(), []byte(`{"status":"completed"}`))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestValuation_AdminListFilters(t *testing.T) {
	customer, admin, recorder := setupValuations(t)
	recorder.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ctx := context.Background()
	_, err := customer.Request(ctx, uuid.New(), villaRequest())
	require.NoError(t, err)
	_, err = customer.Request(ctx, uuid.New(), CreateRequest{PropertyType: "apartment", Location: "Dubai Marina", Size: 900})
	require.NoError(t, err)

	marina, err := admin.List(dbtest.AdminContext(), triage.Query{Search: "marina"})
	require.NoError(t, err)
	require.Len(t, marina, 1)
	assert.Equal(t, "apartment", marina[0].PropertyType)

	villas, err := admin.List(dbtest.AdminContext(), triage.Query{Filters: map[string]string{"property_type": "villa"}})
	require.NoError(t, err)
	assert.Len(t, villas, 1)

	require.NoError(t, admin.Delete(dbtest.AdminContext(), villas[0].ID))
	assert.ErrorIs(t, admin.Delete(dbtest.AdminContext(), villas[0].ID), common.ErrNotFound)
}

func TestValuation_SubmitIntake(t *testing.T) {
	customer, _, recorder := setupValuations(t)
	recorder.On("Record", mock.Anything, notification.KindValuation, mock.Anything, mock.Anything)
	owner := uuid.New()

	_, err := customer.SubmitIntake(context.Background(), intake.Submission{Values: intake.Values{}})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	created, err := customer.SubmitIntake(context.Background(), intake.Submission{
		Form:      intake.FormValuation,
		ProfileID: &owner,
		Values: intake.Values{
			"property_type": "townhouse",
			"location":      "Town Square",
			"size":          "2100",
			"bedrooms":      float64(3),
			"condition":     "excellent",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "/account/valuations", created.Redirect)

	mine, err := customer.ListMine(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 3, mine[0].Bedrooms)
	assert.InDelta(t, 2100, mine[0].Size, 0.01)
}

func TestValuation_CustomerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	customer, _, recorder := setupValuations(t)
	recorder.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	owner := uuid.New()

	router := gin.New()
	group := router.Group("/api/customer", func(c *gin.Context) {
		session.Attach(c, &session.Session{ProfileID: owner, Role: common.RoleCustomer})
		c.Next()
	})
	NewHandler(customer, zap.NewNop()).RegisterRoutes(group)

	body := `{"property_type":"apartment","location":"Business Bay","size":1100,"bedrooms":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/customer/valuations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customer/valuations", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Valuations []ValuationResponse `json:"valuations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Valuations, 1)
	assert.Equal(t, owner, out.Valuations[0].ProfileID)
	assert.Equal(t, "Pending", out.Valuations[0].Badge.Label)
}
