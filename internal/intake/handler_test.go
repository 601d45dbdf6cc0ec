package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/platform/database/dbtest"
	"estate_leads_backend/internal/platform/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type intakeAPI struct {
	router   *gin.Engine
	root     string
	received []Submission
}

func setupIntakeAPI(t *testing.T) *intakeAPI {
	gin.SetMode(gin.TestMode)
	api := &intakeAPI{root: t.TempDir()}

	public, _ := dbtest.Open(t, &SubmissionRecord{})
	local, err := storage.NewLocalStorage(api.root, "/uploads", zap.NewNop())
	require.NoError(t, err)

	sink := SubmitterFunc(func(ctx context.Context, sub Submission) (Created, error) {
		api.received = append(api.received, sub)
		id := uuid.New()
		return Created{Entity: "property", ID: id, Redirect: "/properties/" + id.String()}, nil
	})
	submitters := Submitters{}
	for _, f := range BuiltinForms(testConfig()) {
		submitters[f.Name] = sink
	}

	svc, err := NewService(testRegistry(t), NewDraftStore(time.Hour), NewMemoryGuard(time.Minute), local,
		NewGORMAuditRepository(public), submitters, zap.NewNop())
	require.NoError(t, err)

	api.router = gin.New()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(api.router.Group("/api/v1"), func(c *gin.Context) { c.Next() })
	return api
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Result string          `json:"result"`
	Code   string          `json:"code"`
}

func (api *intakeAPI) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, "/api/v1"+path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (api *intakeAPI) doJSON(t *testing.T, method, path string, payload any) (*httptest.ResponseRecorder, envelope) {
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return api.do(t, method, path, bytes.NewBuffer(raw), "application/json")
}

func photosBody(t *testing.T, sizes ...int) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for i, size := range sizes {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="photo-%d.jpg"`, i+1))
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0xFF}, size))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestIntakeAPI_SellerListingEndToEnd(t *testing.T) {
	api := setupIntakeAPI(t)

	w, env := api.do(t, http.MethodPost, "/intake/forms/seller-listing/sessions", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	draft := decode[DraftView](t, env.Data)
	assert.Equal(t, 1, draft.CurrentStep)
	assert.Equal(t, 4, draft.TotalSteps)
	base := "/intake/sessions/" + draft.ID.String()

	w, _ = api.doJSON(t, http.MethodPatch, base+"/values", gin.H{"values": gin.H{
		"title":          "Two bed in Marina",
		"listing_status": "sale",
		"category":       "residential",
		"property_type":  "apartment",
		"price":          2500000,
		"area":           "Dubai Marina",
		"contact_name":   "Aisha",
		"contact_email":  "aisha@example.com",
		"contact_phone":  "+971500000000",
	}})
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 3; i++ {
		w, _ = api.do(t, http.MethodPost, base+"/next", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	body, ct := photosBody(t, 512<<10, 512<<10, 512<<10)
	w, env = api.do(t, http.MethodPost, base+"/files/photos", body, ct)
	require.Equal(t, http.StatusOK, w.Code)
	attached := decode[AttachResult](t, env.Data)
	assert.Len(t, attached.Accepted, 3)
	assert.Empty(t, attached.Rejected)

	w, env = api.do(t, http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res common.Result[Receipt]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, common.ResultSuccess, res.Kind)
	assert.Regexp(t, `^/properties/`, res.Value.Redirect)
	assert.Regexp(t, `^LST-[A-Z2-7]{8}$`, res.Value.Reference)

	require.Len(t, api.received, 1)
	sub := api.received[0]
	assert.Equal(t, float64(2500000), sub.Values["price"])
	urls := sub.FileURLs("photos")
	require.Len(t, urls, 3)
	for _, obj := range sub.Files["photos"] {
		info, err := os.Stat(filepath.Join(api.root, filepath.FromSlash(obj.Key)))
		require.NoError(t, err)
		assert.Equal(t, int64(512<<10), info.Size())
	}
}

func TestIntakeAPI_OversizePhotoIsRejectedAlone(t *testing.T) {
	api := setupIntakeAPI(t)

	_, env := api.do(t, http.MethodPost, "/intake/forms/seller-listing/sessions", nil, "")
	draft := decode[DraftView](t, env.Data)
	base := "/intake/sessions/" + draft.ID.String()

	body, ct := photosBody(t, 100<<10, 2<<20, 200<<10)
	w, env := api.do(t, http.MethodPost, base+"/files/photos", body, ct)
	require.Equal(t, http.StatusOK, w.Code)
	attached := decode[AttachResult](t, env.Data)

	require.Len(t, attached.Rejected, 1)
	assert.Equal(t, "photo-2.jpg", attached.Rejected[0].Filename)
	assert.Contains(t, attached.Rejected[0].Reason, "1 MB")
	require.Len(t, attached.Draft.Attachments["photos"], 2)
	assert.Equal(t, "photo-1.jpg", attached.Draft.Attachments["photos"][0].Filename)
	assert.Equal(t, "photo-3.jpg", attached.Draft.Attachments["photos"][1].Filename)

	w, env = api.do(t, http.MethodPost, base+"/next", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[DraftView](t, env.Data).CurrentStep)
	w, env = api.do(t, http.MethodPost, base+"/previous", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[DraftView](t, env.Data).CurrentStep)
}

func TestIntakeAPI_SubmitIncompleteIsValidationError(t *testing.T) {
	api := setupIntakeAPI(t)
	_, env := api.do(t, http.MethodPost, "/intake/forms/careers-application/sessions", nil, "")
	draft := decode[DraftView](t, env.Data)

	w, env := api.do(t, http.MethodPost, "/intake/sessions/"+draft.ID.String()+"/submit", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, string(common.ResultValidationError), env.Result)
	assert.Empty(t, api.received)
}

func TestIntakeAPI_CustomerFormNeedsSignIn(t *testing.T) {
	api := setupIntakeAPI(t)
	w, env := api.do(t, http.MethodPost, "/intake/forms/valuation-request/sessions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, string(common.ResultNetworkError), env.Result)
}

func TestIntakeAPI_BadSessionID(t *testing.T) {
	api := setupIntakeAPI(t)
	w, _ := api.do(t, http.MethodGet, "/intake/sessions/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(t, http.MethodGet, "/intake/sessions/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
