package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	withDetails := ErrNotFound.WithDetails("Agent not found.")

	assert.Nil(t, ErrNotFound.Details)
	assert.Equal(t, "Agent not found.", withDetails.Details)
	assert.True(t, errors.Is(withDetails, ErrNotFound))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ResultSuccess, KindOf(nil))
	assert.Equal(t, ResultValidationError, KindOf(NewValidationAPIError(map[string]string{"email": "bad"})))
	assert.Equal(t, ResultValidationError, KindOf(ErrBadRequest))
	assert.Equal(t, ResultNetworkError, KindOf(ErrInternalServer))
	assert.Equal(t, ResultNetworkError, KindOf(ErrSubmitInProgress))
	assert.Equal(t, ResultNetworkError, KindOf(errors.New("dial tcp: connection refused")))
}

func TestFailure_CarriesFieldErrors(t *testing.T) {
	res := Failure[string](NewValidationAPIError(map[string]string{"title": "The title field is required."}))

	assert.False(t, res.OK())
	assert.Equal(t, ResultValidationError, res.Kind)
	assert.Equal(t, "The title field is required.", res.Fields["title"])
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(25, 2, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := NewPagination(0, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "bearer abc.def")

	assert.Equal(t, "abc.def", BearerToken(c))

	c.Request.Header.Set("Authorization", "Token abc")
	assert.Equal(t, "", BearerToken(c))
}

func TestRespondWithError_IncludesResultKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithError(c, NewValidationAPIError(map[string]string{"email": "bad"}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"result":"validation_error"`)
	assert.Contains(t, w.Body.String(), `"code":"VALIDATION_ERROR"`)
}

func TestParsePageRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	parse := func(query string) PageRequest {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		return ParsePageRequest(c)
	}

	assert.Equal(t, PageRequest{Page: 1, PageSize: DefaultPageSize}, parse(""))
	assert.Equal(t, PageRequest{Page: 1, PageSize: DefaultPageSize}, parse("page=-2&page_size=abc"))
	assert.Equal(t, PageRequest{Page: 3, PageSize: MaxPageSize}, parse("page=3&page_size=500"))
	assert.Equal(t, 40, PageRequest{Page: 3, PageSize: 20}.Offset())
}
