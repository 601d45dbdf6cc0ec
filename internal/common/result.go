package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResultKind classifies the outcome of a user action.
type ResultKind string

const (
	ResultSuccess         ResultKind = "success"
	ResultValidationError ResultKind = "validation_error"
	ResultNetworkError    ResultKind = "network_error"
)

// Result is the single outcome type returned by submits and console actions.
type Result[T any] struct {
	Kind    ResultKind        `json:"result"`
	Value   T                 `json:"value,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Message string            `json:"message,omitempty"`
	Err     error             `json:"-"`
}

func (r Result[T]) OK() bool { return r.Kind == ResultSuccess }

func Success[T any](v T) Result[T] {
	return Result[T]{Kind: ResultSuccess, Value: v}
}

// Failure classifies err and wraps it into a Result.
func Failure[T any](err error) Result[T] {
	r := Result[T]{Kind: KindOf(err), Err: err}
	if apiErr, ok := IsAPIError(err); ok {
		r.Message = apiErr.Message
		if fields, ok := apiErr.Details.(map[string]string); ok {
			r.Fields = fields
		}
	} else if err != nil {
		r.Message = err.Error()
	}
	return r
}

// KindOf maps an error onto the three result kinds. Client errors the user can fix
// (400, 413, 422) are validation errors; everything else is a network error.
func KindOf(err error) ResultKind {
	if err == nil {
		return ResultSuccess
	}
	apiErr, ok := IsAPIError(err)
	if !ok {
		return ResultNetworkError
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return ResultValidationError
	}
	return ResultNetworkError
}

// RespondResult writes a successful result with status, or the error of a failed one.
func RespondResult[T any](c *gin.Context, status int, res Result[T]) {
	if res.OK() {
		c.JSON(status, res)
		return
	}
	RespondWithError(c, res.Err)
}
