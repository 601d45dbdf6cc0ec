package triage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"estate_leads_backend/internal/common"

	"github.com/gin-gonic/gin/binding"
)

// Merge overlays a partial JSON body onto current and validates the result with
// the binding tags of T. Fields absent from patch keep their current value, so a
// full record can be sent back after changing one field.
func Merge[T any](current T, patch []byte) (T, error) {
	merged := current
	if len(bytes.TrimSpace(patch)) == 0 {
		return merged, common.ErrBadRequest.WithDetails("Request body is required.")
	}
	if err := json.Unmarshal(patch, &merged); err != nil {
		return current, common.ErrBadRequest.WithDetails(fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := binding.Validator.ValidateStruct(merged); err != nil {
		return current, common.BindingError(err)
	}
	return merged, nil
}

// Present reports whether patch names key at its top level. It tells an
// explicit value apart from one Merge carried over from current.
func Present(patch []byte, key string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return false
	}
	_, ok := fields[key]
	return ok
}
