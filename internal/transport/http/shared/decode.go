package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"hrrecords/internal/platform/validate"
	"hrrecords/internal/transport/http/api"
)

// DecodeJSON reads the request body into dst. Unknown keys are ignored so
// that clients may send fields the server sets itself. On failure the
// response is written and false returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
	case errors.As(err, &typeErr):
		api.WriteError(w, typeIssue(typeErr), "invalid_json", "invalid request body", requestID)
	case errors.Is(err, io.EOF):
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body is required", requestID)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
	}
	return false
}

// typeIssue turns well-formed JSON of the wrong shape into a field-level
// validation error.
func typeIssue(err *json.UnmarshalTypeError) error {
	field := err.Field
	if field == "" {
		field = "body"
	}
	v := validate.New()
	v.Add(field, "must be "+kindName(err.Type))
	return v.Err()
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a valid value"
	}
}
