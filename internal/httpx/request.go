package httpx

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"biblioteca/internal/platform/apperr"
)

// DecodeJSON reads the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("VALIDATION_ERROR", "request body is required")
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return apperr.Validation("VALIDATION_ERROR", "request body is required")
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("PAYLOAD_TOO_LARGE", "request body too large")
		}
		return apperr.Validation("VALIDATION_ERROR", "request body is not valid JSON")
	}
}

// PathID parses a positive integer path parameter.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("INVALID_ID", "invalid "+name).With("value", raw)
	}
	return id, nil
}
