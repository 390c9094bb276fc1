package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/uma-movies/uma-server/internal/repository"
)

// validate is the shared request validator. Struct tags on the request DTOs
// describe the accepted shape; violations become 400 responses.
var validate = validator.New()

// requestError marks a malformed or invalid request body. writeError renders
// it as a 400 with the message intact.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// decodeJSON decodes the request body into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid request body: %v", err)
	}

	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return badRequest("%s", strings.Join(msgs, "; "))
		}
		return badRequest("invalid request body: %v", err)
	}

	return nil
}

// fieldError converts a single validation failure into a readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// pathParam returns the named URL parameter, percent-decoded. Entity names
// may contain spaces, which arrive escaped in the request path.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// birthLayout is the accepted wire format for actor birth dates.
const birthLayout = "2006-01-02"

// parseBirth parses a birth date, accepting a plain date or a full timestamp.
func parseBirth(value string) (time.Time, error) {
	if t, err := time.Parse(birthLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, badRequest("birth must be a date in YYYY-MM-DD form")
	}
	return t, nil
}

// listOptions extracts pagination parameters from the query string.
func listOptions(r *http.Request) (repository.ListOptions, error) {
	var opts repository.ListOptions

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return opts, badRequest("offset must be a non-negative integer")
		}
		opts.Offset = offset
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return opts, badRequest("limit must be a non-negative integer")
		}
		opts.Limit = limit
	}

	return opts, nil
}
