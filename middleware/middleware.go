// Package middleware connects form processing to HTTP servers: it reads the
// request body, runs one processing round trip and maps failures to status
// codes. Framework adapters live in the gin and echo subpackages.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	supler "github.com/reoring/supler"
	"github.com/reoring/supler/internal/ctxlog"
)

// MaxBodyBytes caps the size of a submission.
const MaxBodyBytes = 1 << 20

// ErrNotFound may be returned (wrapped) by loaders when the object a request
// addresses does not exist; it maps to 404.
var ErrNotFound = errors.New("supler: object not found")

// Loader binds the object addressed by a request to its form.
type Loader[T any] func(r *http.Request) (*supler.FormWithObject[T], error)

// ctxKeyData is a typed context key for storing the processed result.
type ctxKeyData struct{}

// ContextWithData attaches a processing result to the context.
func ContextWithData(ctx context.Context, d supler.Data) context.Context {
	return context.WithValue(ctx, ctxKeyData{}, d)
}

// DataFromContext retrieves a processing result from context.
func DataFromContext(ctx context.Context) (supler.Data, bool) {
	d, ok := ctx.Value(ctxKeyData{}).(supler.Data)
	return d, ok
}

// Run processes the body against fwo. An empty body renders fwo unchanged,
// which serves the initial GET of a form.
func Run[T any](ctx context.Context, fwo *supler.FormWithObject[T], body io.Reader) (supler.Data, error) {
	raw, err := io.ReadAll(io.LimitReader(body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", supler.ErrInvalidPayload, err)
	}
	if len(raw) > MaxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", supler.ErrInvalidPayload, MaxBodyBytes)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fwo, nil
	}
	return fwo.Process(ctx, raw)
}

// Status maps a processing error to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, supler.ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorPayload shapes an error for JSON responses. Server-side failures are
// not echoed to the client.
func ErrorPayload(err error) map[string]any {
	if Status(err) == http.StatusInternalServerError {
		return map[string]any{"error": http.StatusText(http.StatusInternalServerError)}
	}
	return map[string]any{"error": err.Error()}
}

// LogFailure records a failed request at warn level.
func LogFailure(ctx context.Context, err error) {
	ctxlog.FromContext(ctx, slog.Default()).Warn("supler: request failed", "status", Status(err), "error", err)
}

// Handler serves a form over net/http: every request body is processed
// against the object returned by load and the resulting document is written
// back as JSON.
func Handler[T any](load Loader[T]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := process(r, load)
		if err != nil {
			LogFailure(r.Context(), err)
			WriteJSON(w, Status(err), ErrorPayload(err))
			return
		}
		WriteJSON(w, http.StatusOK, data)
	})
}

func process[T any](r *http.Request, load Loader[T]) (supler.Data, error) {
	fwo, err := load(r)
	if err != nil {
		return nil, err
	}
	return Run(r.Context(), fwo, r.Body)
}

// WriteJSON encodes v with the status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
