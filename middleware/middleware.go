// Package middleware decodes polymorphic JSON request bodies at HTTP
// boundaries. The net/http form works with any router built on http.Handler;
// the echo and gin submodules adapt the same pipeline to those frameworks.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/elnormous/contenttype"
	gojson "github.com/goccy/go-json"

	"github.com/reoring/polyjson"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

// ctxKeyDecoded is a typed context key for storing decoded values.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a decoded T to the context.
func ContextWithDecoded[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, v)
}

// DecodedFromContext retrieves the decoded T stored by the middleware.
func DecodedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(T)
	return v, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries:
// duplicate keys are errors and documents are capped at 1 MiB.
func DefaultParseOpt() polyjson.ParseOpt {
	return polyjson.ParseOpt{
		Strictness: polyjson.Strictness{OnDuplicateKey: polyjson.Error},
		MaxBytes:   1 << 20,
	}
}

// IssuePayload is the wire form of one polyjson.Issue.
type IssuePayload struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues polyjson.Issues) map[string]any {
	out := make([]IssuePayload, len(issues))
	for i, it := range issues {
		out[i] = IssuePayload{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint, Params: it.Params}
	}
	return map[string]any{"issues": out}
}

// DecodeRequest checks the request media type and decodes its body as T.
// On failure it returns the HTTP status and the response payload to send.
func DecodeRequest[T any](s *polyjson.Serializer, r *http.Request) (T, int, any) {
	var v T
	if r.Header.Get("Content-Type") != "" {
		ctype, err := contenttype.GetMediaType(r)
		if err != nil || !ctype.Matches(jsonMediaType) {
			return v, http.StatusUnsupportedMediaType, map[string]any{"error": "content-type must be application/json"}
		}
	}
	if err := s.Decode(r.Context(), s.Reader(r.Body), &v); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return v, http.StatusRequestTimeout, map[string]any{"error": err.Error()}
		}
		s.Logger().WarnContext(r.Context(), "polyjson: request body rejected", "path", r.URL.Path, "err", err)
		if iss, ok := polyjson.AsIssues(err); ok {
			return v, http.StatusBadRequest, ErrorPayload(iss)
		}
		return v, http.StatusBadRequest, map[string]any{"error": err.Error()}
	}
	return v, 0, nil
}

// DecodeJSON returns net/http middleware that decodes the request body as T,
// stores it in the request context and calls next. Rejected bodies get a JSON
// error response and next is not called.
func DecodeJSON[T any](s *polyjson.Serializer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, status, payload := DecodeRequest[T](s, r)
			if status != 0 {
				WriteJSON(w, status, payload)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), v)))
		})
	}
}

// WriteJSON writes payload as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	b, err := gojson.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
