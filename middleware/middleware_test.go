package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	supler "github.com/reoring/supler"
	"github.com/reoring/supler/codec"
	"github.com/reoring/supler/middleware"
	"github.com/reoring/supler/rules"
)

type ticket struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

var errBroken = errors.New("store unavailable")

var ticketForm = supler.NewForm[ticket](
	supler.Scalar(func(t *ticket) *string { return &t.Title }, codec.String()).
		Required().Validate(rules.MaxLength(20)),
	supler.Scalar(func(t *ticket) *bool { return &t.Done }, codec.Bool()),
	supler.Action("close", func(_ context.Context, t ticket) (supler.ActionResult[ticket], error) {
		t.Done = true
		return supler.Updated(t), nil
	}).ValidateWith(supler.ValidateAll),
	supler.Action("explode", func(context.Context, ticket) (supler.ActionResult[ticket], error) {
		return supler.ActionResult[ticket]{}, errBroken
	}),
)

func loadTicket(r *http.Request) (*supler.FormWithObject[ticket], error) {
	switch r.URL.Query().Get("id") {
	case "1":
		return supler.NewInitial(ticketForm, ticket{Title: "first"}), nil
	default:
		return nil, fmt.Errorf("ticket %q: %w", r.URL.Query().Get("id"), middleware.ErrNotFound)
	}
}

func serve(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	middleware.Handler(loadTicket).ServeHTTP(rec, req)
	return rec
}

func TestHandler_RendersInitialForm(t *testing.T) {
	rec := serve(t, http.MethodGet, "/ticket?id=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
	doc := gjson.Parse(rec.Body.String())
	if !doc.Get("is_supler_form").Bool() || doc.Get("main_form.fields.0.value").String() != "first" {
		t.Fatalf("unexpected document %s", rec.Body)
	}
}

func TestHandler_ProcessesSubmission(t *testing.T) {
	rec := serve(t, http.MethodPost, "/ticket?id=1", `{"title":"renamed","supler_action":"close"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	doc := gjson.Parse(rec.Body.String())
	if doc.Get("main_form.fields.1.value").Bool() != true || doc.Get("errors.#").Int() != 0 {
		t.Fatalf("action did not run: %s", rec.Body)
	}

	rec = serve(t, http.MethodPost, "/ticket?id=1", `{"title":"","supler_action":"close"}`)
	doc = gjson.Parse(rec.Body.String())
	if rec.Code != http.StatusOK || doc.Get("errors.0.code").String() != supler.CodeRequired {
		t.Fatalf("validation errors are a normal response: %d %s", rec.Code, rec.Body)
	}
}

func TestHandler_Failures(t *testing.T) {
	cases := []struct {
		name, target, body string
		status             int
	}{
		{"malformed", "/ticket?id=1", `{"title":`, http.StatusBadRequest},
		{"bad marker", "/ticket?id=1", `{"supler_action":"a["}`, http.StatusBadRequest},
		{"missing", "/ticket?id=9", ``, http.StatusNotFound},
		{"action error", "/ticket?id=1", `{"supler_action":"explode"}`, http.StatusInternalServerError},
		{"too large", "/ticket?id=1", `{"title":"` + strings.Repeat("x", middleware.MaxBodyBytes) + `"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := serve(t, http.MethodPost, tc.target, tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s: status %d, want %d: %s", tc.name, rec.Code, tc.status, rec.Body)
		}
		msg := gjson.Get(rec.Body.String(), "error").String()
		if msg == "" {
			t.Fatalf("%s: missing error payload", tc.name)
		}
		if tc.status == http.StatusInternalServerError && strings.Contains(msg, errBroken.Error()) {
			t.Fatalf("internal error leaked: %s", msg)
		}
	}
}

func TestStatus(t *testing.T) {
	if middleware.Status(supler.ErrModalNotFound) != http.StatusBadRequest {
		t.Fatalf("modal not found is a client error")
	}
	if middleware.Status(fmt.Errorf("x: %w", middleware.ErrNotFound)) != http.StatusNotFound {
		t.Fatalf("wrapped not found")
	}
	if middleware.Status(errBroken) != http.StatusInternalServerError {
		t.Fatalf("unknown errors are server errors")
	}
}

func TestContextData(t *testing.T) {
	if _, ok := middleware.DataFromContext(context.Background()); ok {
		t.Fatalf("empty context carries no data")
	}
	d := supler.NewCustomDataOnly(1)
	got, ok := middleware.DataFromContext(middleware.ContextWithData(context.Background(), d))
	if !ok || got != supler.Data(d) {
		t.Fatalf("data not stored")
	}
}
