package supler_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	supler "github.com/reoring/supler"
)

func fieldErrs(specs ...string) supler.FieldErrors {
	out := make(supler.FieldErrors, 0, len(specs))
	for _, s := range specs {
		path, code, _ := strings.Cut(s, "=")
		out = append(out, supler.FieldError{Path: supler.MustParsePath(path), Code: code})
	}
	return out
}

func TestFieldErrors_Queries(t *testing.T) {
	errs := fieldErrs("home.zip=pattern", "home=x", "home.zip=required", "name=required")
	if got := errs.At(supler.MustParsePath("home.zip")); len(got) != 2 {
		t.Fatalf("At: %v", got)
	}
	if got := errs.Under(supler.MustParsePath("home")); len(got) != 3 {
		t.Fatalf("Under: %v", got)
	}
	paths := make([]string, 0)
	for _, p := range errs.Paths() {
		paths = append(paths, p.String())
	}
	if diff := cmp.Diff([]string{"home.zip", "home", "name"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if !errs.HasErrors() || supler.FieldErrors(nil).HasErrors() {
		t.Fatalf("HasErrors mismatch")
	}
}

func TestFieldErrors_ErrorSummary(t *testing.T) {
	errs := fieldErrs("a=x", "b=y", "c=z", "d=w")
	if got := errs.Error(); got != "x at a; y at b; z at c; ... (total 4)" {
		t.Fatalf("unexpected summary %q", got)
	}
	wrapped := fmt.Errorf("saving: %w", errs)
	back, ok := supler.AsFieldErrors(wrapped)
	if !ok || len(back) != 4 {
		t.Fatalf("AsFieldErrors failed")
	}
	if _, ok := supler.AsFieldErrors(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no field errors")
	}
}

func TestConcatErrors_DoesNotAlias(t *testing.T) {
	a := make(supler.FieldErrors, 1, 4)
	a[0] = supler.FieldError{Code: "a"}
	out := supler.ConcatErrors(a, fieldErrs("b=b"))
	out[0].Code = "changed"
	if a[0].Code != "a" || len(out) != 2 {
		t.Fatalf("ConcatErrors must copy")
	}
}

func TestMsg(t *testing.T) {
	m := supler.Msg(supler.CodeTooShort, "min", 3)
	if diff := cmp.Diff(supler.ErrorMessage{Code: "too_short", Params: map[string]any{"min": 3}}, m); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if supler.Msg("x").Params != nil {
		t.Fatalf("no params expected")
	}
}

func TestSentinels(t *testing.T) {
	for _, err := range []error{supler.ErrInvalidPayload, supler.ErrInvalidPath, supler.ErrModalNotFound, supler.ErrNotModal} {
		if !errors.Is(err, supler.ErrMalformedRequest) {
			t.Fatalf("%v must match ErrMalformedRequest", err)
		}
	}
	de := &supler.DecodeError{Code: supler.CodeParseError, Cause: errors.New("bad digit")}
	if de.Error() != "parse_error: bad digit" || errors.Unwrap(de) == nil {
		t.Fatalf("unexpected decode error %q", de.Error())
	}
}
