package supler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	supler "github.com/reoring/supler"
	"github.com/reoring/supler/codec"
)

type locker struct {
	Lock  bool   `json:"lock"`
	Inner note   `json:"inner"`
	Notes []note `json:"notes"`
}

func lockerForm(c *counters) *supler.Form[locker] {
	unlocked := func(l locker) bool { return !l.Lock }
	inner := supler.NewForm[note](
		supler.Scalar(func(n *note) *string { return &n.Text }, codec.String()),
		supler.Action("go", func(_ context.Context, n note) (supler.ActionResult[note], error) {
			c.save++
			n.Text = "changed"
			return supler.Updated(n), nil
		}),
		supler.Modal("peek", func(n note) note { return n }, noteForm(c)),
	)
	return supler.NewForm[locker](
		supler.Scalar(func(l *locker) *bool { return &l.Lock }, codec.Bool()),
		supler.Subform(func(l *locker) *note { return &l.Inner }, inner).EnabledIf(unlocked),
		supler.SubformList(func(l *locker) *[]note { return &l.Notes }, noteForm(c)).
			EnabledIf(unlocked).
			ItemActions(supler.NewItemAction("drop", func(_ context.Context, l locker, _ int, _ note) (supler.ActionResult[locker], error) {
				c.remove++
				l.Notes = nil
				return supler.Updated(l), nil
			})),
	)
}

func TestProcess_DisabledContainerHidesActionsAndModals(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"subform action", `{"inner":{"text":"typed"},"supler_action":"inner.go"}`, nil},
		{"subform modal", `{"supler_show_modal":"inner.peek"}`, nil},
		{"modal submit", `{"supler_modal_path":"inner.peek","text":"x","supler_action":"keep"}`, supler.ErrModalNotFound},
		{"list element action", `{"supler_action":"notes[0].keep"}`, nil},
		{"list item action", `{"supler_action":"notes[0].drop"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c counters
			start := locker{Lock: true, Inner: note{Text: "a"}, Notes: []note{{Text: "n"}}}
			d, err := supler.NewInitial(lockerForm(&c), start).Process(context.Background(), []byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || c.noteSaved != 0 {
					t.Fatalf("expected %v, got %v (%+v)", tt.wantErr, err, c)
				}
				return
			}
			if err != nil {
				t.Fatalf("process: %v", err)
			}
			f, ok := d.(*supler.FormWithObject[locker])
			if !ok {
				t.Fatalf("expected a validated form, got %T", d)
			}
			if f.Kind() != supler.DataWithErrors {
				t.Fatalf("expected submit validation, got %s", f.Kind())
			}
			if c.save+c.remove+c.noteSaved != 0 {
				t.Fatalf("action ran on a disabled container: %+v", c)
			}
			if got := f.Object(); got.Inner.Text != "a" || len(got.Notes) != 1 {
				t.Fatalf("object changed: %+v", got)
			}
		})
	}
}

func TestProcess_EnabledContainerRunsInnerAction(t *testing.T) {
	var c counters
	d, err := supler.NewInitial(lockerForm(&c), locker{Inner: note{Text: "a"}}).
		Process(context.Background(), []byte(`{"supler_action":"inner.go"}`))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	f := d.(*supler.FormWithObject[locker])
	if c.save != 1 || f.Object().Inner.Text != "changed" {
		t.Fatalf("inner action did not run: %+v %+v", c, f.Object())
	}
}

func TestGenerateJSON_ItemActionFollowsList(t *testing.T) {
	var c counters
	for _, lock := range []bool{false, true} {
		raw, err := supler.NewInitial(lockerForm(&c), locker{Lock: lock, Notes: []note{{Text: "n"}}}).MarshalJSON()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		got := gjson.GetBytes(raw, `main_form.fields.#(name=="notes").value.0.fields.#(name=="drop").enabled`)
		if !got.Exists() || got.Bool() != !lock {
			t.Fatalf("lock=%v: drop enabled = %s", lock, got.Raw)
		}
	}
}
