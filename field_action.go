package supler

import (
	"context"

	"github.com/reoring/supler/jsonschema"
)

// ActionResult is what an action hands back: an updated object, custom
// data for the client, or both.
type ActionResult[T any] struct {
	obj       T
	hasObj    bool
	custom    any
	hasCustom bool
}

// Updated returns obj as the new state of the form.
func Updated[T any](obj T) ActionResult[T] {
	return ActionResult[T]{obj: obj, hasObj: true}
}

// CustomResult replaces the whole response with custom, e.g. a redirect
// instruction; no form is re-rendered.
func CustomResult[T any](custom any) ActionResult[T] {
	return ActionResult[T]{custom: custom, hasCustom: true}
}

// WithCustomData attaches custom data rendered next to the form.
func (r ActionResult[T]) WithCustomData(custom any) ActionResult[T] {
	r.custom, r.hasCustom = custom, true
	return r
}

// Object returns the updated object if the action produced one.
func (r ActionResult[T]) Object() (T, bool) { return r.obj, r.hasObj }

// CustomData returns the attached custom data.
func (r ActionResult[T]) CustomData() (any, bool) { return r.custom, r.hasCustom }

// ActionField is a button that runs server-side logic against T.
type ActionField[T any] struct {
	base[T]
	scope     ValidationScope
	enclosing bool
	run       func(ctx context.Context, obj T) (ActionResult[T], error)
}

// Action declares an action. By default it runs without validating; use
// ValidateWith or ValidateEnclosing to gate it.
func Action[T any](name string, run func(ctx context.Context, obj T) (ActionResult[T], error)) *ActionField[T] {
	return &ActionField[T]{base: base[T]{name: name, label: name}, scope: ValidateNone, run: run}
}

func (f *ActionField[T]) Kind() FieldKind { return FieldAction }

func (f *ActionField[T]) Label(key string) *ActionField[T] { f.label = key; return f }

func (f *ActionField[T]) Description(key string) *ActionField[T] {
	f.description = key
	return f
}

func (f *ActionField[T]) EnabledIf(fn func(T) bool) *ActionField[T] { f.enabledIf = fn; return f }

func (f *ActionField[T]) IncludedIf(fn func(T) bool) *ActionField[T] { f.includedIf = fn; return f }

func (f *ActionField[T]) RenderHint(h RenderHint) *ActionField[T] { f.hint = &h; return f }

// ValidateWith gates the action on a validation pass over scope.
func (f *ActionField[T]) ValidateWith(scope ValidationScope) *ActionField[T] {
	f.scope, f.enclosing = scope, false
	return f
}

// ValidateEnclosing gates the action on the object it is declared on,
// i.e. its form and everything below.
func (f *ActionField[T]) ValidateEnclosing() *ActionField[T] {
	f.enclosing = true
	return f
}

func (f *ActionField[T]) scopeAt(parent Path) ValidationScope {
	if f.enclosing {
		return ValidateInPath(parent)
	}
	return f.scope
}

func (f *ActionField[T]) applyJSON(_ Path, obj T, _ any) (T, FieldErrors) { return obj, nil }

func (f *ActionField[T]) validate(Path, T, ValidationScope) FieldErrors { return nil }

func (f *ActionField[T]) generateJSON(rc *renderCtx, parent Path, obj T) map[string]any {
	out := f.commonJSON(rc, parent.Child(f.name), "action", obj)
	out["validation_scope"] = f.scopeAt(parent).toJSON()
	return out
}

func (f *ActionField[T]) valueJSON(T) (any, bool) { return nil, false }

func (f *ActionField[T]) lookup(rest Path) (FieldInfo, bool) { return f.noLookup(rest, f) }

func (f *ActionField[T]) findAction(parent Path, obj T, rest Path) (*BoundAction[T], bool) {
	if !rest.IsEmpty() || !f.enabled(obj) {
		return nil, false
	}
	return &BoundAction[T]{
		path:  parent.Child(f.name),
		scope: f.scopeAt(parent),
		run: func(ctx context.Context) (ActionResult[T], error) {
			return f.run(ctx, obj)
		},
	}, true
}

func (f *ActionField[T]) findModal(Path, T, Path, *Config) (processor, bool) { return nil, false }

func (f *ActionField[T]) schema() (*jsonschema.Schema, bool, bool) { return nil, false, false }
