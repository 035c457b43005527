package supler

import (
	"context"

	"github.com/reoring/supler/jsonschema"
)

// FieldKind enumerates the field variants.
type FieldKind uint8

const (
	FieldScalar FieldKind = iota + 1
	FieldSubform
	FieldSubformList
	FieldAction
	FieldModal
	FieldStatic
)

func (k FieldKind) String() string {
	switch k {
	case FieldScalar:
		return "scalar"
	case FieldSubform:
		return "subform"
	case FieldSubformList:
		return "subform_list"
	case FieldAction:
		return "action"
	case FieldModal:
		return "modal"
	case FieldStatic:
		return "static"
	default:
		return "unknown"
	}
}

// FieldInfo is the read-only description of a field, independent of the
// object type.
type FieldInfo interface {
	Name() string
	Kind() FieldKind
	LabelKey() string
}

// Field describes one datum of T. The set of implementations is closed: use
// the constructors of this package (Scalar, Subform, SubformList, Action,
// Modal, Static).
type Field[T any] interface {
	FieldInfo

	included(obj T) bool
	enabled(obj T) bool
	// applyJSON writes a wire value present in the payload onto a copy of obj.
	applyJSON(parent Path, obj T, wire any) (T, FieldErrors)
	validate(parent Path, obj T, scope ValidationScope) FieldErrors
	generateJSON(rc *renderCtx, parent Path, obj T) map[string]any
	// valueJSON returns the submission-shaped value; false for fields that
	// carry no value (actions, modals, static text).
	valueJSON(obj T) (any, bool)
	lookup(rest Path) (FieldInfo, bool)
	findAction(parent Path, obj T, rest Path) (*BoundAction[T], bool)
	findModal(parent Path, obj T, rest Path, cfg *Config) (processor, bool)
	schema() (s *jsonschema.Schema, required bool, ok bool)
}

// base carries the options every field kind shares.
type base[T any] struct {
	name        string
	label       string
	description string
	hint        *RenderHint
	enabledIf   func(T) bool
	includedIf  func(T) bool
}

func (b *base[T]) Name() string     { return b.name }
func (b *base[T]) LabelKey() string { return b.label }

func (b *base[T]) included(obj T) bool { return b.includedIf == nil || b.includedIf(obj) }
func (b *base[T]) enabled(obj T) bool  { return b.enabledIf == nil || b.enabledIf(obj) }

func (b *base[T]) commonJSON(rc *renderCtx, p Path, typ string, obj T) map[string]any {
	out := map[string]any{
		"name":    b.name,
		"type":    typ,
		"label":   rc.text(b.label, nil),
		"path":    p.String(),
		"enabled": b.enabled(obj),
	}
	if b.description != "" {
		out["description"] = rc.text(b.description, nil)
	}
	if b.hint != nil {
		out["render_hint"] = b.hint.toJSON()
	}
	return out
}

func (b *base[T]) noLookup(rest Path, self FieldInfo) (FieldInfo, bool) {
	if rest.IsEmpty() {
		return self, true
	}
	return nil, false
}

// BoundAction is an action located in a form and bound to the object it will
// run against.
type BoundAction[T any] struct {
	path  Path
	scope ValidationScope
	run   func(ctx context.Context) (ActionResult[T], error)
}

// Path returns the action's location.
func (a *BoundAction[T]) Path() Path { return a.path }

// Scope returns the validation scope that gates the action.
func (a *BoundAction[T]) Scope() ValidationScope { return a.scope }

// Run executes the action without validating first.
func (a *BoundAction[T]) Run(ctx context.Context) (ActionResult[T], error) { return a.run(ctx) }

// liftAction rebinds an action found in a nested object so its result is
// written back onto the enclosing object.
func liftAction[T, U any](inner *BoundAction[U], obj T, set func(T, U) T) *BoundAction[T] {
	return &BoundAction[T]{
		path:  inner.path,
		scope: inner.scope,
		run: func(ctx context.Context) (ActionResult[T], error) {
			r, err := inner.run(ctx)
			if err != nil {
				return ActionResult[T]{}, err
			}
			out := ActionResult[T]{custom: r.custom, hasCustom: r.hasCustom}
			if r.hasObj {
				out.obj = set(obj, r.obj)
				out.hasObj = true
			}
			return out, nil
		},
	}
}
