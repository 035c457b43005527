package supler

import "github.com/reoring/supler/jsonschema"

// StaticField renders a read-only value computed from T. It is never
// applied from a payload nor validated.
type StaticField[T, V any] struct {
	base[T]
	get   func(T) V
	codec Codec[V]
}

// Static declares a read-only value.
func Static[T, V any](name string, get func(T) V, c Codec[V]) *StaticField[T, V] {
	return &StaticField[T, V]{base: base[T]{name: name, label: name}, get: get, codec: c}
}

func (f *StaticField[T, V]) Kind() FieldKind { return FieldStatic }

func (f *StaticField[T, V]) Label(key string) *StaticField[T, V] { f.label = key; return f }

func (f *StaticField[T, V]) Description(key string) *StaticField[T, V] {
	f.description = key
	return f
}

func (f *StaticField[T, V]) IncludedIf(fn func(T) bool) *StaticField[T, V] {
	f.includedIf = fn
	return f
}

func (f *StaticField[T, V]) RenderHint(h RenderHint) *StaticField[T, V] { f.hint = &h; return f }

func (f *StaticField[T, V]) applyJSON(_ Path, obj T, _ any) (T, FieldErrors) { return obj, nil }

func (f *StaticField[T, V]) validate(Path, T, ValidationScope) FieldErrors { return nil }

func (f *StaticField[T, V]) generateJSON(rc *renderCtx, parent Path, obj T) map[string]any {
	out := f.commonJSON(rc, parent.Child(f.name), "static", obj)
	out["value"], _ = f.codec.Encode(f.get(obj))
	return out
}

func (f *StaticField[T, V]) valueJSON(T) (any, bool) { return nil, false }

func (f *StaticField[T, V]) lookup(rest Path) (FieldInfo, bool) { return f.noLookup(rest, f) }

func (f *StaticField[T, V]) findAction(Path, T, Path) (*BoundAction[T], bool) { return nil, false }

func (f *StaticField[T, V]) findModal(Path, T, Path, *Config) (processor, bool) { return nil, false }

func (f *StaticField[T, V]) schema() (*jsonschema.Schema, bool, bool) {
	s := &jsonschema.Schema{Type: f.codec.JSONType(), Title: f.label, ReadOnly: true}
	return s, false, true
}
