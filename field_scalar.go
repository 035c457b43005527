package supler

import (
	"reflect"

	"github.com/samber/lo"

	"github.com/reoring/supler/jsonschema"
)

// ScalarField is a leaf value of T converted to and from JSON by a Codec.
type ScalarField[T, V any] struct {
	base[T]
	acc         accessor[T, V]
	codec       Codec[V]
	required    bool
	validators  []Validator[V]
	checks      []func(T, V) []ErrorMessage
	choices     func(T) []V
	choiceLabel func(V) string
}

// Scalar declares a field backed by a struct field of T:
//
//	supler.Scalar(func(p *Person) *string { return &p.Name }, codec.String())
func Scalar[T, V any](sel func(*T) *V, c Codec[V]) *ScalarField[T, V] {
	acc := selectorAccessor(sel)
	return &ScalarField[T, V]{base: base[T]{name: acc.name, label: acc.name}, acc: acc, codec: c}
}

// ScalarFunc declares a field with explicit accessors, for values that are
// not plain struct fields. set must return a modified copy.
func ScalarFunc[T, V any](name string, get func(T) V, set func(T, V) T, c Codec[V]) *ScalarField[T, V] {
	return &ScalarField[T, V]{
		base:  base[T]{name: name, label: name},
		acc:   accessor[T, V]{name: name, get: get, set: set},
		codec: c,
	}
}

func (f *ScalarField[T, V]) Kind() FieldKind { return FieldScalar }

// Named overrides the wire name derived from the selector.
func (f *ScalarField[T, V]) Named(name string) *ScalarField[T, V] {
	if f.label == f.name {
		f.label = name
	}
	f.name = name
	return f
}

func (f *ScalarField[T, V]) Label(key string) *ScalarField[T, V] { f.label = key; return f }

func (f *ScalarField[T, V]) Description(key string) *ScalarField[T, V] {
	f.description = key
	return f
}

// Required makes an empty value a validation error in every scope but ValidateNone.
func (f *ScalarField[T, V]) Required() *ScalarField[T, V] { f.required = true; return f }

func (f *ScalarField[T, V]) Validate(vs ...Validator[V]) *ScalarField[T, V] {
	f.validators = append(f.validators, vs...)
	return f
}

// Check adds a validation that also sees the whole object.
func (f *ScalarField[T, V]) Check(fn func(obj T, v V) []ErrorMessage) *ScalarField[T, V] {
	f.checks = append(f.checks, fn)
	return f
}

func (f *ScalarField[T, V]) EnabledIf(fn func(T) bool) *ScalarField[T, V] {
	f.enabledIf = fn
	return f
}

func (f *ScalarField[T, V]) IncludedIf(fn func(T) bool) *ScalarField[T, V] {
	f.includedIf = fn
	return f
}

func (f *ScalarField[T, V]) RenderHint(h RenderHint) *ScalarField[T, V] { f.hint = &h; return f }

// Choices restricts the value to the listed ones. label renders each choice;
// nil uses the encoded value.
func (f *ScalarField[T, V]) Choices(values func(T) []V, label func(V) string) *ScalarField[T, V] {
	f.choices = values
	f.choiceLabel = label
	return f
}

func (f *ScalarField[T, V]) applyJSON(parent Path, obj T, wire any) (T, FieldErrors) {
	p := parent.Child(f.name)
	v, err := f.codec.Decode(wire)
	if err != nil {
		return obj, FieldErrors{applyError(p, err)}
	}
	if f.choices != nil && !f.codec.IsEmpty(v) && !f.isChoice(obj, v) {
		return obj, FieldErrors{{Path: p, Code: CodeInvalidChoice, Params: map[string]any{"value": wire}}}
	}
	return f.acc.set(obj, v), nil
}

func (f *ScalarField[T, V]) isChoice(obj T, v V) bool {
	enc, err := f.codec.Encode(v)
	if err != nil {
		return false
	}
	return lo.ContainsBy(f.choices(obj), func(c V) bool {
		ce, err := f.codec.Encode(c)
		return err == nil && reflect.DeepEqual(ce, enc)
	})
}

func (f *ScalarField[T, V]) validate(parent Path, obj T, scope ValidationScope) FieldErrors {
	p := parent.Child(f.name)
	if !scope.covers(p) {
		return nil
	}
	v := f.acc.get(obj)
	if f.codec.IsEmpty(v) {
		if f.required {
			return FieldErrors{{Path: p, Code: CodeRequired}}
		}
		if !scope.runsOnEmpty() {
			return nil
		}
	}
	var errs FieldErrors
	for _, vd := range f.validators {
		errs = append(errs, errorsFromMessages(p, vd.Validate(v))...)
	}
	for _, c := range f.checks {
		errs = append(errs, errorsFromMessages(p, c(obj, v))...)
	}
	return errs
}

func (f *ScalarField[T, V]) generateJSON(rc *renderCtx, parent Path, obj T) map[string]any {
	out := f.commonJSON(rc, parent.Child(f.name), f.codec.JSONType(), obj)
	v := f.acc.get(obj)
	out["value"], _ = f.codec.Encode(v)
	if empty, err := f.codec.Encode(*new(V)); err == nil {
		out["empty_value"] = empty
	}
	validate := map[string]any{"required": f.required}
	for _, vd := range f.validators {
		if name, val := vd.Hint(); name != "" {
			validate[name] = val
		}
	}
	out["validate"] = validate
	if f.choices != nil {
		out["possible_values"] = lo.FilterMap(f.choices(obj), func(c V, _ int) (map[string]any, bool) {
			enc, err := f.codec.Encode(c)
			if err != nil {
				return nil, false
			}
			label := ""
			if f.choiceLabel != nil {
				label = rc.text(f.choiceLabel(c), nil)
			} else if s, ok := enc.(string); ok {
				label = s
			}
			return map[string]any{"value": enc, "label": label}, true
		})
	}
	return out
}

func (f *ScalarField[T, V]) valueJSON(obj T) (any, bool) {
	v, err := f.codec.Encode(f.acc.get(obj))
	if err != nil {
		return nil, true
	}
	return v, true
}

func (f *ScalarField[T, V]) lookup(rest Path) (FieldInfo, bool) { return f.noLookup(rest, f) }

func (f *ScalarField[T, V]) findAction(Path, T, Path) (*BoundAction[T], bool) { return nil, false }

func (f *ScalarField[T, V]) findModal(Path, T, Path, *Config) (processor, bool) { return nil, false }

type formatter interface{ JSONFormat() string }

func (f *ScalarField[T, V]) schema() (*jsonschema.Schema, bool, bool) {
	s := &jsonschema.Schema{Type: f.codec.JSONType(), Title: f.label, Description: f.description}
	if fm, ok := f.codec.(formatter); ok {
		s.Format = fm.JSONFormat()
	}
	for _, vd := range f.validators {
		applyHint(s, vd)
	}
	if empty, err := f.codec.Encode(*new(V)); err == nil && empty == nil {
		s = &jsonschema.Schema{Title: s.Title, Description: s.Description, OneOf: []*jsonschema.Schema{s, {Type: "null"}}}
		s.OneOf[0].Title, s.OneOf[0].Description = "", ""
	}
	return s, f.required && f.includedIf == nil, true
}

func applyHint[V any](s *jsonschema.Schema, vd Validator[V]) {
	name, val := vd.Hint()
	switch name {
	case HintMinLength:
		if n, ok := val.(int); ok {
			s.MinLength = jsonschema.Ptr(n)
		}
	case HintMaxLength:
		if n, ok := val.(int); ok {
			s.MaxLength = jsonschema.Ptr(n)
		}
	case HintMin:
		if n, ok := toFloat(val); ok {
			s.Minimum = jsonschema.Ptr(n)
		}
	case HintMax:
		if n, ok := toFloat(val); ok {
			s.Maximum = jsonschema.Ptr(n)
		}
	case HintPattern:
		if p, ok := val.(string); ok {
			s.Pattern = p
		}
	case HintOneOf:
		if vs, ok := val.([]any); ok {
			s.Enum = vs
		}
	}
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	}
	return 0, false
}
