package supler

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/reoring/supler/jsonschema"
)

// Form is the ordered description of the fields of T. Forms are immutable
// once built and safe for concurrent use.
type Form[T any] struct {
	fields []Field[T]
	byName map[string]int
	cfg    *Config
}

// NewForm builds a form from fields in display order. It panics on invalid
// or duplicate field names since those are programming errors.
func NewForm[T any](fields ...Field[T]) *Form[T] {
	f := &Form[T]{fields: fields, byName: make(map[string]int, len(fields))}
	for i, fd := range fields {
		if fd == nil {
			panic(fmt.Sprintf("supler.NewForm: field %d is nil", i))
		}
		name := fd.Name()
		if !validFieldName(name) {
			panic(fmt.Sprintf("supler.NewForm: invalid field name %q", name))
		}
		if _, dup := f.byName[name]; dup {
			panic(fmt.Sprintf("supler.NewForm: duplicate field name %q", name))
		}
		f.byName[name] = i
	}
	return f
}

// WithConfig returns a copy of the form that renders and processes with cfg.
func (f *Form[T]) WithConfig(cfg *Config) *Form[T] {
	cp := *f
	cp.cfg = cfg
	return &cp
}

// Config returns the form's configuration, never nil.
func (f *Form[T]) Config() *Config {
	if f.cfg == nil {
		return defaultConfig
	}
	return f.cfg
}

// Fields lists the top-level fields in display order.
func (f *Form[T]) Fields() []FieldInfo {
	return lo.Map(f.fields, func(fd Field[T], _ int) FieldInfo { return fd })
}

// FieldByPath resolves a field description through subforms and lists.
func (f *Form[T]) FieldByPath(p Path) (FieldInfo, bool) { return f.lookup(p) }

// ApplyJSONValues writes the values of a submission onto a copy of obj.
// Keys without a matching field are ignored; fields whose key is absent keep
// their value. Apply errors are collected, never fatal.
func (f *Form[T]) ApplyJSONValues(obj T, values map[string]any) (T, FieldErrors) {
	return f.applyValues(EmptyPath, obj, values)
}

// Validate runs the field validators selected by scope.
func (f *Form[T]) Validate(obj T, scope ValidationScope) FieldErrors {
	return f.validateAt(EmptyPath, obj, scope)
}

// GenerateJSON renders the form over obj: {"fields": [...]}.
func (f *Form[T]) GenerateJSON(obj T) map[string]any {
	return f.render(newRenderCtx(f.cfg), EmptyPath, obj)
}

// ValuesJSON renders the submission document for obj, i.e. what a client
// would send back unchanged.
func (f *Form[T]) ValuesJSON(obj T) map[string]any { return f.values(obj) }

// FindAction locates the action at p, bound to obj. Disabled or excluded
// actions are not found.
func (f *Form[T]) FindAction(obj T, p Path) (*BoundAction[T], bool) {
	return f.findAction(EmptyPath, obj, p)
}

// FindModal locates the modal at p and opens it over obj.
func (f *Form[T]) FindModal(obj T, p Path) (Data, bool) {
	return f.findModal(EmptyPath, obj, p, f.cfg)
}

// JSONSchema projects the value document of the form as a JSON Schema.
func (f *Form[T]) JSONSchema() *jsonschema.Schema { return f.objectSchema() }

func (f *Form[T]) field(name string) (Field[T], bool) {
	i, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.fields[i], true
}

func (f *Form[T]) applyValues(parent Path, obj T, values map[string]any) (T, FieldErrors) {
	var errs FieldErrors
	for _, fd := range f.fields {
		wire, present := values[fd.Name()]
		if !present || !fd.included(obj) || !fd.enabled(obj) {
			continue
		}
		var ferrs FieldErrors
		obj, ferrs = fd.applyJSON(parent, obj, wire)
		errs = append(errs, ferrs...)
	}
	return obj, errs
}

func (f *Form[T]) validateAt(parent Path, obj T, scope ValidationScope) FieldErrors {
	if scope.kind == scopeNone {
		return nil
	}
	var errs FieldErrors
	for _, fd := range f.fields {
		if !fd.included(obj) || !fd.enabled(obj) {
			continue
		}
		errs = append(errs, fd.validate(parent, obj, scope)...)
	}
	return errs
}

func (f *Form[T]) render(rc *renderCtx, parent Path, obj T) map[string]any {
	fields := make([]any, 0, len(f.fields))
	for _, fd := range f.fields {
		if fd.included(obj) {
			fields = append(fields, fd.generateJSON(rc, parent, obj))
		}
	}
	return map[string]any{"fields": fields}
}

func (f *Form[T]) values(obj T) map[string]any {
	out := make(map[string]any, len(f.fields))
	for _, fd := range f.fields {
		if !fd.included(obj) {
			continue
		}
		if v, ok := fd.valueJSON(obj); ok {
			out[fd.Name()] = v
		}
	}
	return out
}

// resolve splits rest into the named top-level field and the remainder.
func (f *Form[T]) resolve(rest Path) (Field[T], Path, bool) {
	seg, tail, ok := rest.Head()
	if !ok {
		return nil, tail, false
	}
	name, ok := seg.Name()
	if !ok {
		return nil, tail, false
	}
	fd, ok := f.field(name)
	return fd, tail, ok
}

func (f *Form[T]) lookup(rest Path) (FieldInfo, bool) {
	fd, tail, ok := f.resolve(rest)
	if !ok {
		return nil, false
	}
	return fd.lookup(tail)
}

func (f *Form[T]) findAction(parent Path, obj T, rest Path) (*BoundAction[T], bool) {
	fd, tail, ok := f.resolve(rest)
	if !ok || !fd.included(obj) {
		return nil, false
	}
	return fd.findAction(parent, obj, tail)
}

func (f *Form[T]) findModal(parent Path, obj T, rest Path, cfg *Config) (processor, bool) {
	fd, tail, ok := f.resolve(rest)
	if !ok || !fd.included(obj) {
		return nil, false
	}
	return fd.findModal(parent, obj, tail, cfg)
}

func (f *Form[T]) objectSchema() *jsonschema.Schema {
	s := jsonschema.Object()
	for _, fd := range f.fields {
		fs, required, ok := fd.schema()
		if !ok {
			continue
		}
		s.Properties[fd.Name()] = fs
		if required {
			s.Required = append(s.Required, fd.Name())
		}
	}
	return s
}
