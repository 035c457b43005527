package supler

import (
	"context"
	"slices"

	"github.com/reoring/supler/jsonschema"
)

// SubformField nests the form of a single embedded object U.
type SubformField[T, U any] struct {
	base[T]
	acc  accessor[T, U]
	form *Form[U]
}

// Subform declares an embedded object rendered with form.
func Subform[T, U any](sel func(*T) *U, form *Form[U]) *SubformField[T, U] {
	acc := selectorAccessor(sel)
	return &SubformField[T, U]{base: base[T]{name: acc.name, label: acc.name}, acc: acc, form: form}
}

func (f *SubformField[T, U]) Kind() FieldKind { return FieldSubform }

func (f *SubformField[T, U]) Named(name string) *SubformField[T, U] {
	if f.label == f.name {
		f.label = name
	}
	f.name = name
	return f
}

func (f *SubformField[T, U]) Label(key string) *SubformField[T, U] { f.label = key; return f }

func (f *SubformField[T, U]) Description(key string) *SubformField[T, U] {
	f.description = key
	return f
}

func (f *SubformField[T, U]) EnabledIf(fn func(T) bool) *SubformField[T, U] {
	f.enabledIf = fn
	return f
}

func (f *SubformField[T, U]) IncludedIf(fn func(T) bool) *SubformField[T, U] {
	f.includedIf = fn
	return f
}

func (f *SubformField[T, U]) RenderHint(h RenderHint) *SubformField[T, U] { f.hint = &h; return f }

func (f *SubformField[T, U]) applyJSON(parent Path, obj T, wire any) (T, FieldErrors) {
	p := parent.Child(f.name)
	if wire == nil {
		return obj, nil
	}
	values, ok := wire.(map[string]any)
	if !ok {
		return obj, FieldErrors{{Path: p, Code: CodeInvalidType, Params: map[string]any{"expected": "object"}}}
	}
	inner, errs := f.form.applyValues(p, f.acc.get(obj), values)
	return f.acc.set(obj, inner), errs
}

func (f *SubformField[T, U]) validate(parent Path, obj T, scope ValidationScope) FieldErrors {
	return f.form.validateAt(parent.Child(f.name), f.acc.get(obj), scope)
}

func (f *SubformField[T, U]) generateJSON(rc *renderCtx, parent Path, obj T) map[string]any {
	p := parent.Child(f.name)
	out := f.commonJSON(rc, p, "subform", obj)
	out["multiple"] = false
	out["value"] = f.form.render(rc, p, f.acc.get(obj))
	return out
}

func (f *SubformField[T, U]) valueJSON(obj T) (any, bool) {
	return f.form.values(f.acc.get(obj)), true
}

func (f *SubformField[T, U]) lookup(rest Path) (FieldInfo, bool) {
	if rest.IsEmpty() {
		return f, true
	}
	return f.form.lookup(rest)
}

func (f *SubformField[T, U]) findAction(parent Path, obj T, rest Path) (*BoundAction[T], bool) {
	if !f.enabled(obj) {
		return nil, false
	}
	inner, ok := f.form.findAction(parent.Child(f.name), f.acc.get(obj), rest)
	if !ok {
		return nil, false
	}
	return liftAction(inner, obj, f.acc.set), true
}

func (f *SubformField[T, U]) findModal(parent Path, obj T, rest Path, cfg *Config) (processor, bool) {
	if !f.enabled(obj) {
		return nil, false
	}
	return f.form.findModal(parent.Child(f.name), f.acc.get(obj), rest, cfg)
}

func (f *SubformField[T, U]) schema() (*jsonschema.Schema, bool, bool) {
	s := f.form.objectSchema()
	s.Title, s.Description = f.label, f.description
	return s, false, true
}

// SubformListField nests a form per element of a slice of U.
type SubformListField[T, U any] struct {
	base[T]
	acc         accessor[T, []U]
	form        *Form[U]
	newItem     func() U
	minItems    int
	maxItems    int
	validators  []Validator[[]U]
	itemActions []*ItemAction[T, U]
}

// SubformList declares a list of embedded objects, each rendered with form.
func SubformList[T, U any](sel func(*T) *[]U, form *Form[U]) *SubformListField[T, U] {
	acc := selectorAccessor(sel)
	return &SubformListField[T, U]{
		base: base[T]{name: acc.name, label: acc.name},
		acc:  acc,
		form: form,
	}
}

func (f *SubformListField[T, U]) Kind() FieldKind { return FieldSubformList }

func (f *SubformListField[T, U]) Named(name string) *SubformListField[T, U] {
	if f.label == f.name {
		f.label = name
	}
	f.name = name
	return f
}

func (f *SubformListField[T, U]) Label(key string) *SubformListField[T, U] { f.label = key; return f }

func (f *SubformListField[T, U]) Description(key string) *SubformListField[T, U] {
	f.description = key
	return f
}

func (f *SubformListField[T, U]) EnabledIf(fn func(T) bool) *SubformListField[T, U] {
	f.enabledIf = fn
	return f
}

func (f *SubformListField[T, U]) IncludedIf(fn func(T) bool) *SubformListField[T, U] {
	f.includedIf = fn
	return f
}

func (f *SubformListField[T, U]) RenderHint(h RenderHint) *SubformListField[T, U] {
	f.hint = &h
	return f
}

// NewItem builds the element used when the payload carries more elements
// than the object. Defaults to the zero value of U.
func (f *SubformListField[T, U]) NewItem(fn func() U) *SubformListField[T, U] {
	f.newItem = fn
	return f
}

// MinItems requires at least n elements when the list is validated.
func (f *SubformListField[T, U]) MinItems(n int) *SubformListField[T, U] { f.minItems = n; return f }

// MaxItems allows at most n elements; zero means unbounded.
func (f *SubformListField[T, U]) MaxItems(n int) *SubformListField[T, U] { f.maxItems = n; return f }

// Validate adds validators over the whole list, e.g. uniqueness of a key.
func (f *SubformListField[T, U]) Validate(vs ...Validator[[]U]) *SubformListField[T, U] {
	f.validators = append(f.validators, vs...)
	return f
}

// ItemActions attaches actions rendered inside every element. Panics when
// an action name collides with a field of the element form.
func (f *SubformListField[T, U]) ItemActions(actions ...*ItemAction[T, U]) *SubformListField[T, U] {
	for _, a := range actions {
		if !validFieldName(a.name) {
			panic("supler: invalid item action name " + a.name)
		}
		if _, dup := f.form.byName[a.name]; dup || f.itemAction(a.name) != nil {
			panic("supler: duplicate item action name " + a.name)
		}
		f.itemActions = append(f.itemActions, a)
	}
	return f
}

func (f *SubformListField[T, U]) itemAction(name string) *ItemAction[T, U] {
	for _, a := range f.itemActions {
		if a.name == name {
			return a
		}
	}
	return nil
}

func (f *SubformListField[T, U]) blank() U {
	if f.newItem != nil {
		return f.newItem()
	}
	var zero U
	return zero
}

func (f *SubformListField[T, U]) applyJSON(parent Path, obj T, wire any) (T, FieldErrors) {
	p := parent.Child(f.name)
	var arr []any
	switch w := wire.(type) {
	case nil:
	case []any:
		arr = w
	default:
		return obj, FieldErrors{{Path: p, Code: CodeInvalidType, Params: map[string]any{"expected": "array"}}}
	}
	existing := f.acc.get(obj)
	out := make([]U, len(arr))
	var errs FieldErrors
	for i, el := range arr {
		var item U
		if i < len(existing) {
			item = existing[i]
		} else {
			item = f.blank()
		}
		ip := p.Indexed(i)
		switch values := el.(type) {
		case map[string]any:
			var ierrs FieldErrors
			item, ierrs = f.form.applyValues(ip, item, values)
			errs = append(errs, ierrs...)
		case nil:
		default:
			errs = append(errs, FieldError{Path: ip, Code: CodeInvalidType, Params: map[string]any{"expected": "object"}})
		}
		out[i] = item
	}
	return f.acc.set(obj, out), errs
}

func (f *SubformListField[T, U]) validate(parent Path, obj T, scope ValidationScope) FieldErrors {
	p := parent.Child(f.name)
	items := f.acc.get(obj)
	var errs FieldErrors
	if scope.covers(p) {
		if f.minItems > 0 && len(items) < f.minItems {
			errs = append(errs, FieldError{Path: p, Code: CodeTooFewItems, Params: map[string]any{"min": f.minItems}})
		}
		if f.maxItems > 0 && len(items) > f.maxItems {
			errs = append(errs, FieldError{Path: p, Code: CodeTooManyItems, Params: map[string]any{"max": f.maxItems}})
		}
		for _, vd := range f.validators {
			errs = append(errs, errorsFromMessages(p, vd.Validate(items))...)
		}
	}
	for i, item := range items {
		errs = append(errs, f.form.validateAt(p.Indexed(i), item, scope)...)
	}
	return errs
}

func (f *SubformListField[T, U]) generateJSON(rc *renderCtx, parent Path, obj T) map[string]any {
	p := parent.Child(f.name)
	out := f.commonJSON(rc, p, "subform", obj)
	out["multiple"] = true
	items := f.acc.get(obj)
	values := make([]any, 0, len(items))
	for i, item := range items {
		ip := p.Indexed(i)
		el := f.form.render(rc, ip, item)
		fields := el["fields"].([]any)
		for _, a := range f.itemActions {
			fields = append(fields, a.generateJSON(rc, ip, f.enabled(obj)))
		}
		el["fields"] = fields
		values = append(values, el)
	}
	out["value"] = values
	validate := map[string]any{}
	if f.minItems > 0 {
		validate["min_items"] = f.minItems
	}
	if f.maxItems > 0 {
		validate["max_items"] = f.maxItems
	}
	out["validate"] = validate
	return out
}

func (f *SubformListField[T, U]) valueJSON(obj T) (any, bool) {
	items := f.acc.get(obj)
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = f.form.values(item)
	}
	return out, true
}

func (f *SubformListField[T, U]) lookup(rest Path) (FieldInfo, bool) {
	if rest.IsEmpty() {
		return f, true
	}
	seg, tail, _ := rest.Head()
	if _, ok := seg.Index(); !ok {
		return nil, false
	}
	if seg, last, ok := tail.Head(); ok && last.IsEmpty() {
		if name, _ := seg.Name(); f.itemAction(name) != nil {
			return f.itemAction(name), true
		}
	}
	if tail.IsEmpty() {
		return nil, false
	}
	return f.form.lookup(tail)
}

// element resolves rest = [index, ...] against the current list.
func (f *SubformListField[T, U]) element(obj T, rest Path) (int, U, Path, bool) {
	var zero U
	seg, tail, ok := rest.Head()
	if !ok {
		return 0, zero, tail, false
	}
	i, ok := seg.Index()
	items := f.acc.get(obj)
	if !ok || i < 0 || i >= len(items) || tail.IsEmpty() {
		return 0, zero, tail, false
	}
	return i, items[i], tail, true
}

func (f *SubformListField[T, U]) setAt(i int) func(T, U) T {
	return func(obj T, u U) T {
		items := slices.Clone(f.acc.get(obj))
		items[i] = u
		return f.acc.set(obj, items)
	}
}

func (f *SubformListField[T, U]) findAction(parent Path, obj T, rest Path) (*BoundAction[T], bool) {
	if !f.enabled(obj) {
		return nil, false
	}
	i, item, tail, ok := f.element(obj, rest)
	if !ok {
		return nil, false
	}
	ip := parent.Child(f.name).Indexed(i)
	if seg, last, _ := tail.Head(); last.IsEmpty() {
		if name, _ := seg.Name(); f.itemAction(name) != nil {
			return f.itemAction(name).bind(ip, obj, i, item), true
		}
	}
	inner, ok := f.form.findAction(ip, item, tail)
	if !ok {
		return nil, false
	}
	return liftAction(inner, obj, f.setAt(i)), true
}

func (f *SubformListField[T, U]) findModal(parent Path, obj T, rest Path, cfg *Config) (processor, bool) {
	if !f.enabled(obj) {
		return nil, false
	}
	i, item, tail, ok := f.element(obj, rest)
	if !ok {
		return nil, false
	}
	return f.form.findModal(parent.Child(f.name).Indexed(i), item, tail, cfg)
}

func (f *SubformListField[T, U]) schema() (*jsonschema.Schema, bool, bool) {
	s := &jsonschema.Schema{Type: "array", Title: f.label, Description: f.description, Items: f.form.objectSchema()}
	if f.minItems > 0 {
		s.MinItems = jsonschema.Ptr(f.minItems)
	}
	if f.maxItems > 0 {
		s.MaxItems = jsonschema.Ptr(f.maxItems)
	}
	return s, false, true
}

// ItemAction is an action rendered inside every element of a subform list.
// It runs against the object owning the list and receives the element and
// its index.
type ItemAction[T, U any] struct {
	name      string
	label     string
	scope     ValidationScope
	enclosing bool
	run       func(ctx context.Context, parent T, index int, item U) (ActionResult[T], error)
}

// NewItemAction declares an element action, e.g. "remove this address".
func NewItemAction[T, U any](name string, run func(ctx context.Context, parent T, index int, item U) (ActionResult[T], error)) *ItemAction[T, U] {
	return &ItemAction[T, U]{name: name, label: name, scope: ValidateNone, run: run}
}

func (a *ItemAction[T, U]) Name() string     { return a.name }
func (a *ItemAction[T, U]) Kind() FieldKind  { return FieldAction }
func (a *ItemAction[T, U]) LabelKey() string { return a.label }

func (a *ItemAction[T, U]) Label(key string) *ItemAction[T, U] { a.label = key; return a }

// ValidateWith gates the action on a validation pass over scope.
func (a *ItemAction[T, U]) ValidateWith(scope ValidationScope) *ItemAction[T, U] {
	a.scope, a.enclosing = scope, false
	return a
}

// ValidateEnclosing gates the action on the element it belongs to.
func (a *ItemAction[T, U]) ValidateEnclosing() *ItemAction[T, U] {
	a.enclosing = true
	return a
}

func (a *ItemAction[T, U]) scopeAt(elem Path) ValidationScope {
	if a.enclosing {
		return ValidateInPath(elem)
	}
	return a.scope
}

func (a *ItemAction[T, U]) bind(elem Path, obj T, i int, item U) *BoundAction[T] {
	return &BoundAction[T]{
		path:  elem.Child(a.name),
		scope: a.scopeAt(elem),
		run: func(ctx context.Context) (ActionResult[T], error) {
			return a.run(ctx, obj, i, item)
		},
	}
}

func (a *ItemAction[T, U]) generateJSON(rc *renderCtx, elem Path, enabled bool) map[string]any {
	return map[string]any{
		"name":             a.name,
		"type":             "action",
		"label":            rc.text(a.label, nil),
		"path":             elem.Child(a.name).String(),
		"enabled":          enabled,
		"validation_scope": a.scopeAt(elem).toJSON(),
	}
}
