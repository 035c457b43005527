package supler

import "github.com/reoring/supler/jsonschema"

// ModalField opens a secondary form over a value derived from T. The modal
// form is processed on its own: applying values to it never touches T.
type ModalField[T, U any] struct {
	base[T]
	open func(T) U
	form *Form[U]
}

// Modal declares a modal. open derives the modal object from the current
// object each time the modal is shown or submitted.
func Modal[T, U any](name string, open func(T) U, form *Form[U]) *ModalField[T, U] {
	return &ModalField[T, U]{base: base[T]{name: name, label: name}, open: open, form: form}
}

func (f *ModalField[T, U]) Kind() FieldKind { return FieldModal }

func (f *ModalField[T, U]) Label(key string) *ModalField[T, U] { f.label = key; return f }

func (f *ModalField[T, U]) Description(key string) *ModalField[T, U] {
	f.description = key
	return f
}

func (f *ModalField[T, U]) EnabledIf(fn func(T) bool) *ModalField[T, U] { f.enabledIf = fn; return f }

func (f *ModalField[T, U]) IncludedIf(fn func(T) bool) *ModalField[T, U] {
	f.includedIf = fn
	return f
}

func (f *ModalField[T, U]) RenderHint(h RenderHint) *ModalField[T, U] { f.hint = &h; return f }

func (f *ModalField[T, U]) applyJSON(_ Path, obj T, _ any) (T, FieldErrors) { return obj, nil }

func (f *ModalField[T, U]) validate(Path, T, ValidationScope) FieldErrors { return nil }

func (f *ModalField[T, U]) generateJSON(rc *renderCtx, parent Path, obj T) map[string]any {
	return f.commonJSON(rc, parent.Child(f.name), "modal", obj)
}

func (f *ModalField[T, U]) valueJSON(T) (any, bool) { return nil, false }

func (f *ModalField[T, U]) lookup(rest Path) (FieldInfo, bool) { return f.noLookup(rest, f) }

func (f *ModalField[T, U]) findAction(Path, T, Path) (*BoundAction[T], bool) { return nil, false }

func (f *ModalField[T, U]) findModal(_ Path, obj T, rest Path, cfg *Config) (processor, bool) {
	if !rest.IsEmpty() || !f.enabled(obj) {
		return nil, false
	}
	form := f.form
	if form.cfg == nil && cfg != nil {
		form = form.WithConfig(cfg)
	}
	return NewInitial(form, f.open(obj)), true
}

func (f *ModalField[T, U]) schema() (*jsonschema.Schema, bool, bool) { return nil, false, false }
