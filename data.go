package supler

import (
	"github.com/goccy/go-json"
)

// DataKind discriminates the outcomes of processing a request.
type DataKind uint8

const (
	// DataInitial is a freshly created or action-replaced form.
	DataInitial DataKind = iota + 1
	// DataWithErrors is a form after applying values and/or validating.
	DataWithErrors
	// DataCustomOnly is an opaque payload returned by an action.
	DataCustomOnly
	// DataModal wraps the outcome for a modal form.
	DataModal
)

func (k DataKind) String() string {
	switch k {
	case DataInitial:
		return "initial"
	case DataWithErrors:
		return "with_errors"
	case DataCustomOnly:
		return "custom_data_only"
	case DataModal:
		return "modal"
	default:
		return "unknown"
	}
}

// Data is the closed set of results sent back to a client. Switch on Kind
// and use the concrete types *FormWithObject[T], *CustomDataOnly and
// *ModalWithObject.
type Data interface {
	Kind() DataKind
	// GenerateJSON returns the outgoing document as plain JSON values.
	GenerateJSON() any
	json.Marshaler
	isData()
}

// FormWithObject is a form bound to an object plus the errors, custom data
// and meta accumulated for it. Values are immutable: every operation returns
// a new one.
type FormWithObject[T any] struct {
	kind      DataKind
	form      *Form[T]
	obj       T
	custom    any
	hasCustom bool
	applyErrs FieldErrors
	valErrs   FieldErrors
	meta      Meta
}

// NewInitial binds form to obj without any errors.
func NewInitial[T any](form *Form[T], obj T) *FormWithObject[T] {
	return &FormWithObject[T]{kind: DataInitial, form: form, obj: obj}
}

func (f *FormWithObject[T]) clone() *FormWithObject[T] {
	cp := *f
	return &cp
}

// WithCustomData returns a copy carrying custom data.
func (f *FormWithObject[T]) WithCustomData(custom any) *FormWithObject[T] {
	cp := f.clone()
	cp.custom, cp.hasCustom = custom, true
	return cp
}

// WithMeta returns a copy carrying m.
func (f *FormWithObject[T]) WithMeta(m Meta) *FormWithObject[T] {
	cp := f.clone()
	cp.meta = m
	return cp
}

func (f *FormWithObject[T]) Kind() DataKind  { return f.kind }
func (f *FormWithObject[T]) Form() *Form[T]  { return f.form }
func (f *FormWithObject[T]) Object() T       { return f.obj }
func (f *FormWithObject[T]) Meta() Meta      { return f.meta }
func (f *FormWithObject[T]) isData()         {}
func (f *FormWithObject[T]) HasErrors() bool { return len(f.applyErrs)+len(f.valErrs) > 0 }

// CustomData returns the custom data attached by an action.
func (f *FormWithObject[T]) CustomData() (any, bool) { return f.custom, f.hasCustom }

// ApplyErrors returns the errors raised while applying submitted values.
func (f *FormWithObject[T]) ApplyErrors() FieldErrors { return f.applyErrs }

// ValidationErrors returns the errors of the last validation pass.
func (f *FormWithObject[T]) ValidationErrors() FieldErrors { return f.valErrs }

// Errors returns apply errors followed by validation errors.
func (f *FormWithObject[T]) Errors() FieldErrors { return ConcatErrors(f.applyErrs, f.valErrs) }

// ValuesJSON renders the submission document of the bound object.
func (f *FormWithObject[T]) ValuesJSON() map[string]any { return f.form.values(f.obj) }

// DoValidate validates the object under scope. Apply errors are kept;
// previous validation errors are replaced.
func (f *FormWithObject[T]) DoValidate(scope ValidationScope) *FormWithObject[T] {
	cp := f.clone()
	cp.kind = DataWithErrors
	cp.valErrs = f.form.validateAt(EmptyPath, f.obj, scope)
	return cp
}

func (f *FormWithObject[T]) GenerateJSON() any {
	rc := newRenderCtx(f.form.cfg)
	errs := f.Errors()
	errJSON := make([]any, 0, len(errs))
	for _, e := range errs {
		errJSON = append(errJSON, map[string]any{
			"path":    e.Path.String(),
			"code":    e.Code,
			"message": rc.errorMessage(e),
		})
	}
	doc := map[string]any{
		"is_supler_form": true,
		"main_form":      f.form.render(rc, EmptyPath, f.obj),
		"errors":         errJSON,
		"custom_data":    nil,
	}
	if f.hasCustom {
		doc["custom_data"] = f.custom
	}
	f.meta.addTo(doc)
	return doc
}

func (f *FormWithObject[T]) MarshalJSON() ([]byte, error) { return json.Marshal(f.GenerateJSON()) }

// CustomDataOnly is the result of an action that returned no object. It
// serializes as exactly its payload.
type CustomDataOnly struct {
	payload any
}

// NewCustomDataOnly wraps an opaque payload.
func NewCustomDataOnly(payload any) *CustomDataOnly { return &CustomDataOnly{payload: payload} }

func (c *CustomDataOnly) Kind() DataKind               { return DataCustomOnly }
func (c *CustomDataOnly) Payload() any                 { return c.payload }
func (c *CustomDataOnly) GenerateJSON() any            { return c.payload }
func (c *CustomDataOnly) MarshalJSON() ([]byte, error) { return json.Marshal(c.payload) }
func (c *CustomDataOnly) isData()                      {}

// ModalWithObject is a modal form to display, together with the path of
// the modal field that produced it.
type ModalWithObject struct {
	path  Path
	inner Data
}

func (m *ModalWithObject) Kind() DataKind { return DataModal }

// Path returns the modal field's path in the outer form.
func (m *ModalWithObject) Path() Path { return m.path }

// Inner returns the modal form's own result.
func (m *ModalWithObject) Inner() Data { return m.inner }

func (m *ModalWithObject) GenerateJSON() any {
	return map[string]any{
		"type": "modal",
		"path": m.path.String(),
		"form": m.inner.GenerateJSON(),
	}
}

func (m *ModalWithObject) MarshalJSON() ([]byte, error) { return json.Marshal(m.GenerateJSON()) }
func (m *ModalWithObject) isData()                      {}
