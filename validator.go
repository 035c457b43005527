package supler

// Validator checks a native field value and reports error descriptors.
// Hint returns a name/value pair rendered into the field's "validate"
// section so frontends can mirror the check; an empty name means no hint.
type Validator[V any] interface {
	Validate(v V) []ErrorMessage
	Hint() (string, any)
}

// Hint names understood by the JSON Schema projection.
const (
	HintMinLength = "min_length"
	HintMaxLength = "max_length"
	HintMin       = "min"
	HintMax       = "max"
	HintPattern   = "pattern"
	HintOneOf     = "one_of"
)

type funcValidator[V any] struct {
	hintName  string
	hintValue any
	fn        func(V) []ErrorMessage
}

func (v funcValidator[V]) Validate(val V) []ErrorMessage { return v.fn(val) }
func (v funcValidator[V]) Hint() (string, any)           { return v.hintName, v.hintValue }

// NewValidator wraps fn with a client-side hint.
func NewValidator[V any](hintName string, hintValue any, fn func(V) []ErrorMessage) Validator[V] {
	return funcValidator[V]{hintName: hintName, hintValue: hintValue, fn: fn}
}

// ValidatorFunc adapts a plain function; it carries no hint.
func ValidatorFunc[V any](fn func(V) []ErrorMessage) Validator[V] {
	return funcValidator[V]{fn: fn}
}
