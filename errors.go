package supler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Error codes (exported consts for IDE completion and type safety by convention).
// Codes double as i18n message keys.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeParseError    = "parse_error"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidChoice = "invalid_choice"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooFewItems   = "too_few_items"
	CodeTooManyItems  = "too_many_items"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeBusinessRule  = "business_rule"
	CodeUniqueness    = "uniqueness"
)

// Sentinel errors for requests the engine refuses to process. Use errors.Is to
// match; every one of them also matches ErrMalformedRequest.
var (
	ErrMalformedRequest = errors.New("supler: malformed request")
	ErrInvalidPayload   = fmt.Errorf("%w: invalid payload", ErrMalformedRequest)
	ErrInvalidPath      = fmt.Errorf("%w: invalid field path", ErrMalformedRequest)
	ErrModalNotFound    = fmt.Errorf("%w: modal not found", ErrMalformedRequest)
	ErrNotModal         = fmt.Errorf("%w: field is not a modal", ErrMalformedRequest)
)

// ErrorMessage is an error descriptor produced by a validator: a message key
// plus structured parameters used when rendering it.
type ErrorMessage struct {
	Code   string
	Params map[string]any
}

// Msg builds an ErrorMessage from a code and alternating key/value params.
func Msg(code string, kv ...any) ErrorMessage {
	var params map[string]any
	for i := 0; i+1 < len(kv); i += 2 {
		if params == nil {
			params = make(map[string]any, len(kv)/2)
		}
		params[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return ErrorMessage{Code: code, Params: params}
}

// DecodeError is returned by codecs when a wire value cannot be converted to
// the field's native type.
type DecodeError struct {
	Code   string
	Params map[string]any
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return e.Code + ": " + e.Cause.Error()
	}
	return e.Code
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// FieldError is a single apply or validation problem located at a field path.
type FieldError struct {
	Path   Path
	Code   string
	Params map[string]any
	// Message optionally overrides the translated code.
	Message string
	Cause   error
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s at %s", e.Code, e.Path)
}

// FieldErrors is a multiset of field errors that implements error.
type FieldErrors []FieldError

// Error summarizes the first few errors.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(fe), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fe[i].String())
	}
	if len(fe) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(fe))
	}
	return b.String()
}

// HasErrors reports whether the collection is non-empty.
func (fe FieldErrors) HasErrors() bool { return len(fe) > 0 }

// At returns the errors located exactly at p.
func (fe FieldErrors) At(p Path) FieldErrors {
	return lo.Filter(fe, func(e FieldError, _ int) bool { return e.Path.Equal(p) })
}

// Under returns the errors located at p or below it.
func (fe FieldErrors) Under(p Path) FieldErrors {
	return lo.Filter(fe, func(e FieldError, _ int) bool { return e.Path.HasPrefix(p) })
}

// Paths returns the distinct error paths in first-seen order.
func (fe FieldErrors) Paths() []Path {
	seen := make(map[PathKey]struct{}, len(fe))
	var out []Path
	for _, e := range fe {
		k := e.Path.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e.Path)
	}
	return out
}

// AppendErrors appends errors to the destination.
func AppendErrors(dst FieldErrors, more ...FieldError) FieldErrors {
	return append(dst, more...)
}

// ConcatErrors concatenates several collections into a new one.
func ConcatErrors(all ...FieldErrors) FieldErrors {
	var out FieldErrors
	for _, fe := range all {
		out = append(out, fe...)
	}
	return out
}

// AsFieldErrors extracts FieldErrors from an error using errors.As internally.
func AsFieldErrors(err error) (FieldErrors, bool) {
	if err == nil {
		return nil, false
	}
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// applyError turns a codec failure into a FieldError at p.
func applyError(p Path, err error) FieldError {
	var de *DecodeError
	if errors.As(err, &de) {
		code := de.Code
		if code == "" {
			code = CodeInvalidType
		}
		return FieldError{Path: p, Code: code, Params: de.Params, Cause: de.Cause}
	}
	return FieldError{Path: p, Code: CodeParseError, Cause: err}
}

func errorsFromMessages(p Path, msgs []ErrorMessage) FieldErrors {
	return lo.Map(msgs, func(m ErrorMessage, _ int) FieldError {
		return FieldError{Path: p, Code: m.Code, Params: m.Params}
	})
}
