// Package codec provides the value codecs used by scalar fields.
package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	supler "github.com/reoring/supler"
)

func invalidType(expected string, got any) error {
	return &supler.DecodeError{
		Code:   supler.CodeInvalidType,
		Params: map[string]any{"expected": expected},
		Cause:  fmt.Errorf("expected %s, got %T", expected, got),
	}
}

func parseError(expected string, err error) error {
	return &supler.DecodeError{
		Code:   supler.CodeParseError,
		Params: map[string]any{"expected": expected},
		Cause:  err,
	}
}

// String returns the codec for plain text. The empty string is empty.
func String() supler.Codec[string] { return stringCodec{} }

type stringCodec struct{}

func (stringCodec) Decode(wire any) (string, error) {
	switch w := wire.(type) {
	case nil:
		return "", nil
	case string:
		return w, nil
	default:
		return "", invalidType("string", wire)
	}
}

func (stringCodec) Encode(v string) (any, error) { return v, nil }
func (stringCodec) JSONType() string             { return "string" }
func (stringCodec) IsEmpty(v string) bool        { return v == "" }

// Int returns the codec for integers. Numeric strings are accepted since
// HTML inputs submit text; zero counts as empty.
func Int() supler.Codec[int] { return intCodec[int]{bits: strconv.IntSize} }

// Int64 is Int for int64 values.
func Int64() supler.Codec[int64] { return intCodec[int64]{bits: 64} }

type intCodec[N int | int64] struct{ bits int }

func (c intCodec[N]) Decode(wire any) (N, error) {
	var s string
	switch w := wire.(type) {
	case nil:
		return 0, nil
	case json.Number:
		s = w.String()
	case string:
		s = strings.TrimSpace(w)
		if s == "" {
			return 0, nil
		}
	case float64:
		if w != math.Trunc(w) {
			return 0, parseError("integer", fmt.Errorf("%v is not an integer", w))
		}
		s = strconv.FormatFloat(w, 'f', -1, 64)
	case int:
		return N(w), nil
	case int64:
		return N(w), nil
	default:
		return 0, invalidType("integer", wire)
	}
	n, err := strconv.ParseInt(s, 10, c.bits)
	if err != nil {
		// Integral values written as 30.0 or 1e3.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, parseError("integer", err)
		}
		return c.fromFloat(f)
	}
	return N(n), nil
}

func (c intCodec[N]) fromFloat(f float64) (N, error) {
	limit := math.Ldexp(1, c.bits-1)
	if f < -limit || f >= limit {
		return 0, parseError("integer", fmt.Errorf("%v is out of range", f))
	}
	return N(f), nil
}

func (intCodec[N]) Encode(v N) (any, error) { return int64(v), nil }
func (intCodec[N]) JSONType() string        { return "integer" }
func (intCodec[N]) IsEmpty(v N) bool        { return v == 0 }

// Float64 returns the codec for floating point numbers. Zero counts as empty.
func Float64() supler.Codec[float64] { return floatCodec{} }

type floatCodec struct{}

func (floatCodec) Decode(wire any) (float64, error) {
	var s string
	switch w := wire.(type) {
	case nil:
		return 0, nil
	case json.Number:
		s = w.String()
	case string:
		s = strings.TrimSpace(w)
		if s == "" {
			return 0, nil
		}
	case float64:
		return w, nil
	case int:
		return float64(w), nil
	case int64:
		return float64(w), nil
	default:
		return 0, invalidType("number", wire)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, parseError("number", err)
	}
	return f, nil
}

func (floatCodec) Encode(v float64) (any, error) { return v, nil }
func (floatCodec) JSONType() string              { return "number" }
func (floatCodec) IsEmpty(v float64) bool        { return v == 0 }

// Bool returns the codec for checkboxes. A boolean is never empty.
func Bool() supler.Codec[bool] { return boolCodec{} }

type boolCodec struct{}

func (boolCodec) Decode(wire any) (bool, error) {
	switch w := wire.(type) {
	case nil:
		return false, nil
	case bool:
		return w, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(w))
		if err != nil {
			return false, parseError("boolean", err)
		}
		return b, nil
	default:
		return false, invalidType("boolean", wire)
	}
}

func (boolCodec) Encode(v bool) (any, error) { return v, nil }
func (boolCodec) JSONType() string           { return "boolean" }
func (boolCodec) IsEmpty(bool) bool          { return false }

// Enum returns a string codec restricted to values.
func Enum[E ~string](values ...E) supler.Codec[E] {
	allowed := make(map[E]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return enumCodec[E]{allowed: allowed, values: values}
}

type enumCodec[E ~string] struct {
	allowed map[E]struct{}
	values  []E
}

func (c enumCodec[E]) Decode(wire any) (E, error) {
	s, err := stringCodec{}.Decode(wire)
	if err != nil || s == "" {
		return "", err
	}
	if _, ok := c.allowed[E(s)]; !ok {
		return "", &supler.DecodeError{
			Code:   supler.CodeInvalidEnum,
			Params: map[string]any{"value": s},
			Cause:  fmt.Errorf("%q is not one of %v", s, c.values),
		}
	}
	return E(s), nil
}

func (enumCodec[E]) Encode(v E) (any, error) { return string(v), nil }
func (enumCodec[E]) JSONType() string        { return "string" }
func (enumCodec[E]) IsEmpty(v E) bool        { return v == "" }

// Optional lifts a codec to pointers: JSON null and the inner codec's empty
// values decode to nil, and nil encodes to null.
func Optional[V any](inner supler.Codec[V]) supler.Codec[*V] { return optionalCodec[V]{inner: inner} }

type optionalCodec[V any] struct{ inner supler.Codec[V] }

func (c optionalCodec[V]) Decode(wire any) (*V, error) {
	if wire == nil {
		return nil, nil
	}
	v, err := c.inner.Decode(wire)
	if err != nil {
		return nil, err
	}
	if s, ok := wire.(string); ok && strings.TrimSpace(s) == "" && c.inner.IsEmpty(v) {
		return nil, nil
	}
	return &v, nil
}

func (c optionalCodec[V]) Encode(v *V) (any, error) {
	if v == nil {
		return nil, nil
	}
	return c.inner.Encode(*v)
}

func (c optionalCodec[V]) JSONType() string  { return c.inner.JSONType() }
func (c optionalCodec[V]) IsEmpty(v *V) bool { return v == nil }

// JSONFormat forwards the inner codec's format, if any.
func (c optionalCodec[V]) JSONFormat() string {
	if f, ok := c.inner.(interface{ JSONFormat() string }); ok {
		return f.JSONFormat()
	}
	return ""
}
