package supler

// Codec converts between a field's native type V and its JSON wire value.
//
// Decode receives values as produced by the payload decoder: string, bool,
// json.Number, []any, map[string]any or nil. A nil wire value clears the
// field and should decode to the empty value. Failures are reported as
// *DecodeError so they surface as apply errors with a stable code.
type Codec[V any] interface {
	Decode(wire any) (V, error)
	Encode(v V) (any, error)
	// JSONType names the wire type for renderers ("string", "integer", ...).
	JSONType() string
	// IsEmpty reports whether v counts as "not filled in".
	IsEmpty(v V) bool
}
