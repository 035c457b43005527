package supler

type scopeKind uint8

const (
	scopeNone scopeKind = iota
	scopeAll
	scopeFilled
	scopeInPath
)

// ValidationScope selects which fields take part in a validation pass.
//
//   - ValidateAll: every field; required fields must be filled and validators
//     run on every value, empty ones included.
//   - ValidateFilled: required fields must be filled; validators run only on
//     filled values, so untouched optional fields never error.
//   - ValidateNone: nothing is validated.
//   - ValidateInPath(p): like ValidateAll, restricted to p and its descendants.
type ValidationScope struct {
	kind scopeKind
	path Path
}

var (
	ValidateAll    = ValidationScope{kind: scopeAll}
	ValidateFilled = ValidationScope{kind: scopeFilled}
	ValidateNone   = ValidationScope{kind: scopeNone}
)

// ValidateInPath validates only the subtree rooted at p.
func ValidateInPath(p Path) ValidationScope { return ValidationScope{kind: scopeInPath, path: p} }

// Name returns the wire name of the scope.
func (s ValidationScope) Name() string {
	switch s.kind {
	case scopeAll:
		return "all"
	case scopeFilled:
		return "filled"
	case scopeInPath:
		return "path"
	default:
		return "none"
	}
}

// Path returns the subtree root for ValidateInPath scopes.
func (s ValidationScope) Path() Path { return s.path }

// Equal reports whether two scopes are the same policy.
func (s ValidationScope) Equal(o ValidationScope) bool {
	return s.kind == o.kind && s.path.Equal(o.path)
}

// covers reports whether the field at p takes part in this pass at all.
func (s ValidationScope) covers(p Path) bool {
	switch s.kind {
	case scopeNone:
		return false
	case scopeInPath:
		return p.HasPrefix(s.path)
	default:
		return true
	}
}

// runsOnEmpty reports whether validators see empty values.
func (s ValidationScope) runsOnEmpty() bool {
	return s.kind == scopeAll || s.kind == scopeInPath
}

func (s ValidationScope) toJSON() map[string]any {
	out := map[string]any{"name": s.Name()}
	if s.kind == scopeInPath {
		out["path"] = s.path.String()
	}
	return out
}
