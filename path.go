package supler

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a named field or a list index.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// FieldSegment returns a named segment.
func FieldSegment(name string) Segment { return Segment{name: name} }

// IndexSegment returns a list index segment.
func IndexSegment(i int) Segment { return Segment{index: i, isIndex: true} }

// Name returns the field name when the segment is a named one.
func (s Segment) Name() (string, bool) { return s.name, !s.isIndex }

// Index returns the list index when the segment is an index one.
func (s Segment) Index() (int, bool) { return s.index, s.isIndex }

func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.name
}

// Path addresses a location inside a (possibly nested, possibly list-valued)
// object graph. Paths are immutable: Child and Indexed return new values and
// never share their backing array with the receiver.
type Path struct {
	segs []Segment
}

// EmptyPath is the root path.
var EmptyPath = Path{}

// PathOf builds a path from segments.
func PathOf(segs ...Segment) Path {
	if len(segs) == 0 {
		return EmptyPath
	}
	return Path{segs: append([]Segment(nil), segs...)}
}

// Child extends the path by a named segment.
func (p Path) Child(name string) Path { return p.append(FieldSegment(name)) }

// Indexed extends the path by a list index segment.
func (p Path) Indexed(i int) Path { return p.append(IndexSegment(i)) }

func (p Path) append(s Segment) Path {
	out := make([]Segment, len(p.segs)+1)
	copy(out, p.segs)
	out[len(p.segs)] = s
	return Path{segs: out}
}

// IsEmpty reports whether p is the root path.
func (p Path) IsEmpty() bool { return len(p.segs) == 0 }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segs) }

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment { return append([]Segment(nil), p.segs...) }

// Head splits the path into its leading segment and the remainder.
func (p Path) Head() (Segment, Path, bool) {
	if len(p.segs) == 0 {
		return Segment{}, EmptyPath, false
	}
	return p.segs[0], Path{segs: p.segs[1:]}, true
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p.segs) <= 1 {
		return EmptyPath
	}
	return Path{segs: p.segs[:len(p.segs)-1]}
}

// Equal reports whether both paths have the same segment sequence.
func (p Path) Equal(o Path) bool {
	if len(p.segs) != len(o.segs) {
		return false
	}
	for i := range p.segs {
		if p.segs[i] != o.segs[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is p itself or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segs) > len(p.segs) {
		return false
	}
	for i := range prefix.segs {
		if p.segs[i] != prefix.segs[i] {
			return false
		}
	}
	return true
}

// PathKey is a comparable form of a Path, usable as a map key.
type PathKey string

// Key returns the comparable key of p. Two paths have the same key iff they
// are Equal.
func (p Path) Key() PathKey { return PathKey(p.String()) }

// String renders the wire form, e.g. "addresses[1].street".
func (p Path) String() string {
	if len(p.segs) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, s := range p.segs {
		if !s.isIndex && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// MarshalText renders the wire form.
func (p Path) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText parses the wire form.
func (p *Path) UnmarshalText(b []byte) error {
	pp, err := ParsePath(string(b))
	if err != nil {
		return err
	}
	*p = pp
	return nil
}

// ParsePath parses the wire form of a path. The empty string is the root path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EmptyPath, nil
	}
	var segs []Segment
	for _, part := range strings.Split(s, ".") {
		name := part
		rest := ""
		if i := strings.IndexByte(part, '['); i >= 0 {
			name, rest = part[:i], part[i:]
		}
		if name == "" || strings.ContainsAny(name, "]") {
			return EmptyPath, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
		segs = append(segs, FieldSegment(name))
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return EmptyPath, fmt.Errorf("%w: %q", ErrInvalidPath, s)
			}
			idx, ok := parseIndex(rest[1:end])
			if !ok {
				return EmptyPath, fmt.Errorf("%w: %q", ErrInvalidPath, s)
			}
			segs = append(segs, IndexSegment(idx))
			rest = rest[end+1:]
		}
	}
	return Path{segs: segs}, nil
}

// parseIndex accepts only the canonical decimal form, so a parsed path
// renders back to the same text.
func parseIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}
