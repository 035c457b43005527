package supler

import (
	"reflect"
	"strings"
)

// accessor reads and writes one datum of T. set works on a copy of obj and
// returns it; the argument is never modified.
type accessor[T, V any] struct {
	name string
	get  func(T) V
	set  func(T, V) T
}

// selectorAccessor builds an accessor from a selector returning the address
// of a top-level struct field of T, e.g. func(p *Person) *string { return &p.Name }.
// The field name is resolved with ResolveStructKey.
func selectorAccessor[T, V any](sel func(*T) *V) accessor[T, V] {
	if sel == nil {
		panic("supler: selector must not be nil")
	}
	return accessor[T, V]{
		name: FieldNameOf(sel),
		get: func(obj T) V {
			return *sel(&obj)
		},
		set: func(obj T, v V) T {
			*sel(&obj) = v
			return obj
		},
	}
}

// FieldNameOf returns the wire name for a top-level field of T selected by selector.
// Example: FieldNameOf(func(p *Person) *string { return &p.Name }) -> "name".
func FieldNameOf[T, V any](selector func(*T) *V) string {
	if selector == nil {
		panic("supler.FieldNameOf: selector must not be nil")
	}
	var zero T
	rv := reflect.ValueOf(&zero).Elem()
	if rv.Kind() != reflect.Struct {
		panic("supler.FieldNameOf: T must be a struct type")
	}
	fp := reflect.ValueOf(selector(&zero)).Pointer()
	ft := reflect.TypeOf((*V)(nil)).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		fv := rv.Field(i)
		if !fv.CanAddr() || fv.Addr().Pointer() != fp || sf.Type != ft {
			continue
		}
		name := ResolveStructKey(sf)
		if name == "" || name == "-" || !sf.IsExported() {
			panic("supler.FieldNameOf: selected field is not exported or disabled")
		}
		return name
	}
	panic("supler.FieldNameOf: selector must return address of a top-level field of T")
}

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// wire name.
// Priority: supler:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if st := sf.Tag.Get("supler"); st != "" {
		for _, p := range strings.Split(st, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i == 0 {
				return sf.Name
			}
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

func validFieldName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ".[]")
}
