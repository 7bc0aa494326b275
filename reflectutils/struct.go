package reflectutils

import (
	"reflect"
	"unsafe"
)

// Visitor is called for every value reached by WalkStruct, with the path of field names leading to it.
type Visitor func(val reflect.Value, typ reflect.Type, path []string)

// AllVisitors creates a visitor that will execute all the given visitors, in order.
func AllVisitors(visitors ...Visitor) Visitor {
	return func(val reflect.Value, typ reflect.Type, path []string) {
		for _, visitor := range visitors {
			visitor(val, typ, path)
		}
	}
}

// WalkStruct applies a visitor on all fields and nested fields of a given object.
func WalkStruct[T any](element T, visitor Visitor) {
	walkStructInternal(reflect.ValueOf(element), []string{}, visitor)
}

func walkStructInternal(val reflect.Value, path []string, visitor Visitor) {
	visitor(val, val.Type(), path)

	val = Deref(val)
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		structField := typ.Field(i)
		if !structField.IsExported() {
			continue
		}
		walkStructInternal(val.Field(i), append(path, structField.Name), visitor)
	}
}

// Deref dereferences recursively a reflect.Value until it reaches a non-pointer or non-interface value
func Deref(value reflect.Value) reflect.Value {
	if value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		return Deref(value.Elem())
	}
	return value
}

// CreateNilStructs creates new struct instances for nil struct pointers
func CreateNilStructs(val reflect.Value, typ reflect.Type, _ []string) {
	if typ.Kind() == reflect.Pointer &&
		val.IsNil() &&
		typ.Elem().Kind() == reflect.Struct {

		val.Set(reflect.New(typ.Elem()))
	}
}

// Hierarchy returns the struct type followed by all the struct types it embeds, depth first,
// in declaration order. Each type appears once, pointers to embedded structs are dereferenced.
func Hierarchy(typ reflect.Type) []reflect.Type {
	var (
		result  []reflect.Type
		visited = make(map[reflect.Type]bool)
		walk    func(t reflect.Type)
	)
	walk = func(t reflect.Type) {
		if t.Kind() != reflect.Struct || visited[t] {
			return
		}
		visited[t] = true
		result = append(result, t)
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				walk(derefType(field.Type))
			}
		}
	}
	walk(derefType(typ))
	return result
}

// Embeds returns true if outer is inner, or if inner is embedded (directly or not) in outer.
func Embeds(outer, inner reflect.Type) bool {
	for _, t := range Hierarchy(outer) {
		if t == inner {
			return true
		}
	}
	return false
}

// Locate finds, inside the struct value val, the struct value of type typ, following embedded
// fields. Nil embedded pointers on the way are allocated. The returned value is addressable and
// writable, even when reached through unexported fields.
func Locate(val reflect.Value, typ reflect.Type) (reflect.Value, bool) {
	val = Deref(val)
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	if val.Type() == typ {
		return val, true
	}
	for i := 0; i < val.NumField(); i++ {
		if !val.Type().Field(i).Anonymous {
			continue
		}
		if !Embeds(val.Type().Field(i).Type, typ) {
			continue
		}
		field := Writable(val.Field(i))
		if field.Kind() == reflect.Pointer && field.IsNil() {
			if !field.CanSet() {
				return reflect.Value{}, false
			}
			field.Set(reflect.New(field.Type().Elem()))
		}
		return Locate(field, typ)
	}
	return reflect.Value{}, false
}

// Writable returns a view of the addressable value v which can be set and called, lifting the
// read-only flag of values reached through unexported fields.
func Writable(v reflect.Value) reflect.Value {
	if v.CanSet() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// QualifiedName returns the fully qualified name of a type, "github.com/foo/bar.Baz" for named
// types, prefixed by a star for pointers.
func QualifiedName(typ reflect.Type) string {
	if typ.Kind() == reflect.Pointer {
		return "*" + QualifiedName(typ.Elem())
	}
	if typ.Name() != "" && typ.PkgPath() != "" {
		return typ.PkgPath() + "." + typ.Name()
	}
	return typ.String()
}

func derefType(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}
