package hypo

import (
	"reflect"
)

var (
	StringType = TypeOf[string]()
	ErrorType  = TypeOf[error]()
)

// matchType tells if a value of providedType can satisfy a request for queryType.
func matchType(queryType, providedType reflect.Type) bool {
	if queryType == providedType {
		return true
	}
	if queryType.Kind() == reflect.Interface && providedType.Implements(queryType) {
		return true
	}
	return false
}

func TypeOf[I any]() reflect.Type {
	var i I
	t := reflect.TypeOf(i)
	if t == nil {
		t = reflect.TypeOf((*I)(nil)).Elem()
	}
	return t
}

// structType returns the struct type of a pointer to struct instance.
func structType(instance any) (reflect.Type, bool) {
	t := reflect.TypeOf(instance)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, false
	}
	if reflect.ValueOf(instance).IsNil() {
		return nil, false
	}
	return t.Elem(), true
}
