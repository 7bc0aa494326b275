package structs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/hypo/reflectutils"
)

// Get retrieves the value for the specified field from the provided struct.
// Supports nested access using dot notation (e.g., "user.address.street").
// Supports both struct fields and map keys.
func Get(origin any, field string) (any, error) {
	value, err := Lookup(origin, field)
	if err != nil {
		return nil, err
	}
	return value.Interface(), nil
}

// Lookup is the reflective version of Get, the returned value keeps the static type of the
// field it was read from, which matters for nil interfaces and pointers.
func Lookup(origin any, field string) (reflect.Value, error) {
	if origin == nil {
		return reflect.Value{}, fmt.Errorf("cannot get field %s from nil origin", field)
	}
	if field == "" {
		return reflect.Value{}, fmt.Errorf("field path cannot be empty")
	}

	current := reflect.ValueOf(origin)
	for i, token := range strings.Split(field, ".") {
		if token == "" {
			return reflect.Value{}, fmt.Errorf("empty token at position %d in field path %s", i, field)
		}

		valueOf := reflectutils.Deref(current)
		if !valueOf.IsValid() {
			return reflect.Value{}, fmt.Errorf("encountered nil value at token %s (position %d) in field path %s", token, i, field)
		}

		switch valueOf.Kind() {
		case reflect.Map:
			if valueOf.Type().Key().Kind() != reflect.String {
				return reflect.Value{}, fmt.Errorf("cannot traverse map with non string keys at position %d in field path %s", i, field)
			}
			mapValue := valueOf.MapIndex(reflect.ValueOf(token).Convert(valueOf.Type().Key()))
			if !mapValue.IsValid() {
				return reflect.Value{}, fmt.Errorf("key %s not found in map at position %d in field path %s", token, i, field)
			}
			current = mapValue

		case reflect.Struct:
			structField, found := valueOf.Type().FieldByName(token)
			if !found {
				return reflect.Value{}, fmt.Errorf("field %s not found in struct %s at position %d in field path %s", token, valueOf.Type().Name(), i, field)
			}
			if !structField.IsExported() {
				return reflect.Value{}, fmt.Errorf("field %s in struct %s is not exportable at position %d in field path %s", token, valueOf.Type().Name(), i, field)
			}
			fieldValue, err := valueOf.FieldByIndexErr(structField.Index)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("encountered nil embedded struct at token %s (position %d) in field path %s:\n\t%w", token, i, field, err)
			}
			current = fieldValue

		default:
			return reflect.Value{}, fmt.Errorf("cannot traverse field %s: expected struct or map but got %s at position %d in field path %s", token, valueOf.Kind(), i, field)
		}
	}

	return current, nil
}
