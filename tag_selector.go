package hypo

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/hypo/option"
)

// TagSelector selects the fields declared on a type carrying the inject struct tag. The tag value
// is the associated name:
//
//	type Widget struct {
//		logger Logger `inject:"primary"`
//		clock  Clock  `inject:""`
//		cache  Cache  `inject:"-"` // ignored
//	}
//
// Fields of embedded structs are not selected, they are processed with the embedded type.
type TagSelector struct {
	key     string
	factory DependencyFactory
}

func NewTagSelector(opts ...option.Option[SelectorOptions]) *TagSelector {
	options := buildSelectorOptions(opts)
	return &TagSelector{
		key:     options.tagKey,
		factory: options.factory,
	}
}

func (s *TagSelector) SelectDependencies(_ context.Context, typ reflect.Type) ([]Dependency, error) {
	var dependencies []Dependency
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, found := field.Tag.Lookup(s.key)
		if !found || tag == "-" {
			continue
		}
		dep, err := s.factory.CreateDependency(FieldMember{Owner: typ, Field: field}, strings.TrimSpace(tag))
		if err != nil {
			return nil, fmt.Errorf("failed to create dependency for field %s of %s:\n\t%w", field.Name, typ, err)
		}
		dependencies = append(dependencies, dep)
	}
	return dependencies, nil
}
