package reflectutils

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	TestConfig struct {
		Foo       *FooTestConfig
		Bar       *BarTestConfig
		SomeValue string
	}
	FooTestConfig struct {
		Hello string
		World int
	}
	BarTestConfig struct {
		First  int
		Second int
	}

	Base struct {
		Name string
	}
	hidden struct {
		secret string
	}
	Middle struct {
		Base
		Level int
	}
	Top struct {
		*Middle
		hidden
		Other Base
	}
)

func TestWalkStruct(t *testing.T) {
	t.Run("it should allow to initialize sub structs", func(t *testing.T) {
		// WHEN
		element := &TestConfig{}
		WalkStruct(element, CreateNilStructs)

		// THEN
		require.NotNil(t, element.Foo)
		require.NotNil(t, element.Bar)
		assert.Equal(t, "", element.SomeValue)
	})

	t.Run("it should call all the visitors with the field path", func(t *testing.T) {
		// GIVEN
		var paths []string
		record := func(_ reflect.Value, _ reflect.Type, path []string) {
			if len(path) > 0 {
				paths = append(paths, path[len(path)-1])
			}
		}

		// WHEN
		WalkStruct(&TestConfig{}, AllVisitors(CreateNilStructs, record))

		// THEN
		assert.Equal(t, []string{"Foo", "Hello", "World", "Bar", "First", "Second", "SomeValue"}, paths)
	})
}

func TestHierarchy(t *testing.T) {
	t.Run("it should list the type and the embedded types depth first", func(t *testing.T) {
		// WHEN
		hierarchy := Hierarchy(reflect.TypeOf(Top{}))

		// THEN
		assert.Equal(
			t,
			[]reflect.Type{
				reflect.TypeOf(Top{}),
				reflect.TypeOf(Middle{}),
				reflect.TypeOf(Base{}),
				reflect.TypeOf(hidden{}),
			},
			hierarchy,
		)
	})

	t.Run("it should dereference pointer types", func(t *testing.T) {
		// WHEN
		hierarchy := Hierarchy(reflect.TypeOf(&Middle{}))

		// THEN
		assert.Equal(t, []reflect.Type{reflect.TypeOf(Middle{}), reflect.TypeOf(Base{})}, hierarchy)
	})

	t.Run("it should tell if a type embeds another", func(t *testing.T) {
		assert.True(t, Embeds(reflect.TypeOf(Top{}), reflect.TypeOf(Base{})))
		assert.True(t, Embeds(reflect.TypeOf(Base{}), reflect.TypeOf(Base{})))
		assert.False(t, Embeds(reflect.TypeOf(Base{}), reflect.TypeOf(Top{})))
	})
}

func TestLocate(t *testing.T) {
	t.Run("it should locate an embedded struct and allocate nil pointers", func(t *testing.T) {
		// GIVEN
		top := &Top{}

		// WHEN
		located, found := Locate(reflect.ValueOf(top), reflect.TypeOf(Base{}))

		// THEN
		require.True(t, found)
		located.FieldByName("Name").SetString("waldo")
		require.NotNil(t, top.Middle)
		assert.Equal(t, "waldo", top.Name)
	})

	t.Run("it should not locate a non embedded field", func(t *testing.T) {
		// WHEN
		_, found := Locate(reflect.ValueOf(&Middle{}), reflect.TypeOf(Top{}))

		// THEN
		assert.False(t, found)
	})

	t.Run("it should make unexported fields writable", func(t *testing.T) {
		// GIVEN
		top := &Top{}
		located, found := Locate(reflect.ValueOf(top), reflect.TypeOf(hidden{}))
		require.True(t, found)

		// WHEN
		Writable(located.Field(0)).SetString("s3cr3t")

		// THEN
		assert.Equal(t, "s3cr3t", top.secret)
	})
}

func TestQualifiedName(t *testing.T) {
	t.Run("it should qualify named types with their package path", func(t *testing.T) {
		assert.Equal(t, "github.com/a-peyrard/hypo/reflectutils.Base", QualifiedName(reflect.TypeOf(Base{})))
		assert.Equal(t, "*github.com/a-peyrard/hypo/reflectutils.Base", QualifiedName(reflect.TypeOf(&Base{})))
		assert.Equal(t, "string", QualifiedName(reflect.TypeOf("")))
		assert.Equal(t, "[]int", QualifiedName(reflect.TypeOf([]int{})))
	})
}
