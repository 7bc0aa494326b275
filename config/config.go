package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/hypo/option"
	"github.com/a-peyrard/hypo/reflectutils"
	"github.com/a-peyrard/hypo/str"
	"github.com/spf13/viper"
)

type (
	Options struct {
		prefix   string
		file     string
		defaults map[string]any
	}

	WithDefault interface {
		ApplyDefault()
	}
)

var withDefaultType = reflect.TypeOf((*WithDefault)(nil)).Elem()

func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// WithConfigFile reads the given file (any format known by viper) before applying the env variables.
func WithConfigFile(path string) option.Option[Options] {
	return func(opts *Options) {
		opts.file = path
	}
}

// WithDefaults registers default values, keyed by field path (e.g. "class_caching").
func WithDefaults(defaults map[string]any) option.Option[Options] {
	return func(opts *Options) {
		if opts.defaults == nil {
			opts.defaults = make(map[string]any, len(defaults))
		}
		for k, v := range defaults {
			opts.defaults[k] = v
		}
	}
}

// Load builds a T from, by increasing precedence: defaults, config file, env variables.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range options.defaults {
		v.SetDefault(key, value)
	}

	if options.file != "" {
		v.SetConfigFile(options.file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s:\n\t%w", options.file, err)
		}
	}

	var vT T
	bindEnvs(v, options.prefix, reflect.New(reflect.TypeOf(vT)).Elem().Interface())

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	callApplyDefault := func(val reflect.Value, typ reflect.Type, _ []string) {
		if typ.Implements(withDefaultType) && val.IsValid() {
			val.Interface().(WithDefault).ApplyDefault()
		}
	}
	reflectutils.WalkStruct(
		&vT,
		reflectutils.AllVisitors(
			reflectutils.CreateNilStructs,
			callApplyDefault,
		),
	)

	return &vT, nil
}

func bindEnvs(viperI *viper.Viper, envPrefix string, myStruct any, parts ...string) {
	ifv := reflect.ValueOf(myStruct)
	ift := reflect.TypeOf(myStruct)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			tv = t.Name
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(viperI, envPrefix, v.Interface(), append(parts, tv)...)
		case reflect.Pointer:
			if t.Type.Elem().Kind() == reflect.Struct {
				bindEnvs(viperI, envPrefix, reflect.Zero(t.Type.Elem()).Interface(), append(parts, tv)...)
			}
		default:
			key := strings.Join(append(parts, tv), ".")
			env := strings.Join(append(parts, str.ToScreamingSnakeCase(tv)), ".")
			_ = viperI.BindEnv(key, mergeWithEnvPrefix(envPrefix, env))
		}
	}
}

func mergeWithEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}

	return strings.ToUpper(in)
}
