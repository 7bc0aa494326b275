// Package option implements variadic functional options.
package option

// Option modifies options of type T.
type Option[T any] func(opts *T)

// Build applies opts in order on defaultOpts, later options win, and returns it.
func Build[T any](defaultOpts *T, opts ...Option[T]) *T {
	for _, opt := range opts {
		if opt != nil {
			opt(defaultOpts)
		}
	}
	return defaultOpts
}
