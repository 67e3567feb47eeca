// Package options provides the generic functional options shared by the engine, the
// partition strategies and the grammar coder.
package options

// Option configures a target of type T, typically a pointer to a config struct.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a plain function to Option.
type Func[T any] func(T) error

func (f Func[T]) apply(target T) error {
	return f(target)
}

// New creates an option that may reject its input.
//
// Example:
//
//	func WithWorkers(n int) Option {
//		return options.New(func(e *Engine) error {
//			if n < 1 {
//				return errs.ErrInvalidWorkerCount
//			}
//			e.workers = n
//			return nil
//		})
//	}
func New[T any](fn func(T) error) Func[T] {
	return Func[T](fn)
}

// NoError creates an option that always succeeds.
func NoError[T any](fn func(T)) Func[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped, so callers can pass conditionally built options directly.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
