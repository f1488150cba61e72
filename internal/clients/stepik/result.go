package stepik

// Result is the outcome of one resource fetch: either the endpoint is
// available and Items holds every page's items in order, or the endpoint is
// not published and Reason says why. Callers must branch on Available; an
// unavailable endpoint is a soft skip, not a failure.
type Result[T any] struct {
	items     []T
	reason    string
	available bool
}

func Available[T any](items []T) Result[T] {
	return Result[T]{items: items, available: true}
}

func Unavailable[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

func (r Result[T]) Available() bool { return r.available }

func (r Result[T]) Items() []T {
	if !r.available {
		return nil
	}
	return r.items
}

func (r Result[T]) Reason() string { return r.reason }
