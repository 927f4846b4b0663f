package task

// Opt is a field that may or may not be provided. The zero value is "not provided",
// which keeps an absent field distinct from one explicitly set to its zero value.
type Opt[T any] struct {
	value T
	set   bool
}

func Set[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Opt[T]) IsSet() bool {
	return o.set
}
