package domain

type Command[T any] interface {
	CommandName() string
	Payload() T
}

type namedCommand[T any] struct {
	name    string
	payload T
}

func (c namedCommand[T]) CommandName() string {
	return c.name
}

func (c namedCommand[T]) Payload() T {
	return c.payload
}

func NewCommand[T any](name string, payload T) Command[T] {
	return namedCommand[T]{name: name, payload: payload}
}
