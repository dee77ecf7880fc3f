package domain

// IDGenerator produz identificadores únicos.
type IDGenerator[T any] func() T
