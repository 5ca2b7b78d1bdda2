package api

type Test[T, K any] struct {
	name     string
	input    T
	expected K
}
