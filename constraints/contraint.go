package constraints

import (
	"context"
)

type ConstraintChecker[T any] func(ctx context.Context, val T, args []any) error

type ConstraintDefinition[T any] struct {
	Name    string
	NumArgs int
	Checker ConstraintChecker[T]
}
