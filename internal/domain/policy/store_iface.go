package policy

import (
	"context"

	"hrms/internal/domain/codes"
)

type StoreAPI interface {
	codes.Sequence
	InTx(ctx context.Context, fn func(StoreAPI) error) error

	List(ctx context.Context) ([]View, error)
	Get(ctx context.Context, id string) (Policy, error)
	View(ctx context.Context, id string) (View, error)
	Create(ctx context.Context, p Policy) (string, error)
	Update(ctx context.Context, p Policy) error
	Delete(ctx context.Context, id string) error
}
