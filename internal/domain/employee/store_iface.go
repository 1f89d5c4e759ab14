package employee

import (
	"context"

	"hrms/internal/domain/codes"
)

type StoreAPI interface {
	codes.Sequence
	InTx(ctx context.Context, fn func(StoreAPI) error) error

	List(ctx context.Context) ([]Detail, error)
	Get(ctx context.Context, id string) (User, error)
	Detail(ctx context.Context, id string) (Detail, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) (string, error)
	Update(ctx context.Context, u User) error
	AddCertificates(ctx context.Context, userID string, certs []Certificate) error
}
