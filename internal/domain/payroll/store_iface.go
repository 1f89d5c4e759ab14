package payroll

import "context"

type StoreAPI interface {
	InTx(ctx context.Context, fn func(StoreAPI) error) error

	FindSalary(ctx context.Context, userID string, month, year int) (Salary, error)
	CreateSalary(ctx context.Context, salary Salary) (string, error)
	UpdateSalary(ctx context.Context, salary Salary) error
	SalaryDetail(ctx context.Context, id string) (SalaryDetail, error)
	ListSalaries(ctx context.Context) ([]SalaryDetail, error)

	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
	CreateItem(ctx context.Context, item Item) (string, error)
	UpdateItem(ctx context.Context, item Item) error
	DeleteItem(ctx context.Context, id string) error
}
