package org

import (
	"context"

	"hrms/internal/domain/codes"
)

// StoreAPI is implemented by the Postgres store and the in-memory store.
// Getters report a missing row with pgx.ErrNoRows or guard.ErrNotFound.
type StoreAPI interface {
	codes.Sequence
	// InTx runs fn against a store bound to a single transaction.
	InTx(ctx context.Context, fn func(StoreAPI) error) error

	ListDepartments(ctx context.Context) ([]DepartmentView, error)
	GetDepartment(ctx context.Context, id string) (Department, error)
	DepartmentView(ctx context.Context, id string) (DepartmentView, error)
	CreateDepartment(ctx context.Context, dep Department) (string, error)
	UpdateDepartment(ctx context.Context, dep Department) error
	DeleteDepartment(ctx context.Context, id string) error
	CountDepartmentEmployees(ctx context.Context, id string) (int, error)

	ListDesignations(ctx context.Context) ([]DesignationView, error)
	GetDesignation(ctx context.Context, id string) (Designation, error)
	DesignationView(ctx context.Context, id string) (DesignationView, error)
	CreateDesignation(ctx context.Context, des Designation) (string, error)
	UpdateDesignation(ctx context.Context, des Designation) error
	DeleteDesignation(ctx context.Context, id string) error
	CountDesignationEmployees(ctx context.Context, id string) (int, error)
}
