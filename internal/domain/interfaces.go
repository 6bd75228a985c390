package domain

import "context"

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, in EmployeeInput) (*Employee, error)
	// Update returns a nil employee and a nil error when no row matches id.
	Update(ctx context.Context, id string, in EmployeeInput) (*Employee, error)
	Delete(ctx context.Context, id string) error
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	List(ctx context.Context) ([]Department, error)
}

// EmployeeIndex is a secondary copy of the employees table kept for search.
type EmployeeIndex interface {
	IndexEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	BulkIndexEmployees(ctx context.Context, employees []Employee) error
	// ClearEmployees drops every mirrored document.
	ClearEmployees(ctx context.Context) error
}
