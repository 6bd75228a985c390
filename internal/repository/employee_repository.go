package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/locvowork/acme_hr_directory/internal/domain"
	"github.com/locvowork/acme_hr_directory/internal/repository/builder"
)

const employeesTable = "employees"

var employeeColumns = []string{"id", "name", "created_at", "updated_at", "department_id"}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db *sql.DB) domain.EmployeeRepository {
	return &employeeRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(s rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	if err := s.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt, &e.DepartmentID); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Select(employeeColumns...).
		From(employeesTable).
		Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepository) Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Insert(employeesTable, "name", "department_id", "created_at", "updated_at").
		Values(in.Name, in.DepartmentID, builder.Now, builder.Now).
		Returning(employeeColumns...).
		Build()

	return scanEmployee(r.db.QueryRowContext(ctx, query, args...))
}

func (r *employeeRepository) Update(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Update(employeesTable).
		Set("name", in.Name).
		Set("department_id", in.DepartmentID).
		Set("updated_at", builder.Now).
		Where("id = ?", id).
		Returning(employeeColumns...).
		Build()

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// Delete does not report whether a row was removed.
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	query, args := builder.NewSQLBuilder().
		Delete(employeesTable).
		Where("id = ?", id).
		Build()

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
