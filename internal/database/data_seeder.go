package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SeedEmployee is a fixed employee row; its department is resolved by name.
type SeedEmployee struct {
	Name       string
	Department string
}

var (
	SeedDepartments = []string{"Engineering", "HR", "Management"}
	SeedEmployees   = []SeedEmployee{
		{Name: "Nick", Department: "Engineering"},
		{Name: "Doaa", Department: "HR"},
		{Name: "Tom", Department: "Management"},
	}
)

const (
	insertDepartmentSQL = `INSERT INTO departments (name) VALUES ($1)`
	insertEmployeeSQL   = `INSERT INTO employees (name, department_id) VALUES ($1, (SELECT id FROM departments WHERE name = $2))`

	insertMissingDepartmentSQL = `INSERT INTO departments (name) SELECT $1::varchar WHERE NOT EXISTS (SELECT 1 FROM departments WHERE name = $1::varchar)`
	insertMissingEmployeeSQL   = `INSERT INTO employees (name, department_id) SELECT $1::varchar, (SELECT id FROM departments WHERE name = $2::varchar) WHERE NOT EXISTS (SELECT 1 FROM employees WHERE name = $1::varchar)`
)

type DataSeeder struct {
	db Execer
}

func NewDataSeeder(db Execer) *DataSeeder {
	return &DataSeeder{db: db}
}

// SeedData inserts the fixed departments, then the fixed employees. It
// expects freshly created tables.
func (ds *DataSeeder) SeedData(ctx context.Context) error {
	return ds.seed(ctx, insertDepartmentSQL, insertEmployeeSQL)
}

// SeedMissing inserts only the fixed rows that are not present yet.
func (ds *DataSeeder) SeedMissing(ctx context.Context) error {
	return ds.seed(ctx, insertMissingDepartmentSQL, insertMissingEmployeeSQL)
}

func (ds *DataSeeder) seed(ctx context.Context, deptSQL, empSQL string) error {
	for _, name := range SeedDepartments {
		if _, err := ds.db.ExecContext(ctx, deptSQL, name); err != nil {
			return fmt.Errorf("seed department %s: %w", name, err)
		}
	}
	for _, e := range SeedEmployees {
		if _, err := ds.db.ExecContext(ctx, empSQL, e.Name, e.Department); err != nil {
			return fmt.Errorf("seed employee %s: %w", e.Name, err)
		}
	}
	return nil
}
