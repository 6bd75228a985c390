package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/acme_hr_directory/internal/domain"
	"github.com/locvowork/acme_hr_directory/internal/service"
)

type fakeEmployeeRepo struct {
	ListFn   func(ctx context.Context) ([]domain.Employee, error)
	CreateFn func(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	UpdateFn func(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error)
	DeleteFn func(ctx context.Context, id string) error
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	return f.ListFn(ctx)
}
func (f *fakeEmployeeRepo) Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	return f.CreateFn(ctx, in)
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
	return f.UpdateFn(ctx, id, in)
}
func (f *fakeEmployeeRepo) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

type fakeDepartmentRepo struct {
	ListFn func(ctx context.Context) ([]domain.Department, error)
}

func (f *fakeDepartmentRepo) List(ctx context.Context) ([]domain.Department, error) {
	return f.ListFn(ctx)
}

type fakeIndex struct {
	indexed []int64
	deleted []string
	err     error
}

func (f *fakeIndex) IndexEmployee(ctx context.Context, e domain.Employee) error {
	f.indexed = append(f.indexed, e.ID)
	return f.err
}
func (f *fakeIndex) DeleteEmployee(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}
func (f *fakeIndex) BulkIndexEmployees(ctx context.Context, employees []domain.Employee) error {
	return f.err
}
func (f *fakeIndex) ClearEmployees(ctx context.Context) error {
	return f.err
}

func TestDirectoryService_CreateEmployee(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	name := "X"

	t.Run("mirrors the created row", func(t *testing.T) {
		repo := &fakeEmployeeRepo{
			CreateFn: func(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
				return &domain.Employee{ID: 7, Name: *in.Name, CreatedAt: now, UpdatedAt: now, DepartmentID: 1}, nil
			},
		}
		index := &fakeIndex{}
		svc := service.NewDirectoryService(repo, &fakeDepartmentRepo{}, index)

		emp, err := svc.CreateEmployee(ctx, domain.EmployeeInput{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, int64(7), emp.ID)
		assert.Equal(t, []int64{7}, index.indexed)
	})

	t.Run("index failure does not fail the request", func(t *testing.T) {
		repo := &fakeEmployeeRepo{
			CreateFn: func(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
				return &domain.Employee{ID: 8}, nil
			},
		}
		svc := service.NewDirectoryService(repo, &fakeDepartmentRepo{}, &fakeIndex{err: errors.New("es down")})

		emp, err := svc.CreateEmployee(ctx, domain.EmployeeInput{})

		require.NoError(t, err)
		assert.Equal(t, int64(8), emp.ID)
	})

	t.Run("store error skips the index", func(t *testing.T) {
		repo := &fakeEmployeeRepo{
			CreateFn: func(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
				return nil, errors.New("fk violation")
			},
		}
		index := &fakeIndex{}
		svc := service.NewDirectoryService(repo, &fakeDepartmentRepo{}, index)

		_, err := svc.CreateEmployee(ctx, domain.EmployeeInput{})

		assert.EqualError(t, err, "fk violation")
		assert.Empty(t, index.indexed)
	})

	t.Run("works without an index", func(t *testing.T) {
		repo := &fakeEmployeeRepo{
			CreateFn: func(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
				return &domain.Employee{ID: 9}, nil
			},
		}
		svc := service.NewDirectoryService(repo, &fakeDepartmentRepo{}, nil)

		_, err := svc.CreateEmployee(ctx, domain.EmployeeInput{})

		assert.NoError(t, err)
	})
}

func TestDirectoryService_UpdateEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("missing row is not mirrored", func(t *testing.T) {
		repo := &fakeEmployeeRepo{
			UpdateFn: func(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
				return nil, nil
			},
		}
		index := &fakeIndex{}
		svc := service.NewDirectoryService(repo, &fakeDepartmentRepo{}, index)

		emp, err := svc.UpdateEmployee(ctx, "404", domain.EmployeeInput{})

		assert.NoError(t, err)
		assert.Nil(t, emp)
		assert.Empty(t, index.indexed)
	})

	t.Run("updated row is mirrored", func(t *testing.T) {
		repo := &fakeEmployeeRepo{
			UpdateFn: func(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
				assert.Equal(t, "3", id)
				return &domain.Employee{ID: 3}, nil
			},
		}
		index := &fakeIndex{}
		svc := service.NewDirectoryService(repo, &fakeDepartmentRepo{}, index)

		_, err := svc.UpdateEmployee(ctx, "3", domain.EmployeeInput{})

		assert.NoError(t, err)
		assert.Equal(t, []int64{3}, index.indexed)
	})
}

func TestDirectoryService_DeleteEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("removes from index after store", func(t *testing.T) {
		repo := &fakeEmployeeRepo{DeleteFn: func(ctx context.Context, id string) error { return nil }}
		index := &fakeIndex{}
		svc := service.NewDirectoryService(repo, &fakeDepartmentRepo{}, index)

		require.NoError(t, svc.DeleteEmployee(ctx, "2"))
		assert.Equal(t, []string{"2"}, index.deleted)
	})

	t.Run("store error is returned", func(t *testing.T) {
		repo := &fakeEmployeeRepo{DeleteFn: func(ctx context.Context, id string) error { return errors.New("gone") }}
		index := &fakeIndex{}
		svc := service.NewDirectoryService(repo, &fakeDepartmentRepo{}, index)

		assert.Error(t, svc.DeleteEmployee(ctx, "2"))
		assert.Empty(t, index.deleted)
	})
}

func TestDirectoryService_Lists(t *testing.T) {
	ctx := context.Background()
	hr := "HR"
	svc := service.NewDirectoryService(
		&fakeEmployeeRepo{ListFn: func(ctx context.Context) ([]domain.Employee, error) {
			return []domain.Employee{{ID: 1, Name: "Nick"}}, nil
		}},
		&fakeDepartmentRepo{ListFn: func(ctx context.Context) ([]domain.Department, error) {
			return []domain.Department{{ID: 2, Name: &hr}}, nil
		}},
		nil,
	)

	emps, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, emps, 1)

	depts, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HR", *depts[0].Name)
}
