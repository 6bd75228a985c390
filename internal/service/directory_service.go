package service

import (
	"context"

	"github.com/locvowork/acme_hr_directory/internal/domain"
	"github.com/locvowork/acme_hr_directory/internal/logger"
)

// DirectoryService is what the HTTP layer depends on.
type DirectoryService interface {
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	CreateEmployee(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type directoryService struct {
	employees   domain.EmployeeRepository
	departments domain.DepartmentRepository
	index       domain.EmployeeIndex
}

// NewDirectoryService creates a DirectoryService. index may be nil, which
// disables search mirroring.
func NewDirectoryService(
	employees domain.EmployeeRepository,
	departments domain.DepartmentRepository,
	index domain.EmployeeIndex,
) DirectoryService {
	return &directoryService{
		employees:   employees,
		departments: departments,
		index:       index,
	}
}

func (s *directoryService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx)
}

func (s *directoryService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.departments.List(ctx)
}

func (s *directoryService) CreateEmployee(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	emp, err := s.employees.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, emp)
	return emp, nil
}

func (s *directoryService) UpdateEmployee(ctx context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
	emp, err := s.employees.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if emp != nil {
		s.mirror(ctx, emp)
	}
	return emp, nil
}

func (s *directoryService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.DeleteEmployee(ctx, id); err != nil {
			logger.WarnLog(ctx, err, "Failed to remove employee %s from search index", id)
		}
	}
	return nil
}

// mirror never fails the request; the store stays authoritative.
func (s *directoryService) mirror(ctx context.Context, emp *domain.Employee) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexEmployee(ctx, *emp); err != nil {
		logger.WarnLog(ctx, err, "Failed to index employee %d", emp.ID)
	}
}
