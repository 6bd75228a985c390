package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/acme_hr_directory/internal/domain"
	"github.com/locvowork/acme_hr_directory/internal/service"
)

type EmployeeHandler struct {
	svc service.DirectoryService
}

func NewEmployeeHandler(svc service.DirectoryService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// ListHandler handles GET /api/employees
func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	employees, err := h.svc.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return c.JSON(http.StatusOK, employees)
}

// CreateHandler handles POST /api/employees
func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	in, err := bindEmployeeInput(c)
	if err != nil {
		return err
	}

	emp, err := h.svc.CreateEmployee(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emp)
}

// UpdateHandler handles PUT /api/employees/:id
func (h *EmployeeHandler) UpdateHandler(c echo.Context) error {
	in, err := bindEmployeeInput(c)
	if err != nil {
		return err
	}

	emp, err := h.svc.UpdateEmployee(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	if emp == nil {
		return c.NoContent(http.StatusOK)
	}
	return c.JSON(http.StatusOK, emp)
}

// DeleteHandler handles DELETE /api/employees/:id
func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	if err := h.svc.DeleteEmployee(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// bindEmployeeInput decodes JSON bodies only. Any other content type yields
// an empty input, so both fields reach the store as NULL.
func bindEmployeeInput(c echo.Context) (domain.EmployeeInput, error) {
	var in domain.EmployeeInput
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return in, nil
	}
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return in, err
	}
	return in, nil
}
