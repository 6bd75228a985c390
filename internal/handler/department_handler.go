package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/acme_hr_directory/internal/domain"
	"github.com/locvowork/acme_hr_directory/internal/service"
)

type DepartmentHandler struct {
	svc service.DirectoryService
}

func NewDepartmentHandler(svc service.DirectoryService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// ListHandler handles GET /api/departments
func (h *DepartmentHandler) ListHandler(c echo.Context) error {
	departments, err := h.svc.ListDepartments(c.Request().Context())
	if err != nil {
		return err
	}
	if departments == nil {
		departments = []domain.Department{}
	}
	return c.JSON(http.StatusOK, departments)
}
