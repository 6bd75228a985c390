package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/acme_hr_directory/internal/domain"
	"github.com/locvowork/acme_hr_directory/internal/service"
	"github.com/locvowork/acme_hr_directory/pkg/simpleexcel"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileName   = "directory.xlsx"
	employeesSection = "employees"
	deptsSection     = "departments"
	summarySheet     = "Summary"
)

// DefaultDirectoryLayout is used when no report config file is set.
const DefaultDirectoryLayout = `
sheets:
  - name: "Employees"
    sections:
      - id: "employees"
        show_header: true
        header_style:
          font:
            bold: true
            color: "#FFFFFF"
          fill:
            color: "#4472C4"
        columns:
          - field_name: "ID"
            header: "ID"
            width: 8
          - field_name: "Name"
            header: "Name"
            width: 30
          - field_name: "DepartmentID"
            header: "Department ID"
            width: 15
          - field_name: "CreatedAt"
            header: "Created At"
            width: 22
            formatter: "datetime"
          - field_name: "UpdatedAt"
            header: "Updated At"
            width: 22
            formatter: "datetime"
  - name: "Departments"
    sections:
      - id: "departments"
        show_header: true
        header_style:
          font:
            bold: true
            color: "#FFFFFF"
          fill:
            color: "#4472C4"
        columns:
          - field_name: "ID"
            header: "ID"
            width: 8
          - field_name: "Name"
            header: "Name"
            width: 30
`

type ExportHandler struct {
	svc        service.DirectoryService
	layoutPath string
}

// NewExportHandler creates an ExportHandler. An empty layoutPath selects
// DefaultDirectoryLayout.
func NewExportHandler(svc service.DirectoryService, layoutPath string) *ExportHandler {
	return &ExportHandler{svc: svc, layoutPath: layoutPath}
}

// DirectoryHandler handles GET /api/export/directory.xlsx
func (h *ExportHandler) DirectoryHandler(c echo.Context) error {
	ctx := c.Request().Context()

	employees, err := h.svc.ListEmployees(ctx)
	if err != nil {
		return err
	}
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return err
	}

	exporter, err := h.newExporter()
	if err != nil {
		return fmt.Errorf("load report layout: %w", err)
	}

	data, err := exporter.
		RegisterFormatter("datetime", formatDateTime).
		BindSectionData(employeesSection, employees).
		BindSectionData(deptsSection, departments).
		AddSheet(summarySheet).
		AddSection(&simpleexcel.SectionConfig{
			Title:      "Headcount by department",
			ShowHeader: true,
			Data:       headcounts(employees, departments),
			Columns: []simpleexcel.ColumnConfig{
				{FieldName: "Department", Header: "Department", Width: 30},
				{FieldName: "Employees", Header: "Employees", Width: 12},
			},
		}).
		Build().
		ToBytes()
	if err != nil {
		return fmt.Errorf("build directory export: %w", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, exportFileName))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

func (h *ExportHandler) newExporter() (*simpleexcel.DataExporter, error) {
	if h.layoutPath == "" {
		return simpleexcel.NewDataExporterFromYamlConfig(DefaultDirectoryLayout)
	}
	return simpleexcel.NewDataExporterFromYamlFile(h.layoutPath)
}

func formatDateTime(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return v
}

type departmentHeadcount struct {
	Department string
	Employees  int
}

// headcounts lists every department in store order with its employee count.
func headcounts(employees []domain.Employee, departments []domain.Department) []departmentHeadcount {
	counts := make(map[int64]int, len(departments))
	for _, e := range employees {
		counts[e.DepartmentID]++
	}

	rows := make([]departmentHeadcount, 0, len(departments))
	for _, d := range departments {
		row := departmentHeadcount{Employees: counts[d.ID]}
		if d.Name != nil {
			row.Department = *d.Name
		}
		rows = append(rows, row)
	}
	return rows
}
