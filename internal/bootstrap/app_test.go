package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listEmployeesSQL  = "SELECT id, name, created_at, updated_at, department_id FROM employees"
	createEmployeeSQL = "INSERT INTO employees (name, department_id, created_at, updated_at) VALUES ($1, $2, now(), now()) RETURNING id, name, created_at, updated_at, department_id"
	updateEmployeeSQL = "UPDATE employees SET name = $1, department_id = $2, updated_at = now() WHERE id = $3 RETURNING id, name, created_at, updated_at, department_id"
	deleteEmployeeSQL = "DELETE FROM employees WHERE id = $1"
)

var employeeCols = []string{"id", "name", "created_at", "updated_at", "department_id"}

func newTestApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	app := NewApp()
	app.Wire(db, nil)
	return app, mock
}

func serve(app *App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestApp_Healthz(t *testing.T) {
	app, _ := newTestApp(t)

	rec := serve(app, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestApp_ListEmptyTable(t *testing.T) {
	app, mock := newTestApp(t)
	mock.ExpectQuery(listEmployeesSQL).WillReturnRows(sqlmock.NewRows(employeeCols))

	rec := serve(app, http.MethodGet, "/api/employees", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestApp_CreateRoundTrip(t *testing.T) {
	app, mock := newTestApp(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(createEmployeeSQL).
		WithArgs("X", "2").
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(4, "X", now, now, 2))

	rec := serve(app, http.MethodPost, "/api/employees", `{"name":"X","department_id":2}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":4,"name":"X","created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z","department_id":2}`,
		rec.Body.String())
}

func TestApp_CreateUnknownDepartment(t *testing.T) {
	app, mock := newTestApp(t)
	mock.ExpectQuery(createEmployeeSQL).
		WithArgs("X", "999").
		WillReturnError(&pq.Error{Code: "23503", Message: `insert or update on table "employees" violates foreign key constraint "employees_department_id_fkey"`})

	rec := serve(app, http.MethodPost, "/api/employees", `{"name":"X","department_id":999}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "violates foreign key constraint")
}

func TestApp_MalformedBody(t *testing.T) {
	app, _ := newTestApp(t)

	rec := serve(app, http.MethodPost, "/api/employees", `{"name":"X",`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))
}

func TestApp_UpdateMissingRow(t *testing.T) {
	app, mock := newTestApp(t)
	mock.ExpectQuery(updateEmployeeSQL).
		WithArgs("Z", "1", "999").
		WillReturnRows(sqlmock.NewRows(employeeCols))

	rec := serve(app, http.MethodPut, "/api/employees/999", `{"name":"Z","department_id":1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestApp_DeleteIsAlways204(t *testing.T) {
	app, mock := newTestApp(t)
	mock.ExpectExec(deleteEmployeeSQL).WithArgs("999").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteEmployeeSQL).WithArgs("999").WillReturnResult(sqlmock.NewResult(0, 0))

	for i := 0; i < 2; i++ {
		rec := serve(app, http.MethodDelete, "/api/employees/999", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	}
}

func TestApp_UnknownRoute(t *testing.T) {
	app, _ := newTestApp(t)

	rec := serve(app, http.MethodGet, "/api/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", errorMessage(t, rec))
}

func TestApp_PanicIsA500(t *testing.T) {
	app, _ := newTestApp(t)
	app.Echo.GET("/api/panics", func(c echo.Context) error {
		panic("unexpected nil department")
	})

	rec := serve(app, http.MethodGet, "/api/panics", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "unexpected nil department", errorMessage(t, rec))
}

func TestApp_CreateWithNumericName(t *testing.T) {
	app, mock := newTestApp(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(createEmployeeSQL).
		WithArgs("5", "1").
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(4, "5", now, now, 1))

	rec := serve(app, http.MethodPost, "/api/employees", `{"name":5,"department_id":1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"5"`)
}
