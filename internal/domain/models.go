package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Department represents the departments table.
type Department struct {
	ID   int64   `json:"id" db:"id"`
	Name *string `json:"name" db:"name"`
}

// Employee represents the employees table.
type Employee struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	DepartmentID int64     `json:"department_id" db:"department_id"`
}

// EmployeeInput is the body accepted by create and update.
// Absent or null fields stay nil and reach the store as NULL. Any other JSON
// value is kept in its text form so the store performs the coercion.
type EmployeeInput struct {
	Name         *string      `json:"name"`
	DepartmentID *json.Number `json:"department_id"`
}

func (in *EmployeeInput) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name         json.RawMessage `json:"name"`
		DepartmentID json.RawMessage `json:"department_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	name, err := textValue(raw.Name)
	if err != nil {
		return err
	}
	dept, err := textValue(raw.DepartmentID)
	if err != nil {
		return err
	}

	in.Name = name
	in.DepartmentID = nil
	if dept != nil {
		n := json.Number(*dept)
		in.DepartmentID = &n
	}
	return nil
}

// textValue returns strings unquoted and numbers, booleans, objects and
// arrays as their compact JSON text. null and absent values are nil.
func textValue(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	s = buf.String()
	return &s, nil
}
