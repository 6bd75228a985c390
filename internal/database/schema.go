package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/locvowork/acme_hr_directory/internal/config"
	"github.com/locvowork/acme_hr_directory/internal/domain"
	"github.com/locvowork/acme_hr_directory/internal/logger"
	"github.com/locvowork/acme_hr_directory/internal/repository"
)

// SchemaVersion is recorded in schema_migrations by Migrate.
const SchemaVersion = "1"

type StoreState string

const (
	StateUninitialized   StoreState = "uninitialized"
	StateReady           StoreState = "ready"
	StateVersionMismatch StoreState = "version_mismatch"
)

var ErrVersionMismatch = errors.New("schema version mismatch")

var dropStatements = []string{
	`DROP TABLE IF EXISTS employees`,
	`DROP TABLE IF EXISTS departments`,
}

var createStatements = []string{
	`CREATE TABLE departments (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100)
	)`,
	`CREATE TABLE employees (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		created_at TIMESTAMP DEFAULT now(),
		updated_at TIMESTAMP DEFAULT now(),
		department_id INTEGER REFERENCES departments(id) NOT NULL
	)`,
}

var ensureStatements = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100)
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		created_at TIMESTAMP DEFAULT now(),
		updated_at TIMESTAMP DEFAULT now(),
		department_id INTEGER REFERENCES departments(id) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
}

const (
	migrationsTableExistsSQL = `SELECT to_regclass('schema_migrations') IS NOT NULL`
	currentVersionSQL        = `SELECT version FROM schema_migrations ORDER BY applied_at DESC LIMIT 1`
	tablesExistSQL           = `SELECT to_regclass('employees') IS NOT NULL AND to_regclass('departments') IS NOT NULL`
	recordVersionSQL         = `INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT (version) DO UPDATE SET applied_at = now()`
)

// SchemaInitializer prepares the store before the listener starts.
type SchemaInitializer struct {
	db    *sql.DB
	index domain.EmployeeIndex
}

// NewSchemaInitializer creates an initializer. index may be nil.
func NewSchemaInitializer(db *sql.DB, index domain.EmployeeIndex) *SchemaInitializer {
	return &SchemaInitializer{db: db, index: index}
}

// Run dispatches on config.SchemaModeReset or config.SchemaModeMigrate.
func (s *SchemaInitializer) Run(ctx context.Context, mode string) error {
	switch mode {
	case config.SchemaModeReset:
		return s.Reset(ctx)
	case config.SchemaModeMigrate:
		return s.Migrate(ctx)
	default:
		return fmt.Errorf("unknown schema mode %q", mode)
	}
}

// Reset drops both tables, recreates them and inserts the seed rows.
// Employees are dropped first because they reference departments.
func (s *SchemaInitializer) Reset(ctx context.Context) error {
	for _, stmt := range dropStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	for _, stmt := range createStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	logger.InfoLog(ctx, "Tables created")

	if err := NewDataSeeder(s.db).SeedData(ctx); err != nil {
		return err
	}
	logger.InfoLog(ctx, "Data seeded")

	// ids restart with the tables, so documents from a previous run are stale
	s.clearMirror(ctx)
	s.mirrorSeed(ctx)
	return nil
}

// Migrate creates and seeds the schema once, guarded by the version recorded
// in schema_migrations. A store that is already at SchemaVersion is left alone.
func (s *SchemaInitializer) Migrate(ctx context.Context) error {
	state, version, err := s.CheckState(ctx)
	if err != nil {
		return err
	}

	switch state {
	case StateReady:
		logger.InfoLog(ctx, "Schema at version %s, nothing to do", version)
		return nil
	case StateVersionMismatch:
		return fmt.Errorf("%w: store has %q, want %q", ErrVersionMismatch, version, SchemaVersion)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range ensureStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure tables: %w", err)
		}
	}
	if err := NewDataSeeder(tx).SeedMissing(ctx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, recordVersionSQL, SchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	logger.InfoLog(ctx, "Schema migrated to version %s", SchemaVersion)

	s.mirrorSeed(ctx)
	return nil
}

// CheckState reports the store state and the recorded schema version. A
// recorded current version whose tables have since been dropped counts as
// uninitialized.
func (s *SchemaInitializer) CheckState(ctx context.Context) (StoreState, string, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, migrationsTableExistsSQL).Scan(&exists); err != nil {
		return StateUninitialized, "", fmt.Errorf("check schema_migrations table: %w", err)
	}
	if !exists {
		return StateUninitialized, "", nil
	}

	var version string
	err := s.db.QueryRowContext(ctx, currentVersionSQL).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return StateUninitialized, "", nil
	}
	if err != nil {
		return StateUninitialized, "", fmt.Errorf("query schema version: %w", err)
	}

	if version != SchemaVersion {
		return StateVersionMismatch, version, nil
	}

	var tablesExist bool
	if err := s.db.QueryRowContext(ctx, tablesExistSQL).Scan(&tablesExist); err != nil {
		return StateUninitialized, version, fmt.Errorf("check tables: %w", err)
	}
	if !tablesExist {
		return StateUninitialized, version, nil
	}
	return StateReady, version, nil
}

func (s *SchemaInitializer) clearMirror(ctx context.Context) {
	if s.index == nil {
		return
	}
	if err := s.index.ClearEmployees(ctx); err != nil {
		logger.WarnLog(ctx, err, "Failed to clear search index")
	}
}

// mirrorSeed copies the seeded employees into the search index. Failures are
// logged only; the store stays authoritative.
func (s *SchemaInitializer) mirrorSeed(ctx context.Context) {
	if s.index == nil {
		return
	}
	employees, err := repository.NewEmployeeRepository(s.db).List(ctx)
	if err != nil {
		logger.WarnLog(ctx, err, "Failed to read employees for search index")
		return
	}
	if err := s.index.BulkIndexEmployees(ctx, employees); err != nil {
		logger.WarnLog(ctx, err, "Failed to index seeded employees")
		return
	}
	logger.InfoLog(ctx, "Indexed %d employees", len(employees))
}
