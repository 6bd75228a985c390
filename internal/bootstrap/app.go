package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/acme_hr_directory/internal/config"
	"github.com/locvowork/acme_hr_directory/internal/database"
	"github.com/locvowork/acme_hr_directory/internal/domain"
	"github.com/locvowork/acme_hr_directory/internal/handler"
	"github.com/locvowork/acme_hr_directory/internal/logger"
	"github.com/locvowork/acme_hr_directory/internal/repository"
	"github.com/locvowork/acme_hr_directory/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Echo   *echo.Echo
	DB     *sql.DB
	Config *config.EnvConfig
	// Index is nil when the search mirror is disabled.
	Index domain.EmployeeIndex
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo: e,
	}
}

// Connect loads configuration, sets up logging and opens the store. The
// search mirror is optional: when it cannot be reached it is disabled with a
// warning.
func (a *App) Connect(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	a.Config = config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(a.Config.LOG_FILE_PATH, a.Config.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Initialize database connection
	db, err := database.NewPostgresDB(ctx, database.Config{
		URL:             a.Config.DATABASE_URL,
		MaxOpenConns:    a.Config.DB_MAX_OPEN_CONNS,
		ConnMaxLifetime: a.Config.DB_CONN_MAX_LIFETIME,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db
	logger.InfoLog(ctx, "Database connection established successfully")

	if a.Config.ELASTICSEARCH_URL != "" {
		es, err := database.NewElasticSearchClient(a.Config.ELASTICSEARCH_URL, a.Config.ELASTICSEARCH_INDEX)
		if err != nil {
			logger.WarnLog(ctx, err, "Search mirror disabled")
		} else {
			a.Index = es
			logger.InfoLog(ctx, "Search mirror enabled on index %s", a.Config.ELASTICSEARCH_INDEX)
		}
	}

	return nil
}

// Initialize connects, prepares the schema and wires the HTTP layer.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.Connect(ctx); err != nil {
		return err
	}

	if err := database.NewSchemaInitializer(a.DB, a.Index).Run(ctx, a.Config.SCHEMA_MODE); err != nil {
		a.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.InfoLog(ctx, "Schema ready (mode %s)", a.Config.SCHEMA_MODE)

	a.Wire(a.DB, a.Index)
	return nil
}

// Wire builds repositories, service and handlers on top of db and registers
// middlewares and routes. index may be nil.
func (a *App) Wire(db *sql.DB, index domain.EmployeeIndex) {
	a.DB = db
	a.Index = index

	empRepo := repository.NewEmployeeRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	svc := service.NewDirectoryService(empRepo, deptRepo, index)

	layoutPath := ""
	if a.Config != nil {
		layoutPath = a.Config.REPORT_CONFIG_PATH
	}

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(
		handler.NewEmployeeHandler(svc),
		handler.NewDepartmentHandler(svc),
		handler.NewExportHandler(svc, layoutPath),
	)
}

func (a *App) RegisterMiddlewares() {
	a.Echo.HTTPErrorHandler = handler.ErrorHandler
	a.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        uuid.NewString,
		RequestIDHandler: logger.AttachRequestID,
	}))
	a.Echo.Use(logger.RequestLogger())
	// inside the request logger so recovered panics are logged with their status
	a.Echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: logger.LogPanic,
	}))
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler, deptHandler *handler.DepartmentHandler, exportHandler *handler.ExportHandler) {
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := a.Echo.Group("/api")
	api.GET("/employees", empHandler.ListHandler)
	api.POST("/employees", empHandler.CreateHandler)
	api.PUT("/employees/:id", empHandler.UpdateHandler)
	api.DELETE("/employees/:id", empHandler.DeleteHandler)
	api.GET("/departments", deptHandler.ListHandler)
	api.GET("/export/directory.xlsx", exportHandler.DirectoryHandler)
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + a.Config.PORT
	errCh := make(chan error, 1)
	go func() {
		logger.InfoLog(ctx, "Server listening on %s", addr)
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.InfoLog(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
