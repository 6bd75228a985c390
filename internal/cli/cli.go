package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/locvowork/acme_hr_directory/internal/bootstrap"
	"github.com/locvowork/acme_hr_directory/internal/database"
	"github.com/locvowork/acme_hr_directory/internal/logger"
)

// NewRootCommand returns the server command tree. Running it without a
// subcommand serves the API.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "acme_hr_directory",
		Short:        "ACME HR directory API server and database CLI",
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Prepare the schema and start the HTTP server",
		RunE:  runServe,
	}

	rootCmd.AddCommand(serveCmd, NewDBCommand("db"))
	return rootCmd
}

// NewDBCommand returns the database management commands under the given name.
func NewDBCommand(use string) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:          use,
		Short:        "Database management commands",
		SilenceUsage: true,
	}

	var yes bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop, recreate and seed both tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "This drops the employees and departments tables. Continue?") {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			return withSchema(cmd.Context(), func(ctx context.Context, s *database.SchemaInitializer) error {
				return s.Reset(ctx)
			})
		},
	}
	resetCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create and seed the schema if missing, guarded by schema_migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSchema(cmd.Context(), func(ctx context.Context, s *database.SchemaInitializer) error {
				return s.Migrate(ctx)
			})
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Report the schema state without modifying anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSchema(cmd.Context(), func(ctx context.Context, s *database.SchemaInitializer) error {
				state, version, err := s.CheckState(ctx)
				if err != nil {
					return err
				}
				if err := writeState(cmd.OutOrStdout(), state, version); err != nil {
					return err
				}
				if state != database.StateReady {
					return fmt.Errorf("schema is %s", state)
				}
				return nil
			})
		},
	}

	dbCmd.AddCommand(resetCmd, migrateCmd, verifyCmd)
	return dbCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, err, "Failed to initialize application")
		return err
	}
	return app.Run(ctx)
}

func withSchema(ctx context.Context, fn func(context.Context, *database.SchemaInitializer) error) error {
	app := bootstrap.NewApp()
	if err := app.Connect(ctx); err != nil {
		logger.ErrorLog(ctx, err, "Failed to connect")
		return err
	}
	defer app.Close()

	if err := fn(ctx, database.NewSchemaInitializer(app.DB, app.Index)); err != nil {
		logger.ErrorLog(ctx, err, "Schema command failed")
		return err
	}
	return nil
}

type stateReport struct {
	State    database.StoreState `json:"state"`
	Version  string              `json:"version"`
	Expected string              `json:"expected"`
}

func writeState(w io.Writer, state database.StoreState, version string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stateReport{State: state, Version: version, Expected: database.SchemaVersion})
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
