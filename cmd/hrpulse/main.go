package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"hrpulse/adapters/excel"
	"hrpulse/adapters/postgres"
	"hrpulse/app"
	"hrpulse/domain/core"
	"hrpulse/internal"
	"hrpulse/internal/config"
	"hrpulse/internal/container"
	"hrpulse/internal/errors"
	"hrpulse/internal/migration"
	"hrpulse/internal/synthetic"
	"hrpulse/ui"
	"hrpulse/ui/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrpulse",
		Short: "HR attrition dashboard over an employee table",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newReportCmd(),
		newControlsCmd(),
		newGenerateCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and wires the container
func setup(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(cfg.LogLevel(), os.Stderr, cfg.Logging.JSON)
	return container.New(ctx, cfg, logger)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Long: `Serve the web dashboard and its JSON API.

The table is read from DATA_FILE (CSV or XLSX, sheet DATA_SHEET) or, when
DATABASE_URL is set, from the Postgres table DATA_TABLE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := setup(ctx)
			if err != nil {
				return err
			}
			defer c.Close()
			return ui.Run(ctx, c)
		},
	}
}

type selectionFlags struct {
	departments []string
	genders     []string
	ageMin      float64
	ageMax      float64
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.departments, "department", nil, "Departments to include (repeatable; pass \"\" to select none)")
	cmd.Flags().StringSliceVar(&f.genders, "gender", nil, "Genders to include (repeatable; pass \"\" to select none)")
	cmd.Flags().Float64Var(&f.ageMin, "age-min", 0, "Lower age bound")
	cmd.Flags().Float64Var(&f.ageMax, "age-max", 0, "Upper age bound")
}

// selection leaves untouched flags at their no-constraint default
func (f *selectionFlags) selection(cmd *cobra.Command) app.Selection {
	var sel app.Selection
	if cmd.Flags().Changed("department") {
		sel.Departments = nonEmpty(f.departments)
	}
	if cmd.Flags().Changed("gender") {
		sel.Genders = nonEmpty(f.genders)
	}
	if cmd.Flags().Changed("age-min") {
		sel.AgeMin = &f.ageMin
	}
	if cmd.Flags().Changed("age-max") {
		sel.AgeMax = &f.ageMax
	}
	return sel
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func newReportCmd() *cobra.Command {
	var flags selectionFlags
	var charts []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the dashboard once and print it",
		Long: `Compute one pass over the filtered table and print every chart as text.

Example: hrpulse report --department Sales --age-min 30 --chart attrition_by_department`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			ids := make([]core.ChartID, 0, len(charts))
			for _, s := range charts {
				id, err := core.ParseChartID(s)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			pass, err := c.Dashboard.Compute(cmd.Context(), app.DefaultCriteria(flags.selection(cmd)), ids...)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, pass)
			}
			fmt.Fprint(cmd.OutOrStdout(), services.NewTerminalService().Render(pass))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&charts, "chart", nil, "Only compute these chart ids")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the pass as JSON")
	return cmd
}

func newControlsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "controls",
		Short: "Print the filter options derived from the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			controls, err := c.Dashboard.Controls(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, controls)
		},
	}
}

func newGenerateCmd() *cobra.Command {
	cfg := synthetic.DefaultConfig()
	var out, sheet string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic employee table",
		Long: `Write a synthetic employee table with the full column layout. The format
follows the output extension: .xlsx writes a workbook, anything else CSV.

Example: hrpulse generate --rows 1470 --seed 7 --out EA.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := synthetic.Generate(cfg)
			if err != nil {
				return err
			}
			if strings.EqualFold(filepath.Ext(out), ".xlsx") {
				err = synthetic.WriteXLSX(out, sheet, raw)
			} else {
				err = synthetic.WriteCSV(out, raw)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d employees to %s\n", len(raw.Rows), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Rows, "rows", cfg.Rows, "Number of employees")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	cmd.Flags().Float64Var(&cfg.BaseAttrition, "base-attrition", cfg.BaseAttrition, "Attrition probability before risk factors")
	cmd.Flags().StringVar(&out, "out", "EA.csv", "Output path")
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Sheet name for .xlsx output")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var from, sheet string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres employee table and load a file into it",
		Long: `Create DATA_TABLE in the DATABASE_URL database if needed and replace its
contents with the rows of a CSV or XLSX file (DATA_FILE by default).

Example: DATABASE_URL=postgres://... hrpulse migrate --from EA.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.Data.UsesDatabase() {
				return errors.ConfigInvalid("DATABASE_URL is required")
			}
			logger := internal.NewLogger(cfg.LogLevel(), os.Stderr, cfg.Logging.JSON)
			if from == "" {
				from = cfg.Data.File
			}
			if sheet == "" {
				sheet = cfg.Data.Sheet
			}

			raw, err := excel.NewDataReader(excel.Config{FilePath: from, Sheet: sheet}, logger).ReadTable(cmd.Context())
			if err != nil {
				return err
			}
			runner, err := migration.NewRunner(cfg.Data.Table, logger)
			if err != nil {
				return err
			}
			db, err := postgres.Connect(cmd.Context(), cfg.Data.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()
			return runner.Run(cmd.Context(), db, raw)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source file (defaults to DATA_FILE)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet for .xlsx sources (defaults to DATA_SHEET)")
	return cmd
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
