package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"footlens/internal/analytics"
	"footlens/internal/app"
	"footlens/internal/config"
	"footlens/internal/exporter"
	"footlens/internal/infrastructure"
	"footlens/internal/services"
	"footlens/pkg/contracts"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:          "footlens",
		Short:        "Football injury impact data preparation and analytics",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configFile, "config", "", "YAML config file (default: FOOTLENS_CONFIG_FILE or ./config.yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(transformCmd(g))
	root.AddCommand(summaryCmd(g))
	root.AddCommand(correlateCmd(g))
	root.AddCommand(serveCmd(g))
	root.AddCommand(versionCmd())
	return root
}

// loadConfig resolves the configuration for a CLI run
func (g *globalFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configFile != "" {
		cfg, err = config.LoadFrom(g.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	return cfg, nil
}

// offlineService loads path into a fresh data service. Offline commands log to
// stderr so stdout carries only the result.
func offlineService(ctx context.Context, cfg *config.Config, path string, stderr io.Writer) (*services.DataService, *services.Snapshot, *slog.Logger, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.NewLoggerWithWriter(stderr, cfg.Logging.Level)
	cfg.Data.InputPath = path

	svc := services.NewDataService(cfg.Data, logger, nil)
	snap, err := svc.Load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, snap, logger, nil
}

// filterFlags binds the row filter to a command
func filterFlags(cmd *cobra.Command, f *analytics.Filter) {
	cmd.Flags().StringSliceVar(&f.Teams, "team", nil, "keep only these teams")
	cmd.Flags().StringSliceVar(&f.Seasons, "season", nil, "keep only these seasons")
	cmd.Flags().StringSliceVar(&f.Severities, "severity", nil, "keep only these severities")
	cmd.Flags().StringSliceVar(&f.Positions, "position", nil, "keep only these positions")
	cmd.Flags().StringSliceVar(&f.AgeGroups, "age-group", nil, "keep only these age groups")
}

func transformCmd(g *globalFlags) *cobra.Command {
	var (
		in, out, format string
		columns         []string
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Clean and enrich the raw injury file and write the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			f, err := outputFormat(format, out)
			if err != nil {
				return err
			}

			ctx := infrastructure.EnsureTraceID(cmd.Context())
			_, snap, logger, err := offlineService(ctx, cfg, in, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err := exporter.NewExporter(logger, nil).ExportFile(ctx, snap.Table, f, columns, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", snap.Rows, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "raw injury file (.csv or .xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "output file")
	cmd.Flags().StringVar(&format, "format", "", "csv, xlsx or json (default: from the --out extension)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to export, in order (default: all)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// outputFormat picks the explicit format or derives it from the output extension
func outputFormat(format, out string) (exporter.Format, error) {
	if format == "" {
		format = filepath.Ext(out)
		if format == "" {
			return "", fmt.Errorf("cannot infer export format from %q; pass --format", out)
		}
	}
	return exporter.ParseFormat(format)
}

func summaryCmd(g *globalFlags) *cobra.Command {
	var (
		in     string
		filter analytics.Filter
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the KPI summary of the enriched table as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			svc, _, _, err := offlineService(cmd.Context(), cfg, in, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			summary, err := svc.Summary(filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "raw injury file (.csv or .xlsx)")
	filterFlags(cmd, &filter)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func correlateCmd(g *globalFlags) *cobra.Command {
	var (
		in      string
		columns []string
		asJSON  bool
		filter  analytics.Filter
	)

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Print the Pearson correlation matrix of numeric columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			svc, _, _, err := offlineService(cmd.Context(), cfg, in, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			matrix, err := svc.Correlation(filter, columns)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), matrix)
			}
			return writeMatrix(cmd.OutOrStdout(), matrix)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "raw injury file (.csv or .xlsx)")
	cmd.Flags().StringSliceVar(&columns, "column", nil, "numeric columns (default: the dashboard heatmap set)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	filterFlags(cmd, &filter)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func serveCmd(g *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			application, err := app.NewApplication(cfg, logger)
			if err != nil {
				logger.Error("Failed to create application", slog.String("error", err.Error()))
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override the configured port")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeMatrix prints the matrix as an aligned table; missing coefficients print as "-"
func writeMatrix(w io.Writer, m *analytics.CorrelationMatrix) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(m.Columns, "\t"))
	for i, name := range m.Columns {
		cells := make([]string, len(m.Values[i]))
		for j, v := range m.Values[i] {
			if v.Valid {
				cells[j] = fmt.Sprintf("%.3f", v.Float64)
			} else {
				cells[j] = "-"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", name, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
