// Package main provides the designer binary: it compiles Blockly smart home
// designs to RDF, validates them against the electrical installation rules
// and keeps a watched workspace validated as it is edited.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/config"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/export"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/metrics"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/smarthome"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/watch"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "dhc-designer"
)

// errViolations signals that a design has error-severity violations.
var errViolations = errors.New("design has errors")

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the flags shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Registry
}

func rootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   "designer",
		Short: "DigitalHome.Cloud smart home designer",
		Long: `designer compiles Blockly smart home designs into RDF instance data and
checks them against the NF C 15-100 and NF C 14-100 installation rules.

Configuration is read from ~/.config/dhc-designer/config.yaml, then from
designer.yaml in the current or a parent directory, then from DHC_*
environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(
		compileCmd(c),
		validateCmd(c),
		saveCmd(c),
		watchCmd(c),
		shellCmd(c),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return nil
			},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// setup loads configuration and installs the default logger.
func (c *cli) setup(cmd *cobra.Command) error {
	bootstrap := newLogger(cmd.ErrOrStderr(), c.logLevel, c.logFormat)
	cfg, err := loadConfig(c.configPath, bootstrap)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}

	c.cfg = cfg
	c.logger = newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	c.metrics = metrics.NewRegistry()
	slog.SetDefault(c.logger)
	return nil
}

func (c *cli) app(ctx context.Context) (*app, error) {
	return newApp(ctx, c.cfg, c.logger, c.metrics)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func compileCmd(c *cli) *cobra.Command {
	var (
		rootID string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "compile <workspace.json|->",
		Short: "Compile a workspace into RDF or graph JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if f != export.FormatTurtle {
				out, err := a.service.Export(cmd.Context(), data, rootID, f)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, out)
			}

			// Turtle output stays well formed when compilation fails.
			report, err := a.service.AnalyzeWorkspace(cmd.Context(), data, rootID)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, report.Turtle); err != nil {
				return err
			}
			return report.CompileErr
		},
	}

	cmd.Flags().StringVar(&rootID, "root-id", "", "Smart home id used in instance IRIs")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTurtle), "Output format (turtle, ntriples, jsonld, graph)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("root-id")

	return cmd
}

// expandPatterns resolves doublestar patterns to files. A plain path that
// matches nothing is kept so that reading it reports the error.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", p, err)
		}
		if len(matches) == 0 {
			files = append(files, p)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

func validateCmd(c *cli) *cobra.Command {
	var (
		asJSON    bool
		placement bool
	)

	cmd := &cobra.Command{
		Use:   "validate <workspace.json|pattern>...",
		Short: "Check workspaces against the installation rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("placement") {
				c.cfg.Validation.Placement = placement
			}
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}

			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			results := make(map[string][]validation.Violation, len(files))
			failed := false
			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				violations, err := a.service.ValidateWorkspace(cmd.Context(), data)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				results[file] = violations
				failed = failed || validation.HasErrors(violations)
				if !asJSON {
					renderViolations(cmd.OutOrStdout(), file, violations)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(results); err != nil {
					return err
				}
			}
			if failed {
				return errViolations
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print violations as JSON keyed by file")
	cmd.Flags().BoolVar(&placement, "placement", false, "Also check block placement")

	return cmd
}

func saveCmd(c *cli) *cobra.Command {
	var rootID string

	cmd := &cobra.Command{
		Use:   "save <workspace.json|->",
		Short: "Save a workspace and its compiled artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.service.Save(cmd.Context(), smarthome.Normalize(rootID), data)
			if err != nil {
				return err
			}
			renderViolations(cmd.OutOrStdout(), report.RootID, report.Violations)
			return report.CompileErr
		},
	}

	cmd.Flags().StringVar(&rootID, "root-id", "", "Smart home id")
	_ = cmd.MarkFlagRequired("root-id")

	return cmd
}

func shellCmd(c *cli) *cobra.Command {
	var (
		country string
		stdout  bool
	)

	cmd := &cobra.Command{
		Use:   "shell <smart-home-id>",
		Short: "Create the starter design for a new smart home",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := smarthome.ParseID(args[0])
			if err != nil {
				return err
			}
			if country == "" {
				country = id.Country
			}

			if stdout {
				data, err := smarthome.GenerateShellWorkspace(country)
				if err != nil {
					return err
				}
				return writeOutput(cmd, "", append(data, '\n'))
			}

			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.service.CreateSmartHome(cmd.Context(), id.String(), country)
			if err != nil {
				return err
			}
			renderViolations(cmd.OutOrStdout(), report.RootID, report.Violations)
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "Country code (default: from the id)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the workspace instead of saving it")

	return cmd
}

func watchCmd(c *cli) *cobra.Command {
	var (
		pattern     string
		debounce    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-validate workspaces as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if !cmd.Flags().Changed("pattern") {
				pattern = c.cfg.Validation.Pattern
			}
			if !cmd.Flags().Changed("debounce") {
				debounce = c.cfg.Validation.Debounce
			}
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = c.cfg.Metrics.Addr
			}

			ctx := cmd.Context()
			a, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if metricsAddr != "" {
				srv := serveMetrics(metricsAddr, c.metrics, c.logger)
				defer srv.Close()
			}

			w, err := watch.NewWatcher(watch.Config{Root: root, Pattern: pattern, Debounce: debounce},
				a.service.ValidateWorkspace,
				watch.WithLogger(c.logger),
				watch.WithMetrics(c.metrics))
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			out := cmd.OutOrStdout()
			for res := range w.Results() {
				if res.Err != nil {
					fmt.Fprintf(out, "%s %s\n", fileStyle.Render(res.Path), errorStyle.Render(res.Err.Error()))
					continue
				}
				renderViolations(out, res.Path, res.Violations)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Workspace file pattern relative to dir (default from config)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before re-validating (default from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

// serveMetrics exposes the registry on /metrics in the background.
func serveMetrics(addr string, m *metrics.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}
