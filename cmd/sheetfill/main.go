// Package main provides the CLI entry point for sheetfill.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetfill-go/internal/config"
	"github.com/ukaji3/sheetfill-go/internal/logging"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/document"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/output"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/sheet"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/workspace"
	"go.uber.org/zap"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetfill",
		Short: "Fill tracker spreadsheets from change-request documents",
		Long: `sheetfill matches each tracker row to a document in a bundle (PDF, DOCX,
EML or MSG) by its identifier, and fills the row's empty cells with the
values found in the document. Cells it could not fill are highlighted.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newFillCmd(), newRulesCmd(), newVersionCmd())
	return rootCmd
}

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <tracker.xlsx> <bundle.zip|dir>",
		Short: "Fill empty tracker cells from a document bundle",
		Args:  cobra.ExactArgs(2),
		RunE:  runFill,
	}
	cmd.Flags().StringP("output", "o", "", "Output workbook (default: <input>_filled.xlsx)")
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [tracker.xlsx]",
		Short: "Print the extraction rule bound to each target column",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRules,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sheetfill %s (%s)\n", version, gitCommit)
		},
	}
}

func runFill(cmd *cobra.Command, args []string) error {
	inputPath, bundlePath := args[0], args[1]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	cfg, err := config.Load(cmd.Flags(), "")
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	ws, err := workspace.New(cfg.Workdir)
	if err != nil {
		return err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.Warn("failed to remove workspace", zap.String("dir", ws.Dir()), zap.Error(err))
		}
	}()
	log = log.With(zap.String("run_id", ws.RunID))

	if err := ws.AddBundle(bundlePath); err != nil {
		return fmt.Errorf("failed to load bundle: %w", err)
	}
	files, err := ws.Files()
	if err != nil {
		return fmt.Errorf("failed to list bundle: %w", err)
	}
	log.Debug("bundle loaded", zap.String("bundle", bundlePath), zap.Int("files", len(files)))

	ds, err := sheet.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open tracker: %w", err)
	}
	defer ds.Close()

	rc := &sheetfill.RunContext{
		RunID:  ws.RunID,
		Files:  files,
		Reader: document.NewRegistry(cfg.MaxFileSize),
		Logger: log,
		Progress: func(p sheetfill.Progress) {
			log.Debug("processing row", zap.Int("row", p.Row), zap.Int("total", p.Total), zap.String("id", p.Identifier))
		},
	}

	report, err := sheetfill.Fill(cmd.Context(), rc, ds, opts)
	if err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	report.BookName = ds.BookName()
	report.SheetName = ds.SheetName()

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}
	if err := ds.Save(outputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Info("workbook written", zap.String("path", outputPath), zap.Bool("changed", ds.Dirty()))

	if cfg.Report != "" {
		if err := writeReport(report, cfg.Report, cfg.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	s := report.Summary
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d matched, %d filled, %d contextual, %d unresolved, %d preserved, %d skipped\n",
		outputPath, s.Rows, s.Matched, s.Filled, s.Contextual, s.Unresolved, s.Preserved, s.Skipped)
	return nil
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags(), "")
	if err != nil {
		return err
	}

	var headers []string
	if len(args) == 1 {
		ds, err := sheet.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open tracker: %w", err)
		}
		headers = ds.Headers()
		_ = ds.Close()
	}

	rs, err := cfg.Ruleset(headers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "variant: %s\n", rs.Variant)
	for _, field := range rs.Fields() {
		r, _ := rs.Rule(field)
		fmt.Fprintf(out, "%s: %s\n", field, r.Describe())
	}
	return nil
}

// defaultOutputPath returns <dir>/<name>_filled<ext> for input.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_filled" + ext
}

func writeReport(r *models.Report, path, format string) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	data, err := output.Marshal(r, f, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
