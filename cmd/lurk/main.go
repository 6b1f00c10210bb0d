// Package main provides the CLI entrypoint for lurk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ree-see/lurk/internal/analysis"
	"github.com/ree-see/lurk/internal/config"
	"github.com/ree-see/lurk/internal/dashboard"
	"github.com/ree-see/lurk/internal/export"
	"github.com/ree-see/lurk/internal/model"
	"github.com/ree-see/lurk/internal/render"
	"github.com/ree-see/lurk/internal/store"
)

const defaultStatsTopN = 10

var (
	globalDBPath string

	analyzeGapMs       int64
	analyzeTopN        int
	analyzeMinSegment  int
	analyzeMinHoldMs   int64
	analyzeMaxHoldMs   int64
	analyzeDays        int
	analyzeDetailed    bool
	statsDays          int
	exportFormat       string
	exportOutput       string
	exportDays         int
	importInput        string
	cleanupBefore      string
	dashboardGapMs     int64
	dashboardTopN      int
	dashboardMinHoldMs int64
	dashboardMaxHoldMs int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lurk",
		Short:         "Keystroke pattern analyzer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&globalDBPath, "db", "", "path to the event database (default: XDG data dir)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func dbPath() string {
	if globalDBPath != "" {
		return globalDBPath
	}
	return config.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze recorded keystroke patterns",
		Args:  cobra.NoArgs,
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().Int64Var(&analyzeGapMs, "gap-threshold-ms", model.DefaultGapThresholdMs, "idle gap that starts a new typing segment")
	cmd.Flags().IntVar(&analyzeTopN, "top-n", model.DefaultTopN, "rows per ranked table")
	cmd.Flags().IntVar(&analyzeMinSegment, "min-segment-events", 0, "drop segments with fewer events")
	cmd.Flags().Int64Var(&analyzeMinHoldMs, "min-hold-ms", model.DefaultMinHoldMs, "shortest plausible hold duration (0 disables)")
	cmd.Flags().Int64Var(&analyzeMaxHoldMs, "max-hold-ms", model.DefaultMaxHoldMs, "longest plausible hold duration (0 disables)")
	cmd.Flags().IntVar(&analyzeDays, "days", 0, "limit to the last N days (0 = all)")
	cmd.Flags().BoolVar(&analyzeDetailed, "detailed", false, "include key codes, key-pair timings, and filter config")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	opts, err := analyzeOptions(cmd)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	var events []model.KeyEvent
	if analyzeDays > 0 {
		events, err = st.ListEventsSince(ctx, analyzeDays)
	} else {
		events, err = st.ListEvents(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	report, err := analysis.Analyze(events, opts)
	if err != nil {
		return err
	}
	if report.Diagnostics.NonMonotonicEvents > 0 {
		logErrf("warning: %d events arrived out of timestamp order\n", report.Diagnostics.NonMonotonicEvents)
	}
	return render.RenderReport(cmd.OutOrStdout(), report, analyzeDetailed)
}

func analyzeOptions(cmd *cobra.Command) (model.AnalyzeOptions, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.AnalyzeOptions{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyInt64Config(cmd, "gap-threshold-ms", &analyzeGapMs, fileCfg.Analyze.GapThresholdMs)
	applyIntConfig(cmd, "top-n", &analyzeTopN, fileCfg.Analyze.TopN)
	applyIntConfig(cmd, "min-segment-events", &analyzeMinSegment, fileCfg.Analyze.MinSegmentEvents)
	applyInt64Config(cmd, "min-hold-ms", &analyzeMinHoldMs, fileCfg.Analyze.MinHoldMs)
	applyInt64Config(cmd, "max-hold-ms", &analyzeMaxHoldMs, fileCfg.Analyze.MaxHoldMs)

	opts := model.AnalyzeOptions{
		GapThresholdMs:   analyzeGapMs,
		TopN:             analyzeTopN,
		MinSegmentEvents: analyzeMinSegment,
		MinHoldMs:        analyzeMinHoldMs,
		MaxHoldMs:        analyzeMaxHoldMs,
	}
	if err := validateAnalyzeOptions(opts); err != nil {
		return model.AnalyzeOptions{}, err
	}
	return opts, nil
}

func validateAnalyzeOptions(opts model.AnalyzeOptions) error {
	if opts.GapThresholdMs <= 0 {
		return fmt.Errorf("--gap-threshold-ms must be > 0")
	}
	if opts.TopN <= 0 {
		return fmt.Errorf("--top-n must be > 0")
	}
	if opts.MinSegmentEvents < 0 {
		return fmt.Errorf("--min-segment-events must be >= 0")
	}
	if opts.MinHoldMs < 0 {
		return fmt.Errorf("--min-hold-ms must be >= 0")
	}
	if opts.MaxHoldMs < 0 {
		return fmt.Errorf("--max-hold-ms must be >= 0")
	}
	if opts.MinHoldMs > 0 && opts.MaxHoldMs > 0 && opts.MinHoldMs > opts.MaxHoldMs {
		return fmt.Errorf("--min-hold-ms must not exceed --max-hold-ms")
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database overview",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsDays, "days", 0, "limit to the last N days (0 = all)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	var sinceTs int64
	if statsDays > 0 {
		sinceTs = time.Now().UnixMilli() - int64(statsDays)*24*60*60*1000
	}
	total, err := st.TotalCount(ctx, sinceTs)
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	presses, err := st.PressCount(ctx, sinceTs)
	if err != nil {
		return fmt.Errorf("failed to count presses: %w", err)
	}
	start, end, hasRange, err := st.DateRange(ctx, sinceTs)
	if err != nil {
		return fmt.Errorf("failed to read date range: %w", err)
	}
	topKeys, err := st.TopKeys(ctx, sinceTs, defaultStatsTopN)
	if err != nil {
		return fmt.Errorf("failed to load top keys: %w", err)
	}
	topApps, err := st.TopApplications(ctx, sinceTs, defaultStatsTopN)
	if err != nil {
		return fmt.Errorf("failed to load top applications: %w", err)
	}

	return render.RenderQuickStats(cmd.OutOrStdout(), render.QuickStats{
		TotalEvents: total,
		Presses:     presses,
		RangeStart:  start,
		RangeEnd:    end,
		HasRange:    hasRange,
		TopKeys:     topKeys,
		TopApps:     topApps,
	})
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events to CSV or JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVar(&exportOutput, "output", "", "output file path")
	cmd.Flags().IntVar(&exportDays, "days", 0, "limit to the last N days (0 = all)")
	if err := cmd.MarkFlagRequired("output"); err != nil {
		// MarkFlagRequired only fails for unknown flag names.
		panic(err)
	}
	return cmd
}

func runExportCmd(_ *cobra.Command, _ []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("--format must be csv or json, got %q", exportFormat)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	var events []model.KeyEvent
	if exportDays > 0 {
		events, err = st.ListEventsSince(ctx, exportDays)
	} else {
		events, err = st.ListEvents(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	switch exportFormat {
	case "csv":
		if err := export.WriteCSV(exportOutput, events); err != nil {
			return err
		}
	case "json":
		var dateRange *export.DateRange
		if len(events) > 0 {
			// Events come back sorted by timestamp.
			dateRange = &export.DateRange{
				Start: events[0].Timestamp,
				End:   events[len(events)-1].Timestamp,
			}
		}
		if err := export.WriteJSON(exportOutput, events, dateRange); err != nil {
			return err
		}
	}
	logErrf("Exported %d events to %s\n", len(events), exportOutput)
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import events from a CSV export",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importInput, "input", "", "input CSV file path")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}
	return cmd
}

func runImportCmd(_ *cobra.Command, _ []string) error {
	events, err := export.ReadCSV(importInput)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importInput, err)
	}
	if len(events) == 0 {
		return fmt.Errorf("no events found in %s", importInput)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.InsertEventsBatch(context.Background(), events); err != nil {
		return fmt.Errorf("failed to store events: %w", err)
	}
	logErrf("Imported %d events from %s\n", len(events), importInput)
	return nil
}

func newCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete events older than a date",
		Args:  cobra.NoArgs,
		RunE:  runCleanupCmd,
	}
	cmd.Flags().StringVar(&cleanupBefore, "before", "", "delete events before this date (YYYY-MM-DD)")
	if err := cmd.MarkFlagRequired("before"); err != nil {
		panic(err)
	}
	return cmd
}

func runCleanupCmd(_ *cobra.Command, _ []string) error {
	cutoff, err := time.ParseInLocation("2006-01-02", cleanupBefore, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --before value (expected YYYY-MM-DD): %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	deleted, err := st.DeleteBefore(context.Background(), cutoff.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	logErrf("Deleted %d events before %s\n", deleted, cleanupBefore)
	return nil
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive analysis dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	cmd.Flags().Int64Var(&dashboardGapMs, "gap-threshold-ms", model.DefaultGapThresholdMs, "idle gap that starts a new typing segment")
	cmd.Flags().IntVar(&dashboardTopN, "top-n", model.DefaultTopN, "rows per ranked table")
	cmd.Flags().Int64Var(&dashboardMinHoldMs, "min-hold-ms", model.DefaultMinHoldMs, "shortest plausible hold duration (0 disables)")
	cmd.Flags().Int64Var(&dashboardMaxHoldMs, "max-hold-ms", model.DefaultMaxHoldMs, "longest plausible hold duration (0 disables)")
	return cmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyInt64Config(cmd, "gap-threshold-ms", &dashboardGapMs, fileCfg.Analyze.GapThresholdMs)
	applyIntConfig(cmd, "top-n", &dashboardTopN, fileCfg.Analyze.TopN)
	applyInt64Config(cmd, "min-hold-ms", &dashboardMinHoldMs, fileCfg.Analyze.MinHoldMs)
	applyInt64Config(cmd, "max-hold-ms", &dashboardMaxHoldMs, fileCfg.Analyze.MaxHoldMs)

	opts := model.AnalyzeOptions{
		GapThresholdMs: dashboardGapMs,
		TopN:           dashboardTopN,
		MinHoldMs:      dashboardMinHoldMs,
		MaxHoldMs:      dashboardMaxHoldMs,
	}
	if err := validateAnalyzeOptions(opts); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	dash := dashboard.NewModel(st, opts)
	program := tea.NewProgram(dash, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lurk configuration
# Uncomment a value to enable it. CLI flags override config values.

[analyze]
# gap-threshold-ms = %d   # Idle gap that starts a new typing segment
# top-n = %d                # Rows per ranked table
# min-segment-events = 0    # Drop segments with fewer events
# min-hold-ms = %d          # Shortest plausible hold duration (0 disables)
# max-hold-ms = %d        # Longest plausible hold duration (0 disables)
`,
		model.DefaultGapThresholdMs,
		model.DefaultTopN,
		model.DefaultMinHoldMs,
		model.DefaultMaxHoldMs,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
