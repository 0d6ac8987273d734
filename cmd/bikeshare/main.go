// Package main provides the CLI entrypoint for bikeshare.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/bikeshare/internal/config"
	"github.com/verte-zerg/bikeshare/internal/ctxlog"
	"github.com/verte-zerg/bikeshare/internal/dataset"
	"github.com/verte-zerg/bikeshare/internal/filter"
	"github.com/verte-zerg/bikeshare/internal/model"
	"github.com/verte-zerg/bikeshare/internal/prompt"
	"github.com/verte-zerg/bikeshare/internal/selection"
	"github.com/verte-zerg/bikeshare/internal/session"
	"github.com/verte-zerg/bikeshare/internal/stats"
	"github.com/verte-zerg/bikeshare/internal/store"
	"github.com/verte-zerg/bikeshare/internal/tui"
)

const defaultHistoryLast = 10

var (
	configPath string

	sessionDataDirs []string
	sessionRetries  int
	sessionHistory  bool
	sessionVerbose  bool

	browseMonth string
	browseDay   string

	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bikeshare",
		Short:         "Explore US bikeshare trip data",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (.toml, .yaml or .yml; default: XDG config dir)")
	rootCmd.PersistentFlags().StringArrayVar(&sessionDataDirs, "data-dir", nil, "extra directory searched for city files (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&sessionVerbose, "verbose", false, "log diagnostics to stderr")
	rootCmd.Flags().IntVar(&sessionRetries, "retries", filter.DefaultRetries, "declined confirmations allowed before exiting")
	rootCmd.Flags().BoolVar(&sessionHistory, "history", false, "record explorations in the history database")

	rootCmd.AddCommand(newCitiesCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := withLogger(cmd)

	var recorder session.Recorder
	if cfg.History {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		recorder = st
	}

	ctrl := session.New(session.Options{
		Asker:    prompt.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
		Out:      cmd.OutOrStdout(),
		Cities:   cfg.Cities,
		Dirs:     searchDirs(cfg),
		Retries:  cfg.Retries,
		Width:    terminalWidth(cmd.OutOrStdout()),
		Recorder: recorder,
	})
	return ctrl.Run(ctx)
}

func newCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List cities and the trip file each resolves to",
		Args:  cobra.NoArgs,
		RunE:  runCitiesCmd,
	}
}

func runCitiesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	dirs := searchDirs(cfg)
	for _, c := range selection.Cities(cfg.Cities) {
		path, err := dataset.ResolveCityFile(c.Name, dirs)
		switch {
		case err == nil:
		case errors.Is(err, dataset.ErrNoData):
			path = "(no data)"
		default:
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d. %s: %s\n", c.Index, c.Name, path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <city>",
		Short: "Browse raw trips in a terminal table",
		Args:  cobra.ExactArgs(1),
		RunE:  runBrowseCmd,
	}
	cmd.Flags().StringVar(&browseMonth, "month", "", "month name or number")
	cmd.Flags().StringVar(&browseDay, "day", "", "weekday name or number (0 = Monday)")
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	spec, err := browseSpec(cfg, args[0], browseMonth, browseDay)
	if err != nil {
		return err
	}
	table, err := dataset.Load(spec.Path, dataset.Filter{Month: spec.Month, Weekday: spec.Weekday})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", spec.Path, err)
	}
	ctxlog.FromContext(withLogger(cmd)).Debug("trips loaded", "path", spec.Path, "trips", table.Len())

	program := tea.NewProgram(tui.NewBrowser(spec.Summary(), table), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func browseSpec(cfg model.Config, city, month, day string) (model.FilterSpec, error) {
	sel, ok := selection.Normalize(city, selection.Cities(cfg.Cities))
	if !ok {
		return model.FilterSpec{}, fmt.Errorf("unknown city %q", city)
	}
	path, err := dataset.ResolveCityFile(sel.Name, searchDirs(cfg))
	if err != nil {
		return model.FilterSpec{}, err
	}
	spec := model.FilterSpec{City: sel.Name, Path: path}
	if month != "" {
		present, err := dataset.ScanMonths(path)
		if err != nil {
			return model.FilterSpec{}, fmt.Errorf("failed to read months: %w", err)
		}
		if spec.Month, ok = selection.Normalize(month, selection.Months(present)); !ok {
			return model.FilterSpec{}, fmt.Errorf("no trips for month %q in %s", month, path)
		}
	}
	if day != "" {
		if spec.Weekday, ok = selection.Normalize(day, selection.Weekdays()); !ok {
			return model.FilterSpec{}, fmt.Errorf("unknown day %q", day)
		}
	}
	return spec, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded explorations",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N explorations (0 = all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be 0 or greater")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := withLogger(cmd)
	explorations, err := st.ListExplorations(ctx, historyLast)
	if err != nil {
		return fmt.Errorf("failed to list explorations: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(explorations) == 0 {
		_, err := fmt.Fprintln(out, "No explorations recorded yet. Run with --history to record them.")
		return err
	}
	for _, e := range explorations {
		if _, err := fmt.Fprintf(out, "%s  %s (%s): %s trips, %s\n",
			humanize.Time(e.StartedAt), e.City, filterLabel(e),
			humanize.Comma(int64(e.Trips)), stats.FormatShortDuration(e.TotalDuration)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	totals, err := st.CityTotals(ctx)
	if err != nil {
		return fmt.Errorf("failed to total explorations: %w", err)
	}
	if _, err := fmt.Fprintf(out, "\n%s\n", stats.Separator); err != nil {
		return err
	}
	for _, total := range totals {
		if _, err := fmt.Fprintf(out, "%s: %s explorations, %s trips\n",
			total.City, humanize.Comma(int64(total.Explorations)), humanize.Comma(int64(total.Trips))); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func filterLabel(e model.Exploration) string {
	switch {
	case e.Month != "" && e.Weekday != "":
		return e.Weekday + " during " + e.Month
	case e.Month != "":
		return e.Month
	case e.Weekday != "":
		return e.Weekday + " during all months"
	default:
		return "no filters"
	}
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
	path := configFile()
	if err := config.EnsureConfigFile(path); err != nil {
		return err
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

func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(configFile())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringsConfig(cmd, "data-dir", &sessionDataDirs, fileCfg.Session.DataDirs)
	applyIntConfig(cmd, "retries", &sessionRetries, fileCfg.Session.Retries)
	applyBoolConfig(cmd, "history", &sessionHistory, fileCfg.Session.History)

	cfg := model.Config{
		Cities:   fileCfg.Session.Cities,
		DataDirs: sessionDataDirs,
		Retries:  sessionRetries,
		History:  sessionHistory,
	}
	if len(cfg.Cities) == 0 {
		cfg.Cities = selection.DefaultCities()
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func validateConfig(cfg model.Config) error {
	if cfg.Retries < 1 {
		return fmt.Errorf("--retries must be at least 1")
	}
	for _, city := range cfg.Cities {
		if strings.TrimSpace(city) == "" {
			return fmt.Errorf("city names must not be empty")
		}
	}
	return nil
}

func searchDirs(cfg model.Config) []string {
	return dataset.SearchDirs(append(append([]string{}, cfg.DataDirs...), config.DefaultDataDir()))
}

func withLogger(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxlog.WithLogger(ctx, ctxlog.New(cmd.ErrOrStderr(), sessionVerbose))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func applyStringsConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if len(value) == 0 {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
