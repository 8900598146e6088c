package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vidyasagar/tdoc/internal/app"
	"github.com/vidyasagar/tdoc/internal/config"
	"github.com/vidyasagar/tdoc/internal/launch"
	"github.com/vidyasagar/tdoc/internal/listing"
	"github.com/vidyasagar/tdoc/internal/theme"
)

var (
	version = "0.1.0"
)

// errReported is returned once a command has already told the user what
// went wrong; main only sets the exit status.
var errReported = errors.New("reported")

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	themeName  string
	timeout    int
	logFile    string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(launch.Browser{}).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(opener launch.Opener) *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "tdoc [listing]",
		Short: "tdoc - documentation lookup for disassembly listings",
		Long: `tdoc shows a disassembly listing and looks up API documentation for the
symbol under the cursor. Without a file argument a built-in sample is shown.

Examples:
  tdoc                       # browse the sample listing
  tdoc dump.asm              # browse a listing file
  tdoc lookup CreateFileW    # print documentation and exit
  tdoc open CloseHandle      # open the search page in the browser`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), f, opener, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "config file (default: user config dir/tdoc/config.yaml)")
	pf.StringVar(&f.themeName, "theme", "", "color theme ("+strings.Join(theme.List(), ", ")+")")
	pf.IntVar(&f.timeout, "timeout", 0, "request timeout in seconds (overrides the config file)")
	pf.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newLookupCmd(f),
		newOpenCmd(f, opener),
		newConfigCmd(f),
	)
	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func (f *rootFlags) loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.timeout > 0 {
		cfg.TimeoutSeconds = f.timeout
	}
	if f.themeName != "" {
		cfg.Theme = f.themeName
	}
	if cfg.Theme != "" && !theme.Set(cfg.Theme) {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", cfg.Theme, strings.Join(theme.List(), ", "))
	}
	if !cfg.HasMarker() {
		logger.Warn("search_url has no search term placeholder; every symbol maps to the same page", "search_url", cfg.SearchURL)
	}
	return cfg, nil
}

// newLogger builds the text logger used by every command.
func (f *rootFlags) newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runTUI(ctx context.Context, f *rootFlags, opener launch.Opener, args []string) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if f.logFile != "" {
		lf, err := tea.LogToFile(f.logFile, "tdoc")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer lf.Close()
		logger = f.newLogger(lf, slog.LevelInfo)
	}
	slog.SetDefault(logger)

	cfg, err := f.loadConfig(logger)
	if err != nil {
		return err
	}
	l, err := loadListing(args)
	if err != nil {
		return err
	}

	launch.Quiet()
	m := app.New(app.Options{
		Config:  cfg,
		Listing: l,
		Opener:  opener,
		Logger:  logger,
	})
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	start := time.Now()
	_, err = p.Run()
	logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// loadListing reads the listing named by args, or the sample when none is.
func loadListing(args []string) (*listing.Listing, error) {
	if len(args) == 0 {
		return listing.Parse("sample", strings.NewReader(listing.Sample))
	}
	fh, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening listing: %w", err)
	}
	defer fh.Close()
	return listing.Parse(filepath.Base(args[0]), fh)
}
