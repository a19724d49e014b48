package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"workorder/internal/config"
	"workorder/internal/editor"
	"workorder/internal/guard"
	"workorder/internal/model"
	"workorder/internal/patch"
	"workorder/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: workorder [options]\n\n")
		fmt.Fprintf(os.Stderr, "workorder sets the work order line of a machine configuration file.\n")
		fmt.Fprintf(os.Stderr, "Each configuration (profile) has a target file and a list of work orders;\n")
		fmt.Fprintf(os.Stderr, "the chosen work order replaces the value on the file's marker line.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  workorder                        # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  workorder --report               # Print every profile's current value\n")
		fmt.Fprintf(os.Stderr, "  workorder -r -v -o report.txt    # Save a verbose report to a file\n")
		fmt.Fprintf(os.Stderr, "  workorder --json                 # Output profile status as JSON\n")
		fmt.Fprintf(os.Stderr, "  workorder -p model_1 -l          # List the work orders of model_1\n")
		fmt.Fprintf(os.Stderr, "  workorder -p model_1 -a WO-1234  # Add a work order to model_1\n")
		fmt.Fprintf(os.Stderr, "  workorder -p model_1 -s WO-1234  # Write WO-1234 into model_1's file\n")
	}

	dirFlag := pflag.String("dir", "", "Directory holding editor.ini and the stores (default: executable directory)")
	markerFlag := pflag.String("marker", "", "Marker prefix of the line to rewrite (overrides editor.ini)")
	missingFlag := pflag.String("on-missing-marker", "", "What a write does when the marker is absent: ignore, fail or append")
	decodeFlag := pflag.String("decode", "", "Handling of invalid UTF-8 in target files: skip or strict")
	reportFlag := pflag.BoolP("report", "r", false, "Print a report of every profile (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include option lists and file details in the report")
	jsonFlag := pflag.BoolP("json", "j", false, "Output profile status as JSON")
	profileFlag := pflag.StringP("profile", "p", "", "Profile used by --set, --add-option and --list-options")
	setFlag := pflag.StringP("set", "s", "", "Write VALUE into the profile's target file")
	addFlag := pflag.StringP("add-option", "a", "", "Add VALUE to the profile's option list")
	listFlag := pflag.BoolP("list-options", "l", false, "List the profile's options")
	debugFlag := pflag.BoolP("debug", "d", false, "Log TUI activity to debug.log")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("workorder version %s\n", model.Version)
		return
	}

	cfg, err := loadConfig(*dirFlag, *markerFlag, *missingFlag, *decodeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ed := editor.New(cfg)

	switch {
	case *reportFlag:
		err = runReportMode(ed, *outputFlag, *verboseFlag)
	case *jsonFlag:
		err = runJsonMode(ed)
	case *listFlag:
		err = runListMode(ed, *profileFlag)
	case pflag.Lookup("add-option").Changed:
		err = withGuard(cfg, func() error { return runAddMode(ed, *profileFlag, *addFlag) })
	case pflag.Lookup("set").Changed:
		err = withGuard(cfg, func() error { return runSetMode(ed, *profileFlag, *setFlag) })
	default:
		err = withGuard(cfg, func() error { return runTuiMode(ed, *debugFlag) })
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads editor.ini from dir (or the executable directory) and
// applies command-line overrides.
func loadConfig(dir, marker, onMissing, decode string) (*config.Config, error) {
	if dir == "" {
		d, err := config.ScriptDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	cfg, err := config.Load(model.ExpandTilde(dir))
	if err != nil {
		return nil, err
	}

	if pflag.Lookup("marker").Changed {
		cfg.Marker = marker
	}
	if pflag.Lookup("on-missing-marker").Changed {
		if cfg.OnMissingMarker, err = patch.ParseMissingMarkerPolicy(onMissing); err != nil {
			return nil, err
		}
	}
	if pflag.Lookup("decode").Changed {
		if cfg.Decode, err = patch.ParseDecodePolicy(decode); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// withGuard runs fn while holding the single-instance lock. A second instance
// exits immediately without touching the lock file.
func withGuard(cfg *config.Config, fn func() error) error {
	g, err := guard.Acquire(cfg.LockFile)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyRunning) {
			fmt.Fprintln(os.Stderr, "The editor is already running.")
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return err
	}
	defer func() {
		if err := g.Release(); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()
	return fn()
}

func runReportMode(ed *editor.Editor, outputFile string, verbose bool) error {
	rows := ed.Report(ed.NewSession())
	report := editor.GenerateReport(ed.Config(), rows, verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report+"\n"), 0644); err != nil {
			return fmt.Errorf("writing report to %s: %w", outputFile, err)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return nil
	}
	fmt.Println(report)
	return nil
}

func runJsonMode(ed *editor.Editor) error {
	rows := ed.Report(ed.NewSession())
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func selectProfile(ed *editor.Editor, profile string) (*editor.Session, error) {
	if profile == "" {
		return nil, fmt.Errorf("%w (use --profile, one of: %s)",
			model.ErrNoProfile, strings.Join(ed.Config().ProfileNames(), ", "))
	}
	s := ed.NewSession()
	if err := ed.Select(s, profile); err != nil {
		return nil, err
	}
	return s, nil
}

func runListMode(ed *editor.Editor, profile string) error {
	s, err := selectProfile(ed, profile)
	if err != nil {
		return err
	}
	for _, opt := range s.Options {
		fmt.Println(opt)
	}
	return nil
}

func runAddMode(ed *editor.Editor, profile, value string) error {
	s, err := selectProfile(ed, profile)
	if err != nil {
		return err
	}
	if err := ed.AddOption(s, value); err != nil {
		return err
	}
	fmt.Printf("Added %q to %s\n", s.SelectedOption(), profile)
	return nil
}

func runSetMode(ed *editor.Editor, profile, value string) error {
	s, err := selectProfile(ed, profile)
	if err != nil {
		return err
	}
	if err := ed.Commit(s, value); err != nil {
		return err
	}
	summary, _ := editor.CommitSummary(s)
	fmt.Println(summary)
	return nil
}

func runTuiMode(ed *editor.Editor, debug bool) error {
	if debug {
		f, err := tea.LogToFile("debug.log", "workorder")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := tui.InitialModel(ed)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	if am, ok := final.(tui.AppModel); ok && am.Committed != "" {
		fmt.Println(am.Committed)
	}
	return nil
}
