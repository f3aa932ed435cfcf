package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/mazesearch/internal/app"
	"github.com/specialistvlad/mazesearch/internal/replay"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// A leading "replay" argument selects the replay subcommand.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if len(args) > 0 && args[0] == string(app.CommandReplay) {
		return parseReplay(args[1:], output)
	}
	return parseRun(args, output)
}

// logFlags are shared by every command.
type logFlags struct {
	format *string
	level  *string
}

func addLogFlags(flagSet *flag.FlagSet) logFlags {
	return logFlags{
		format: flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'."),
		level:  flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'."),
	}
}

func (l logFlags) validate() (format, level string, err error) {
	format = strings.ToLower(*l.format)
	if format != "text" && format != "json" {
		return "", "", &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	level = strings.ToLower(*l.level)
	switch level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return "", "", &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	return format, level, nil
}

func parseRun(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("mazesearch", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mazesearch - Solve a random grid maze with DFS, BFS and A*.

Usage:
  mazesearch [options]
  mazesearch replay [-delay 50ms] TRACE_LOG

Every run prints each algorithm's solution and writes a trace log per
algorithm (graph-<alg>.log, or graph-instrumented-<alg>.log with -i).

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL run configuration file.")
	instrumentFlag := flagSet.Bool("instrument", false, "Record the path of every expanded node.")
	iFlag := flagSet.Bool("i", false, "Record the path of every expanded node (shorthand).")
	algorithmsFlag := flagSet.String("algorithms", "", "Comma-separated algorithms to run. Options: 'dfs', 'bfs', 'astar'.")
	heuristicFlag := flagSet.String("heuristic", "", "A* heuristic. Options: 'manhattan', 'euclidean', 'zero'.")
	rowsFlag := flagSet.Int("rows", 0, "Number of maze rows.")
	colsFlag := flagSet.Int("cols", 0, "Number of maze columns.")
	sparsenessFlag := flagSet.Float64("sparseness", 0, "Probability of a cell being blocked, within [0, 1].")
	seedFlag := flagSet.Uint64("seed", 0, "Seed for the maze layout. Random when not set.")
	logDirFlag := flagSet.String("log-dir", "", "Directory for trace logs. Defaults to the system temp directory.")
	publishURLFlag := flagSet.String("publish-url", "", "Socket.IO server to stream search frames to.")
	logs := addLogFlags(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	logFormat, logLevel, err := logs.validate()
	if err != nil {
		return nil, false, err
	}

	// Only flags given explicitly override the configuration file.
	var overrides app.Overrides
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "instrument":
			overrides.Instrument = instrumentFlag
		case "i":
			overrides.Instrument = iFlag
		case "algorithms":
			overrides.Algorithms = splitList(*algorithmsFlag)
		case "heuristic":
			overrides.Heuristic = heuristicFlag
		case "rows":
			overrides.Rows = rowsFlag
		case "cols":
			overrides.Cols = colsFlag
		case "sparseness":
			overrides.Sparseness = sparsenessFlag
		case "seed":
			overrides.Seed = seedFlag
		case "log-dir":
			overrides.LogDir = logDirFlag
		case "publish-url":
			overrides.PublishURL = publishURLFlag
		}
	})
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Command:    app.CommandRun,
		ConfigPath: *configFlag,
		Overrides:  overrides,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func parseReplay(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("mazesearch replay", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Replay a trace log in the terminal, one frame per expanded path.

Usage:
  mazesearch replay [options] TRACE_LOG

TRACE_LOG may also be a directory; every graph-*.log file directly inside it is
played in name order.

Options:
`)
		flagSet.PrintDefaults()
	}

	delayFlag := flagSet.Duration("delay", replay.DefaultDelay, "Pause between frames.")
	clearFlag := flagSet.Bool("clear", true, "Clear the terminal before each frame.")
	logs := addLogFlags(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No trace log provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(1))}
	}

	logFormat, logLevel, err := logs.validate()
	if err != nil {
		return nil, false, err
	}

	config, err := app.NewConfig(app.Config{
		Command:     app.CommandReplay,
		ReplayPath:  flagSet.Arg(0),
		ReplayDelay: *delayFlag,
		ClearScreen: *clearFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
