package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/noisebench/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("noisebench", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
NoiseBench - A live-reloading procedural noise playground.

Usage:
  noisebench [options] [SCRIPT_PATH]

Arguments:
  SCRIPT_PATH
    Path to a single .hcl noise script or a directory containing .hcl scripts.

Options:
`)
		flagSet.PrintDefaults()
	}

	scriptFlag := flagSet.String("script", "", "Path to the noise script file or directory.")
	sFlag := flagSet.String("s", "", "Path to the noise script file or directory (shorthand).")
	nameFlag := flagSet.String("script-name", "", "Script basename to select when the path is a directory.")
	portFlag := flagSet.Int("port", 0, "Port for the live-view HTTP server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent sampler workers. 0 means one per CPU.")
	sizeFlag := flagSet.Int("size", 256, "Heightmap size in cells per side.")
	x0Flag := flagSet.Float64("x0", 0, "Left edge of the sampled region.")
	y0Flag := flagSet.Float64("y0", 0, "Top edge of the sampled region.")
	x1Flag := flagSet.Float64("x1", 1, "Right edge of the sampled region.")
	y1Flag := flagSet.Float64("y1", 1, "Bottom edge of the sampled region.")
	outputFlag := flagSet.String("o", "", "Render one frame to this PNG file and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *scriptFlag != "" {
		path = *scriptFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Script path determined.", "path", path)

	if path == "" {
		slog.Debug("No script path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ScriptPath: path,
		ScriptName: *nameFlag,
		Port:       *portFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		Workers:    *workersFlag,
		Size:       *sizeFlag,
		X0:         *x0Flag,
		Y0:         *y0Flag,
		X1:         *x1Flag,
		Y1:         *y1Flag,
		Output:     *outputFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
