package app

import "fmt"

// Config holds everything an App instance needs to run.
type Config struct {
	// ScriptPath is a single .hcl script or a directory of scripts.
	ScriptPath string
	// ScriptName optionally selects a script by basename when ScriptPath
	// is a directory; empty means the lexicographically first script.
	ScriptName string
	// Port is the HTTP listen port for the live view; 0 disables it.
	Port int
	// LogFormat is "text" or "json"; LogLevel is debug/info/warn/error.
	LogFormat string
	LogLevel  string
	// Workers sizes the region sampler's pool; 0 means one per CPU.
	Workers int
	// Size is the square heightmap diameter in cells.
	Size int
	// Region bounds sampled over the heightmap.
	X0, Y0, X1, Y1 float64
	// Output, when set, renders a single frame to this PNG file and exits.
	Output string
}

// NewConfig validates a Config and returns it.
func NewConfig(c Config) (*Config, error) {
	if c.ScriptPath == "" {
		return nil, fmt.Errorf("script path must not be empty")
	}
	if c.Size <= 0 {
		return nil, fmt.Errorf("heightmap size must be positive, got %d", c.Size)
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("worker count must not be negative, got %d", c.Workers)
	}
	return &c, nil
}
