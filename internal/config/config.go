package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv
const (
	EnvProjectPath = "WACC_PROJECT_PATH"
	EnvCompiler    = "WACC_COMPILER"
	EnvProcessors  = "WACC_PROCESSORS"
	EnvTimeout     = "WACC_TIMEOUT"
	EnvAssembler   = "WACC_ASSEMBLER"
	EnvEmulator    = "WACC_EMULATOR"
	EnvDebug       = "WCT_DEBUG"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath  string
	CompilerPath string
	RegistryFile string // Empty means the embedded registry

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	HistoryFile    string

	// Execution settings
	Processors int
	Timeout    time.Duration
	Assembler  []string
	Emulator   []string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors   int
	Timeout      time.Duration
	TimeoutSet   bool
	Compiler     string
	Registry     string
	Categories   []string
	NameFilter   string
	Execute      bool
	FailFast     bool
	OnlyFailed   bool
	JSON         bool
	NoColor      bool
	NoHistory    bool
	Verbose      bool
	OpenFails    bool
	Unregistered bool
	Summary      bool
	Limit        int
	RunID        string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		CompilerPath:   DefaultCompilerPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		HistoryFile:    DefaultHistoryFile,
		Processors:     DefaultProcessors,
		Timeout:        DefaultTimeout,
		Flags:          Flags{Processors: DefaultProcessors, Limit: DefaultHistoryLimit},
	}
	// Copy defaults so callers can mutate them freely
	cfg.PathsToIgnore = append([]string(nil), DefaultPathsToIgnore...)
	cfg.Assembler = append([]string(nil), DefaultAssembler...)
	cfg.Emulator = append([]string(nil), DefaultEmulator...)
	return cfg
}

// Load creates a config, applies the environment and then flags
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	return cfg, nil
}

// ApplyEnv loads .env from the working directory (if present) and applies WACC_* variables
func (c *Config) ApplyEnv() error {
	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load()

	if v := os.Getenv(EnvProjectPath); v != "" {
		c.ProjectPath = v
	}
	if v := os.Getenv(EnvCompiler); v != "" {
		c.CompilerPath = v
	}
	if v := os.Getenv(EnvProcessors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: invalid processor count %q", EnvProcessors, v)
		}
		c.Processors = n
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("%s: invalid duration %q", EnvTimeout, v)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvAssembler); v != "" {
		c.Assembler = strings.Fields(v)
	}
	if v := os.Getenv(EnvEmulator); v != "" {
		c.Emulator = strings.Fields(v)
	}
	return nil
}

// ApplyFlags copies flags into the config, overriding defaults and environment
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.TimeoutSet {
		c.Timeout = flags.Timeout
	}
	if flags.Compiler != "" {
		c.CompilerPath = flags.Compiler
	}
	if flags.Registry != "" {
		c.RegistryFile = flags.Registry
	}
}

// Debug reports whether debug logging was requested by flag or environment
func (c *Config) Debug() bool {
	return c.Flags.Verbose || os.Getenv(EnvDebug) == "1"
}

// GetCompilerPath returns the compiler binary, resolved against the project path when relative
func (c *Config) GetCompilerPath() string {
	if filepath.IsAbs(c.CompilerPath) {
		return c.CompilerPath
	}
	// Bare names like "waccc" are looked up on PATH by exec
	if !strings.ContainsRune(c.CompilerPath, filepath.Separator) && !strings.Contains(c.CompilerPath, "/") {
		return c.CompilerPath
	}
	p := filepath.Join(c.ProjectPath, c.CompilerPath)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetOutputPath returns the full path to the output JSON file (under project so run and fails use the same file).
// Resolves to an absolute path so run and fails always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetHistoryPath returns the full path to the run history database
func (c *Config) GetHistoryPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.HistoryFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetScratchDir returns the directory a worker uses for backend artifacts
func (c *Config) GetScratchDir(workerID int) string {
	return filepath.Join(c.ProjectPath, c.OutputJSONDir, "scratch", fmt.Sprintf("worker_%d", workerID))
}
