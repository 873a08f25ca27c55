package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ic-timon/simbench/bench/logging"
)

// Executor names accepted by Config.Executor.
const (
	ExecutorGoroutine = "goroutine"
	ExecutorResident  = "resident"
	ExecutorAnts      = "ants"
)

// Config holds harness parameters.
type Config struct {
	Iterations int    `yaml:"iterations" toml:"iterations"` // timed runs per invocation, default 1024
	LogFile    string `yaml:"log-file" toml:"log-file"`     // TSV record log, default benchmark-log.tsv
	Workers    int    `yaml:"workers" toml:"workers"`       // parallel worker count, default runtime.NumCPU()
	Executor   string `yaml:"executor" toml:"executor"`     // goroutine | resident | ants
	Strict     bool   `yaml:"strict" toml:"strict"`         // fail instead of clamping workers to the block count
	Offheap    bool   `yaml:"offheap" toml:"offheap"`       // generate vectors into C memory (needs cgo)
	Seed1      uint32 `yaml:"seed1" toml:"seed1"`           // seed of the first vector
	Seed2      uint32 `yaml:"seed2" toml:"seed2"`           // seed of the second vector
	Vectors    string `yaml:"vectors" toml:"vectors"`       // optional vecstore file to read the pair from

	Log logging.Config `yaml:"log" toml:"log"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Iterations: 1024,
		LogFile:    "benchmark-log.tsv",
		Workers:    runtime.NumCPU(),
		Executor:   ExecutorGoroutine,
		Seed1:      1,
		Seed2:      2,
		Log:        logging.DefaultConfig(),
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise fills zero fields with defaults.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	d := DefaultConfig()
	if c.Iterations <= 0 {
		c.Iterations = d.Iterations
	}
	if c.LogFile == "" {
		c.LogFile = d.LogFile
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.Executor == "" {
		c.Executor = d.Executor
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	return c
}

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	switch c.Executor {
	case ExecutorGoroutine, ExecutorResident, ExecutorAnts:
	default:
		return fmt.Errorf("%w: unknown executor %q", ErrInvalidConfig, c.Executor)
	}
	if c.LogFile == "" {
		return fmt.Errorf("%w: empty log file name", ErrInvalidConfig)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
	return cfg.OrDefault(), nil
}

// Environment variables read by ApplyEnv.
const (
	EnvIterations = "SIMBENCH_ITERATIONS"
	EnvLogFile    = "SIMBENCH_LOG_FILE"
	EnvWorkers    = "SIMBENCH_WORKERS"
	EnvExecutor   = "SIMBENCH_EXECUTOR"
	EnvStrict     = "SIMBENCH_STRICT"
	EnvOffheap    = "SIMBENCH_OFFHEAP"
	EnvLogLevel   = "SIMBENCH_LOG_LEVEL"
	EnvLogFormat  = "SIMBENCH_LOG_FORMAT"
)

// ApplyEnv overrides fields from SIMBENCH_* variables. Unparseable values are ignored.
func (c *Config) ApplyEnv() *Config {
	c.Iterations = getEnvInt(EnvIterations, c.Iterations)
	c.LogFile = getEnvStr(EnvLogFile, c.LogFile)
	c.Workers = getEnvInt(EnvWorkers, c.Workers)
	c.Executor = getEnvStr(EnvExecutor, c.Executor)
	c.Strict = getEnvBool(EnvStrict, c.Strict)
	c.Offheap = getEnvBool(EnvOffheap, c.Offheap)
	c.Log.Level = getEnvStr(EnvLogLevel, c.Log.Level)
	c.Log.Format = getEnvStr(EnvLogFormat, c.Log.Format)
	return c
}

func getEnvStr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultVal
}
