// Package logging builds the harness zap logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the diagnostic log. Filename, when set, receives a JSON copy of every
// entry and is rotated by size.
type Config struct {
	Level      string `yaml:"level" toml:"level"`
	Format     string `yaml:"format" toml:"format"`
	Filename   string `yaml:"filename" toml:"filename"`
	MaxSize    int    `yaml:"max-size" toml:"max-size"`
	MaxDays    int    `yaml:"max-days" toml:"max-days"`
	MaxBackups int    `yaml:"max-backups" toml:"max-backups"`
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:      zapcore.InfoLevel.String(),
		Format:     "console",
		MaxSize:    64,
		MaxDays:    7,
		MaxBackups: 3,
	}
}

func (c *Config) level() (zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	if c.Level == "" {
		return level, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return level, fmt.Errorf("logging: level %q: %w", c.Level, err)
	}
	return level, nil
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	return ec
}

func (c *Config) encoder() (zapcore.Encoder, error) {
	switch strings.ToLower(c.Format) {
	case "", "console":
		ec := encoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(ec), nil
	case "json":
		return zapcore.NewJSONEncoder(encoderConfig()), nil
	}
	return nil, fmt.Errorf("logging: unknown format %q", c.Format)
}

// Validate checks the level and format.
func (c *Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	_, err := c.encoder()
	return err
}

// New builds a logger writing to w (stderr when nil) and to the rotated file if one is
// configured.
func New(c Config, w io.Writer) (*zap.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	enc, err := c.encoder()
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level)}
	if c.Filename != "" {
		file := &lumberjack.Logger{
			Filename:   c.Filename,
			MaxSize:    c.MaxSize,
			MaxAge:     c.MaxDays,
			MaxBackups: c.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(file), level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel)), nil
}
