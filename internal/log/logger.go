// Package log provides the process-wide structured logger.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file
const (
	DefaultFileName   = "ytfetch.log"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// Config captures options for configuring the global logger.
type Config struct {
	Level    string    // optional log level ("debug", "info", etc.)
	Output   io.Writer // console writer (defaults to os.Stderr)
	Dir      string    // directory of the rotating log file, empty disables it
	FileName string    // log file name inside Dir (defaults to DefaultFileName)
	Service  string    // optional service name attached to every log entry
}

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stderr).With().Timestamp().Logger()
	file *lumberjack.Logger
)

// Configure replaces the global logger. Calling it again closes the previous log file.
func Configure(cfg Config) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}}

	var rotating *lumberjack.Logger
	if cfg.Dir != "" {
		name := cfg.FileName
		if name == "" {
			name = DefaultFileName
		}
		rotating = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, name),
			MaxSize:    DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAge:     DefaultMaxAgeDays,
			LocalTime:  true,
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: rotating, NoColor: true, TimeFormat: time.DateTime})
	}

	service := cfg.Service
	if service == "" {
		service = "ytfetch"
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Str("service", service).
		Logger()

	mu.Lock()
	prev := file
	base = logger
	file = rotating
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

// Close flushes and closes the rotating log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

// Printer adapts a zerolog logger to Println/Printf style logger interfaces
// that third-party SDKs accept.
type Printer struct {
	logger zerolog.Logger
}

// NewPrinter returns a Printer that writes debug entries for the given component.
func NewPrinter(component string) *Printer {
	return &Printer{logger: WithComponent(component)}
}

// Println logs the operands joined by spaces.
func (p *Printer) Println(v ...interface{}) {
	p.logger.Debug().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Printf logs a formatted message.
func (p *Printer) Printf(format string, v ...interface{}) {
	p.logger.Debug().Msgf(format, v...)
}
