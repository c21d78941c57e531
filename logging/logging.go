// Package logging configures slog for the hosts
// Debug output goes to a size-rotated file under logs/; without debug everything is discarded
// so a terminal viewer never has log lines drawn over it
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/moodrig/parameter"
)

// Options selects the sink and format
type Options struct {
	// Debug enables the file sink at debug level
	Debug bool
	// Stderr mirrors records to stderr, for headless hosts
	Stderr bool
	// JSON switches from text to JSON records
	JSON bool
	// Level is the minimum level when not in debug mode: debug, info, warn, error
	Level string

	Dir      string
	FileName string
	MaxSize  int64
}

// DefaultOptions returns the file layout from parameter with logging off
func DefaultOptions() Options {
	return Options{
		Level:    "info",
		Dir:      parameter.LogDir,
		FileName: parameter.LogFileName,
		MaxSize:  parameter.MaxLogSize,
	}
}

// ParseLevel maps a level name to slog, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the logger, installs it as the slog and log default and returns the opened file
// The file is nil when no file sink is active; the caller closes it on exit
func Setup(opts Options) (*slog.Logger, *os.File, error) {
	var (
		writers []io.Writer
		file    *os.File
	)

	level := ParseLevel(opts.Level)
	if opts.Debug {
		level = slog.LevelDebug

		f, err := openRotated(opts.Dir, opts.FileName, opts.MaxSize)
		if err != nil {
			return nil, nil, err
		}
		file = f
		writers = append(writers, f)
	}
	if opts.Stderr {
		writers = append(writers, os.Stderr)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	// Stray log.Printf from dependencies follows the same sink
	log.SetOutput(out)

	return logger, file, nil
}

// openRotated opens dir/name for append, renaming it aside first when larger than maxSize
func openRotated(dir, name string, maxSize int64) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if info, err := os.Stat(path); err == nil && maxSize > 0 && info.Size() > maxSize {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		rotated := filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), ext))
		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
