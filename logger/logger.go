// Package logger writes structured diagnostics to a file. The terminal
// belongs to the TUI, so nothing here ever writes to stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu   sync.Mutex
	file *os.File
	std  = log.NewWithOptions(io.Discard, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           log.InfoLevel,
	})
)

// SetFile redirects log output to path, creating parent directories as needed.
func SetFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = f
	std.SetOutput(f)
	return nil
}

// SetOutput points the logger at an arbitrary writer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// SetLevel accepts debug, info, warn, error or fatal.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	std.SetLevel(lvl)
	return nil
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(io.Discard)
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func Debug(msg string, fields map[string]any) {
	std.Debug(msg, keyvals(fields)...)
}

func Info(msg string, fields map[string]any) {
	std.Info(msg, keyvals(fields)...)
}

func Warn(msg string, fields map[string]any) {
	std.Warn(msg, keyvals(fields)...)
}

func Error(msg string, fields map[string]any) {
	std.Error(msg, keyvals(fields)...)
}

// keyvals flattens fields in key order so log lines are stable.
func keyvals(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}
