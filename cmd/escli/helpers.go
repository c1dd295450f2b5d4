package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	client "github.com/hsn0918/escli-client"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 5
	logFileMaxAgeDays = 30
)

func buildClient(endpoint client.Endpoint, opts *cliOptions) client.Client {
	return client.NewClient(endpoint,
		client.WithTimeout(opts.timeout),
		client.WithLogger(opts.logger),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// setupLogger writes diagnostics to stderr, or to a rotating JSON log file when
// a log file is configured.
func setupLogger(stderr io.Writer, opts *cliOptions) *slog.Logger {
	level := parseLevel(opts.logLevel)
	if opts.logFile == "" {
		return newLogger(stderr, level)
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.logFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	}
	opts.closers = append(opts.closers, rotating)

	return slog.New(slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: level}))
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}

// stylesEnabled reports whether output may carry terminal styling.
func stylesEnabled(w io.Writer, opts *cliOptions) bool {
	if opts.noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func headerStyle(styled bool) lipgloss.Style {
	if !styled {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true)
}

func printOut(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
