// Package logger builds the process-wide log sink: JSON entries appended to combined.log (all levels) and error.log
// (errors only) in the configured log directory plus a colourised console stream.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// File names created inside the log directory.
const (
	CombinedFile = "combined.log"
	ErrorFile    = "error.log"
)

// Sink owns the log files opened by New.
type Sink struct {
	files []*os.File
}

// Close closes the log files.
func (s *Sink) Close() error {
	var first error
	for _, f := range s.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// levelFilter only lets through entries at or above min.
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (l levelFilter) Write(p []byte) (int, error) {
	return l.w.Write(p)
}

func (l levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < l.min {
		return len(p), nil
	}
	return l.w.Write(p)
}

// New returns a logger writing to dir/combined.log, dir/error.log and console. Timestamps are shown at utcOffset hours
// from UTC. An unknown level falls back to info.
func New(level, dir string, utcOffset int, console io.Writer) (zerolog.Logger, *Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("cannot create log dir %s: %w", dir, err)
	}

	sink := &Sink{}

	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file %s: %w", name, err)
		}
		sink.files = append(sink.files, f)
		return f, nil
	}

	combined, err := open(CombinedFile)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	errs, err := open(ErrorFile)
	if err != nil {
		_ = sink.Close()
		return zerolog.Nop(), nil, err
	}

	writers := []io.Writer{
		zerolog.SyncWriter(combined),
		levelFilter{w: zerolog.SyncWriter(errs), min: zerolog.ErrorLevel},
	}
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339})
	}

	return build(level, utcOffset, zerolog.MultiLevelWriter(writers...)), sink, nil
}

// zone stamps each entry with the current time in a fixed zone.
type zone struct {
	loc *time.Location
}

func (z zone) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Time(zerolog.TimestampFieldName, time.Now().In(z.loc))
}

func build(level string, utcOffset int, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	loc := time.FixedZone(fmt.Sprintf("UTC%+d", utcOffset), utcOffset*3600)

	return zerolog.New(w).Hook(zone{loc: loc}).Level(lvl)
}
