/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package logging provides the printf-style Logger used across tsincr and a
// slog-backed implementation of it.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Logger receives diagnostic messages. Implementations must be safe to call
// from a single goroutine; callers nil-check before use.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// New returns a Logger that writes text records to w at or above level.
func New(w io.Writer, level slog.Level) *SlogLogger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(handler)}
}

// FromSlog wraps an existing slog logger.
func FromSlog(l *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: l}
}

// With returns a logger that adds the given attributes to every record.
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

// Warning implements Logger.
func (l *SlogLogger) Warning(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

// Debug implements Logger.
func (l *SlogLogger) Debug(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}

func (l *SlogLogger) log(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}
	l.logger.Log(ctx, level, fmt.Sprintf(format, args...))
}

type nop struct{}

func (nop) Warning(string, ...any) {}
func (nop) Debug(string, ...any)   {}

// Nop discards everything.
var Nop Logger = nop{}

// Recorder keeps messages in memory. Tests use it to assert on traces.
type Recorder struct {
	Warnings []string
	Debugs   []string
}

// Warning implements Logger.
func (r *Recorder) Warning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Debug implements Logger.
func (r *Recorder) Debug(format string, args ...any) {
	r.Debugs = append(r.Debugs, fmt.Sprintf(format, args...))
}
