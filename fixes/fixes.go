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

// Package fixes implements code fixes on top of the change tracker. Each
// request builds its own tracker and returns the edits it produced.
package fixes

import (
	"context"
	"errors"
	"fmt"

	"bennypowers.dev/tsincr/format"
	"bennypowers.dev/tsincr/internal/logging"
	"bennypowers.dev/tsincr/resolution"
)

var (
	// ErrCancelled is returned when the request's context is done at a
	// checkpoint. It wraps the context's error.
	ErrCancelled = errors.New("request cancelled")
	// ErrNoFix is returned when nothing at the requested location can be
	// fixed.
	ErrNoFix = errors.New("no fix available")
)

// Fixer computes fixes with one set of format settings.
type Fixer struct {
	settings format.Settings
	logger   logging.Logger
	resolver resolution.Oracle
	options  *resolution.Options
}

// New returns a fixer that formats inserted code with settings.
func New(settings format.Settings) *Fixer {
	return &Fixer{settings: settings.WithDefaults(), logger: logging.Nop}
}

// WithLogger sets the logger and returns f.
func (f *Fixer) WithLogger(logger logging.Logger) *Fixer {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// WithResolver makes import fixes compare module names by the file they
// resolve to rather than by their text.
func (f *Fixer) WithResolver(resolver resolution.Oracle, opts *resolution.Options) *Fixer {
	f.resolver = resolver
	f.options = opts
	return f
}

// checkpoint polls ctx.
func checkpoint(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrCancelled, stage, err)
	}
	return nil
}
