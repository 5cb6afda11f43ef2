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

// Package cli holds what the tsincr commands share: opening the project
// named by the root flags and building their logger.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/internal/logging"
	"bennypowers.dev/tsincr/project"
)

// Logger logs warnings to w, and debug traces too with --verbose.
func Logger(w io.Writer) *logging.SlogLogger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return logging.New(w, level)
}

// OpenProject opens the project governing the --project directory.
func OpenProject(osfs fs.FileSystem, logger logging.Logger) (*project.Project, error) {
	dir, err := filepath.Abs(viper.GetString("project"))
	if err != nil {
		return nil, fmt.Errorf("invalid project directory: %w", err)
	}
	p, err := project.Open(osfs, filepath.ToSlash(dir))
	if err != nil {
		return nil, err
	}
	return p.WithLogger(logger), nil
}

// AbsPath makes a command-line file argument absolute and slash-separated.
func AbsPath(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", name, err)
	}
	return filepath.ToSlash(abs), nil
}
