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

// Package output renders command reports for the tsincr CLI.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/program"
	"bennypowers.dev/tsincr/project"
)

// Format names a report encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be 'text', 'json' or 'yaml'", s)
}

// Report summarizes one program build.
type Report struct {
	Program     string               `json:"program" yaml:"program"`
	Reuse       string               `json:"reuse" yaml:"reuse"`
	Rebuilt     bool                 `json:"rebuilt" yaml:"rebuilt"`
	Files       []string             `json:"files" yaml:"files"`
	Missing     []string             `json:"missing,omitempty" yaml:"missing,omitempty"`
	Changed     []string             `json:"changed,omitempty" yaml:"changed,omitempty"`
	Redirects   map[string]string    `json:"redirects,omitempty" yaml:"redirects,omitempty"`
	Diagnostics []program.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// NewReport describes b.
func NewReport(b project.Build) Report {
	p := b.Program
	r := Report{
		Program:     p.ID(),
		Reuse:       p.ReuseState().String(),
		Rebuilt:     b.Rebuilt,
		Files:       p.FilePaths(),
		Missing:     p.MissingFilePaths(),
		Changed:     b.Changed,
		Diagnostics: p.AllDiagnostics(),
	}
	if redirects := p.Redirects(); len(redirects) > 0 {
		r.Redirects = redirects
	}
	return r
}

// String renders the report for a terminal: one line per diagnostic and a
// summary.
func (r Report) String() string {
	var sb strings.Builder
	for _, d := range r.Diagnostics {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%d files, %d missing, %d errors (reuse: %s)", len(r.Files), len(r.Missing), len(r.Diagnostics), r.Reuse)
	if len(r.Changed) > 0 {
		fmt.Fprintf(&sb, ", changed: %s", strings.Join(r.Changed, ", "))
	}
	return sb.String()
}

// Render encodes v. Text uses v's String method when it has one.
func Render(v any, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(v, "", "  ")
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	default:
		if s, ok := v.(fmt.Stringer); ok {
			return []byte(s.String()), nil
		}
		return []byte(fmt.Sprint(v)), nil
	}
}

// Write renders v and writes it to the file named by viper's "output" key,
// or to w when none is set.
func Write(osfs fs.FileSystem, w io.Writer, v any, f Format) error {
	data, err := Render(v, f)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", f, err)
	}
	data = append(data, '\n')
	if outputPath := viper.GetString("output"); outputPath != "" {
		return osfs.WriteFile(outputPath, data, 0644)
	}
	_, err = w.Write(data)
	return err
}
