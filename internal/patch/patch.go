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

// Package patch renders file edits as unified diffs.
package patch

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// Unified returns the unified diff turning before into after, with git-style
// a/ and b/ prefixes. A new file diffs against /dev/null. Equal texts give
// an empty string.
func Unified(name, before, after string, isNew bool) (string, error) {
	if before == after {
		return "", nil
	}
	from := "a/" + strings.TrimPrefix(name, "/")
	if isNew {
		from = "/dev/null"
	}
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: from,
		ToFile:   "b/" + strings.TrimPrefix(name, "/"),
		Context:  3,
	}
	if before == "" {
		u.A = nil
	}
	out, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", name, err)
	}
	return out, nil
}

// Stats counts what a multi-file patch touches.
type Stats struct {
	Files   int
	Added   int
	Removed int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d files changed, +%d -%d", s.Files, s.Added, s.Removed)
}

// Summarize parses a unified diff and counts its lines.
func Summarize(p string) (Stats, error) {
	fds, err := diff.NewMultiFileDiffReader(strings.NewReader(p)).ReadAllFiles()
	if err != nil {
		return Stats{}, fmt.Errorf("parsing patch: %w", err)
	}
	s := Stats{Files: len(fds)}
	for _, fd := range fds {
		for _, h := range fd.Hunks {
			for line := range strings.SplitSeq(string(h.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					s.Added++
				case strings.HasPrefix(line, "-"):
					s.Removed++
				}
			}
		}
	}
	return s, nil
}

var (
	added   = color.New(color.FgGreen)
	removed = color.New(color.FgRed)
	hunk    = color.New(color.FgCyan)
	header  = color.New(color.Bold)
)

// Colorize colors the lines of a unified diff. It is a no-op when
// color.NoColor is set.
func Colorize(p string) string {
	if color.NoColor {
		return p
	}
	var sb strings.Builder
	for line := range strings.Lines(p) {
		text, nl := strings.CutSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			sb.WriteString(header.Sprint(text))
		case strings.HasPrefix(text, "@@"):
			sb.WriteString(hunk.Sprint(text))
		case strings.HasPrefix(text, "+"):
			sb.WriteString(added.Sprint(text))
		case strings.HasPrefix(text, "-"):
			sb.WriteString(removed.Sprint(text))
		default:
			sb.WriteString(text)
		}
		if nl {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
