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

package textchanges

import (
	"fmt"
	"strings"

	"bennypowers.dev/tsincr/format"
	"bennypowers.dev/tsincr/internal/debug"
	"bennypowers.dev/tsincr/syntax"
	"bennypowers.dev/tsincr/synth"
)

func (t *Tracker) computeNewText(c Change) string {
	switch c := c.(type) {
	case Remove:
		return ""
	case ReplaceWithText:
		return c.Text
	case ReplaceWithSingleNode:
		text := t.formatNode(c.Node, c.File(), c.Range().Pos, c.Options)
		return t.decorate(text, c.Options)
	case ReplaceWithMultipleNodes:
		joiner := c.Options.Joiner
		if joiner == "" {
			joiner = t.newLine
		}
		parts := make([]string, len(c.Nodes))
		for i, n := range c.Nodes {
			parts[i] = t.formatNode(n, c.File(), c.Range().Pos, c.Options.InsertNodeOptions)
		}
		return t.decorate(strings.Join(parts, joiner), c.Options.InsertNodeOptions)
	default:
		debug.AssertNever(c, "change")
		return ""
	}
}

func (t *Tracker) decorate(text string, opts InsertNodeOptions) string {
	if opts.Suffix == "" || strings.HasSuffix(text, opts.Suffix) {
		return opts.Prefix + text
	}
	return opts.Prefix + text + opts.Suffix
}

// formatNode prints n and indents it for insertion at pos in file.
func (t *Tracker) formatNode(n synth.Node, file *syntax.File, pos int, opts InsertNodeOptions) string {
	pr := synth.Print(n, t.newLine)
	var initial int
	if opts.Indentation != nil {
		initial = *opts.Indentation
	} else {
		initial = format.InsertionIndent(file, pos, t.settings)
	}
	delta := 0
	if opts.Delta != nil {
		delta = *opts.Delta
	} else if format.ShouldIndentChildren(n.Kind()) {
		delta = t.settings.IndentSize
	}
	text := format.FormatPrinted(pr, initial, delta, t.settings)
	if opts.PreserveLeadingWhitespace || opts.Indentation != nil || file.LineStartOf(pos) == pos {
		return text
	}
	return strings.TrimLeft(text, " \t")
}

// GetNewFileText renders statements as the content of a new file: each is
// printed on its own line, the result is reparsed and reindented. A zero
// Node produces a blank line.
func GetNewFileText(fileName string, statements []synth.Node, settings format.Settings) (string, error) {
	settings = settings.WithDefaults()
	nl := settings.NewLineCharacter
	var b strings.Builder
	for _, s := range statements {
		if s.Valid() {
			b.WriteString(synth.Print(s, nl).Text)
		}
		b.WriteString(nl)
	}
	file, err := syntax.Parse(fileName, b.String())
	if err != nil {
		return "", fmt.Errorf("parsing new file %s: %w", fileName, err)
	}
	defer file.Close()
	return format.FormatDocument(file, settings), nil
}
