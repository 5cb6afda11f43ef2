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

// Package format computes indentation for inserted text and reindents whole
// files.
package format

import (
	"strings"

	"bennypowers.dev/tsincr/syntax"
	"bennypowers.dev/tsincr/synth"
)

// Settings mirror the editor's formatting options.
type Settings struct {
	IndentSize          int    `mapstructure:"indentSize" json:"indentSize" yaml:"indentSize"`
	TabSize             int    `mapstructure:"tabSize" json:"tabSize" yaml:"tabSize"`
	ConvertTabsToSpaces bool   `mapstructure:"convertTabsToSpaces" json:"convertTabsToSpaces" yaml:"convertTabsToSpaces"`
	NewLineCharacter    string `mapstructure:"newLineCharacter" json:"newLineCharacter" yaml:"newLineCharacter"`
}

// DefaultSettings returns four-space indentation with LF line endings.
func DefaultSettings() Settings {
	return Settings{IndentSize: 4, TabSize: 4, ConvertTabsToSpaces: true, NewLineCharacter: "\n"}
}

// WithDefaults fills zero fields from DefaultSettings. A zero Settings
// means spaces; tabs must be asked for with a non-zero TabSize.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s == (Settings{}) {
		return d
	}
	if s.IndentSize <= 0 {
		s.IndentSize = d.IndentSize
	}
	if s.TabSize <= 0 {
		s.TabSize = d.TabSize
	}
	if s.NewLineCharacter == "" {
		s.NewLineCharacter = d.NewLineCharacter
	}
	return s
}

// IndentString renders an indentation of column columns.
func (s Settings) IndentString(column int) string {
	if column <= 0 {
		return ""
	}
	if s.ConvertTabsToSpaces || s.TabSize <= 0 {
		return strings.Repeat(" ", column)
	}
	return strings.Repeat("\t", column/s.TabSize) + strings.Repeat(" ", column%s.TabSize)
}

// isContainer reports whether the children of k sit one level deeper than
// the line k starts on.
func isContainer(k syntax.Kind) bool {
	switch k {
	case syntax.KindStatementBlock, syntax.KindClassBody, syntax.KindObject,
		syntax.KindObjectPattern, syntax.KindObjectType, syntax.KindInterfaceBody,
		syntax.KindEnumBody, syntax.KindSwitchBody, syntax.KindSwitchCase,
		syntax.KindSwitchDefault, syntax.KindNamedImports, syntax.KindExportClause,
		syntax.KindArguments, syntax.KindFormalParameters, syntax.KindArray,
		syntax.KindArrayPattern, syntax.KindTypeParameters, syntax.KindTypeArguments:
		return true
	}
	return false
}

// ShouldIndentChildren reports whether lines nested in a printed node of
// kind k are indented past its first line.
func ShouldIndentChildren(k syntax.Kind) bool {
	switch k {
	case syntax.KindProgram, syntax.KindString, syntax.KindTemplateString, syntax.KindComment:
		return false
	}
	return true
}

// LineIndentation returns the indentation of the line containing pos.
func LineIndentation(file *syntax.File, pos int, s Settings) int {
	return file.Indentation(pos, s.WithDefaults().TabSize)
}

// InsertionIndent returns the indentation for text inserted at pos. Text
// inserted at the start of a line takes that line's indentation unless the
// line is blank or opens with a closing bracket; otherwise the indentation
// comes from SmartIndent.
func InsertionIndent(file *syntax.File, pos int, s Settings) int {
	if file.LineStartOf(pos) == pos {
		tok := file.NextToken(pos)
		if tok.Valid() && file.LineStartOf(tok.Pos()) == pos && !tok.IsCloseToken() {
			return LineIndentation(file, pos, s)
		}
	}
	return SmartIndent(file, pos, s)
}

// SmartIndent returns the indentation a new line inserted at pos should
// get, judged from the token before pos. Inside a container the indentation
// of an element that starts its own line wins over IndentSize.
func SmartIndent(file *syntax.File, pos int, s Settings) int {
	s = s.WithDefaults()
	prev := file.PrecedingToken(pos)
	if !prev.Valid() {
		return 0
	}
	n := prev.Parent()
	if prev.IsCloseToken() && n.Valid() {
		n = n.Parent()
	}
	for ; n.Valid(); n = n.Parent() {
		if isContainer(n.Kind()) {
			if el := elementOnOwnLine(file, n, pos); el.Valid() {
				return file.Indentation(el.Pos(), s.TabSize)
			}
			return file.Indentation(n.Pos(), s.TabSize) + s.IndentSize
		}
	}
	return 0
}

// elementOnOwnLine returns the last child of container before pos that
// starts its own line, or failing that the first such child after pos.
func elementOnOwnLine(file *syntax.File, container syntax.Node, pos int) syntax.Node {
	text := file.Text()
	first := file.LineOf(container.Pos())
	var found syntax.Node
	for _, c := range container.NamedChildren() {
		start := file.LineStartOf(c.Pos())
		if file.LineOf(c.Pos()) == first || strings.TrimLeft(text[start:c.Pos()], " \t") != "" {
			continue
		}
		if c.Pos() >= pos {
			if !found.Valid() {
				found = c
			}
			break
		}
		found = c
	}
	return found
}

// Depth returns the nesting level of the line starting with the token or
// comment at pos. Containers opened on one line count once.
func Depth(file *syntax.File, pos int) int {
	line := file.LineOf(pos)
	seen := make(map[int]bool)
	var p syntax.Node
	if tok := file.NextToken(pos); tok.Valid() && tok.Pos() == pos {
		p = tok.Parent()
		if tok.IsCloseToken() && p.Valid() {
			seen[file.LineOf(p.Pos())] = true
			p = p.Parent()
		}
	} else {
		p = file.NodeAt(pos)
	}
	depth := 0
	for ; p.Valid(); p = p.Parent() {
		if !isContainer(p.Kind()) {
			continue
		}
		l := file.LineOf(p.Pos())
		if l >= line || seen[l] {
			continue
		}
		seen[l] = true
		depth++
	}
	return depth
}

// FormatPrinted indents a printed node. The first line gets initial
// columns; a line at nesting level n > 0 gets initial + delta plus n-1 more
// indent steps. Lines that begin inside a printed string, template or
// comment are left as printed.
func FormatPrinted(pr synth.Printed, initial, delta int, s Settings) string {
	s = s.WithDefaults()
	lines := pr.Lines(s.NewLineCharacter)
	offset := 0
	for i, line := range lines {
		start := offset
		offset += len(line) + len(s.NewLineCharacter)
		if line == "" {
			continue
		}
		if i > 0 {
			if n := pr.Enclosing(start); n.Valid() && !ShouldIndentChildren(n.Kind()) {
				continue
			}
		}
		col := initial
		if i < len(pr.Levels) && pr.Levels[i] > 0 {
			col += delta + (pr.Levels[i]-1)*s.IndentSize
		}
		lines[i] = s.IndentString(col) + line
	}
	return strings.Join(lines, s.NewLineCharacter)
}

// FormatDocument reindents every line of file from its tree and strips
// trailing whitespace. Lines that start inside a comment or a multi-line
// literal are kept as they are.
func FormatDocument(file *syntax.File, s Settings) string {
	s = s.WithDefaults()
	text := file.Text()
	var b strings.Builder
	b.Grow(len(text))
	for line := 0; line < file.LineCount(); line++ {
		start := file.LineStart(line)
		if start >= len(text) && line > 0 {
			break
		}
		end := file.LineEndOf(start)
		brk := text[end:file.LineStart(line+1)]
		content := text[start:end]
		if startsInside(file, start) {
			b.WriteString(content)
			b.WriteString(brk)
			continue
		}
		body := strings.TrimLeft(content, " \t")
		trimmed := strings.TrimRight(body, " \t")
		if trimmed != "" {
			first := start + len(content) - len(body)
			b.WriteString(s.IndentString(Depth(file, first) * s.IndentSize))
			b.WriteString(trimmed)
		}
		b.WriteString(brk)
	}
	return b.String()
}

func startsInside(file *syntax.File, pos int) bool {
	for _, c := range file.Comments() {
		if c.Pos < pos && pos < c.End {
			return true
		}
	}
	tok := file.TokenAt(pos)
	return tok.Valid() && tok.Pos() < pos
}
