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

package syntax

import "sort"

func computeLineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineOf(lineStarts []int, pos int) int {
	return sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > pos
	}) - 1
}

// LineOf returns the zero-based line containing pos.
func (f *File) LineOf(pos int) int {
	return lineOf(f.lineStarts, pos)
}

// LineStart returns the offset of the first byte of line.
func (f *File) LineStart(line int) int {
	if line >= len(f.lineStarts) {
		return len(f.text)
	}
	return f.lineStarts[line]
}

// LineCount returns the number of lines.
func (f *File) LineCount() int { return len(f.lineStarts) }

// LineStartOf returns the start of the line containing pos.
func (f *File) LineStartOf(pos int) int {
	return f.lineStarts[f.LineOf(pos)]
}

// LineEndOf returns the offset of the line break ending the line containing
// pos, or the end of the text.
func (f *File) LineEndOf(pos int) int {
	line := f.LineOf(pos)
	if line+1 >= len(f.lineStarts) {
		return len(f.text)
	}
	end := f.lineStarts[line+1] - 1
	if end > 0 && f.text[end] == '\n' && f.text[end-1] == '\r' {
		end--
	}
	return end
}

// LineAndCharacter converts an offset into a zero-based line and byte column.
func (f *File) LineAndCharacter(pos int) (line, character int) {
	line = f.LineOf(pos)
	return line, pos - f.lineStarts[line]
}

// IsLineStart reports whether pos is preceded only by whitespace on its line.
func (f *File) IsLineStart(pos int) bool {
	start := f.LineStartOf(pos)
	for i := start; i < pos; i++ {
		if !IsWhiteSpaceSingleLine(f.text[i]) {
			return false
		}
	}
	return true
}

// Indentation returns the leading whitespace width of the line containing
// pos, counting tabs as tabSize columns.
func (f *File) Indentation(pos int, tabSize int) int {
	return IndentationOfLine(f.text, f.LineStartOf(pos), tabSize)
}

// IndentationOfLine measures the leading whitespace starting at lineStart.
func IndentationOfLine(text string, lineStart int, tabSize int) int {
	col := 0
	for i := lineStart; i < len(text); i++ {
		switch text[i] {
		case ' ':
			col++
		case '\t':
			if tabSize > 0 {
				col += tabSize - col%tabSize
			} else {
				col++
			}
		default:
			return col
		}
	}
	return col
}
