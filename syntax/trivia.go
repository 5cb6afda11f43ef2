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

// IsWhiteSpaceSingleLine reports whether c is whitespace other than a line break.
func IsWhiteSpaceSingleLine(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

// IsLineBreak reports whether c ends a line.
func IsLineBreak(c byte) bool {
	return c == '\n' || c == '\r'
}

// TriviaOptions controls SkipTrivia.
type TriviaOptions struct {
	// StopAfterLineBreak stops right after the first line break.
	StopAfterLineBreak bool
	// StopAtComments treats comments as non-trivia.
	StopAtComments bool
}

// SkipTrivia returns the first offset at or after pos that is not whitespace
// or a comment.
func SkipTrivia(text string, pos int, opts TriviaOptions) int {
	for pos < len(text) {
		c := text[pos]
		switch {
		case c == '\r':
			if pos+1 < len(text) && text[pos+1] == '\n' {
				pos++
			}
			pos++
			if opts.StopAfterLineBreak {
				return pos
			}
		case c == '\n':
			pos++
			if opts.StopAfterLineBreak {
				return pos
			}
		case IsWhiteSpaceSingleLine(c):
			pos++
		case c == '/' && pos+1 < len(text) && !opts.StopAtComments:
			switch text[pos+1] {
			case '/':
				pos += 2
				for pos < len(text) && !IsLineBreak(text[pos]) {
					pos++
				}
			case '*':
				pos += 2
				for pos < len(text) {
					if text[pos] == '*' && pos+1 < len(text) && text[pos+1] == '/' {
						pos += 2
						break
					}
					pos++
				}
			default:
				return pos
			}
		default:
			return pos
		}
	}
	return pos
}

// SkipWhitespace skips whitespace, line breaks included.
func SkipWhitespace(text string, pos int) int {
	for pos < len(text) && (IsWhiteSpaceSingleLine(text[pos]) || IsLineBreak(text[pos])) {
		pos++
	}
	return pos
}

// SkipWhitespaceBackward moves pos left over single-line whitespace.
func SkipWhitespaceBackward(text string, pos int) int {
	for pos > 0 && IsWhiteSpaceSingleLine(text[pos-1]) {
		pos--
	}
	return pos
}

// HasLineBreak reports whether text[pos:end] contains a line break.
func HasLineBreak(text string, pos, end int) bool {
	for i := pos; i < end && i < len(text); i++ {
		if IsLineBreak(text[i]) {
			return true
		}
	}
	return false
}
