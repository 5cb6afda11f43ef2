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
	"strings"

	"bennypowers.dev/tsincr/syntax"
)

// LeadingTriviaOption selects where a node-bounded edit starts.
type LeadingTriviaOption int

const (
	// LeadingTriviaDefault starts at the node when its trivia shares the
	// line with the previous token, and otherwise at the first non-blank
	// line after that token.
	LeadingTriviaDefault LeadingTriviaOption = iota
	// LeadingTriviaExclude starts at the node's first token.
	LeadingTriviaExclude
	// LeadingTriviaIncludeAll starts at the end of the previous token when
	// both are on one line.
	LeadingTriviaIncludeAll
	// LeadingTriviaJSDoc starts at the line of a /** */ comment attached
	// to the node.
	LeadingTriviaJSDoc
	// LeadingTriviaStartLine starts at the beginning of the node's line.
	LeadingTriviaStartLine
)

// TrailingTriviaOption selects where a node-bounded edit ends.
type TrailingTriviaOption int

const (
	// TrailingTriviaDefault extends through same-line trivia and one line
	// break, but only when a line break is reached. Expressions end at
	// their last token.
	TrailingTriviaDefault TrailingTriviaOption = iota
	// TrailingTriviaExclude ends at the node's last token.
	TrailingTriviaExclude
	// TrailingTriviaExcludeWhitespace ends after trailing same-line
	// comments.
	TrailingTriviaExcludeWhitespace
	// TrailingTriviaInclude always extends through same-line trivia.
	TrailingTriviaInclude
)

// ConfigurableStartEnd picks both ends of a node-bounded edit.
type ConfigurableStartEnd struct {
	LeadingTrivia  LeadingTriviaOption
	TrailingTrivia TrailingTriviaOption
}

var useNonAdjustedPositions = ConfigurableStartEnd{LeadingTriviaExclude, TrailingTriviaExclude}

// InsertNodeOptions shape the text produced for a synthetic node.
type InsertNodeOptions struct {
	// Prefix is written before the node's text.
	Prefix string
	// Suffix is written after it unless the text already ends with it.
	Suffix string
	// Indentation overrides the indentation of the first line.
	Indentation *int
	// Delta overrides the extra indentation of nested lines.
	Delta *int
	// PreserveLeadingWhitespace keeps indentation for mid-line insertions.
	PreserveLeadingWhitespace bool
}

// Indent returns a pointer for InsertNodeOptions' integer fields.
func Indent(n int) *int { return &n }

// ChangeNodeOptions configure a replacement of an existing node.
type ChangeNodeOptions struct {
	ConfigurableStartEnd
	InsertNodeOptions
}

// MultipleNodesOptions configure edits that print several nodes.
type MultipleNodesOptions struct {
	InsertNodeOptions
	// Joiner separates printed nodes. It defaults to the line terminator.
	Joiner string
}

// AdjustedStart returns where an edit of node begins under opt.
func AdjustedStart(node syntax.Node, opt LeadingTriviaOption) int {
	file := node.File()
	start := node.Pos()
	switch opt {
	case LeadingTriviaExclude:
		return start
	case LeadingTriviaStartLine:
		if pos := file.LineStartOf(start); pos >= node.FullStart() {
			return pos
		}
		return start
	case LeadingTriviaJSDoc:
		if doc, ok := jsDocBefore(node); ok {
			return file.LineStartOf(doc.Pos)
		}
	}

	fullStart := node.FullStart()
	if fullStart == start {
		return start
	}
	if file.LineOf(fullStart) == file.LineOf(start) {
		if opt == LeadingTriviaIncludeAll {
			return fullStart
		}
		return start
	}
	line := file.LineOf(fullStart)
	if fullStart > 0 {
		line++
	}
	adjusted := syntax.SkipWhitespace(file.Text(), file.LineStart(line))
	return file.LineStartOf(adjusted)
}

// jsDocBefore finds the last /** */ comment between node and the token
// preceding it.
func jsDocBefore(node syntax.Node) (syntax.TextRange, bool) {
	file := node.File()
	text := file.Text()
	var doc syntax.TextRange
	found := false
	for _, c := range file.Comments() {
		if c.Pos < node.FullStart() {
			continue
		}
		if c.End > node.Pos() {
			break
		}
		if strings.HasPrefix(text[c.Pos:], "/**") && !strings.HasPrefix(text[c.Pos:], "/**/") {
			doc, found = c, true
		}
	}
	return doc, found
}

// AdjustedEnd returns where an edit of node ends under opt.
func AdjustedEnd(node syntax.Node, opt TrailingTriviaOption) int {
	text := node.File().Text()
	end := node.End()
	switch opt {
	case TrailingTriviaExclude:
		return end
	case TrailingTriviaExcludeWhitespace:
		return trailingCommentsEnd(text, end)
	case TrailingTriviaDefault:
		if node.Kind().IsExpression() {
			return end
		}
	}
	newEnd := syntax.SkipTrivia(text, end, syntax.TriviaOptions{StopAfterLineBreak: true})
	if newEnd != end && (opt == TrailingTriviaInclude || syntax.IsLineBreak(text[newEnd-1])) {
		return newEnd
	}
	return end
}

// trailingCommentsEnd returns the end of the comments following pos on its
// line, or pos when there are none.
func trailingCommentsEnd(text string, pos int) int {
	result := pos
	for p := pos; p < len(text); {
		for p < len(text) && syntax.IsWhiteSpaceSingleLine(text[p]) {
			p++
		}
		if p+1 >= len(text) || text[p] != '/' || (text[p+1] != '/' && text[p+1] != '*') {
			break
		}
		next := syntax.SkipTrivia(text, p, syntax.TriviaOptions{StopAfterLineBreak: true})
		for next > p && (syntax.IsLineBreak(text[next-1]) || syntax.IsWhiteSpaceSingleLine(text[next-1])) {
			next--
		}
		if next <= p {
			break
		}
		result, p = next, next
		if syntax.HasLineBreak(text, pos, p) {
			break
		}
	}
	return result
}

// hasCommentsBeforeLineBreak reports whether a comment follows pos before
// the end of its line.
func hasCommentsBeforeLineBreak(text string, pos int) bool {
	for ; pos < len(text); pos++ {
		c := text[pos]
		if syntax.IsWhiteSpaceSingleLine(c) {
			continue
		}
		return c == '/' && pos+1 < len(text) && (text[pos+1] == '/' || text[pos+1] == '*')
	}
	return false
}

func nodeRange(node syntax.Node, opts ConfigurableStartEnd) syntax.TextRange {
	return syntax.TextRange{Pos: AdjustedStart(node, opts.LeadingTrivia), End: AdjustedEnd(node, opts.TrailingTrivia)}
}

func onSameLine(file *syntax.File, a, b int) bool {
	return file.LineOf(a) == file.LineOf(b)
}
