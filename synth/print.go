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

package synth

import (
	"strings"

	"bennypowers.dev/tsincr/internal/debug"
	"bennypowers.dev/tsincr/syntax"
)

// Printed is the result of printing one synthetic node.
type Printed struct {
	// Text carries no indentation. Line i belongs at nesting depth
	// Levels[i] relative to the first line.
	Text   string
	Levels []int
	// Positions maps every printed node to the offsets it occupies in Text.
	// Pos is the end of the last token written before the node, so leading
	// whitespace belongs to the node and ranges never decrease.
	Positions map[NodeID]syntax.TextRange

	root Node
}

// Range returns the printed range of n.
func (p Printed) Range(n Node) (syntax.TextRange, bool) {
	r, ok := p.Positions[n.id]
	return r, ok
}

// Enclosing returns the innermost printed node whose first token starts
// before offset and which ends after it, or the zero Node.
func (p Printed) Enclosing(offset int) Node {
	var (
		best   NodeID = NoNode
		bestSz int
	)
	for id, r := range p.Positions {
		start := r.Pos
		for start < r.End && isSpace(p.Text[start]) {
			start++
		}
		if offset <= start || offset >= r.End {
			continue
		}
		if sz := r.End - start; best == NoNode || sz < bestSz || (sz == bestSz && id < best) {
			best, bestSz = id, sz
		}
	}
	if best == NoNode {
		return Node{}
	}
	return Node{f: p.root.f, id: best}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Lines splits Text on the line terminator it was printed with.
func (p Printed) Lines(newLine string) []string {
	return strings.Split(p.Text, newLine)
}

type printer struct {
	b             strings.Builder
	newLine       string
	level         int
	levels        []int
	lastNonTrivia int
	positions     map[NodeID]syntax.TextRange
}

// Print renders n using newLine as the line terminator.
func Print(n Node, newLine string) Printed {
	if newLine == "" {
		newLine = "\n"
	}
	p := &printer{newLine: newLine, levels: []int{0}, positions: make(map[NodeID]syntax.TextRange)}
	p.emit(n)
	return Printed{Text: p.b.String(), Levels: p.levels, Positions: p.positions, root: n}
}

func (p *printer) write(s string) {
	p.b.WriteString(s)
	p.lastNonTrivia = p.b.Len()
}

func (p *printer) space() { p.b.WriteByte(' ') }

func (p *printer) newline() {
	p.b.WriteString(p.newLine)
	p.levels = append(p.levels, p.level)
}

func (p *printer) emit(n Node) {
	if !n.Valid() {
		return
	}
	start := p.lastNonTrivia
	p.emitNode(n)
	p.positions[n.id] = syntax.TextRange{Pos: start, End: p.lastNonTrivia}
}

func (p *printer) emitVerbatim(text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.newline()
		}
		p.write(strings.TrimSuffix(line, "\r"))
	}
}

func (p *printer) emitList(elems []Node, open, close string, multiline, spaced bool) {
	p.write(open)
	if len(elems) == 0 {
		p.write(close)
		return
	}
	if multiline {
		p.level++
		for i, e := range elems {
			p.newline()
			p.emit(e)
			if i < len(elems)-1 {
				p.write(",")
			}
		}
		p.level--
		p.newline()
		p.write(close)
		return
	}
	if spaced {
		p.space()
	}
	for i, e := range elems {
		if i > 0 {
			p.write(",")
			p.space()
		}
		p.emit(e)
	}
	if spaced {
		p.space()
	}
	p.write(close)
}

func (p *printer) emitTyped(name, typ, init Node) {
	p.emit(name)
	if typ.Valid() {
		p.write(":")
		p.space()
		p.emit(typ)
	}
	if init.Valid() {
		p.space()
		p.write("=")
		p.space()
		p.emit(init)
	}
}

func (p *printer) emitNode(n Node) {
	d := n.data()
	if len(d.children) == 0 && d.text != "" {
		p.emitVerbatim(d.text)
		return
	}
	c := n.Children()
	switch d.kind {
	case syntax.KindObject, syntax.KindObjectPattern, syntax.KindNamedImports:
		p.emitList(c, "{", "}", d.multiline, true)
	case syntax.KindArray:
		p.emitList(c, "[", "]", d.multiline, false)
	case syntax.KindArguments, syntax.KindFormalParameters:
		p.emitList(c, "(", ")", d.multiline, false)
	case syntax.KindPair:
		p.emit(c[0])
		p.write(":")
		p.space()
		p.emit(c[1])
	case syntax.KindCallExpression:
		p.emit(c[0])
		p.emit(c[1])
	case syntax.KindMemberExpression:
		p.emit(c[0])
		p.write(".")
		p.emit(c[1])
	case syntax.KindRequiredParameter:
		p.emitTyped(c[0], c[1], Node{})
	case syntax.KindArrowFunction:
		p.emit(c[0])
		p.space()
		p.write("=>")
		p.space()
		p.emit(c[1])
	case syntax.KindStatementBlock:
		p.write("{")
		if len(c) == 0 {
			p.write("}")
			return
		}
		p.level++
		for _, s := range c {
			p.newline()
			p.emit(s)
		}
		p.level--
		p.newline()
		p.write("}")
	case syntax.KindReturnStatement:
		p.write("return")
		if c[0].Valid() {
			p.space()
			p.emit(c[0])
		}
		p.write(";")
	case syntax.KindExpressionStatement:
		p.emit(c[0])
		p.write(";")
	case syntax.KindLexicalDeclaration:
		p.write(d.text)
		p.space()
		p.emit(c[0])
		p.write(";")
	case syntax.KindVariableDeclarator:
		p.emitTyped(c[0], c[1], c[2])
	case syntax.KindImportSpecifier:
		p.emit(c[0])
		if c[1].Valid() {
			p.write(" as ")
			p.emit(c[1])
		}
	case syntax.KindImportStatement:
		p.write("import")
		p.space()
		def, named := c[0], c[1]
		p.emit(def)
		if def.Valid() && named.Valid() {
			p.write(",")
			p.space()
		}
		p.emit(named)
		if def.Valid() || named.Valid() {
			p.space()
			p.write("from")
			p.space()
		}
		p.emit(c[2])
		p.write(";")
	case syntax.KindPublicFieldDefinition:
		p.emitTyped(c[0], c[1], c[2])
		p.write(";")
	case syntax.KindPropertySignature:
		p.emitTyped(c[0], c[1], Node{})
		p.write(";")
	case syntax.KindMethodDefinition:
		p.emit(c[0])
		p.emit(c[1])
		p.space()
		p.emit(c[2])
	case syntax.KindFunctionDeclaration:
		p.write("function")
		p.space()
		p.emit(c[0])
		p.emit(c[1])
		p.space()
		p.emit(c[2])
	default:
		debug.Fail("cannot print synthetic %s", d.kind)
	}
}
