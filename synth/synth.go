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

// Package synth builds synthetic syntax nodes that have no position in any
// source file. Edits carry them as payload until they are printed.
package synth

import (
	"strings"

	"bennypowers.dev/tsincr/internal/debug"
	"bennypowers.dev/tsincr/syntax"
)

// NodeID addresses a node inside its Factory.
type NodeID int32

// NoNode marks an empty slot.
const NoNode NodeID = -1

type node struct {
	kind      syntax.Kind
	parent    NodeID
	children  []NodeID
	text      string
	multiline bool
}

// Factory owns an arena of synthetic nodes. Nodes are never mutated once
// created; a node may be adopted by at most one parent.
type Factory struct {
	nodes []node
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Node is a handle to a synthetic node. The zero Node is "no node".
type Node struct {
	f  *Factory
	id NodeID
}

func (n Node) data() *node { return &n.f.nodes[n.id] }

// Valid reports whether n refers to a node.
func (n Node) Valid() bool { return n.f != nil && n.id != NoNode }

// ID returns n's arena index.
func (n Node) ID() NodeID { return n.id }

// Factory returns the arena n lives in.
func (n Node) Factory() *Factory { return n.f }

// Kind returns the node kind.
func (n Node) Kind() syntax.Kind { return n.data().kind }

// Text returns the literal text of leaves: identifier names, quoted
// literals, tokens and copied source.
func (n Node) Text() string { return n.data().text }

// Multiline reports whether a list node prints one element per line.
func (n Node) Multiline() bool { return n.data().multiline }

// Parent returns the adopting node, or the zero Node.
func (n Node) Parent() Node {
	p := n.data().parent
	if p == NoNode {
		return Node{}
	}
	return Node{n.f, p}
}

// Children returns n's slots in order. Empty slots are zero Nodes.
func (n Node) Children() []Node {
	ids := n.data().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		if id != NoNode {
			out[i] = Node{n.f, id}
		}
	}
	return out
}

// Child returns slot i.
func (n Node) Child(i int) Node {
	ids := n.data().children
	if i >= len(ids) || ids[i] == NoNode {
		return Node{}
	}
	return Node{n.f, ids[i]}
}

func (f *Factory) add(kind syntax.Kind, text string, children ...Node) Node {
	id := NodeID(len(f.nodes))
	ids := make([]NodeID, len(children))
	for i, c := range children {
		if !c.Valid() {
			ids[i] = NoNode
			continue
		}
		debug.Assert(c.f == f, "synthetic node from another factory")
		cd := c.data()
		debug.Assert(cd.parent == NoNode, "synthetic %s already has a parent", cd.kind)
		cd.parent = id
		ids[i] = c.id
	}
	f.nodes = append(f.nodes, node{kind: kind, parent: NoNode, children: ids, text: text})
	return Node{f, id}
}

func (f *Factory) list(kind syntax.Kind, multiline bool, elems []Node) Node {
	n := f.add(kind, "", elems...)
	n.data().multiline = multiline
	return n
}

// Identifier creates a name.
func (f *Factory) Identifier(name string) Node {
	return f.add(syntax.KindIdentifier, name)
}

// TypeReference creates a named type.
func (f *Factory) TypeReference(name string) Node {
	return f.add(syntax.KindTypeIdentifier, name)
}

// Keyword creates a keyword token such as `null` or `this`.
func (f *Factory) Keyword(word string) Node {
	return f.add(syntax.KindKeyword, word)
}

// Token creates a punctuation token.
func (f *Factory) Token(text string) Node {
	switch text {
	case ",":
		return f.add(syntax.KindComma, text)
	case ";":
		return f.add(syntax.KindSemicolon, text)
	}
	return f.add(syntax.KindPunctuation, text)
}

// StringLiteral creates a string literal quoted with quote, ' or ".
func (f *Factory) StringLiteral(value string, quote byte) Node {
	debug.Assert(quote == '\'' || quote == '"', "bad quote %q", quote)
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case quote, '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return f.add(syntax.KindString, b.String())
}

// NumericLiteral creates a number from its source text.
func (f *Factory) NumericLiteral(text string) Node {
	return f.add(syntax.KindNumber, text)
}

// Copy creates a node printing exactly the source of n. Lines after the
// first are re-based from the indentation of n's first line.
func (f *Factory) Copy(n syntax.Node) Node {
	file := n.File()
	text := n.Text()
	base := syntax.IndentationOfLine(file.Text(), file.LineStartOf(n.Pos()), 1)
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = trimIndent(lines[i], base)
	}
	return f.add(n.Kind(), strings.Join(lines, "\n"))
}

func trimIndent(line string, width int) string {
	i := 0
	for i < len(line) && i < width && syntax.IsWhiteSpaceSingleLine(line[i]) {
		i++
	}
	return line[i:]
}

// ObjectLiteral creates `{ a, b }`.
func (f *Factory) ObjectLiteral(props []Node, multiline bool) Node {
	return f.list(syntax.KindObject, multiline, props)
}

// ArrayLiteral creates `[a, b]`.
func (f *Factory) ArrayLiteral(elems []Node, multiline bool) Node {
	return f.list(syntax.KindArray, multiline, elems)
}

// PropertyAssignment creates `name: value`.
func (f *Factory) PropertyAssignment(name, value Node) Node {
	return f.add(syntax.KindPair, "", name, value)
}

// ObjectBindingPattern creates `{ a, b }` in binding position.
func (f *Factory) ObjectBindingPattern(elems []Node) Node {
	return f.list(syntax.KindObjectPattern, false, elems)
}

// Call creates `callee(args)`.
func (f *Factory) Call(callee Node, args ...Node) Node {
	return f.add(syntax.KindCallExpression, "", callee, f.list(syntax.KindArguments, false, args))
}

// PropertyAccess creates `object.name`.
func (f *Factory) PropertyAccess(object Node, name string) Node {
	return f.add(syntax.KindMemberExpression, "", object, f.add(syntax.KindPropertyIdentifier, name))
}

// Parameter creates `name: type`. typ may be the zero Node.
func (f *Factory) Parameter(name, typ Node) Node {
	return f.add(syntax.KindRequiredParameter, "", name, typ)
}

// ParameterList creates `(a, b)`.
func (f *Factory) ParameterList(params ...Node) Node {
	return f.list(syntax.KindFormalParameters, false, params)
}

// Arrow creates `(params) => body`.
func (f *Factory) Arrow(params []Node, body Node) Node {
	return f.add(syntax.KindArrowFunction, "", f.ParameterList(params...), body)
}

// Block creates a braced statement list.
func (f *Factory) Block(stmts ...Node) Node {
	return f.list(syntax.KindStatementBlock, true, stmts)
}

// Return creates `return expr;`. expr may be the zero Node.
func (f *Factory) Return(expr Node) Node {
	return f.add(syntax.KindReturnStatement, "", expr)
}

// ExpressionStatement creates `expr;`.
func (f *Factory) ExpressionStatement(expr Node) Node {
	return f.add(syntax.KindExpressionStatement, "", expr)
}

// VariableStatement creates `keyword name: typ = init;`. typ and init may be
// zero Nodes.
func (f *Factory) VariableStatement(keyword string, name, typ, init Node) Node {
	decl := f.add(syntax.KindVariableDeclarator, "", name, typ, init)
	return f.add(syntax.KindLexicalDeclaration, keyword, decl)
}

// ImportSpecifier creates `name` or `name as alias`.
func (f *Factory) ImportSpecifier(name, alias Node) Node {
	return f.add(syntax.KindImportSpecifier, "", name, alias)
}

// NamedImports creates `{ a, b as c }`.
func (f *Factory) NamedImports(specs ...Node) Node {
	return f.list(syntax.KindNamedImports, false, specs)
}

// ImportDeclaration creates `import def, { named } from module;`. def and
// named may be zero Nodes; with both empty a side-effect import is made.
func (f *Factory) ImportDeclaration(def, named, module Node) Node {
	return f.add(syntax.KindImportStatement, "", def, named, module)
}

// PropertyDeclaration creates a class field `name: typ = init;`.
func (f *Factory) PropertyDeclaration(name, typ, init Node) Node {
	return f.add(syntax.KindPublicFieldDefinition, "", name, typ, init)
}

// PropertySignature creates an interface member `name: typ;`.
func (f *Factory) PropertySignature(name, typ Node) Node {
	return f.add(syntax.KindPropertySignature, "", name, typ)
}

// MethodDeclaration creates `name(params) { body }`.
func (f *Factory) MethodDeclaration(name Node, params []Node, body Node) Node {
	return f.add(syntax.KindMethodDefinition, "", name, f.ParameterList(params...), body)
}

// FunctionDeclaration creates `function name(params) { body }`.
func (f *Factory) FunctionDeclaration(name Node, params []Node, body Node) Node {
	return f.add(syntax.KindFunctionDeclaration, "", name, f.ParameterList(params...), body)
}
