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

import (
	"sort"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// NodeID addresses a node inside its File's arena.
type NodeID int32

// NoNode is the parent of the root.
const NoNode NodeID = -1

// TextRange is a half-open byte range [Pos, End).
type TextRange struct {
	Pos int
	End int
}

// Len returns the width of the range.
func (r TextRange) Len() int { return r.End - r.Pos }

// Contains reports whether pos lies in [Pos, End).
func (r TextRange) Contains(pos int) bool { return pos >= r.Pos && pos < r.End }

// ContainsRange reports whether o lies within r.
func (r TextRange) ContainsRange(o TextRange) bool { return o.Pos >= r.Pos && o.End <= r.End }

type arenaNode struct {
	kind     Kind
	typ      string
	field    string
	pos      int
	end      int
	parent   NodeID
	index    int
	children []NodeID
	named    bool
}

// File is an immutable positioned syntax tree. Nodes live in an arena and refer
// to each other by index; handles of type Node are cheap values.
type File struct {
	path       string
	text       string
	dialect    Dialect
	nodes      []arenaNode
	tokens     []NodeID
	comments   []TextRange
	lineStarts []int
	hasError   bool
	tree       *ts.Tree
}

func newFile(path, text string, dialect Dialect) *File {
	return &File{
		path:       path,
		text:       text,
		dialect:    dialect,
		lineStarts: computeLineStarts(text),
	}
}

func (f *File) build(root *ts.Node) {
	f.hasError = root.HasError()
	cursor := root.Walk()
	defer cursor.Close()

	parents := []NodeID{NoNode}
	for {
		n := cursor.Node()
		parent := parents[len(parents)-1]
		descend := false
		if n.IsExtra() && n.Kind() == "comment" {
			f.comments = append(f.comments, TextRange{int(n.StartByte()), int(n.EndByte())})
		} else {
			id := f.add(n, cursor.FieldName(), parent)
			if cursor.GotoFirstChild() {
				parents = append(parents, id)
				descend = true
			}
		}
		if descend {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return
			}
			parents = parents[:len(parents)-1]
		}
	}
}

func (f *File) add(n *ts.Node, field string, parent NodeID) NodeID {
	id := NodeID(len(f.nodes))
	an := arenaNode{
		typ:    n.Kind(),
		field:  field,
		pos:    int(n.StartByte()),
		end:    int(n.EndByte()),
		parent: parent,
		named:  n.IsNamed(),
	}
	an.kind = kindOf(an.typ, an.named)
	if parent != NoNode {
		p := &f.nodes[parent]
		an.index = len(p.children)
		p.children = append(p.children, id)
	}
	f.nodes = append(f.nodes, an)
	if n.ChildCount() == 0 && an.end > an.pos {
		f.tokens = append(f.tokens, id)
	}
	return id
}

// Path returns the file name the tree was parsed for.
func (f *File) Path() string { return f.path }

// Text returns the full source text.
func (f *File) Text() string { return f.text }

// Dialect returns the grammar the file was parsed with.
func (f *File) Dialect() Dialect { return f.dialect }

// HasParseError reports whether the parser recovered from syntax errors.
func (f *File) HasParseError() bool { return f.hasError }

// Root returns the program node.
func (f *File) Root() Node {
	if len(f.nodes) == 0 {
		return Node{}
	}
	return Node{f, 0}
}

// Node returns the handle for id.
func (f *File) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(f.nodes) {
		return Node{}
	}
	return Node{f, id}
}

// Statements returns the top-level statements.
func (f *File) Statements() []Node {
	return f.Root().NamedChildren()
}

// Comments returns the ranges of all comments, in order.
func (f *File) Comments() []TextRange { return f.comments }

// tokenIndexAfter returns the index of the first token starting at or after pos.
func (f *File) tokenIndexAfter(pos int) int {
	return sort.Search(len(f.tokens), func(i int) bool {
		return f.nodes[f.tokens[i]].pos >= pos
	})
}

// PrecedingToken returns the last token that ends at or before pos.
func (f *File) PrecedingToken(pos int) Node {
	i := sort.Search(len(f.tokens), func(i int) bool {
		return f.nodes[f.tokens[i]].end > pos
	})
	if i == 0 {
		return Node{}
	}
	return Node{f, f.tokens[i-1]}
}

// NextToken returns the first token starting at or after pos.
func (f *File) NextToken(pos int) Node {
	i := f.tokenIndexAfter(pos)
	if i == len(f.tokens) {
		return Node{}
	}
	return Node{f, f.tokens[i]}
}

// TokenAt returns the token whose range contains pos.
func (f *File) TokenAt(pos int) Node {
	i := sort.Search(len(f.tokens), func(i int) bool {
		return f.nodes[f.tokens[i]].end > pos
	})
	if i < len(f.tokens) && f.nodes[f.tokens[i]].pos <= pos {
		return Node{f, f.tokens[i]}
	}
	return Node{}
}

// NodeAt returns the innermost named node whose range contains pos.
func (f *File) NodeAt(pos int) Node {
	cur := f.Root()
	if !cur.Valid() {
		return cur
	}
	for {
		next := Node{}
		for _, c := range cur.NamedChildren() {
			if c.Pos() <= pos && pos < c.End() {
				next = c
				break
			}
		}
		if !next.Valid() {
			return cur
		}
		cur = next
	}
}

// NodeCovering returns the innermost named node whose range is exactly r, or
// the innermost one containing it.
func (f *File) NodeCovering(r TextRange) Node {
	cur := f.Root()
	for cur.Valid() {
		next := Node{}
		for _, c := range cur.NamedChildren() {
			if c.Pos() <= r.Pos && r.End <= c.End() {
				next = c
				break
			}
		}
		if !next.Valid() {
			return cur
		}
		cur = next
	}
	return cur
}
