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

// Node is a handle to one node of a File. The zero Node is "no node".
type Node struct {
	file *File
	id   NodeID
}

func (n Node) data() *arenaNode { return &n.file.nodes[n.id] }

// Valid reports whether n refers to a node.
func (n Node) Valid() bool { return n.file != nil }

// File returns the tree n belongs to.
func (n Node) File() *File { return n.file }

// ID returns n's arena index.
func (n Node) ID() NodeID { return n.id }

// Kind returns the node kind.
func (n Node) Kind() Kind {
	if n.file == nil {
		return KindUnknown
	}
	return n.data().kind
}

// Type returns the raw grammar type name.
func (n Node) Type() string { return n.data().typ }

// Field returns the name of the field n occupies in its parent, if any.
func (n Node) Field() string { return n.data().field }

// IsNamed reports whether n is a named grammar node rather than a token.
func (n Node) IsNamed() bool { return n.data().named }

// Pos returns the start of the first token of n, excluding leading trivia.
func (n Node) Pos() int { return n.data().pos }

// End returns the end offset of n.
func (n Node) End() int { return n.data().end }

// Range returns [Pos, End).
func (n Node) Range() TextRange { return TextRange{n.Pos(), n.End()} }

// FullStart returns the start of n including its leading trivia: the end of
// the token preceding n, or 0.
func (n Node) FullStart() int {
	prev := n.file.PrecedingToken(n.Pos())
	if !prev.Valid() {
		return 0
	}
	return prev.End()
}

// Text returns the source text of [Pos, End).
func (n Node) Text() string { return n.file.text[n.Pos():n.End()] }

// Parent returns the enclosing node, or the zero Node for the root.
func (n Node) Parent() Node {
	p := n.data().parent
	if p == NoNode {
		return Node{}
	}
	return Node{n.file, p}
}

// IndexInParent returns n's position among its parent's children.
func (n Node) IndexInParent() int { return n.data().index }

// ChildCount returns the number of children, tokens included.
func (n Node) ChildCount() int { return len(n.data().children) }

// Child returns the i-th child, tokens included.
func (n Node) Child(i int) Node {
	c := n.data().children
	if i < 0 || i >= len(c) {
		return Node{}
	}
	return Node{n.file, c[i]}
}

// Children returns all children, tokens included, comments excluded.
func (n Node) Children() []Node {
	ids := n.data().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{n.file, id}
	}
	return out
}

// NamedChildren returns the children that are named grammar nodes.
func (n Node) NamedChildren() []Node {
	var out []Node
	for _, id := range n.data().children {
		if n.file.nodes[id].named {
			out = append(out, Node{n.file, id})
		}
	}
	return out
}

// ChildByField returns the first child in the named field.
func (n Node) ChildByField(field string) Node {
	for _, id := range n.data().children {
		if n.file.nodes[id].field == field {
			return Node{n.file, id}
		}
	}
	return Node{}
}

// ChildOfKind returns the first child of kind k.
func (n Node) ChildOfKind(k Kind) Node {
	for _, id := range n.data().children {
		if n.file.nodes[id].kind == k {
			return Node{n.file, id}
		}
	}
	return Node{}
}

// FirstChild returns the first child, or the zero Node.
func (n Node) FirstChild() Node { return n.Child(0) }

// LastChild returns the last child, or the zero Node.
func (n Node) LastChild() Node { return n.Child(n.ChildCount() - 1) }

// NextSibling returns the child of n's parent following n.
func (n Node) NextSibling() Node {
	p := n.Parent()
	if !p.Valid() {
		return Node{}
	}
	return p.Child(n.IndexInParent() + 1)
}

// PrevSibling returns the child of n's parent preceding n.
func (n Node) PrevSibling() Node {
	p := n.Parent()
	if !p.Valid() {
		return Node{}
	}
	return p.Child(n.IndexInParent() - 1)
}

// Ancestor returns the closest ancestor (n included) for which match is true.
func (n Node) Ancestor(match func(Node) bool) Node {
	for cur := n; cur.Valid(); cur = cur.Parent() {
		if match(cur) {
			return cur
		}
	}
	return Node{}
}

// AncestorOfKind returns the closest ancestor (n included) of one of kinds.
func (n Node) AncestorOfKind(kinds ...Kind) Node {
	return n.Ancestor(func(c Node) bool {
		for _, k := range kinds {
			if c.Kind() == k {
				return true
			}
		}
		return false
	})
}

// FirstToken returns the first token within n.
func (n Node) FirstToken() Node {
	cur := n
	for cur.ChildCount() > 0 {
		cur = cur.FirstChild()
	}
	return cur
}

// LastToken returns the last token within n.
func (n Node) LastToken() Node {
	cur := n
	for cur.ChildCount() > 0 {
		cur = cur.LastChild()
	}
	return cur
}

// ContainingList returns the list node holding n as an element, or the zero
// Node when n's parent is not a separated list.
func (n Node) ContainingList() Node {
	p := n.Parent()
	if !p.Valid() || !n.IsNamed() {
		return Node{}
	}
	if p.Kind().IsList() || p.Kind() == KindLexicalDeclaration || p.Kind() == KindVariableDeclaration {
		return p
	}
	return Node{}
}

// ListElements returns the elements of a list node, separators and brackets
// excluded.
func (n Node) ListElements() []Node {
	var out []Node
	for _, c := range n.NamedChildren() {
		if n.Kind() == KindLexicalDeclaration || n.Kind() == KindVariableDeclaration {
			if c.Kind() != KindVariableDeclarator {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// IsSeparator reports whether n is a list separator of its parent: a comma,
// or a semicolon inside a type literal or interface body.
func (n Node) IsSeparator() bool {
	switch n.Kind() {
	case KindComma:
		return true
	case KindSemicolon:
		pk := n.Parent().Kind()
		return pk == KindObjectType || pk == KindInterfaceBody
	}
	return false
}

// SeparatorAfter returns the separator token directly following element n in
// its list, or the zero Node.
func (n Node) SeparatorAfter() Node {
	next := n.NextSibling()
	if next.Valid() && next.IsSeparator() {
		return next
	}
	return Node{}
}

// IsCloseToken reports whether n is a closing bracket token.
func (n Node) IsCloseToken() bool {
	switch n.Kind() {
	case KindCloseBrace, KindCloseBracket, KindCloseParen, KindGreaterThan:
		return true
	}
	return false
}

// IsOpenToken reports whether n is an opening bracket token.
func (n Node) IsOpenToken() bool {
	switch n.Kind() {
	case KindOpenBrace, KindOpenBracket, KindOpenParen, KindLessThan:
		return true
	}
	return false
}
