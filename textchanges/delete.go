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
	"slices"

	"bennypowers.dev/tsincr/internal/debug"
	"bennypowers.dev/tsincr/syntax"
)

type deletion int

const (
	deleteNodeOnly deletion = iota
	deleteArrowParameter
	deleteParameter
	deleteImport
	deleteBindingElement
	deleteVariable
	deleteCatchParameter
	deleteForInLeft
	deleteTypeParameter
	deleteImportSpecifier
	deleteNamespaceImport
	deleteFunctionOrClass
	deleteDefaultImport
	deleteListElement
)

func deletionOf(n syntax.Node) deletion {
	p := n.Parent()
	switch {
	case n.Kind() == syntax.KindIdentifier && n.Field() == "parameter" && p.Kind() == syntax.KindArrowFunction:
		return deleteArrowParameter
	case n.Field() == "parameter" && p.Kind() == syntax.KindCatchClause:
		return deleteCatchParameter
	case n.Field() == "left" && p.Kind() == syntax.KindForInStatement:
		return deleteForInLeft
	case isParameter(n.Kind()):
		return deleteParameter
	case n.Kind() == syntax.KindImportStatement:
		return deleteImport
	case p.Kind() == syntax.KindArrayPattern, p.Kind() == syntax.KindObjectPattern:
		return deleteBindingElement
	case n.Kind() == syntax.KindVariableDeclarator:
		return deleteVariable
	case n.Kind() == syntax.KindTypeParameter:
		return deleteTypeParameter
	case n.Kind() == syntax.KindImportSpecifier:
		return deleteImportSpecifier
	case n.Kind() == syntax.KindNamespaceImport:
		return deleteNamespaceImport
	case n.Kind() == syntax.KindFunctionDeclaration, n.Kind() == syntax.KindGeneratorFunctionDeclaration,
		n.Kind().IsClassLike() && n.Kind() != syntax.KindClass:
		return deleteFunctionOrClass
	case n.Kind() == syntax.KindIdentifier && p.Kind() == syntax.KindImportClause:
		return deleteDefaultImport
	case isCommaList(p.Kind()) && n.ContainingList() == p:
		return deleteListElement
	}
	return deleteNodeOnly
}

// isCommaList reports whether k separates its elements with commas and has
// no deletion rule of its own.
func isCommaList(k syntax.Kind) bool {
	switch k {
	case syntax.KindArguments, syntax.KindArray, syntax.KindObject,
		syntax.KindExportClause, syntax.KindEnumBody, syntax.KindTypeArguments:
		return true
	}
	return false
}

// finishDeleteDeclarations runs the deletions scheduled with Delete. A node
// inside another deleted node is skipped.
func (t *Tracker) finishDeleteDeclarations() {
	inLists := &listDeletions{set: make(map[syntax.Node]bool)}
	for _, n := range t.deleted {
		if slices.ContainsFunc(t.deleted, func(d syntax.Node) bool { return contains(d, n) }) {
			continue
		}
		t.deleteDeclaration(inLists, n)
	}

	for _, n := range inLists.order {
		list := n.ContainingList().ListElements()
		if len(list) == 0 || list[len(list)-1] != n {
			continue
		}
		for i := len(list) - 2; i >= 0; i-- {
			if inLists.set[list[i]] {
				continue
			}
			t.DeleteRange(n.File(), syntax.TextRange{
				Pos: list[i].End(),
				End: startToDeleteInList(list[i+1]),
			})
			break
		}
	}
}

// contains reports whether d encloses n and is not n itself.
func contains(d, n syntax.Node) bool {
	if d == n || d.File() != n.File() || !d.Range().ContainsRange(n.Range()) {
		return false
	}
	if d.Range() != n.Range() {
		return true
	}
	return n.Ancestor(func(a syntax.Node) bool { return a == d }).Valid()
}

type listDeletions struct {
	set   map[syntax.Node]bool
	order []syntax.Node
}

func (t *Tracker) deleteDeclaration(inLists *listDeletions, n syntax.Node) {
	switch d := deletionOf(n); d {
	case deleteArrowParameter:
		t.ReplaceNodeWithText(n, "()")
	case deleteParameter, deleteTypeParameter, deleteBindingElement, deleteListElement:
		t.deleteNodeInList(inLists, n)
	case deleteImport:
		t.deleteImportStatement(n)
	case deleteVariable:
		t.deleteVariableDeclarator(inLists, n)
	case deleteCatchParameter:
		clause := n.Parent()
		t.DeleteNodeRange(clause.ChildOfKind(syntax.KindOpenParen), clause.ChildOfKind(syntax.KindCloseParen), ConfigurableStartEnd{})
	case deleteForInLeft:
		t.ReplaceNode(n, t.factory.ObjectLiteral(nil, false), ChangeNodeOptions{})
	case deleteImportSpecifier:
		named := n.Parent()
		if len(named.ListElements()) == 1 {
			t.deleteImportBinding(named)
		} else {
			t.deleteNodeInList(inLists, n)
		}
	case deleteNamespaceImport:
		t.deleteImportBinding(n)
	case deleteFunctionOrClass:
		t.deleteStatement(n)
	case deleteDefaultImport:
		t.deleteDefaultImport(n)
	case deleteNodeOnly:
		t.DeleteNode(n, ConfigurableStartEnd{})
	default:
		debug.AssertNever(d, "deletion")
	}
}

// deleteStatement removes a declaration statement together with an export
// wrapping it, from the start of its line or its doc comment.
func (t *Tracker) deleteStatement(n syntax.Node) {
	if p := n.Parent(); p.Kind() == syntax.KindExportStatement {
		n = p
	}
	opt := LeadingTriviaStartLine
	if _, ok := jsDocBefore(n); ok {
		opt = LeadingTriviaJSDoc
	}
	t.DeleteNode(n, ConfigurableStartEnd{LeadingTrivia: opt})
}

func (t *Tracker) deleteImportStatement(n syntax.Node) {
	for _, s := range n.File().Statements() {
		if s.Kind() == syntax.KindImportStatement {
			if s == n {
				t.DeleteNode(n, ConfigurableStartEnd{LeadingTrivia: LeadingTriviaExclude})
				return
			}
			break
		}
	}
	t.deleteStatement(n)
}

func (t *Tracker) deleteVariableDeclarator(inLists *listDeletions, n syntax.Node) {
	decl := n.Parent()
	if len(decl.ListElements()) != 1 {
		t.deleteNodeInList(inLists, n)
		return
	}
	if decl.Parent().Kind() == syntax.KindForStatement {
		t.ReplaceNodeWithText(decl, ";")
		return
	}
	t.deleteStatement(decl)
}

// deleteImportBinding removes named imports or a namespace import, keeping
// a default import when there is one.
func (t *Tracker) deleteImportBinding(n syntax.Node) {
	clause := n.Parent()
	if def := clause.ChildOfKind(syntax.KindIdentifier); def.Valid() {
		comma := n.File().PrecedingToken(n.Pos())
		t.DeleteRange(n.File(), syntax.TextRange{Pos: comma.Pos(), End: n.End()})
		return
	}
	t.deleteImportStatement(clause.AncestorOfKind(syntax.KindImportStatement))
}

func (t *Tracker) deleteDefaultImport(name syntax.Node) {
	clause := name.Parent()
	if len(clause.NamedChildren()) == 1 {
		t.deleteImportStatement(clause.Parent())
		return
	}
	file := name.File()
	if next := file.NextToken(name.End()); next.Kind() == syntax.KindComma {
		end := syntax.SkipTrivia(file.Text(), next.End(), syntax.TriviaOptions{StopAtComments: true})
		t.DeleteRange(file, syntax.TextRange{Pos: name.Pos(), End: end})
		return
	}
	t.DeleteNode(name, ConfigurableStartEnd{})
}

// deleteNodeInList removes one element of a separated list along with the
// separator that belongs to it. The separator before a deleted last element
// is removed in finishDeleteDeclarations, once all deletions are known.
func (t *Tracker) deleteNodeInList(inLists *listDeletions, n syntax.Node) {
	list := n.ContainingList().ListElements()
	index := slices.Index(list, n)
	debug.Assert(index >= 0, "%s is not in its list", n.Kind())
	if len(list) == 1 {
		t.DeleteNode(n, ConfigurableStartEnd{})
		return
	}
	debug.Assert(!inLists.set[n], "deleting a node twice")
	inLists.set[n] = true
	inLists.order = append(inLists.order, n)

	end := AdjustedEnd(n, TrailingTriviaDefault)
	if index != len(list)-1 {
		var prev syntax.Node
		if index > 0 {
			prev = list[index-1]
		}
		end = endToDeleteInList(n, prev, list[index+1])
	}
	t.DeleteRange(n.File(), syntax.TextRange{Pos: startToDeleteInList(n), End: end})
}

func startToDeleteInList(n syntax.Node) int {
	return syntax.SkipTrivia(n.File().Text(), AdjustedStart(n, LeadingTriviaIncludeAll), syntax.TriviaOptions{StopAtComments: true})
}

func endToDeleteInList(n, prev, next syntax.Node) int {
	file := n.File()
	text := file.Text()
	end := startToDeleteInList(next)
	if !prev.Valid() || onSameLine(file, AdjustedEnd(n, TrailingTriviaDefault), end) {
		return end
	}
	tok := file.PrecedingToken(next.Pos())
	if !tok.IsSeparator() {
		return end
	}
	prevTok := file.PrecedingToken(n.Pos())
	if !prevTok.IsSeparator() {
		return end
	}
	pos := syntax.SkipTrivia(text, tok.End(), syntax.TriviaOptions{StopAfterLineBreak: true, StopAtComments: true})
	if onSameLine(file, prevTok.Pos(), next.Pos()) {
		if pos > 0 && syntax.IsLineBreak(text[pos-1]) {
			return pos - 1
		}
		return pos
	}
	if pos < len(text) && syntax.IsLineBreak(text[pos]) {
		return pos
	}
	return end
}
