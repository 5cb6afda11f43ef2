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

package fixes

import (
	"context"
	"fmt"

	"bennypowers.dev/tsincr/syntax"
	"bennypowers.dev/tsincr/textchanges"
)

// RemoveDeclaration deletes the unused declaration whose name is at pos.
// Declarations whose name is still referenced in file are left alone and
// reported as ErrNoFix.
func (f *Fixer) RemoveDeclaration(ctx context.Context, file *syntax.File, pos int) ([]textchanges.FileTextChanges, error) {
	decl, name, ok := declarationAt(file, pos)
	if !ok {
		return nil, fmt.Errorf("%w: no declaration at %s:%d", ErrNoFix, file.Path(), pos)
	}
	if err := checkpoint(ctx, "after locating declaration"); err != nil {
		return nil, err
	}

	if n := countReferences(file, name); n > 0 {
		return nil, fmt.Errorf("%w: %s is referenced %d times", ErrNoFix, name.Text(), n)
	}
	if err := checkpoint(ctx, "after reference search"); err != nil {
		return nil, err
	}

	tracker := textchanges.New(f.settings)
	tracker.Delete(decl)
	f.logger.Debug("removing %s %s from %s", decl.Kind(), name.Text(), file.Path())
	return tracker.GetChanges(), nil
}

func isName(k syntax.Kind) bool {
	switch k {
	case syntax.KindIdentifier, syntax.KindTypeIdentifier,
		syntax.KindShorthandPropertyIdentifier, syntax.KindShorthandPropertyIdentifierPattern:
		return true
	}
	return false
}

// declarationAt finds the declaration introducing the name at pos, and the
// name node itself.
func declarationAt(file *syntax.File, pos int) (decl, name syntax.Node, ok bool) {
	name = file.NodeAt(pos)
	if !isName(name.Kind()) {
		return syntax.Node{}, syntax.Node{}, false
	}
	p := name.Parent()
	field := name.Field()
	switch p.Kind() {
	case syntax.KindVariableDeclarator, syntax.KindFunctionDeclaration,
		syntax.KindGeneratorFunctionDeclaration, syntax.KindClassDeclaration,
		syntax.KindAbstractClassDeclaration, syntax.KindTypeParameter:
		if field == "name" {
			return p, name, true
		}
	case syntax.KindRequiredParameter, syntax.KindOptionalParameter:
		if field == "pattern" {
			return p, name, true
		}
	case syntax.KindArrowFunction, syntax.KindCatchClause:
		if field == "parameter" {
			return name, name, true
		}
	case syntax.KindForInStatement:
		if field == "left" {
			return name, name, true
		}
	case syntax.KindImportSpecifier:
		if alias := p.ChildByField("alias"); !alias.Valid() || alias == name {
			return p, name, true
		}
	case syntax.KindNamespaceImport:
		return p, name, true
	case syntax.KindImportClause, syntax.KindArrayPattern, syntax.KindObjectPattern:
		return name, name, true
	}
	return syntax.Node{}, syntax.Node{}, false
}

// countReferences counts the other names in file spelled like name. The
// search ignores scopes, so shadowed names keep a declaration alive.
func countReferences(file *syntax.File, name syntax.Node) int {
	text := name.Text()
	count := 0
	var walk func(n syntax.Node)
	walk = func(n syntax.Node) {
		if n != name && isName(n.Kind()) && n.Text() == text {
			count++
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(file.Root())
	return count
}
