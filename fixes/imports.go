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

	"bennypowers.dev/tsincr/internal/debug"
	"bennypowers.dev/tsincr/syntax"
	"bennypowers.dev/tsincr/synth"
	"bennypowers.dev/tsincr/textchanges"
)

type importDecl struct {
	stmt   syntax.Node
	source syntax.Node
	clause syntax.Node
}

func (d importDecl) module() string {
	text := d.source.Text()
	return text[1 : len(text)-1]
}

// AddNamedImport makes name importable from module in file, extending an
// existing import of the same module when there is one.
func (f *Fixer) AddNamedImport(ctx context.Context, file *syntax.File, module, name string) ([]textchanges.FileTextChanges, error) {
	imports := importsOf(file)
	if err := checkpoint(ctx, "after collecting imports"); err != nil {
		return nil, err
	}

	target := f.resolve(module, file.Path())
	var match *importDecl
	for i := range imports {
		if imports[i].clause.Valid() && f.resolve(imports[i].module(), file.Path()) == target {
			match = &imports[i]
			break
		}
	}
	if err := checkpoint(ctx, "after resolving module"); err != nil {
		return nil, err
	}

	tracker := textchanges.New(f.settings)
	fac := tracker.Factory()
	spec := fac.ImportSpecifier(fac.Identifier(name), synth.Node{})

	if match != nil {
		if named := match.clause.ChildOfKind(syntax.KindNamedImports); named.Valid() {
			specs := named.ListElements()
			for _, s := range specs {
				if s.ChildByField("alias").Valid() {
					continue
				}
				if s.ChildByField("name").Text() == name {
					return nil, fmt.Errorf("%w: %s is already imported from %s", ErrNoFix, name, module)
				}
			}
			if len(specs) == 0 {
				tracker.ReplaceNode(named, fac.NamedImports(spec), textchanges.ChangeNodeOptions{})
			} else {
				tracker.InsertNodeInListAfter(specs[len(specs)-1], spec)
			}
			return tracker.GetChanges(), nil
		}
		if match.clause.ChildOfKind(syntax.KindNamespaceImport).Valid() {
			match = nil
		} else {
			def := match.clause.ChildOfKind(syntax.KindIdentifier)
			debug.Assert(def.Valid(), "import clause without bindings")
			tracker.InsertNodeAt(file, def.End(), fac.NamedImports(spec), textchanges.InsertNodeOptions{Prefix: ", "})
			return tracker.GetChanges(), nil
		}
	}

	quote := byte('"')
	if len(imports) > 0 {
		quote = imports[0].source.Text()[0]
	}
	decl := fac.ImportDeclaration(synth.Node{}, fac.NamedImports(spec), fac.StringLiteral(module, quote))
	if len(imports) > 0 {
		tracker.InsertNodeAfter(imports[len(imports)-1].stmt, decl)
	} else {
		tracker.InsertNodeAtTopOfFile(file, decl, true)
	}
	f.logger.Debug("adding import of %s from %s to %s", name, module, file.Path())
	return tracker.GetChanges(), nil
}

// resolve returns the file module resolves to from containingFile, or the
// name itself when there is no resolver or it does not resolve.
func (f *Fixer) resolve(module, containingFile string) string {
	if f.resolver == nil {
		return module
	}
	if res := f.resolver.ResolveModuleName(module, containingFile, f.options); res.FileName != "" {
		return res.FileName
	}
	return module
}

func importsOf(file *syntax.File) []importDecl {
	var out []importDecl
	for _, s := range file.Statements() {
		if s.Kind() != syntax.KindImportStatement {
			continue
		}
		src := s.ChildByField("source")
		if !src.Valid() {
			continue
		}
		out = append(out, importDecl{stmt: s, source: src, clause: s.ChildOfKind(syntax.KindImportClause)})
	}
	return out
}
