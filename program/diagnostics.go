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

package program

import (
	"cmp"
	"fmt"
	"slices"
)

// Diagnostic codes reported by the program.
const (
	CodeCannotFindModule         = 2307
	CodeFileNotFound             = 6053
	CodeCannotFindTypeDefinition = 2688
)

// Diagnostic is a module-level problem found while building a program.
type Diagnostic struct {
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Start   int    `json:"start" yaml:"start"`
	Length  int    `json:"length" yaml:"length"`
	Code    int    `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("error TS%d: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s:%d: error TS%d: %s", d.File, d.Start, d.Code, d.Message)
}

// SemanticDiagnostics returns the reference and resolution problems of one
// file, ordered by position. Files whose resolutions were carried over from
// an old program report the same diagnostics they did there.
func (p *Program) SemanticDiagnostics(name string) []Diagnostic {
	sf, ok := p.files[name]
	if !ok {
		return nil
	}
	var diags []Diagnostic
	targets := p.references[name]
	for i, ref := range sf.ReferencedFiles() {
		if i >= len(targets) || !p.missing[targets[i]] {
			continue
		}
		diags = append(diags, Diagnostic{
			File: name, Start: ref.Range.Pos, Length: ref.Range.Len(),
			Code:    CodeFileNotFound,
			Message: fmt.Sprintf("File '%s' not found.", targets[i]),
		})
	}
	fr, ok := p.cache.Get(name)
	if ok {
		for _, ref := range sf.TypeReferenceDirectives() {
			if fr.TypeReferences[ref.FileName].IsResolved() {
				continue
			}
			diags = append(diags, Diagnostic{
				File: name, Start: ref.Range.Pos, Length: ref.Range.Len(),
				Code:    CodeCannotFindTypeDefinition,
				Message: fmt.Sprintf("Cannot find type definition file for '%s'.", ref.FileName),
			})
		}
		for _, spec := range sf.ModuleNames() {
			if fr.Modules[spec.Name].IsResolved() {
				continue
			}
			diags = append(diags, Diagnostic{
				File: name, Start: spec.Range.Pos, Length: spec.Range.Len(),
				Code:    CodeCannotFindModule,
				Message: fmt.Sprintf("Cannot find module '%s' or its corresponding type declarations.", spec.Name),
			})
		}
	}
	slices.SortStableFunc(diags, func(a, b Diagnostic) int { return cmp.Compare(a.Start, b.Start) })
	return diags
}

// GlobalDiagnostics reports missing root files and unresolved entries of
// the types option.
func (p *Program) GlobalDiagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, root := range p.rootNames {
		if p.missing[root] {
			diags = append(diags, Diagnostic{Code: CodeFileNotFound, Message: fmt.Sprintf("File '%s' not found.", root)})
		}
	}
	if fr, ok := p.cache.Get(p.inferredTypesFile()); ok {
		for _, t := range p.options.Types {
			if !fr.TypeReferences[t].IsResolved() {
				diags = append(diags, Diagnostic{
					Code:    CodeCannotFindTypeDefinition,
					Message: fmt.Sprintf("Cannot find type definition file for '%s'.", t),
				})
			}
		}
	}
	return diags
}

// AllDiagnostics returns global diagnostics followed by each file's, in
// discovery order.
func (p *Program) AllDiagnostics() []Diagnostic {
	diags := p.GlobalDiagnostics()
	for _, name := range p.order {
		diags = append(diags, p.SemanticDiagnostics(name)...)
	}
	return diags
}
