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

// Package snapshot holds immutable per-version views of source files and the
// classifier that compares two versions of the same file.
package snapshot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"bennypowers.dev/tsincr/syntax"
)

// FileReference is a name taken from a triple-slash directive.
type FileReference struct {
	FileName string
	Range    syntax.TextRange
}

// SourceFile is one version of one file: its text, parse tree and the
// references it makes to other files. It is never mutated after New or
// Update returns.
type SourceFile struct {
	path    string
	version string
	hash    uint64
	tree    *syntax.File

	referencedFiles []FileReference
	typeReferences  []FileReference
	libReferences   []FileReference
	noDefaultLib    bool
	directiveRanges []syntax.TextRange

	moduleNames    []syntax.Specifier
	ambientModules []string

	regions [regionCount]string
}

// New parses text and builds the snapshot for path at version.
func New(path, text, version string) (*SourceFile, error) {
	tree, err := syntax.Parse(path, text)
	if err != nil {
		return nil, err
	}
	return newFromTree(path, version, tree)
}

// Update returns the snapshot for text at version, reparsing incrementally
// from s. When nothing changed s itself is returned.
func (s *SourceFile) Update(text, version string) (*SourceFile, error) {
	if text == s.Text() && version == s.version {
		return s, nil
	}
	cr := changeRange(s.Text(), text)
	tree, err := s.tree.Reparse(text, syntax.Edit{
		Start:  cr.Span.Start,
		OldEnd: cr.Span.End(),
		NewEnd: cr.Span.Start + cr.NewLength,
	})
	if err != nil {
		return nil, err
	}
	return newFromTree(s.path, version, tree)
}

func newFromTree(path, version string, tree *syntax.File) (*SourceFile, error) {
	s := &SourceFile{
		path:    path,
		version: version,
		hash:    xxhash.Sum64String(tree.Text()),
		tree:    tree,
	}
	specs, err := tree.ModuleSpecifiers()
	if err != nil {
		return nil, fmt.Errorf("collecting module specifiers of %s: %w", path, err)
	}
	s.collectDirectives()
	s.computeRegions(specs)
	return s, nil
}

// Path returns the file name.
func (s *SourceFile) Path() string { return s.path }

// Version returns the host-assigned version string.
func (s *SourceFile) Version() string { return s.version }

// Text returns the full text.
func (s *SourceFile) Text() string { return s.tree.Text() }

// Hash returns a content fingerprint of the text.
func (s *SourceFile) Hash() uint64 { return s.hash }

// Tree returns the positioned syntax tree.
func (s *SourceFile) Tree() *syntax.File { return s.tree }

// ReferencedFiles returns the /// <reference path> names.
func (s *SourceFile) ReferencedFiles() []FileReference { return s.referencedFiles }

// TypeReferenceDirectives returns the /// <reference types> names.
func (s *SourceFile) TypeReferenceDirectives() []FileReference { return s.typeReferences }

// LibReferenceDirectives returns the /// <reference lib> names.
func (s *SourceFile) LibReferenceDirectives() []FileReference { return s.libReferences }

// NoDefaultLib reports a /// <reference no-default-lib="true"/> directive.
func (s *SourceFile) NoDefaultLib() bool { return s.noDefaultLib }

// ModuleNames returns the imported, re-exported, required and dynamically
// imported module specifiers, in source order.
func (s *SourceFile) ModuleNames() []syntax.Specifier { return s.moduleNames }

// AmbientModuleNames returns the names of `declare module "x"` blocks.
func (s *SourceFile) AmbientModuleNames() []string { return s.ambientModules }

// IsDeclarationFile reports whether the file is a .d.ts file.
func (s *SourceFile) IsDeclarationFile() bool {
	for _, ext := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(s.path, ext) {
			return true
		}
	}
	return false
}

// Release frees the parser tree. The snapshot stays readable but later
// Updates from it parse from scratch.
func (s *SourceFile) Release() { s.tree.Close() }

var referenceDirective = regexp.MustCompile(`^///\s*<reference\s+(path|types|lib|no-default-lib)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// collectDirectives reads the triple-slash directives in the comment block
// that precedes the first statement.
func (s *SourceFile) collectDirectives() {
	text := s.tree.Text()
	limit := len(text)
	if stmts := s.tree.Statements(); len(stmts) > 0 {
		limit = stmts[0].Pos()
	}
	for _, c := range s.tree.Comments() {
		if c.Pos >= limit {
			break
		}
		m := referenceDirective.FindStringSubmatch(text[c.Pos:c.End])
		if m == nil {
			continue
		}
		value := m[2]
		if value == "" {
			value = m[3]
		}
		ref := FileReference{FileName: value, Range: c}
		switch m[1] {
		case "path":
			s.referencedFiles = append(s.referencedFiles, ref)
		case "types":
			s.typeReferences = append(s.typeReferences, ref)
		case "lib":
			s.libReferences = append(s.libReferences, ref)
		case "no-default-lib":
			s.noDefaultLib = value == "true"
		}
		s.directiveRanges = append(s.directiveRanges, c)
	}
}
