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

package snapshot

import (
	"sort"
	"strings"

	"bennypowers.dev/tsincr/internal/debug"
	"bennypowers.dev/tsincr/syntax"
)

// ChangePart tags the regions of a file that differ between two versions.
type ChangePart uint8

const (
	// References is the triple-slash directive block at the top of the file.
	References ChangePart = 1 << iota
	// ImportsExports covers import, export-from and import-require
	// statements, dynamic import specifiers and ambient module names.
	ImportsExports
	// ProgramBody is everything else.
	ProgramBody

	// NoChange means all three regions are identical.
	NoChange ChangePart = 0
)

const regionCount = 3

var regionOrder = [regionCount]ChangePart{References, ImportsExports, ProgramBody}

// Has reports whether every bit of p is set in c.
func (c ChangePart) Has(p ChangePart) bool { return c&p == p }

// AffectsResolution reports whether the change can alter what the file
// resolves.
func (c ChangePart) AffectsResolution() bool {
	return c&(References|ImportsExports) != 0
}

func (c ChangePart) String() string {
	if c == NoChange {
		return "none"
	}
	var parts []string
	if c.Has(References) {
		parts = append(parts, "references")
	}
	if c.Has(ImportsExports) {
		parts = append(parts, "imports")
	}
	if c.Has(ProgramBody) {
		parts = append(parts, "body")
	}
	return strings.Join(parts, "|")
}

func regionIndex(p ChangePart) int {
	for i, r := range regionOrder {
		if r == p {
			return i
		}
	}
	debug.Fail("RegionText needs a single region, got %s", p)
	return -1
}

// Versioned is the view of a file version the classifier works on.
type Versioned interface {
	Path() string
	Version() string
	RegionText(region ChangePart) string
}

// RegionText renders one region. Two versions whose rendered regions are
// equal are treated as structurally identical in that region.
func (s *SourceFile) RegionText(region ChangePart) string {
	return s.regions[regionIndex(region)]
}

// Classify compares the rendered regions of two versions of one file.
func Classify(old, new Versioned) ChangePart {
	debug.Assert(old.Path() == new.Path(), "classifying %s against %s", old.Path(), new.Path())
	part := NoChange
	for _, r := range regionOrder {
		if old.RegionText(r) != new.RegionText(r) {
			part |= r
		}
	}
	return part
}

func (s *SourceFile) computeRegions(specs []syntax.Specifier) {
	text := s.tree.Text()

	var imports []string
	var cut []syntax.TextRange
	cut = append(cut, s.directiveRanges...)
	seenStmt := make(map[syntax.TextRange]bool)

	for _, spec := range specs {
		switch spec.Kind {
		case syntax.SpecifierAmbientModule:
			s.ambientModules = append(s.ambientModules, spec.Name)
			imports = append(imports, "declare module "+text[spec.Range.Pos:spec.Range.End])
			continue
		case syntax.SpecifierDynamic:
			s.moduleNames = append(s.moduleNames, spec)
			imports = append(imports, "import("+text[spec.Range.Pos:spec.Range.End]+")")
			continue
		}
		s.moduleNames = append(s.moduleNames, spec)
		stmt := s.tree.NodeCovering(spec.Range).AncestorOfKind(syntax.KindImportStatement, syntax.KindExportStatement)
		if !stmt.Valid() {
			imports = append(imports, text[spec.Range.Pos:spec.Range.End])
			continue
		}
		r := stmt.Range()
		if seenStmt[r] {
			continue
		}
		seenStmt[r] = true
		imports = append(imports, stmt.Text())
		cut = append(cut, r)
	}

	var refs []string
	for _, r := range s.directiveRanges {
		refs = append(refs, text[r.Pos:r.End])
	}

	s.regions[0] = strings.Join(refs, "\n")
	s.regions[1] = strings.Join(imports, "\n")
	s.regions[2] = cutRanges(text, cut)
}

// cutRanges returns text with the given ranges, and the rest of their last
// line, removed.
func cutRanges(text string, ranges []syntax.TextRange) string {
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Pos < ranges[j].Pos })
	var b strings.Builder
	last := 0
	for _, r := range ranges {
		r.End = syntax.SkipTrivia(text, r.End, syntax.TriviaOptions{StopAfterLineBreak: true, StopAtComments: true})
		if r.Pos < last {
			if r.End > last {
				last = r.End
			}
			continue
		}
		b.WriteString(text[last:r.Pos])
		last = r.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// TextSpan is a range given by start and length.
type TextSpan struct {
	Start  int
	Length int
}

// End returns Start+Length.
func (s TextSpan) End() int { return s.Start + s.Length }

// TextChangeRange describes an edit: the old span was replaced by NewLength
// bytes.
type TextChangeRange struct {
	Span      TextSpan
	NewLength int
}

// IsUnchanged reports an empty edit.
func (r TextChangeRange) IsUnchanged() bool {
	return r.Span.Length == 0 && r.NewLength == 0
}

// ChangeRange returns the smallest single edit turning old's text into new's:
// the span between their longest common prefix and longest common suffix.
func ChangeRange(old, new *SourceFile) TextChangeRange {
	debug.Assert(old.Path() == new.Path(), "change range across files %s and %s", old.Path(), new.Path())
	if old == new || old.Version() == new.Version() && old.Hash() == new.Hash() {
		return TextChangeRange{Span: TextSpan{Start: 0}}
	}
	return changeRange(old.Text(), new.Text())
}

func changeRange(oldText, newText string) TextChangeRange {
	limit := min(len(oldText), len(newText))
	prefix := 0
	for prefix < limit && oldText[prefix] == newText[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < limit-prefix && oldText[len(oldText)-1-suffix] == newText[len(newText)-1-suffix] {
		suffix++
	}
	return TextChangeRange{
		Span:      TextSpan{Start: prefix, Length: len(oldText) - prefix - suffix},
		NewLength: len(newText) - prefix - suffix,
	}
}
