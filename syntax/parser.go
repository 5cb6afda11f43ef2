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
	"errors"
	"fmt"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrParse is returned when the parser produces no tree at all. Syntax errors
// do not cause it; they surface as ERROR nodes and File.HasParseError.
var ErrParse = errors.New("parser produced no tree")

// Dialect selects the grammar used for a file.
type Dialect int

const (
	DialectTypeScript Dialect = iota
	DialectTSX
)

// DialectFor picks the grammar from a file name.
func DialectFor(path string) Dialect {
	if strings.HasSuffix(path, ".tsx") || strings.HasSuffix(path, ".jsx") {
		return DialectTSX
	}
	return DialectTypeScript
}

var languages = struct {
	typescript *ts.Language
	tsx        *ts.Language
}{
	ts.NewLanguage(tsTypescript.LanguageTypescript()),
	ts.NewLanguage(tsTypescript.LanguageTSX()),
}

func (d Dialect) language() *ts.Language {
	if d == DialectTSX {
		return languages.tsx
	}
	return languages.typescript
}

func newParserPool(name string, lang *ts.Language) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			parser := ts.NewParser()
			if err := parser.SetLanguage(lang); err != nil {
				panic("failed to set " + name + " language: " + err.Error())
			}
			return parser
		},
	}
}

var parserPools = [...]*sync.Pool{
	DialectTypeScript: newParserPool("TypeScript", languages.typescript),
	DialectTSX:        newParserPool("TSX", languages.tsx),
}

func getParser(d Dialect) *ts.Parser {
	return parserPools[d].Get().(*ts.Parser)
}

func putParser(d Dialect, p *ts.Parser) {
	p.Reset()
	parserPools[d].Put(p)
}

// Parse parses text as the file at path.
func Parse(path, text string) (*File, error) {
	return parse(path, text, nil)
}

func parse(path, text string, old *ts.Tree) (*File, error) {
	dialect := DialectFor(path)
	parser := getParser(dialect)
	defer putParser(dialect, parser)

	src := []byte(text)
	tree := parser.Parse(src, old)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s: %w", path, ErrParse)
	}
	f := newFile(path, text, dialect)
	f.tree = tree
	f.build(tree.RootNode())
	return f, nil
}

// Edit describes one contiguous replacement in the coordinates of the file it
// applies to: the bytes [Start, OldEnd) became [Start, NewEnd) in the new text.
type Edit struct {
	Start  int
	OldEnd int
	NewEnd int
}

// Reparse parses newText, reusing the unchanged parts of f's tree. When f no
// longer holds a tree the text is parsed from scratch.
func (f *File) Reparse(newText string, edit Edit) (*File, error) {
	if f.tree == nil {
		return Parse(f.path, newText)
	}
	old := f.tree.Clone()
	defer old.Close()

	newLines := computeLineStarts(newText)
	old.Edit(&ts.InputEdit{
		StartByte:      uint(edit.Start),
		OldEndByte:     uint(edit.OldEnd),
		NewEndByte:     uint(edit.NewEnd),
		StartPosition:  pointAt(f.lineStarts, edit.Start),
		OldEndPosition: pointAt(f.lineStarts, edit.OldEnd),
		NewEndPosition: pointAt(newLines, edit.NewEnd),
	})
	return parse(f.path, newText, old)
}

func pointAt(lineStarts []int, pos int) ts.Point {
	line := lineOf(lineStarts, pos)
	return ts.Point{Row: uint(line), Column: uint(pos - lineStarts[line])}
}

// Close releases the parser tree backing f. The arena stays usable; later
// reparses of f fall back to a full parse.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}
