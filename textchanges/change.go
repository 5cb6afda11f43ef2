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
	"cmp"
	"slices"

	"bennypowers.dev/tsincr/snapshot"
	"bennypowers.dev/tsincr/syntax"
	"bennypowers.dev/tsincr/synth"
)

// Change is one pending edit of a file. The variants are Remove,
// ReplaceWithSingleNode, ReplaceWithMultipleNodes and ReplaceWithText.
type Change interface {
	File() *syntax.File
	Range() syntax.TextRange
	isChange()
}

type changeBase struct {
	file *syntax.File
	rng  syntax.TextRange
}

func (c changeBase) File() *syntax.File      { return c.file }
func (c changeBase) Range() syntax.TextRange { return c.rng }
func (changeBase) isChange()                 {}

// Remove deletes its range.
type Remove struct{ changeBase }

// ReplaceWithSingleNode replaces its range with a printed node.
type ReplaceWithSingleNode struct {
	changeBase
	Node    synth.Node
	Options InsertNodeOptions
}

// ReplaceWithMultipleNodes replaces its range with printed nodes joined by
// Options.Joiner.
type ReplaceWithMultipleNodes struct {
	changeBase
	Nodes   []synth.Node
	Options MultipleNodesOptions
}

// ReplaceWithText replaces its range with literal text.
type ReplaceWithText struct {
	changeBase
	Text string
}

// TextChange replaces Span of the original text with NewText.
type TextChange struct {
	Span    snapshot.TextSpan `json:"span" yaml:"span"`
	NewText string            `json:"newText" yaml:"newText"`
}

// FileTextChanges are the materialized edits of one file, ordered by
// position.
type FileTextChanges struct {
	FileName    string       `json:"fileName" yaml:"fileName"`
	TextChanges []TextChange `json:"textChanges" yaml:"textChanges"`
	IsNewFile   bool         `json:"isNewFile,omitempty" yaml:"isNewFile,omitempty"`
}

// ApplyChanges applies changes to text from the last span to the first so
// earlier offsets stay valid. Changes at the same position keep their
// relative order.
func ApplyChanges(text string, changes []TextChange) string {
	sorted := slices.Clone(changes)
	slices.SortStableFunc(sorted, func(a, b TextChange) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	for i := len(sorted) - 1; i >= 0; i-- {
		c := sorted[i]
		text = text[:c.Span.Start] + c.NewText + text[c.Span.End():]
	}
	return text
}
