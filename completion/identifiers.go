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

package completion

import (
	"slices"
	"strings"

	"bennypowers.dev/tsincr/syntax"
)

// IsEditingNode reports whether pos falls within n or touches its end,
// the positions at which typing extends n.
func IsEditingNode(n syntax.Node, pos int) bool {
	return n.Valid() && n.Pos() <= pos && pos <= n.End()
}

func isIdentifierLike(k syntax.Kind) bool {
	switch k {
	case syntax.KindIdentifier, syntax.KindPropertyIdentifier, syntax.KindTypeIdentifier,
		syntax.KindShorthandPropertyIdentifier, syntax.KindShorthandPropertyIdentifierPattern:
		return true
	}
	return false
}

// editedIdentifier returns the name being typed at pos: the one containing
// pos or ending right at it.
func editedIdentifier(file *syntax.File, pos int) syntax.Node {
	if tok := file.TokenAt(pos); isIdentifierLike(tok.Kind()) {
		return tok
	}
	if tok := file.PrecedingToken(pos); tok.Valid() && tok.End() == pos && isIdentifierLike(tok.Kind()) {
		return tok
	}
	return syntax.Node{}
}

// IsEditingIdentifier reports whether pos is inside or at the end of a
// name in file.
func IsEditingIdentifier(file *syntax.File, pos int) bool {
	return IsEditingNode(editedIdentifier(file, pos), pos)
}

// Identifiers returns the distinct names used in file, for files without
// type information. The name being edited at pos is left out unless it
// also appears elsewhere.
func Identifiers(file *syntax.File, pos int) []Entry {
	edited := editedIdentifier(file, pos)
	seen := make(map[string]bool)
	var walk func(n syntax.Node)
	walk = func(n syntax.Node) {
		if isIdentifierLike(n.Kind()) && n != edited {
			seen[n.Text()] = true
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(file.Root())

	out := make([]Entry, 0, len(seen))
	for name := range seen {
		out = append(out, Entry{Name: name, Kind: KindText, SortText: sortLocation})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out
}
