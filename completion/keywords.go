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

// Package completion provides the keyword and identifier tables completion
// lists are built from.
package completion

import (
	"slices"
	"strings"
	"sync"
)

// Filter selects the keywords valid at a completion location.
type Filter int

const (
	FilterNone Filter = iota
	// FilterAll is every keyword valid at statement level.
	FilterAll
	FilterClassElement
	FilterInterfaceElement
	FilterConstructorParameter
	FilterFunctionLikeBody
	FilterTypeAssertion
	FilterTypes
	// FilterTypeKeyword offers only `type`.
	FilterTypeKeyword
	filterCount
)

var filterNames = [filterCount]string{
	"none", "all", "class-element", "interface-element", "constructor-parameter",
	"function-body", "type-assertion", "types", "type-keyword",
}

func (f Filter) String() string {
	if f < 0 || f >= filterCount {
		return "unknown"
	}
	return filterNames[f]
}

// ParseFilter returns the filter named s.
func ParseFilter(s string) (Filter, bool) {
	i := slices.Index(filterNames[:], s)
	return Filter(i), i >= 0
}

// EntryKind says what a completion entry stands for.
type EntryKind string

const (
	KindKeyword EntryKind = "keyword"
	// KindText is a name seen elsewhere in the file.
	KindText EntryKind = "text"
)

// Entry is one completion candidate.
type Entry struct {
	Name     string    `json:"name" yaml:"name"`
	Kind     EntryKind `json:"kind" yaml:"kind"`
	SortText string    `json:"sortText" yaml:"sortText"`
}

const (
	sortLocation = "11"
	sortKeyword  = "15"
)

type keywordClass uint16

const (
	reserved keywordClass = 1 << iota
	contextual
	classMember
	typeKeyword
	tsOnly
)

type keyword struct {
	name  string
	class keywordClass
}

// keywords lists reserved words first, then contextual ones, each in
// alphabetical order.
var keywords = []keyword{
	{"break", reserved}, {"case", reserved}, {"catch", reserved}, {"class", reserved},
	{"const", reserved}, {"continue", reserved}, {"debugger", reserved}, {"default", reserved},
	{"delete", reserved}, {"do", reserved}, {"else", reserved}, {"enum", reserved | tsOnly},
	{"export", reserved}, {"extends", reserved}, {"false", reserved | typeKeyword},
	{"finally", reserved}, {"for", reserved}, {"function", reserved}, {"if", reserved},
	{"implements", reserved | tsOnly}, {"import", reserved}, {"in", reserved},
	{"instanceof", reserved}, {"interface", reserved | tsOnly}, {"let", reserved},
	{"new", reserved}, {"null", reserved | typeKeyword}, {"package", reserved},
	{"private", reserved | classMember | tsOnly}, {"protected", reserved | classMember | tsOnly},
	{"public", reserved | classMember | tsOnly}, {"return", reserved},
	{"static", reserved | classMember}, {"super", reserved}, {"switch", reserved},
	{"this", reserved}, {"throw", reserved}, {"true", reserved | typeKeyword}, {"try", reserved},
	{"typeof", reserved | typeKeyword}, {"var", reserved}, {"void", reserved | typeKeyword},
	{"while", reserved}, {"with", reserved}, {"yield", reserved},

	{"abstract", contextual | classMember | tsOnly}, {"accessor", contextual | classMember},
	{"any", contextual | typeKeyword | tsOnly}, {"as", contextual}, {"asserts", contextual | typeKeyword},
	{"async", contextual | classMember}, {"await", contextual},
	{"bigint", contextual | typeKeyword | tsOnly}, {"boolean", contextual | typeKeyword | tsOnly},
	{"constructor", contextual | classMember}, {"declare", contextual | classMember | tsOnly},
	{"from", contextual}, {"get", contextual | classMember}, {"global", contextual | tsOnly},
	{"infer", contextual | typeKeyword | tsOnly}, {"is", contextual | tsOnly},
	{"keyof", contextual | typeKeyword | tsOnly}, {"module", contextual | tsOnly},
	{"namespace", contextual | tsOnly}, {"never", contextual | typeKeyword | tsOnly},
	{"number", contextual | typeKeyword | tsOnly}, {"object", contextual | typeKeyword | tsOnly},
	{"of", contextual}, {"override", contextual | classMember | tsOnly},
	{"readonly", contextual | classMember | typeKeyword | tsOnly}, {"require", contextual},
	{"satisfies", contextual}, {"set", contextual | classMember},
	{"string", contextual | typeKeyword | tsOnly}, {"symbol", contextual | typeKeyword | tsOnly},
	{"type", contextual | tsOnly}, {"undefined", contextual | typeKeyword},
	{"unique", contextual | typeKeyword | tsOnly}, {"unknown", contextual | typeKeyword | tsOnly},
	{"using", contextual},
}

func (k keyword) is(c keywordClass) bool { return k.class&c != 0 }

func isFunctionLikeBodyKeyword(k keyword) bool {
	switch k.name {
	case "async", "await", "using", "as", "satisfies", "type":
		return true
	}
	return !k.is(contextual) && !k.is(classMember)
}

func (f Filter) accepts(k keyword) bool {
	switch f {
	case FilterNone:
		return false
	case FilterAll:
		switch k.name {
		case "declare", "module", "type", "namespace", "abstract":
			return true
		}
		return isFunctionLikeBodyKeyword(k) || k.is(typeKeyword) && k.name != "undefined"
	case FilterClassElement:
		return k.is(classMember)
	case FilterInterfaceElement:
		return k.name == "readonly"
	case FilterConstructorParameter:
		switch k.name {
		case "private", "protected", "public", "readonly", "override":
			return true
		}
		return false
	case FilterFunctionLikeBody:
		return isFunctionLikeBodyKeyword(k)
	case FilterTypeAssertion:
		return k.is(typeKeyword) || k.name == "const"
	case FilterTypes:
		return k.is(typeKeyword)
	case FilterTypeKeyword:
		return k.name == "type"
	}
	return false
}

func buildKeywords(f Filter, jsOnly bool) []Entry {
	var out []Entry
	for _, k := range keywords {
		if !f.accepts(k) || jsOnly && k.is(tsOnly) {
			continue
		}
		out = append(out, Entry{Name: k.name, Kind: KindKeyword, SortText: sortKeyword})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return slices.Clip(out)
}

var keywordTables = func() (t [filterCount][2]func() []Entry) {
	for f := range filterCount {
		for js := range 2 {
			t[f][js] = sync.OnceValue(func() []Entry { return buildKeywords(f, js == 1) })
		}
	}
	return t
}()

// Keywords returns the keywords filter admits in TypeScript files, sorted
// by name. Tables are built once per filter and shared; callers must not
// modify the result.
func Keywords(filter Filter) []Entry {
	if filter < 0 || filter >= filterCount {
		return nil
	}
	return keywordTables[filter][0]()
}

// JSKeywords is Keywords without the TypeScript-only keywords.
func JSKeywords(filter Filter) []Entry {
	if filter < 0 || filter >= filterCount {
		return nil
	}
	return keywordTables[filter][1]()
}
