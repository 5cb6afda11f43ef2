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

package completion_test

import (
	"slices"
	"strings"
	"testing"

	"bennypowers.dev/tsincr/completion"
	"bennypowers.dev/tsincr/testutil"
)

func names(entries []completion.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestKeywordsAreMemoized(t *testing.T) {
	a := completion.Keywords(completion.FilterAll)
	b := completion.Keywords(completion.FilterAll)
	if len(a) == 0 {
		t.Fatal("Expected keywords for FilterAll")
	}
	if &a[0] != &b[0] {
		t.Error("Expected the same table on repeated calls")
	}
}

func TestKeywordFilters(t *testing.T) {
	if got := completion.Keywords(completion.FilterNone); len(got) != 0 {
		t.Errorf("Expected no keywords for FilterNone, got %v", names(got))
	}
	if got := names(completion.Keywords(completion.FilterInterfaceElement)); !slices.Equal(got, []string{"readonly"}) {
		t.Errorf("Unexpected interface element keywords %v", got)
	}
	if got := names(completion.Keywords(completion.FilterTypeKeyword)); !slices.Equal(got, []string{"type"}) {
		t.Errorf("Unexpected type keyword table %v", got)
	}
	want := []string{"override", "private", "protected", "public", "readonly"}
	if got := names(completion.Keywords(completion.FilterConstructorParameter)); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	class := names(completion.Keywords(completion.FilterClassElement))
	for _, k := range []string{"constructor", "static", "get", "async"} {
		if !slices.Contains(class, k) {
			t.Errorf("Expected class element keywords to contain %q", k)
		}
	}
	if slices.Contains(class, "return") {
		t.Error("Expected class element keywords to exclude return")
	}

	body := names(completion.Keywords(completion.FilterFunctionLikeBody))
	for _, k := range []string{"return", "await", "const", "type"} {
		if !slices.Contains(body, k) {
			t.Errorf("Expected function body keywords to contain %q", k)
		}
	}
	for _, k := range []string{"constructor", "static", "declare"} {
		if slices.Contains(body, k) {
			t.Errorf("Expected function body keywords to exclude %q", k)
		}
	}

	all := names(completion.Keywords(completion.FilterAll))
	if !slices.Contains(all, "declare") || !slices.Contains(all, "string") {
		t.Errorf("Expected FilterAll to contain declare and string, got %v", all)
	}
	if slices.Contains(all, "undefined") {
		t.Error("Expected FilterAll to exclude undefined")
	}
	if !slices.IsSorted(all) {
		t.Error("Expected sorted keywords")
	}
}

func TestJSKeywordsDropTypeScriptOnly(t *testing.T) {
	all := names(completion.JSKeywords(completion.FilterAll))
	for _, k := range []string{"interface", "declare", "string", "type"} {
		if slices.Contains(all, k) {
			t.Errorf("Expected JS keywords to exclude %q", k)
		}
	}
	if !slices.Contains(all, "const") {
		t.Error("Expected JS keywords to contain const")
	}
}

func TestFilterNames(t *testing.T) {
	f, ok := completion.ParseFilter("class-element")
	if !ok || f != completion.FilterClassElement {
		t.Errorf("Expected class-element to parse, got %v %v", f, ok)
	}
	if f.String() != "class-element" {
		t.Errorf("Unexpected name %q", f.String())
	}
	if _, ok := completion.ParseFilter("bogus"); ok {
		t.Error("Expected bogus filter to be rejected")
	}
	if got := completion.Keywords(completion.Filter(99)); got != nil {
		t.Errorf("Expected nil for unknown filter, got %v", got)
	}
}

func TestIsEditingIdentifier(t *testing.T) {
	text := "const value = fo;\n"
	f := testutil.Parse(t, "a.ts", text)
	end := strings.Index(text, "fo;") + 2
	if !completion.IsEditingIdentifier(f, end) {
		t.Error("Expected position after fo to be editing an identifier")
	}
	if !completion.IsEditingIdentifier(f, strings.Index(text, "alue")) {
		t.Error("Expected position inside value to be editing an identifier")
	}
	if completion.IsEditingIdentifier(f, strings.Index(text, "=")) {
		t.Error("Expected position at = not to be editing an identifier")
	}
}

func TestIdentifiersSkipEditedName(t *testing.T) {
	text := "const value = 1;\nconst other = val;\n"
	f := testutil.Parse(t, "a.ts", text)
	got := names(completion.Identifiers(f, strings.Index(text, "val;")+3))
	want := []string{"other", "value"}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
