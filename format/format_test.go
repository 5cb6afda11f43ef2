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

package format_test

import (
	"testing"

	"bennypowers.dev/tsincr/format"
	"bennypowers.dev/tsincr/syntax"
	"bennypowers.dev/tsincr/synth"
	"bennypowers.dev/tsincr/testutil"
)

func TestWithDefaults(t *testing.T) {
	if got := (format.Settings{}).WithDefaults(); got != format.DefaultSettings() {
		t.Errorf("Expected defaults for zero settings, got %+v", got)
	}
	got := format.Settings{IndentSize: 2}.WithDefaults()
	if got.IndentSize != 2 || got.TabSize != 4 || got.NewLineCharacter != "\n" {
		t.Errorf("Expected only missing fields filled, got %+v", got)
	}
	if got.ConvertTabsToSpaces {
		t.Error("Expected an explicit tab preference to survive")
	}
}

func TestIndentString(t *testing.T) {
	spaces := format.DefaultSettings()
	if got := spaces.IndentString(6); got != "      " {
		t.Errorf("Expected six spaces, got %q", got)
	}
	tabs := format.Settings{IndentSize: 4, TabSize: 4, NewLineCharacter: "\n"}
	if got := tabs.IndentString(10); got != "\t\t  " {
		t.Errorf("Expected two tabs and two spaces, got %q", got)
	}
	if got := tabs.IndentString(0); got != "" {
		t.Errorf("Expected no indentation, got %q", got)
	}
}

func TestFormatPrinted(t *testing.T) {
	f := synth.NewFactory()
	block := f.Block(f.ExpressionStatement(f.Call(f.Identifier("a"))), f.Return(synth.Node{}))
	pr := synth.Print(block, "\n")

	got := format.FormatPrinted(pr, 4, 4, format.DefaultSettings())
	if want := "    {\n        a();\n        return;\n    }"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	got = format.FormatPrinted(pr, 0, 2, format.DefaultSettings())
	if want := "{\n  a();\n  return;\n}"; got != want {
		t.Errorf("Expected a custom delta to apply, got %q", got)
	}
}

func TestFormatPrintedKeepsTemplateLines(t *testing.T) {
	file := testutil.Parse(t, "/a.ts", "const s = `a\n  b`;\n")
	f := synth.NewFactory()
	tmpl := f.Copy(testutil.FindNode(t, file, syntax.KindTemplateString, "`"))
	pr := synth.Print(f.Block(f.Return(tmpl)), "\n")

	got := format.FormatPrinted(pr, 4, 4, format.DefaultSettings())
	if want := "    {\n        return `a\n  b`;\n    }"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSmartIndent(t *testing.T) {
	text := "class C {\n    m() {\n        x();\n    }\n}\n"
	file := testutil.Parse(t, "/a.ts", text)
	s := format.DefaultSettings()

	if got := format.SmartIndent(file, len("class C {\n"), s); got != 4 {
		t.Errorf("Expected 4 inside the class body, got %d", got)
	}
	inner := len("class C {\n    m() {\n")
	if got := format.SmartIndent(file, inner, s); got != 8 {
		t.Errorf("Expected 8 inside the method body, got %d", got)
	}
	if got := format.SmartIndent(file, len(text), s); got != 0 {
		t.Errorf("Expected 0 at the top level, got %d", got)
	}
}

func TestSmartIndentFollowsElements(t *testing.T) {
	text := "function f() {\n  a();\n}\n"
	file := testutil.Parse(t, "/a.ts", text)
	if got := format.SmartIndent(file, len("function f() {\n  a();\n"), format.DefaultSettings()); got != 2 {
		t.Errorf("Expected the two-space indentation of a(), got %d", got)
	}
}

func TestInsertionIndent(t *testing.T) {
	text := "function f() {\n  a();\n  b();\n}\n"
	file := testutil.Parse(t, "/a.ts", text)
	s := format.DefaultSettings()

	if got := format.InsertionIndent(file, len("function f() {\n  a();\n"), s); got != 2 {
		t.Errorf("Expected the indentation of the line at the insertion point, got %d", got)
	}
	if got := format.InsertionIndent(file, len("function f() {\n  a();\n  b();\n"), s); got != 2 {
		t.Errorf("Expected a closing brace line to use the block's elements, got %d", got)
	}
	if got := format.InsertionIndent(file, len("function f() {\n  a"), s); got != 2 {
		t.Errorf("Expected mid-line insertion to use SmartIndent, got %d", got)
	}
}

func TestShouldIndentChildren(t *testing.T) {
	f := synth.NewFactory()
	if !format.ShouldIndentChildren(f.Block().Kind()) {
		t.Error("Expected blocks to indent their children")
	}
	if format.ShouldIndentChildren(f.StringLiteral("x", '"').Kind()) {
		t.Error("Expected strings to keep their lines as they are")
	}
}

func TestFormatDocument(t *testing.T) {
	input := testutil.LoadFixtureFile(t, "format/class.ts")
	file := testutil.Parse(t, "/class.ts", string(input))
	got := format.FormatDocument(file, format.DefaultSettings())

	testutil.UpdateGoldenFile(t, "format/class.golden.ts", []byte(got))
	if want := testutil.LoadGoldenFile(t, "format/class.golden.ts"); want != nil && got != string(want) {
		t.Errorf("Formatted output mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatDocumentKeepsComments(t *testing.T) {
	text := "/*\n   keep\n*/\nfunction f() {\nconst s = `a\n  b`;\n}\n"
	file := testutil.Parse(t, "/a.ts", text)
	got := format.FormatDocument(file, format.DefaultSettings())
	want := "/*\n   keep\n*/\nfunction f() {\n    const s = `a\n  b`;\n}\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
