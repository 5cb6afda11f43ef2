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

package patch_test

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"bennypowers.dev/tsincr/internal/patch"
)

func TestUnified(t *testing.T) {
	p, err := patch.Unified("/src/a.ts", "const a = 1;\nconst b = 2;\n", "const a = 1;\n", false)
	if err != nil {
		t.Fatalf("Unified failed: %v", err)
	}
	for _, want := range []string{"--- a/src/a.ts\n", "+++ b/src/a.ts\n", "@@ -1,2 +1 @@\n", "-const b = 2;\n"} {
		if !strings.Contains(p, want) {
			t.Errorf("Expected %q in:\n%s", want, p)
		}
	}
	if p, _ := patch.Unified("/a.ts", "x\n", "x\n", false); p != "" {
		t.Errorf("Expected no diff for equal texts, got %q", p)
	}
}

func TestUnifiedNewFile(t *testing.T) {
	p, err := patch.Unified("/b.ts", "", "export {};\n", true)
	if err != nil {
		t.Fatalf("Unified failed: %v", err)
	}
	if !strings.HasPrefix(p, "--- /dev/null\n+++ b/b.ts\n") {
		t.Errorf("Expected a /dev/null header, got:\n%s", p)
	}
}

func TestSummarize(t *testing.T) {
	a, _ := patch.Unified("/a.ts", "a\nb\nc\n", "a\nB\nc\nd\n", false)
	b, _ := patch.Unified("/b.ts", "", "x\n", true)
	s, err := patch.Summarize(a + b)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Files != 2 || s.Added != 3 || s.Removed != 1 {
		t.Errorf("Unexpected stats %+v", s)
	}
	if got := s.String(); got != "2 files changed, +3 -1" {
		t.Errorf("Unexpected summary %q", got)
	}
}

func TestColorize(t *testing.T) {
	p, _ := patch.Unified("/a.ts", "a\n", "b\n", false)

	old := color.NoColor
	t.Cleanup(func() { color.NoColor = old })

	color.NoColor = true
	if got := patch.Colorize(p); got != p {
		t.Errorf("Expected no change without color, got %q", got)
	}
	color.NoColor = false
	got := patch.Colorize(p)
	if !strings.Contains(got, "\x1b[32m+b") || !strings.Contains(got, "\x1b[31m-a") {
		t.Errorf("Expected colored lines, got %q", got)
	}
}
