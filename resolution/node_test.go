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

package resolution_test

import (
	"testing"

	"bennypowers.dev/tsincr/resolution"
	"bennypowers.dev/tsincr/testutil"
)

func TestNodeResolverModules(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "resolution/basic", "/proj")
	r := resolution.NewNodeResolver(mfs)
	from := "/proj/src/a.ts"

	tests := []struct {
		name     string
		expected string
		external bool
	}{
		{"./b", "/proj/src/b.ts", false},
		{"./b.js", "/proj/src/b.ts", false},
		{"./lib", "/proj/src/lib/index.ts", false},
		{"pkg", "/proj/node_modules/pkg/dist/index.d.ts", true},
		{"pkg/dist/extra", "/proj/node_modules/pkg/dist/extra.d.ts", true},
		{"exp", "/proj/node_modules/exp/types/main.d.ts", true},
		{"exp/feature/x", "/proj/node_modules/exp/types/feature/x.d.ts", true},
		{"@scope/thing", "/proj/node_modules/@types/scope__thing/index.d.ts", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.ResolveModuleName(tt.name, from, nil)
			if res.FileName != tt.expected {
				t.Fatalf("Expected %s, got %q", tt.expected, res.FileName)
			}
			if res.External != tt.external {
				t.Errorf("Expected external=%v", tt.external)
			}
			if res.Primary == tt.external {
				t.Errorf("Expected primary=%v", !tt.external)
			}
		})
	}
}

func TestNodeResolverPackageID(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "resolution/basic", "/proj")
	r := resolution.NewNodeResolver(mfs)

	res := r.ResolveModuleName("pkg", "/proj/src/a.ts", nil)
	want := resolution.PackageID{Name: "pkg", SubModuleName: "dist/index.d.ts", Version: "1.0.0"}
	if res.Package != want {
		t.Errorf("Expected %+v, got %+v", want, res.Package)
	}
	if res.Package.Key() != "pkg/dist/index.d.ts@1.0.0" {
		t.Errorf("Unexpected key %s", res.Package.Key())
	}
}

func TestNodeResolverUnresolved(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "resolution/basic", "/proj")
	r := resolution.NewNodeResolver(mfs)

	for _, name := range []string{"missing", "./nope", "exp/private"} {
		if res := r.ResolveModuleName(name, "/proj/src/a.ts", nil); res.IsResolved() {
			t.Errorf("Expected %s to be unresolved, got %+v", name, res)
		}
	}
}

func TestNodeResolverPaths(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "resolution/basic", "/proj")
	r := resolution.NewNodeResolver(mfs)
	opts := &resolution.Options{
		BaseURL: "/proj",
		Paths:   map[string][]string{"@app/*": {"src/mapped/*"}},
	}

	if res := r.ResolveModuleName("@app/m", "/proj/src/a.ts", opts); res.FileName != "/proj/src/mapped/m.ts" {
		t.Errorf("Expected mapped file, got %q", res.FileName)
	}
	if res := r.ResolveModuleName("src/b", "/proj/src/a.ts", opts); res.FileName != "/proj/src/b.ts" {
		t.Errorf("Expected baseUrl-relative file, got %q", res.FileName)
	}
}

func TestNodeResolverTypeReferences(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "resolution/basic", "/proj")
	r := resolution.NewNodeResolver(mfs)

	res := r.ResolveTypeReferenceDirective("node", "/proj/src/a.ts", nil)
	if res.FileName != "/proj/node_modules/@types/node/index.d.ts" || !res.Primary {
		t.Errorf("Expected primary @types/node, got %+v", res)
	}

	res = r.ResolveTypeReferenceDirective("pkg", "/proj/src/a.ts", nil)
	if res.FileName != "/proj/node_modules/pkg/dist/index.d.ts" || res.Primary {
		t.Errorf("Expected secondary pkg types, got %+v", res)
	}

	opts := &resolution.Options{TypeRoots: []string{"/proj/types"}}
	res = r.ResolveTypeReferenceDirective("custom", "/proj/src/a.ts", opts)
	if res.FileName != "/proj/types/custom/index.d.ts" || !res.Primary {
		t.Errorf("Expected custom type root, got %+v", res)
	}
}

func TestIsRelativeName(t *testing.T) {
	for name, want := range map[string]bool{
		"./a": true, "../a": true, "/abs": true, ".": true,
		"pkg": false, "@scope/pkg": false,
	} {
		if got := resolution.IsRelativeName(name); got != want {
			t.Errorf("IsRelativeName(%q) = %v", name, got)
		}
	}
}
