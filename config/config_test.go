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

package config_test

import (
	"errors"
	"slices"
	"testing"

	"bennypowers.dev/tsincr/config"
	"bennypowers.dev/tsincr/internal/mapfs"
)

func projectFS() *mapfs.MapFileSystem {
	mfs := mapfs.New()
	mfs.AddFile("/proj/tsincr.json", `{
  "include": ["src/**/*.ts"],
  "exclude": ["**/*.test.ts"],
  "files": ["extra/globals.d.ts"],
  "compilerOptions": {"module": "esnext", "types": ["node"], "noResolve": true},
  "format": {"indentSize": 2}
}`, 0644)
	mfs.AddFile("/proj/src/a.ts", "export {};\n", 0644)
	mfs.AddFile("/proj/src/nested/b.ts", "export {};\n", 0644)
	mfs.AddFile("/proj/src/a.test.ts", "export {};\n", 0644)
	mfs.AddFile("/proj/src/readme.md", "# hi\n", 0644)
	mfs.AddFile("/proj/extra/globals.d.ts", "declare const x: number;\n", 0644)
	return mfs
}

func TestLoad(t *testing.T) {
	p, err := config.Load(projectFS(), "/proj")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.CompilerOptions.Module != "esnext" || !p.CompilerOptions.NoResolve {
		t.Errorf("Unexpected compiler options %+v", p.CompilerOptions)
	}
	if !slices.Equal(p.CompilerOptions.Types, []string{"node"}) {
		t.Errorf("Expected types [node], got %v", p.CompilerOptions.Types)
	}
	if p.CompilerOptions.ConfigFilePath != "/proj/tsincr.json" {
		t.Errorf("Expected config file path to default to the project file, got %q", p.CompilerOptions.ConfigFilePath)
	}
	if p.Format.IndentSize != 2 || p.Format.TabSize != 4 || !p.Format.ConvertTabsToSpaces {
		t.Errorf("Expected indentSize 2 with default tab settings, got %+v", p.Format)
	}
}

func TestRootNames(t *testing.T) {
	mfs := projectFS()
	p, err := config.Load(mfs, "/proj")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	roots, err := p.RootNames(mfs)
	if err != nil {
		t.Fatalf("RootNames failed: %v", err)
	}
	want := []string{"/proj/extra/globals.d.ts", "/proj/src/a.ts", "/proj/src/nested/b.ts"}
	if !slices.Equal(roots, want) {
		t.Errorf("Expected %v, got %v", want, roots)
	}
}

func TestMatches(t *testing.T) {
	mfs := projectFS()
	p, err := config.Load(mfs, "/proj")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for name, want := range map[string]bool{
		"/proj/src/new.ts":          true,
		"/proj/src/a.test.ts":       false,
		"/proj/extra/globals.d.ts":  true,
		"/proj/other/c.ts":          false,
		"/elsewhere/src/a.ts":       false,
		"/proj/src/deep/er/file.ts": true,
	} {
		if got := p.Matches(name); got != want {
			t.Errorf("Matches(%s): expected %v, got %v", name, want, got)
		}
	}
}

func TestDefaults(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/p/tsincr.json", `{}`, 0644)
	mfs.AddFile("/p/a.ts", "", 0644)
	mfs.AddFile("/p/node_modules/x/index.ts", "", 0644)
	p, err := config.Load(mfs, "/p")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	roots, err := p.RootNames(mfs)
	if err != nil {
		t.Fatalf("RootNames failed: %v", err)
	}
	if !slices.Equal(roots, []string{"/p/a.ts"}) {
		t.Errorf("Expected node_modules to be excluded by default, got %v", roots)
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := config.Load(mapfs.New(), "/nowhere")
	if !errors.Is(err, config.ErrNoConfig) {
		t.Errorf("Expected ErrNoConfig, got %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	p, err := config.Find(projectFS(), "/proj/src/nested")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if p.Dir != "/proj" {
		t.Errorf("Expected /proj, got %s", p.Dir)
	}
	if _, err := config.Find(projectFS(), "/other"); !errors.Is(err, config.ErrNoConfig) {
		t.Errorf("Expected ErrNoConfig, got %v", err)
	}
}
