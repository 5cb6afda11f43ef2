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

package project_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"bennypowers.dev/tsincr/config"
	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/internal/mapfs"
	"bennypowers.dev/tsincr/program"
	"bennypowers.dev/tsincr/project"
)

func newProject(t *testing.T) (*mapfs.MapFileSystem, *project.Project) {
	t.Helper()
	mfs := mapfs.New()
	mfs.AddFile("/proj/tsincr.json", `{"include": ["src/**/*.ts"]}`, 0644)
	mfs.AddFile("/proj/src/a.ts", "import { b } from './b';\nexport const a = b + 1;\n", 0644)
	mfs.AddFile("/proj/src/b.ts", "export const b = 1;\n", 0644)
	cfg, err := config.Load(mfs, "/proj")
	if err != nil {
		t.Fatalf("Load config failed: %v", err)
	}
	return mfs, project.New(cfg, mfs)
}

func TestLoad(t *testing.T) {
	_, p := newProject(t)
	prog, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"/proj/src/a.ts", "/proj/src/b.ts"}
	if got := prog.RootNames(); !slices.Equal(got, want) {
		t.Errorf("Expected roots %v, got %v", want, got)
	}
	if p.Program() != prog {
		t.Error("Expected Program to return the loaded program")
	}
	if diags := prog.AllDiagnostics(); len(diags) != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags)
	}
}

func TestRebuildUpToDate(t *testing.T) {
	_, p := newProject(t)
	prog, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	b, err := p.Rebuild(context.Background(), []string{"/proj/src/a.ts"})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if b.Rebuilt {
		t.Error("Expected no rebuild for unchanged content")
	}
	if b.Program != prog {
		t.Error("Expected the previous program back")
	}
	if len(b.Changed) != 0 {
		t.Errorf("Expected no changed files, got %v", b.Changed)
	}
}

func TestRebuildBodyEdit(t *testing.T) {
	mfs, p := newProject(t)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	mfs.AddFile("/proj/src/b.ts", "export const b = 2;\n", 0644)

	b, err := p.Rebuild(context.Background(), []string{"/proj/src/b.ts"})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if !b.Rebuilt {
		t.Fatal("Expected a rebuild")
	}
	if b.Program.ReuseState() != program.Completely {
		t.Errorf("Expected Completely, got %s", b.Program.ReuseState())
	}
	if !slices.Equal(b.Changed, []string{"/proj/src/b.ts"}) {
		t.Errorf("Expected b.ts to be reported changed, got %v", b.Changed)
	}
	sf, ok := b.Program.SourceFile("/proj/src/b.ts")
	if !ok || !strings.Contains(sf.Text(), "2") {
		t.Error("Expected the new snapshot of b.ts")
	}
}

func TestRebuildNewRoot(t *testing.T) {
	mfs, p := newProject(t)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	mfs.AddFile("/proj/src/c.ts", "export const c = 3;\n", 0644)

	b, err := p.Rebuild(context.Background(), []string{"/proj/src/c.ts"})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if !b.Rebuilt {
		t.Fatal("Expected a rebuild")
	}
	if b.Program.ReuseState() != program.Not {
		t.Errorf("Expected Not after root names changed, got %s", b.Program.ReuseState())
	}
	if !slices.Contains(b.Program.FilePaths(), "/proj/src/c.ts") {
		t.Errorf("Expected c.ts in %v", b.Program.FilePaths())
	}
}

func TestRebuildDeletedRoot(t *testing.T) {
	mfs, p := newProject(t)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := mfs.Remove("/proj/src/a.ts"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	b, err := p.Rebuild(context.Background(), []string{"/proj/src/a.ts"})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if slices.Contains(b.Program.FilePaths(), "/proj/src/a.ts") {
		t.Errorf("Expected a.ts to be gone from %v", b.Program.FilePaths())
	}
	if _, ok := p.Host().Version("/proj/src/a.ts"); ok {
		t.Error("Expected the host to forget a deleted file")
	}
}

func TestRebuildPackageJSON(t *testing.T) {
	mfs, p := newProject(t)
	mfs.AddFile("/proj/node_modules/lib/package.json", `{"name": "lib", "version": "1.0.0", "types": "index.d.ts"}`, 0644)
	mfs.AddFile("/proj/node_modules/lib/index.d.ts", "export declare const x: number;\n", 0644)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	b, err := p.Rebuild(context.Background(), []string{"/proj/node_modules/lib/package.json"})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if !b.Rebuilt {
		t.Fatal("Expected a package.json change to force a rebuild")
	}
	if b.Program.ReuseState() != program.Not {
		t.Errorf("Expected Not, got %s", b.Program.ReuseState())
	}
}

func TestRebuildPicksUpNewlyResolvableFile(t *testing.T) {
	mfs, p := newProject(t)
	mfs.AddFile("/proj/src/a.ts", "import { b } from './b';\nimport '../lib/later';\n", 0644)
	prog, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(prog.SemanticDiagnostics("/proj/src/a.ts")) != 1 {
		t.Fatalf("Expected ../lib/later to be unresolved, got %v", prog.AllDiagnostics())
	}

	mfs.AddFile("/proj/lib/later.ts", "export {};\n", 0644)
	if !p.Watches("/proj/lib/later.ts") {
		t.Fatal("Expected a new source file outside the include globs to be watched")
	}
	b, err := p.Rebuild(context.Background(), []string{"/proj/lib/later.ts"})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if !b.Rebuilt {
		t.Fatal("Expected a rebuild once ../lib/later resolves")
	}
	if b.Program.ReuseState() != program.SafeModules {
		t.Errorf("Expected SafeModules, got %s", b.Program.ReuseState())
	}
	if !slices.Contains(b.Program.FilePaths(), "/proj/lib/later.ts") {
		t.Errorf("Expected later.ts in %v", b.Program.FilePaths())
	}
	if diags := b.Program.SemanticDiagnostics("/proj/src/a.ts"); len(diags) != 0 {
		t.Errorf("Expected the diagnostic to clear, got %v", diags)
	}
}

func TestRebuildInstalledPackage(t *testing.T) {
	mfs, p := newProject(t)
	mfs.AddFile("/proj/src/a.ts", "import { x } from 'lib';\n", 0644)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	mfs.AddFile("/proj/node_modules/lib/package.json", `{"name": "lib", "version": "1.0.0", "types": "index.d.ts"}`, 0644)
	mfs.AddFile("/proj/node_modules/lib/index.d.ts", "export declare const x: number;\n", 0644)
	if !p.Watches("/proj/node_modules/lib") {
		t.Fatal("Expected a package directory to be watched")
	}
	b, err := p.Rebuild(context.Background(), []string{"/proj/node_modules/lib"})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if !b.Rebuilt {
		t.Fatal("Expected a rebuild after installing a package")
	}
	if !slices.Contains(b.Program.FilePaths(), "/proj/node_modules/lib/index.d.ts") {
		t.Errorf("Expected the package types in %v", b.Program.FilePaths())
	}
	if diags := b.Program.SemanticDiagnostics("/proj/src/a.ts"); len(diags) != 0 {
		t.Errorf("Expected the diagnostic to clear, got %v", diags)
	}
}

func TestRebuildConfigChange(t *testing.T) {
	mfs, p := newProject(t)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	mfs.AddFile("/proj/tsincr.json", `{"include": ["src/**/*.ts"], "compilerOptions": {"module": "commonjs"}}`, 0644)

	b, err := p.Rebuild(context.Background(), []string{"/proj/tsincr.json"})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if p.Config().CompilerOptions.Module != "commonjs" {
		t.Errorf("Expected the reloaded config, got %+v", p.Config().CompilerOptions)
	}
	if !b.Rebuilt || b.Program.ReuseState() != program.Not {
		t.Errorf("Expected a full rebuild, got rebuilt=%v reuse=%s", b.Rebuilt, b.Program.ReuseState())
	}
}

func TestLoadCancelled(t *testing.T) {
	_, p := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestWatches(t *testing.T) {
	_, p := newProject(t)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, name := range []string{"/proj/src/a.ts", "/proj/src/new.ts", "/proj/tsincr.json", "/proj/node_modules/x/package.json"} {
		if !p.Watches(name) {
			t.Errorf("Expected %s to be watched", name)
		}
	}
	for _, name := range []string{"/proj/readme.md", "/other/src/a.ts"} {
		if p.Watches(name) {
			t.Errorf("Expected %s to be ignored", name)
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := filepath.ToSlash(t.TempDir())
	write := func(name, text string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("tsincr.json", `{"include": ["src/**/*.ts"]}`)
	write("src/a.ts", "export const a = 1;\n")

	osfs := fs.NewOSFileSystem()
	cfg, err := config.Load(osfs, dir)
	if err != nil {
		t.Fatalf("Load config failed: %v", err)
	}
	p := project.New(cfg, osfs)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	builds := make(chan project.Build, 4)
	w, err := project.NewWatcher(p, func(b project.Build, err error) {
		if err != nil {
			t.Errorf("Rebuild failed: %v", err)
			return
		}
		select {
		case builds <- b:
		default:
		}
	}, &project.WatchOptions{Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned %v", err)
		}
	}()

	// The watch is registered asynchronously; keep writing until a build
	// arrives.
	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for i := 2; ; i++ {
		select {
		case b := <-builds:
			if !b.Rebuilt {
				t.Fatal("Expected a rebuild")
			}
			if !slices.Contains(b.Changed, dir+"/src/a.ts") {
				t.Errorf("Expected a.ts among changed files, got %v", b.Changed)
			}
			return
		case <-tick.C:
			write("src/a.ts", "export const a = "+strings.Repeat("1", i)+";\n")
		case <-deadline:
			t.Fatal("Timed out waiting for a rebuild")
		}
	}
}

func TestOpenFindsParentConfig(t *testing.T) {
	mfs, _ := newProject(t)
	p, err := project.Open(mfs, "/proj/src")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if p.Config().Dir != "/proj" {
		t.Errorf("Expected /proj, got %s", p.Config().Dir)
	}
	if _, err := project.Open(mfs, "/elsewhere"); !errors.Is(err, config.ErrNoConfig) {
		t.Errorf("Expected ErrNoConfig, got %v", err)
	}
}
