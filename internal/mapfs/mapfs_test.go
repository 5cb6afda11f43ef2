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

package mapfs_test

import (
	"errors"
	"io/fs"
	"testing"

	tsfs "bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/internal/mapfs"
)

func TestRootedNames(t *testing.T) {
	var _ tsfs.FileSystem = mapfs.New()
	m := mapfs.New()
	m.AddFile("/src/a.ts", "a", 0644)

	for _, name := range []string{"/src/a.ts", "src/a.ts", "/src/../src/a.ts"} {
		data, err := m.ReadFile(name)
		if err != nil || string(data) != "a" {
			t.Errorf("ReadFile(%q) = %q, %v", name, data, err)
		}
	}
	if !tsfs.IsDir(m, "/src") || !tsfs.IsDir(m, "/") {
		t.Error("Expected implicit directories")
	}
	if !m.Exists("/src") || m.Exists("/lib") {
		t.Error("Unexpected Exists result")
	}
	entries, err := m.ReadDir("/src")
	if err != nil || len(entries) != 1 || entries[0].Name() != "a.ts" {
		t.Errorf("Unexpected entries %v, %v", entries, err)
	}
}

func TestModTimeAdvances(t *testing.T) {
	m := mapfs.New()
	m.AddFile("/a.ts", "1", 0644)
	before, err := m.Stat("/a.ts")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.WriteFile("/a.ts", []byte("2"), 0644); err != nil {
		t.Fatal(err)
	}
	after, err := m.Stat("/a.ts")
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().After(before.ModTime()) {
		t.Errorf("Expected a newer ModTime, got %v then %v", before.ModTime(), after.ModTime())
	}
}

func TestRemove(t *testing.T) {
	m := mapfs.New()
	m.AddFile("/a.ts", "", 0644)
	if err := m.Remove("/a.ts"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := m.Remove("/a.ts"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func TestWriteUnderFile(t *testing.T) {
	m := mapfs.New()
	m.AddFile("/a.ts", "", 0644)
	if err := m.WriteFile("/a.ts/b.ts", nil, 0644); err == nil {
		t.Error("Expected an error writing below a file")
	}
	if err := m.MkdirAll("/a.ts", 0755); err == nil {
		t.Error("Expected an error creating a directory over a file")
	}
	if err := m.MkdirAll("/dir", 0755); err != nil || !tsfs.IsDir(m, "/dir") {
		t.Errorf("Expected /dir to be created, got %v", err)
	}
}
