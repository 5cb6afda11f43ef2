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

// Package mapfs provides an in-memory FileSystem for tests. Every mutation
// advances a fake clock, so a rewritten file always reports a newer ModTime.
package mapfs

import (
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"
	"testing/fstest"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// MapFileSystem implements FileSystem over an fstest.MapFS. Names are
// treated as rooted: "a.ts" and "/a.ts" are the same file.
type MapFileSystem struct {
	mu    sync.RWMutex
	files fstest.MapFS
	ticks int
}

// New returns an empty file system.
func New() *MapFileSystem {
	return &MapFileSystem{files: make(fstest.MapFS)}
}

// key maps a rooted name onto the unrooted form MapFS expects; the root
// itself is ".".
func key(name string) string {
	k := strings.TrimPrefix(path.Clean("/"+name), "/")
	if k == "" {
		return "."
	}
	return k
}

func (m *MapFileSystem) tickLocked() time.Time {
	m.ticks++
	return epoch.Add(time.Duration(m.ticks) * time.Second)
}

func (m *MapFileSystem) putLocked(name string, data []byte, mode fs.FileMode) error {
	k := key(name)
	if dir := path.Dir(k); dir != "." {
		if f, ok := m.files[dir]; ok && !f.Mode.IsDir() {
			return &fs.PathError{Op: "write", Path: name, Err: errors.New("parent is not a directory")}
		}
	}
	m.files[k] = &fstest.MapFile{Data: data, Mode: mode, ModTime: m.tickLocked()}
	return nil
}

// AddFile creates or replaces a file. Parent directories are implicit.
func (m *MapFileSystem) AddFile(name, content string, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.putLocked(name, []byte(content), mode)
}

// WriteFile implements FileSystem.
func (m *MapFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(name, append([]byte(nil), data...), perm)
}

// ReadFile implements FileSystem.
func (m *MapFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fs.ReadFile(m.files, key(name))
}

// Remove implements FileSystem. Only files can be removed.
func (m *MapFileSystem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(name)
	if _, ok := m.files[k]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, k)
	m.tickLocked()
	return nil
}

// MkdirAll implements FileSystem by recording an explicit directory entry.
func (m *MapFileSystem) MkdirAll(name string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(name)
	if f, ok := m.files[k]; ok {
		if !f.Mode.IsDir() {
			return &fs.PathError{Op: "mkdir", Path: name, Err: errors.New("not a directory")}
		}
		return nil
	}
	m.files[k] = &fstest.MapFile{Mode: fs.ModeDir | perm.Perm(), ModTime: m.tickLocked()}
	return nil
}

// TempDir implements FileSystem.
func (m *MapFileSystem) TempDir() string { return "/tmp" }

// Stat implements FileSystem.
func (m *MapFileSystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fs.Stat(m.files, key(name))
}

// Exists implements FileSystem. Directories implied by a file exist.
func (m *MapFileSystem) Exists(name string) bool {
	_, err := m.Stat(name)
	return err == nil
}

// ReadDir implements FileSystem.
func (m *MapFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fs.ReadDir(m.files, key(name))
}

// Open implements FileSystem.
func (m *MapFileSystem) Open(name string) (fs.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files.Open(key(name))
}
