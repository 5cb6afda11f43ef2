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

// Package host serves source file snapshots read from a FileSystem and keeps
// per-file versions across reads.
package host

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/internal/logging"
	"bennypowers.dev/tsincr/snapshot"
)

type entry struct {
	sf      *snapshot.SourceFile
	hash    uint64
	version int
}

// Host reads files on demand. A file's version increases each time its
// content is observed to change; unchanged content yields the same snapshot.
type Host struct {
	fs     fs.FileSystem
	logger logging.Logger

	mu    sync.Mutex
	files map[string]*entry
	// paths serializes parsing per file; different files parse in
	// parallel.
	paths map[string]*sync.Mutex
	// forgotten keeps the last version of dropped files so versions never
	// repeat for one path.
	forgotten map[string]int
}

// New returns a host reading from fsys.
func New(fsys fs.FileSystem) *Host {
	return &Host{
		fs:        fsys,
		files:     make(map[string]*entry),
		paths:     make(map[string]*sync.Mutex),
		forgotten: make(map[string]int),
	}
}

// WithLogger sets the logger and returns h.
func (h *Host) WithLogger(logger logging.Logger) *Host {
	h.logger = logger
	return h
}

// FileSystem returns the underlying file system.
func (h *Host) FileSystem() fs.FileSystem { return h.fs }

// FileExists reports whether path names a regular file.
func (h *Host) FileExists(path string) bool {
	return fs.IsFile(h.fs, path)
}

// GetSourceFile returns the current snapshot of path, parsing it when its
// content changed since the last call.
func (h *Host) GetSourceFile(path string) (*snapshot.SourceFile, bool) {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return nil, false
	}
	sf, err := h.Set(path, string(data))
	if err != nil {
		if h.logger != nil {
			h.logger.Warning("parsing %s: %v", path, err)
		}
		return nil, false
	}
	return sf, true
}

// Set records text as the content of path and returns its snapshot. Text
// equal to the last recorded content returns the existing snapshot.
func (h *Host) Set(path, text string) (*snapshot.SourceFile, error) {
	hash := xxhash.Sum64String(text)
	unlock := h.lockPath(path)
	defer unlock()

	h.mu.Lock()
	e, ok := h.files[path]
	version := h.forgotten[path] + 1
	if ok {
		version = e.version + 1
	}
	h.mu.Unlock()
	if ok && e.hash == hash && e.sf.Text() == text {
		return e.sf, nil
	}

	var (
		sf  *snapshot.SourceFile
		err error
	)
	if ok {
		sf, err = e.sf.Update(text, strconv.Itoa(version))
	} else {
		sf, err = snapshot.New(path, text, strconv.Itoa(version))
	}
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.files[path] = &entry{sf: sf, hash: hash, version: version}
	h.mu.Unlock()
	if ok {
		e.sf.Release()
		if h.logger != nil {
			h.logger.Debug("%s changed, now at version %d", path, version)
		}
	}
	return sf, nil
}

// lockPath locks the parse lock of path and returns its unlock.
func (h *Host) lockPath(path string) func() {
	h.mu.Lock()
	l, ok := h.paths[path]
	if !ok {
		l = new(sync.Mutex)
		h.paths[path] = l
	}
	h.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Version returns the version last served for path.
func (h *Host) Version(path string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.files[path]
	if !ok {
		return "", false
	}
	return strconv.Itoa(e.version), true
}

// Refresh re-reads path and returns its current version. Files that no
// longer exist are forgotten.
func (h *Host) Refresh(path string) (string, bool) {
	if _, ok := h.GetSourceFile(path); !ok {
		h.Forget(path)
		return "", false
	}
	return h.Version(path)
}

// Forget drops the cached snapshot of path.
func (h *Host) Forget(path string) {
	unlock := h.lockPath(path)
	defer unlock()
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.files[path]; ok {
		e.sf.Release()
		h.forgotten[path] = e.version
		delete(h.files, path)
	}
}
