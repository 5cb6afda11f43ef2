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

// Package resolution maps module and type-reference names to files and
// carries those mappings from one program to the next.
package resolution

import (
	"maps"
	"slices"
)

// PackageID identifies a file inside a versioned npm package.
type PackageID struct {
	Name          string
	SubModuleName string
	Version       string
}

// IsZero reports whether the resolution did not come from a package.
func (id PackageID) IsZero() bool { return id.Name == "" }

// Key renders the id as name/sub@version.
func (id PackageID) Key() string {
	if id.SubModuleName == "" {
		return id.Name + "@" + id.Version
	}
	return id.Name + "/" + id.SubModuleName + "@" + id.Version
}

// Resolution is the outcome of resolving one name. The zero value is
// Unresolved.
type Resolution struct {
	// FileName is the resolved file. For duplicate packages it is the
	// canonical copy.
	FileName string `json:"fileName,omitempty"`
	// OriginalPath is the copy actually found when FileName is a redirect.
	OriginalPath string `json:"originalPath,omitempty"`
	// Primary is set for type references found through typeRoots and for
	// modules outside node_modules.
	Primary   bool   `json:"primary,omitempty"`
	Extension string `json:"extension,omitempty"`
	// External marks files found under node_modules.
	External bool      `json:"external,omitempty"`
	Package  PackageID `json:"packageId,omitzero"`
	// AmbientIn names the file whose `declare module` block satisfied a
	// module name nothing on disk did.
	AmbientIn string `json:"ambientIn,omitempty"`
}

// Unresolved is the value recorded for names that resolve to nothing.
var Unresolved = Resolution{}

// IsResolved reports whether the name resolved to a file or an ambient module.
func (r Resolution) IsResolved() bool {
	return r.FileName != "" || r.AmbientIn != ""
}

// FileResolutions holds everything one file resolved.
type FileResolutions struct {
	Modules        map[string]Resolution `json:"modules,omitempty"`
	TypeReferences map[string]Resolution `json:"typeReferences,omitempty"`
}

// NewFileResolutions returns empty maps.
func NewFileResolutions() *FileResolutions {
	return &FileResolutions{
		Modules:        make(map[string]Resolution),
		TypeReferences: make(map[string]Resolution),
	}
}

// Equal reports whether both hold identical entries.
func (fr *FileResolutions) Equal(other *FileResolutions) bool {
	if fr == nil || other == nil {
		return fr == other
	}
	return maps.Equal(fr.Modules, other.Modules) && maps.Equal(fr.TypeReferences, other.TypeReferences)
}

// Cache maps each file of a program to its resolutions. A cache is filled
// while its program is built and only read afterwards.
type Cache struct {
	files map[string]*FileResolutions
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{files: make(map[string]*FileResolutions)}
}

// Get returns the resolutions recorded for path.
func (c *Cache) Get(path string) (*FileResolutions, bool) {
	if c == nil {
		return nil, false
	}
	fr, ok := c.files[path]
	return fr, ok
}

// Set records the resolutions of path.
func (c *Cache) Set(path string, fr *FileResolutions) {
	c.files[path] = fr
}

// Files returns the cached file names, sorted.
func (c *Cache) Files() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.files))
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.files)
}

// Equal reports whether both caches hold identical entries for the same files.
func (c *Cache) Equal(other *Cache) bool {
	if c.Len() != other.Len() {
		return false
	}
	for path, fr := range c.files {
		o, ok := other.Get(path)
		if !ok || !fr.Equal(o) {
			return false
		}
	}
	return true
}
