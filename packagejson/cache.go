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

package packagejson

import (
	"errors"
	"io/fs"
	"maps"
	"sync"
)

// Cache holds parsed package.json files by path. A path known to have no
// package.json is cached as a nil entry so directory walks stay cheap.
type Cache interface {
	// Load returns the cached package for path, calling load on a miss.
	// A load error wrapping fs.ErrNotExist is cached as "no package".
	Load(path string, load func() (*PackageJSON, error)) (*PackageJSON, error)

	// Invalidate drops the entry for path, typically after the file changed.
	Invalidate(path string)

	// InvalidateMissing drops every entry recorded as having no package,
	// typically after packages were installed.
	InvalidateMissing()
}

// MemoryCache is a thread-safe in-memory Cache.
type MemoryCache struct {
	mu    sync.Mutex
	cache map[string]*PackageJSON
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{cache: make(map[string]*PackageJSON)}
}

// Load implements Cache.
func (c *MemoryCache) Load(path string, load func() (*PackageJSON, error)) (*PackageJSON, error) {
	c.mu.Lock()
	pkg, ok := c.cache[path]
	c.mu.Unlock()
	if ok {
		return pkg, nil
	}

	pkg, err := load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	c.mu.Lock()
	c.cache[path] = pkg
	c.mu.Unlock()
	return pkg, nil
}

// Invalidate implements Cache.
func (c *MemoryCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.cache, path)
	c.mu.Unlock()
}

// InvalidateMissing implements Cache.
func (c *MemoryCache) InvalidateMissing() {
	c.mu.Lock()
	maps.DeleteFunc(c.cache, func(_ string, pkg *PackageJSON) bool { return pkg == nil })
	c.mu.Unlock()
}

// Len returns the number of cached entries, misses included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
