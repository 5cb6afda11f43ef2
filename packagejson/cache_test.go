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

package packagejson_test

import (
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"

	"bennypowers.dev/tsincr/packagejson"
)

func TestMemoryCacheLoad(t *testing.T) {
	cache := packagejson.NewMemoryCache()

	var loads atomic.Int32
	loader := func() (*packagejson.PackageJSON, error) {
		loads.Add(1)
		return &packagejson.PackageJSON{Name: "lib", Version: "1.0.0"}, nil
	}

	first, err := cache.Load("/node_modules/lib/package.json", loader)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := cache.Load("/node_modules/lib/package.json", loader)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if first != second {
		t.Error("Expected the cached package on the second load")
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("Expected one load, got %d", n)
	}
}

func TestMemoryCacheRemembersMissing(t *testing.T) {
	cache := packagejson.NewMemoryCache()

	var loads atomic.Int32
	missing := func() (*packagejson.PackageJSON, error) {
		loads.Add(1)
		return nil, fs.ErrNotExist
	}
	for range 2 {
		pkg, err := cache.Load("/src/package.json", missing)
		if err != nil || pkg != nil {
			t.Fatalf("Expected no package and no error, got %v, %v", pkg, err)
		}
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("Expected the miss to be cached, got %d loads", n)
	}
	if cache.Len() != 1 {
		t.Errorf("Expected one entry, got %d", cache.Len())
	}
}

func TestMemoryCacheDoesNotCacheErrors(t *testing.T) {
	cache := packagejson.NewMemoryCache()
	broken := errors.New("bad json")

	_, err := cache.Load("/package.json", func() (*packagejson.PackageJSON, error) { return nil, broken })
	if !errors.Is(err, broken) {
		t.Fatalf("Expected the load error, got %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Expected nothing cached, got %d entries", cache.Len())
	}
}

func TestMemoryCacheInvalidateMissing(t *testing.T) {
	cache := packagejson.NewMemoryCache()
	found := func() (*packagejson.PackageJSON, error) {
		return &packagejson.PackageJSON{Name: "lib", Version: "1.0.0"}, nil
	}
	missing := func() (*packagejson.PackageJSON, error) { return nil, fs.ErrNotExist }

	if _, err := cache.Load("/node_modules/lib/package.json", found); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load("/node_modules/new/package.json", missing); err != nil {
		t.Fatal(err)
	}
	cache.InvalidateMissing()
	if cache.Len() != 1 {
		t.Fatalf("Expected only the found package to stay, got %d entries", cache.Len())
	}
	pkg, err := cache.Load("/node_modules/new/package.json", found)
	if err != nil || pkg == nil || pkg.Name != "lib" {
		t.Errorf("Expected the package to load after installation, got %v, %v", pkg, err)
	}
}

func TestMemoryCacheInvalidateAllowsReload(t *testing.T) {
	cache := packagejson.NewMemoryCache()
	version := "1.0.0"
	loader := func() (*packagejson.PackageJSON, error) {
		return &packagejson.PackageJSON{Name: "lib", Version: version}, nil
	}

	if _, err := cache.Load("/package.json", loader); err != nil {
		t.Fatal(err)
	}
	version = "2.0.0"
	cache.Invalidate("/package.json")
	cache.Invalidate("/nonexistent/package.json")

	pkg, err := cache.Load("/package.json", loader)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.Version != "2.0.0" {
		t.Errorf("Expected the reloaded version, got %s", pkg.Version)
	}
}

func TestMemoryCacheConcurrency(t *testing.T) {
	var _ packagejson.Cache = (*packagejson.MemoryCache)(nil)
	cache := packagejson.NewMemoryCache()

	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			path := "/path/to/package.json"
			_, _ = cache.Load(path, func() (*packagejson.PackageJSON, error) {
				return &packagejson.PackageJSON{Name: "test"}, nil
			})
			cache.Invalidate(path)
		})
	}
	wg.Wait()
}
