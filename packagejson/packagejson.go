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

// Package packagejson reads the package.json fields that drive TypeScript
// module resolution: declaration entry points and conditional exports.
package packagejson

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"bennypowers.dev/tsincr/fs"
)

// ErrNotExported is returned when a subpath is not exported by the package.
var ErrNotExported = errors.New("not exported by package.json")

// DefaultConditions is the export condition priority used when resolving
// declaration files.
var DefaultConditions = []string{"types", "import", "require", "default"}

// ResolveOptions configures how conditional exports are resolved.
type ResolveOptions struct {
	// Conditions is the ordered list of conditions to try. If nil, defaults
	// to DefaultConditions.
	Conditions []string
}

// PackageJSON is the subset of package.json used by module resolution.
type PackageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Types   string `json:"types,omitempty"`
	Typings string `json:"typings,omitempty"`
	Main    string `json:"main,omitempty"`
	Module  string `json:"module,omitempty"`
	Exports any    `json:"exports,omitempty"`
}

// Parse parses package.json data.
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ParseFile parses a package.json file.
func ParseFile(fs fs.FileSystem, path string) (*PackageJSON, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// TypesEntry returns the declaration entry point named by "types" or
// "typings", without a leading "./".
func (pkg *PackageJSON) TypesEntry() string {
	if pkg.Types != "" {
		return trimDotSlash(pkg.Types)
	}
	return trimDotSlash(pkg.Typings)
}

// ResolveExport resolves a subpath export to its target file path.
// The subpath should be "." for the main export or "./subpath" for subpath
// exports; "*" patterns in the exports map are honored. Returns the resolved
// path without leading "./". Pass nil for opts to use DefaultConditions.
func (pkg *PackageJSON) ResolveExport(subpath string, opts *ResolveOptions) (string, error) {
	if pkg.Exports == nil {
		if pkg.Main != "" && subpath == "." {
			return trimDotSlash(pkg.Main), nil
		}
		return "", ErrNotExported
	}

	if exportStr, ok := pkg.Exports.(string); ok {
		if subpath == "." {
			return trimDotSlash(exportStr), nil
		}
		return "", ErrNotExported
	}

	exportsMap, ok := pkg.Exports.(map[string]any)
	if !ok {
		if arr, ok := pkg.Exports.([]any); ok && subpath == "." {
			return resolveExportValue(arr, opts)
		}
		return "", ErrNotExported
	}

	hasSubpaths := false
	for key := range exportsMap {
		if strings.HasPrefix(key, ".") {
			hasSubpaths = true
			break
		}
	}
	if !hasSubpaths {
		if subpath == "." {
			return resolveConditions(exportsMap, opts)
		}
		return "", ErrNotExported
	}

	if exportValue, ok := exportsMap[subpath]; ok {
		return resolveExportValue(exportValue, opts)
	}
	return resolvePattern(exportsMap, subpath, opts)
}

// resolvePattern matches subpath against "./prefix*suffix" keys, preferring
// the longest prefix.
func resolvePattern(exportsMap map[string]any, subpath string, opts *ResolveOptions) (string, error) {
	var patterns []string
	for key := range exportsMap {
		if strings.Count(key, "*") == 1 {
			patterns = append(patterns, key)
		}
	}
	sort.Slice(patterns, func(i, j int) bool {
		return strings.Index(patterns[i], "*") > strings.Index(patterns[j], "*")
	})
	for _, pattern := range patterns {
		star := strings.Index(pattern, "*")
		prefix, suffix := pattern[:star], pattern[star+1:]
		if len(subpath) < len(prefix)+len(suffix) ||
			!strings.HasPrefix(subpath, prefix) || !strings.HasSuffix(subpath, suffix) {
			continue
		}
		match := subpath[len(prefix) : len(subpath)-len(suffix)]
		target, err := resolveExportValue(exportsMap[pattern], opts)
		if err != nil {
			continue
		}
		return strings.ReplaceAll(target, "*", match), nil
	}
	return "", ErrNotExported
}

func resolveExportValue(value any, opts *ResolveOptions) (string, error) {
	switch v := value.(type) {
	case string:
		return trimDotSlash(v), nil
	case map[string]any:
		return resolveConditions(v, opts)
	case []any:
		for _, item := range v {
			if result, err := resolveExportValue(item, opts); err == nil {
				return result, nil
			}
		}
	}
	return "", ErrNotExported
}

// resolveConditions tries each condition in order, recursing into nested maps.
func resolveConditions(conditions map[string]any, opts *ResolveOptions) (string, error) {
	conditionList := DefaultConditions
	if opts != nil && len(opts.Conditions) > 0 {
		conditionList = opts.Conditions
	}
	for _, cond := range conditionList {
		if value, ok := conditions[cond]; ok {
			if result, err := resolveExportValue(value, opts); err == nil {
				return result, nil
			}
		}
	}
	return "", ErrNotExported
}

func trimDotSlash(path string) string {
	return strings.TrimPrefix(path, "./")
}
