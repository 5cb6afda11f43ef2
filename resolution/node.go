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

package resolution

import (
	"path"
	"strings"

	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/packagejson"
)

// Options are the compiler settings that influence resolution.
type Options struct {
	BaseURL           string
	Paths             map[string][]string
	TypeRoots         []string
	AllowJS           bool
	ResolveJSONModule bool
	// Conditions overrides packagejson.DefaultConditions for exports maps.
	Conditions []string
}

// Oracle answers resolution queries. Implementations must be deterministic
// for a given file system state.
type Oracle interface {
	ResolveModuleName(name, containingFile string, opts *Options) Resolution
	ResolveTypeReferenceDirective(name, containingFile string, opts *Options) Resolution
}

// NodeResolver resolves names the way the node10 strategy does for
// declaration-aware tooling: relative paths, paths/baseUrl mappings, then a
// node_modules walk that prefers declaration files and @types packages.
type NodeResolver struct {
	fs       fs.FileSystem
	packages packagejson.Cache
}

// NewNodeResolver returns a resolver reading from fsys.
func NewNodeResolver(fsys fs.FileSystem) *NodeResolver {
	return &NodeResolver{fs: fsys, packages: packagejson.NewMemoryCache()}
}

// WithPackageCache returns a copy of the resolver that shares cache.
func (r *NodeResolver) WithPackageCache(cache packagejson.Cache) *NodeResolver {
	return &NodeResolver{fs: r.fs, packages: cache}
}

// PackageCache returns the package.json cache, for invalidation by watchers.
func (r *NodeResolver) PackageCache() packagejson.Cache { return r.packages }

var (
	tsExtensions  = []string{".ts", ".tsx", ".d.ts"}
	jsExtensions  = []string{".js", ".jsx"}
	jsToTS        = map[string][]string{".js": {".ts", ".tsx", ".d.ts"}, ".jsx": {".tsx", ".d.ts"}, ".mjs": {".mts", ".d.mts"}, ".cjs": {".cts", ".d.cts"}}
	knownTSSuffix = []string{".d.ts", ".d.mts", ".d.cts", ".ts", ".tsx", ".mts", ".cts"}
)

// IsRelativeName reports whether name is resolved against the containing
// file's directory.
func IsRelativeName(name string) bool {
	return name == "." || name == ".." ||
		strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") ||
		strings.HasPrefix(name, "/")
}

// ResolveModuleName implements Oracle.
func (r *NodeResolver) ResolveModuleName(name, containingFile string, opts *Options) Resolution {
	if opts == nil {
		opts = &Options{}
	}
	dir := path.Dir(containingFile)
	if IsRelativeName(name) {
		candidate := name
		if !path.IsAbs(name) {
			candidate = path.Join(dir, name)
		}
		return r.primary(r.loadFileOrDirectory(candidate, opts))
	}
	if res, ok := r.tryPaths(name, opts); ok {
		return res
	}
	if opts.BaseURL != "" {
		if file := r.loadFileOrDirectory(path.Join(opts.BaseURL, name), opts); file != "" {
			return r.primary(file)
		}
	}
	return r.loadFromNodeModules(name, dir, opts, false)
}

// ResolveTypeReferenceDirective implements Oracle. Type roots give primary
// results; a node_modules walk from the containing file gives secondary ones.
func (r *NodeResolver) ResolveTypeReferenceDirective(name, containingFile string, opts *Options) Resolution {
	if opts == nil {
		opts = &Options{}
	}
	dir := path.Dir(containingFile)
	roots := opts.TypeRoots
	if roots == nil {
		roots = defaultTypeRoots(dir)
	}
	for _, root := range roots {
		candidate := path.Join(root, name)
		if file := r.loadDirectory(candidate, opts, true); file != "" {
			res := r.withPackage(file, candidate)
			res.Primary = true
			return res
		}
		if file := r.loadFile(candidate, opts, true); file != "" {
			return Resolution{FileName: file, Primary: true, Extension: extensionOf(file)}
		}
	}
	return r.loadFromNodeModules(name, dir, opts, true)
}

func defaultTypeRoots(dir string) []string {
	var roots []string
	for d := dir; ; d = path.Dir(d) {
		roots = append(roots, path.Join(d, "node_modules", "@types"))
		if parent := path.Dir(d); parent == d {
			break
		}
	}
	return roots
}

func (r *NodeResolver) primary(file string) Resolution {
	if file == "" {
		return Unresolved
	}
	return Resolution{FileName: file, Primary: true, Extension: extensionOf(file)}
}

func (r *NodeResolver) tryPaths(name string, opts *Options) (Resolution, bool) {
	if len(opts.Paths) == 0 {
		return Unresolved, false
	}
	base := opts.BaseURL
	if base == "" {
		base = "."
	}
	pattern, match := matchPathPattern(opts.Paths, name)
	if pattern == "" {
		return Unresolved, false
	}
	for _, target := range opts.Paths[pattern] {
		candidate := path.Join(base, strings.Replace(target, "*", match, 1))
		if file := r.loadFileOrDirectory(candidate, opts); file != "" {
			return r.primary(file), true
		}
	}
	return Unresolved, true
}

// matchPathPattern picks the exact key, else the "*" key with the longest
// prefix that matches name.
func matchPathPattern(paths map[string][]string, name string) (pattern, match string) {
	if _, ok := paths[name]; ok {
		return name, ""
	}
	best := -1
	for key := range paths {
		star := strings.IndexByte(key, '*')
		if star < 0 {
			continue
		}
		prefix, suffix := key[:star], key[star+1:]
		if len(name) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) &&
			len(prefix) > best {
			best = len(prefix)
			pattern = key
			match = name[len(prefix) : len(name)-len(suffix)]
		}
	}
	return pattern, match
}

func (r *NodeResolver) loadFileOrDirectory(candidate string, opts *Options) string {
	if file := r.loadFile(candidate, opts, false); file != "" {
		return file
	}
	return r.loadDirectory(candidate, opts, false)
}

func (r *NodeResolver) isFile(p string) bool { return fs.IsFile(r.fs, p) }

func (r *NodeResolver) loadFile(candidate string, opts *Options, typesOnly bool) string {
	for _, suffix := range knownTSSuffix {
		if strings.HasSuffix(candidate, suffix) {
			if !typesOnly || strings.Contains(suffix, ".d.") {
				if r.isFile(candidate) {
					return candidate
				}
			}
			return ""
		}
	}
	if ext := path.Ext(candidate); ext != "" {
		if replacements, ok := jsToTS[ext]; ok {
			stem := strings.TrimSuffix(candidate, ext)
			for _, repl := range replacements {
				if typesOnly && !strings.HasPrefix(repl, ".d.") {
					continue
				}
				if r.isFile(stem + repl) {
					return stem + repl
				}
			}
			if opts.AllowJS && !typesOnly && r.isFile(candidate) {
				return candidate
			}
			return ""
		}
		if ext == ".json" {
			if opts.ResolveJSONModule && !typesOnly && r.isFile(candidate) {
				return candidate
			}
			return ""
		}
	}
	exts := tsExtensions
	if typesOnly {
		exts = []string{".d.ts"}
	} else if opts.AllowJS {
		exts = append(append([]string(nil), tsExtensions...), jsExtensions...)
	}
	for _, ext := range exts {
		if r.isFile(candidate + ext) {
			return candidate + ext
		}
	}
	return ""
}

func (r *NodeResolver) packageJSON(dir string) *packagejson.PackageJSON {
	p := path.Join(dir, "package.json")
	pkg, err := r.packages.Load(p, func() (*packagejson.PackageJSON, error) {
		return packagejson.ParseFile(r.fs, p)
	})
	if err != nil {
		return nil
	}
	return pkg
}

func (r *NodeResolver) loadDirectory(dir string, opts *Options, typesOnly bool) string {
	if !fs.IsDir(r.fs, dir) {
		return ""
	}
	if pkg := r.packageJSON(dir); pkg != nil {
		if entry := pkg.TypesEntry(); entry != "" {
			if file := r.loadFile(path.Join(dir, entry), opts, typesOnly); file != "" {
				return file
			}
		}
		if target, err := pkg.ResolveExport(".", &packagejson.ResolveOptions{Conditions: opts.Conditions}); err == nil {
			if file := r.loadFile(path.Join(dir, target), opts, typesOnly); file != "" {
				return file
			}
		}
		if pkg.Main != "" {
			main := path.Join(dir, pkg.Main)
			if file := r.loadFile(main, opts, typesOnly); file != "" {
				return file
			}
			if file := r.loadFile(strings.TrimSuffix(main, path.Ext(main)), opts, typesOnly); file != "" {
				return file
			}
		}
	}
	return r.loadFile(path.Join(dir, "index"), opts, typesOnly)
}

// splitPackageName splits "pkg/sub" and "@scope/pkg/sub" into package name
// and subpath.
func splitPackageName(name string) (pkg, sub string) {
	parts := strings.SplitN(name, "/", 3)
	if strings.HasPrefix(name, "@") && len(parts) >= 2 {
		pkg = parts[0] + "/" + parts[1]
		if len(parts) == 3 {
			sub = parts[2]
		}
		return pkg, sub
	}
	pkg, sub, _ = strings.Cut(name, "/")
	return pkg, sub
}

// typesPackageName maps "@scope/pkg" to "scope__pkg".
func typesPackageName(pkg string) string {
	if strings.HasPrefix(pkg, "@") {
		return strings.Replace(strings.TrimPrefix(pkg, "@"), "/", "__", 1)
	}
	return pkg
}

func (r *NodeResolver) loadFromNodeModules(name, dir string, opts *Options, typesOnly bool) Resolution {
	pkgName, sub := splitPackageName(name)
	for d := dir; ; d = path.Dir(d) {
		modules := path.Join(d, "node_modules")
		if fs.IsDir(r.fs, modules) {
			if res, ok := r.loadFromPackage(path.Join(modules, pkgName), sub, opts, typesOnly); ok {
				return res
			}
			if res, ok := r.loadFromPackage(path.Join(modules, "@types", typesPackageName(pkgName)), sub, opts, true); ok {
				return res
			}
		}
		if parent := path.Dir(d); parent == d {
			break
		}
	}
	return Unresolved
}

func (r *NodeResolver) loadFromPackage(pkgDir, sub string, opts *Options, typesOnly bool) (Resolution, bool) {
	if !fs.IsDir(r.fs, pkgDir) {
		return Unresolved, false
	}
	var file string
	if sub == "" {
		file = r.loadDirectory(pkgDir, opts, typesOnly)
	} else {
		if pkg := r.packageJSON(pkgDir); pkg != nil && pkg.Exports != nil {
			if target, err := pkg.ResolveExport("./"+sub, &packagejson.ResolveOptions{Conditions: opts.Conditions}); err == nil {
				file = r.loadFile(path.Join(pkgDir, target), opts, typesOnly)
			}
		}
		if file == "" {
			file = r.loadFile(path.Join(pkgDir, sub), opts, typesOnly)
		}
		if file == "" {
			file = r.loadDirectory(path.Join(pkgDir, sub), opts, typesOnly)
		}
	}
	if file == "" {
		return Unresolved, false
	}
	return r.withPackage(file, pkgDir), true
}

func (r *NodeResolver) withPackage(file, pkgDir string) Resolution {
	res := Resolution{FileName: file, Extension: extensionOf(file), External: strings.Contains(file, "/node_modules/") || strings.HasPrefix(file, "node_modules/")}
	if pkg := r.packageJSON(pkgDir); pkg != nil && pkg.Name != "" && pkg.Version != "" {
		res.Package = PackageID{
			Name:          pkg.Name,
			SubModuleName: strings.TrimPrefix(file, pkgDir+"/"),
			Version:       pkg.Version,
		}
	}
	return res
}

func extensionOf(file string) string {
	for _, suffix := range knownTSSuffix {
		if strings.HasSuffix(file, suffix) {
			return suffix
		}
	}
	return path.Ext(file)
}
