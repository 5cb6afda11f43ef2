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

// Package config loads tsincr.json project files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"bennypowers.dev/tsincr/format"
	tsfs "bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/program"
)

// FileName is the name of the project file looked up in a directory.
const FileName = "tsincr.json"

// ErrNoConfig is returned when a directory has no project file.
var ErrNoConfig = errors.New("no " + FileName + " found")

// DefaultInclude is used when a project names neither files nor includes.
var DefaultInclude = []string{"**/*.ts", "**/*.tsx"}

// DefaultExclude always applies unless the project overrides it.
var DefaultExclude = []string{"**/node_modules/**"}

// Project is a parsed project file.
type Project struct {
	// Dir is the directory holding the project file. Relative names in the
	// project are resolved against it.
	Dir string `mapstructure:"-" json:"dir" yaml:"dir"`
	// Path is the project file itself.
	Path string `mapstructure:"-" json:"path" yaml:"path"`

	Files           []string                `mapstructure:"files" json:"files,omitempty" yaml:"files,omitempty"`
	Include         []string                `mapstructure:"include" json:"include,omitempty" yaml:"include,omitempty"`
	Exclude         []string                `mapstructure:"exclude" json:"exclude,omitempty" yaml:"exclude,omitempty"`
	CompilerOptions program.CompilerOptions `mapstructure:"compilerOptions" json:"compilerOptions" yaml:"compilerOptions"`
	Format          format.Settings         `mapstructure:"format" json:"format" yaml:"format"`
}

// Load reads the project file in dir. Viper folds key case, so keys of
// compilerOptions.paths are matched case-insensitively.
func Load(fsys tsfs.FileSystem, dir string) (*Project, error) {
	file := path.Join(dir, FileName)
	data, err := fsys.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoConfig, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("exclude", DefaultExclude)
	defaults := format.DefaultSettings()
	v.SetDefault("format.indentSize", defaults.IndentSize)
	v.SetDefault("format.tabSize", defaults.TabSize)
	v.SetDefault("format.convertTabsToSpaces", defaults.ConvertTabsToSpaces)
	v.SetDefault("format.newLineCharacter", defaults.NewLineCharacter)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	p := &Project{Dir: dir, Path: file}
	if err := v.Unmarshal(p); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}
	if len(p.Files) == 0 && len(p.Include) == 0 {
		p.Include = DefaultInclude
	}
	p.Format = p.Format.WithDefaults()
	if p.CompilerOptions.ConfigFilePath == "" {
		p.CompilerOptions.ConfigFilePath = file
	}
	return p, nil
}

// Find walks up from dir to the nearest directory holding a project file.
func Find(fsys tsfs.FileSystem, dir string) (*Project, error) {
	for cur := path.Clean(dir); ; cur = path.Dir(cur) {
		if tsfs.IsFile(fsys, path.Join(cur, FileName)) {
			return Load(fsys, cur)
		}
		if parent := path.Dir(cur); parent == cur {
			return nil, fmt.Errorf("%w in %s or its parents", ErrNoConfig, dir)
		}
	}
}

// RootNames expands the project's files and include globs into sorted,
// absolute file names. Excludes apply to globbed files only.
func (p *Project) RootNames(fsys tsfs.FileSystem) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(rel string) {
		full := path.Join(p.Dir, rel)
		if !seen[full] {
			seen[full] = true
			out = append(out, full)
		}
	}
	for _, f := range p.Files {
		add(f)
	}

	dirFS := tsfs.DirFS(fsys, p.Dir)
	for _, pattern := range p.Include {
		matches, err := doublestar.Glob(dirFS, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding include %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !p.excluded(m) {
				add(m)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func (p *Project) excluded(rel string) bool {
	for _, pattern := range p.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Matches reports whether the absolute name would be a root of p, by the
// include and exclude globs or the files list.
func (p *Project) Matches(name string) bool {
	rel, ok := relativeTo(p.Dir, name)
	if !ok {
		return false
	}
	if slices.ContainsFunc(p.Files, func(f string) bool { return path.Clean(f) == rel }) {
		return true
	}
	if p.excluded(rel) {
		return false
	}
	for _, pattern := range p.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func relativeTo(dir, name string) (string, bool) {
	dir, name = path.Clean(dir), path.Clean(name)
	if dir == "." {
		return name, !path.IsAbs(name)
	}
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return "", false
	}
	return name[len(prefix):], true
}
