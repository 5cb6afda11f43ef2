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

package program

import (
	"maps"
	"slices"
	"strings"

	"bennypowers.dev/tsincr/resolution"
)

// CompilerOptions are the settings a program is built with.
type CompilerOptions struct {
	Module               string              `mapstructure:"module" json:"module,omitempty"`
	Target               string              `mapstructure:"target" json:"target,omitempty"`
	RootDir              string              `mapstructure:"rootDir" json:"rootDir,omitempty"`
	ConfigFilePath       string              `mapstructure:"configFilePath" json:"configFilePath,omitempty"`
	BaseURL              string              `mapstructure:"baseUrl" json:"baseUrl,omitempty"`
	Paths                map[string][]string `mapstructure:"paths" json:"paths,omitempty"`
	TypeRoots            []string            `mapstructure:"typeRoots" json:"typeRoots,omitempty"`
	Types                []string            `mapstructure:"types" json:"types,omitempty"`
	ModuleResolution     string              `mapstructure:"moduleResolution" json:"moduleResolution,omitempty"`
	JSX                  string              `mapstructure:"jsx" json:"jsx,omitempty"`
	AllowJS              bool                `mapstructure:"allowJs" json:"allowJs,omitempty"`
	NoLib                bool                `mapstructure:"noLib" json:"noLib,omitempty"`
	Lib                  []string            `mapstructure:"lib" json:"lib,omitempty"`
	MaxNodeModuleJSDepth int                 `mapstructure:"maxNodeModuleJsDepth" json:"maxNodeModuleJsDepth,omitempty"`
	ResolveJSONModule    bool                `mapstructure:"resolveJsonModule" json:"resolveJsonModule,omitempty"`
	NoResolve            bool                `mapstructure:"noResolve" json:"noResolve,omitempty"`

	Strict           bool   `mapstructure:"strict" json:"strict,omitempty"`
	NoImplicitAny    bool   `mapstructure:"noImplicitAny" json:"noImplicitAny,omitempty"`
	StrictNullChecks bool   `mapstructure:"strictNullChecks" json:"strictNullChecks,omitempty"`
	SkipLibCheck     bool   `mapstructure:"skipLibCheck" json:"skipLibCheck,omitempty"`
	NoEmit           bool   `mapstructure:"noEmit" json:"noEmit,omitempty"`
	Declaration      bool   `mapstructure:"declaration" json:"declaration,omitempty"`
	OutDir           string `mapstructure:"outDir" json:"outDir,omitempty"`
}

// structureOption describes one option whose change invalidates program
// structure.
type structureOption struct {
	name  string
	equal func(a, b *CompilerOptions) bool
}

func sameText(a, b string) bool { return strings.EqualFold(a, b) }

func samePaths(a, b map[string][]string) bool {
	return maps.EqualFunc(a, b, func(x, y []string) bool { return slices.Equal(x, y) })
}

// structureOptions is the full set of options that affect which files a
// program contains or how their names resolve.
var structureOptions = []structureOption{
	{"module", func(a, b *CompilerOptions) bool { return sameText(a.Module, b.Module) }},
	{"target", func(a, b *CompilerOptions) bool { return sameText(a.Target, b.Target) }},
	{"rootDir", func(a, b *CompilerOptions) bool { return a.RootDir == b.RootDir }},
	{"configFilePath", func(a, b *CompilerOptions) bool { return a.ConfigFilePath == b.ConfigFilePath }},
	{"baseUrl", func(a, b *CompilerOptions) bool { return a.BaseURL == b.BaseURL }},
	{"paths", func(a, b *CompilerOptions) bool { return samePaths(a.Paths, b.Paths) }},
	{"typeRoots", func(a, b *CompilerOptions) bool { return slices.Equal(a.TypeRoots, b.TypeRoots) }},
	{"types", func(a, b *CompilerOptions) bool { return slices.Equal(a.Types, b.Types) }},
	{"moduleResolution", func(a, b *CompilerOptions) bool { return sameText(a.ModuleResolution, b.ModuleResolution) }},
	{"jsx", func(a, b *CompilerOptions) bool { return sameText(a.JSX, b.JSX) }},
	{"allowJs", func(a, b *CompilerOptions) bool { return a.AllowJS == b.AllowJS }},
	{"noLib", func(a, b *CompilerOptions) bool { return a.NoLib == b.NoLib }},
	{"lib", func(a, b *CompilerOptions) bool { return slices.Equal(a.Lib, b.Lib) }},
	{"maxNodeModuleJsDepth", func(a, b *CompilerOptions) bool { return a.MaxNodeModuleJSDepth == b.MaxNodeModuleJSDepth }},
	{"resolveJsonModule", func(a, b *CompilerOptions) bool { return a.ResolveJSONModule == b.ResolveJSONModule }},
	{"noResolve", func(a, b *CompilerOptions) bool { return a.NoResolve == b.NoResolve }},
}

// ChangedStructureOptions lists the structure-affecting options that differ.
func (o *CompilerOptions) ChangedStructureOptions(other *CompilerOptions) []string {
	a, b := o.orDefault(), other.orDefault()
	var changed []string
	for _, opt := range structureOptions {
		if !opt.equal(a, b) {
			changed = append(changed, opt.name)
		}
	}
	return changed
}

// StructureChanged reports whether other differs in any option that affects
// program structure.
func (o *CompilerOptions) StructureChanged(other *CompilerOptions) bool {
	return len(o.ChangedStructureOptions(other)) > 0
}

// Equal reports whether every option is the same.
func (o *CompilerOptions) Equal(other *CompilerOptions) bool {
	a, b := o.orDefault(), other.orDefault()
	return !a.StructureChanged(b) &&
		a.Strict == b.Strict &&
		a.NoImplicitAny == b.NoImplicitAny &&
		a.StrictNullChecks == b.StrictNullChecks &&
		a.SkipLibCheck == b.SkipLibCheck &&
		a.NoEmit == b.NoEmit &&
		a.Declaration == b.Declaration &&
		a.OutDir == b.OutDir
}

func (o *CompilerOptions) orDefault() *CompilerOptions {
	if o == nil {
		return &CompilerOptions{}
	}
	return o
}

// ResolutionOptions returns the subset of options the resolver consults.
func (o *CompilerOptions) ResolutionOptions() *resolution.Options {
	o = o.orDefault()
	return &resolution.Options{
		BaseURL:           o.BaseURL,
		Paths:             o.Paths,
		TypeRoots:         o.TypeRoots,
		AllowJS:           o.AllowJS,
		ResolveJSONModule: o.ResolveJSONModule,
	}
}
