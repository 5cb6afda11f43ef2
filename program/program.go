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

// Package program builds the file graph of a TypeScript program and decides,
// on every rebuild, how much of the previous program can be kept.
package program

import (
	"maps"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"bennypowers.dev/tsincr/internal/logging"
	"bennypowers.dev/tsincr/internal/metrics"
	"bennypowers.dev/tsincr/resolution"
	"bennypowers.dev/tsincr/snapshot"
)

// Host supplies the current snapshot of each file.
type Host interface {
	GetSourceFile(path string) (*snapshot.SourceFile, bool)
	FileExists(path string) bool
}

// Options configure New.
type Options struct {
	RootNames       []string
	CompilerOptions *CompilerOptions
	// Host may be nil for a program without files.
	Host Host
	// OldProgram is the previous build, if any. It is only read.
	OldProgram *Program
	// Resolver answers module and type reference lookups. With a nil
	// resolver every name stays unresolved.
	Resolver resolution.Oracle
	Logger   logging.Logger
}

// Program is an immutable snapshot of a set of files, their resolutions and
// the references between them.
type Program struct {
	id        string
	rootNames []string
	options   *CompilerOptions
	host      Host
	resolver  resolution.Oracle
	logger    logging.Logger
	reuse     ReuseState

	order      []string
	files      map[string]*snapshot.SourceFile
	missing    map[string]bool
	references map[string][]string
	cache      *resolution.Cache
	graph      *DependencyGraph
	ambient    map[string]string

	packageOf    map[string]string
	packageFiles map[string]string
	redirects    map[string]string
	fingerprints map[string]resolution.Fingerprint
}

// New builds a program, reusing whatever opts.OldProgram allows.
func New(opts Options) *Program {
	start := time.Now()
	p := &Program{
		id:           uuid.NewString(),
		rootNames:    normalizeNames(opts.RootNames),
		options:      opts.CompilerOptions.orDefault(),
		host:         opts.Host,
		resolver:     opts.Resolver,
		logger:       opts.Logger,
		files:        make(map[string]*snapshot.SourceFile),
		missing:      make(map[string]bool),
		references:   make(map[string][]string),
		cache:        resolution.NewCache(),
		graph:        NewDependencyGraph(),
		ambient:      make(map[string]string),
		packageOf:    make(map[string]string),
		packageFiles: make(map[string]string),
		redirects:    make(map[string]string),
		fingerprints: make(map[string]resolution.Fingerprint),
	}

	old := opts.OldProgram
	plan := p.planReuse(old)
	p.reuse = plan.state
	if plan.state == Completely {
		p.reuseStructure(old)
	} else {
		p.build(old, plan)
		if old != nil && !maps.Equal(old.missing, p.missing) && p.reuse != Not {
			p.debug("reuse: missing files changed; at most %s", Not)
			p.reuse = Not
		}
	}

	metrics.RecordBuild(p.reuse.String(), time.Since(start))
	p.debug("program %s: %d files, %d missing, structure reused %s", p.id, len(p.order), len(p.missing), p.reuse)
	return p
}

func normalizeNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = path.Clean(n)
	}
	return out
}

func (p *Program) debug(format string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(format, args...)
	}
}

func (p *Program) getSourceFile(name string) (*snapshot.SourceFile, bool) {
	if p.host == nil {
		return nil, false
	}
	return p.host.GetSourceFile(name)
}

func (p *Program) fileExists(name string) bool {
	return p.host != nil && p.host.FileExists(name)
}

// fingerprint reads the current fingerprint of name from the host.
func (p *Program) fingerprint(name string) (resolution.Fingerprint, bool) {
	sf, ok := p.getSourceFile(name)
	if !ok {
		return resolution.Fingerprint{}, false
	}
	return fingerprintOf(sf), true
}

// recordedFingerprint returns the fingerprint name had when p was built.
func (p *Program) recordedFingerprint(name string) (resolution.Fingerprint, bool) {
	fp, ok := p.fingerprints[name]
	return fp, ok
}

func fingerprintOf(sf *snapshot.SourceFile) resolution.Fingerprint {
	return resolution.Fingerprint{Version: sf.Version(), Hash: sf.Hash()}
}

// inferredTypesFile is the containing file used for the `types` option.
func (p *Program) inferredTypesFile() string {
	dir := p.options.RootDir
	if dir == "" && p.options.ConfigFilePath != "" {
		dir = path.Dir(p.options.ConfigFilePath)
	}
	if dir == "" {
		dir = "."
	}
	return path.Join(dir, "__inferred type names__.ts")
}

var referenceExtensions = []string{".ts", ".tsx", ".d.ts"}

// referencePath maps a /// <reference path> name to a file name.
func (p *Program) referencePath(containing, name string) string {
	target := name
	if !path.IsAbs(name) {
		target = path.Join(path.Dir(containing), name)
	}
	for _, ext := range append(referenceExtensions, ".mts", ".cts", ".js", ".jsx") {
		if strings.HasSuffix(target, ext) {
			return target
		}
	}
	for _, ext := range referenceExtensions {
		if p.fileExists(target + ext) {
			return target + ext
		}
	}
	return target + ".ts"
}

// ID returns a unique id for this program instance.
func (p *Program) ID() string { return p.id }

// RootNames returns the root file names.
func (p *Program) RootNames() []string { return slices.Clone(p.rootNames) }

// Options returns the compiler options.
func (p *Program) Options() *CompilerOptions { return p.options }

// ReuseState reports how much of the previous program this one kept.
func (p *Program) ReuseState() ReuseState { return p.reuse }

// SourceFiles returns the files in discovery order.
func (p *Program) SourceFiles() []*snapshot.SourceFile {
	out := make([]*snapshot.SourceFile, len(p.order))
	for i, name := range p.order {
		out[i] = p.files[name]
	}
	return out
}

// FilePaths returns the file names in discovery order.
func (p *Program) FilePaths() []string { return slices.Clone(p.order) }

// SourceFile returns the snapshot of name held by the program.
func (p *Program) SourceFile(name string) (*snapshot.SourceFile, bool) {
	sf, ok := p.files[name]
	return sf, ok
}

// MissingFilePaths returns the referenced files that did not exist, sorted.
func (p *Program) MissingFilePaths() []string {
	return slices.Sorted(maps.Keys(p.missing))
}

// Resolutions returns what name resolved.
func (p *Program) Resolutions(name string) (*resolution.FileResolutions, bool) {
	return p.cache.Get(name)
}

// ResolutionCache returns the per-file resolution cache.
func (p *Program) ResolutionCache() *resolution.Cache { return p.cache }

// Graph returns the file reference graph.
func (p *Program) Graph() *DependencyGraph { return p.graph }

// Redirects maps duplicate package files to the copy that stands for them.
func (p *Program) Redirects() map[string]string { return maps.Clone(p.redirects) }

// AmbientModules maps ambient module names to their declaring file.
func (p *Program) AmbientModules() map[string]string { return maps.Clone(p.ambient) }
