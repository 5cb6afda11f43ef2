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
	"strconv"
	"strings"

	"bennypowers.dev/tsincr/internal/metrics"
	"bennypowers.dev/tsincr/resolution"
	"bennypowers.dev/tsincr/snapshot"
	"bennypowers.dev/tsincr/syntax"
)

// ReuseState records how much of an old program's structure a new program
// kept. It only ever moves down during a build.
type ReuseState int

const (
	// Not rebuilds the structure from scratch.
	Not ReuseState = iota
	// SafeModules rebuilds the structure but may carry resolutions over.
	SafeModules
	// Completely shares the old structure and resolution cache.
	Completely
)

func (s ReuseState) String() string {
	switch s {
	case Not:
		return "Not"
	case SafeModules:
		return "SafeModules"
	case Completely:
		return "Completely"
	}
	return "ReuseState(" + strconv.Itoa(int(s)) + ")"
}

type reusePlan struct {
	state ReuseState
	// carry allows resolution entries to move from the old cache.
	carry bool
	parts map[string]snapshot.ChangePart
	// invalidated files must resolve every name afresh.
	invalidated map[string]bool
}

func (p *Program) planReuse(old *Program) reusePlan {
	plan := reusePlan{
		state:       Not,
		parts:       make(map[string]snapshot.ChangePart),
		invalidated: make(map[string]bool),
	}
	if old == nil {
		return plan
	}
	plan.state = Completely
	plan.carry = true
	lower := func(to ReuseState, format string, args ...any) {
		if to < plan.state {
			plan.state = to
		}
		p.debug("reuse: "+format+"; at most %s", append(args, to)...)
	}

	if changed := old.options.ChangedStructureOptions(p.options); len(changed) > 0 {
		lower(Not, "options changed: %s", strings.Join(changed, ", "))
		plan.carry = false
	}
	if !slices.Equal(old.rootNames, p.rootNames) {
		lower(Not, "root file names changed")
	}
	for _, name := range old.MissingFilePaths() {
		if p.fileExists(name) {
			lower(Not, "missing file %s now exists", name)
		}
	}

	for _, name := range old.order {
		newSF, ok := p.getSourceFile(name)
		if !ok {
			lower(Not, "%s no longer exists", name)
			continue
		}
		oldSF := old.files[name]
		if newSF == oldSF {
			plan.parts[name] = snapshot.NoChange
			continue
		}
		part := snapshot.Classify(oldSF, newSF)
		plan.parts[name] = part
		if part.AffectsResolution() {
			lower(SafeModules, "%s changed %s", name, part)
		}
	}

	if plan.state > SafeModules {
		opts := p.options.ResolutionOptions()
		for _, file := range old.cache.Files() {
			if name, ok := newlyResolved(old.cache, file, p.resolver, opts); ok {
				lower(SafeModules, "%s can now resolve %s", file, name)
				break
			}
		}
	}

	p.checkPackageCopies(old, &plan, lower)
	return plan
}

// newlyResolved returns a name file left unresolved in cache that oracle
// resolves now.
func newlyResolved(cache *resolution.Cache, file string, oracle resolution.Oracle, opts *resolution.Options) (string, bool) {
	if oracle == nil {
		return "", false
	}
	fr, ok := cache.Get(file)
	if !ok {
		return "", false
	}
	for _, name := range resolution.SortedNames(fr.Modules) {
		if !fr.Modules[name].IsResolved() && oracle.ResolveModuleName(name, file, opts).IsResolved() {
			return name, true
		}
	}
	for _, name := range resolution.SortedNames(fr.TypeReferences) {
		if !fr.TypeReferences[name].IsResolved() && oracle.ResolveTypeReferenceDirective(name, file, opts).IsResolved() {
			return name, true
		}
	}
	return "", false
}

// HasNewResolution reports whether a module or type reference name that
// file left unresolved resolves now. It fits the hasInvalidatedResolution
// argument of IsProgramUpToDate.
func (p *Program) HasNewResolution(file string) bool {
	if p == nil {
		return false
	}
	_, ok := newlyResolved(p.cache, file, p.resolver, p.options.ResolutionOptions())
	return ok
}

// checkPackageCopies downgrades to Not when any copy of a package that was
// present more than once changed. Files that referenced a copy resolve
// again from scratch so a redirect can converge or diverge.
func (p *Program) checkPackageCopies(old *Program, plan *reusePlan, lower func(ReuseState, string, ...any)) {
	groups := make(map[string][]string)
	for file, key := range old.packageOf {
		groups[key] = append(groups[key], file)
	}
	for _, key := range slices.Sorted(maps.Keys(groups)) {
		copies := groups[key]
		if len(copies) < 2 {
			continue
		}
		changed := false
		for _, file := range copies {
			before, _ := old.recordedFingerprint(file)
			after, ok := p.fingerprint(file)
			if !ok || before != after {
				changed = true
				break
			}
		}
		if !changed {
			continue
		}
		lower(Not, "a copy of package %s changed", key)
		for _, file := range copies {
			for _, dependent := range old.graph.Dependents(file) {
				plan.invalidated[dependent] = true
			}
		}
	}
}

// reuseStructure shares old's structure. Snapshots are taken from the host:
// their bodies may differ from old's.
func (p *Program) reuseStructure(old *Program) {
	p.order = slices.Clone(old.order)
	for _, name := range p.order {
		sf, _ := p.getSourceFile(name)
		p.files[name] = sf
		p.fingerprints[name] = fingerprintOf(sf)
	}
	for from := range old.redirects {
		p.fingerprints[from] = old.fingerprints[from]
	}
	p.cache = old.cache
	p.graph = old.graph.Clone()
	p.missing = maps.Clone(old.missing)
	p.references = maps.Clone(old.references)
	p.ambient = maps.Clone(old.ambient)
	p.packageOf = maps.Clone(old.packageOf)
	p.packageFiles = maps.Clone(old.packageFiles)
	p.redirects = maps.Clone(old.redirects)
	for _, name := range p.cache.Files() {
		fr, _ := p.cache.Get(name)
		for range len(fr.Modules) + len(fr.TypeReferences) {
			metrics.RecordResolution(metrics.ResolutionReused)
		}
	}
}

type builder struct {
	p      *Program
	old    *Program
	plan   reusePlan
	loader *resolution.Loader
}

func (p *Program) build(old *Program, plan reusePlan) {
	loader := resolution.NewLoader(p.resolver, p.options.ResolutionOptions()).WithLogger(p.logger)
	if old != nil && plan.carry {
		loader = loader.WithOldProgram(old.cache, old.recordedFingerprint, p.fingerprint)
	}
	b := &builder{p: p, old: old, plan: plan, loader: loader}
	for _, root := range p.rootNames {
		b.processFile(root)
	}
	b.processAutomaticTypes()
	b.patchAmbientModules()
}

func uniqueNames[T any](items []T, name func(T) string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		n := name(it)
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (b *builder) processFile(name string) {
	p := b.p
	if _, ok := p.files[name]; ok || p.missing[name] {
		return
	}
	sf, ok := p.getSourceFile(name)
	if !ok {
		p.missing[name] = true
		return
	}
	p.files[name] = sf
	p.order = append(p.order, name)
	p.fingerprints[name] = fingerprintOf(sf)
	for _, ambient := range sf.AmbientModuleNames() {
		if _, ok := p.ambient[ambient]; !ok {
			p.ambient[ambient] = name
		}
	}

	part, known := b.plan.parts[name]
	reusable := known && !b.plan.invalidated[name]
	typeNames := uniqueNames(sf.TypeReferenceDirectives(), func(r snapshot.FileReference) string { return r.FileName })
	moduleNames := uniqueNames(sf.ModuleNames(), func(s syntax.Specifier) string { return s.Name })

	fr := resolution.NewFileResolutions()
	fr.TypeReferences = b.loader.Resolve(resolution.TypeReferenceDirectives, name, typeNames, reusable && !part.Has(snapshot.References))
	fr.Modules = b.loader.Resolve(resolution.ModuleNames, name, moduleNames, reusable && !part.Has(snapshot.ImportsExports))
	for _, m := range moduleNames {
		fr.Modules[m] = b.registerPackage(fr.Modules[m])
	}
	p.cache.Set(name, fr)

	if p.options.NoResolve {
		return
	}
	for _, ref := range sf.ReferencedFiles() {
		target := p.referencePath(name, ref.FileName)
		p.references[name] = append(p.references[name], target)
		p.graph.AddDependency(name, target)
		b.processFile(target)
	}
	for _, t := range typeNames {
		if res := fr.TypeReferences[t]; res.FileName != "" {
			p.graph.AddDependency(name, res.FileName)
			b.processFile(res.FileName)
		}
	}
	for _, m := range moduleNames {
		res := fr.Modules[m]
		if res.FileName == "" {
			continue
		}
		p.graph.AddDependency(name, res.FileName)
		if res.OriginalPath != "" {
			p.graph.AddDependency(name, res.OriginalPath)
		}
		b.processFile(res.FileName)
	}
}

// registerPackage tracks files that belong to a versioned package. A second
// file with the same package id and the same content redirects to the first.
func (b *builder) registerPackage(res resolution.Resolution) resolution.Resolution {
	if res.Package.IsZero() || res.FileName == "" {
		return res
	}
	p := b.p
	key := res.Package.Key()
	file := res.FileName
	if res.OriginalPath != "" {
		file = res.OriginalPath
	}
	p.packageOf[file] = key
	canonical, seen := p.packageFiles[key]
	switch {
	case !seen || canonical == file:
		p.packageFiles[key] = file
		res.FileName, res.OriginalPath = file, ""
	case b.sameContent(canonical, file):
		p.redirects[file] = canonical
		if fp, ok := p.fingerprint(file); ok {
			p.fingerprints[file] = fp
		}
		res.FileName, res.OriginalPath = canonical, file
	default:
		res.FileName, res.OriginalPath = file, ""
	}
	return res
}

func (b *builder) sameContent(a, c string) bool {
	x, ok := b.p.getSourceFile(a)
	if !ok {
		return false
	}
	y, ok := b.p.getSourceFile(c)
	return ok && x.Hash() == y.Hash() && x.Text() == y.Text()
}

func (b *builder) processAutomaticTypes() {
	p := b.p
	if len(p.options.Types) == 0 {
		return
	}
	containing := p.inferredTypesFile()
	fr := resolution.NewFileResolutions()
	fr.TypeReferences = b.loader.Resolve(resolution.TypeReferenceDirectives, containing, p.options.Types, b.old != nil && b.plan.carry)
	p.cache.Set(containing, fr)
	if p.options.NoResolve {
		return
	}
	for _, t := range p.options.Types {
		if res := fr.TypeReferences[t]; res.FileName != "" {
			b.processFile(res.FileName)
		}
	}
}

// patchAmbientModules points names that found no file at the ambient module
// declaration that answers them.
func (b *builder) patchAmbientModules() {
	p := b.p
	for _, name := range p.order {
		fr, ok := p.cache.Get(name)
		if !ok {
			continue
		}
		for module, res := range fr.Modules {
			if res.IsResolved() {
				continue
			}
			decl, ok := p.ambient[module]
			if !ok {
				continue
			}
			fr.Modules[module] = resolution.Resolution{AmbientIn: decl}
			p.graph.AddDependency(name, decl)
			metrics.RecordResolution(metrics.ResolutionAmbient)
		}
	}
}
