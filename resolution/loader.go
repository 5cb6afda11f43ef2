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
	"maps"
	"slices"

	"bennypowers.dev/tsincr/internal/logging"
	"bennypowers.dev/tsincr/internal/metrics"
)

// Fingerprint identifies the content of one file version.
type Fingerprint struct {
	Version string
	Hash    uint64
}

// FingerprintFunc looks up the fingerprint of a file in one program
// generation.
type FingerprintFunc func(path string) (Fingerprint, bool)

// Loader resolves the names of one file for a program under construction,
// carrying entries over from the previous program's cache where allowed.
type Loader struct {
	oracle  Oracle
	options *Options
	old     *Cache
	oldFile FingerprintFunc
	newFile FingerprintFunc
	logger  logging.Logger
}

// NewLoader returns a loader that resolves with oracle. A nil oracle leaves
// every name unresolved.
func NewLoader(oracle Oracle, options *Options) *Loader {
	return &Loader{oracle: oracle, options: options}
}

// WithOldProgram returns a copy of the loader that may reuse entries from old.
// oldFile and newFile give the fingerprints of resolution targets in the old
// program and in the new host state.
func (l *Loader) WithOldProgram(old *Cache, oldFile, newFile FingerprintFunc) *Loader {
	c := *l
	c.old = old
	c.oldFile = oldFile
	c.newFile = newFile
	return &c
}

// WithLogger returns a copy of the loader that traces reuse decisions.
func (l *Loader) WithLogger(logger logging.Logger) *Loader {
	c := *l
	c.logger = logger
	return &c
}

func (l *Loader) debug(format string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(format, args...)
	}
}

// unchanged reports whether the file has the same fingerprint in both
// generations.
func (l *Loader) unchanged(path string) bool {
	if l.oldFile == nil || l.newFile == nil {
		return false
	}
	before, ok := l.oldFile(path)
	if !ok {
		return false
	}
	after, ok := l.newFile(path)
	return ok && before == after
}

// reusable decides whether an old entry still holds. Unresolved entries are
// always retried: the file they were looking for may have appeared.
func (l *Loader) reusable(r Resolution) bool {
	switch {
	case r.AmbientIn != "":
		return l.unchanged(r.AmbientIn)
	case r.FileName != "":
		if r.OriginalPath != "" && !l.unchanged(r.OriginalPath) {
			return false
		}
		return l.unchanged(r.FileName)
	}
	return false
}

// Kind selects which map of FileResolutions a request fills.
type Kind int

const (
	ModuleNames Kind = iota
	TypeReferenceDirectives
)

// Resolve resolves names referenced by file. When regionUnchanged is set the
// file's import or reference region is identical to the old program's, and
// old entries may be reused one by one.
func (l *Loader) Resolve(kind Kind, file string, names []string, regionUnchanged bool) map[string]Resolution {
	var previous map[string]Resolution
	if regionUnchanged {
		if fr, ok := l.old.Get(file); ok {
			if kind == ModuleNames {
				previous = fr.Modules
			} else {
				previous = fr.TypeReferences
			}
		}
	}

	result := make(map[string]Resolution, len(names))
	for _, name := range names {
		if _, done := result[name]; done {
			continue
		}
		if old, ok := previous[name]; ok && l.reusable(old) {
			if old.AmbientIn != "" {
				l.debug("Module '%s' was resolved as ambient module declared in '%s' since this file was not modified.", name, old.AmbientIn)
				metrics.RecordResolution(metrics.ResolutionAmbient)
			} else {
				l.debug("Reusing resolution of '%s' from '%s' of old program, it was successfully resolved to '%s'.", name, file, old.FileName)
				metrics.RecordResolution(metrics.ResolutionReused)
			}
			result[name] = old
			continue
		}
		result[name] = l.resolveFresh(kind, file, name)
	}
	return result
}

func (l *Loader) resolveFresh(kind Kind, file, name string) Resolution {
	if l.oracle == nil {
		metrics.RecordResolution(metrics.ResolutionMissing)
		return Unresolved
	}
	var res Resolution
	if kind == ModuleNames {
		res = l.oracle.ResolveModuleName(name, file, l.options)
	} else {
		res = l.oracle.ResolveTypeReferenceDirective(name, file, l.options)
	}
	if res.IsResolved() {
		l.debug("Resolved '%s' from '%s' to '%s'.", name, file, res.FileName)
		metrics.RecordResolution(metrics.ResolutionResolved)
	} else {
		l.debug("Could not resolve '%s' from '%s'.", name, file)
		metrics.RecordResolution(metrics.ResolutionMissing)
	}
	return res
}

// SortedNames returns the keys of m in order, for deterministic traversal.
func SortedNames(m map[string]Resolution) []string {
	return slices.Sorted(maps.Keys(m))
}
