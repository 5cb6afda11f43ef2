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

import "slices"

// IsProgramUpToDate reports whether p can be used unchanged for rootNames
// and options given the host's current view. It never modifies p.
//
// getSourceVersion returns the current version of a file and whether it
// exists. The remaining callbacks may be nil.
func IsProgramUpToDate(
	p *Program,
	rootNames []string,
	options *CompilerOptions,
	getSourceVersion func(path string) (string, bool),
	fileExists func(path string) bool,
	hasInvalidatedResolution func(path string) bool,
	hasChangedAutomaticTypeDirectiveNames func() bool,
) bool {
	if p == nil {
		return false
	}
	if hasChangedAutomaticTypeDirectiveNames != nil && hasChangedAutomaticTypeDirectiveNames() {
		return false
	}
	if !slices.Equal(p.rootNames, normalizeNames(rootNames)) {
		return false
	}

	current := func(name, want string) bool {
		if getSourceVersion == nil {
			return false
		}
		v, ok := getSourceVersion(name)
		return ok && v == want
	}
	for _, name := range p.order {
		if !current(name, p.files[name].Version()) {
			return false
		}
		if hasInvalidatedResolution != nil && hasInvalidatedResolution(name) {
			return false
		}
	}
	for from := range p.redirects {
		if !current(from, p.fingerprints[from].Version) {
			return false
		}
	}
	if fileExists != nil {
		for name := range p.missing {
			if fileExists(name) {
				return false
			}
		}
	}
	return p.options.Equal(options.orDefault())
}
