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
	"sync"
)

// DependencyGraph records which files of a program reference which others,
// through imports, triple-slash references and type reference directives.
type DependencyGraph struct {
	mu sync.RWMutex

	// dependsOn maps file -> files it references
	dependsOn map[string]map[string]bool

	// dependents maps file -> files that reference it
	dependents map[string]map[string]bool
}

// NewDependencyGraph creates a new empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependsOn:  make(map[string]map[string]bool),
		dependents: make(map[string]map[string]bool),
	}
}

// AddDependency records that file references dep.
func (g *DependencyGraph) AddDependency(file, dep string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dependsOn[file] == nil {
		g.dependsOn[file] = make(map[string]bool)
	}
	g.dependsOn[file][dep] = true

	if g.dependents[dep] == nil {
		g.dependents[dep] = make(map[string]bool)
	}
	g.dependents[dep][file] = true
}

// Dependencies returns the files file references directly.
func (g *DependencyGraph) Dependencies(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Sorted(maps.Keys(g.dependsOn[file]))
}

// Dependents returns the files that reference file directly.
func (g *DependencyGraph) Dependents(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Sorted(maps.Keys(g.dependents[file]))
}

// TransitiveDependents returns every file that reaches file through
// references, breadth first.
func (g *DependencyGraph) TransitiveDependents(file string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool)
	queue := []string{file}
	var result []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for dep := range g.dependents[current] {
			if !visited[dep] {
				visited[dep] = true
				result = append(result, dep)
				queue = append(queue, dep)
			}
		}
	}

	slices.Sort(result)
	return result
}

// Clone creates a deep copy of the graph.
func (g *DependencyGraph) Clone() *DependencyGraph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := NewDependencyGraph()
	for file, deps := range g.dependsOn {
		clone.dependsOn[file] = maps.Clone(deps)
	}
	for file, deps := range g.dependents {
		clone.dependents[file] = maps.Clone(deps)
	}
	return clone
}

// RemoveFile removes a file and all its edges, returning its former
// dependents.
func (g *DependencyGraph) RemoveFile(file string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := slices.Sorted(maps.Keys(g.dependents[file]))

	for dep := range g.dependsOn[file] {
		delete(g.dependents[dep], file)
	}
	for dependent := range g.dependents[file] {
		delete(g.dependsOn[dependent], file)
	}
	delete(g.dependsOn, file)
	delete(g.dependents, file)

	return result
}
