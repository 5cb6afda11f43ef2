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

package syntax

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
)

//go:embed queries/*/*.scm
var queryFiles embed.FS

// QueryManager owns compiled tree-sitter queries per dialect.
type QueryManager struct {
	mu      sync.Mutex
	closed  bool
	queries map[Dialect]map[string]*ts.Query
}

// NewQueryManager compiles the named queries for every dialect.
func NewQueryManager(names ...string) (*QueryManager, error) {
	qm := &QueryManager{
		queries: map[Dialect]map[string]*ts.Query{
			DialectTypeScript: {},
			DialectTSX:        {},
		},
	}
	for _, name := range names {
		for _, d := range []Dialect{DialectTypeScript, DialectTSX} {
			if err := qm.loadQuery(d, name); err != nil {
				qm.Close()
				return nil, err
			}
		}
	}
	return qm, nil
}

func (qm *QueryManager) loadQuery(d Dialect, name string) error {
	queryPath := path.Join("queries", "typescript", name+".scm")
	data, err := queryFiles.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("failed to read query %s: %w", queryPath, err)
	}
	query, qerr := ts.NewQuery(d.language(), string(data))
	if qerr != nil {
		return fmt.Errorf("failed to parse query %s: %w", name, qerr)
	}
	qm.queries[d][name] = query
	return nil
}

// Close releases all query resources. Safe to call multiple times.
func (qm *QueryManager) Close() {
	qm.mu.Lock()
	if qm.closed {
		qm.mu.Unlock()
		return
	}
	qm.closed = true
	all := qm.queries
	qm.queries = nil
	qm.mu.Unlock()

	for _, byName := range all {
		for _, q := range byName {
			q.Close()
		}
	}
}

// Query returns a compiled query.
func (qm *QueryManager) Query(d Dialect, name string) (*ts.Query, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	q, ok := qm.queries[d][name]
	if !ok {
		return nil, fmt.Errorf("query not found: %s", name)
	}
	return q, nil
}

var (
	globalQM     *QueryManager
	globalQMOnce sync.Once
	globalQMErr  error
)

// GetQueryManager returns the process-wide query manager.
func GetQueryManager() (*QueryManager, error) {
	globalQMOnce.Do(func() {
		globalQM, globalQMErr = NewQueryManager("specifiers")
	})
	return globalQM, globalQMErr
}

// SpecifierKind says where a module specifier appeared.
type SpecifierKind int

const (
	SpecifierImport SpecifierKind = iota
	SpecifierExport
	SpecifierRequire
	SpecifierDynamic
	SpecifierAmbientModule
)

func (k SpecifierKind) String() string {
	switch k {
	case SpecifierImport:
		return "import"
	case SpecifierExport:
		return "export"
	case SpecifierRequire:
		return "require"
	case SpecifierDynamic:
		return "import()"
	case SpecifierAmbientModule:
		return "declare module"
	}
	return "unknown"
}

// Specifier is one module name found in a file.
type Specifier struct {
	Kind SpecifierKind
	// Name is the unquoted module name.
	Name string
	// Range covers the string literal, quotes included.
	Range TextRange
}

var captureKinds = map[string]SpecifierKind{
	"import.spec":  SpecifierImport,
	"export.spec":  SpecifierExport,
	"require.spec": SpecifierRequire,
	"dynamic.spec": SpecifierDynamic,
	"ambient.name": SpecifierAmbientModule,
}

// ModuleSpecifiers returns the module names imported, re-exported, required or
// declared as ambient modules by f, in source order. f must still hold its
// parser tree.
func (f *File) ModuleSpecifiers() ([]Specifier, error) {
	if f.tree == nil {
		return nil, fmt.Errorf("%s: tree already released", f.path)
	}
	qm, err := GetQueryManager()
	if err != nil {
		return nil, err
	}
	query, err := qm.Query(f.dialect, "specifiers")
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	src := []byte(f.text)
	captureNames := query.CaptureNames()
	matches := cursor.Matches(query, f.tree.RootNode(), src)

	var specs []Specifier
	seen := make(map[TextRange]bool)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, capture := range match.Captures {
			kind, ok := captureKinds[captureNames[capture.Index]]
			if !ok {
				continue
			}
			r := TextRange{int(capture.Node.StartByte()), int(capture.Node.EndByte())}
			if seen[r] {
				continue
			}
			seen[r] = true
			specs = append(specs, Specifier{
				Kind:  kind,
				Name:  unquote(capture.Node.Utf8Text(src)),
				Range: r,
			})
		}
	}
	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].Range.Pos < specs[j].Range.Pos
	})
	return specs, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
