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

// Package project keeps a program current for a project directory as its
// files change.
package project

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/tsincr/config"
	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/host"
	"bennypowers.dev/tsincr/internal/logging"
	"bennypowers.dev/tsincr/internal/metrics"
	"bennypowers.dev/tsincr/program"
	"bennypowers.dev/tsincr/resolution"
)

// Build is the outcome of one Rebuild.
type Build struct {
	Program *program.Program
	// Rebuilt is false when the previous program was still up to date.
	Rebuilt bool
	// Changed lists the paths whose versions moved since the last build.
	Changed []string
}

// Project owns the host, resolver and latest program for one project file.
// Its methods are safe for concurrent use; rebuilds are serialized.
type Project struct {
	fs       fs.FileSystem
	host     *host.Host
	resolver *resolution.NodeResolver
	logger   logging.Logger

	mu      sync.Mutex
	config  *config.Project
	program *program.Program
}

// New returns a project for cfg reading from fsys. Nothing is read until
// Load.
func New(cfg *config.Project, fsys fs.FileSystem) *Project {
	return &Project{
		fs:       fsys,
		host:     host.New(fsys),
		resolver: resolution.NewNodeResolver(fsys),
		logger:   logging.Nop,
		config:   cfg,
	}
}

// Open finds the project file governing dir and returns its project.
func Open(fsys fs.FileSystem, dir string) (*Project, error) {
	cfg, err := config.Find(fsys, dir)
	if err != nil {
		return nil, err
	}
	return New(cfg, fsys), nil
}

// WithLogger sets the logger used by the project, its host and its builds.
func (p *Project) WithLogger(logger logging.Logger) *Project {
	p.logger = logger
	p.host.WithLogger(logger)
	return p
}

// Config returns the current project configuration.
func (p *Project) Config() *config.Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// Host returns the host serving the project's files.
func (p *Project) Host() *host.Host { return p.host }

// Resolver returns the resolver programs are built with.
func (p *Project) Resolver() *resolution.NodeResolver { return p.resolver }

// Program returns the latest program, or nil before Load.
func (p *Project) Program() *program.Program {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.program
}

// Load reads every root file and builds the first program.
func (p *Project) Load(ctx context.Context) (*program.Program, error) {
	b, err := p.Rebuild(ctx, nil)
	if err != nil {
		return nil, err
	}
	return b.Program, nil
}

// Rebuild refreshes the changed paths and builds a new program unless the
// current one is still up to date. A change to the project file reloads the
// configuration; a change to a package.json or a package directory drops every
// carried resolution.
func (p *Project) Rebuild(ctx context.Context, changed []string) (Build, error) {
	ctx, span := metrics.StartSpan(ctx, "Project.Rebuild")
	defer span.End()
	span.SetAttributes(attribute.Int("changed", len(changed)))

	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		moved           []string
		packagesChanged bool
	)
	for _, name := range changed {
		switch {
		case name == p.config.Path:
			cfg, err := config.Load(p.fs, p.config.Dir)
			if err != nil {
				p.logger.Warning("reloading %s: %v", name, err)
				continue
			}
			p.config = cfg
		case path.Base(name) == "package.json":
			p.resolver.PackageCache().Invalidate(name)
			packagesChanged = true
		case inNodeModules(name) && !fs.IsFile(p.fs, name):
			// A package directory appeared or went away.
			p.resolver.PackageCache().Invalidate(path.Join(name, "package.json"))
			p.resolver.PackageCache().InvalidateMissing()
			packagesChanged = true
		default:
			before, _ := p.host.Version(name)
			after, _ := p.host.Refresh(name)
			if before != after {
				moved = append(moved, name)
			}
		}
	}

	roots, err := p.config.RootNames(p.fs)
	if err != nil {
		span.RecordError(err)
		return Build{}, fmt.Errorf("listing root files: %w", err)
	}
	if err := p.preload(ctx, roots); err != nil {
		span.RecordError(err)
		return Build{}, err
	}

	options := &p.config.CompilerOptions
	invalidated := func(name string) bool {
		return packagesChanged || p.program.HasNewResolution(name)
	}
	if program.IsProgramUpToDate(p.program, roots, options, p.host.Version, p.host.FileExists, invalidated, nil) {
		span.SetAttributes(attribute.Bool("rebuilt", false))
		return Build{Program: p.program, Changed: moved}, nil
	}

	old := p.program
	if packagesChanged {
		// Resolutions into node_modules may now point elsewhere even though
		// no source changed.
		old = nil
	}
	next := program.New(program.Options{
		RootNames:       roots,
		CompilerOptions: options,
		Host:            p.host,
		OldProgram:      old,
		Resolver:        p.resolver,
		Logger:          p.logger,
	})
	p.program = next
	span.SetAttributes(
		attribute.Bool("rebuilt", true),
		attribute.String("reuse", next.ReuseState().String()),
		attribute.Int("files", len(next.FilePaths())),
	)
	p.logger.Debug("program %s built with %d files, reuse %s", next.ID(), len(next.FilePaths()), next.ReuseState())
	return Build{Program: next, Rebuilt: true, Changed: moved}, nil
}

// preload reads and parses root files the host has not seen yet in
// parallel, so the synchronous build only hits the host's cache.
func (p *Project) preload(ctx context.Context, roots []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, name := range roots {
		if _, ok := p.host.Version(name); ok {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p.host.GetSourceFile(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading root files: %w", err)
	}
	return nil
}

// Watches reports whether a change to name can affect the project.
func (p *Project) Watches(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name == p.config.Path || path.Base(name) == "package.json" {
		return true
	}
	if _, ok := p.host.Version(name); ok {
		return true
	}
	if p.program != nil && slices.Contains(p.program.MissingFilePaths(), name) {
		return true
	}
	if !strings.HasPrefix(name, p.config.Dir+"/") {
		return false
	}
	// Any source file or package in the project may satisfy a name that is
	// unresolved now.
	return p.config.Matches(name) || isSourceFile(name) || inNodeModules(name)
}

var sourceExtensions = []string{".ts", ".tsx", ".mts", ".cts"}

func isSourceFile(name string) bool {
	return slices.Contains(sourceExtensions, path.Ext(name))
}

// inNodeModules reports whether name lies inside a node_modules directory.
func inNodeModules(name string) bool {
	return strings.Contains(name+"/", "/node_modules/")
}
