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

package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configure a Watcher.
type WatchOptions struct {
	// Debounce is how long the watcher waits after the last event before
	// rebuilding.
	Debounce time.Duration
	// Ignore holds directory or file base names that are never watched.
	Ignore []string
	// Shallow holds directory base names whose entries are watched but
	// not descended into, so installing a package is noticed.
	Shallow []string
}

// DefaultWatchOptions returns the options NewWatcher uses for nil.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce: 100 * time.Millisecond,
		Ignore:   []string{".git"},
		Shallow:  []string{"node_modules"},
	}
}

// BuildHandler receives the outcome of every rebuild the watcher triggers.
type BuildHandler func(Build, error)

// Watcher rebuilds a project when files under its directory change. Bursts
// of events are collapsed into one rebuild.
type Watcher struct {
	project  *Project
	fsw      *fsnotify.Watcher
	handler  BuildHandler
	debounce time.Duration
	ignore   []string
	shallow  []string
}

// NewWatcher returns a watcher for p. Call Run to start watching.
func NewWatcher(p *Project, handler BuildHandler, opts *WatchOptions) (*Watcher, error) {
	if opts == nil {
		defaults := DefaultWatchOptions()
		opts = &defaults
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		project:  p,
		fsw:      fsw,
		handler:  handler,
		debounce: opts.Debounce,
		ignore:   opts.Ignore,
		shallow:  opts.Shallow,
	}, nil
}

// Run watches the project directory until ctx is done. Changes still pending
// when ctx ends are dropped.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	if err := w.addRecursive(w.project.Config().Dir); err != nil {
		return err
	}

	var (
		pending = make(map[string]bool)
		timer   *time.Timer
		timerC  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) && !w.isShallow(filepath.Dir(event.Name)) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.project.logger.Warning("watching %s: %v", event.Name, err)
					}
					continue
				}
			}
			pending[filepath.ToSlash(event.Name)] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.project.logger.Warning("watch error: %v", err)

		case <-timerC:
			timer, timerC = nil, nil
			w.flush(ctx, pending)
			clear(pending)
		}
	}
}

func (w *Watcher) flush(ctx context.Context, pending map[string]bool) {
	var changed []string
	for name := range pending {
		if w.project.Watches(name) {
			changed = append(changed, name)
		}
	}
	if len(changed) == 0 {
		return
	}
	slices.Sort(changed)
	b, err := w.project.Rebuild(ctx, changed)
	if w.handler != nil {
		w.handler(b, err)
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.ignored(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return err
		}
		if w.isShallow(p) {
			return filepath.SkipDir
		}
		return nil
	})
}

func (w *Watcher) isShallow(dir string) bool {
	return slices.Contains(w.shallow, filepath.Base(dir))
}

// ignored reports whether events for p are dropped: p lies under an ignored
// name, or deeper than one level inside a shallow directory.
func (w *Watcher) ignored(p string) bool {
	parent := filepath.Dir(p)
	for dir := p; ; dir = filepath.Dir(dir) {
		if slices.Contains(w.ignore, filepath.Base(dir)) {
			return true
		}
		if dir != p && dir != parent && w.isShallow(dir) {
			return true
		}
		if up := filepath.Dir(dir); up == dir {
			return false
		}
	}
}
