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

package version_test

import (
	"testing"

	"bennypowers.dev/tsincr/internal/version"
)

func TestInfoString(t *testing.T) {
	info := version.Info{Version: "v0.1.0", Commit: "0123456789abcdef"}
	if got := info.String(); got != "v0.1.0 (0123456)" {
		t.Errorf("Expected short commit suffix, got %q", got)
	}
	info.Dirty = true
	if got := info.String(); got != "v0.1.0 (0123456) dirty" {
		t.Errorf("Expected dirty marker, got %q", got)
	}
	if got := (version.Info{Version: "dev", Commit: "unknown"}).String(); got != "dev" {
		t.Errorf("Expected bare version, got %q", got)
	}
}

func TestGetPrefersLinkerValues(t *testing.T) {
	old := version.Version
	t.Cleanup(func() { version.Version = old })
	version.Version = "v9.9.9"
	if got := version.Get().Version; got != "v9.9.9" {
		t.Errorf("Expected linker version, got %q", got)
	}
}
