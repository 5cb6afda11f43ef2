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

// Package debug holds assertion helpers for conditions that indicate a bug in
// the caller rather than bad input.
package debug

import "fmt"

// Assert panics with the formatted message when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		Fail(format, args...)
	}
}

// Fail panics unconditionally.
func Fail(format string, args ...any) {
	panic("debug failure: " + fmt.Sprintf(format, args...))
}

// AssertNever is called from the default branch of a switch that must cover
// every case.
func AssertNever(v any, what string) {
	Fail("unhandled %s: %v", what, v)
}
