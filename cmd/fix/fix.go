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

// Package fix provides the fix command for tsincr.
package fix

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tsincr/fixes"
	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/internal/cli"
	"bennypowers.dev/tsincr/internal/patch"
	"bennypowers.dev/tsincr/syntax"
	"bennypowers.dev/tsincr/textchanges"
)

// Cmd is the fix command.
var Cmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply a code fix to a file",
	Long: `Compute a code fix and print it as a unified diff, or write it to disk
with --write.`,
}

var removeCmd = &cobra.Command{
	Use:   "remove FILE POSITION",
	Short: "Remove an unused declaration",
	Long: `Remove the declaration whose name is at POSITION, given as LINE:COLUMN
(1-based) or as a byte offset. Declarations that are still referenced are
left alone.`,
	Example: `  tsincr fix remove src/app.ts 12:9`,
	Args:    cobra.ExactArgs(2),
	RunE:    runRemove,
}

var addImportCmd = &cobra.Command{
	Use:   "add-import FILE MODULE NAME",
	Short: "Import a named binding",
	Long: `Add NAME to the named imports of MODULE, extending an existing import of
that module when there is one.`,
	Example: `  tsincr fix add-import src/app.ts ./util formatDate`,
	Args:    cobra.ExactArgs(3),
	RunE:    runAddImport,
}

func init() {
	Cmd.PersistentFlags().BoolP("write", "w", false, "Write the fix instead of printing a diff")
	_ = viper.BindPFlag("fix.write", Cmd.PersistentFlags().Lookup("write"))
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(addImportCmd)
}

type target struct {
	osfs  fs.FileSystem
	fixer *fixes.Fixer
	file  *syntax.File
}

func open(cmd *cobra.Command, name string) (*target, error) {
	osfs := fs.NewOSFileSystem()
	logger := cli.Logger(cmd.ErrOrStderr())
	p, err := cli.OpenProject(osfs, logger)
	if err != nil {
		return nil, err
	}
	file, err := cli.AbsPath(name)
	if err != nil {
		return nil, err
	}
	sf, ok := p.Host().GetSourceFile(file)
	if !ok {
		return nil, fmt.Errorf("cannot read %s", name)
	}
	cfg := p.Config()
	fixer := fixes.New(cfg.Format).
		WithLogger(logger).
		WithResolver(p.Resolver(), cfg.CompilerOptions.ResolutionOptions())
	return &target{osfs: osfs, fixer: fixer, file: sf.Tree()}, nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	t, err := open(cmd, args[0])
	if err != nil {
		return err
	}
	pos, err := ParsePosition(t.file, args[1])
	if err != nil {
		return err
	}
	changes, err := t.fixer.RemoveDeclaration(cmd.Context(), t.file, pos)
	if err != nil {
		return explain(err)
	}
	return t.emit(cmd.OutOrStdout(), changes)
}

func runAddImport(cmd *cobra.Command, args []string) error {
	t, err := open(cmd, args[0])
	if err != nil {
		return err
	}
	changes, err := t.fixer.AddNamedImport(cmd.Context(), t.file, args[1], args[2])
	if err != nil {
		return explain(err)
	}
	return t.emit(cmd.OutOrStdout(), changes)
}

func explain(err error) error {
	if errors.Is(err, fixes.ErrNoFix) {
		return fmt.Errorf("nothing to fix: %w", err)
	}
	return err
}

// ParsePosition reads LINE:COLUMN (1-based) or a byte offset into an offset
// in file.
func ParsePosition(file *syntax.File, s string) (int, error) {
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		pos, err := strconv.Atoi(s)
		if err != nil || pos < 0 || pos > len(file.Text()) {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		return pos, nil
	}
	l, err := strconv.Atoi(line)
	if err != nil || l < 1 || l > file.LineCount() {
		return 0, fmt.Errorf("invalid line in %q", s)
	}
	c, err := strconv.Atoi(col)
	if err != nil || c < 1 {
		return 0, fmt.Errorf("invalid column in %q", s)
	}
	pos := file.LineStart(l-1) + c - 1
	if pos > len(file.Text()) {
		return 0, fmt.Errorf("position %q is past the end of the file", s)
	}
	return pos, nil
}

// emit writes the changed files, or prints their diff and a summary.
func (t *target) emit(w io.Writer, changes []textchanges.FileTextChanges) error {
	write := viper.GetBool("fix.write")
	var diffs strings.Builder
	for _, fc := range changes {
		var before string
		if !fc.IsNewFile {
			data, err := t.osfs.ReadFile(fc.FileName)
			if err != nil {
				return fmt.Errorf("reading %s: %w", fc.FileName, err)
			}
			before = string(data)
		}
		after := textchanges.ApplyChanges(before, fc.TextChanges)
		if write {
			if err := t.osfs.WriteFile(fc.FileName, []byte(after), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", fc.FileName, err)
			}
			continue
		}
		d, err := patch.Unified(fc.FileName, before, after, fc.IsNewFile)
		if err != nil {
			return err
		}
		diffs.WriteString(d)
	}
	if write {
		return nil
	}

	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		color.NoColor = true
	}
	if _, err := io.WriteString(w, patch.Colorize(diffs.String())); err != nil {
		return err
	}
	stats, err := patch.Summarize(diffs.String())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, stats)
	return err
}
