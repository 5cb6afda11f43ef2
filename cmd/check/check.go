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

// Package check provides the check command for tsincr.
package check

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/internal/cli"
	"bennypowers.dev/tsincr/internal/output"
	"bennypowers.dev/tsincr/project"
)

// Cmd is the check command. It builds the project once and reports the
// module diagnostics of every file.
var Cmd = &cobra.Command{
	Use:   "check",
	Short: "Build the project and report module diagnostics",
	Long: `Build the program described by the nearest tsincr.json and report files
that could not be found and module names that did not resolve.`,
	Example: `  # Check the project in the current directory
  tsincr check

  # Check another project and write a YAML report
  tsincr check -p ./packages/app --format yaml -o report.yaml`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	_ = viper.BindPFlag("check.format", Cmd.Flags().Lookup("format"))
}

func run(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(viper.GetString("check.format"))
	if err != nil {
		return err
	}
	osfs := fs.NewOSFileSystem()
	p, err := cli.OpenProject(osfs, cli.Logger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	prog, err := p.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	report := output.NewReport(project.Build{Program: prog, Rebuilt: true})
	if err := output.Write(osfs, cmd.OutOrStdout(), report, format); err != nil {
		return err
	}
	if n := len(report.Diagnostics); n > 0 {
		return fmt.Errorf("found %d errors", n)
	}
	return nil
}
