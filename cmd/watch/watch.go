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

// Package watch provides the watch command for tsincr.
package watch

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tsincr/fs"
	"bennypowers.dev/tsincr/internal/cli"
	"bennypowers.dev/tsincr/internal/output"
	"bennypowers.dev/tsincr/project"
)

// Cmd is the watch command.
var Cmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the project as files change",
	Long: `Build the project, then rebuild it whenever a source file, package.json or
the project file changes, reusing as much of the previous build as the
change allows. Each rebuild prints a report including the reuse level.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	Cmd.Flags().Duration("debounce", project.DefaultWatchOptions().Debounce, "Quiet period before rebuilding")
	_ = viper.BindPFlag("watch.format", Cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("watch.debounce", Cmd.Flags().Lookup("debounce"))
}

func run(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(viper.GetString("watch.format"))
	if err != nil {
		return err
	}
	osfs := fs.NewOSFileSystem()
	logger := cli.Logger(cmd.ErrOrStderr())
	p, err := cli.OpenProject(osfs, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	prog, err := p.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	report := func(b project.Build) {
		if err := output.Write(osfs, cmd.OutOrStdout(), output.NewReport(b), format); err != nil {
			logger.Warning("writing report: %v", err)
		}
	}
	report(project.Build{Program: prog, Rebuilt: true})

	opts := project.DefaultWatchOptions()
	opts.Debounce = viper.GetDuration("watch.debounce")
	w, err := project.NewWatcher(p, func(b project.Build, err error) {
		if err != nil {
			logger.Warning("rebuilding: %v", err)
			return
		}
		if b.Rebuilt {
			report(b)
		}
	}, &opts)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
