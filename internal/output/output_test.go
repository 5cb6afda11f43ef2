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

package output_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/tsincr/config"
	"bennypowers.dev/tsincr/internal/mapfs"
	"bennypowers.dev/tsincr/internal/output"
	"bennypowers.dev/tsincr/project"
)

func build(t *testing.T) (*mapfs.MapFileSystem, output.Report) {
	t.Helper()
	mfs := mapfs.New()
	mfs.AddFile("/proj/tsincr.json", `{"include": ["*.ts"]}`, 0644)
	mfs.AddFile("/proj/a.ts", "import { x } from './missing';\n", 0644)
	cfg, err := config.Load(mfs, "/proj")
	if err != nil {
		t.Fatalf("Load config failed: %v", err)
	}
	p := project.New(cfg, mfs)
	prog, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return mfs, output.NewReport(project.Build{Program: prog, Rebuilt: true})
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "yaml"} {
		if f, err := output.ParseFormat(s); err != nil || string(f) != s {
			t.Errorf("Expected %s to parse, got %q, %v", s, f, err)
		}
	}
	if _, err := output.ParseFormat("html"); err == nil {
		t.Error("Expected an error for html")
	}
}

func TestReportText(t *testing.T) {
	_, r := build(t)
	text := r.String()
	if !strings.Contains(text, "/proj/a.ts:") || !strings.Contains(text, "TS2307") {
		t.Errorf("Expected a cannot-find-module diagnostic, got:\n%s", text)
	}
	if !strings.HasSuffix(text, "1 files, 0 missing, 1 errors (reuse: Not)") {
		t.Errorf("Unexpected summary:\n%s", text)
	}
}

func TestRenderJSONAndYAML(t *testing.T) {
	_, r := build(t)

	data, err := output.Render(r, output.JSON)
	if err != nil {
		t.Fatalf("Render JSON failed: %v", err)
	}
	var fromJSON output.Report
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if fromJSON.Reuse != "Not" || len(fromJSON.Diagnostics) != 1 {
		t.Errorf("Unexpected JSON report %+v", fromJSON)
	}

	data, err = output.Render(r, output.YAML)
	if err != nil {
		t.Fatalf("Render YAML failed: %v", err)
	}
	if !bytes.Contains(data, []byte("reuse: Not")) {
		t.Errorf("Expected a reuse key in YAML:\n%s", data)
	}
	var fromYAML output.Report
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if fromYAML.Program != r.Program || fromYAML.Diagnostics[0].Code != 2307 {
		t.Errorf("Unexpected YAML report %+v", fromYAML)
	}
}

func TestWriteToOutputFile(t *testing.T) {
	mfs, r := build(t)
	t.Cleanup(viper.Reset)
	viper.Set("output", "/out.json")

	var stdout bytes.Buffer
	if err := output.Write(mfs, &stdout, r, output.JSON); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", stdout.String())
	}
	data, err := mfs.ReadFile("/out.json")
	if err != nil {
		t.Fatalf("Expected the output file: %v", err)
	}
	if !bytes.HasSuffix(data, []byte("}\n")) {
		t.Errorf("Expected a trailing newline, got %q", data)
	}
}
