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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	// Build the binary before running tests
	wd := mustGetwd()
	cmd := exec.Command("go", "build", "-o", "tsincr_test", ".")
	cmd.Dir = wd
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build test binary: " + err.Error() + "\n" + string(out))
	}
	code := m.Run()
	_ = os.Remove(filepath.Join(wd, "tsincr_test"))
	os.Exit(code)
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	binary := filepath.Join(mustGetwd(), "tsincr_test")
	cmd := exec.Command(binary, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("Failed to run CLI: %v", err)
		}
	}

	return stdout, stderr, exitCode
}

var appDir = filepath.Join("testdata", "cli", "app")

// copyApp copies the app fixture so fixes can write to it.
func copyApp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"tsincr.json", "src/app.ts", "src/util.ts"} {
		data, err := os.ReadFile(filepath.Join(appDir, name))
		if err != nil {
			t.Fatal(err)
		}
		dst := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCheck(t *testing.T) {
	stdout, stderr, code := runCLI(t, "check", "--project", appDir)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "2 files, 0 missing, 0 errors (reuse: Not)") {
		t.Errorf("Unexpected summary: %s", stdout)
	}
}

func TestCheckJSON(t *testing.T) {
	stdout, stderr, code := runCLI(t, "check", "-p", appDir, "--format", "json")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	var report struct {
		Reuse string   `json:"reuse"`
		Files []string `json:"files"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nstdout: %s", err, stdout)
	}
	if len(report.Files) != 2 {
		t.Fatalf("Expected 2 files, got %v", report.Files)
	}
	if !slices.ContainsFunc(report.Files, func(f string) bool { return strings.HasSuffix(f, "src/util.ts") }) {
		t.Errorf("Expected util.ts among %v", report.Files)
	}
	if report.Reuse != "Not" {
		t.Errorf("Expected a fresh build, got %s", report.Reuse)
	}
}

func TestCheckYAMLOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.yaml")
	_, stderr, code := runCLI(t, "check", "-p", appDir, "-f", "yaml", "-o", out)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	var report map[string]any
	if err := yaml.Unmarshal(data, &report); err != nil {
		t.Fatalf("Invalid YAML: %v\n%s", err, data)
	}
	if report["reuse"] != "Not" {
		t.Errorf("Expected reuse: Not, got %v", report["reuse"])
	}
}

func TestCheckReportsUnresolvedModules(t *testing.T) {
	stdout, _, code := runCLI(t, "check", "-p", filepath.Join("testdata", "cli", "broken"))
	if code == 0 {
		t.Fatal("Expected a non-zero exit code")
	}
	if !strings.Contains(stdout, "error TS2307: Cannot find module './nope'") {
		t.Errorf("Expected a cannot-find-module diagnostic, got: %s", stdout)
	}
}

func TestCheckMissingProject(t *testing.T) {
	_, stderr, code := runCLI(t, "check", "-p", t.TempDir())
	if code == 0 {
		t.Fatal("Expected a non-zero exit code")
	}
	if !strings.Contains(stderr, "no tsincr.json found") {
		t.Errorf("Expected a missing config error, got: %s", stderr)
	}
}

func TestFixRemoveDiff(t *testing.T) {
	file := filepath.Join(appDir, "src", "app.ts")
	stdout, stderr, code := runCLI(t, "fix", "remove", "-p", appDir, file, "3:7")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "-const unused = 1;\n") {
		t.Errorf("Expected the declaration to be removed, got:\n%s", stdout)
	}
	if strings.Contains(stdout, "\x1b[") {
		t.Error("Expected no color when stdout is not a terminal")
	}
	if !strings.Contains(stdout, "1 files changed") {
		t.Errorf("Expected a summary, got:\n%s", stdout)
	}
}

func TestFixRemoveReferenced(t *testing.T) {
	file := filepath.Join(appDir, "src", "app.ts")
	_, stderr, code := runCLI(t, "fix", "remove", "-p", appDir, file, "1:10")
	if code == 0 {
		t.Fatal("Expected a non-zero exit code for a referenced import")
	}
	if !strings.Contains(stderr, "nothing to fix") {
		t.Errorf("Expected a no-fix error, got: %s", stderr)
	}
}

func TestFixAddImportWrite(t *testing.T) {
	dir := copyApp(t)
	file := filepath.Join(dir, "src", "app.ts")
	_, stderr, code := runCLI(t, "fix", "add-import", "-p", dir, "--write", file, "./util", "parse")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "import { format, parse } from \"./util\";\n") {
		t.Errorf("Expected the import to be extended, got:\n%s", data)
	}
}

func TestFixInvalidPosition(t *testing.T) {
	file := filepath.Join(appDir, "src", "app.ts")
	_, stderr, code := runCLI(t, "fix", "remove", "-p", appDir, file, "99:1")
	if code == 0 {
		t.Fatal("Expected a non-zero exit code")
	}
	if !strings.Contains(stderr, "invalid line") {
		t.Errorf("Expected an invalid line error, got: %s", stderr)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, stderr, code := runCLI(t, "version", "--format", "json")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nstdout: %s", err, stdout)
	}
	if _, ok := info["version"]; !ok {
		t.Errorf("Expected a version key, got %v", info)
	}
}

func TestHelp(t *testing.T) {
	stdout, _, code := runCLI(t, "--help")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	for _, cmd := range []string{"check", "watch", "fix", "version"} {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("Expected %s in help output", cmd)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, code := runCLI(t, "nonexistent")
	if code == 0 {
		t.Error("Expected non-zero exit code for unknown command")
	}
}
