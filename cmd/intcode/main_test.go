package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"intcode/pkg/errors"
	"intcode/pkg/source"
	"intcode/pkg/types"
	"intcode/pkg/vm"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "run.yml", `
program: input.txt
inputs: [1, -2, 3]
patches:
  1: 12
  2: 2
interactive: true
trace: trace.log
dump_dir: out
`)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	want := &Config{
		Program:     "input.txt",
		Inputs:      []types.ProgramElement{1, -2, 3},
		Patches:     map[types.Address]types.ProgramElement{1: 12, 2: 2},
		Interactive: true,
		Trace:       "trace.log",
		DumpDir:     "out",
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigAcceptsJSON(t *testing.T) {
	path := writeFile(t, "run.json", `{"program": "p.txt", "inputs": [5]}`)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if config.Program != "p.txt" || len(config.Inputs) != 1 || config.Inputs[0] != 5 {
		t.Errorf("config = %+v", config)
	}
}

func TestLoadConfigRejectsBadFiles(t *testing.T) {
	for name, contents := range map[string]string{
		"unknown.yml": "program: p.txt\nspeed: fast\n",
		"empty.yml":   "",
		"typed.yml":   "inputs: [one]\n",
	} {
		if _, err := LoadConfig(writeFile(t, name, contents)); err == nil {
			t.Errorf("LoadConfig(%s) succeeded, want error", name)
		}
	}
}

func TestPatchList(t *testing.T) {
	patches := patchList{}
	for _, arg := range []string{"1=12", " 2 = -2 "} {
		if err := patches.Set(arg); err != nil {
			t.Fatalf("Set(%q) returned error: %v", arg, err)
		}
	}
	want := patchList{1: 12, 2: -2}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"12", "-1=4", "a=1", "1=b"} {
		if err := patches.Set(bad); err == nil {
			t.Errorf("Set(%q) succeeded, want error", bad)
		}
	}
}

func TestParseInputs(t *testing.T) {
	inputs, err := parseInputs("1, 2,-3")
	if err != nil {
		t.Fatalf("parseInputs returned error: %v", err)
	}
	if diff := cmp.Diff([]types.ProgramElement{1, 2, -3}, inputs); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
	if inputs, err := parseInputs("   "); err != nil || inputs != nil {
		t.Errorf("parseInputs(blank) = %v, %v", inputs, err)
	}
}

func TestDumpMemory(t *testing.T) {
	machine := vm.NewMachine([]types.ProgramElement{1, 0, 0, 0, 99})
	if err := machine.RunToCompletion(); err != nil {
		t.Fatalf("RunToCompletion returned error: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "dumps")
	path, err := dumpMemory(machine, dir)
	if err != nil {
		t.Fatalf("dumpMemory returned error: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "memory_") {
		t.Errorf("dump file name = %s", path)
	}

	words, err := source.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(%s) returned error: %v", path, err)
	}
	if diff := cmp.Diff([]types.ProgramElement{2, 0, 0, 0, 99}, words); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlagsOverridesConfig(t *testing.T) {
	path := writeFile(t, "run.yml", `
program: a.txt
inputs: [1]
patches:
  1: 12
  2: 2
trace: trace.log
`)
	config, err := parseFlags([]string{"-config", path, "-program", "b.txt", "-input", "7,8", "-patch", "2=5"})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}

	want := &Config{
		Program: "b.txt",
		Inputs:  []types.ProgramElement{7, 8},
		Patches: map[types.Address]types.ProgramElement{1: 12, 2: 5},
		Trace:   "trace.log",
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	if _, err := parseFlags(nil); !stderrors.Is(err, errNoProgram) {
		t.Errorf("parseFlags(nil) error = %v, want errNoProgram", err)
	}
	for _, args := range [][]string{
		{"-program", "p.txt", "-input", "1,x"},
		{"-program", "p.txt", "-patch", "bad"},
		{"-config", filepath.Join(t.TempDir(), "missing.yml")},
	} {
		if _, err := parseFlags(args); err == nil {
			t.Errorf("parseFlags(%q) succeeded, want error", args)
		}
	}
}

func TestRun(t *testing.T) {
	// Reads one value, adds the word at 10 and prints the sum.
	program := writeFile(t, "add.txt", "3,9,1,9,10,9,4,9,99,0,0\n")

	tests := []struct {
		name   string
		config Config
		stdin  string
		want   string
	}{
		{
			name:   "patched batch run",
			config: Config{Inputs: []types.ProgramElement{5}, Patches: map[types.Address]types.ProgramElement{10: 100}},
			want:   "105\n",
		},
		{
			name:   "interactive reads stdin",
			config: Config{Interactive: true, Patches: map[types.Address]types.ProgramElement{10: -1}},
			stdin:  "8\n",
			want:   "7\n",
		},
		{
			name:   "queued input skips the prompt",
			config: Config{Interactive: true, Inputs: []types.ProgramElement{2}},
			want:   "2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := tt.config
			config.Program = program
			var stdout bytes.Buffer
			if err := run(&config, strings.NewReader(tt.stdin), &stdout); err != nil {
				t.Fatalf("run returned error: %v", err)
			}
			if got := stdout.String(); got != tt.want {
				t.Errorf("run wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunInteractiveEcho(t *testing.T) {
	program := writeFile(t, "echo.txt", "3,0,4,0,3,0,4,0,99")
	config := &Config{Program: program, Interactive: true}

	var stdout bytes.Buffer
	if err := run(config, strings.NewReader("5\nnope\n6\n"), &stdout); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if got, want := stdout.String(), "5\n6\n"; got != want {
		t.Errorf("run wrote %q, want %q", got, want)
	}

	stdout.Reset()
	err := run(config, strings.NewReader("5\n"), &stdout)
	if err == nil || !strings.Contains(err.Error(), "stdin closed") {
		t.Errorf("run error = %v, want stdin closed", err)
	}
	if got, want := stdout.String(), "5\n"; got != want {
		t.Errorf("run wrote %q before failing, want %q", got, want)
	}
}

func TestRunFailures(t *testing.T) {
	program := writeFile(t, "echo.txt", "3,0,4,0,99")

	var stdout bytes.Buffer
	err := run(&Config{Program: program}, strings.NewReader(""), &stdout)
	if !stderrors.Is(err, errors.ErrInputExhausted) {
		t.Errorf("run error = %v, want ErrInputExhausted", err)
	}

	err = run(&Config{Program: filepath.Join(t.TempDir(), "missing.txt")}, strings.NewReader(""), &stdout)
	if err == nil {
		t.Error("run with a missing program succeeded, want error")
	}
}

func TestRunTraceAndDump(t *testing.T) {
	dir := t.TempDir()
	config := &Config{
		Program: writeFile(t, "echo.txt", "3,0,4,0,99"),
		Inputs:  []types.ProgramElement{42},
		Trace:   filepath.Join(dir, "trace.log"),
		DumpDir: filepath.Join(dir, "dumps"),
	}

	var stdout bytes.Buffer
	if err := run(config, strings.NewReader(""), &stdout); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if got := stdout.String(); got != "42\n" {
		t.Errorf("run wrote %q, want %q", got, "42\n")
	}

	trace, err := os.ReadFile(config.Trace)
	if err != nil {
		t.Fatalf("reading trace: %v", err)
	}
	if !strings.Contains(string(trace), "exit=halt") {
		t.Errorf("trace missing halt:\n%s", trace)
	}

	dumps, err := filepath.Glob(filepath.Join(config.DumpDir, "memory_*.txt"))
	if err != nil {
		t.Fatalf("Glob returned error: %v", err)
	}
	if len(dumps) != 1 {
		t.Fatalf("found %d dumps, want 1", len(dumps))
	}
	words, err := source.LoadFile(dumps[0])
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if diff := cmp.Diff([]types.ProgramElement{42, 0, 4, 0, 99}, words); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}
