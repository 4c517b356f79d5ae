package main

import (
	"bufio"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"intcode/pkg/source"
	"intcode/pkg/types"
	"intcode/pkg/vm"
)

var errNoProgram = stderrors.New("--program flag is required")

func main() {
	config, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := run(config, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

// parseFlags builds the run configuration from args. Values from -config are
// the base; flags given explicitly override them and -patch entries merge
// over the file's patches.
func parseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("intcode", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML or JSON configuration file")
	programPath := fs.String("program", "", "Path to the comma-separated program source")
	inputText := fs.String("input", "", "Comma-separated inputs queued before the run")
	interactive := fs.Bool("interactive", false, "Read further inputs from stdin whenever the program waits")
	tracePath := fs.String("trace", "", "Write an instruction trace to this file")
	dumpDir := fs.String("dump-dir", "", "Write the final memory image into this directory")
	patches := patchList{}
	fs.Var(patches, "patch", "Overwrite memory before the run, addr=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	config := &Config{}
	if *configPath != "" {
		var err error
		config, err = LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	var inputErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "program":
			config.Program = *programPath
		case "input":
			config.Inputs, inputErr = parseInputs(*inputText)
		case "interactive":
			config.Interactive = *interactive
		case "trace":
			config.Trace = *tracePath
		case "dump-dir":
			config.DumpDir = *dumpDir
		}
	})
	if inputErr != nil {
		return nil, fmt.Errorf("parse -input: %w", inputErr)
	}
	if config.Patches == nil {
		config.Patches = make(map[types.Address]types.ProgramElement)
	}
	for addr, value := range patches {
		config.Patches[addr] = value
	}

	if config.Program == "" {
		return nil, errNoProgram
	}
	return config, nil
}

// run loads the program, applies patches and inputs, executes it and writes
// every output to stdout, one per line.
func run(config *Config, stdin io.Reader, stdout io.Writer) error {
	if config.Trace != "" {
		if err := vm.InitFileLogger(config.Trace); err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer vm.CloseFileLogger()
	}

	machine, err := vm.LoadFile(config.Program)
	if err != nil {
		return fmt.Errorf("load program: %w", err)
	}
	for addr, value := range config.Patches {
		machine.WriteMemory(addr, value)
	}
	machine.PushInput(config.Inputs...)

	if config.Interactive {
		err = runInteractive(machine, stdin, stdout)
	} else {
		err = machine.RunToCompletion()
		printOutputs(stdout, machine.DrainOutputs())
	}
	if err != nil {
		return fmt.Errorf("program failed: %w (%s)", err, machine)
	}

	if config.DumpDir != "" {
		path, err := dumpMemory(machine, config.DumpDir)
		if err != nil {
			return fmt.Errorf("dump memory: %w", err)
		}
		log.Printf("Memory written to %s", path)
	}
	return nil
}

func runInteractive(machine *vm.Machine, stdin io.Reader, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)
	for {
		exitReason, err := machine.RunToNextInput()
		printOutputs(stdout, machine.DrainOutputs())
		if err != nil {
			return err
		}
		if exitReason == vm.ExitHalt {
			return nil
		}

		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return fmt.Errorf("stdin closed while the program awaits input")
		}
		inputs, err := parseInputs(scanner.Text())
		if err != nil {
			log.Printf("Ignoring input: %v", err)
			continue
		}
		machine.PushInput(inputs...)
	}
}

func printOutputs(w io.Writer, outputs []types.ProgramElement) {
	for _, value := range outputs {
		fmt.Fprintln(w, value)
	}
}

func dumpMemory(machine *vm.Machine, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("memory_%s.txt", uuid.New().String()))
	if err := os.WriteFile(path, []byte(source.Format(machine.MemorySnapshot())+"\n"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
