package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"intcode/pkg/source"
	"intcode/pkg/types"
)

// Config mirrors the command-line flags; flags given explicitly win.
type Config struct {
	Program     string                                 `yaml:"program"`
	Inputs      []types.ProgramElement                 `yaml:"inputs"`
	Patches     map[types.Address]types.ProgramElement `yaml:"patches"`
	Interactive bool                                   `yaml:"interactive"`
	Trace       string                                 `yaml:"trace"`
	DumpDir     string                                 `yaml:"dump_dir"`
}

// LoadConfig reads a YAML (or JSON) configuration file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var config Config
	if err := decoder.Decode(&config); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: %s is empty", path)
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &config, nil
}

// patchList collects repeated -patch addr=value flags.
type patchList map[types.Address]types.ProgramElement

func (p patchList) String() string {
	parts := make([]string, 0, len(p))
	for addr, value := range p {
		parts = append(parts, fmt.Sprintf("%d=%d", addr, value))
	}
	return strings.Join(parts, ",")
}

func (p patchList) Set(s string) error {
	addrText, valueText, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("patch %q: want addr=value", s)
	}
	addr, err := strconv.ParseUint(strings.TrimSpace(addrText), 10, 64)
	if err != nil {
		return fmt.Errorf("patch %q: bad address: %w", s, err)
	}
	value, err := strconv.ParseInt(strings.TrimSpace(valueText), 10, 64)
	if err != nil {
		return fmt.Errorf("patch %q: bad value: %w", s, err)
	}
	p[types.Address(addr)] = types.ProgramElement(value)
	return nil
}

// parseInputs accepts the same comma-separated form as program sources.
func parseInputs(s string) ([]types.ProgramElement, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return source.ParseString(s)
}
