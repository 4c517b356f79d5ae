package main

import (
	"bytes"
	stderrors "errors"
	"testing"
	"time"

	"intcode/pkg/chain"
	"intcode/pkg/source"
	"intcode/pkg/vm"
)

const (
	seriesProgram   = "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0"
	feedbackProgram = "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5"
)

func compile(t *testing.T, src string) *vm.Image {
	t.Helper()
	words, err := source.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	return vm.Compile(words)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		opts options
		want error
	}{
		{"search", options{program: "p.txt", phases: "5,6,7,8,9", feedback: true}, nil},
		{"single order", options{program: "p.txt", order: "0,1", feedback: false}, nil},
		{"concurrent ring", options{program: "p.txt", order: "9,8,7,6,5", feedback: true, concurrent: true}, nil},
		{"missing program", options{feedback: true}, errNoProgram},
		{"concurrent without order", options{program: "p.txt", feedback: true, concurrent: true}, errConcurrentNoOrder},
		{"concurrent in series", options{program: "p.txt", order: "4,3,2,1,0", concurrent: true}, errConcurrentInSeries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.validate(); !stderrors.Is(err, tt.want) {
				t.Errorf("validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		program string
		opts    options
		want    string
	}{
		{
			name:    "series search",
			program: seriesProgram,
			opts:    options{phases: "0,1,2,3,4"},
			want:    "Max signal: 43210, phase_settings: 4,3,2,1,0\n",
		},
		{
			name:    "feedback search",
			program: feedbackProgram,
			opts:    options{phases: "5,6,7,8,9", feedback: true},
			want:    "Max signal: 139629729, phase_settings: 9,8,7,6,5\n",
		},
		{
			name:    "series order",
			program: seriesProgram,
			opts:    options{order: "4,3,2,1,0"},
			want:    "Signal: 43210, phase_settings: 4,3,2,1,0\n",
		},
		{
			name:    "feedback order",
			program: feedbackProgram,
			opts:    options{order: "9,8,7,6,5", feedback: true},
			want:    "Signal: 139629729, phase_settings: 9,8,7,6,5\n",
		},
		{
			name:    "concurrent order",
			program: feedbackProgram,
			opts:    options{order: "9,8,7,6,5", feedback: true, concurrent: true, timeout: 10 * time.Second},
			want:    "Signal: 139629729, phase_settings: 9,8,7,6,5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			if err := run(compile(t, tt.program), &tt.opts, &stdout); err != nil {
				t.Fatalf("run returned error: %v", err)
			}
			if got := stdout.String(); got != tt.want {
				t.Errorf("run wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunReportsChainErrors(t *testing.T) {
	// Waits for a third input nobody sends.
	img := compile(t, "3,20,3,21,3,22,99")
	opts := &options{order: "0,0", feedback: true, concurrent: true, timeout: 10 * time.Second}
	var stdout bytes.Buffer
	if err := run(img, opts, &stdout); !stderrors.Is(err, chain.ErrDeadlock) {
		t.Errorf("run error = %v, want ErrDeadlock", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("run wrote %q on failure", stdout.String())
	}
}
