package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"intcode/pkg/chain"
	"intcode/pkg/source"
	"intcode/pkg/types"
	"intcode/pkg/vm"
)

var (
	errNoProgram          = stderrors.New("--program flag is required")
	errConcurrentNoOrder  = stderrors.New("-concurrent needs -order")
	errConcurrentInSeries = stderrors.New("-concurrent runs a feedback ring and cannot be combined with -feedback=false")
)

type options struct {
	program    string
	phases     string
	feedback   bool
	order      string
	concurrent bool
	timeout    time.Duration
}

func (o *options) validate() error {
	if o.program == "" {
		return errNoProgram
	}
	if o.concurrent && o.order == "" {
		return errConcurrentNoOrder
	}
	if o.concurrent && !o.feedback {
		return errConcurrentInSeries
	}
	return nil
}

func main() {
	opts := &options{}
	flag.StringVar(&opts.program, "program", "", "Path to the amplifier controller program")
	flag.StringVar(&opts.phases, "phases", "5,6,7,8,9", "Comma-separated phase settings to permute")
	flag.BoolVar(&opts.feedback, "feedback", true, "Connect the last amplifier back to the first")
	flag.StringVar(&opts.order, "order", "", "Run a single phase order instead of searching")
	flag.BoolVar(&opts.concurrent, "concurrent", false, "With -order, run one goroutine per amplifier")
	flag.DurationVar(&opts.timeout, "timeout", time.Minute, "Upper bound for a -concurrent run")

	flag.Parse()

	if err := opts.validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	img, err := vm.LoadImage(opts.program)
	if err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}
	log.Printf("Loaded %d words (image %x)", img.Len(), img.Hash[:4])

	if err := run(img, opts, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

// run evaluates one phase order when opts.order is set and searches every
// ordering of opts.phases otherwise.
func run(img *vm.Image, opts *options, stdout io.Writer) error {
	if opts.order != "" {
		phases, err := source.ParseString(opts.order)
		if err != nil {
			return fmt.Errorf("parse -order: %w", err)
		}
		signal, err := runOrder(img, opts, phases)
		if err != nil {
			return fmt.Errorf("chain failed: %w", err)
		}
		fmt.Fprintf(stdout, "Signal: %d, phase_settings: %s\n", signal, source.Format(phases))
		return nil
	}

	phases, err := source.ParseString(opts.phases)
	if err != nil {
		return fmt.Errorf("parse -phases: %w", err)
	}
	signal, best, err := chain.MaxSignal(img, phases, opts.feedback)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	fmt.Fprintf(stdout, "Max signal: %d, phase_settings: %s\n", signal, source.Format(best))
	return nil
}

func runOrder(img *vm.Image, opts *options, phases []types.ProgramElement) (types.ProgramElement, error) {
	if opts.concurrent {
		ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
		defer cancel()
		return chain.RunConcurrent(ctx, img, phases, 0)
	}

	c, err := chain.New(img, phases)
	if err != nil {
		return 0, err
	}
	if !opts.feedback {
		return c.Series(0)
	}
	return c.Run(0)
}
