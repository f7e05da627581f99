package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"tvm-calculator/domain"
	"tvm-calculator/repository"
	"tvm-calculator/service"
)

type errorOutput struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tvmcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	target := fs.String("target", "", "Quantity to solve for: fv, pv, n or r")
	periods := fs.Float64("n", 0, "Number of periods")
	rate := fs.Float64("r", 0, "Interest rate per period (0.08 = 8%)")
	pv := fs.Float64("pv", 0, "Present value")
	fv := fs.Float64("fv", 0, "Future value")
	pmt := fs.Float64("pmt", 0, "Payment per period")
	freq := fs.Int("freq", 1, "Compounding periods per year")
	tol := fs.Float64("tol", service.DefaultSolverTolerance, "Rate solver relative tolerance")
	maxIter := fs.Int("max-iter", service.DefaultSolverMaxIterations, "Rate solver iteration cap")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tvmcalc -target fv|pv|n|r [-n N] [-r R] [-pv PV] [-fv FV] [-pmt PMT]")
		fmt.Fprintln(stderr, "Only the flags given on the command line are treated as known.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Solo los flags pasados explícitamente cuentan como presentes
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	optional := func(name string, v float64) *float64 {
		if !set[name] {
			return nil
		}
		return domain.Float(v)
	}

	params := domain.NewTVMParams(
		optional("n", *periods),
		optional("r", *rate),
		optional("pv", *pv),
		optional("fv", *fv),
	)
	params.Payment = *pmt
	params.CompoundingFrequency = *freq

	engine := service.NewTVMEngine(service.SolverConfig{
		Tolerance:     *tol,
		MaxIterations: *maxIter,
		InitialGuess:  service.DefaultRateGuess,
	})
	svc := service.NewTVMService(engine,
		repository.NewCalculationRepositoryMemory(),
		repository.NewMockCache(),
	)

	result, err := svc.Calculate(domain.Target(*target), params)
	if err != nil {
		writeOutput(stdout, errorOutput{Error: err.Error(), Kind: kindName(err)})
		return 1
	}
	writeOutput(stdout, result)
	return 0
}

func kindName(err error) string {
	if k := domain.KindOf(err); k != 0 {
		return k.String()
	}
	return ""
}

func writeOutput(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
	}
}
