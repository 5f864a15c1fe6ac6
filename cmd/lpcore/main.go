// Command lpcore reads an MPS file, solves it with the revised simplex
// engine and prints the terminal report. GLPK is used only as the MPS
// parser; every pivot is ours.
//
// Usage:
//
//	lpcore -mps problem.mps [-algorithm primal|dual] [-max-iter N]
//	       [-seed N] [-plot convergence.png] [-verbose]
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"

	"github.com/katalvlaran/lpcore/lp"
	"github.com/katalvlaran/lpcore/simplex"
	"github.com/katalvlaran/lpcore/trace"
)

func main() {
	var (
		mpsPath   = flag.String("mps", "", "path to the MPS problem file (required)")
		algorithm = flag.String("algorithm", "primal", "pivoting algorithm: primal or dual")
		maxIter   = flag.Int("max-iter", simplex.DefaultIterationLimit, "iteration limit")
		seed      = flag.Int64("seed", 1, "perturbation seed")
		plotPath  = flag.String("plot", "", "write a convergence chart to this path")
		verbose   = flag.Bool("verbose", false, "log phase transitions and rebuilds")
	)
	flag.Parse()
	if *mpsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	w, err := readMPS(*mpsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lpcore: %v\n", err)
		os.Exit(1)
	}

	opts := simplex.DefaultOptions()
	opts.IterationLimit = *maxIter
	opts.Seed = *seed
	opts.Verbose = *verbose
	if *algorithm == "dual" {
		opts.Algorithm = simplex.AlgorithmDual
	}

	var rec *trace.Recorder
	if *plotPath != "" {
		rec = trace.NewRecorder()
		opts.Observer = rec
	}

	eng, err := simplex.New(w, simplex.SlackBasis(w), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lpcore: %v\n", err)
		os.Exit(1)
	}
	if err := eng.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "lpcore: init: %v\n", err)
		os.Exit(1)
	}
	res, err := eng.Solve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lpcore: solve: %v\n", err)
		os.Exit(1)
	}

	report(res)

	if rec != nil {
		if err := rec.Plot(*plotPath); err != nil {
			fmt.Fprintf(os.Stderr, "lpcore: plot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("convergence chart: %s\n", *plotPath)
	}
}

// report prints the terminal state in a compact human-readable form.
func report(res *simplex.Result) {
	fmt.Printf("status:     %s\n", res.Status)
	if res.Status == simplex.StatusOptimal {
		fmt.Printf("objective:  %.10g\n", res.PrimalObjective)
	}
	fmt.Printf("iterations: primal %d/%d, dual %d/%d\n",
		res.PrimalPhase1Iterations, res.PrimalPhase2Iterations,
		res.DualPhase1Iterations, res.DualPhase2Iterations)

	if res.HasDualRay() {
		ray := res.DualRayCertificate()
		fmt.Printf("infeasibility certificate: row %d, sign %+d\n", ray.Row, ray.Sign)
	}
	if res.HasPrimalRay() {
		ray := res.PrimalRayCertificate()
		fmt.Printf("unboundedness certificate: column %d, sign %+d\n", ray.Col, ray.Sign)
	}

	const maxPrinted = 20
	for j, v := range res.ColValue {
		if j == maxPrinted {
			fmt.Printf("  ... (%d more)\n", len(res.ColValue)-maxPrinted)

			break
		}
		fmt.Printf("  x[%d] = %.10g\n", j, v)
	}
}

// readMPS parses the file with GLPK and converts it to a working LP: sparse
// CSC structural matrix, per-column costs and bounds, per-row ranges. GLPK
// encodes free directions as ±MaxFloat64; the engine wants ±Inf.
func readMPS(path string) (*lp.WorkingLP, error) {
	// GLPK keeps global state; pin the goroutine while it is live.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	prob := glpk.New()
	defer prob.Delete()
	prob.ReadMPS(glpk.MPS_FILE, nil, path)

	m, n := prob.NumRows(), prob.NumCols()
	if m == 0 || n == 0 {
		return nil, fmt.Errorf("lp: empty or unreadable MPS file %q", path)
	}

	// Collect per-column entries; visiting rows in ascending order keeps the
	// row indices inside each column sorted, as NewMatrix requires.
	colRows := make([][]int, n)
	colVals := make([][]float64, n)
	for r := 1; r <= m; r++ {
		idxs, vals := prob.MatRow(r)
		for k, c := range idxs {
			if c == 0 {
				continue // GLPK pads slot 0
			}
			j := int(c) - 1
			colRows[j] = append(colRows[j], r-1)
			colVals[j] = append(colVals[j], vals[k])
		}
	}

	colPtr := make([]int, n+1)
	var rowIdx []int
	var value []float64
	for j := 0; j < n; j++ {
		colPtr[j+1] = colPtr[j] + len(colRows[j])
		rowIdx = append(rowIdx, colRows[j]...)
		value = append(value, colVals[j]...)
	}
	a, err := lp.NewMatrix(m, n, colPtr, rowIdx, value)
	if err != nil {
		return nil, err
	}

	cost := make([]float64, n)
	colLower := make([]float64, n)
	colUpper := make([]float64, n)
	for j := 0; j < n; j++ {
		cost[j] = prob.ObjCoef(j + 1)
		colLower[j] = unclamp(prob.ColLB(j+1), -1)
		colUpper[j] = unclamp(prob.ColUB(j+1), 1)
	}
	rowLower := make([]float64, m)
	rowUpper := make([]float64, m)
	for r := 1; r <= m; r++ {
		rowLower[r-1] = unclamp(prob.RowLB(r), -1)
		rowUpper[r-1] = unclamp(prob.RowUB(r), 1)
	}

	return lp.NewWorkingLP(a, cost, colLower, colUpper, rowLower, rowUpper)
}

// unclamp maps GLPK's ±MaxFloat64 "no bound" encoding to ±Inf.
func unclamp(v float64, sign int) float64 {
	if sign < 0 && v <= -math.MaxFloat64 {
		return math.Inf(-1)
	}
	if sign > 0 && v >= math.MaxFloat64 {
		return math.Inf(1)
	}

	return v
}
