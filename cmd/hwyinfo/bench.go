// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/viterin/vek"
	"github.com/viterin/vek/vek32"
	"golang.org/x/sync/errgroup"

	"github.com/simdkern/simdkern/hwy"
	"github.com/simdkern/simdkern/hwy/contrib/dot"
	"github.com/simdkern/simdkern/hwy/contrib/intsimd"
	"github.com/simdkern/simdkern/hwy/contrib/kernels"
)

const defaultBenchDuration = 200 * time.Millisecond

// benchCase is one timed kernel. run is called repeatedly and returns a value
// derived from its output so results can be compared across tiers.
type benchCase struct {
	family   string
	tier     string
	selected bool
	run      func() float64
}

type benchRow struct {
	Family     string  `json:"family" yaml:"family"`
	Tier       string  `json:"tier" yaml:"tier"`
	Selected   bool    `json:"selected" yaml:"selected"`
	NsPerOp    float64 `json:"ns_per_op" yaml:"ns_per_op"`
	Iterations int     `json:"iterations" yaml:"iterations"`
	Result     float64 `json:"result" yaml:"result"`
}

type benchReport struct {
	Size int        `json:"size" yaml:"size"`
	Rows int        `json:"rows" yaml:"rows"`
	Cols int        `json:"cols" yaml:"cols"`
	Runs []benchRow `json:"runs" yaml:"runs"`
}

type benchParams struct {
	size, rows, cols int
	duration         time.Duration
	jobs             int
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := selectionConfig(cmd)
	if err != nil {
		return err
	}
	var bp benchParams
	bp.size, _ = cmd.Flags().GetInt("size")
	bp.rows, _ = cmd.Flags().GetInt("rows")
	bp.cols, _ = cmd.Flags().GetInt("cols")
	bp.duration, _ = cmd.Flags().GetDuration("duration")
	bp.jobs, _ = cmd.Flags().GetInt("jobs")
	if bp.size < 1 || bp.rows < 1 || bp.cols < 0 {
		return fmt.Errorf("bench: size and rows must be positive, cols non-negative")
	}

	caps := hwy.Detect()
	rep, err := runCases(cmd.Context(), bp, benchCases(caps, kernels.New(caps, cfg), bp))
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return writeReport(cmd.OutOrStdout(), format, rep)
}

// benchCases lists every tier caps can execute, plus vek as an outside
// reference for the float families.
func benchCases(caps hwy.Capabilities, t *kernels.Table, bp benchParams) []benchCase {
	rng := rand.New(rand.NewPCG(uint64(bp.size), uint64(bp.rows)))

	a32, b32 := make([]float32, bp.size), make([]float32, bp.size)
	a64, b64 := make([]float64, bp.size), make([]float64, bp.size)
	for i := range bp.size {
		a64[i], b64[i] = rng.NormFloat64(), rng.NormFloat64()
		a32[i], b32[i] = float32(a64[i]), float32(b64[i])
	}

	var cases []benchCase
	for _, v := range dot.Variants() {
		if !caps.Supports(v.Level) {
			continue
		}
		f32, f64 := v.F32, v.F64
		sel := v.Level == t.DotLevel
		cases = append(cases,
			benchCase{family: "dot32", tier: v.Level.String(), selected: sel, run: func() float64 { return float64(f32(a32, b32)) }},
			benchCase{family: "dot64", tier: v.Level.String(), selected: sel, run: func() float64 { return f64(a64, b64) }},
		)
	}
	cases = append(cases,
		benchCase{family: "dot32", tier: "vek32", run: func() float64 { return float64(vek32.Dot(a32, b32)) }},
		benchCase{family: "dot64", tier: "vek", run: func() float64 { return vek.Dot(a64, b64) }},
	)

	w := intsimd.NewWeightMatrix(bp.rows, bp.cols)
	for i := range w.Data {
		w.Data[i] = int8(rng.IntN(256) - 128)
	}
	scales := make([]float32, bp.rows)
	for i := range scales {
		scales[i] = 1.0 / 127
	}
	kernelsToRun := []*intsimd.Kernel{nil}
	for _, k := range intsimd.Kernels() {
		if caps.Supports(k.Level) {
			kernelsToRun = append(kernelsToRun, k)
		}
	}
	u0 := make([]int8, bp.cols)
	for i := range u0 {
		u0[i] = int8(rng.IntN(256) - 128)
	}
	for _, k := range kernelsToRun {
		p := intsimd.Prepare(k, w)
		u := make([]int8, p.RoundInputs(bp.cols))
		copy(u, u0)
		v := make([]float32, p.RoundOutputs(bp.rows))
		cases = append(cases, benchCase{
			family:   "int8",
			tier:     p.Level().String(),
			selected: k == t.IntKernel,
			run: func() float64 {
				intsimd.MatrixDotVector(p, scales, u, v)
				return float64(vek32.Sum(v[:bp.rows]))
			},
		})
	}
	return cases
}

func runCases(ctx context.Context, bp benchParams, cases []benchCase) (benchReport, error) {
	rep := benchReport{Size: bp.size, Rows: bp.rows, Cols: bp.cols, Runs: make([]benchRow, len(cases))}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(bp.jobs, 1))
	for i, c := range cases {
		g.Go(func() error {
			perOp, iters, result, err := measure(ctx, bp.duration, c.run)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", c.family, c.tier, err)
			}
			rep.Runs[i] = benchRow{
				Family:     c.family,
				Tier:       c.tier,
				Selected:   c.selected,
				NsPerOp:    float64(perOp.Nanoseconds()) / float64(iters),
				Iterations: iters,
				Result:     result,
			}
			return nil
		})
	}
	return rep, g.Wait()
}

// measure calls fn in doubling batches until at least d has elapsed and
// returns the total time, the number of calls and the last result.
func measure(ctx context.Context, d time.Duration, fn func() float64) (time.Duration, int, float64, error) {
	result := fn()
	iters := 0
	start := time.Now()
	for batch := 1; ; batch *= 2 {
		for range batch {
			result = fn()
		}
		iters += batch
		if elapsed := time.Since(start); elapsed >= d {
			return elapsed, iters, result, nil
		}
		if err := ctx.Err(); err != nil {
			return 0, iters, result, err
		}
	}
}

func (r benchReport) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "dot size %d, int8 matrix %dx%d\n\n", r.Size, r.Rows, r.Cols)
	fmt.Fprintln(tw, "FAMILY\tTIER\tNS/OP\tITERS\tRESULT\t")
	for _, run := range r.Runs {
		tier := run.Tier
		if run.Selected {
			tier += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\t%.6g\t\n", run.Family, tier, run.NsPerOp, run.Iterations, run.Result)
	}
	return tw.Flush()
}
