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

// Package kernels binds the fastest compiled kernel of every family to the
// host CPU, once.
//
// A Table is built from detected capabilities and a selection Config. For each
// family independently it walks the dispatch ladder (AVX-512, AVX2/FMA, AVX,
// SSE4.1, NEON, scalar) and keeps the first tier that was compiled into the
// binary and that the Config allows. The dot product therefore always
// resolves; the integer matrix kernel may resolve to nil, in which case
// Prepare falls back to the generic computation.
//
// Most programs only need the process-wide table:
//
//	t := kernels.Default()
//	d := t.DotProduct(u, v)
//
//	p := t.Prepare(w)
//	intsimd.MatrixDotVector(p, scales, in, out)
//
// Default reads HWY_SIMD, HWY_SIMD_STRICT and HWY_NO_SIMD on first use; see
// hwy.ConfigFromEnv.
package kernels

import (
	"fmt"
	"sync"

	"github.com/simdkern/simdkern/hwy"
	"github.com/simdkern/simdkern/hwy/contrib/dot"
	"github.com/simdkern/simdkern/hwy/contrib/intsimd"
	"github.com/simdkern/simdkern/hwy/contrib/workerpool"
)

// Table holds the kernels selected for one (Capabilities, Config) pair.
// It is immutable and safe for concurrent use.
type Table struct {
	Caps   hwy.Capabilities
	Config hwy.Config

	// DotLevel is the tier of Dot32, Dot64 and DotProduct.
	DotLevel hwy.DispatchLevel
	Dot32    func(a, b []float32) float32
	Dot64    func(a, b []float64) float64

	// DotProduct is Dot32 or Dot64, whichever matches hwy.TFloat.
	DotProduct func(a, b []hwy.TFloat) hwy.TFloat

	// IntKernel is the integer matrix-vector kernel, nil for the generic path.
	IntKernel *intsimd.Kernel
}

// New selects kernels for caps under cfg. The result depends only on its
// arguments and the kernels compiled into the binary.
//
// A forced tier that caps does not support is used anyway unless cfg.Strict is
// set; calling such a kernel faults with an illegal instruction.
func New(caps hwy.Capabilities, cfg hwy.Config) *Table {
	levels := cfg.Candidates(caps)
	d := dot.Select(levels)
	t := &Table{
		Caps:      caps,
		Config:    cfg,
		DotLevel:  d.Level,
		Dot32:     d.F32,
		Dot64:     d.F64,
		IntKernel: intsimd.Select(levels),
	}
	if hwy.PreciseFloat {
		t.DotProduct = any(d.F64).(func(a, b []hwy.TFloat) hwy.TFloat)
	} else {
		t.DotProduct = any(d.F32).(func(a, b []hwy.TFloat) hwy.TFloat)
	}
	return t
}

// Default returns the process-wide table built from hwy.Detect and the
// environment. Configuration errors fall back to automatic selection; use
// DefaultErr to see them.
func Default() *Table {
	return defaultTable().table
}

// DefaultErr returns the error, if any, from reading the selection
// environment variables when the default table was built.
func DefaultErr() error {
	return defaultTable().err
}

type tableAndErr struct {
	table *Table
	err   error
}

var defaultTable = sync.OnceValue(func() tableAndErr {
	cfg, err := hwy.ConfigFromEnv()
	return tableAndErr{table: New(hwy.Detect(), cfg), err: err}
})

// Dot computes the dot product of u and v in the working precision with the
// default table. Only min(len(u), len(v)) elements are used.
func Dot(u, v []hwy.TFloat) hwy.TFloat {
	return Default().DotProduct(u, v)
}

// IntLevel returns the tier of the integer kernel, scalar when generic.
func (t *Table) IntLevel() hwy.DispatchLevel {
	if t.IntKernel == nil {
		return hwy.DispatchScalar
	}
	return t.IntKernel.Level
}

// Prepare shapes w for the table's integer kernel.
func (t *Table) Prepare(w intsimd.WeightMatrix) *intsimd.Prepared {
	return intsimd.Prepare(t.IntKernel, w)
}

// DotBatch stores Dot(q, rows[i]) into out[i] for every row, spreading rows
// across pool. A nil pool runs on the calling goroutine.
func (t *Table) DotBatch(pool *workerpool.Pool, q []hwy.TFloat, rows [][]hwy.TFloat, out []hwy.TFloat) {
	out = out[:len(rows)]
	if pool == nil {
		for i, r := range rows {
			out[i] = t.DotProduct(q, r)
		}
		return
	}
	pool.ParallelForAtomicBatched(len(rows), 16, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = t.DotProduct(q, rows[i])
		}
	})
}

func (t *Table) String() string {
	return fmt.Sprintf("dot=%s int=%s", t.DotLevel, t.IntLevel())
}
