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

package intsimd

import (
	"github.com/simdkern/simdkern/hwy"
	"github.com/simdkern/simdkern/hwy/contrib/workerpool"
)

// Prepared is a weight matrix ready for repeated products: shaped for a
// kernel when one is available, kept as-is otherwise.
type Prepared struct {
	w      WeightMatrix
	kernel *Kernel
	shaped *ShapedMatrix
}

// Prepare shapes w for k. A nil k keeps the unshaped matrix and routes every
// product through MatrixDotVectorGeneric.
func Prepare(k *Kernel, w WeightMatrix) *Prepared {
	w.validate()
	p := &Prepared{w: w, kernel: k}
	if k != nil {
		p.shaped = k.Shape(w)
	}
	return p
}

// Kernel returns the kernel in use, or nil for the generic path.
func (p *Prepared) Kernel() *Kernel {
	return p.kernel
}

// Level returns the tier of the kernel in use, scalar for the generic path.
func (p *Prepared) Level() hwy.DispatchLevel {
	if p.kernel == nil {
		return hwy.DispatchScalar
	}
	return p.kernel.Level
}

// NumOut returns the number of output rows.
func (p *Prepared) NumOut() int {
	return p.w.Rows
}

// NumIn returns the number of inputs, excluding the bias.
func (p *Prepared) NumIn() int {
	return p.w.NumIn()
}

// Weights returns the unshaped matrix.
func (p *Prepared) Weights() WeightMatrix {
	return p.w
}

// RoundInputs returns the input length callers must zero-pad to.
func (p *Prepared) RoundInputs(n int) int {
	if p.kernel == nil {
		return n
	}
	return p.kernel.RoundInputs(n)
}

// RoundOutputs returns the output length callers must allocate.
func (p *Prepared) RoundOutputs(m int) int {
	if p.kernel == nil {
		return m
	}
	return p.kernel.RoundOutputs(m)
}

// MatrixDotVector computes v[o] = (Σ_j w[o][j]*u[j] + 127*bias[o]) * scales[o]
// for every output row. u must hold RoundInputs(NumIn()) elements, zero
// beyond NumIn(); v must hold RoundOutputs(NumOut()).
func MatrixDotVector[T hwy.Floats](p *Prepared, scales []T, u []int8, v []T) {
	if p.kernel == nil {
		MatrixDotVectorGeneric(p.w, scales, u, v)
		return
	}
	matrixDotVectorShaped(p.kernel, p.shaped, scales, u, v)
}

// MatrixDotVectorParallel is MatrixDotVector with the rows split across pool.
// Shaped matrices hand out one register set at a time since sets differ in
// size; generic ones are split into contiguous row ranges. Results are
// identical to the serial version.
func MatrixDotVectorParallel[T hwy.Floats](pool *workerpool.Pool, p *Prepared, scales []T, u []int8, v []T) {
	if p.kernel == nil {
		pool.ParallelFor(p.w.Rows, func(start, end int) {
			matrixDotVectorRows(p.w, scales, u, v, start, end)
		})
		return
	}
	m := p.shaped
	pool.ParallelForAtomic(m.NumSets(), func(i int) {
		computeSet(p.kernel, m, m.sets[i], scales, u, v)
	})
}
