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

import "github.com/simdkern/simdkern/hwy"

// biasScale multiplies the bias column so that it lives on the same scale as
// products of two int8 values.
const biasScale = 127

// WeightMatrix is a row-major int8 matrix whose last column holds the bias.
type WeightMatrix struct {
	Rows int
	Cols int
	Data []int8
}

// NewWeightMatrix allocates a zero matrix for rows outputs and numIn inputs.
func NewWeightMatrix(rows, numIn int) WeightMatrix {
	cols := numIn + 1
	return WeightMatrix{Rows: rows, Cols: cols, Data: make([]int8, rows*cols)}
}

// NumIn returns the number of inputs, excluding the bias column.
func (w WeightMatrix) NumIn() int {
	return w.Cols - 1
}

// Row returns row r including its bias.
func (w WeightMatrix) Row(r int) []int8 {
	return w.Data[r*w.Cols : (r+1)*w.Cols]
}

// At returns the weight at (r, c).
func (w WeightMatrix) At(r, c int) int8 {
	return w.Data[r*w.Cols+c]
}

// Set stores x at (r, c).
func (w WeightMatrix) Set(r, c int, x int8) {
	w.Data[r*w.Cols+c] = x
}

// Bias returns the bias of row r.
func (w WeightMatrix) Bias(r int) int8 {
	return w.Data[r*w.Cols+w.Cols-1]
}

func (w WeightMatrix) validate() {
	if w.Rows < 0 || w.Cols < 1 {
		panic("intsimd: weight matrix needs at least the bias column")
	}
	if len(w.Data) < w.Rows*w.Cols {
		panic("intsimd: weight matrix slice too small")
	}
}

// MatrixDotVectorGeneric computes the quantized matrix-vector product element
// by element from the unshaped weights. u needs NumIn() elements, scales and
// v need Rows. It is the reference every shaped kernel is measured against.
func MatrixDotVectorGeneric[T hwy.Floats](w WeightMatrix, scales []T, u []int8, v []T) {
	matrixDotVectorRows(w, scales, u, v, 0, w.Rows)
}

func matrixDotVectorRows[T hwy.Floats](w WeightMatrix, scales []T, u []int8, v []T, start, end int) {
	numIn := w.NumIn()
	u = u[:numIn]
	for o := start; o < end; o++ {
		row := w.Row(o)
		var total int32
		for j, x := range u {
			total += int32(row[j]) * int32(x)
		}
		total += int32(row[numIn]) * biasScale
		v[o] = T(total) * scales[o]
	}
}
