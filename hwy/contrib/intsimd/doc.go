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

// Package intsimd provides 8-bit integer matrix-vector kernels for quantized
// weight matrices, one per SIMD tier.
//
// # Contract
//
// A WeightMatrix has Rows outputs and NumIn()+1 columns of int8; the last
// column of each row is a bias. Given int8 inputs u and one float scale per
// row, every kernel computes
//
//	v[o] = (Σ_j w[o][j]*u[j] + w[o][numIn]*127) * scales[o]
//
// with int8×int8 products widened to 16 bits and accumulated in 32 bits.
// Integer accumulation is exact, so every tier produces the same value as
// MatrixDotVectorGeneric.
//
// # Shaped kernels
//
// A Kernel describes one SIMD tier: how many outputs fit in a register, how
// many registers it fills at once, and how the input must be padded. Before a
// kernel can run, the weights are repacked once into the tier's layout with
// Kernel.Shape; the inputs must be zero-padded to RoundInputs(numIn) and the
// output slice sized to at least RoundOutputs(numOut).
//
// Prepare bundles these steps and falls back to the generic computation when
// no kernel was compiled for the target:
//
//	p := intsimd.Prepare(intsimd.Select(levels), w)
//	u := make([]int8, p.RoundInputs(w.NumIn()))
//	v := make([]float32, p.RoundOutputs(w.Rows))
//	intsimd.MatrixDotVector(p, scales, u, v)
package intsimd
