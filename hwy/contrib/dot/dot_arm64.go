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

//go:build !noasm && arm64

package dot

import "github.com/simdkern/simdkern/hwy"

// The NEON kernels process n elements (a multiple of 4 for float32, 2 for
// float64) with two FMLA accumulators and store both to acc.

//go:noescape
func dotNEONF32(a, b *float32, n int, acc *[8]float32)

//go:noescape
func dotNEONF64(a, b *float64, n int, acc *[4]float64)

func init() {
	register(Variant{Level: hwy.DispatchNEON, F32: DotNEON, F64: DotNEONFloat64})
}

// DotNEON computes the float32 dot product 4 lanes at a time.
func DotNEON(a, b []float32) float32 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float32](n, hwy.DispatchNEON)
	if body == 0 {
		return Scalar32(a[:n], b[:n])
	}
	var acc [8]float32
	dotNEONF32(&a[0], &b[0], body, &acc)
	return tail32(hsum32(acc[:]), a, b, body, n)
}

// DotNEONFloat64 computes the float64 dot product 2 lanes at a time.
func DotNEONFloat64(a, b []float64) float64 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float64](n, hwy.DispatchNEON)
	if body == 0 {
		return Scalar64(a[:n], b[:n])
	}
	var acc [4]float64
	dotNEONF64(&a[0], &b[0], body, &acc)
	return tail64(hsum64(acc[:]), a, b, body, n)
}
