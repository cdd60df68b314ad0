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

//go:build !noasm && amd64

package dot

import (
	"unsafe"

	"github.com/simdkern/simdkern/hwy"
)

// The assembly kernels process exactly n elements, where n is a multiple of
// the tier's lane count, and store their lane accumulators to acc. Reduction
// and the tail are done here in Go.

//go:noescape
func dotSSE41F32(a, b *float32, n int, acc *[4]float32)

//go:noescape
func dotSSE41AlignedF32(a, b *float32, n int, acc *[4]float32)

//go:noescape
func dotSSE41F64(a, b *float64, n int, acc *[2]float64)

//go:noescape
func dotSSE41AlignedF64(a, b *float64, n int, acc *[2]float64)

//go:noescape
func dotAVXF32(a, b *float32, n int, acc *[8]float32)

//go:noescape
func dotAVXF64(a, b *float64, n int, acc *[4]float64)

//go:noescape
func dotFMAF32(a, b *float32, n int, acc *[8]float32)

//go:noescape
func dotFMAF64(a, b *float64, n int, acc *[4]float64)

//go:noescape
func dotAVX512F32(a, b *float32, n int, acc *[16]float32)

//go:noescape
func dotAVX512F64(a, b *float64, n int, acc *[8]float64)

func init() {
	register(Variant{Level: hwy.DispatchSSE41, F32: DotSSE41, F64: DotSSE41Float64})
	register(Variant{Level: hwy.DispatchAVX, F32: DotAVX, F64: DotAVXFloat64})
	register(Variant{Level: hwy.DispatchAVX2, F32: DotFMA, F64: DotFMAFloat64})
	register(Variant{Level: hwy.DispatchAVX512, F32: DotAVX512, F64: DotAVX512Float64})
}

func aligned16[T any](p *T) bool {
	return uintptr(unsafe.Pointer(p))&15 == 0
}

// DotSSE41 computes the float32 dot product 4 lanes at a time.
// When both operands are 16-byte aligned the kernel multiplies straight from
// memory instead of issuing unaligned loads; the result is identical.
func DotSSE41(a, b []float32) float32 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float32](n, hwy.DispatchSSE41)
	if body == 0 {
		return Scalar32(a[:n], b[:n])
	}
	var acc [4]float32
	if aligned16(&a[0]) && aligned16(&b[0]) {
		dotSSE41AlignedF32(&a[0], &b[0], body, &acc)
	} else {
		dotSSE41F32(&a[0], &b[0], body, &acc)
	}
	return tail32(hsum32(acc[:]), a, b, body, n)
}

// DotSSE41Float64 computes the float64 dot product 2 lanes at a time.
func DotSSE41Float64(a, b []float64) float64 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float64](n, hwy.DispatchSSE41)
	if body == 0 {
		return Scalar64(a[:n], b[:n])
	}
	var acc [2]float64
	if aligned16(&a[0]) && aligned16(&b[0]) {
		dotSSE41AlignedF64(&a[0], &b[0], body, &acc)
	} else {
		dotSSE41F64(&a[0], &b[0], body, &acc)
	}
	return tail64(hsum64(acc[:]), a, b, body, n)
}

// DotAVX computes the float32 dot product 8 lanes at a time with separate
// multiply and add (AVX has no FMA).
func DotAVX(a, b []float32) float32 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float32](n, hwy.DispatchAVX)
	if body == 0 {
		return Scalar32(a[:n], b[:n])
	}
	var acc [8]float32
	dotAVXF32(&a[0], &b[0], body, &acc)
	return tail32(hsum32(acc[:]), a, b, body, n)
}

// DotAVXFloat64 computes the float64 dot product 4 lanes at a time.
func DotAVXFloat64(a, b []float64) float64 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float64](n, hwy.DispatchAVX)
	if body == 0 {
		return Scalar64(a[:n], b[:n])
	}
	var acc [4]float64
	dotAVXF64(&a[0], &b[0], body, &acc)
	return tail64(hsum64(acc[:]), a, b, body, n)
}

// DotFMA computes the float32 dot product 8 lanes at a time with VFMADD231PS.
func DotFMA(a, b []float32) float32 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float32](n, hwy.DispatchAVX2)
	if body == 0 {
		return Scalar32(a[:n], b[:n])
	}
	var acc [8]float32
	dotFMAF32(&a[0], &b[0], body, &acc)
	return tail32(hsum32(acc[:]), a, b, body, n)
}

// DotFMAFloat64 computes the float64 dot product 4 lanes at a time with VFMADD231PD.
func DotFMAFloat64(a, b []float64) float64 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float64](n, hwy.DispatchAVX2)
	if body == 0 {
		return Scalar64(a[:n], b[:n])
	}
	var acc [4]float64
	dotFMAF64(&a[0], &b[0], body, &acc)
	return tail64(hsum64(acc[:]), a, b, body, n)
}

// DotAVX512 computes the float32 dot product 16 lanes at a time.
func DotAVX512(a, b []float32) float32 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float32](n, hwy.DispatchAVX512)
	if body == 0 {
		return Scalar32(a[:n], b[:n])
	}
	var acc [16]float32
	dotAVX512F32(&a[0], &b[0], body, &acc)
	return tail32(hsum32(acc[:]), a, b, body, n)
}

// DotAVX512Float64 computes the float64 dot product 8 lanes at a time.
func DotAVX512Float64(a, b []float64) float64 {
	n := min(len(a), len(b))
	body := hwy.BodyLen[float64](n, hwy.DispatchAVX512)
	if body == 0 {
		return Scalar64(a[:n], b[:n])
	}
	var acc [8]float64
	dotAVX512F64(&a[0], &b[0], body, &acc)
	return tail64(hsum64(acc[:]), a, b, body, n)
}
