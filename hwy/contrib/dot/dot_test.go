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

package dot

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/simdkern/simdkern/hwy"
)

var testSizes = []int{0, 1, 7, 8, 15, 16, 17, 40, 1000}

// runnable returns the compiled variants the host can execute.
func runnable(t testing.TB) []Variant {
	caps := hwy.Detect()
	var out []Variant
	for _, v := range Variants() {
		if caps.Supports(v.Level) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		t.Fatal("no runnable variants; scalar must always be registered")
	}
	return out
}

func randomVec32(r *rand.Rand, n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = float32(r.NormFloat64())
	}
	return v
}

func randomVec64(r *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = r.NormFloat64()
	}
	return v
}

// magnitude32 returns Σ|a[i]*b[i]|, the scale that bounds reordering error.
func magnitude32(a, b []float32) float64 {
	var m float64
	for i := range min(len(a), len(b)) {
		m += math.Abs(float64(a[i]) * float64(b[i]))
	}
	return m
}

func magnitude64(a, b []float64) float64 {
	var m float64
	for i := range min(len(a), len(b)) {
		m += math.Abs(a[i] * b[i])
	}
	return m
}

func TestScalarReference(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{
			name: "simple case",
			a:    []float32{1, 2, 3},
			b:    []float32{4, 5, 6},
			want: 32, // 1*4 + 2*5 + 3*6 = 32
		},
		{
			name: "exact AVX width (8 elements)",
			a:    []float32{1, 2, 3, 4, 5, 6, 7, 8},
			b:    []float32{8, 7, 6, 5, 4, 3, 2, 1},
			want: 120,
		},
		{
			name: "empty slices",
			a:    []float32{},
			b:    []float32{},
			want: 0,
		},
		{
			name: "different lengths",
			a:    []float32{1, 2, 3, 4, 5},
			b:    []float32{1, 2, 3},
			want: 14,
		},
		{
			name: "negative values",
			a:    []float32{-1, -2, -3},
			b:    []float32{4, 5, 6},
			want: -32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scalar32(tt.a, tt.b); got != tt.want {
				t.Errorf("Scalar32() = %v, want %v", got, tt.want)
			}
			a64 := make([]float64, len(tt.a))
			b64 := make([]float64, len(tt.b))
			for i := range tt.a {
				a64[i] = float64(tt.a[i])
			}
			for i := range tt.b {
				b64[i] = float64(tt.b[i])
			}
			if got := Scalar64(a64, b64); got != float64(tt.want) {
				t.Errorf("Scalar64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariantsAgreeFloat32(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, n := range testSizes {
		a := randomVec32(r, n)
		b := randomVec32(r, n)
		want := Scalar32(a, b)
		tol := 1e-4*magnitude32(a, b) + 1e-30
		for _, v := range runnable(t) {
			got := v.F32(a, b)
			if math.Abs(float64(got)-float64(want)) > tol {
				t.Errorf("%v n=%d: got %v, want %v (tol %g)", v.Level, n, got, want, tol)
			}
		}
	}
}

func TestVariantsAgreeFloat64(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for _, n := range testSizes {
		a := randomVec64(r, n)
		b := randomVec64(r, n)
		want := Scalar64(a, b)
		tol := 1e-12*magnitude64(a, b) + 1e-300
		for _, v := range runnable(t) {
			got := v.F64(a, b)
			if math.Abs(got-want) > tol {
				t.Errorf("%v n=%d: got %v, want %v (tol %g)", v.Level, n, got, want, tol)
			}
		}
	}
}

func TestVariantsCommutative(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for _, n := range testSizes {
		a32, b32 := randomVec32(r, n), randomVec32(r, n)
		a64, b64 := randomVec64(r, n), randomVec64(r, n)
		for _, v := range runnable(t) {
			if x, y := v.F32(a32, b32), v.F32(b32, a32); x != y {
				t.Errorf("%v n=%d: F32(a,b)=%v F32(b,a)=%v", v.Level, n, x, y)
			}
			if x, y := v.F64(a64, b64), v.F64(b64, a64); x != y {
				t.Errorf("%v n=%d: F64(a,b)=%v F64(b,a)=%v", v.Level, n, x, y)
			}
		}
	}
}

func TestVariantsZeroVector(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for _, n := range testSizes {
		zero32 := make([]float32, n)
		zero64 := make([]float64, n)
		a32 := randomVec32(r, n)
		a64 := randomVec64(r, n)
		for _, v := range runnable(t) {
			if got := v.F32(zero32, a32); got != 0 {
				t.Errorf("%v n=%d: F32(0, a) = %v, want 0", v.Level, n, got)
			}
			if got := v.F64(a64, zero64); got != 0 {
				t.Errorf("%v n=%d: F64(a, 0) = %v, want 0", v.Level, n, got)
			}
		}
	}
}

func TestVariantsSqrtTwo(t *testing.T) {
	u32 := make([]float32, 40)
	u64 := make([]float64, 40)
	u32[0] = 1.41421
	u64[0] = 1.41421
	for _, v := range runnable(t) {
		if got := v.F32(u32, u32); math.Abs(float64(got)-2) > 1e-4 {
			t.Errorf("%v: F32 = %v, want ~2", v.Level, got)
		}
		if got := v.F64(u64, u64); math.Abs(got-1.41421*1.41421) > 1e-12 {
			t.Errorf("%v: F64 = %v, want %v", v.Level, got, 1.41421*1.41421)
		}
	}
}

func TestVariantsDifferentLengths(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}
	b := []float32{1, 1, 1}
	for _, v := range runnable(t) {
		if got := v.F32(a, b); got != 6 {
			t.Errorf("%v: got %v, want 6", v.Level, got)
		}
	}
}

func TestVariantsOrderedAndScalarLast(t *testing.T) {
	vs := Variants()
	if vs[len(vs)-1].Level != hwy.DispatchScalar {
		t.Fatalf("last variant = %v, want scalar", vs[len(vs)-1].Level)
	}
	rank := ladderRank()
	for i := 1; i < len(vs); i++ {
		if rank[vs[i-1].Level] >= rank[vs[i].Level] {
			t.Errorf("variants out of order: %v before %v", vs[i-1].Level, vs[i].Level)
		}
	}
}

func TestSelect(t *testing.T) {
	if got := Select(nil).Level; got != hwy.DispatchScalar {
		t.Errorf("Select(nil) = %v, want scalar", got)
	}
	if got := Select([]hwy.DispatchLevel{hwy.DispatchScalar}).Level; got != hwy.DispatchScalar {
		t.Errorf("Select([scalar]) = %v, want scalar", got)
	}
	// Selection falls through tiers that were not compiled.
	for _, v := range Variants() {
		levels := hwy.LadderFrom(v.Level)
		if got := Select(levels).Level; got != v.Level {
			t.Errorf("Select(from %v) = %v", v.Level, got)
		}
	}
}

func TestLookupMissing(t *testing.T) {
	if _, ok := Lookup(hwy.DispatchAuto); ok {
		t.Error("Lookup(auto) found a variant")
	}
}

func TestHorizontalSum(t *testing.T) {
	lanes := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	if got := hsum32(lanes); got != 36 {
		t.Errorf("hsum32 = %v, want 36", got)
	}
	lanes64 := []float64{1, 2}
	if got := hsum64(lanes64); got != 3 {
		t.Errorf("hsum64 = %v, want 3", got)
	}
}

// Benchmarks

func BenchmarkVariants(b *testing.B) {
	sizes := []int{16, 256, 4096}
	r := rand.New(rand.NewPCG(9, 10))
	for _, v := range runnable(b) {
		for _, size := range sizes {
			x, y := randomVec32(r, size), randomVec32(r, size)
			b.Run(fmt.Sprintf("%s/f32/%d", v.Level, size), func(b *testing.B) {
				b.ReportAllocs()
				var result float32
				for i := 0; i < b.N; i++ {
					result = v.F32(x, y)
				}
				_ = result
			})
			x64, y64 := randomVec64(r, size), randomVec64(r, size)
			b.Run(fmt.Sprintf("%s/f64/%d", v.Level, size), func(b *testing.B) {
				b.ReportAllocs()
				var result float64
				for i := 0; i < b.N; i++ {
					result = v.F64(x64, y64)
				}
				_ = result
			})
		}
	}
}
