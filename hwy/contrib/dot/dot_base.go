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
	"slices"

	"github.com/simdkern/simdkern/hwy"
)

// Variant is one tier's pair of dot product kernels.
type Variant struct {
	Level hwy.DispatchLevel

	// F32 returns Σ a[i]*b[i] over min(len(a), len(b)) float32 elements.
	F32 func(a, b []float32) float32

	// F64 returns Σ a[i]*b[i] over min(len(a), len(b)) float64 elements.
	F64 func(a, b []float64) float64
}

// registry holds the compiled variants. It is only written from init().
var registry []Variant

func register(v Variant) {
	registry = append(registry, v)
}

func init() {
	register(Variant{
		Level: hwy.DispatchScalar,
		F32:   Scalar32,
		F64:   Scalar64,
	})
}

// Variants returns the compiled variants in dispatch priority order, widest first.
func Variants() []Variant {
	out := slices.Clone(registry)
	rank := ladderRank()
	slices.SortStableFunc(out, func(a, b Variant) int {
		return rank[a.Level] - rank[b.Level]
	})
	return out
}

// Lookup returns the variant compiled for level.
func Lookup(level hwy.DispatchLevel) (Variant, bool) {
	for _, v := range registry {
		if v.Level == level {
			return v, true
		}
	}
	return Variant{}, false
}

// Select returns the first variant compiled for one of levels, in order.
// The scalar variant is returned when none matches, so Select never fails.
func Select(levels []hwy.DispatchLevel) Variant {
	for _, l := range levels {
		if v, ok := Lookup(l); ok {
			return v
		}
	}
	v, _ := Lookup(hwy.DispatchScalar)
	return v
}

func ladderRank() map[hwy.DispatchLevel]int {
	rank := make(map[hwy.DispatchLevel]int)
	for i, l := range hwy.Ladder() {
		rank[l] = i
	}
	return rank
}

// Scalar32 is the reference float32 dot product: naive left-to-right accumulation.
func Scalar32(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Scalar64 is the reference float64 dot product.
func Scalar64(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// tail32 adds the products of a[start:n] and b[start:n] to acc left to right.
func tail32(acc float32, a, b []float32, start, n int) float32 {
	for i := start; i < n; i++ {
		acc += a[i] * b[i]
	}
	return acc
}

func tail64(acc float64, a, b []float64, start, n int) float64 {
	for i := start; i < n; i++ {
		acc += a[i] * b[i]
	}
	return acc
}

// hsum32 is the horizontal reduction of a stored lane accumulator: pairwise
// halving, so 8 lanes cost 7 adds.
func hsum32(lanes []float32) float32 {
	for n := len(lanes); n > 1; n /= 2 {
		half := n / 2
		for i := 0; i < half; i++ {
			lanes[i] += lanes[i+half]
		}
	}
	return lanes[0]
}

func hsum64(lanes []float64) float64 {
	for n := len(lanes); n > 1; n /= 2 {
		half := n / 2
		for i := 0; i < half; i++ {
			lanes[i] += lanes[i+half]
		}
	}
	return lanes[0]
}
