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

package intsimd

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/simdkern/simdkern/hwy"
)

func TestAssemblyMatchesPortable(t *testing.T) {
	caps := hwy.Detect()
	rng := rand.New(rand.NewPCG(11, 12))
	for _, tc := range []struct {
		level hwy.DispatchLevel
		fn    pairAccumulator
		chunk int
	}{
		{hwy.DispatchSSE41, accumulatePairsSSE41, 8},
		{hwy.DispatchAVX2, accumulatePairsAVX2, 16},
	} {
		if !caps.Supports(tc.level) {
			t.Logf("skipping %v: not supported by this CPU", tc.level)
			continue
		}
		for _, numGroups := range []int{1, 2, 3, 8, 33} {
			for chunks := 1; chunks*tc.chunk/2 <= maxPairs; chunks *= 2 {
				setBytes := chunks * tc.chunk
				w := make([]int8, numGroups*setBytes)
				u := make([]int8, numGroups*4)
				for i := range w {
					w[i] = int8(rng.IntN(256) - 128)
				}
				for i := range u {
					u[i] = int8(rng.IntN(256) - 128)
				}
				// Extremes exercise the widest pair sums.
				w[0], u[0] = -128, -128

				want := make([]int32, setBytes/2)
				accumulatePairsGo(w, u, want, numGroups, setBytes)
				got := make([]int32, setBytes/2)
				for i := range got {
					got[i] = 12345
				}
				tc.fn(w, u, got, numGroups, setBytes)
				if !slices.Equal(got, want) {
					t.Fatalf("%v groups=%d setBytes=%d: got %v, want %v", tc.level, numGroups, setBytes, got, want)
				}
			}
		}
	}
}

func TestAmd64KernelsRegistered(t *testing.T) {
	for _, l := range []hwy.DispatchLevel{hwy.DispatchSSE41, hwy.DispatchAVX2} {
		if Lookup(l) == nil {
			t.Errorf("no kernel registered for %v", l)
		}
	}
	for _, l := range []hwy.DispatchLevel{hwy.DispatchAVX, hwy.DispatchAVX512} {
		if Lookup(l) != nil {
			t.Errorf("unexpected kernel for %v", l)
		}
	}
	if got := Select(hwy.LadderFrom(hwy.DispatchAVX)); got == nil || got.Level != hwy.DispatchSSE41 {
		t.Errorf("AVX should fall back to the SSE4.1 kernel, got %v", got)
	}
	if got := Select(hwy.LadderFrom(hwy.DispatchAVX512)); got == nil || got.Level != hwy.DispatchAVX2 {
		t.Errorf("AVX-512 should fall back to the AVX2 kernel, got %v", got)
	}
}
