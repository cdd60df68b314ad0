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
	"errors"
	"slices"

	"github.com/simdkern/simdkern/hwy"
)

// maxPairs bounds the pair accumulators of one register set over every
// compiled kernel (MaxOutputRegisters * NumOutputsPerRegister * NumInputsPerGroup / 2).
const maxPairs = 128

// pairAccumulator is a tier's inner loop. For one register set of setBytes
// shaped weights per input group it writes, for every adjacent weight pair p,
//
//	acc[p] = Σ_g w[g*setBytes+2p]*u[g*G+(2p)%G] + w[g*setBytes+2p+1]*u[g*G+(2p+1)%G]
//
// over numGroups groups of G inputs. acc has setBytes/2 elements and is overwritten.
type pairAccumulator func(w, u []int8, acc []int32, numGroups, setBytes int)

// Kernel describes an integer matrix-vector multiply built for one SIMD tier.
//
// Inputs are consumed NumInputsPerGroup at a time; a group's weights for one
// output are contiguous in the shaped layout. A register holds the partial
// sums of NumOutputsPerRegister outputs and up to MaxOutputRegisters are
// filled per pass.
type Kernel struct {
	Level hwy.DispatchLevel

	NumOutputsPerRegister int
	MaxOutputRegisters    int
	NumInputsPerRegister  int
	NumInputsPerGroup     int

	accumulate pairAccumulator
}

// RoundInputs rounds n up to the input padding the kernel requires.
func (k *Kernel) RoundInputs(n int) int {
	return roundUp(n, k.NumInputsPerRegister)
}

// RoundOutputs rounds m up to the output slice length the kernel requires.
func (k *Kernel) RoundOutputs(m int) int {
	return roundUp(m, k.NumOutputsPerRegister)
}

// MatrixDotVector32 computes v = scale(w·u + 127·bias) from shaped weights.
// u must hold RoundInputs(m.NumIn) elements with zero padding; v must hold at
// least RoundOutputs(m.NumOut) elements, of which the first m.NumOut are written.
func (k *Kernel) MatrixDotVector32(m *ShapedMatrix, scales []float32, u []int8, v []float32) {
	matrixDotVectorShaped(k, m, scales, u, v)
}

// MatrixDotVector64 is MatrixDotVector32 for float64 scales and outputs.
func (k *Kernel) MatrixDotVector64(m *ShapedMatrix, scales []float64, u []int8, v []float64) {
	matrixDotVectorShaped(k, m, scales, u, v)
}

func (k *Kernel) String() string {
	return k.Level.String()
}

func matrixDotVectorShaped[T hwy.Floats](k *Kernel, m *ShapedMatrix, scales []T, u []int8, v []T) {
	if m.kernel != k {
		panic("intsimd: matrix was shaped for a different kernel")
	}
	for _, s := range m.sets {
		computeSet(k, m, s, scales, u, v)
	}
}

// computeSet evaluates one register set and writes its valid outputs.
func computeSet[T hwy.Floats](k *Kernel, m *ShapedMatrix, s registerSet, scales []T, u []int8, v []T) {
	group := k.NumInputsPerGroup
	setBytes := s.size * group
	pairsPerOutput := group / 2

	var buf [maxPairs]int32
	acc := buf[:setBytes/2]
	if m.numGroups == 0 {
		clear(acc)
	} else {
		k.accumulate(m.Data[s.offset:s.offset+m.numGroups*setBytes], u[:m.numGroups*group], acc, m.numGroups, setBytes)
	}

	bias := m.Data[s.offset+m.numGroups*setBytes : s.offset+m.numGroups*setBytes+s.size]
	valid := min(s.size, m.NumOut-s.output)
	for j := 0; j < valid; j++ {
		var total int32
		for _, p := range acc[j*pairsPerOutput : (j+1)*pairsPerOutput] {
			total += p
		}
		total += int32(bias[j]) * biasScale
		o := s.output + j
		v[o] = T(total) * scales[o]
	}
}

// accumulatePairsGo is the portable form of the tier inner loop. It defines
// the semantics the assembly versions implement.
func accumulatePairsGo(w, u []int8, acc []int32, numGroups, setBytes int) {
	clear(acc)
	group := len(u) / max(numGroups, 1)
	for g := 0; g < numGroups; g++ {
		ws := w[g*setBytes : (g+1)*setBytes]
		us := u[g*group : (g+1)*group]
		for i, x := range ws {
			acc[i/2] += int32(x) * int32(us[i%group])
		}
	}
}

func roundUp(n, multiple int) int {
	if multiple <= 1 {
		return n
	}
	return (n + multiple - 1) / multiple * multiple
}

// registry holds the compiled kernels. It is only written from init().
var registry []*Kernel

func register(k *Kernel) {
	if err := k.validate(); err != nil {
		panic(err)
	}
	registry = append(registry, k)
}

// validate checks the tiling parameters computeSet relies on.
func (k *Kernel) validate() error {
	switch {
	case k.NumOutputsPerRegister < 1 || k.MaxOutputRegisters < 1 || k.NumInputsPerGroup < 1:
		return errors.New("intsimd: kernel parameters must be positive")
	case k.NumInputsPerGroup%2 != 0:
		// Pairs of adjacent weights must not straddle two outputs.
		return errors.New("intsimd: inputs per group must be even")
	case k.NumInputsPerRegister%k.NumInputsPerGroup != 0:
		return errors.New("intsimd: inputs per register must be a multiple of the group size")
	case k.MaxOutputRegisters*k.NumOutputsPerRegister*k.NumInputsPerGroup/2 > maxPairs:
		return errors.New("intsimd: register set exceeds accumulator buffer")
	}
	return nil
}

// Kernels returns the compiled kernels in dispatch priority order, widest first.
// It is empty on targets without a SIMD integer kernel.
func Kernels() []*Kernel {
	out := slices.Clone(registry)
	rank := make(map[hwy.DispatchLevel]int)
	for i, l := range hwy.Ladder() {
		rank[l] = i
	}
	slices.SortStableFunc(out, func(a, b *Kernel) int {
		return rank[a.Level] - rank[b.Level]
	})
	return out
}

// Lookup returns the kernel compiled for level, or nil.
func Lookup(level hwy.DispatchLevel) *Kernel {
	for _, k := range registry {
		if k.Level == level {
			return k
		}
	}
	return nil
}

// Select returns the first kernel compiled for one of levels, in order, or
// nil when none was. A nil kernel means callers use the generic computation.
func Select(levels []hwy.DispatchLevel) *Kernel {
	for _, l := range levels {
		if k := Lookup(l); k != nil {
			return k
		}
	}
	return nil
}
