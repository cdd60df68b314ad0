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

// registerSet is a block of outputs evaluated in one pass.
type registerSet struct {
	output int // first output row
	size   int // outputs in the set, a multiple of NumOutputsPerRegister
	offset int // start of the set in ShapedMatrix.Data
}

// ShapedMatrix is a WeightMatrix repacked into a kernel's preferred layout.
//
// Outputs are split into register sets of MaxOutputRegisters registers, then
// half as many, down to one, so any RoundOutputs(NumOut) is covered exactly.
// Within a set the weights of each input group are stored output by output,
// NumInputsPerGroup bytes each; the set's bias column follows its last group.
// Positions past NumOut or NumIn hold zeros.
type ShapedMatrix struct {
	NumOut int
	NumIn  int
	Data   []int8

	numGroups int
	sets      []registerSet
	kernel    *Kernel
}

// Kernel returns the kernel the matrix was shaped for.
func (m *ShapedMatrix) Kernel() *Kernel {
	return m.kernel
}

// NumSets returns the number of register sets, the unit of parallel work.
func (m *ShapedMatrix) NumSets() int {
	return len(m.sets)
}

// Shape repacks w into the kernel's layout. It is a pure permutation plus
// zero padding; Unshape recovers w.
func (k *Kernel) Shape(w WeightMatrix) *ShapedMatrix {
	w.validate()
	numOut, numIn := w.Rows, w.NumIn()
	group := k.NumInputsPerGroup
	m := &ShapedMatrix{
		NumOut:    numOut,
		NumIn:     numIn,
		numGroups: (numIn + group - 1) / group,
		kernel:    k,
	}

	roundedOut := k.RoundOutputs(numOut)
	offset := 0
	output := 0
	for regs := k.MaxOutputRegisters; regs >= 1; regs /= 2 {
		size := regs * k.NumOutputsPerRegister
		for output+size <= roundedOut {
			m.sets = append(m.sets, registerSet{output: output, size: size, offset: offset})
			offset += m.numGroups*size*group + size
			output += size
		}
	}

	m.Data = make([]int8, offset)
	for _, s := range m.sets {
		idx := s.offset
		for g := 0; g < m.numGroups; g++ {
			for j := 0; j < s.size; j++ {
				for i := 0; i < group; i++ {
					o, in := s.output+j, g*group+i
					if o < numOut && in < numIn {
						m.Data[idx] = w.At(o, in)
					}
					idx++
				}
			}
		}
		for j := 0; j < s.size; j++ {
			if o := s.output + j; o < numOut {
				m.Data[idx] = w.Bias(o)
			}
			idx++
		}
	}
	return m
}

// Unshape returns the WeightMatrix m was built from.
func (m *ShapedMatrix) Unshape() WeightMatrix {
	w := NewWeightMatrix(m.NumOut, m.NumIn)
	group := m.kernel.NumInputsPerGroup
	for _, s := range m.sets {
		idx := s.offset
		for g := 0; g < m.numGroups; g++ {
			for j := 0; j < s.size; j++ {
				for i := 0; i < group; i++ {
					o, in := s.output+j, g*group+i
					if o < m.NumOut && in < m.NumIn {
						w.Set(o, in, m.Data[idx])
					}
					idx++
				}
			}
		}
		for j := 0; j < s.size; j++ {
			if o := s.output + j; o < m.NumOut {
				w.Set(o, m.NumIn, m.Data[idx])
			}
			idx++
		}
	}
	return w
}
