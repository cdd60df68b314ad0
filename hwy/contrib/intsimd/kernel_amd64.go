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

import "github.com/simdkern/simdkern/hwy"

// The assembly inner loops add into acc rather than overwrite it, consume
// numGroups groups of 4 inputs and read setBytes weights per group.
// setBytes must be a multiple of the chunk size (8 for SSE4.1, 16 for AVX2).

//go:noescape
func pairDotsSSE41(w, u *int8, acc *int32, numGroups, setBytes int)

//go:noescape
func pairDotsAVX2(w, u *int8, acc *int32, numGroups, setBytes int)

func init() {
	register(&Kernel{
		Level:                 hwy.DispatchSSE41,
		NumOutputsPerRegister: 2,
		MaxOutputRegisters:    8,
		NumInputsPerRegister:  16,
		NumInputsPerGroup:     4,
		accumulate:            accumulatePairsSSE41,
	})
	register(&Kernel{
		Level:                 hwy.DispatchAVX2,
		NumOutputsPerRegister: 4,
		MaxOutputRegisters:    8,
		NumInputsPerRegister:  32,
		NumInputsPerGroup:     4,
		accumulate:            accumulatePairsAVX2,
	})
}

func accumulatePairsSSE41(w, u []int8, acc []int32, numGroups, setBytes int) {
	clear(acc)
	if numGroups == 0 || setBytes == 0 {
		return
	}
	_ = w[numGroups*setBytes-1]
	_ = u[numGroups*4-1]
	_ = acc[setBytes/2-1]
	pairDotsSSE41(&w[0], &u[0], &acc[0], numGroups, setBytes)
}

func accumulatePairsAVX2(w, u []int8, acc []int32, numGroups, setBytes int) {
	clear(acc)
	if numGroups == 0 || setBytes == 0 {
		return
	}
	_ = w[numGroups*setBytes-1]
	_ = u[numGroups*4-1]
	_ = acc[setBytes/2-1]
	pairDotsAVX2(&w[0], &u[0], &acc[0], numGroups, setBytes)
}
