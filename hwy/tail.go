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

package hwy

import "unsafe"

// Lanes returns how many T fit in one register of the given level.
//
// Example:
//
//	hwy.Lanes[float32](hwy.DispatchAVX2)  // 8
//	hwy.Lanes[float64](hwy.DispatchSSE41) // 2
func Lanes[T Floats | SignedInts](level DispatchLevel) int {
	var zero T
	return level.Width() / int(unsafe.Sizeof(zero))
}

// BodyLen returns the length of the part of an n-element array that a level's
// kernels process in full registers. Elements [BodyLen, n) form the tail and
// are handled by scalar code.
//
// Example:
//
//	body := hwy.BodyLen[float32](len(a), hwy.DispatchAVX2)
//	// kernel over a[:body], scalar loop over a[body:]
func BodyLen[T Floats | SignedInts](n int, level DispatchLevel) int {
	return n - n%Lanes[T](level)
}
