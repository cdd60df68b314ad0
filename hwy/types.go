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

// Package hwy detects the SIMD capabilities of the host CPU once per process
// and describes them as a ladder of dispatch levels.
//
// Kernel packages under hwy/contrib register one implementation per level
// they were built for; the kernels package walks the ladder from the widest
// level down and binds the first implementation the host can run.
//
// Basic usage:
//
//	import "github.com/simdkern/simdkern/hwy"
//
//	caps := hwy.Detect()
//	fmt.Println(caps.Best(), hwy.CurrentWidth())
//
// The working float type TFloat is float32 unless the module is built with
// the "precise" build tag, in which case it is float64.
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}
