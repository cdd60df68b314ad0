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

// Package dot provides dot product kernels, one per SIMD tier.
// This package corresponds to Google Highway's hwy/contrib/dot directory.
//
// # Variants
//
// Every tier computes the same value, Σ a[i]*b[i] over min(len(a), len(b))
// elements, for float32 and float64:
//   - scalar: left-to-right accumulation, always compiled
//   - sse4.1: 4 (float32) or 2 (float64) lanes, two accumulators, aligned-load
//     path when both operands are 16-byte aligned
//   - avx: 8 or 4 lanes, separate multiply and add, two accumulators
//   - avx2: 8 or 4 lanes, fused multiply-add, two accumulators
//   - avx512: 16 or 8 lanes, fused multiply-add, two accumulators
//   - neon: 4 or 2 lanes, fused multiply-add, two accumulators
//
// # Algorithm
//
// The SIMD variants:
//  1. Process the largest multiple of the lane count with wide loads and
//     multiply-accumulate into lane accumulators
//  2. Store the accumulator lanes and sum them (horizontal reduction)
//  3. Add the remaining tail elements with scalar code
//
// Summation order therefore differs between tiers and from the scalar
// variant; results agree within floating-point tolerance, not bit-for-bit.
// Each tier is deterministic and symmetric in its two operands.
//
// # Selection
//
// Tiers register themselves in init() when they are compiled for the target
// (amd64 and arm64 unless built with the noasm tag). Variants lists them and
// Select picks the first one from a priority list of dispatch levels:
//
//	cfg, _ := hwy.ConfigFromEnv()
//	v := dot.Select(cfg.Candidates(hwy.Detect()))
//	result := v.F32(a, b)
//
// Calling a variant whose level the CPU does not support faults with an
// illegal instruction; selection through Candidates prevents that unless the
// operator forced the tier.
package dot
