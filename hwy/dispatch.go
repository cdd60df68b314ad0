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

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DispatchLevel represents a SIMD instruction set tier a kernel can be built for.
type DispatchLevel int

const (
	// DispatchAuto is not a tier: it asks for automatic selection.
	DispatchAuto DispatchLevel = -1

	// DispatchScalar indicates no SIMD, pure Go implementation.
	DispatchScalar DispatchLevel = iota - 1

	// DispatchSSE41 indicates SSE4.1 instructions (128-bit SIMD).
	DispatchSSE41

	// DispatchAVX indicates AVX instructions without AVX2 (256-bit float SIMD,
	// 128-bit integer SIMD).
	DispatchAVX

	// DispatchAVX2 indicates AVX2 together with FMA3 (256-bit SIMD with fused
	// multiply-add). The two extensions shipped together and are treated as one tier.
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512F instructions (512-bit SIMD).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON instructions (128-bit SIMD).
	DispatchNEON
)

// ladder is the selection priority, widest first. Selection walks it top to
// bottom and takes the first tier that is both compiled and allowed.
var ladder = [...]DispatchLevel{
	DispatchAVX512,
	DispatchAVX2,
	DispatchAVX,
	DispatchSSE41,
	DispatchNEON,
	DispatchScalar,
}

// ErrUnknownLevel is returned by ParseLevel for names it does not recognize.
var ErrUnknownLevel = errors.New("hwy: unknown dispatch level")

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchAuto:
		return "auto"
	case DispatchScalar:
		return "scalar"
	case DispatchSSE41:
		return "sse4.1"
	case DispatchAVX:
		return "avx"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Width returns the register width in bytes used by kernels of this tier.
// Scalar reports 16 so that lane counts stay consistent with the narrowest SIMD tier.
func (d DispatchLevel) Width() int {
	switch d {
	case DispatchAVX, DispatchAVX2:
		return 32
	case DispatchAVX512:
		return 64
	default:
		return 16
	}
}

// Ladder returns the dispatch levels in selection priority order, widest first.
func Ladder() []DispatchLevel {
	out := make([]DispatchLevel, len(ladder))
	copy(out, ladder[:])
	return out
}

// LadderFrom returns the suffix of Ladder starting at level: the tiers a
// selection forced to level may fall back to. DispatchAuto returns the whole
// ladder.
func LadderFrom(level DispatchLevel) []DispatchLevel {
	for i, l := range ladder {
		if l == level {
			out := make([]DispatchLevel, len(ladder)-i)
			copy(out, ladder[i:])
			return out
		}
	}
	return Ladder()
}

// ParseLevel parses a tier name as accepted by the HWY_SIMD environment
// variable. Matching is case-insensitive and ignores surrounding spaces.
//
//	auto                      DispatchAuto
//	none, scalar, generic     DispatchScalar
//	sse, sse4.1, sse41        DispatchSSE41
//	avx                       DispatchAVX
//	avx2, fma                 DispatchAVX2
//	avx512, avx512f, avx-512  DispatchAVX512
//	neon, asimd               DispatchNEON
func ParseLevel(name string) (DispatchLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return DispatchAuto, nil
	case "none", "scalar", "generic":
		return DispatchScalar, nil
	case "sse", "sse4.1", "sse41":
		return DispatchSSE41, nil
	case "avx":
		return DispatchAVX, nil
	case "avx2", "fma":
		return DispatchAVX2, nil
	case "avx512", "avx512f", "avx-512":
		return DispatchAVX512, nil
	case "neon", "asimd":
		return DispatchNEON, nil
	}
	return DispatchAuto, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

var (
	currentOnce  sync.Once
	currentLevel DispatchLevel
)

// CurrentLevel returns the tier this process dispatches to by default: the
// forced tier from the environment when set, otherwise the best tier the
// detected capabilities support. Kernel packages may still fall back further
// when they were not built for this tier.
func CurrentLevel() DispatchLevel {
	currentOnce.Do(func() {
		cfg, _ := ConfigFromEnv()
		currentLevel = cfg.Resolve(Detect())
	})
	return currentLevel
}

// CurrentWidth returns the SIMD register width in bytes.
// For example: 16 for SSE4.1/NEON, 32 for AVX2, 64 for AVX-512.
func CurrentWidth() int {
	return CurrentLevel().Width()
}

// CurrentName returns a human-readable name for the current SIMD target.
// For example: "avx2", "neon", "scalar".
func CurrentName() string {
	return CurrentLevel().String()
}
