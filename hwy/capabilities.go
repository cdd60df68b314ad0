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
	"runtime"
	"sync"
)

// Capabilities is the set of instruction-set extensions usable on the host.
//
// Each flag is true only if the CPU reports the extension, the operating
// system saves the corresponding register state, and SIMD was not disabled
// with HWY_NO_SIMD. A Capabilities value never changes once detected.
type Capabilities struct {
	// x86-64
	SSE2       bool `json:"sse2" yaml:"sse2"`
	SSE41      bool `json:"sse41" yaml:"sse41"`
	AVX        bool `json:"avx" yaml:"avx"`
	AVX2       bool `json:"avx2" yaml:"avx2"`
	FMA        bool `json:"fma" yaml:"fma"`
	AVX512F    bool `json:"avx512f" yaml:"avx512f"`
	AVX512BW   bool `json:"avx512bw" yaml:"avx512bw"`
	AVX512VNNI bool `json:"avx512vnni" yaml:"avx512vnni"`

	// ARM
	NEON bool `json:"neon" yaml:"neon"`

	// Arch is runtime.GOARCH.
	Arch string `json:"arch" yaml:"arch"`
	// Vendor and Brand identify the CPU where the platform reports them.
	Vendor string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Brand  string `json:"brand,omitempty" yaml:"brand,omitempty"`

	// Disabled is set when HWY_NO_SIMD cleared the SIMD flags.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Supports reports whether code built for level can run on these capabilities.
func (c Capabilities) Supports(level DispatchLevel) bool {
	switch level {
	case DispatchScalar:
		return true
	case DispatchSSE41:
		return c.SSE41
	case DispatchAVX:
		return c.AVX
	case DispatchAVX2:
		return c.AVX2 && c.FMA
	case DispatchAVX512:
		return c.AVX512F
	case DispatchNEON:
		return c.NEON
	default:
		return false
	}
}

// Best returns the highest tier on the ladder these capabilities support.
func (c Capabilities) Best() DispatchLevel {
	for _, l := range ladder {
		if c.Supports(l) {
			return l
		}
	}
	return DispatchScalar
}

// Levels returns every supported tier in priority order, scalar last.
func (c Capabilities) Levels() []DispatchLevel {
	return filterSupported(Ladder(), c)
}

// withoutSIMD returns c with every SIMD flag cleared.
func (c Capabilities) withoutSIMD() Capabilities {
	return Capabilities{
		Arch:     c.Arch,
		Vendor:   c.Vendor,
		Brand:    c.Brand,
		Disabled: true,
	}
}

var (
	detectOnce   sync.Once
	detectedCaps Capabilities
)

// Detect returns the capabilities of the host CPU.
//
// The hardware is queried on the first call only; every later call returns
// the same value. Detect is safe for concurrent use.
func Detect() Capabilities {
	detectOnce.Do(func() {
		detectedCaps = DetectFresh()
	})
	return detectedCaps
}

// DetectFresh queries the hardware and the environment again without
// touching the cached result of Detect.
func DetectFresh() Capabilities {
	caps := detectHost()
	caps.Arch = runtime.GOARCH
	if NoSimdEnv() {
		caps = caps.withoutSIMD()
	}
	return caps
}
