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

//go:build amd64

package hwy

import "golang.org/x/sys/cpu"

// detectHost reads CPUID through x/sys/cpu. The AVX flags already include the
// XGETBV check that the OS saves YMM/ZMM state, so they are safe to trust.
func detectHost() Capabilities {
	vendor, brand := cpuIdentity()
	return Capabilities{
		SSE2:       cpu.X86.HasSSE2,
		SSE41:      cpu.X86.HasSSE41,
		AVX:        cpu.X86.HasAVX,
		AVX2:       cpu.X86.HasAVX2,
		FMA:        cpu.X86.HasFMA,
		AVX512F:    cpu.X86.HasAVX512F,
		AVX512BW:   cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW,
		AVX512VNNI: cpu.X86.HasAVX512F && cpu.X86.HasAVX512VNNI,
		Vendor:     vendor,
		Brand:      brand,
	}
}
