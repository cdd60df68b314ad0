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
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// cpuIdentity returns the vendor and brand strings for diagnostics.
// Empty strings mean the platform does not expose them.
func cpuIdentity() (vendor, brand string) {
	vendor = cpuid.CPU.VendorString
	if vendor == "" && cpuid.CPU.VendorID != cpuid.VendorUnknown {
		vendor = cpuid.CPU.VendorID.String()
	}
	return vendor, strings.TrimSpace(cpuid.CPU.BrandName)
}
