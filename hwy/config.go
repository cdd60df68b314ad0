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
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ConfigFromEnv and Detect.
const (
	// EnvNoSimd disables every SIMD tier when set to a true value.
	EnvNoSimd = "HWY_NO_SIMD"

	// EnvSimd forces selection to start at the named tier (see ParseLevel).
	EnvSimd = "HWY_SIMD"

	// EnvSimdStrict makes a forced tier subject to the detected capabilities.
	EnvSimdStrict = "HWY_SIMD_STRICT"
)

// Config controls tier selection.
//
// Build one with AutoConfig or ConfigFromEnv. The zero value has Level
// DispatchScalar and so forces the scalar kernels.
type Config struct {
	// Level forces selection to start at this tier instead of the widest one.
	// DispatchAuto (the default) means no forcing.
	Level DispatchLevel

	// Strict applies the capability check to a forced Level as well. Without
	// it a forced tier is trusted: if the host cannot execute it, the first
	// kernel call faults with an illegal instruction.
	Strict bool
}

// AutoConfig returns a Config that selects from the detected capabilities.
func AutoConfig() Config {
	return Config{Level: DispatchAuto}
}

// Forced reports whether the configuration names an explicit tier.
func (c Config) Forced() bool {
	return c.Level != DispatchAuto
}

// Candidates returns the tiers selection may use, in priority order.
//
// In automatic mode that is every tier caps supports. A forced tier and all
// tiers below it are returned unfiltered unless Strict is set, in which case
// unsupported tiers are dropped. Scalar is always last.
func (c Config) Candidates(caps Capabilities) []DispatchLevel {
	if !c.Forced() {
		return filterSupported(Ladder(), caps)
	}
	levels := LadderFrom(c.Level)
	if c.Strict {
		return filterSupported(levels, caps)
	}
	return levels
}

// Resolve returns the first candidate tier, ignoring which kernels are compiled in.
func (c Config) Resolve(caps Capabilities) DispatchLevel {
	return c.Candidates(caps)[0]
}

func filterSupported(levels []DispatchLevel, caps Capabilities) []DispatchLevel {
	out := levels[:0]
	for _, l := range levels {
		if caps.Supports(l) {
			out = append(out, l)
		}
	}
	return out
}

// ConfigFromEnv builds a Config from HWY_NO_SIMD, HWY_SIMD and HWY_SIMD_STRICT.
//
// Invalid values are reported in the returned error; the Config is still
// usable and falls back to automatic selection for the offending variable.
func ConfigFromEnv() (Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := AutoConfig()
	var firstErr error

	if raw, ok := lookup(EnvSimd); ok {
		level, err := ParseLevel(raw)
		if err != nil {
			firstErr = fmt.Errorf("%s: %w", EnvSimd, err)
		} else {
			cfg.Level = level
		}
	}

	if raw, ok := lookup(EnvSimdStrict); ok && raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", EnvSimdStrict, err)
		}
		cfg.Strict = strict
	}

	// HWY_NO_SIMD wins over any forced tier.
	if raw, ok := lookup(EnvNoSimd); ok && parseTruthy(raw) {
		cfg.Level = DispatchScalar
	}

	return cfg, firstErr
}

// NoSimdEnv checks if the HWY_NO_SIMD environment variable is set.
// When set, every tier other than scalar is disabled regardless of CPU
// capabilities. This is useful for testing and debugging.
func NoSimdEnv() bool {
	return parseTruthy(os.Getenv(EnvNoSimd))
}

func parseTruthy(val string) bool {
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
