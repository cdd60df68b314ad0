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

// Command hwyinfo reports the SIMD capabilities of the host and the kernels a
// program linked against simdkern would dispatch to.
//
// Usage:
//
//	hwyinfo                         # capabilities and selected tiers
//	hwyinfo --format json           # same, machine readable (json or yaml)
//	hwyinfo --simd sse4.1 --strict  # what a forced tier resolves to
//	hwyinfo bench --size 4096       # time every runnable tier
//
// Without --simd the selection follows HWY_SIMD, HWY_SIMD_STRICT and
// HWY_NO_SIMD exactly as kernels.Default does.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simdkern/simdkern/hwy"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hwyinfo",
		Short: "Report SIMD capabilities and kernel selection",
		Long: `hwyinfo detects the instruction-set extensions of this CPU and shows
which tier the dot-product and int8 matrix kernels resolve to.

Tiers, widest first: avx512, avx2, avx, sse4.1, neon, scalar.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runInfo,
	}
	rootCmd.PersistentFlags().String("simd", "", "Force selection to start at this tier (default: HWY_SIMD or auto)")
	rootCmd.PersistentFlags().Bool("strict", false, "Drop forced tiers the CPU does not support")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "Output format: text, json, yaml")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Time every runnable tier of each kernel family",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().Int("size", 4096, "Dot product length")
	benchCmd.Flags().Int("rows", 256, "Matrix rows for the int8 kernels")
	benchCmd.Flags().Int("cols", 512, "Matrix inputs for the int8 kernels")
	benchCmd.Flags().Duration("duration", defaultBenchDuration, "Minimum time spent on each case")
	benchCmd.Flags().Int("jobs", 1, "Cases timed concurrently (values above 1 skew timings)")
	rootCmd.AddCommand(benchCmd)

	return rootCmd
}

// selectionConfig builds the selection config from the flags, falling back to
// the environment when --simd is not given.
func selectionConfig(cmd *cobra.Command) (hwy.Config, error) {
	simd, _ := cmd.Flags().GetString("simd")
	strict, _ := cmd.Flags().GetBool("strict")

	if !cmd.Flags().Changed("simd") {
		cfg, err := hwy.ConfigFromEnv()
		if err != nil {
			return cfg, err
		}
		if cmd.Flags().Changed("strict") {
			cfg.Strict = strict
		}
		return cfg, nil
	}

	level, err := hwy.ParseLevel(simd)
	if err != nil {
		return hwy.Config{}, fmt.Errorf("--simd: %w", err)
	}
	return hwy.Config{Level: level, Strict: strict}, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := selectionConfig(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return writeReport(cmd.OutOrStdout(), format, buildInfo(hwy.Detect(), cfg))
}
