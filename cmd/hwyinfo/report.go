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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simdkern/simdkern/hwy"
	"github.com/simdkern/simdkern/hwy/contrib/dot"
	"github.com/simdkern/simdkern/hwy/contrib/intsimd"
	"github.com/simdkern/simdkern/hwy/contrib/kernels"
)

// info is the report printed by the root command.
type info struct {
	Capabilities hwy.Capabilities `json:"capabilities" yaml:"capabilities"`
	Best         string           `json:"best" yaml:"best"`
	Supported    []string         `json:"supported" yaml:"supported"`

	Selection selection `json:"selection" yaml:"selection"`

	Compiled compiled `json:"compiled" yaml:"compiled"`
}

type selection struct {
	Requested  string      `json:"requested" yaml:"requested"`
	Strict     bool        `json:"strict" yaml:"strict"`
	Candidates []string    `json:"candidates" yaml:"candidates"`
	Precise    bool        `json:"precise" yaml:"precise"`
	Dot        string      `json:"dot" yaml:"dot"`
	Int        string      `json:"int" yaml:"int"`
	IntKernel  *kernelInfo `json:"int_kernel,omitempty" yaml:"int_kernel,omitempty"`
	Runnable   bool        `json:"runnable" yaml:"runnable"`
}

type kernelInfo struct {
	OutputsPerRegister int `json:"outputs_per_register" yaml:"outputs_per_register"`
	MaxRegisters       int `json:"max_registers" yaml:"max_registers"`
	InputsPerRegister  int `json:"inputs_per_register" yaml:"inputs_per_register"`
	InputsPerGroup     int `json:"inputs_per_group" yaml:"inputs_per_group"`
}

type compiled struct {
	Dot []string `json:"dot" yaml:"dot"`
	Int []string `json:"int" yaml:"int"`
}

func levelNames(levels []hwy.DispatchLevel) []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = l.String()
	}
	return out
}

func buildInfo(caps hwy.Capabilities, cfg hwy.Config) info {
	t := kernels.New(caps, cfg)
	in := info{
		Capabilities: caps,
		Best:         caps.Best().String(),
		Supported:    levelNames(caps.Levels()),
		Selection: selection{
			Requested:  cfg.Level.String(),
			Strict:     cfg.Strict,
			Candidates: levelNames(cfg.Candidates(caps)),
			Precise:    hwy.PreciseFloat,
			Dot:        t.DotLevel.String(),
			Int:        t.IntLevel().String(),
			Runnable:   caps.Supports(t.DotLevel) && caps.Supports(t.IntLevel()),
		},
	}
	if k := t.IntKernel; k != nil {
		in.Selection.IntKernel = &kernelInfo{
			OutputsPerRegister: k.NumOutputsPerRegister,
			MaxRegisters:       k.MaxOutputRegisters,
			InputsPerRegister:  k.NumInputsPerRegister,
			InputsPerGroup:     k.NumInputsPerGroup,
		}
	}
	for _, v := range dot.Variants() {
		in.Compiled.Dot = append(in.Compiled.Dot, v.Level.String())
	}
	for _, k := range intsimd.Kernels() {
		in.Compiled.Int = append(in.Compiled.Int, k.Level.String())
	}
	if in.Compiled.Int == nil {
		in.Compiled.Int = []string{}
	}
	return in
}

// writeReport encodes v as json or yaml, or calls its text form.
func writeReport(w io.Writer, format string, v textWriter) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return v.writeText(w)
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

type textWriter interface {
	writeText(w io.Writer) error
}

func (in info) writeText(w io.Writer) error {
	c := in.Capabilities
	p := &errWriter{w: w}
	p.printf("arch:      %s\n", c.Arch)
	if c.Vendor != "" || c.Brand != "" {
		p.printf("cpu:       %s\n", strings.TrimSpace(c.Vendor+" "+c.Brand))
	}
	if c.Disabled {
		p.printf("simd:      disabled by %s\n", hwy.EnvNoSimd)
	}
	p.printf("best:      %s\n", in.Best)
	p.printf("supported: %s\n", strings.Join(in.Supported, ", "))
	p.printf("\n")

	s := in.Selection
	req := s.Requested
	if s.Strict {
		req += " (strict)"
	}
	p.printf("requested: %s\n", req)
	p.printf("dot:       %s\n", s.Dot)
	p.printf("int8:      %s", s.Int)
	if k := s.IntKernel; k != nil {
		p.printf(" (%d regs x %d outputs, inputs padded to %d, groups of %d)",
			k.MaxRegisters, k.OutputsPerRegister, k.InputsPerRegister, k.InputsPerGroup)
	} else {
		p.printf(" (generic)")
	}
	p.printf("\n")
	if s.Precise {
		p.printf("float:     float64 (precise build)\n")
	} else {
		p.printf("float:     float32\n")
	}
	if !s.Runnable {
		p.printf("warning:   forced tier is not supported by this CPU; kernels will fault\n")
	}
	p.printf("\ncompiled:  dot[%s] int8[%s]\n", strings.Join(in.Compiled.Dot, " "), strings.Join(in.Compiled.Int, " "))
	return p.err
}

// errWriter keeps the first write error so a report can be printed without
// checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (p *errWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
