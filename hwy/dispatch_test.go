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
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want DispatchLevel
	}{
		{"", DispatchAuto},
		{"auto", DispatchAuto},
		{"none", DispatchScalar},
		{"Generic", DispatchScalar},
		{"sse", DispatchSSE41},
		{"sse4.1", DispatchSSE41},
		{" avx ", DispatchAVX},
		{"AVX2", DispatchAVX2},
		{"fma", DispatchAVX2},
		{"avx512", DispatchAVX512},
		{"neon", DispatchNEON},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLevelUnknown(t *testing.T) {
	_, err := ParseLevel("mmx")
	if !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("ParseLevel(mmx) error = %v, want ErrUnknownLevel", err)
	}
}

func TestLevelStringRoundTrip(t *testing.T) {
	for _, l := range Ladder() {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", l.String(), got, err, l)
		}
	}
}

func TestLadderOrder(t *testing.T) {
	want := []DispatchLevel{DispatchAVX512, DispatchAVX2, DispatchAVX, DispatchSSE41, DispatchNEON, DispatchScalar}
	got := Ladder()
	if len(got) != len(want) {
		t.Fatalf("Ladder() has %d levels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ladder()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	// Callers may not mutate the package ladder.
	got[0] = DispatchScalar
	if Ladder()[0] != DispatchAVX512 {
		t.Error("Ladder() returned shared storage")
	}
}

func TestLadderFrom(t *testing.T) {
	got := LadderFrom(DispatchAVX)
	want := []DispatchLevel{DispatchAVX, DispatchSSE41, DispatchNEON, DispatchScalar}
	if len(got) != len(want) {
		t.Fatalf("LadderFrom(avx) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LadderFrom(avx)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if n := len(LadderFrom(DispatchAuto)); n != len(Ladder()) {
		t.Errorf("LadderFrom(auto) has %d levels, want the whole ladder", n)
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		level DispatchLevel
		want  int
	}{
		{DispatchScalar, 16},
		{DispatchSSE41, 16},
		{DispatchAVX, 32},
		{DispatchAVX2, 32},
		{DispatchAVX512, 64},
		{DispatchNEON, 16},
	}
	for _, tt := range tests {
		if got := tt.level.Width(); got != tt.want {
			t.Errorf("%v.Width() = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCurrentLevelIsCandidate(t *testing.T) {
	level := CurrentLevel()
	if level == DispatchAuto {
		t.Fatal("CurrentLevel() returned DispatchAuto")
	}
	if CurrentName() != level.String() {
		t.Errorf("CurrentName() = %q, want %q", CurrentName(), level.String())
	}
	if CurrentWidth() != level.Width() {
		t.Errorf("CurrentWidth() = %d, want %d", CurrentWidth(), level.Width())
	}
}

func TestLanesAndBodyLen(t *testing.T) {
	tests := []struct {
		level    DispatchLevel
		f32, f64 int
		i8       int
	}{
		{DispatchScalar, 4, 2, 16},
		{DispatchSSE41, 4, 2, 16},
		{DispatchAVX, 8, 4, 32},
		{DispatchAVX2, 8, 4, 32},
		{DispatchAVX512, 16, 8, 64},
		{DispatchNEON, 4, 2, 16},
	}
	for _, tt := range tests {
		if got := Lanes[float32](tt.level); got != tt.f32 {
			t.Errorf("Lanes[float32](%v) = %d, want %d", tt.level, got, tt.f32)
		}
		if got := Lanes[float64](tt.level); got != tt.f64 {
			t.Errorf("Lanes[float64](%v) = %d, want %d", tt.level, got, tt.f64)
		}
		if got := Lanes[int8](tt.level); got != tt.i8 {
			t.Errorf("Lanes[int8](%v) = %d, want %d", tt.level, got, tt.i8)
		}
		for _, n := range []int{0, 1, tt.f32 - 1, tt.f32, tt.f32 + 1, 3*tt.f32 + 2} {
			body := BodyLen[float32](n, tt.level)
			if body > n || body%tt.f32 != 0 || n-body >= tt.f32 {
				t.Errorf("BodyLen[float32](%d, %v) = %d", n, tt.level, body)
			}
		}
	}
}
