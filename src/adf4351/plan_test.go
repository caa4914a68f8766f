/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package adf4351

import (
	"errors"
	"math"
	"testing"
)

func Test_planExamples(t *testing.T) {
	tests := []struct {
		name     string
		target   float64
		integer  uint32
		frac     uint32
		mod      uint32
		exponent uint8
		mode     Mode
	}{
		{"1GHz", 1e9, 1600, 0, 2, 2, IntegerN},
		{"1kHz offset", 1_000_001_000, 1600, 1, 625, 2, FractionalN},
		{"rounds up to next integer", 1_000_624_937.5, 1601, 0, 2, 2, IntegerN},
		{"fundamental", 3.3e9, 1320, 0, 2, 0, IntegerN},
		{"top of range", 4.4e9, 1760, 0, 2, 0, IntegerN},
		{"bottom of range", 34.375e6, 880, 0, 2, 6, IntegerN},
		{"fractional", 2_400_250_000, 960, 1, 10, 0, FractionalN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DefaultPlanner().Plan(tt.target, DefaultReference())
			if err != nil {
				t.Fatal(err)
			}
			if p.Integer != tt.integer || p.Fractional != tt.frac || p.Modulus != tt.mod ||
				p.Exponent != tt.exponent || p.Mode != tt.mode {
				t.Errorf("got %v", p)
			}
			if p.PFD != 2.5e6 || p.BandSelect != 20 {
				t.Errorf("PFD %.1f, band select %d", p.PFD, p.BandSelect)
			}
		})
	}
}

func Test_carryActual(t *testing.T) {
	p, err := DefaultPlanner().Plan(1_000_624_937.5, DefaultReference())
	if err != nil {
		t.Fatal(err)
	}
	if p.Actual() != 1_000_625_000 {
		t.Errorf("actual %.3f", p.Actual())
	}
}

func Test_dividerBands(t *testing.T) {
	tests := []struct {
		target float64
		want   uint8
	}{
		{2.3e9, 0},
		{2.2e9, 0},
		{2.0e9, 1},
		{1.0e9, 2},
		{500e6, 3},
		{200e6, 4},
		{100e6, 5},
		{50e6, 6},
	}
	for _, tt := range tests {
		p, err := DefaultPlanner().Plan(tt.target, DefaultReference())
		if err != nil {
			t.Errorf("%.0f: %v", tt.target, err)
			continue
		}
		if p.Exponent != tt.want {
			t.Errorf("%.0f: divider exponent %d, want %d", tt.target, p.Exponent, tt.want)
		}
		if p.VCO < VCOMin || p.VCO > VCOMax {
			t.Errorf("%.0f: VCO %.0f out of range", tt.target, p.VCO)
		}
	}
}

func Test_planErrors(t *testing.T) {
	plain := func(hz float64, r uint32) ReferenceConfig {
		return ReferenceConfig{Frequency: hz, RCounter: r}
	}
	tests := []struct {
		name    string
		planner Planner
		target  float64
		ref     ReferenceConfig
		want    error
	}{
		{"below range", DefaultPlanner(), 30e6, DefaultReference(), ErrInfeasible},
		{"above range", DefaultPlanner(), 4.5e9, DefaultReference(), ErrInfeasible},
		{"zero", DefaultPlanner(), 0, DefaultReference(), ErrInfeasible},
		{"negative", DefaultPlanner(), -1e9, DefaultReference(), ErrInfeasible},
		{"NaN", DefaultPlanner(), math.NaN(), DefaultReference(), ErrInfeasible},
		{"4/5 prescaler VCO", Planner{Resolution: 1000}, 3.8e9, DefaultReference(), ErrInfeasible},
		{"8/9 prescaler minimum", DefaultPlanner(), 2.2e9, plain(30e6, 1), ErrInfeasible},
		{"integer overflow", DefaultPlanner(), 1e9, plain(10e6, 1023), ErrDividerOverflow},
		{"band select overflow", DefaultPlanner(), 1e9, plain(100e6, 1), ErrBandSelectOverflow},
		{"unreducible", DefaultPlanner(), 1_000_001_000, plain(25e6, 1), ErrUnreducibleFraction},
		{"R counter zero", DefaultPlanner(), 1e9, plain(25e6, 0), ErrInvalidField},
		{"R counter too wide", DefaultPlanner(), 1e9, plain(25e6, 1024), ErrInvalidField},
		{"no reference", DefaultPlanner(), 1e9, plain(0, 1), ErrInfeasible},
		{"no resolution", Planner{Prescaler89: true}, 1e9, DefaultReference(), ErrInfeasible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.planner.Plan(tt.target, tt.ref); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func Test_prescaler45(t *testing.T) {
	p, err := Planner{Resolution: 1000}.Plan(2.2e9, ReferenceConfig{Frequency: 30e6, RCounter: 1})
	if err != nil {
		t.Fatal(err)
	}
	if p.Integer != 73 || p.Fractional != 1 || p.Modulus != 3 || p.BandSelect != 240 {
		t.Errorf("got %v", p)
	}
}

func Test_reducibleAtHighPFD(t *testing.T) {
	p, err := DefaultPlanner().Plan(1_000_005_000, ReferenceConfig{Frequency: 25e6, RCounter: 1})
	if err != nil {
		t.Fatal(err)
	}
	if p.Integer != 160 || p.Fractional != 1 || p.Modulus != 1250 || p.BandSelect != 200 {
		t.Errorf("got %v", p)
	}
}

func Test_bandSelectFloor(t *testing.T) {
	p, err := DefaultPlanner().Plan(1e9, ReferenceConfig{Frequency: 10e6, RCounter: 100})
	if err != nil {
		t.Fatal(err)
	}
	if p.BandSelect != 1 {
		t.Errorf("band select %d at PFD %.0f", p.BandSelect, p.PFD)
	}
}

func Test_referenceError(t *testing.T) {
	ref := DefaultReference()
	ref.Error = 100
	if ref.PFD() != 2_500_010 {
		t.Errorf("PFD %.3f", ref.PFD())
	}
	ref.Halver = true
	if ref.PFD() != 1_250_005 {
		t.Errorf("PFD %.3f", ref.PFD())
	}
}

func Test_applyWords(t *testing.T) {
	tests := []struct {
		target float64
		want   []uint32
	}{
		{1e9, []uint32{0x03200000, 0x08008011, 0x1e051fc2, 0x00e00003, 0x00a14404, 0x00580005}},
		{1_000_001_000, []uint32{0x03200008, 0x08009389, 0x1e051e42, 0x00800003, 0x00a14404, 0x00580005}},
	}
	for _, tt := range tests {
		p, err := DefaultPlanner().Plan(tt.target, DefaultReference())
		if err != nil {
			t.Fatal(err)
		}
		regs, err := p.Apply(DefaultRegisters())
		if err != nil {
			t.Fatal(err)
		}
		got := regs.Words(NumBaseRegisters)
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%.0f: R%d = %#08x, want %#08x", tt.target, i, got[i], tt.want[i])
			}
		}
	}
}

func Test_applyLeavesInputAlone(t *testing.T) {
	regs := DefaultRegisters()
	before := regs.Words(NumRegisters)
	p := FrequencyPlan{Integer: 1600, Modulus: 2, BandSelect: 256, Exponent: 2, Reference: DefaultReference()}
	got, err := p.Apply(regs)
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("band select 256 accepted: %v", err)
	}
	after := got.Words(NumRegisters)
	for i := range before {
		if before[i] != after[i] || regs[i].Pack() != before[i] {
			t.Errorf("R%d changed to %#08x", i, after[i])
		}
	}
}

// Every feasible target lands within half a channel of the request and
// packs into legal words.
func Test_planSweep(t *testing.T) {
	pl := DefaultPlanner()
	for f := 34.375e6; f <= 4.4e9; f += 1_234_567.891 {
		p, err := pl.Plan(f, DefaultReference())
		if err != nil {
			t.Errorf("%.3f: %v", f, err)
			continue
		}
		step := pl.Resolution / float64(uint32(1)<<p.Exponent)
		if math.Abs(p.Actual()-f) > step/2+1e-3 {
			t.Errorf("%.3f: actual %.3f", f, p.Actual())
		}
		if p.Modulus < 2 || p.Modulus > Modulus.Max() || p.Fractional >= p.Modulus {
			t.Errorf("%.3f: %d/%d", f, p.Fractional, p.Modulus)
		}
		regs, err := p.Apply(DefaultRegisters())
		if err != nil {
			t.Errorf("%.3f: %v", f, err)
			continue
		}
		for i, w := range regs.Words(NumRegisters) {
			if w&addressMask != uint32(i) {
				t.Errorf("%.3f: word %d addresses R%d", f, i, w&addressMask)
			}
		}
	}
}
