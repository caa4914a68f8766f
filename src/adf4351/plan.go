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
	"fmt"
	"math"

	"adf4351/src/support"
)

// Chip limits.
const (
	VCOMin = 2.2e9
	VCOMax = 4.4e9

	// the 4/5 prescaler cannot follow the VCO above this
	vcoMaxPrescaler45 = 3.6e9

	// band select clock must not run above this
	bandSelectClockMax = 125e3

	minIntegerPrescaler89 = 75
	minIntegerPrescaler45 = 23

	// integer-N writes the smallest legal modulus
	integerModulus = 2

	// MaxDividerExponent selects divide by 64
	MaxDividerExponent = 6

	// DefaultResolution is the channel spacing in Hz
	DefaultResolution = 1000.0
)

// Output divider bands, highest first. A target at or above bands[k] uses
// divider exponent k.
var bands = [MaxDividerExponent]float64{2200e6, 1100e6, 550e6, 275e6, 137.5e6, 68.75e6}

// Mode is the feedback divider mode.
type Mode uint8

const (
	IntegerN Mode = iota
	FractionalN
)

func (m Mode) String() string {
	if m == IntegerN {
		return "integer-N"
	}
	return "fractional-N"
}

// FrequencyPlan is a validated divider configuration for one output
// frequency.
type FrequencyPlan struct {
	Target     float64 // requested output, Hz
	PFD        float64
	VCO        float64
	Integer    uint32
	Fractional uint32
	Modulus    uint32
	Exponent   uint8  // output divider is 1<<Exponent
	BandSelect uint32 // band select clock divider
	Mode       Mode
	Reference  ReferenceConfig
}

// N is the effective feedback divider Integer + Fractional/Modulus.
func (p FrequencyPlan) N() float64 {
	return float64(p.Integer) + float64(p.Fractional)/float64(p.Modulus)
}

// Actual is the output frequency the plan produces.
func (p FrequencyPlan) Actual() float64 {
	return p.PFD * p.N() / float64(uint32(1)<<p.Exponent)
}

func (p FrequencyPlan) String() string {
	return fmt.Sprintf("%.3f Hz: PFD %.1f, VCO %.1f, /%d, INT %d FRAC %d MOD %d, BS %d, %v",
		p.Target, p.PFD, p.VCO, 1<<p.Exponent, p.Integer, p.Fractional, p.Modulus, p.BandSelect, p.Mode)
}

// Planner searches the divider configuration for a target frequency.
type Planner struct {
	// Resolution is the channel spacing in Hz; the modulus is PFD/Resolution.
	Resolution float64
	// Prescaler89 selects the 8/9 prescaler; false is 4/5.
	Prescaler89 bool
}

// DefaultPlanner uses a 1kHz channel spacing and the 8/9 prescaler.
func DefaultPlanner() Planner {
	return Planner{Resolution: DefaultResolution, Prescaler89: true}
}

// Plan computes the dividers that put the output on target. Nothing is
// truncated: every value that does not fit its register field is an error.
func (pl Planner) Plan(target float64, ref ReferenceConfig) (FrequencyPlan, error) {
	if err := ref.Validate(); err != nil {
		return FrequencyPlan{}, err
	}
	if !(pl.Resolution > 0) {
		return FrequencyPlan{}, fmt.Errorf("%w: channel spacing %g Hz", ErrInfeasible, pl.Resolution)
	}
	p := FrequencyPlan{Target: target, Reference: ref, PFD: ref.PFD()}

	bs := math.Floor(p.PFD / bandSelectClockMax)
	if bs > float64(BandSelectDivider.Max()) {
		return FrequencyPlan{}, fmt.Errorf("%w: PFD %.1f Hz needs divider %.0f", ErrBandSelectOverflow, p.PFD, bs)
	}
	p.BandSelect = uint32(math.Max(bs, 1))

	if !(target > 0) || math.IsInf(target, 0) {
		return FrequencyPlan{}, fmt.Errorf("%w: target %g Hz", ErrInfeasible, target)
	}
	p.Exponent = dividerExponent(target)
	p.VCO = target * float64(uint32(1)<<p.Exponent)
	vcoMax := VCOMax
	if !pl.Prescaler89 {
		vcoMax = vcoMaxPrescaler45
	}
	if p.VCO < VCOMin || p.VCO > vcoMax {
		return FrequencyPlan{}, fmt.Errorf("%w: %.1f Hz needs VCO %.1f Hz outside %.0f..%.0f",
			ErrInfeasible, target, p.VCO, VCOMin, vcoMax)
	}

	n := p.VCO / p.PFD
	integer := math.Floor(n)
	frac := math.Round((n - integer) * (p.PFD / pl.Resolution))
	mod := math.Round(p.PFD / pl.Resolution)
	if frac > 0 && frac >= mod {
		// rounding reached the next integer
		integer++
		frac = 0
	}
	if integer > float64(Integer.Max()) {
		return FrequencyPlan{}, fmt.Errorf("%w: N = %.4f", ErrDividerOverflow, n)
	}
	if lowest := pl.minInteger(); integer < lowest {
		return FrequencyPlan{}, fmt.Errorf("%w: N = %.4f below prescaler minimum %.0f", ErrInfeasible, n, lowest)
	}
	p.Integer = uint32(integer)

	if frac == 0 {
		p.Mode = IntegerN
		p.Fractional = 0
		p.Modulus = integerModulus
		return p, nil
	}

	num, den, _ := support.Reduce(uint64(frac), uint64(mod))
	if den > uint64(Modulus.Max()) {
		return FrequencyPlan{}, fmt.Errorf("%w: %.0f/%.0f reduces to %d/%d", ErrUnreducibleFraction, frac, mod, num, den)
	}
	p.Mode = FractionalN
	p.Fractional = uint32(num)
	p.Modulus = uint32(den)
	return p, nil
}

func (pl Planner) minInteger() float64 {
	if pl.Prescaler89 {
		return minIntegerPrescaler89
	}
	return minIntegerPrescaler45
}

// dividerExponent picks the output divider from the descending bands, first
// match wins.
func dividerExponent(target float64) uint8 {
	for k, low := range bands {
		if target >= low {
			return uint8(k)
		}
	}
	return MaxDividerExponent
}

// Apply returns a copy of regs with the plan written in. On error regs is
// returned unchanged.
func (p FrequencyPlan) Apply(regs Registers) (Registers, error) {
	next := regs
	integerN := p.Mode == IntegerN
	steps := []struct {
		f Field
		v uint32
	}{
		{Integer, p.Integer},
		{Fractional, p.Fractional},
		{Modulus, p.Modulus},
		{LockDetectFunction, boolToBit(integerN)},
		{LockDetectPrecision, boolToBit(integerN)},
		{AntiBacklashPulse, boolToBit(integerN)},
		{ChargeCancellation, boolToBit(integerN)},
		{BandSelectDivider, p.BandSelect},
		{RFDividerSelect, uint32(p.Exponent)},
	}
	for _, s := range steps {
		if err := next[s.f.Register()].Set(s.f, s.v); err != nil {
			return regs, err
		}
	}
	if err := p.Reference.apply(&next[R2]); err != nil {
		return regs, err
	}
	return next, nil
}
