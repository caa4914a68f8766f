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

package support

import (
	"errors"
	"fmt"
	"math"
)

type Si5351Config struct {
	f0, pll, f                float64 // crystal, pll and output frequencies
	a0, b0, c0, a1, b1, c1, r uint32  // chip parameters
	eps                       float64 // error in output frequency (Hz)
}

/*
New computes configuration parameters for the PLL and multi-synth fractional
dividers of a Si5351 clock generator.

The parameter `f0` is the crystal frequency (in Hz) of the generator (typically
25 or 27MHz), `pll` is the PLL frequency (in Hz) in the range of 600..900MHz, `f` is the
desired output frequency (in Hz). If `pll` is zero, then a suitable value will be
chosen.

The output will be values such that f0 * (a0 + b0/c0) / (a1 + b1/c1) / r is f to
within as small a tolerance as possible. On a synthesizer board the output is
the PLL reference, so `f` is usually 10..200MHz and carries the reference
error trim.

Above 5MHz with no PLL given, every legal integer output divider that puts
the PLL in range is tried and the feedback divider carries all of the fraction.
Integer output dividers have less jitter, and trying several keeps the feedback
ratio away from the near-integer values that a 20 bit denominator cannot
resolve. Below that the output divider is fractional too.

An error is returned if the routine cannot find good parameters for the dividers
or if the input is invalid.
*/
func New(f0, pll, f float64) (Si5351Config, error) {
	if f0 < 10e6 || f0 > 27e6 {
		return Si5351Config{}, errors.New("Si5351Config: invalid clock frequency")
	}
	if f > 200e6 {
		return Si5351Config{}, errors.New("Si5351Config: output frequency > 200MHz")
	}
	if f <= 0 {
		return Si5351Config{}, errors.New("Si5351Config: output frequency must be positive")
	}
	if pll != 0 && (pll < 600e6 || pll > 900e6) {
		return Si5351Config{}, errors.New("Si5351Config: pll is out of range")
	}

	var r Si5351Config
	var err error
	if pll == 0 && f >= 5e6 {
		r, err = integerOutput(f0, f)
	} else {
		if pll == 0 {
			pll = 600e6
		}
		r, err = fractionalOutput(f0, pll, f)
	}
	if err != nil {
		return Si5351Config{}, err
	}

	r.eps = f - r.f
	if math.Abs(r.eps)/f > 1e-7 {
		return Si5351Config{}, fmt.Errorf("Si5351Config: frequency error is out of range: %.3g Hz", r.eps)
	}
	return r, nil
}

// integerOutput picks the integer output divider giving the smallest error.
func integerOutput(f0, f float64) (Si5351Config, error) {
	var best Si5351Config
	found := false
	for _, d := range outputDividers() {
		pll := float64(d) * f
		if pll < 600e6 || pll > 900e6 {
			continue
		}
		r, err := feedback(f0, pll)
		if err != nil {
			continue
		}
		r.a1, r.b1, r.c1, r.r = d, 0, 1, 1
		r.f = r.PLL() / float64(d)
		if !found || math.Abs(f-r.f) < math.Abs(f-best.f) {
			best = r
			found = true
		}
	}
	if !found {
		return Si5351Config{}, errors.New("Si5351Config: no integer output divider puts the pll in range")
	}
	return best, nil
}

// outputDividers lists the legal integer multi-synth ratios: 4, 6 and 8 and up.
func outputDividers() []uint32 {
	ds := []uint32{4, 6}
	for d := uint32(8); d <= 180; d++ {
		ds = append(ds, d)
	}
	return ds
}

func fractionalOutput(f0, pll, f float64) (Si5351Config, error) {
	r, err := feedback(f0, pll)
	if err != nil {
		return Si5351Config{}, err
	}
	z := r.PLL() / f
	if !near(z, 4, 1e-9) && !near(z, 6, 1e-9) && z < 8 {
		return Si5351Config{}, fmt.Errorf("Si5351Config: output multi-synth ratio too small: %.5g %v", z-6, r)
	}
	r.r = 1
	for z/float64(r.r) > 2048 && r.r <= 128 {
		r.r = r.r * 2
	}
	if r.r > 128 {
		return Si5351Config{}, errors.New("Si5351Config: output divider ratio too big, f_out too low")
	}
	b, c, _ := NearestFraction(uint64(z*1e12/float64(r.r)), 1_000_000_000_000, 1<<20)
	r.a1 = uint32(b / c)
	r.b1 = uint32(b % c)
	r.c1 = uint32(c)
	r.f = r.PLL() / (float64(r.a1) + float64(r.b1)/float64(r.c1)) / float64(r.r)
	return r, nil
}

// feedback approximates pll/f0 as the PLL feedback divider.
func feedback(f0, pll float64) (Si5351Config, error) {
	z := pll / f0
	if z < 15 {
		return Si5351Config{}, errors.New("Si5351Config: can't happen, feedback ratio too small")
	}
	if z > 90 {
		return Si5351Config{}, errors.New("Si5351Config: can't happen, feedback ratio too big")
	}
	b, c, _ := NearestFraction(uint64(z*1e12), 1_000_000_000_000, 1<<20)
	return Si5351Config{
		f0:  f0,
		pll: pll,
		a0:  uint32(b / c),
		b0:  uint32(b % c),
		c0:  uint32(c),
	}, nil
}

// PLL is the PLL frequency the feedback divider actually produces.
func (r Si5351Config) PLL() float64 {
	return r.f0 * (float64(r.a0) + float64(r.b0)/float64(r.c0))
}

// Feedback returns the PLL feedback divider a + b/c.
func (r Si5351Config) Feedback() (a, b, c uint32) { return r.a0, r.b0, r.c0 }

// Output returns the output multi-synth divider a + b/c.
func (r Si5351Config) Output() (a, b, c uint32) { return r.a1, r.b1, r.c1 }

// RDiv is the power of two final output divider.
func (r Si5351Config) RDiv() uint32 { return r.r }

// Frequency is the output frequency the dividers produce.
func (r Si5351Config) Frequency() float64 { return r.f }

// Error is the requested minus the produced frequency in Hz.
func (r Si5351Config) Error() float64 { return r.eps }

func (r Si5351Config) String() string {
	return fmt.Sprintf("pll %.6f MHz = %d+%d/%d, out %.6f MHz = /(%d+%d/%d)/%d",
		r.PLL()/1e6, r.a0, r.b0, r.c0, r.f/1e6, r.a1, r.b1, r.c1, r.r)
}

func near(a float64, b float64, eps float64) bool {
	return math.Abs(a-b) <= eps
}
