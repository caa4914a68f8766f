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

// Package refclock plans and programs a Si5351 clock generator used as the
// synthesizer's reference oscillator.
package refclock

import (
	"errors"
	"fmt"

	"adf4351/src/adf4351"
	"adf4351/src/support"
)

// Reference limits. The Si5351 tops out at 200MHz and below 10MHz the
// synthesizer's phase detector runs too slowly to be useful.
const (
	MinReference = 10e6
	MaxReference = 200e6
)

var ErrRange = errors.New("refclock: reference frequency out of range")

// Plan is a Si5351 configuration for one reference frequency.
type Plan struct {
	Crystal float64 // Si5351 crystal, Hz
	Target  float64 // requested reference, Hz
	Output  uint8   // clock output feeding REFin
	cfg     support.Si5351Config
}

// New plans output `output` of a Si5351 with crystal `crystal` to produce
// `target`. Plans that need the final power of two R divider are rejected.
func New(crystal, target float64, output uint8) (Plan, error) {
	if target < MinReference || target > MaxReference {
		return Plan{}, fmt.Errorf("%w: %.1f Hz not in %.0f..%.0f", ErrRange, target, MinReference, MaxReference)
	}
	if output > 2 {
		return Plan{}, fmt.Errorf("%w: no clock output %d", ErrRange, output)
	}
	cfg, err := support.New(crystal, 0, target)
	if err != nil {
		return Plan{}, err
	}
	if cfg.RDiv() != 1 {
		return Plan{}, fmt.Errorf("%w: %v needs R divider %d", ErrRange, cfg, cfg.RDiv())
	}
	return Plan{Crystal: crystal, Target: target, Output: output, cfg: cfg}, nil
}

// Actual is the frequency the dividers produce.
func (p Plan) Actual() float64 { return p.cfg.Frequency() }

// Config exposes the divider settings.
func (p Plan) Config() support.Si5351Config { return p.cfg }

// Reference describes the synthesizer's reference path fed from this clock.
// The difference between produced and requested frequency becomes the
// reference error so the synthesizer plans against what it actually gets.
func (p Plan) Reference(rCounter uint32, doubler, halver bool) adf4351.ReferenceConfig {
	return adf4351.ReferenceConfig{
		Frequency: p.Target,
		Error:     p.Actual() - p.Target,
		RCounter:  rCounter,
		Doubler:   doubler,
		Halver:    halver,
	}
}

func (p Plan) String() string {
	return fmt.Sprintf("clk%d %.6f MHz: %v", p.Output, p.Target/1e6, p.cfg)
}
