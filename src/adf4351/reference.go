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

import "fmt"

// ReferenceConfig describes the path from the REFin pin to the phase
// frequency detector.
type ReferenceConfig struct {
	Frequency float64 // REFin in Hz
	Error     float64 // measured offset of REFin in Hz, added to Frequency
	RCounter  uint32  // 1..1023
	Doubler   bool
	Halver    bool
}

// DefaultReference is a 25MHz crystal, doubled and divided by 20 for a
// 2.5MHz PFD.
func DefaultReference() ReferenceConfig {
	return ReferenceConfig{
		Frequency: 25e6,
		RCounter:  20,
		Doubler:   true,
	}
}

// PFD is the phase frequency detector input frequency.
func (c ReferenceConfig) PFD() float64 {
	if c.RCounter == 0 {
		return 0
	}
	pfd := c.Frequency + c.Error
	if c.Doubler {
		pfd *= 2
	}
	if c.Halver {
		pfd /= 2
	}
	return pfd / float64(c.RCounter)
}

// Validate checks the R counter fits its field and the PFD is positive.
func (c ReferenceConfig) Validate() error {
	if c.RCounter == 0 || c.RCounter > RCounter.Max() {
		return fmt.Errorf("%w: R counter %d outside 1..%d", ErrInvalidField, c.RCounter, RCounter.Max())
	}
	if pfd := c.PFD(); !(pfd > 0) {
		return fmt.Errorf("%w: PFD %.1f Hz from reference %.1f%+.1f Hz", ErrInfeasible, pfd, c.Frequency, c.Error)
	}
	return nil
}

// apply writes the reference path into R2.
func (c ReferenceConfig) apply(r2 *Register) error {
	if err := r2.Set(RCounter, c.RCounter); err != nil {
		return err
	}
	if err := r2.SetFlag(RefDoubler, c.Doubler); err != nil {
		return err
	}
	return r2.SetFlag(RefDivideBy2, c.Halver)
}

func (c ReferenceConfig) String() string {
	return fmt.Sprintf("ref %.3f MHz%+.1f Hz x%d /%d /R%d = PFD %.6f MHz",
		c.Frequency/1e6, c.Error, 1+boolToBit(c.Doubler), 1+boolToBit(c.Halver), c.RCounter, c.PFD()/1e6)
}
