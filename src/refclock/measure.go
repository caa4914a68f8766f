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

package refclock

import (
	"fmt"

	"adf4351/src/adf4351"
	"adf4351/src/support"
)

// Sample is one reading of an edge counter clocked by the reference: the
// wrap count read before and after the hardware low word, and the timebase
// time of the reading.
type Sample struct {
	High1, Low1, High2, Low2 uint32
	Seconds                  float64
}

func (s Sample) count(scale uint64) uint64 {
	return support.ReduceObservation(scale, s.High1, s.Low1, s.High2, s.Low2)
}

// Measure estimates the reference frequency from two counter samples. The
// low counter word wraps at scale.
func Measure(scale uint64, first, last Sample) (float64, error) {
	dt := last.Seconds - first.Seconds
	if !(dt > 0) {
		return 0, fmt.Errorf("%w: samples %.6f s apart", ErrRange, dt)
	}
	a, b := first.count(scale), last.count(scale)
	if b < a {
		return 0, fmt.Errorf("%w: counter went backwards", ErrRange)
	}
	return float64(b-a) / dt, nil
}

// Trim sets the reference error so the reference path plans against the
// measured frequency.
func Trim(ref adf4351.ReferenceConfig, measured float64) adf4351.ReferenceConfig {
	ref.Error = measured - ref.Frequency
	return ref
}
