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
	"errors"
	"testing"

	"adf4351/src/adf4351"
)

func Test_measure(t *testing.T) {
	const scale = 1 << 16
	// 25MHz plus 40Hz counted over 10s, wrapping during the last read
	first := Sample{High1: 7, Low1: 1000, High2: 7, Low2: 1010}
	total := uint64(7*scale+1000) + 250_000_400
	last := Sample{
		High1:   uint32(total / scale),
		Low1:    uint32(total % scale),
		High2:   uint32(total/scale) + 1,
		Low2:    3,
		Seconds: 10,
	}
	f, err := Measure(scale, first, last)
	if err != nil {
		t.Fatal(err)
	}
	if f != 25_000_040 {
		t.Errorf("measured %.3f", f)
	}

	ref := Trim(adf4351.DefaultReference(), f)
	if ref.Error != 40 || ref.PFD() != 2_500_004 {
		t.Errorf("trimmed %v", ref)
	}

	if _, err := Measure(scale, last, first); !errors.Is(err, ErrRange) {
		t.Errorf("reversed samples: %v", err)
	}
}
