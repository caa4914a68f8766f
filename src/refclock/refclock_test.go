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
	"math"
	"testing"
)

func Test_exactReference(t *testing.T) {
	p, err := New(25e6, 25e6, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.Actual() != 25e6 {
		t.Errorf("actual %.3f", p.Actual())
	}
	ref := p.Reference(20, true, false)
	if ref.Error != 0 || ref.PFD() != 2.5e6 {
		t.Errorf("reference %v", ref)
	}
}

func Test_trimmedReference(t *testing.T) {
	for f := 10e6; f <= 200e6; f += 3_141_592.7 {
		p, err := New(25e6, f, 1)
		if err != nil {
			t.Errorf("%.1f: %v", f, err)
			continue
		}
		ref := p.Reference(10, false, false)
		if math.Abs(ref.Error)/f > 1e-7 {
			t.Errorf("%.1f: error %.3f Hz", f, ref.Error)
		}
		if math.Abs(ref.Frequency+ref.Error-p.Actual()) > 1e-6 {
			t.Errorf("%.1f: reference %v does not add up to %.3f", f, ref, p.Actual())
		}
	}
}

func Test_rejects(t *testing.T) {
	tests := []struct {
		name    string
		crystal float64
		target  float64
		output  uint8
		isRange bool
	}{
		{"too low", 25e6, 5e6, 0, true},
		{"too high", 25e6, 250e6, 0, true},
		{"no such output", 25e6, 25e6, 3, true},
		{"bad crystal", 30e6, 25e6, 0, false},
	}
	for _, tt := range tests {
		_, err := New(tt.crystal, tt.target, tt.output)
		if err == nil {
			t.Errorf("%s: accepted", tt.name)
			continue
		}
		if errors.Is(err, ErrRange) != tt.isRange {
			t.Errorf("%s: %v", tt.name, err)
		}
	}
}
