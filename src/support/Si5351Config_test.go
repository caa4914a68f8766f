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
	"math"
	"testing"
)

var seed = int64(1)

func rand() float64 {
	seed = 25214903917*seed + 11
	return float64(seed&0xffff_ffff_ffff) / float64(1<<48)
}

func Test_referenceAccuracy(t *testing.T) {
	references := [][]float64{ // common synthesizer references, trimmed +-200 Hz
		{9_999_800, 10_000_200},
		{12_999_800, 13_000_200},
		{19_199_800, 19_200_200},
		{24_999_800, 25_000_200},
		{25_999_800, 26_000_200},
		{30_719_800, 30_720_200},
		{49_999_800, 50_000_200},
		{61_439_800, 61_440_200},
		{99_999_800, 100_000_200},
		{122_879_800, 122_880_200},
		{149_999_800, 150_000_200},
		{179_999_800, 180_000_200},
	}
	for i := 0; i < len(references); i++ {
		for f := references[i][0]; f <= references[i][1]; f += rand() * 20 {
			config, err := New(25e6, 0.0, f)
			if err != nil {
				t.Errorf("Error in si5351Config: %s", err)
				continue
			}
			if math.Abs(config.Error())/f > 1e-7 {
				t.Errorf("Big discrepancy: %.4f, %.2f vs %.2f", config.Error(), config.Frequency(), f)
			}
			if a, _, _ := config.Output(); config.RDiv() != 1 || a < 4 {
				t.Errorf("expected an integer output divider at %.2f, got %v", f, config)
			}
		}
	}
}

func Test_exactReference(t *testing.T) {
	config, err := New(25e6, 0, 25e6)
	if err != nil {
		t.Fatalf("Error in si5351Config: %s", err)
	}
	if a, b, c := config.Feedback(); a != 24 || b != 0 || c != 1 {
		t.Errorf("feedback = %d+%d/%d, want 24+0/1", a, b, c)
	}
	if a, b, c := config.Output(); a != 24 || b != 0 || c != 1 {
		t.Errorf("output = %d+%d/%d, want 24+0/1", a, b, c)
	}
	if config.Error() != 0 || config.PLL() != 600e6 {
		t.Errorf("expected exact 600MHz pll, got %v with error %g", config, config.Error())
	}
}

func Test_invalid(t *testing.T) {
	cases := []struct {
		name       string
		f0, pll, f float64
	}{
		{"slow crystal", 8e6, 0, 25e6},
		{"fast crystal", 30e6, 0, 25e6},
		{"too fast", 25e6, 0, 250e6},
		{"negative", 25e6, 0, -1},
		{"pll low", 25e6, 500e6, 1e6},
		{"pll high", 25e6, 950e6, 1e6},
	}
	for _, c := range cases {
		if _, err := New(c.f0, c.pll, c.f); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}

func Test_range(t *testing.T) {
	for f := 1.0; f < 2300; f += 50 {
		_, err := New(25e6, 0.0, f)
		if err == nil {
			t.Errorf("Expected error in si5351Config due to low frequency: %.3f", f)
		}
	}
	for f := 2302.0; f < 200e6; f *= 1.2 {
		r, err := New(25e6, 0.0, f)
		if err != nil {
			t.Errorf("Error in si5351Config: %s", err)
		}
		if math.Abs(r.Error())/f > 1e-7 {
			t.Errorf("Error in si5351Config: %.3f Hz at %.1f", r.Error(), f)
		}
	}
}
