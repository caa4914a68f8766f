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

//go:build tinygo

package refclock

import (
	"errors"
	"fmt"

	"github.com/chiefMarlin/tinygo-drivers/si5351"
	"tinygo.org/x/drivers"
)

// Program writes the plan to a Si5351 on bus and enables its outputs. The
// bus must already be configured.
func Program(bus drivers.I2C, p Plan) error {
	clockgen := si5351.New(bus)

	connected, err := clockgen.Connected()
	if err != nil {
		return fmt.Errorf("refclock: unable to read device status: %w", err)
	}
	if !connected {
		return errors.New("refclock: no Si5351 on the bus")
	}
	if err := clockgen.Configure(); err != nil {
		return fmt.Errorf("refclock: unable to configure device: %w", err)
	}

	a, b, c := p.cfg.Feedback()
	if err := clockgen.ConfigurePLL(si5351.PLL_A, uint8(a), b, c); err != nil {
		return fmt.Errorf("refclock: unable to configure PLL: %w", err)
	}
	fmt.Printf("PLL A frequency: %.1f\n", p.cfg.PLL())

	a, b, c = p.cfg.Output()
	if err := clockgen.ConfigureMultisynth(p.Output, si5351.PLL_A, a, b, c); err != nil {
		return fmt.Errorf("refclock: unable to configure output %d: %w", p.Output, err)
	}
	fmt.Printf("Clock %d: %.3f kHz\n", p.Output, p.Actual()/1e3)

	if err := clockgen.EnableOutputs(); err != nil {
		return fmt.Errorf("refclock: unable to enable outputs: %w", err)
	}
	return nil
}
