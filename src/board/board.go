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

//go:build rp2040

// Package board wires the synthesizer to a Raspberry Pi Pico: SPI0 for the
// register bus, one GPIO each for latch enable and lock detect, and I2C0 for
// the optional Si5351 reference.
package board

import (
	"fmt"
	"machine"

	"adf4351/src/adf4351"
	"adf4351/src/config"
	"adf4351/src/refclock"
)

const (
	SCK = machine.GP18
	SDO = machine.GP19 // to DATA
	SDI = machine.GP16 // from MUXOUT, read-back only
	LE  = machine.GP17
	LD  = machine.GP20

	SDA = machine.GP4
	SCL = machine.GP5
)

// Open configures the pins and buses named by c and returns the device,
// not yet initialized. The Si5351 is programmed first when enabled so the
// reference is running before the synthesizer is loaded.
func Open(c config.Config) (*adf4351.Device, error) {
	spi := machine.SPI0
	err := spi.Configure(machine.SPIConfig{
		Frequency: c.SPI.Frequency,
		SCK:       SCK,
		SDO:       SDO,
		SDI:       SDI,
		LSBFirst:  false,
		Mode:      0,
	})
	if err != nil {
		return nil, fmt.Errorf("board: configuring SPI0: %w", err)
	}

	le := LE
	le.Configure(machine.PinConfig{Mode: machine.PinOutput})
	ld := LD
	ld.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})

	if c.RefClock.Enabled {
		if err := machine.I2C0.Configure(machine.I2CConfig{SDA: SDA, SCL: SCL}); err != nil {
			return nil, fmt.Errorf("board: configuring I2C0: %w", err)
		}
		p, err := c.RefClockPlan()
		if err != nil {
			return nil, err
		}
		if err := refclock.Program(machine.I2C0, p); err != nil {
			return nil, err
		}
		fmt.Printf("reference %v\n", p)
	}

	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return adf4351.New(spi, le, ld, opts), nil
}
