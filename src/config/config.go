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

// Package config reads the YAML board file describing the synthesizer's
// reference, startup frequency and output settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"adf4351/src/adf4351"
	"adf4351/src/refclock"
)

type Reference struct {
	Frequency float64 `yaml:"frequency"`
	Error     float64 `yaml:"error"`
	RCounter  uint32  `yaml:"r_counter"`
	Doubler   bool    `yaml:"doubler"`
	Halver    bool    `yaml:"halver"`
}

// RefClock describes an optional Si5351 generating the reference.
type RefClock struct {
	Enabled bool    `yaml:"enabled"`
	Crystal float64 `yaml:"crystal"`
	Output  uint8   `yaml:"output"`
}

type SPI struct {
	Frequency uint32 `yaml:"frequency"`
}

// Config is one board file. Keys missing from the file keep their defaults.
type Config struct {
	Reference        Reference `yaml:"reference"`
	StartupFrequency float64   `yaml:"startup_frequency"`
	Resolution       float64   `yaml:"resolution"`
	Extended         bool      `yaml:"extended"`
	PowerDBm         int       `yaml:"power_dbm"`
	OutputEnabled    bool      `yaml:"output_enabled"`
	RefClock         RefClock  `yaml:"refclock"`
	SPI              SPI       `yaml:"spi"`
}

// Default matches adf4351.DefaultOptions with the output off at -4dBm.
func Default() Config {
	ref := adf4351.DefaultReference()
	opts := adf4351.DefaultOptions()
	return Config{
		Reference: Reference{
			Frequency: ref.Frequency,
			RCounter:  ref.RCounter,
			Doubler:   ref.Doubler,
			Halver:    ref.Halver,
		},
		StartupFrequency: opts.StartupFrequency,
		Resolution:       opts.Resolution,
		PowerDBm:         -4,
		RefClock:         RefClock{Crystal: 25e6},
		SPI:              SPI{Frequency: 4_000_000},
	}
}

// Load reads and validates a board file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a board file over the defaults and validates it. Unknown
// keys are errors.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every value the device would otherwise reject later.
func (c Config) Validate() error {
	if err := c.reference().Validate(); err != nil {
		return fmt.Errorf("reference: %w", err)
	}
	if !(c.StartupFrequency > 0) {
		return fmt.Errorf("startup_frequency: %w: %g Hz", adf4351.ErrInfeasible, c.StartupFrequency)
	}
	if !(c.Resolution > 0) {
		return fmt.Errorf("resolution: %w: %g Hz", adf4351.ErrInfeasible, c.Resolution)
	}
	if _, err := adf4351.PowerIndexForDBm(c.PowerDBm); err != nil {
		return fmt.Errorf("power_dbm: %w", err)
	}
	if c.RefClock.Enabled {
		if _, err := c.RefClockPlan(); err != nil {
			return fmt.Errorf("refclock: %w", err)
		}
	}
	return nil
}

func (c Config) reference() adf4351.ReferenceConfig {
	return adf4351.ReferenceConfig{
		Frequency: c.Reference.Frequency,
		Error:     c.Reference.Error,
		RCounter:  c.Reference.RCounter,
		Doubler:   c.Reference.Doubler,
		Halver:    c.Reference.Halver,
	}
}

// RefClockPlan plans the Si5351 for the configured reference frequency.
func (c Config) RefClockPlan() (refclock.Plan, error) {
	return refclock.New(c.RefClock.Crystal, c.Reference.Frequency, c.RefClock.Output)
}

// Options builds the device options. With the reference clock enabled the
// reference error is what the Si5351 dividers leave, not the file's value.
func (c Config) Options() (adf4351.Options, error) {
	opts := adf4351.DefaultOptions()
	opts.Reference = c.reference()
	if c.RefClock.Enabled {
		p, err := c.RefClockPlan()
		if err != nil {
			return adf4351.Options{}, err
		}
		opts.Reference = p.Reference(c.Reference.RCounter, c.Reference.Doubler, c.Reference.Halver)
	}
	opts.StartupFrequency = c.StartupFrequency
	opts.Resolution = c.Resolution
	opts.Extended = c.Extended
	return opts, nil
}

// PowerIndex is the configured output power as a register index.
func (c Config) PowerIndex() uint8 {
	p, _ := adf4351.PowerIndexForDBm(c.PowerDBm)
	return p
}
