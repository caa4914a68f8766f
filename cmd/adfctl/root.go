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

package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"adf4351/src/adf4351"
	"adf4351/src/adf4351/sim"
	"adf4351/src/config"
)

// session is the state shared by every command of one invocation, including
// all the lines of a script.
type session struct {
	configPath string
	verbose    bool

	chip *sim.Chip
	dev  *adf4351.Device
}

func (s *session) config() (config.Config, error) {
	if s.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(s.configPath)
}

// device returns the simulated device, creating and initializing it on first
// use.
func (s *session) device(out io.Writer) (*adf4351.Device, error) {
	if s.dev != nil {
		return s.dev, nil
	}
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	if s.verbose {
		opts.Logger = log.New(out, "", 0)
	}
	chip := sim.New()
	dev := adf4351.New(chip, chip.LatchEnable(), chip.LockDetect(), opts)
	if err := dev.Init(); err != nil {
		return nil, err
	}
	s.chip, s.dev = chip, dev
	return dev, nil
}

func newRootCmd(s *session) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "adfctl",
		Short: "Plan and load ADF4351 register settings",
		Long: `adfctl plans divider settings for the ADF4351/8V97051 synthesizer and
loads them into a simulated chip, showing the register words and write order
the firmware would use.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&s.configPath, "config", "c", s.configPath, "YAML board file")
	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", s.verbose, "Log every plan and register write")

	rootCmd.AddCommand(planCmd(s))
	rootCmd.AddCommand(tuneCmd(s))
	rootCmd.AddCommand(trimCmd(s))
	rootCmd.AddCommand(outputCmd(s))
	rootCmd.AddCommand(powerCmd(s))
	rootCmd.AddCommand(lockCmd(s))
	rootCmd.AddCommand(regsCmd(s))
	rootCmd.AddCommand(importCmd(s))
	rootCmd.AddCommand(readCmd(s))
	rootCmd.AddCommand(errorsCmd(s))
	rootCmd.AddCommand(scriptCmd(s))

	return rootCmd
}

func printWords(out io.Writer, words []uint32) {
	for i, w := range words {
		fmt.Fprintf(out, "%v 0x%08x\n", adf4351.RegisterID(i), w)
	}
}
