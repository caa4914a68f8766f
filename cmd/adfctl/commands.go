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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"adf4351/src/adf4351"
	"adf4351/src/refclock"
)

func planCmd(s *session) *cobra.Command {
	var prescaler45 bool

	cmd := &cobra.Command{
		Use:   "plan FREQUENCY",
		Short: "Show the divider plan and register words for a frequency",
		Long: `Show the divider plan and register words for a frequency without
touching the chip. Frequencies take an optional k, M or G suffix.

Examples:
  adfctl plan 1GHz
  adfctl plan 433.92M --config board.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hz, err := parseFrequency(args[0])
			if err != nil {
				return err
			}
			cfg, err := s.config()
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			planner := adf4351.Planner{Resolution: opts.Resolution, Prescaler89: !prescaler45}
			p, err := planner.Plan(hz, opts.Reference)
			if err != nil {
				return err
			}
			regs := adf4351.DefaultRegisters()
			if err := regs[adf4351.R1].SetFlag(adf4351.Prescaler, !prescaler45); err != nil {
				return err
			}
			regs, err = p.Apply(regs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%v\n", opts.Reference)
			fmt.Fprintf(out, "%v\n", p)
			fmt.Fprintf(out, "actual %.3f Hz, error %.3f Hz\n", p.Actual(), p.Actual()-hz)
			printWords(out, regs.Words(adf4351.NumBaseRegisters))
			return nil
		},
	}

	cmd.Flags().BoolVar(&prescaler45, "prescaler45", false, "Plan for the 4/5 prescaler")

	return cmd
}

func tuneCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tune FREQUENCY",
		Short: "Retune the simulated chip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hz, err := parseFrequency(args[0])
			if err != nil {
				return err
			}
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := dev.SetFrequency(hz); err != nil {
				return err
			}
			p := dev.Plan()
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f Hz, %v, N = %d+%d/%d\n",
				p.Actual(), p.Mode, p.Integer, p.Fractional, p.Modulus)
			return nil
		},
	}
}

func trimCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "trim MEASURED",
		Short: "Correct for a measured reference frequency and retune",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hz, err := parseFrequency(args[0])
			if err != nil {
				return err
			}
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := dev.SetReference(refclock.Trim(dev.Reference(), hz)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", dev.Reference())
			return nil
		},
	}
}

func outputCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:       "output on|off",
		Short:     "Switch the RF output",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch args[0] {
			case "on":
				on = true
			case "off":
			default:
				return fmt.Errorf("output must be on or off, not %q", args[0])
			}
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return dev.SetOutputEnabled(on)
		},
	}
}

func powerCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "power DBM",
		Short: "Set the output power (-4, -1, +2 or +5 dBm)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbm, err := strconv.Atoi(strings.TrimPrefix(args[0], "+"))
			if err != nil {
				return fmt.Errorf("invalid power %q: %w", args[0], err)
			}
			level, err := adf4351.PowerIndexForDBm(dbm)
			if err != nil {
				return err
			}
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return dev.SetPower(level)
		},
	}
}

func lockCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Report the lock-detect line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if dev.IsLocked() {
				fmt.Fprintln(cmd.OutOrStdout(), "locked")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "unlocked")
			}
			return nil
		},
	}
}

func regsCmd(s *session) *cobra.Command {
	var frames bool

	cmd := &cobra.Command{
		Use:   "regs",
		Short: "Print the register words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if frames {
				for _, w := range s.chip.Frames() {
					fmt.Fprintf(out, "0x%08x\n", w)
				}
				return nil
			}
			printWords(out, dev.ExportRegisters())
			return nil
		},
	}

	cmd.Flags().BoolVar(&frames, "frames", false, "Print every word latched by the chip, in write order")

	return cmd
}

func importCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import WORD...",
		Short: "Load raw register words, R0 first",
		Long: `Load raw register words into the chip, bypassing the planner. Words are
given R0 first and are written R5 (or R7) first.

Example:
  adfctl import 0x03200000 0x08008011 0x1e051fc2 0x00e00003 0x00a14404 0x00580005`,
		Args: cobra.RangeArgs(adf4351.NumBaseRegisters, adf4351.NumRegisters),
		RunE: func(cmd *cobra.Command, args []string) error {
			words := make([]uint32, len(args))
			for i, a := range args {
				w, err := strconv.ParseUint(a, 0, 32)
				if err != nil {
					return fmt.Errorf("invalid register word %q: %w", a, err)
				}
				words[i] = uint32(w)
			}
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return dev.ImportRegisters(words)
		},
	}
}

func readCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "read REGISTER",
		Short: "Read a register back through R7 (8V97051 only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToUpper(args[0]), "R"), 10, 8)
			if err != nil {
				return fmt.Errorf("invalid register %q: %w", args[0], err)
			}
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			r, err := dev.ReadRegister(adf4351.RegisterID(n))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%v\n", r)
			for _, f := range adf4351.Layout(r.ID()) {
				fmt.Fprintf(out, "  %-28v %d\n", f, r.Get(f))
			}
			return nil
		},
	}
}

func errorsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "errors",
		Short: "Drain the diagnostic queue, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dev, err := s.device(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			d, ok := dev.Diagnostics().Pop()
			fmt.Fprintln(out, d)
			for ok {
				if d, ok = dev.Diagnostics().Pop(); ok {
					fmt.Fprintln(out, d)
				}
			}
			return nil
		},
	}
}

func scriptCmd(s *session) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "script FILE",
		Short: "Run adfctl commands from a file, one per line",
		Long: `Run adfctl commands from a file ("-" for standard input), one per line,
against the same simulated chip. Lines are split like a shell would; # starts
a comment.

Example script:
  tune 2.4GHz
  power +5
  output on
  regs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			name := "stdin"
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				in, name = f, args[0]
			}
			return runScript(s, cmd, name, in, keepGoing)
		},
	}

	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Report failing lines and continue")

	return cmd
}

func runScript(s *session, parent *cobra.Command, name string, in io.Reader, keepGoing bool) error {
	var failed error
	scanner := bufio.NewScanner(in)
	for line := 1; scanner.Scan(); line++ {
		args, err := shlex.Split(scanner.Text())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if len(args) == 0 {
			continue
		}
		sub := newRootCmd(s)
		sub.SetArgs(args)
		sub.SetIn(parent.InOrStdin())
		sub.SetOut(parent.OutOrStdout())
		sub.SetErr(parent.ErrOrStderr())
		if err := sub.Execute(); err != nil {
			err = fmt.Errorf("%s:%d: %w", name, line, err)
			if !keepGoing {
				return err
			}
			fmt.Fprintf(parent.ErrOrStderr(), "Error: %v\n", err)
			failed = errors.Join(failed, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return failed
}

// parseFrequency reads a frequency in Hz with an optional k, M or G
// multiplier and an optional Hz unit: "1e9", "433.92M", "2.4GHz".
func parseFrequency(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if strings.HasSuffix(strings.ToLower(t), "hz") {
		t = t[:len(t)-2]
	}
	scale := 1.0
	if n := len(t); n > 0 {
		switch t[n-1] {
		case 'k', 'K':
			scale = 1e3
		case 'M':
			scale = 1e6
		case 'G', 'g':
			scale = 1e9
		}
		if scale != 1 {
			t = t[:n-1]
		}
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}
	return f * scale, nil
}
