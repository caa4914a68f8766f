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

import (
	"fmt"
	"io"
	"log"

	"tinygo.org/x/drivers"
)

// State is where the device is in its life cycle.
type State uint8

const (
	Uninitialized State = iota
	Initialized
	Configured
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Configured:
		return "configured"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Options configure a Device.
type Options struct {
	Reference        ReferenceConfig
	StartupFrequency float64 // Hz, planned by Init
	Resolution       float64 // channel spacing, Hz
	Extended         bool    // 8V97051 registers 6 and 7
	DiagCapacity     int
	Logger           *log.Logger
}

// DefaultOptions start at 1GHz from a 25MHz reference with 1kHz channels.
func DefaultOptions() Options {
	return Options{
		Reference:        DefaultReference(),
		StartupFrequency: 1e9,
		Resolution:       DefaultResolution,
		DiagCapacity:     DefaultDiagCapacity,
	}
}

// Device is one ADF4351 (or 8V97051). It owns the bus and the register file;
// it is not safe for concurrent use.
type Device struct {
	bus   *Bus
	lock  *LockMonitor
	opts  Options
	log   *log.Logger
	diag  *DiagQueue
	regs  Registers
	plan  FrequencyPlan
	ref   ReferenceConfig
	state State
}

// New wires a device to its SPI bus, latch-enable line and lock-detect line.
// Nothing is written until Init.
func New(spi drivers.SPI, le Pin, ld InputPin, opts Options) *Device {
	if opts.Resolution == 0 {
		opts.Resolution = DefaultResolution
	}
	if opts.DiagCapacity == 0 {
		opts.DiagCapacity = DefaultDiagCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Device{
		bus:  NewBus(spi, le),
		lock: NewLockMonitor(ld),
		opts: opts,
		log:  logger,
		diag: NewDiagQueue(opts.DiagCapacity),
		regs: EmptyRegisters(),
		ref:  opts.Reference,
	}
}

// Init loads the default register values, plans the startup frequency and
// writes R5 down to R0.
func (d *Device) Init() error {
	regs := DefaultRegisters()
	p, err := d.planner(regs).Plan(d.opts.StartupFrequency, d.ref)
	if err != nil {
		return d.fail(err)
	}
	next, err := p.Apply(regs)
	if err != nil {
		return d.fail(err)
	}
	d.log.Printf("adf4351: init %v", p)
	if err := d.bus.WriteAll(next.Words(NumBaseRegisters)); err != nil {
		return d.fail(err)
	}
	d.regs = next
	d.plan = p
	d.state = Initialized
	return nil
}

// SetFrequency retunes the output. The plan is computed and every field
// validated before anything is written; on error the registers and the chip
// are left as they were.
func (d *Device) SetFrequency(hz float64) error {
	if d.state == Uninitialized {
		return d.fail(ErrNotInitialized)
	}
	return d.retune(hz, d.ref)
}

// SetReference changes the reference path and retunes the current frequency
// against it. If the current frequency cannot be reached from the new
// reference nothing changes.
func (d *Device) SetReference(ref ReferenceConfig) error {
	if err := ref.Validate(); err != nil {
		return d.fail(err)
	}
	if d.state == Uninitialized || d.plan.Target == 0 {
		// nothing planned yet, the next plan picks it up
		d.ref = ref
		return nil
	}
	return d.retune(d.plan.Target, ref)
}

func (d *Device) retune(hz float64, ref ReferenceConfig) error {
	p, err := d.planner(d.regs).Plan(hz, ref)
	if err != nil {
		return d.fail(err)
	}
	next, err := p.Apply(d.regs)
	if err != nil {
		return d.fail(err)
	}
	d.log.Printf("adf4351: %v", p)
	words := next.Words(NumBaseRegisters)
	if err := d.bus.WriteAll(words[:R5]); err != nil {
		return d.fail(err)
	}
	d.regs = next
	d.plan = p
	d.ref = ref
	d.state = Configured
	return nil
}

func (d *Device) planner(regs Registers) Planner {
	return Planner{
		Resolution:  d.opts.Resolution,
		Prescaler89: regs[R1].Flag(Prescaler),
	}
}

// SetOutputEnabled switches the RF output stage. Only R4 is written.
func (d *Device) SetOutputEnabled(on bool) error {
	return d.updateR4(RFOutputEnable, boolToBit(on))
}

// SetPower sets the output power index, 0..3 (-4, -1, +2, +5 dBm). Only R4
// is written.
func (d *Device) SetPower(level uint8) error {
	return d.updateR4(OutputPower, uint32(level))
}

// PowerIndexForDBm maps -4, -1, +2 and +5 dBm (and values between) to the
// output power index.
func PowerIndexForDBm(dbm int) (uint8, error) {
	if dbm < -4 || dbm > 5 {
		return 0, fmt.Errorf("%w: output power %d dBm outside -4..+5", ErrInvalidField, dbm)
	}
	return uint8((dbm + 4) / 3), nil
}

func (d *Device) updateR4(f Field, v uint32) error {
	if d.state == Uninitialized {
		return d.fail(ErrNotInitialized)
	}
	r4 := d.regs[R4]
	if err := r4.Set(f, v); err != nil {
		return d.fail(err)
	}
	d.log.Printf("adf4351: %v = %d, %v", f, v, r4)
	if err := d.bus.WriteRegister(r4.Pack()); err != nil {
		return d.fail(err)
	}
	d.regs[R4] = r4
	return nil
}

// IsLocked samples the lock-detect line.
func (d *Device) IsLocked() bool {
	return d.lock.IsLocked()
}

// ExportRegisters packs the register file: 6 words, or 8 with the extended
// register set.
func (d *Device) ExportRegisters() []uint32 {
	return d.regs.Words(d.registerCount())
}

// ImportRegisters writes raw words straight to the chip, bypassing the
// planner. words[i] must address register i. The words are checked before
// anything is written and become the device's register file.
func (d *Device) ImportRegisters(words []uint32) error {
	if len(words) < NumBaseRegisters || len(words) > d.registerCount() {
		return d.fail(fmt.Errorf("%w: %d words, want %d..%d", ErrInvalidField, len(words), NumBaseRegisters, d.registerCount()))
	}
	next := d.regs
	for i, w := range words {
		r, err := Unpack(RegisterID(i), w)
		if err != nil {
			return d.fail(err)
		}
		next[i] = r
	}
	if err := d.bus.WriteAll(words); err != nil {
		return d.fail(err)
	}
	d.regs = next
	d.plan = FrequencyPlan{}
	if d.state == Uninitialized {
		d.state = Initialized
	}
	d.log.Printf("adf4351: imported %d registers", len(words))
	return nil
}

// ReadRegister reads a register back from the chip through R7. Only the
// extended register set supports read-back.
func (d *Device) ReadRegister(id RegisterID) (Register, error) {
	if !d.opts.Extended {
		return Register{}, d.fail(fmt.Errorf("%w: read-back needs the extended register set", ErrInvalidField))
	}
	if id >= NumRegisters {
		return Register{}, d.fail(fmt.Errorf("%w: no register %d", ErrInvalidField, uint8(id)))
	}
	r, err := d.bus.ReadRegister(id, d.regs[R7])
	if err != nil {
		return Register{}, d.fail(err)
	}
	d.log.Printf("adf4351: read %v", r)
	return r, nil
}

func (d *Device) registerCount() int {
	if d.opts.Extended {
		return NumRegisters
	}
	return NumBaseRegisters
}

// fail records err on the diagnostic queue and returns it.
func (d *Device) fail(err error) error {
	d.diag.Push(DiagnosticFor(err))
	d.log.Printf("adf4351: %v", err)
	return err
}

// Register returns a copy of one register as the device believes the chip
// holds it.
func (d *Device) Register(id RegisterID) Register { return d.regs[id] }

// Plan is the plan most recently applied.
func (d *Device) Plan() FrequencyPlan { return d.plan }

// Frequency is the requested output frequency of the applied plan.
func (d *Device) Frequency() float64 { return d.plan.Target }

func (d *Device) Reference() ReferenceConfig { return d.ref }

func (d *Device) State() State { return d.state }

func (d *Device) Diagnostics() *DiagQueue { return d.diag }
