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

// Package sim emulates the serial side of an ADF4351/8V97051 for host-side
// tests and tools: a 32 bit input shift register latched by LE, the
// register file, R7 read-back on SDO and a lock-detect output.
package sim

import "errors"

// ErrPartialFrame is recorded when LE rises on fewer than 32 bits.
var ErrPartialFrame = errors.New("sim: latch with partial frame")

// Chip is a simulated synthesizer. The zero value is not usable; use New.
type Chip struct {
	regs  [8]uint32
	shift uint32
	bits  int
	out   uint32
	le    bool

	frames  []uint32
	errs    []error
	locked  bool
	manual  bool
	passed  int

	// Fault, when set, is returned by every transfer.
	Fault error
	// FailAfter lets that many transfers through after Fault is set before
	// Fault is returned.
	FailAfter int
}

// New returns a chip with every register holding only its address and LE
// high.
func New() *Chip {
	c := &Chip{le: true}
	for i := range c.regs {
		c.regs[i] = uint32(i)
	}
	return c
}

// Tx shifts w in most significant bit first. When r is not nil it receives
// the bits shifted out on SDO.
func (c *Chip) Tx(w, r []byte) error {
	if err := c.fault(); err != nil {
		return err
	}
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var b byte
		if i < len(w) {
			b = w[i]
		}
		o := c.shiftByte(b)
		if i < len(r) {
			r[i] = o
		}
	}
	return nil
}

// Transfer shifts a single byte.
func (c *Chip) Transfer(b byte) (byte, error) {
	if err := c.fault(); err != nil {
		return 0, err
	}
	return c.shiftByte(b), nil
}

func (c *Chip) fault() error {
	if c.Fault == nil {
		return nil
	}
	if c.passed < c.FailAfter {
		c.passed++
		return nil
	}
	return c.Fault
}

func (c *Chip) shiftByte(b byte) byte {
	o := byte(c.out >> 24)
	c.out <<= 8
	c.shift = c.shift<<8 | uint32(b)
	c.bits += 8
	return o
}

func (c *Chip) setLE(high bool) {
	switch {
	case !c.le && high:
		c.latch()
	case c.le && !high:
		c.shift, c.bits = 0, 0
	}
	c.le = high
}

func (c *Chip) latch() {
	if c.bits < 32 {
		c.errs = append(c.errs, ErrPartialFrame)
		return
	}
	word := c.shift
	addr := word & 7
	c.regs[addr] = word
	c.frames = append(c.frames, word)
	switch {
	case addr == 7 && word>>3&1 == 1:
		// read request: the addressed register goes out on the next frame
		c.out = c.regs[word>>4&7]
	case addr == 2 && word>>5&1 == 1:
		// power down
		if !c.manual {
			c.locked = false
		}
	case addr == 0:
		if !c.manual {
			c.locked = c.regs[2]>>5&1 == 0
		}
	}
}

// LatchEnable is the chip's LE input.
func (c *Chip) LatchEnable() *LatchPin { return &LatchPin{c} }

// LockDetect is the chip's LD output.
func (c *Chip) LockDetect() *LockPin { return &LockPin{c} }

// SetLocked pins the lock-detect output. Without it the chip reports lock
// after every R0 load while R2 is not powered down.
func (c *Chip) SetLocked(locked bool) {
	c.manual = true
	c.locked = locked
}

// Frames returns every latched word in order.
func (c *Chip) Frames() []uint32 {
	out := make([]uint32, len(c.frames))
	copy(out, c.frames)
	return out
}

// ClearFrames forgets the latched word log.
func (c *Chip) ClearFrames() { c.frames = c.frames[:0] }

// Register returns the word last latched into register addr.
func (c *Chip) Register(addr int) uint32 { return c.regs[addr&7] }

// Preload sets a register as if the chip held it, for read-only status
// bits.
func (c *Chip) Preload(word uint32) { c.regs[word&7] = word }

// Errors returns framing errors seen so far.
func (c *Chip) Errors() []error { return c.errs }

// LatchPin drives LE.
type LatchPin struct{ c *Chip }

func (p *LatchPin) Set(high bool) { p.c.setLE(high) }

// LockPin reads LD.
type LockPin struct{ c *Chip }

func (p *LockPin) Get() bool { return p.c.locked }
