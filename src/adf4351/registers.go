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

import "fmt"

// Register holds the field values of one chip register. The address is fixed
// when the register is created; setters only touch the named fields.
type Register struct {
	id RegisterID
	v  [maxSlots]uint32
}

// NewRegister returns register id with every field zero.
func NewRegister(id RegisterID) Register {
	if id >= NumRegisters {
		panic(fmt.Sprintf("adf4351: no register %d", uint8(id)))
	}
	return Register{id: id}
}

func (r Register) ID() RegisterID { return r.id }

// Set assigns a field. Values wider than the field and fields that belong to
// another register are rejected with ErrInvalidField, nothing is truncated.
func (r *Register) Set(f Field, value uint32) error {
	if f >= numFields {
		return fmt.Errorf("%w: unknown field %d", ErrInvalidField, uint8(f))
	}
	s := fieldSpecs[f]
	if s.reg != r.id {
		return fmt.Errorf("%w: %v is not in %v", ErrInvalidField, f, r.id)
	}
	if value > f.Max() {
		return fmt.Errorf("%w: %v = %d exceeds %d bits", ErrInvalidField, f, value, s.width)
	}
	r.v[s.slot] = value
	return nil
}

// SetFlag assigns a one bit field.
func (r *Register) SetFlag(f Field, on bool) error {
	return r.Set(f, boolToBit(on))
}

// Get returns a field value. Asking for another register's field is a
// programming error.
func (r Register) Get(f Field) uint32 {
	s := fieldSpecs[f]
	if s.reg != r.id {
		panic(fmt.Sprintf("adf4351: %v is not in %v", f, r.id))
	}
	return r.v[s.slot]
}

// Flag reports whether a field is non-zero.
func (r Register) Flag(f Field) bool { return r.Get(f) != 0 }

// Pack builds the 32 bit word: the address in bits [2:0] ORed with each field
// shifted to its offset.
func (r Register) Pack() uint32 {
	word := uint32(r.id)
	for _, f := range layouts[r.id] {
		s := fieldSpecs[f]
		word |= r.v[s.slot] << s.offset
	}
	return word
}

// Unpack splits a word into the fields of register id. The word's address
// bits must name id.
func Unpack(id RegisterID, word uint32) (Register, error) {
	if id >= NumRegisters {
		return Register{}, fmt.Errorf("%w: no register %d", ErrInvalidField, uint8(id))
	}
	if RegisterID(word&addressMask) != id {
		return Register{}, fmt.Errorf("%w: word 0x%08x addresses R%d, not %v", ErrInvalidField, word, word&addressMask, id)
	}
	r := Register{id: id}
	for _, f := range layouts[id] {
		s := fieldSpecs[f]
		r.v[s.slot] = word >> s.offset & f.Max()
	}
	return r, nil
}

// UnpackWord unpacks a word into the register its address bits name.
func UnpackWord(word uint32) Register {
	r, _ := Unpack(RegisterID(word&addressMask), word)
	return r
}

func (r Register) String() string {
	return fmt.Sprintf("%v=0x%08x", r.id, r.Pack())
}

// Registers is the register file of one chip, keyed by RegisterID.
type Registers [NumRegisters]Register

// EmptyRegisters returns a register file with each address set and every
// field zero.
func EmptyRegisters() Registers {
	var regs Registers
	for id := range regs {
		regs[id] = NewRegister(RegisterID(id))
	}
	return regs
}

// DefaultRegisters returns the power-on configuration: 1GHz from a 25MHz
// reference doubled and divided by 20, output muted until lock, digital
// lock detect on the LD pin.
func DefaultRegisters() Registers {
	regs := EmptyRegisters()
	defaults := []struct {
		f Field
		v uint32
	}{
		{Integer, 1600},
		{Fractional, 0},

		{PhaseAdjust, 0},
		{Prescaler, 1}, // 8/9, 4/5 limits the VCO to 3.6GHz
		{Phase, 1},
		{Modulus, 2},

		{NoiseMode, 0}, // lowest phase noise
		{MuxOut, 7},    // SDO read-back on the 8V97051
		{RefDoubler, 1},
		{RefDivideBy2, 0},
		{RCounter, 20},
		{DoubleBuffer, 0},
		{ChargePumpCurrent, 15}, // depends on the loop filter
		{PDPolarity, 1},         // passive loop filter
		{PowerDown, 0},
		{ChargePumpThreeState, 0},
		{CounterReset, 0},

		{ClockDivider, 0},
		{BandSelectClockMode, 1},

		{FeedbackSelect, 1}, // fundamental
		{RFDividerSelect, 2},
		{BandSelectDivider, 25},
		{MuteTillLockDetect, 1},
		{RFOutputEnable, 0},
		{OutputPower, 0},

		{r5Reserved19, 3},
		{LDPinMode, 1}, // digital lock detect
	}
	for _, d := range defaults {
		r := &regs[d.f.Register()]
		if err := r.Set(d.f, d.v); err != nil {
			panic(err)
		}
	}
	return regs
}

// Words packs the first n registers.
func (regs *Registers) Words(n int) []uint32 {
	words := make([]uint32, n)
	for i := range words {
		words[i] = regs[i].Pack()
	}
	return words
}

func boolToBit(a bool) uint32 {
	if a {
		return 1
	}
	return 0
}
