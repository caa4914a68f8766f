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
	"encoding/binary"
	"fmt"

	"tinygo.org/x/drivers"
)

// Pin is an output line; machine.Pin satisfies it.
type Pin interface {
	Set(high bool)
}

// Bus moves 32 bit register frames to the chip: SPI mode 0, most significant
// bit first, one latch-enable pulse per frame.
type Bus struct {
	spi drivers.SPI
	le  Pin
	tx  [4]byte
	rx  [4]byte
}

// NewBus takes a configured SPI bus and the latch-enable line. LE idles high.
func NewBus(spi drivers.SPI, le Pin) *Bus {
	le.Set(true)
	return &Bus{spi: spi, le: le}
}

// WriteRegister shifts one word out with LE low and raises LE to load it.
func (b *Bus) WriteRegister(word uint32) error {
	_, err := b.frame(word, false)
	return err
}

// WriteAll writes words[i] to register i in descending order of i, so R0,
// which holds INT and FRAC, is loaded last and the divider update takes
// effect at once. Every word's address bits must equal its index.
func (b *Bus) WriteAll(words []uint32) error {
	if len(words) > NumRegisters {
		return fmt.Errorf("%w: %d words for %d registers", ErrInvalidField, len(words), NumRegisters)
	}
	for i, w := range words {
		if w&addressMask != uint32(i) {
			return fmt.Errorf("%w: word %d (0x%08x) addresses R%d", ErrInvalidField, i, w, w&addressMask)
		}
	}
	for i := len(words) - 1; i >= 0; i-- {
		if err := b.WriteRegister(words[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadRegister reads back a register through R7: the read request is
// latched, then a copy of R7 with the request cleared is clocked out while
// the chip shifts the requested register back. r7 is not modified.
func (b *Bus) ReadRegister(addr RegisterID, r7 Register) (Register, error) {
	if r7.ID() != R7 {
		return Register{}, fmt.Errorf("%w: read-back goes through R7, not %v", ErrInvalidField, r7.ID())
	}
	request := r7
	if err := request.Set(ReadAddress, uint32(addr)); err != nil {
		return Register{}, err
	}
	if err := request.SetFlag(ReadWrite, true); err != nil {
		return Register{}, err
	}
	if err := b.WriteRegister(request.Pack()); err != nil {
		return Register{}, err
	}

	replacement := request
	if err := replacement.SetFlag(ReadWrite, false); err != nil {
		return Register{}, err
	}
	reply, err := b.frame(replacement.Pack(), true)
	if err != nil {
		return Register{}, err
	}
	r, err := Unpack(addr, reply)
	if err != nil {
		return Register{}, fmt.Errorf("%w: read-back of %v returned 0x%08x", ErrTransport, addr, reply)
	}
	return r, nil
}

// frame does one LE-framed transfer. LE is raised again even if the
// transfer fails.
func (b *Bus) frame(word uint32, capture bool) (uint32, error) {
	binary.BigEndian.PutUint32(b.tx[:], word)
	var rx []byte
	if capture {
		rx = b.rx[:]
	}
	b.le.Set(false)
	err := b.spi.Tx(b.tx[:], rx)
	b.le.Set(true)
	if err != nil {
		return 0, fmt.Errorf("%w: writing 0x%08x: %v", ErrTransport, word, err)
	}
	if !capture {
		return 0, nil
	}
	return binary.BigEndian.Uint32(b.rx[:]), nil
}
