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
	"errors"
	"fmt"
	"testing"

	"adf4351/src/adf4351/sim"
)

// wire records the LE level and SPI bytes in order.
type wire struct {
	events []string
	err    error
}

func (w *wire) Set(high bool) {
	if high {
		w.events = append(w.events, "LE+")
	} else {
		w.events = append(w.events, "LE-")
	}
}

func (w *wire) Tx(tx, rx []byte) error {
	w.events = append(w.events, fmt.Sprintf("% x", tx))
	return w.err
}

func (w *wire) Transfer(b byte) (byte, error) {
	w.events = append(w.events, fmt.Sprintf("%02x", b))
	return 0, w.err
}

func Test_writeAllOrder(t *testing.T) {
	w := &wire{}
	b := NewBus(w, w)
	if err := b.WriteAll([]uint32{0x03200000, 0x08008011, 0x1e051fc2}); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"LE+",
		"LE-", "1e 05 1f c2", "LE+",
		"LE-", "08 00 80 11", "LE+",
		"LE-", "03 20 00 00", "LE+",
	}
	if fmt.Sprint(w.events) != fmt.Sprint(want) {
		t.Errorf("got %q\nwant %q", w.events, want)
	}
}

func Test_writeAllChecksAddresses(t *testing.T) {
	w := &wire{}
	b := NewBus(w, w)
	if err := b.WriteAll([]uint32{0x03200000, 0x1e051fc2}); !errors.Is(err, ErrInvalidField) {
		t.Errorf("misaddressed word accepted: %v", err)
	}
	if err := b.WriteAll(make([]uint32, 9)); !errors.Is(err, ErrInvalidField) {
		t.Errorf("nine words accepted: %v", err)
	}
	if len(w.events) != 1 {
		t.Errorf("rejected writes reached the bus: %q", w.events)
	}
}

func Test_transportFault(t *testing.T) {
	w := &wire{err: errors.New("bus stuck")}
	b := NewBus(w, w)
	err := b.WriteAll([]uint32{0x03200000, 0x08008011})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("got %v", err)
	}
	// first frame aborts, LE ends high
	want := []string{"LE+", "LE-", "08 00 80 11", "LE+"}
	if fmt.Sprint(w.events) != fmt.Sprint(want) {
		t.Errorf("got %q", w.events)
	}
}

func Test_readBack(t *testing.T) {
	chip := sim.New()
	b := NewBus(chip, chip.LatchEnable())
	if err := b.WriteRegister(0x00a14404); err != nil {
		t.Fatal(err)
	}
	r, err := b.ReadRegister(R4, NewRegister(R7))
	if err != nil {
		t.Fatal(err)
	}
	if r.Pack() != 0x00a14404 {
		t.Errorf("read %v", r)
	}
	frames := chip.Frames()
	if len(frames) != 3 || frames[1] != 0x4f || frames[2] != 0x47 {
		t.Errorf("frames %#x", frames)
	}
	if _, err := b.ReadRegister(R4, NewRegister(R6)); !errors.Is(err, ErrInvalidField) {
		t.Errorf("read through R6: %v", err)
	}
}
