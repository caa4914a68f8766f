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
	"testing"
)

func Test_defaultWords(t *testing.T) {
	regs := DefaultRegisters()
	want := []uint32{0x03200000, 0x08008011, 0x1e051e42, 0x00800003, 0x00a19404, 0x00580005, 0x6, 0x7}
	got := regs.Words(NumRegisters)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("R%d = %#08x, want %#08x", i, got[i], want[i])
		}
	}
}

func Test_setRejects(t *testing.T) {
	r := NewRegister(R0)
	if err := r.Set(Integer, 65536); !errors.Is(err, ErrInvalidField) {
		t.Errorf("65536 in a 16 bit field: %v", err)
	}
	if err := r.Set(Modulus, 2); !errors.Is(err, ErrInvalidField) {
		t.Errorf("R1 field set on R0: %v", err)
	}
	if err := r.Set(numFields, 0); !errors.Is(err, ErrInvalidField) {
		t.Errorf("unknown field: %v", err)
	}
	if r.Pack() != 0 {
		t.Errorf("rejected writes changed the register: %v", r)
	}
	if err := r.Set(Integer, 65535); err != nil {
		t.Fatal(err)
	}
	if r.Pack() != 0x7fff_8000 {
		t.Errorf("R0 = %#08x", r.Pack())
	}
}

func Test_getForeignFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("reading an R2 field from R0 should panic")
		}
	}()
	NewRegister(R0).Get(RCounter)
}

func Test_unpack(t *testing.T) {
	r, err := Unpack(R2, 0x1e051fc2)
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		f    Field
		want uint32
	}{
		{RCounter, 20},
		{RefDoubler, 1},
		{RefDivideBy2, 0},
		{ChargePumpCurrent, 15},
		{MuxOut, 7},
		{LockDetectFunction, 1},
		{LockDetectPrecision, 1},
		{PDPolarity, 1},
		{PowerDown, 0},
	}
	for _, c := range checks {
		if got := r.Get(c.f); got != c.want {
			t.Errorf("%v = %d, want %d", c.f, got, c.want)
		}
	}
	if _, err := Unpack(R2, 0x1e051fc3); !errors.Is(err, ErrInvalidField) {
		t.Errorf("word for R3 unpacked as R2: %v", err)
	}
	if got := UnpackWord(0x00a14404); got.ID() != R4 || got.Get(BandSelectDivider) != 20 {
		t.Errorf("UnpackWord = %v", got)
	}
}

func Test_unpackPackRoundTrip(t *testing.T) {
	word := uint32(12345)
	for i := 0; i < 2000; i++ {
		word = word*1664525 + 1013904223
		id := RegisterID(word & addressMask)
		r, err := Unpack(id, word)
		if err != nil {
			t.Fatal(err)
		}
		if r.Pack() != word {
			t.Errorf("%#08x came back as %#08x", word, r.Pack())
		}
	}
}
