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

// RegisterID names one of the chip's 32 bit registers. The id is also the
// value of bits [2:0] of every word written to that register.
type RegisterID uint8

const (
	R0 RegisterID = iota
	R1
	R2
	R3
	R4
	R5
	R6 // 8V97051 only
	R7 // 8V97051 only
)

const (
	// NumBaseRegisters is the register count of a plain ADF4351.
	NumBaseRegisters = 6
	// NumRegisters includes the 8V97051 extension and read-back registers.
	NumRegisters = 8

	addressBits = 3
	addressMask = 1<<addressBits - 1
)

func (id RegisterID) String() string {
	return fmt.Sprintf("R%d", uint8(id))
}

// Field is a named bit-field of one register.
type Field uint8

const (
	// R0
	Fractional Field = iota
	Integer
	r0Reserved31

	// R1
	Modulus
	Phase
	Prescaler // 0 = 4/5, 1 = 8/9
	PhaseAdjust
	r1Reserved29

	// R2
	CounterReset
	ChargePumpThreeState
	PowerDown
	PDPolarity
	LockDetectPrecision
	LockDetectFunction
	ChargePumpCurrent
	DoubleBuffer
	RCounter
	RefDivideBy2
	RefDoubler
	MuxOut
	NoiseMode
	r2Reserved31

	// R3
	ClockDivider
	ClockDividerMode
	r3Reserved17
	CycleSlipReduction
	r3Reserved19
	ChargeCancellation
	AntiBacklashPulse
	BandSelectClockMode
	r3Reserved24

	// R4
	OutputPower
	RFOutputEnable
	AuxOutputPower
	AuxOutputEnable
	AuxOutputSelect
	MuteTillLockDetect
	VCOPowerDown
	BandSelectDivider
	RFDividerSelect
	FeedbackSelect
	r4Reserved24

	// R5
	r5Reserved3
	r5Reserved19 // must read 0b11
	r5Reserved21
	LDPinMode
	r5Reserved24

	// R6
	ExtBandSelectDivider
	r6Reserved7
	r6Reserved8
	BandSelectAccuracy
	SDMType
	ShapeDither
	DitherGain
	SDMOrder
	RFOutAHighPower
	RFOutBHighPower
	ExtLockDetectPrecision
	r6Reserved28
	r6Reserved29
	BandSelectDone
	DigitalLock

	// R7
	ReadWrite
	ReadAddress
	SClkEdge
	ExtFracDiv
	ExtModulus
	ExtPhase
	Select16Bit
	DeviceID
	RevisionID
	r7Reserved28
	SPIError
	LossAnalogLock
	LossDigitalLock

	numFields
)

type fieldSpec struct {
	name          string
	reg           RegisterID
	offset, width uint8
	slot          uint8
}

var fieldSpecs = [numFields]fieldSpec{
	Fractional:   {name: "Fractional", reg: R0, offset: 3, width: 12},
	Integer:      {name: "Integer", reg: R0, offset: 15, width: 16},
	r0Reserved31: {name: "reserved", reg: R0, offset: 31, width: 1},

	Modulus:      {name: "Modulus", reg: R1, offset: 3, width: 12},
	Phase:        {name: "Phase", reg: R1, offset: 15, width: 12},
	Prescaler:    {name: "Prescaler", reg: R1, offset: 27, width: 1},
	PhaseAdjust:  {name: "PhaseAdjust", reg: R1, offset: 28, width: 1},
	r1Reserved29: {name: "reserved", reg: R1, offset: 29, width: 3},

	CounterReset:         {name: "CounterReset", reg: R2, offset: 3, width: 1},
	ChargePumpThreeState: {name: "ChargePumpThreeState", reg: R2, offset: 4, width: 1},
	PowerDown:            {name: "PowerDown", reg: R2, offset: 5, width: 1},
	PDPolarity:           {name: "PDPolarity", reg: R2, offset: 6, width: 1},
	LockDetectPrecision:  {name: "LockDetectPrecision", reg: R2, offset: 7, width: 1},
	LockDetectFunction:   {name: "LockDetectFunction", reg: R2, offset: 8, width: 1},
	ChargePumpCurrent:    {name: "ChargePumpCurrent", reg: R2, offset: 9, width: 4},
	DoubleBuffer:         {name: "DoubleBuffer", reg: R2, offset: 13, width: 1},
	RCounter:             {name: "RCounter", reg: R2, offset: 14, width: 10},
	RefDivideBy2:         {name: "RefDivideBy2", reg: R2, offset: 24, width: 1},
	RefDoubler:           {name: "RefDoubler", reg: R2, offset: 25, width: 1},
	MuxOut:               {name: "MuxOut", reg: R2, offset: 26, width: 3},
	NoiseMode:            {name: "NoiseMode", reg: R2, offset: 29, width: 2},
	r2Reserved31:         {name: "reserved", reg: R2, offset: 31, width: 1},

	ClockDivider:        {name: "ClockDivider", reg: R3, offset: 3, width: 12},
	ClockDividerMode:    {name: "ClockDividerMode", reg: R3, offset: 15, width: 2},
	r3Reserved17:        {name: "reserved", reg: R3, offset: 17, width: 1},
	CycleSlipReduction:  {name: "CycleSlipReduction", reg: R3, offset: 18, width: 1},
	r3Reserved19:        {name: "reserved", reg: R3, offset: 19, width: 2},
	ChargeCancellation:  {name: "ChargeCancellation", reg: R3, offset: 21, width: 1},
	AntiBacklashPulse:   {name: "AntiBacklashPulse", reg: R3, offset: 22, width: 1},
	BandSelectClockMode: {name: "BandSelectClockMode", reg: R3, offset: 23, width: 1},
	r3Reserved24:        {name: "reserved", reg: R3, offset: 24, width: 8},

	OutputPower:        {name: "OutputPower", reg: R4, offset: 3, width: 2},
	RFOutputEnable:     {name: "RFOutputEnable", reg: R4, offset: 5, width: 1},
	AuxOutputPower:     {name: "AuxOutputPower", reg: R4, offset: 6, width: 2},
	AuxOutputEnable:    {name: "AuxOutputEnable", reg: R4, offset: 8, width: 1},
	AuxOutputSelect:    {name: "AuxOutputSelect", reg: R4, offset: 9, width: 1},
	MuteTillLockDetect: {name: "MuteTillLockDetect", reg: R4, offset: 10, width: 1},
	VCOPowerDown:       {name: "VCOPowerDown", reg: R4, offset: 11, width: 1},
	BandSelectDivider:  {name: "BandSelectDivider", reg: R4, offset: 12, width: 8},
	RFDividerSelect:    {name: "RFDividerSelect", reg: R4, offset: 20, width: 3},
	FeedbackSelect:     {name: "FeedbackSelect", reg: R4, offset: 23, width: 1},
	r4Reserved24:       {name: "reserved", reg: R4, offset: 24, width: 8},

	r5Reserved3:  {name: "reserved", reg: R5, offset: 3, width: 16},
	r5Reserved19: {name: "reserved", reg: R5, offset: 19, width: 2},
	r5Reserved21: {name: "reserved", reg: R5, offset: 21, width: 1},
	LDPinMode:    {name: "LDPinMode", reg: R5, offset: 22, width: 2},
	r5Reserved24: {name: "reserved", reg: R5, offset: 24, width: 8},

	ExtBandSelectDivider:   {name: "ExtBandSelectDivider", reg: R6, offset: 3, width: 4},
	r6Reserved7:            {name: "reserved", reg: R6, offset: 7, width: 1},
	r6Reserved8:            {name: "reserved", reg: R6, offset: 8, width: 8},
	BandSelectAccuracy:     {name: "BandSelectAccuracy", reg: R6, offset: 16, width: 2},
	SDMType:                {name: "SDMType", reg: R6, offset: 18, width: 2},
	ShapeDither:            {name: "ShapeDither", reg: R6, offset: 20, width: 1},
	DitherGain:             {name: "DitherGain", reg: R6, offset: 21, width: 1},
	SDMOrder:               {name: "SDMOrder", reg: R6, offset: 22, width: 2},
	RFOutAHighPower:        {name: "RFOutAHighPower", reg: R6, offset: 24, width: 1},
	RFOutBHighPower:        {name: "RFOutBHighPower", reg: R6, offset: 25, width: 1},
	ExtLockDetectPrecision: {name: "ExtLockDetectPrecision", reg: R6, offset: 26, width: 2},
	r6Reserved28:           {name: "reserved", reg: R6, offset: 28, width: 1},
	r6Reserved29:           {name: "reserved", reg: R6, offset: 29, width: 1},
	BandSelectDone:         {name: "BandSelectDone", reg: R6, offset: 30, width: 1},
	DigitalLock:            {name: "DigitalLock", reg: R6, offset: 31, width: 1},

	ReadWrite:       {name: "ReadWrite", reg: R7, offset: 3, width: 1},
	ReadAddress:     {name: "ReadAddress", reg: R7, offset: 4, width: 3},
	SClkEdge:        {name: "SClkEdge", reg: R7, offset: 7, width: 1},
	ExtFracDiv:      {name: "ExtFracDiv", reg: R7, offset: 8, width: 4},
	ExtModulus:      {name: "ExtModulus", reg: R7, offset: 12, width: 4},
	ExtPhase:        {name: "ExtPhase", reg: R7, offset: 16, width: 4},
	Select16Bit:     {name: "Select16Bit", reg: R7, offset: 20, width: 1},
	DeviceID:        {name: "DeviceID", reg: R7, offset: 21, width: 4},
	RevisionID:      {name: "RevisionID", reg: R7, offset: 25, width: 3},
	r7Reserved28:    {name: "reserved", reg: R7, offset: 28, width: 1},
	SPIError:        {name: "SPIError", reg: R7, offset: 29, width: 1},
	LossAnalogLock:  {name: "LossAnalogLock", reg: R7, offset: 30, width: 1},
	LossDigitalLock: {name: "LossDigitalLock", reg: R7, offset: 31, width: 1},
}

// maxSlots bounds the number of fields in any one register.
const maxSlots = 16

// layouts lists the fields of each register in ascending bit order.
var layouts [NumRegisters][]Field

func init() {
	for f := Field(0); f < numFields; f++ {
		s := &fieldSpecs[f]
		s.slot = uint8(len(layouts[s.reg]))
		layouts[s.reg] = append(layouts[s.reg], f)
		if len(layouts[s.reg]) > maxSlots {
			panic("adf4351: too many fields in " + s.reg.String())
		}
	}
}

func (f Field) String() string {
	if f >= numFields {
		return fmt.Sprintf("Field(%d)", uint8(f))
	}
	s := fieldSpecs[f]
	return fmt.Sprintf("%s.%s", s.reg, s.name)
}

// Register is the register the field lives in.
func (f Field) Register() RegisterID { return fieldSpecs[f].reg }

// Offset is the position of the field's least significant bit.
func (f Field) Offset() uint8 { return fieldSpecs[f].offset }

// Width is the field size in bits.
func (f Field) Width() uint8 { return fieldSpecs[f].width }

// Max is the largest value the field can hold.
func (f Field) Max() uint32 { return uint32(1)<<fieldSpecs[f].width - 1 }

// Mask is the field's bits in position within the register word.
func (f Field) Mask() uint32 { return f.Max() << fieldSpecs[f].offset }

// Layout returns the fields of a register in ascending bit order.
func Layout(id RegisterID) []Field {
	out := make([]Field, len(layouts[id]))
	copy(out, layouts[id])
	return out
}
