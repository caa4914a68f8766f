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

//go:build rp2040

package main

import (
	_ "embed"
	"fmt"
	"time"

	"adf4351/src/adf4351"
	"adf4351/src/board"
	"adf4351/src/config"
)

//go:embed board.yaml
var boardFile []byte

func main() {
	// give the USB console time to attach
	time.Sleep(2 * time.Second)

	c, err := config.Parse(boardFile)
	if err != nil {
		panic("bad board file: " + err.Error())
	}
	dev, err := board.Open(c)
	if err != nil {
		panic("failed setup: " + err.Error())
	}
	if err := dev.Init(); err != nil {
		panic("failed init: " + err.Error())
	}
	if err := dev.SetPower(c.PowerIndex()); err != nil {
		fmt.Printf("ERROR = %v\n", err)
	}
	if err := dev.SetOutputEnabled(c.OutputEnabled); err != nil {
		fmt.Printf("ERROR = %v\n", err)
	}
	fmt.Printf("setup complete %v\n", dev.Plan())
	for i, w := range dev.ExportRegisters() {
		fmt.Printf("   %v = 0x%08x\n", adf4351.RegisterID(i), w)
	}

	ticker := time.NewTicker(2 * time.Second)
	locked := false
	for range ticker.C {
		if l := dev.IsLocked(); l != locked {
			fmt.Printf("locked = %v, f = %.3f MHz\n", l, dev.Plan().Actual()/1e6)
			locked = l
		}
		for d, ok := dev.Diagnostics().Pop(); ok; d, ok = dev.Diagnostics().Pop() {
			fmt.Printf("ERROR = %v\n", d)
		}
	}
}
