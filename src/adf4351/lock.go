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

// InputPin is an input line; machine.Pin satisfies it.
type InputPin interface {
	Get() bool
}

// LockMonitor reads the lock-detect line. The level is sampled once per
// call, no debouncing.
type LockMonitor struct {
	pin InputPin
}

func NewLockMonitor(pin InputPin) *LockMonitor {
	return &LockMonitor{pin: pin}
}

// IsLocked reports the instantaneous lock-detect level. A monitor with no
// pin reports unlocked.
func (m *LockMonitor) IsLocked() bool {
	if m == nil || m.pin == nil {
		return false
	}
	return m.pin.Get()
}
