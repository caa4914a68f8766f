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

import "errors"

var (
	ErrInfeasible          = errors.New("no divider/VCO combination reaches the frequency")
	ErrDividerOverflow     = errors.New("integer divider exceeds field width")
	ErrUnreducibleFraction = errors.New("fraction does not fit the modulus field")
	ErrBandSelectOverflow  = errors.New("band select divider exceeds field width")
	ErrInvalidField        = errors.New("invalid register field value")
	ErrTransport           = errors.New("bus transport fault")
	ErrNotInitialized      = errors.New("device not initialized")
)
