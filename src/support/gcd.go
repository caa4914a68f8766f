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

package support

/*
Gcd returns the greatest common divisor of a and b using Euclid's algorithm.

Gcd(0, 0) has no meaningful answer and panics. Callers that can see a zero
numerator (an integer-N divider, say) must handle that case before asking for
a reduction.
*/
func Gcd(a, b uint64) uint64 {
	if a == 0 && b == 0 {
		panic("support: Gcd(0, 0) is undefined")
	}
	if b > a {
		a, b = b, a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Reduce divides num and den by their common divisor.
func Reduce(num, den uint64) (uint64, uint64, uint64) {
	g := Gcd(num, den)
	return num / g, den / g, g
}
