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
NearestFraction finds the best approximation c/d ≈ a/b such that d <= maxDenominator.

Returns c, d and the error a/b - c/d as floating point.

The method builds terms of a continued fraction until the denominator of the
convergent would be too big.

This matters whenever a divider is written as a+b/c with a bounded c. The
Si5351 that can feed the synthesizer its reference has 20 bit denominators in
both the feedback and the output multi-synth. Trimming that reference by a few
parts per billion to cancel crystal error (the reference error offset of the
synthesizer) is useless if c is pinned to 2^20-1, since neighbouring requests
collapse onto the same divider. The nearest fraction keeps each request
distinct and lands within a small fraction of a hertz at the reference.
*/
func NearestFraction(a, b, maxDenominator uint64) (c, d uint64, eps float64) {
	c, d = continuedFraction(a, b, 0, 1, maxDenominator)
	eps = float64(a)/float64(b) - float64(c)/float64(d)
	return c, d, eps
}

/*
continuedFraction finds a continued fraction approximation for a/b and returns
the rational value of that continued fraction as two integers.

The expansion is recursive. Any rational a/b can be written as

	cf(a, b) = floor(a/b) + rem(a/b) / b

and the second term inverts to

	cf(a, b) = floor(a/b) + 1 / cf(b, rem(a/b))

The convergents of this expansion are the best rational approximations for
their denominator. Recursion stops when the next denominator would exceed the
limit; to know that, two extra numbers e and f are carried down, starting at
0 and 1.
*/
func continuedFraction(a, b, e, f, maxDenominator uint64) (c, d uint64) {
	term := a / b
	denom := f + term*e
	if denom > maxDenominator {
		return 1, 0
	}
	ax := a - term*b
	// a / b = term + ax / b
	if ax == 0 {
		return term, 1
	}
	// a / b = term + 1 / cf(b, ax) = (term*cx + dx) / cx
	cx, dx := continuedFraction(b, ax, denom, e, maxDenominator)
	return term*cx + dx, cx
}
