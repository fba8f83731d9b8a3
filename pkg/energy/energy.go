// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package energy maps capsule digit vectors onto strictly positive energy
// levels and back.
//
// A digit in [0, base-1] becomes the level digit+1 in [1, base], so every
// component of an energy vector is nonzero. Carriers that cannot represent a
// zero amplitude, or that treat zero as absence of signal, can then transport
// a capsule block as a sequence of levels. Normalize scales levels into the
// open unit interval for carriers that want floating point magnitudes;
// Denormalize rounds them back.
//
// All functions clamp out-of-range components instead of failing. Clamping
// never hides corruption: a clamped component changes the reassembled block,
// and the capsule checksum refuses it on decode.
package energy

import "math"

// FromDigits maps each digit to its energy level, digit+1. Components are
// clamped into [0, base-1] first.
func FromDigits(digits []int, base int) []int {
	energies := make([]int, len(digits))
	for i, d := range digits {
		if d < 0 {
			d = 0
		}
		if d > base-1 {
			d = base - 1
		}
		energies[i] = d + 1
	}
	return energies
}

// ToDigits maps each energy level back to its digit, level-1. Components are
// clamped into [1, base] first.
func ToDigits(energies []int, base int) []int {
	digits := make([]int, len(energies))
	for i, e := range energies {
		if e < 1 {
			e = 1
		}
		if e > base {
			e = base
		}
		digits[i] = e - 1
	}
	return digits
}

// Normalize scales energy levels into the open unit interval, level/(base+1).
// The result never touches 0 or 1 since levels live in [1, base].
func Normalize(energies []int, base int) []float64 {
	scale := float64(base + 1)
	values := make([]float64, len(energies))
	for i, e := range energies {
		values[i] = float64(e) / scale
	}
	return values
}

// Denormalize rounds unit-interval values back to integer energy levels and
// clamps them into [1, base]. It is the exact inverse of Normalize for
// unperturbed values.
func Denormalize(values []float64, base int) []int {
	scale := float64(base + 1)
	energies := make([]int, len(values))
	for i, v := range values {
		e := int(math.Round(v * scale))
		if e < 1 {
			e = 1
		}
		if e > base {
			e = base
		}
		energies[i] = e
	}
	return energies
}
