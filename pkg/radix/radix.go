// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package radix converts byte strings to fixed-width digit vectors in an
// arbitrary base and back.
//
// Conversion works on digit arrays with repeated long division, treating a
// byte string as a base-256 number with the most significant digit first.
// Output width is a function of input length and base alone, so equal-length
// inputs always produce equal-length outputs and leading zeros survive the
// round trip.
package radix

import (
	"fmt"
	"math/big"
)

// RequiredDigits returns the number of base-B digits needed to represent any
// byteCount-byte value: the smallest d with base^d >= 256^byteCount.
//
// This equals ceil(byteCount * ln 256 / ln base), but it is computed with
// integer arithmetic. The floating-point form can land just above an integer
// (ln 256 / ln 16 evaluates to 2.0000000000000004 on amd64) and silently
// widen every vector by one digit, which breaks the fixed-width contract.
//
// Returns 0 when byteCount <= 0 or base < 2.
func RequiredDigits(byteCount, base int) int {
	if byteCount <= 0 || base < 2 {
		return 0
	}

	target := new(big.Int).Lsh(big.NewInt(1), uint(8*byteCount))
	b := big.NewInt(int64(base))
	pow := big.NewInt(1)

	d := 0
	for pow.Cmp(target) < 0 {
		pow.Mul(pow, b)
		d++
	}
	return d
}

// BytesToDigits converts data to a digit vector in the given base, most
// significant digit first, left-padded with zeros to exactly
// RequiredDigits(len(data), base) digits.
func BytesToDigits(data []byte, base int) ([]int, error) {
	if base < 2 {
		return nil, fmt.Errorf("convert bytes to digits: base %d, need at least 2", base)
	}

	src := make([]int, len(data))
	for i, b := range data {
		src[i] = int(b)
	}

	digits := convert(src, 256, base)
	return leftPad(digits, RequiredDigits(len(data), base)), nil
}

// DigitsToBytes converts a digit vector in the given base back to a byte
// string of exactly byteCount bytes, left-padded with zeros. It is the
// inverse of BytesToDigits for vectors produced from byteCount-byte inputs.
//
// Fails when a digit falls outside [0, base), or when the vector encodes a
// value too large for byteCount bytes (possible because base^d generally
// exceeds 256^byteCount, so not every well-formed vector maps back).
func DigitsToBytes(digits []int, base, byteCount int) ([]byte, error) {
	if base < 2 {
		return nil, fmt.Errorf("convert digits to bytes: base %d, need at least 2", base)
	}
	if byteCount < 0 {
		return nil, fmt.Errorf("convert digits to bytes: negative byte count %d", byteCount)
	}
	for i, d := range digits {
		if d < 0 || d >= base {
			return nil, fmt.Errorf("convert digits to bytes: digit %d at index %d outside base %d", d, i, base)
		}
	}

	raw := convert(digits, base, 256)
	if len(raw) > byteCount {
		return nil, fmt.Errorf("convert digits to bytes: value needs %d bytes, have room for %d", len(raw), byteCount)
	}

	out := make([]byte, byteCount)
	for i, d := range raw {
		out[byteCount-len(raw)+i] = byte(d)
	}
	return out, nil
}

// convert re-expresses a digit vector from one base in another using repeated
// long division: each pass divides the dividend by toBase, the remainder
// becomes the next output digit (least significant first) and the quotient
// becomes the next dividend. Quadratic in digit count, which is fine at the
// block sizes this codec handles.
//
// The result carries no leading zeros; an all-zero input yields an empty
// slice. Callers pad to their required width.
func convert(digits []int, fromBase, toBase int) []int {
	start := 0
	for start < len(digits) && digits[start] == 0 {
		start++
	}
	dividend := digits[start:]

	var out []int
	for len(dividend) > 0 {
		var quotient []int
		rem := 0
		for _, d := range dividend {
			acc := rem*fromBase + d
			q := acc / toBase
			rem = acc % toBase
			if len(quotient) > 0 || q != 0 {
				quotient = append(quotient, q)
			}
		}
		out = append(out, rem)
		dividend = quotient
	}

	// Collected least significant first; flip to MSD-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// leftPad prepends zeros until digits has exactly width entries. The
// conversion above never produces more than the required width, so width is
// always an upper bound.
func leftPad(digits []int, width int) []int {
	if len(digits) >= width {
		return digits
	}
	out := make([]int, width)
	copy(out[width-len(digits):], digits)
	return out
}
