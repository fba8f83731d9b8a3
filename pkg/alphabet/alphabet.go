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

// Package alphabet maps digit vectors to printable strings over a custom
// symbol set and back.
//
// Symbols are runes, not bytes: alphabets larger than the printable ASCII
// range are expected, and digit values index rune positions. Both directions
// are exact inverses over the alphabet's domain.
package alphabet

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Mapping failures, matchable with errors.Is. Both carry positional context
// when returned.
var (
	ErrDigitRange  = errors.New("digit outside alphabet range")
	ErrUnknownRune = errors.New("rune not in alphabet")
)

// Alphabet is an immutable, validated symbol set with a precomputed inverse
// index. Construct with New; the zero value is not usable.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// New builds an Alphabet from symbols. Every rune must be unique; an
// alphabet of size N maps exactly the digits [0, N).
func New(symbols string) (*Alphabet, error) {
	runes := []rune(symbols)
	if len(runes) == 0 {
		return nil, errors.New("alphabet: empty symbol set")
	}

	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		if prev, dup := index[r]; dup {
			return nil, fmt.Errorf("alphabet: symbol %q appears at positions %d and %d", r, prev, i)
		}
		index[r] = i
	}

	return &Alphabet{symbols: runes, index: index}, nil
}

// Size returns the number of symbols, which is the base this alphabet can
// represent.
func (a *Alphabet) Size() int {
	return len(a.symbols)
}

// DigitsToString maps each digit to its symbol. Fails on any digit outside
// [0, Size()).
func (a *Alphabet) DigitsToString(digits []int) (string, error) {
	var b strings.Builder
	b.Grow(len(digits))

	for i, d := range digits {
		if d < 0 || d >= len(a.symbols) {
			return "", fmt.Errorf("map digit %d at index %d with %d symbols: %w", d, i, len(a.symbols), ErrDigitRange)
		}
		b.WriteRune(a.symbols[d])
	}
	return b.String(), nil
}

// StringToDigits maps each rune of s back to its digit value. Fails on any
// rune that is not in the alphabet.
func (a *Alphabet) StringToDigits(s string) ([]int, error) {
	digits := make([]int, 0, len(s))

	pos := 0
	for _, r := range s {
		d, ok := a.index[r]
		if !ok {
			return nil, fmt.Errorf("map symbol %q at position %d: %w", r, pos, ErrUnknownRune)
		}
		digits = append(digits, d)
		pos++
	}
	return digits, nil
}

// Default returns a deterministic alphabet of exactly base unique printable
// symbols: the 94 printable ASCII characters '!' through '~', continued with
// consecutive runes from U+0100 (Latin Extended-A) for larger bases.
// Surrogate code points are skipped, so the result is always valid UTF-8.
func Default(base int) string {
	if base <= 0 {
		return ""
	}

	out := make([]rune, 0, base)
	for r := rune('!'); r <= '~' && len(out) < base; r++ {
		out = append(out, r)
	}
	for r := rune(0x0100); len(out) < base; r++ {
		if utf8.ValidRune(r) {
			out = append(out, r)
		}
	}
	return string(out)
}
