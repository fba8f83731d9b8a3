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

package alphabet

import (
	"errors"
	"testing"
	"unicode/utf8"
)

func TestNew_RejectsEmpty(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("New should reject an empty symbol set")
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		symbols string
	}{
		{"ascii duplicate", "abca"},
		{"unicode duplicate", "αβγα"},
		{"adjacent duplicate", "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.symbols); err == nil {
				t.Errorf("New(%q) should reject duplicate symbols", tt.symbols)
			}
		})
	}
}

func TestRoundTrip_ASCII(t *testing.T) {
	a, err := New("0123456789abcdef")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	digits := []int{0, 15, 1, 14, 7, 7, 0, 0}
	s, err := a.DigitsToString(digits)
	if err != nil {
		t.Fatalf("DigitsToString: %v", err)
	}
	if s != "0f1e7700" {
		t.Errorf("got %q, want %q", s, "0f1e7700")
	}

	back, err := a.StringToDigits(s)
	if err != nil {
		t.Fatalf("StringToDigits: %v", err)
	}
	if len(back) != len(digits) {
		t.Fatalf("got %d digits, want %d", len(back), len(digits))
	}
	for i := range digits {
		if back[i] != digits[i] {
			t.Errorf("digit %d: got %d, want %d", i, back[i], digits[i])
		}
	}
}

func TestRoundTrip_MultibyteRunes(t *testing.T) {
	// Rune indexing must survive symbols that occupy several bytes in UTF-8.
	a, err := New(Default(256))
	if err != nil {
		t.Fatalf("New(Default(256)): %v", err)
	}

	digits := []int{0, 93, 94, 95, 200, 255}
	s, err := a.DigitsToString(digits)
	if err != nil {
		t.Fatalf("DigitsToString: %v", err)
	}

	// String length in runes equals the digit count; byte length is larger.
	if utf8.RuneCountInString(s) != len(digits) {
		t.Errorf("rune count %d, want %d", utf8.RuneCountInString(s), len(digits))
	}
	if len(s) <= len(digits) {
		t.Errorf("byte length %d should exceed digit count %d for non-ASCII symbols", len(s), len(digits))
	}

	back, err := a.StringToDigits(s)
	if err != nil {
		t.Fatalf("StringToDigits: %v", err)
	}
	for i := range digits {
		if back[i] != digits[i] {
			t.Errorf("digit %d: got %d, want %d", i, back[i], digits[i])
		}
	}
}

func TestDigitsToString_DigitRange(t *testing.T) {
	a, err := New("abc")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, d := range []int{-1, 3, 100} {
		if _, err := a.DigitsToString([]int{0, d}); !errors.Is(err, ErrDigitRange) {
			t.Errorf("DigitsToString with digit %d: got %v, want ErrDigitRange", d, err)
		}
	}
}

func TestStringToDigits_UnknownRune(t *testing.T) {
	a, err := New("abc")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := a.StringToDigits("abz"); !errors.Is(err, ErrUnknownRune) {
		t.Errorf("got %v, want ErrUnknownRune", err)
	}
}

func TestStringToDigits_Empty(t *testing.T) {
	a, err := New("abc")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	digits, err := a.StringToDigits("")
	if err != nil {
		t.Fatalf("StringToDigits: %v", err)
	}
	if len(digits) != 0 {
		t.Errorf("got %d digits, want 0", len(digits))
	}
}

func TestDefault_Properties(t *testing.T) {
	for _, base := range []int{2, 10, 62, 94, 95, 256, 1000} {
		s := Default(base)
		runes := []rune(s)

		if len(runes) != base {
			t.Errorf("Default(%d): %d symbols, want %d", base, len(runes), base)
		}

		seen := make(map[rune]bool, len(runes))
		for _, r := range runes {
			if seen[r] {
				t.Errorf("Default(%d): duplicate symbol %q", base, r)
			}
			seen[r] = true
		}

		// The first 94 symbols stay inside printable ASCII.
		for i, r := range runes {
			if i < 94 && (r < '!' || r > '~') {
				t.Errorf("Default(%d): symbol %d is %q, want printable ASCII", base, i, r)
			}
		}
	}
}

func TestDefault_FeedsNew(t *testing.T) {
	for _, base := range []int{2, 62, 256} {
		if _, err := New(Default(base)); err != nil {
			t.Errorf("New(Default(%d)): %v", base, err)
		}
	}
}
