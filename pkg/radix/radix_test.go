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

package radix

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRequiredDigits_KnownWidths(t *testing.T) {
	tests := []struct {
		name      string
		byteCount int
		base      int
		want      int
	}{
		{"one byte base 2", 1, 2, 8},
		{"one byte base 16", 1, 16, 2},
		{"one byte base 256", 1, 256, 1},
		{"two bytes base 10", 2, 10, 5},       // 10^5 = 100000 >= 65536
		{"two bytes base 62", 2, 62, 3},       // 62^3 = 238328 >= 65536
		{"four bytes base 85", 4, 85, 5},      // classic ascii85 ratio
		{"seven bytes base 2", 7, 2, 56},      // header-sized region
		{"320 bytes base 256", 320, 256, 320}, // identity ratio
		{"320 bytes base 16", 320, 16, 640},   // exact 2x, the float trap
		{"zero bytes", 0, 10, 0},
		{"bad base", 4, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequiredDigits(tt.byteCount, tt.base); got != tt.want {
				t.Errorf("RequiredDigits(%d, %d) = %d, want %d", tt.byteCount, tt.base, got, tt.want)
			}
		})
	}
}

// TestRequiredDigits_ExactPowerBoundary pins the widths where base^d lands
// exactly on 256^n. A floating-point ceil that rounds the log ratio up by one
// ulp reports one digit too many at these boundaries.
func TestRequiredDigits_ExactPowerBoundary(t *testing.T) {
	for n := 1; n <= 64; n++ {
		if got := RequiredDigits(n, 16); got != 2*n {
			t.Errorf("RequiredDigits(%d, 16) = %d, want %d", n, got, 2*n)
		}
		if got := RequiredDigits(n, 4); got != 4*n {
			t.Errorf("RequiredDigits(%d, 4) = %d, want %d", n, got, 4*n)
		}
	}
}

func TestBytesToDigits_FixedWidth(t *testing.T) {
	// Width must depend on the length and base only, never on the value.
	for _, base := range []int{2, 10, 16, 62, 85, 256} {
		small := []byte{0, 0, 0, 1}
		large := []byte{255, 255, 255, 255}

		ds, err := BytesToDigits(small, base)
		if err != nil {
			t.Fatalf("BytesToDigits(small, %d): %v", base, err)
		}
		dl, err := BytesToDigits(large, base)
		if err != nil {
			t.Fatalf("BytesToDigits(large, %d): %v", base, err)
		}

		want := RequiredDigits(4, base)
		if len(ds) != want || len(dl) != want {
			t.Errorf("base %d: widths %d and %d, want both %d", base, len(ds), len(dl), want)
		}
	}
}

func TestBytesToDigits_AllZeros(t *testing.T) {
	digits, err := BytesToDigits(make([]byte, 16), 62)
	if err != nil {
		t.Fatalf("BytesToDigits: %v", err)
	}
	if len(digits) != RequiredDigits(16, 62) {
		t.Fatalf("width %d, want %d", len(digits), RequiredDigits(16, 62))
	}
	for i, d := range digits {
		if d != 0 {
			t.Errorf("digit %d at index %d, want all zeros", d, i)
		}
	}
}

func TestBytesToDigits_KnownValue(t *testing.T) {
	// 0x0102 = 258 = [2, 5, 8] in base 10, padded to width 5.
	digits, err := BytesToDigits([]byte{0x01, 0x02}, 10)
	if err != nil {
		t.Fatalf("BytesToDigits: %v", err)
	}
	want := []int{0, 0, 2, 5, 8}
	if len(digits) != len(want) {
		t.Fatalf("got %v, want %v", digits, want)
	}
	for i := range want {
		if digits[i] != want[i] {
			t.Fatalf("got %v, want %v", digits, want)
		}
	}
}

func TestRoundTrip_AcrossBases(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, base := range []int{2, 3, 10, 16, 62, 85, 94, 256, 1000} {
		for _, size := range []int{0, 1, 2, 7, 32, 320} {
			data := make([]byte, size)
			rng.Read(data)
			// Force leading zeros into some inputs.
			if size > 2 {
				data[0] = 0
				data[1] = 0
			}

			digits, err := BytesToDigits(data, base)
			if err != nil {
				t.Fatalf("BytesToDigits(size=%d, base=%d): %v", size, base, err)
			}
			back, err := DigitsToBytes(digits, base, size)
			if err != nil {
				t.Fatalf("DigitsToBytes(size=%d, base=%d): %v", size, base, err)
			}
			if !bytes.Equal(back, data) {
				t.Errorf("round trip mismatch at size=%d base=%d", size, base)
			}
		}
	}
}

func TestBytesToDigits_BadBase(t *testing.T) {
	if _, err := BytesToDigits([]byte{1}, 1); err == nil {
		t.Error("BytesToDigits should reject base 1")
	}
	if _, err := BytesToDigits([]byte{1}, 0); err == nil {
		t.Error("BytesToDigits should reject base 0")
	}
}

func TestDigitsToBytes_Validation(t *testing.T) {
	tests := []struct {
		name      string
		digits    []int
		base      int
		byteCount int
	}{
		{"digit at base", []int{10}, 10, 4},
		{"negative digit", []int{-1}, 10, 4},
		{"bad base", []int{0}, 1, 4},
		{"negative byte count", []int{0}, 10, -1},
		{"value too large", []int{9, 9, 9}, 10, 1}, // 999 > 255
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DigitsToBytes(tt.digits, tt.base, tt.byteCount); err == nil {
				t.Errorf("DigitsToBytes(%v, %d, %d) should fail", tt.digits, tt.base, tt.byteCount)
			}
		})
	}
}

func TestDigitsToBytes_Empty(t *testing.T) {
	out, err := DigitsToBytes(nil, 10, 0)
	if err != nil {
		t.Fatalf("DigitsToBytes: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d bytes, want 0", len(out))
	}
}

func BenchmarkBytesToDigits_Base256(b *testing.B) {
	data := make([]byte, 320)
	rand.New(rand.NewSource(1)).Read(data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = BytesToDigits(data, 256)
	}
}

func BenchmarkBytesToDigits_Base62(b *testing.B) {
	data := make([]byte, 320)
	rand.New(rand.NewSource(1)).Read(data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = BytesToDigits(data, 62)
	}
}
