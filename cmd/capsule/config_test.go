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

package main

import (
	"bufio"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() does not validate: %v", err)
	}
	if cfg.MaxInputBytes != 256 {
		t.Errorf("MaxInputBytes = %d, want 256", cfg.MaxInputBytes)
	}
	if cfg.BlockSize != 320 {
		t.Errorf("BlockSize = %d, want 320", cfg.BlockSize)
	}
	if cfg.Base != 62 {
		t.Errorf("Base = %d, want 62", cfg.Base)
	}
	if cfg.FeistelRounds != 10 {
		t.Errorf("FeistelRounds = %d, want 10", cfg.FeistelRounds)
	}

	// Optional fields stay empty so the codec defaults apply.
	if cfg.Alphabet != "" || cfg.KeyHex != "" || cfg.PRF != "" || cfg.Normalization != "" {
		t.Errorf("optional fields should be empty, got %+v", cfg)
	}

	// Below base 256 each byte costs more than one digit.
	if cfg.DigitCount() <= cfg.BlockSize {
		t.Errorf("DigitCount() = %d, want more than BlockSize %d for base %d",
			cfg.DigitCount(), cfg.BlockSize, cfg.Base)
	}
}

func TestParseInitFlags(t *testing.T) {
	t.Run("defaults match DefaultConfig", func(t *testing.T) {
		f := parseInitFlags(nil)
		d := DefaultConfig()

		if f.maxInput != d.MaxInputBytes || f.blockSize != d.BlockSize || f.base != d.Base || f.rounds != d.FeistelRounds {
			t.Errorf("flag defaults %+v do not match DefaultConfig %+v", f, d)
		}
		if f.force || f.nonInteractive {
			t.Error("force and -y should default to false")
		}
	})

	t.Run("overrides are applied", func(t *testing.T) {
		f := parseInitFlags([]string{
			"--base", "256",
			"--block-size", "96",
			"--max-input", "64",
			"--rounds", "8",
			"--key-hex", "00ff10",
			"--prf", "blake3",
			"--normalization", "unit",
			"-y",
		})

		cfg := createInitConfig(f)
		if cfg.Base != 256 || cfg.BlockSize != 96 || cfg.MaxInputBytes != 64 || cfg.FeistelRounds != 8 {
			t.Errorf("numeric overrides not applied: %+v", cfg)
		}
		if cfg.KeyHex != "00ff10" {
			t.Errorf("KeyHex = %q, want 00ff10", cfg.KeyHex)
		}
		if cfg.PRF != "blake3" {
			t.Errorf("PRF = %q, want blake3", cfg.PRF)
		}
		if cfg.Normalization != "unit" {
			t.Errorf("Normalization = %q, want unit", cfg.Normalization)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("overridden config does not validate: %v", err)
		}
		if !f.nonInteractive {
			t.Error("-y was not parsed")
		}
	})

	t.Run("empty optional flags leave codec defaults", func(t *testing.T) {
		cfg := createInitConfig(parseInitFlags(nil))
		if cfg.Alphabet != "" || cfg.KeyHex != "" || cfg.PRF != "" || cfg.Normalization != "" {
			t.Errorf("optional fields should stay empty, got %+v", cfg)
		}
	})
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultValue string
		expected     string
	}{
		{"empty input returns default", "\n", "fallback", "fallback"},
		{"input overrides default", "custom\n", "fallback", "custom"},
		{"whitespace is trimmed", "  spaced  \n", "fallback", "spaced"},
		{"empty input with empty default", "\n", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := bufio.NewReader(strings.NewReader(tt.input))
			got := prompt(reader, "Value", tt.defaultValue)
			if got != tt.expected {
				t.Errorf("prompt() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPromptInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback int
		expected int
	}{
		{"empty input returns default", "\n", 42, 42},
		{"valid number is parsed", "64\n", 42, 64},
		{"garbage returns default", "abc\n", 42, 42},
		{"negative returns default", "-3\n", 42, 42},
		{"zero returns default", "0\n", 42, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := bufio.NewReader(strings.NewReader(tt.input))
			got := promptInt(reader, "Value", tt.fallback)
			if got != tt.expected {
				t.Errorf("promptInt() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestDescribeDefault(t *testing.T) {
	if got := describeDefault(true); got != "custom" {
		t.Errorf("describeDefault(true) = %q, want custom", got)
	}
	if got := describeDefault(false); got != "built-in default" {
		t.Errorf("describeDefault(false) = %q, want built-in default", got)
	}
}

func TestGlobalFlagsNormalize(t *testing.T) {
	g := GlobalFlags{JSON: true}
	g.normalize()
	if !g.Quiet {
		t.Error("JSON output should imply quiet")
	}

	g = GlobalFlags{}
	g.normalize()
	if g.Quiet {
		t.Error("normalize() should not set quiet without JSON")
	}
}
