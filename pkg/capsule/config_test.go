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

package capsule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/capsule/pkg/feistel"
)

func validConfig() Config {
	return Config{
		MaxInputBytes: 256,
		BlockSize:     320,
		Base:          16,
		FeistelRounds: 10,
	}
}

func TestConfigValidate_Valid(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	// Boundary values are still valid.
	cfg = Config{
		MaxInputBytes: 65535,
		BlockSize:     65535 + HeaderSize,
		Base:          2,
		FeistelRounds: 1,
	}
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "max input zero",
			mutate:  func(c *Config) { c.MaxInputBytes = 0 },
			wantSub: "max_input_bytes",
		},
		{
			name:    "max input beyond length field",
			mutate:  func(c *Config) { c.MaxInputBytes = 65536; c.BlockSize = 70000 },
			wantSub: "length field",
		},
		{
			name:    "block too small for header",
			mutate:  func(c *Config) { c.BlockSize = c.MaxInputBytes + HeaderSize - 1 },
			wantSub: "block_size",
		},
		{
			name:    "base one",
			mutate:  func(c *Config) { c.Base = 1 },
			wantSub: "base is 1",
		},
		{
			name:    "alphabet wrong size",
			mutate:  func(c *Config) { c.Alphabet = "abc" },
			wantSub: "alphabet has 3 symbols",
		},
		{
			name:    "alphabet duplicate rune",
			mutate:  func(c *Config) { c.Base = 4; c.Alphabet = "abca" },
			wantSub: "appears at positions",
		},
		{
			name:    "zero rounds",
			mutate:  func(c *Config) { c.FeistelRounds = 0 },
			wantSub: "feistel_rounds",
		},
		{
			name:    "key not hex",
			mutate:  func(c *Config) { c.KeyHex = "zz" },
			wantSub: "key_hex",
		},
		{
			name:    "key odd length",
			mutate:  func(c *Config) { c.KeyHex = "abc" },
			wantSub: "key_hex",
		},
		{
			name:    "unknown prf",
			mutate:  func(c *Config) { c.PRF = "md5" },
			wantSub: "prf",
		},
		{
			name:    "unknown normalization",
			mutate:  func(c *Config) { c.Normalization = "softmax" },
			wantSub: "normalization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSub)
		})
	}
}

func TestConfigValidate_ReportsAllViolations(t *testing.T) {
	cfg := Config{
		MaxInputBytes: 0,
		BlockSize:     0,
		Base:          0,
		FeistelRounds: 0,
		PRF:           "rot13",
	}
	err := cfg.Validate()
	require.Error(t, err)

	// errors.Join keeps every violation visible, not just the first.
	msg := err.Error()
	assert.Contains(t, msg, "max_input_bytes")
	assert.Contains(t, msg, "base")
	assert.Contains(t, msg, "feistel_rounds")
	assert.Contains(t, msg, "prf")
}

func TestConfigDigitCount(t *testing.T) {
	tests := []struct {
		blockSize int
		base      int
		want      int
	}{
		{320, 256, 320},
		{320, 16, 640},
		{320, 2, 2560},
		{48, 62, 65},
	}
	for _, tt := range tests {
		cfg := Config{BlockSize: tt.blockSize, Base: tt.base}
		assert.Equal(t, tt.want, cfg.DigitCount(), "block=%d base=%d", tt.blockSize, tt.base)
	}
}

func TestConfigPayloadRegionSize(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, cfg.BlockSize-HeaderSize, cfg.PayloadRegionSize())
}

func TestConfigKey(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, []byte(feistel.DefaultKey), cfg.Key(), "empty key_hex selects the default key")

	cfg.KeyHex = "00ff10"
	assert.Equal(t, []byte{0x00, 0xff, 0x10}, cfg.Key())
}

func TestConfigEffectiveDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, PRFHMACSHA256, cfg.EffectivePRF())
	assert.Equal(t, NormalizationNone, cfg.EffectiveNormalization())
	alpha := cfg.EffectiveAlphabet()
	assert.Len(t, []rune(alpha), cfg.Base)

	cfg.PRF = PRFBLAKE3
	cfg.Normalization = NormalizationUnit
	cfg.Alphabet = "0123456789abcdef"
	assert.Equal(t, PRFBLAKE3, cfg.EffectivePRF())
	assert.Equal(t, NormalizationUnit, cfg.EffectiveNormalization())
	assert.Equal(t, "0123456789abcdef", cfg.EffectiveAlphabet())
}
