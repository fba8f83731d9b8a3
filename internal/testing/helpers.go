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

package testing

import (
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/capsule/pkg/capsule"
)

// Config returns a small, fast codec configuration for tests.
//
// The values are fixed so encoded blocks are reproducible across runs:
// 64-byte payload cap, 96-byte blocks, base 62 with the default alphabet,
// six rounds, HMAC-SHA-256.
func Config() *capsule.Config {
	return &capsule.Config{
		MaxInputBytes: 64,
		BlockSize:     96,
		Base:          62,
		FeistelRounds: 6,
		KeyHex:        "74657374206b6579",
	}
}

// ScenarioConfig returns the reference configuration used in examples and
// documentation: base 256, 320-byte blocks, up to 256 payload bytes.
func ScenarioConfig() *capsule.Config {
	return &capsule.Config{
		MaxInputBytes: 256,
		BlockSize:     320,
		Base:          256,
		FeistelRounds: 10,
		KeyHex:        "2b7e151628aed2a6abf7158809cf4f3c",
	}
}

// SetupCodec creates a codec from Config with a discarded logger.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    codec := testing.SetupCodec(t)
//
//	    block := testing.MustEncode(t, codec, []byte("payload"))
//	    // Run your tests...
//	}
func SetupCodec(t *testing.T) *capsule.Codec {
	t.Helper()
	return SetupCodecWith(t, Config())
}

// SetupCodecWith creates a codec from an explicit configuration.
func SetupCodecWith(t *testing.T, cfg *capsule.Config) *capsule.Codec {
	t.Helper()

	codec, err := capsule.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create test codec: %v", err)
	}
	return codec
}

// Payload returns n deterministic pseudorandom bytes. The same n always
// yields the same bytes, so assertions on encoded output stay stable.
func Payload(t *testing.T, n int) []byte {
	t.Helper()

	raw := make([]byte, n)
	rng := rand.New(rand.NewSource(int64(n) + 7919))
	rng.Read(raw)
	return raw
}

// MustEncode encodes raw and fails the test on error.
func MustEncode(t *testing.T, codec *capsule.Codec, raw []byte) capsule.Block {
	t.Helper()

	block, err := codec.Encode(raw)
	if err != nil {
		t.Fatalf("failed to encode %d bytes: %v", len(raw), err)
	}
	return block
}

// TamperBit returns a copy of block with one bit flipped. The input block
// is left untouched.
func TamperBit(t *testing.T, block capsule.Block, offset int, bit uint) capsule.Block {
	t.Helper()

	if offset < 0 || offset >= len(block) {
		t.Fatalf("tamper offset %d outside block of %d bytes", offset, len(block))
	}
	if bit > 7 {
		t.Fatalf("tamper bit %d outside 0..7", bit)
	}

	tampered := append(capsule.Block(nil), block...)
	tampered[offset] ^= 1 << bit
	return tampered
}

// WriteConfigFile marshals cfg to YAML under dir and returns the file path.
// Useful for exercising the CLI config loading path.
func WriteConfigFile(t *testing.T, dir string, cfg *capsule.Config) string {
	t.Helper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}
