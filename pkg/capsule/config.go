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
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/kraklabs/capsule/pkg/alphabet"
	"github.com/kraklabs/capsule/pkg/feistel"
	"github.com/kraklabs/capsule/pkg/radix"
)

// Normalization modes for the energy hand-off.
const (
	NormalizationNone = "none"
	NormalizationUnit = "unit"
)

// Round function selectors.
const (
	PRFHMACSHA256 = "hmac-sha256"
	PRFBLAKE3     = "blake3"
)

// Config holds every parameter the codec pipeline depends on. The
// integrating system owns it; treat a Config as immutable once handed to
// New, because the codec precomputes derived state from it.
//
// Zero-valued optional fields select documented defaults: an empty Alphabet
// means the deterministic default for Base, an empty PRF means HMAC-SHA-256,
// an empty Normalization means none, and an empty KeyHex means the built-in
// default key.
type Config struct {
	// MaxInputBytes is the largest payload Encode accepts.
	MaxInputBytes int `yaml:"max_input_bytes"`

	// BlockSize is the fixed size of every capsule block. Must leave room
	// for the header and the largest payload.
	BlockSize int `yaml:"block_size"`

	// Base is the radix of the digit vector and the size of the alphabet.
	Base int `yaml:"base"`

	// Alphabet is the symbol set for the string form, exactly Base unique
	// runes. Empty selects the built-in default for Base.
	Alphabet string `yaml:"alphabet,omitempty"`

	// FeistelRounds is the round count of the payload permutation.
	FeistelRounds int `yaml:"feistel_rounds"`

	// KeyHex is the permutation key as a hex string. Empty selects the
	// built-in default key; malformed hex is a validation error.
	KeyHex string `yaml:"key_hex,omitempty"`

	// PRF selects the permutation round function: "hmac-sha256" or
	// "blake3".
	PRF string `yaml:"prf,omitempty"`

	// Normalization selects whether energy vectors also carry a normalized
	// (0,1) form: "none" or "unit".
	Normalization string `yaml:"normalization,omitempty"`
}

// Validate checks every field and reports all violations at once, joined
// into a single error.
//
// An empty KeyHex is allowed and selects the built-in default key, but
// malformed hex is refused here even though key derivation has a documented
// fallback: a key typo silently falling back to the default key would
// otherwise go unnoticed until blocks fail to decode elsewhere.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxInputBytes < 1 {
		errs = append(errs, fmt.Errorf("max_input_bytes is %d, need at least 1", c.MaxInputBytes))
	}
	if c.MaxInputBytes > math.MaxUint16 {
		errs = append(errs, fmt.Errorf("max_input_bytes is %d, the length field holds at most %d", c.MaxInputBytes, math.MaxUint16))
	}
	if c.BlockSize < c.MaxInputBytes+HeaderSize {
		errs = append(errs, fmt.Errorf("block_size is %d, need at least max_input_bytes+%d = %d", c.BlockSize, HeaderSize, c.MaxInputBytes+HeaderSize))
	}
	if c.Base < 2 {
		errs = append(errs, fmt.Errorf("base is %d, need at least 2", c.Base))
	}

	if c.Alphabet != "" {
		if n := len([]rune(c.Alphabet)); n != c.Base {
			errs = append(errs, fmt.Errorf("alphabet has %d symbols, base %d requires exactly %d", n, c.Base, c.Base))
		}
		if _, err := alphabet.New(c.Alphabet); err != nil {
			errs = append(errs, err)
		}
	}

	if c.FeistelRounds < 1 {
		errs = append(errs, fmt.Errorf("feistel_rounds is %d, need at least 1", c.FeistelRounds))
	}

	if c.KeyHex != "" {
		if _, err := hex.DecodeString(c.KeyHex); err != nil {
			errs = append(errs, fmt.Errorf("key_hex is not valid hex: %v", err))
		}
	}

	switch c.PRF {
	case "", PRFHMACSHA256, PRFBLAKE3:
	default:
		errs = append(errs, fmt.Errorf("prf is %q, want %q or %q", c.PRF, PRFHMACSHA256, PRFBLAKE3))
	}

	switch c.Normalization {
	case "", NormalizationNone, NormalizationUnit:
	default:
		errs = append(errs, fmt.Errorf("normalization is %q, want %q or %q", c.Normalization, NormalizationNone, NormalizationUnit))
	}

	return errors.Join(errs...)
}

// DigitCount returns the fixed width of the digit vector for one block.
func (c *Config) DigitCount() int {
	return radix.RequiredDigits(c.BlockSize, c.Base)
}

// PayloadRegionSize returns the size of the permuted payload+padding region.
func (c *Config) PayloadRegionSize() int {
	return c.BlockSize - HeaderSize
}

// Key returns the raw permutation key derived from KeyHex, falling back to
// the built-in default when KeyHex is empty.
func (c *Config) Key() []byte {
	return feistel.DeriveKey(c.KeyHex)
}

// EffectiveAlphabet returns the configured alphabet, or the deterministic
// default for Base when none is set.
func (c *Config) EffectiveAlphabet() string {
	if c.Alphabet != "" {
		return c.Alphabet
	}
	return alphabet.Default(c.Base)
}

// EffectivePRF returns the configured round function selector with the
// default applied.
func (c *Config) EffectivePRF() string {
	if c.PRF == "" {
		return PRFHMACSHA256
	}
	return c.PRF
}

// EffectiveNormalization returns the configured normalization mode with the
// default applied.
func (c *Config) EffectiveNormalization() string {
	if c.Normalization == "" {
		return NormalizationNone
	}
	return c.Normalization
}
