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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kraklabs/capsule/pkg/alphabet"
	"github.com/kraklabs/capsule/pkg/feistel"
	"github.com/kraklabs/capsule/pkg/radix"
)

// Block is one encoded capsule: header, permuted payload and padding, always
// exactly the configured block size.
type Block []byte

// Codec is a validated, ready-to-run pipeline for one configuration. It
// precomputes the alphabet tables, the permutation network and the digit
// width at construction, so the per-call operations never re-derive state.
// Safe for concurrent use.
type Codec struct {
	cfg        Config
	alpha      *alphabet.Alphabet
	network    *feistel.Network
	digitCount int
	logger     *slog.Logger
}

// New builds a Codec from cfg, validating it first. A nil logger falls back
// to slog.Default().
func New(cfg *Config, logger *slog.Logger) (*Codec, error) {
	if cfg == nil {
		return nil, errors.New("capsule: nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("capsule: invalid config: %w", err)
	}

	alpha, err := alphabet.New(cfg.EffectiveAlphabet())
	if err != nil {
		return nil, fmt.Errorf("capsule: alphabet: %w", err)
	}

	var prf feistel.PRF
	switch cfg.EffectivePRF() {
	case PRFBLAKE3:
		prf = feistel.NewBLAKE3PRF(cfg.Key())
	default:
		prf = feistel.NewHMACPRF(cfg.Key())
	}
	network, err := feistel.NewNetwork(prf, cfg.FeistelRounds)
	if err != nil {
		return nil, fmt.Errorf("capsule: permutation: %w", err)
	}

	return &Codec{
		cfg:        *cfg,
		alpha:      alpha,
		network:    network,
		digitCount: cfg.DigitCount(),
		logger:     logger,
	}, nil
}

// Config returns a copy of the configuration the codec was built from.
func (c *Codec) Config() Config {
	return c.cfg
}

// DigitCount returns the fixed width of every digit vector this codec
// produces.
func (c *Codec) DigitCount() int {
	return c.digitCount
}

// Frame builds the plain framed block for raw without applying the
// permutation: header, payload, zero padding. Debug and visualization
// surfaces use it to show the framing layout; Encode is Frame plus the
// payload permutation.
func (c *Codec) Frame(raw []byte) (Block, error) {
	if len(raw) > c.cfg.MaxInputBytes {
		recordEncodeReject()
		return nil, fmt.Errorf("capsule: encode %d bytes, maximum is %d: %w", len(raw), c.cfg.MaxInputBytes, ErrInputTooLong)
	}

	block := make(Block, c.cfg.BlockSize)
	Header{Length: uint16(len(raw)), CRC: checksum(raw)}.marshal(block)
	copy(block[HeaderSize:], raw)
	return block, nil
}

// Encode turns raw into a capsule block: frame, then permute the
// payload+padding region. The header stays in the clear so Decode can read
// the framing before undoing the permutation. Fails with ErrInputTooLong
// when raw exceeds the configured maximum.
func (c *Codec) Encode(raw []byte) (Block, error) {
	start := time.Now()
	c.logger.Debug("codec.encode.start", "bytes", len(raw))

	block, err := c.Frame(raw)
	if err != nil {
		return nil, err
	}
	copy(block[HeaderSize:], c.network.Apply(block[HeaderSize:]))

	recordEncode(len(raw), time.Since(start).Seconds())
	c.logger.Debug("codec.encode.done",
		"bytes", len(raw),
		"block_size", len(block),
		"rounds", c.cfg.FeistelRounds,
		"prf", c.cfg.EffectivePRF())
	return block, nil
}

// Decode recovers the original payload from a capsule block: check the
// size, invert the permutation, validate the header, then gate on the
// checksum and the zero padding. On any failure the payload is withheld and
// a typed error from this package reports what went wrong.
func (c *Codec) Decode(block Block) ([]byte, error) {
	start := time.Now()
	c.logger.Debug("codec.decode.start", "block_size", len(block))

	if len(block) != c.cfg.BlockSize {
		recordDecodeSizeFailure()
		return nil, &InvalidBlockSizeError{Expected: c.cfg.BlockSize, Actual: len(block)}
	}

	plain := make(Block, c.cfg.BlockSize)
	copy(plain, block[:HeaderSize])
	copy(plain[HeaderSize:], c.network.Invert(block[HeaderSize:]))

	h, err := ParseHeader(plain)
	if err != nil {
		recordDecodeHeaderFailure()
		return nil, err
	}
	if h.Flags != 0 {
		recordDecodeHeaderFailure()
		return nil, &MalformedHeaderError{Reason: fmt.Sprintf("reserved flags byte is 0x%02x, want 0x00", h.Flags)}
	}
	if int(h.Length) > c.cfg.MaxInputBytes {
		recordDecodeHeaderFailure()
		return nil, &MalformedHeaderError{Reason: fmt.Sprintf("payload length %d exceeds configured maximum %d", h.Length, c.cfg.MaxInputBytes)}
	}

	payload := plain[HeaderSize : HeaderSize+int(h.Length)]
	if actual := checksum(payload); actual != h.CRC {
		recordDecodeCrcFailure()
		c.logger.Warn("codec.decode.crc_mismatch",
			"expected", fmt.Sprintf("%08x", h.CRC),
			"actual", fmt.Sprintf("%08x", actual))
		return nil, &CrcMismatchError{Expected: h.CRC, Actual: actual}
	}

	// The checksum only covers the payload; corruption confined to the
	// padding would otherwise decode silently.
	for i, b := range plain[HeaderSize+int(h.Length):] {
		if b != 0 {
			recordDecodeStructureFailure()
			return nil, &InvalidBlockStructureError{
				Reason: fmt.Sprintf("nonzero padding byte 0x%02x at block offset %d", b, HeaderSize+int(h.Length)+i),
			}
		}
	}

	out := append([]byte(nil), payload...)
	recordDecode(time.Since(start).Seconds())
	c.logger.Debug("codec.decode.done", "bytes", len(out))
	return out, nil
}

// EncodeToDigits encodes raw and converts the block to its fixed-width
// digit vector, DigitCount() digits in the configured base.
func (c *Codec) EncodeToDigits(raw []byte) ([]int, error) {
	block, err := c.Encode(raw)
	if err != nil {
		return nil, err
	}
	digits, err := radix.BytesToDigits(block, c.cfg.Base)
	if err != nil {
		return nil, fmt.Errorf("capsule: digit conversion: %w", err)
	}
	return digits, nil
}

// DecodeFromDigits reassembles a block from its digit vector and decodes
// it. The vector must be exactly DigitCount() digits.
func (c *Codec) DecodeFromDigits(digits []int) ([]byte, error) {
	if len(digits) != c.digitCount {
		recordDecodeStructureFailure()
		return nil, &InvalidBlockStructureError{
			Reason: fmt.Sprintf("digit vector has %d digits, config requires %d", len(digits), c.digitCount),
		}
	}
	raw, err := radix.DigitsToBytes(digits, c.cfg.Base, c.cfg.BlockSize)
	if err != nil {
		recordDecodeStructureFailure()
		return nil, &InvalidBlockStructureError{Reason: "digit vector does not reassemble into a block", Err: err}
	}
	return c.Decode(raw)
}

// EncodeToString encodes raw all the way to the printable string form over
// the configured alphabet. The string is DigitCount() runes long.
func (c *Codec) EncodeToString(raw []byte) (string, error) {
	digits, err := c.EncodeToDigits(raw)
	if err != nil {
		return "", err
	}
	s, err := c.alpha.DigitsToString(digits)
	if err != nil {
		return "", fmt.Errorf("capsule: alphabet mapping: %w", err)
	}
	return s, nil
}

// DecodeFromString maps a capsule string back through the alphabet and
// decodes it.
func (c *Codec) DecodeFromString(s string) ([]byte, error) {
	digits, err := c.alpha.StringToDigits(s)
	if err != nil {
		return nil, fmt.Errorf("capsule: alphabet mapping: %w", err)
	}
	return c.DecodeFromDigits(digits)
}
