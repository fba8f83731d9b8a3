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

// Package capsule provides the deterministic, reversible codec that turns
// small binary payloads into fixed-size capsule blocks and their digit,
// string and energy representations.
//
// The package is the integration point for systems that move opaque
// payloads through media that only carry symbols or bounded numeric
// signals: every representation is exactly invertible, and a CRC-32 gate
// on decode detects corruption introduced anywhere along the way.
//
// # Pipeline Overview
//
// Encoding runs in four stages, each with an exact inverse:
//
//  1. Framing: a 7-byte header (payload length, reserved flags byte,
//     CRC-32 of the payload) followed by the payload and zero padding,
//     always exactly block_size bytes.
//  2. Permutation: a keyed Feistel network diffuses the payload+padding
//     region. The header is never permuted.
//  3. Radix conversion: the block becomes a fixed-width digit vector in
//     the configured base, most significant digit first.
//  4. Mapping: digits become a printable string over the configured
//     alphabet, or shift to the energy range [1, base] for the routing
//     hand-off (see the energy package).
//
// Decoding runs the stages in reverse and refuses to return a payload on
// any size, header, checksum or padding violation.
//
// # Quick Start
//
// Build a codec from a validated configuration and round-trip a payload:
//
//	cfg := &capsule.Config{
//	    MaxInputBytes: 256,
//	    BlockSize:     320,
//	    Base:          256,
//	    FeistelRounds: 8,
//	    KeyHex:        "8e2a9d41c7f0b35d",
//	}
//
//	codec, err := capsule.New(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := codec.EncodeToString([]byte("Hello, Energetic Router!"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	raw, err := codec.DecodeFromString(s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(raw))
//
// Encode, EncodeToDigits and EncodeToString expose the pipeline at block,
// digit and string granularity; the Decode* functions are their inverses.
// Both ends of a link must share the same Config, key included, or blocks
// will fail their integrity checks.
//
// # Integrity, Not Secrecy
//
// The permutation is deterministic diffusion keyed by key_hex. It makes
// encoded forms look unstructured and makes accidental decodes under the
// wrong key fail loudly, but it is not encryption: there are no secrecy or
// authenticity guarantees, and the CRC-32 gate detects accidents, not
// adversaries. Payloads needing confidentiality must be encrypted before
// they reach Encode.
//
// # Failure Taxonomy
//
// Decode failures are typed and matchable with errors.Is and errors.As:
// ErrInputTooLong on encode, and InvalidBlockSizeError,
// MalformedHeaderError, CrcMismatchError and InvalidBlockStructureError on
// decode, each carrying the values that tripped the gate.
//
// # Metrics
//
// Prometheus counters and histograms cover encode/decode outcomes,
// failures by gate, payload sizes and durations. They register on first
// use; expose them with any promhttp handler.
package capsule
