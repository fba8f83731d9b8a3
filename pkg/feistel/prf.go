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

package feistel

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// PRF is the keyed round function of the permutation: a deterministic
// pseudorandom expansion of its input, exactly len(input) bytes long. The
// round number separates the streams of successive rounds. Empty input must
// yield empty output.
//
// Implementations are required to be pure; the network calls Expand with the
// same arguments during Apply and Invert and relies on identical results.
type PRF interface {
	Expand(input []byte, round uint32) []byte
}

// HMACPRF expands input with a counter-mode HMAC-SHA-256 stream: block i is
// HMAC(key, input || round || counter), both encoded as 4-byte big-endian
// words, concatenated until the stream covers the input and then truncated.
type HMACPRF struct {
	key []byte
}

// NewHMACPRF builds the default round function for the given key. Any key
// length is accepted; HMAC handles padding and hashing internally.
func NewHMACPRF(key []byte) *HMACPRF {
	return &HMACPRF{key: append([]byte(nil), key...)}
}

// Expand implements PRF.
func (p *HMACPRF) Expand(input []byte, round uint32) []byte {
	if len(input) == 0 {
		return nil
	}

	var suffix [8]byte
	binary.BigEndian.PutUint32(suffix[0:4], round)

	out := make([]byte, 0, len(input)+sha256.Size)
	for counter := uint32(0); len(out) < len(input); counter++ {
		binary.BigEndian.PutUint32(suffix[4:8], counter)

		mac := hmac.New(sha256.New, p.key)
		mac.Write(input)
		mac.Write(suffix[:])
		out = mac.Sum(out)
	}
	return out[:len(input)]
}

// blake3KeyContext separates keys derived for this round function from any
// other BLAKE3 use of the same key material.
const blake3KeyContext = "kraklabs capsule feistel round prf"

// BLAKE3PRF expands input with a keyed BLAKE3 XOF. The configured key
// material is derived down to the 32 bytes the keyed mode requires; the round
// number is appended to the hashed input the same way HMACPRF binds it.
type BLAKE3PRF struct {
	key [32]byte
}

// NewBLAKE3PRF builds a BLAKE3-backed round function from arbitrary key
// material.
func NewBLAKE3PRF(key []byte) *BLAKE3PRF {
	p := &BLAKE3PRF{}
	blake3.DeriveKey(blake3KeyContext, key, p.key[:])
	return p
}

// Expand implements PRF.
func (p *BLAKE3PRF) Expand(input []byte, round uint32) []byte {
	if len(input) == 0 {
		return nil
	}

	h, err := blake3.NewKeyed(p.key[:])
	if err != nil {
		// NewKeyed only fails on a key that is not 32 bytes, which the
		// fixed-size array rules out.
		panic("feistel: blake3.NewKeyed: " + err.Error())
	}

	var rb [4]byte
	binary.BigEndian.PutUint32(rb[:], round)
	_, _ = h.Write(input)
	_, _ = h.Write(rb[:])

	out := make([]byte, len(input))
	_, _ = h.Digest().Read(out)
	return out
}
