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

// Package feistel implements the keyed, invertible byte permutation applied
// to capsule payload regions.
//
// The network is an unbalanced Feistel construction: the region splits into
// two halves, and each round XORs one half with a keyed pseudorandom
// expansion of the other, then swaps them. Any number of rounds is exactly
// invertible by running them in reverse, regardless of region length.
//
// This is deterministic diffusion, not encryption. The permutation spreads
// payload bits across the region so downstream representations look
// unstructured, but it carries no secrecy or authenticity claims; integrity
// comes from the capsule checksum, and confidentiality is out of scope.
package feistel

import "errors"

// Network is an unbalanced Feistel permutation with a fixed round count and
// round function. Safe for concurrent use as long as the PRF is.
type Network struct {
	prf    PRF
	rounds int
}

// NewNetwork builds a permutation from a round function and a round count of
// at least 1.
func NewNetwork(prf PRF, rounds int) (*Network, error) {
	if prf == nil {
		return nil, errors.New("feistel: nil PRF")
	}
	if rounds < 1 {
		return nil, errors.New("feistel: round count must be at least 1")
	}
	return &Network{prf: prf, rounds: rounds}, nil
}

// Rounds returns the configured round count.
func (n *Network) Rounds() int {
	return n.rounds
}

// Apply permutes region and returns the result as a new slice of the same
// length. The input is never modified. Regions shorter than two bytes have
// no halves to mix and pass through unchanged.
//
// The split is left = region[:len/2], right = the rest; the right half takes
// the extra byte of odd-length regions. Each round expands the right half
// through the PRF, XORs the expansion cyclically across the left half, and
// swaps, so the half sizes alternate from round to round.
func (n *Network) Apply(region []byte) []byte {
	if len(region) < 2 {
		return append([]byte(nil), region...)
	}

	left := append([]byte(nil), region[:len(region)/2]...)
	right := append([]byte(nil), region[len(region)/2:]...)

	for r := 0; r < n.rounds; r++ {
		f := n.prf.Expand(right, uint32(r))
		next := make([]byte, len(left))
		xorCycle(next, left, f)
		left, right = right, next
	}
	return append(left, right...)
}

// Invert reverses Apply for the same network: Invert(Apply(region)) always
// equals region. The input is never modified.
func (n *Network) Invert(region []byte) []byte {
	if len(region) < 2 {
		return append([]byte(nil), region...)
	}

	// Half sizes alternate each round, so the final split point depends on
	// round parity: an even count restores the original (u, v) layout, an
	// odd count leaves them swapped.
	u := len(region) / 2
	v := len(region) - u
	finalLeft := u
	if n.rounds%2 == 1 {
		finalLeft = v
	}

	left := append([]byte(nil), region[:finalLeft]...)
	right := append([]byte(nil), region[finalLeft:]...)

	for r := n.rounds - 1; r >= 0; r-- {
		// Forward round r mapped (L, R) to (R, L xor expand(R)); here left
		// holds that round's R, so expanding it recovers the previous L.
		f := n.prf.Expand(left, uint32(r))
		prev := make([]byte, len(right))
		xorCycle(prev, right, f)
		left, right = prev, left
	}
	return append(left, right...)
}

// xorCycle writes src XOR f into dst, cycling f when it is shorter than src.
// An empty f copies src unchanged, which keeps a degenerate round a no-op
// instead of a division by zero.
func xorCycle(dst, src, f []byte) {
	if len(f) == 0 {
		copy(dst, src)
		return
	}
	for i := range src {
		dst[i] = src[i] ^ f[i%len(f)]
	}
}
