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

import "encoding/binary"

// HeaderSize is the fixed framing overhead at the front of every capsule
// block: a 2-byte payload length, 1 reserved flags byte and a 4-byte CRC,
// all little-endian.
const HeaderSize = 7

// Header field offsets within the block.
const (
	offLength = 0
	offFlags  = 2
	offCRC    = 3
)

// Header is the plain framing at the front of a capsule block. It sits
// outside the permuted region, so the fields of an encoded block read the
// same as those of a plain framed block.
type Header struct {
	Length uint16 // payload bytes following the header
	Flags  uint8  // reserved, always zero
	CRC    uint32 // CRC-32 (IEEE) of the payload
}

// marshal writes the header into the first HeaderSize bytes of dst, which
// must be at least HeaderSize long.
func (h Header) marshal(dst []byte) {
	binary.LittleEndian.PutUint16(dst[offLength:], h.Length)
	dst[offFlags] = h.Flags
	binary.LittleEndian.PutUint32(dst[offCRC:], h.CRC)
}

// ParseHeader reads the framing fields from the front of a block. It only
// checks that the block can hold a header; semantic validation of the fields
// against a configuration happens during Decode.
func ParseHeader(block Block) (Header, error) {
	if len(block) < HeaderSize {
		return Header{}, &InvalidBlockSizeError{Expected: HeaderSize, Actual: len(block)}
	}
	return Header{
		Length: binary.LittleEndian.Uint16(block[offLength:]),
		Flags:  block[offFlags],
		CRC:    binary.LittleEndian.Uint32(block[offCRC:]),
	}, nil
}
