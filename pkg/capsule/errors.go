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
)

// ErrInputTooLong reports a payload larger than the configured maximum. It
// is returned wrapped with the offending and permitted sizes; match it with
// errors.Is.
var ErrInputTooLong = errors.New("input exceeds configured maximum")

// CrcMismatchError reports that a recovered payload does not hash to the
// checksum stored in the block header. It means the block, its digit vector
// or its string form was altered somewhere between encode and decode.
type CrcMismatchError struct {
	Expected uint32 // checksum stored in the header
	Actual   uint32 // checksum of the recovered payload
}

func (e *CrcMismatchError) Error() string {
	return fmt.Sprintf("capsule: crc mismatch: header says %08x, payload hashes to %08x", e.Expected, e.Actual)
}

// MalformedHeaderError reports framing fields that cannot have been produced
// by a well-behaved encoder: a nonzero reserved flags byte, or a payload
// length beyond the configured maximum.
type MalformedHeaderError struct {
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return "capsule: malformed header: " + e.Reason
}

// InvalidBlockSizeError reports a block whose size does not match the
// configured block size. Blocks are fixed-size by construction, so this
// always means the caller mixed configurations or truncated data.
type InvalidBlockSizeError struct {
	Expected int
	Actual   int
}

func (e *InvalidBlockSizeError) Error() string {
	return fmt.Sprintf("capsule: block is %d bytes, config requires %d", e.Actual, e.Expected)
}

// InvalidBlockStructureError reports structural faults that are neither a
// size nor a header problem: a digit vector of the wrong width or encoding
// an out-of-range value, or nonzero bytes in the padding region.
type InvalidBlockStructureError struct {
	Reason string
	Err    error // underlying cause, when one exists
}

func (e *InvalidBlockStructureError) Error() string {
	if e.Err != nil {
		return "capsule: invalid block structure: " + e.Reason + ": " + e.Err.Error()
	}
	return "capsule: invalid block structure: " + e.Reason
}

func (e *InvalidBlockStructureError) Unwrap() error {
	return e.Err
}
