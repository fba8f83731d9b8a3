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

import "hash/crc32"

// crcTable is the table-driven CRC-32 with the reflected IEEE polynomial
// 0xEDB88320, initial value and final XOR both 0xFFFFFFFF. The checksum of
// the empty payload is 0.
var crcTable = crc32.MakeTable(crc32.IEEE)

// checksum hashes a payload for the header CRC field.
func checksum(payload []byte) uint32 {
	return crc32.Checksum(payload, crcTable)
}
