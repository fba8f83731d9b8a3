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

import "encoding/hex"

// DefaultKey is the key material used when no usable key is configured. It
// keeps zero-config embedding deterministic and round-trippable, at the cost
// of every such deployment sharing one permutation.
const DefaultKey = "energetic-router-default-key"

// DeriveKey turns a hex key string into raw key bytes. An empty or malformed
// string falls back to DefaultKey.
//
// The silent fallback on malformed hex is easy to hit with a key typo, so
// configuration validation refuses bad hex before it ever reaches this
// function; the fallback here only serves callers that deliberately pass an
// empty string.
func DeriveKey(keyHex string) []byte {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) == 0 {
		return []byte(DefaultKey)
	}
	return key
}
