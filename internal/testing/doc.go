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

// Package testing provides shared fixtures for capsule tests.
//
// It centralizes the codec configurations the tests agree on, so block
// layouts and encoded strings stay reproducible across packages.
//
// # Quick Start
//
// Use SetupCodec to get a ready codec with a small deterministic config:
//
//	func TestMyFeature(t *testing.T) {
//	    codec := testing.SetupCodec(t)
//
//	    raw := testing.Payload(t, 24)
//	    block := testing.MustEncode(t, codec, raw)
//
//	    // Corrupt one bit and verify the decode gates refuse it
//	    broken := testing.TamperBit(t, block, 12, 3)
//	    if _, err := codec.Decode(broken); err == nil {
//	        t.Fatal("tampered block decoded")
//	    }
//	}
//
// # Fixtures
//
//   - Config: small fast codec config (base 62, 96-byte blocks)
//   - ScenarioConfig: the documented reference config (base 256, 320-byte blocks)
//   - Payload: deterministic pseudorandom payload bytes
//   - MustEncode: encode or fail the test
//   - TamperBit: flip one bit in a copied block
//   - WriteConfigFile: marshal a config to YAML for CLI loading tests
package testing
