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

package energy

import (
	"fmt"

	"github.com/kraklabs/capsule/pkg/capsule"
	"github.com/kraklabs/capsule/pkg/radix"
)

// Vector is the energy-domain form of one encoded capsule block.
type Vector struct {
	// Block is the permuted block the energies were derived from.
	Block capsule.Block

	// Energies holds one level in [1, base] per digit of the block.
	Energies []int

	// Normalized holds the unit-interval projection of Energies. It is nil
	// unless the codec config asks for unit normalization.
	Normalized []float64
}

// Make encodes raw into a capsule block and lifts it into the energy domain.
func Make(codec *capsule.Codec, raw []byte) (*Vector, error) {
	cfg := codec.Config()

	block, err := codec.Encode(raw)
	if err != nil {
		return nil, err
	}

	digits, err := radix.BytesToDigits(block, cfg.Base)
	if err != nil {
		return nil, fmt.Errorf("digit expansion: %w", err)
	}

	v := &Vector{
		Block:    block,
		Energies: FromDigits(digits, cfg.Base),
	}
	if cfg.EffectiveNormalization() == capsule.NormalizationUnit {
		v.Normalized = Normalize(v.Energies, cfg.Base)
	}
	return v, nil
}

// Recover rebuilds the original payload from an energy vector. Out-of-range
// levels are clamped, not rejected; any component that was actually altered
// in transit surfaces as a checksum or structure error from the codec.
func Recover(codec *capsule.Codec, energies []int) ([]byte, error) {
	return codec.DecodeFromDigits(ToDigits(energies, codec.Config().Base))
}

// RecoverNormalized rebuilds the original payload from unit-interval values
// produced by Normalize.
func RecoverNormalized(codec *capsule.Codec, values []float64) ([]byte, error) {
	return Recover(codec, Denormalize(values, codec.Config().Base))
}
