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

package main

import (
	stderrors "errors"
	"io/fs"
	"log/slog"

	"github.com/kraklabs/capsule/internal/bootstrap"
	"github.com/kraklabs/capsule/internal/errors"
	"github.com/kraklabs/capsule/pkg/capsule"
)

// DefaultConfig returns the configuration 'capsule init' starts from.
//
// The defaults hold a 256-byte payload budget in a 320-byte block and
// render capsules as base62 strings, which keeps the string form inside
// printable ASCII. Alphabet, key, PRF, and normalization are left empty
// so the codec's documented defaults apply until the user chooses
// otherwise.
func DefaultConfig() *capsule.Config {
	return &capsule.Config{
		MaxInputBytes: 256,
		BlockSize:     320,
		Base:          62,
		FeistelRounds: 10,
	}
}

// mustOpenCodec loads the active configuration and constructs a codec
// from it, translating failures into user-facing errors with a fix
// suggestion. On failure it prints the error and exits without
// returning.
//
// configPath is the --config override; empty means the standard
// discovery order (./.capsule/config.yaml, then ~/.capsule/config.yaml).
func mustOpenCodec(configPath string, jsonOut bool) (*capsule.Codec, *capsule.Config, string) {
	codec, cfg, path, err := bootstrap.OpenCodec(configPath, slog.Default())
	if err == nil {
		return codec, cfg, path
	}

	switch {
	case stderrors.Is(err, bootstrap.ErrNoConfig):
		errors.FatalError(errors.NewNotFoundError(
			"No codec configuration found",
			"Searched ./.capsule/config.yaml and ~/.capsule/config.yaml",
			"Run 'capsule init' to create a configuration",
		), jsonOut)
	case stderrors.Is(err, fs.ErrPermission):
		errors.FatalError(errors.NewPermissionError(
			"Cannot read codec configuration",
			err.Error(),
			"Check the permissions on the config file",
			err,
		), jsonOut)
	default:
		errors.FatalError(errors.NewConfigError(
			"Cannot load codec configuration",
			err.Error(),
			"Fix the reported field, or run 'capsule init --force' to start over",
			err,
		), jsonOut)
	}

	// FatalError exits; this is never reached.
	return nil, nil, ""
}
