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

// Package bootstrap handles capsule workspace initialization and codec setup.
//
// This internal package owns the configuration file lifecycle for the CLI:
// where the file lives, how it is found, and how a validated codec is
// constructed from it. Commands stay thin by delegating here.
//
// # Initialization Workflow
//
// A typical workflow for setting up a new workspace:
//
//	// Write .capsule/config.yaml (refuses to overwrite without force)
//	path, err := bootstrap.InitWorkspace(".", cfg, false, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Config written to: %s\n", path)
//
//	// Later, open a codec from the active config
//	codec, cfg, path, err := bootstrap.OpenCodec("", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Discovery
//
// FindConfig resolves the active configuration in order:
//
//  1. An explicit --config path (missing file is an error)
//  2. ./.capsule/config.yaml in the working directory
//  3. ~/.capsule/config.yaml as the per-user fallback
//
// When none exists it returns ErrNoConfig, which commands surface as a
// "run 'capsule init'" hint.
//
// # File Format
//
// The configuration is YAML, one file per workspace. SaveConfig writes it
// with mode 0600 because key_hex is stored inline.
package bootstrap
