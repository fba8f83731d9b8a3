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

// Package contract provides validation constants and utilities for the
// capsule CLI.
//
// This internal package guards the CLI's file reads. Codec-level limits
// (max_input_bytes, block geometry) live in the codec config; the soft
// limit here only prevents the CLI from slurping an unexpectedly large
// file into memory before those checks can run.
//
// # Input Size Limits
//
//	// Default limit is 16 MiB
//	limit := contract.SoftLimitBytes()
//
//	// Validate a file size before reading it
//	result := contract.ValidateInputSize(int(info.Size()))
//	if !result.OK {
//	    log.Printf("Validation failed: %s", result.Message)
//	}
//
// # Configuration via Environment
//
// The soft limit can be adjusted via the CAPSULE_SOFT_LIMIT_BYTES
// environment variable:
//
//	export CAPSULE_SOFT_LIMIT_BYTES=4194304  # 4 MiB
//
// If the environment variable is not set or invalid, the default limit
// of 16 MiB (DefaultSoftLimitBytes) is used.
package contract
