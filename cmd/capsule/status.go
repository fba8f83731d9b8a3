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
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kraklabs/capsule/internal/output"
	"github.com/kraklabs/capsule/internal/ui"
)

// StatusResult represents the active codec configuration for JSON output.
type StatusResult struct {
	ConfigPath    string    `json:"config_path"`
	MaxInputBytes int       `json:"max_input_bytes"`
	BlockSize     int       `json:"block_size"`
	Base          int       `json:"base"`
	FeistelRounds int       `json:"feistel_rounds"`
	PRF           string    `json:"prf"`
	Normalization string    `json:"normalization"`
	CustomAlpha   bool      `json:"custom_alphabet"`
	CustomKey     bool      `json:"custom_key"`
	DigitCount    int       `json:"digit_count"`
	PayloadRegion int       `json:"payload_region_bytes"`
	Expansion     float64   `json:"expansion_ratio"`
	Timestamp     time.Time `json:"timestamp"`
}

// runStatus executes the 'status' CLI command, displaying the active codec
// configuration and the constants derived from it.
//
// Derived values answer the questions that matter when sizing a
// deployment: how many digits one block becomes, how many payload bytes
// fit, and how many output symbols each payload byte costs at capacity.
//
// Flags:
//   - --json: Output results as JSON (default: false)
//
// Examples:
//
//	capsule status           Display formatted status
//	capsule status --json    Output as JSON for programmatic use
func runStatus(args []string, configPath string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	var globals GlobalFlags
	addOutputFlags(fs, &globals)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: capsule status [options]

Shows the active codec configuration and derived constants.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.normalize()
	ui.InitColors(globals.NoColor)

	codec, cfg, path := mustOpenCodec(configPath, globals.JSON)

	result := &StatusResult{
		ConfigPath:    path,
		MaxInputBytes: cfg.MaxInputBytes,
		BlockSize:     cfg.BlockSize,
		Base:          cfg.Base,
		FeistelRounds: cfg.FeistelRounds,
		PRF:           cfg.EffectivePRF(),
		Normalization: cfg.EffectiveNormalization(),
		CustomAlpha:   cfg.Alphabet != "",
		CustomKey:     cfg.KeyHex != "",
		DigitCount:    codec.DigitCount(),
		PayloadRegion: cfg.PayloadRegionSize(),
		Expansion:     float64(codec.DigitCount()) / float64(cfg.MaxInputBytes),
		Timestamp:     time.Now(),
	}

	if globals.JSON {
		_ = output.JSON(result)
		return
	}

	printStatus(result)
}

// printStatus prints the status result as formatted text to stdout.
func printStatus(r *StatusResult) {
	ui.Header("Capsule Codec Status")

	fmt.Printf("%s %s\n", ui.Label("Config:"), ui.DimText(r.ConfigPath))
	fmt.Println()

	fmt.Println("Configuration:")
	fmt.Printf("  Max payload:     %d bytes\n", r.MaxInputBytes)
	fmt.Printf("  Block size:      %d bytes\n", r.BlockSize)
	fmt.Printf("  Base:            %d\n", r.Base)
	fmt.Printf("  Feistel rounds:  %d\n", r.FeistelRounds)
	fmt.Printf("  Round function:  %s\n", r.PRF)
	fmt.Printf("  Normalization:   %s\n", r.Normalization)
	fmt.Printf("  Alphabet:        %s\n", describeDefault(r.CustomAlpha))
	fmt.Printf("  Key:             %s\n", describeDefault(r.CustomKey))
	fmt.Println()

	fmt.Println("Derived:")
	fmt.Printf("  Digits per block:   %d\n", r.DigitCount)
	fmt.Printf("  Payload region:     %d bytes\n", r.PayloadRegion)
	fmt.Printf("  Expansion at cap:   %.2f symbols/byte\n", r.Expansion)
}

// describeDefault renders whether a field uses a custom value or the
// built-in default.
func describeDefault(custom bool) string {
	if custom {
		return "custom"
	}
	return "built-in default"
}
