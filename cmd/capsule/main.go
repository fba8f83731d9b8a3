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

// Package main implements the capsule CLI for encoding payloads into
// reversible fixed-size blocks and their printable or energy-level forms.
//
// Usage:
//
//	capsule init                   Create .capsule/config.yaml configuration
//	capsule encode [file]          Encode a payload into a capsule string
//	capsule decode [file]          Decode a capsule string back to bytes
//	capsule inspect [file]         Walk a payload through every codec stage
//	capsule verify                 Run randomized round trips against the config
//	capsule status [--json]        Show the active configuration
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// main is the entry point for the capsule CLI.
//
// It parses global flags and dispatches to command handlers.
//
// Global flags:
//   - --version: Display version information and exit
//   - --config: Path to a config file (default: ./.capsule/config.yaml,
//     then ~/.capsule/config.yaml)
//
// Commands:
//   - init: Create .capsule/config.yaml configuration
//   - encode: Encode a payload into a capsule string
//   - decode: Decode a capsule string back to the original bytes
//   - inspect: Walk a payload through every codec stage
//   - verify: Run randomized round trips against the active config
//   - status: Show the active configuration and derived values
func main() {
	// Global flags
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to config file (default: ./.capsule/config.yaml)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `capsule - Reversible Capsule Codec

capsule converts arbitrary byte payloads into fixed-size integrity-checked
blocks, and carries those blocks as printable strings or strictly positive
energy-level vectors. Every stage is exactly reversible; a CRC-32 gate
refuses blocks that were altered in transit.

The permutation layer is deterministic diffusion, not encryption. Do not
use it to protect secrets.

Usage:
  capsule <command> [options]

Commands:
  init          Create .capsule/config.yaml configuration
  encode        Encode a payload into a capsule string
  decode        Decode a capsule string back to bytes
  inspect       Walk a payload through every codec stage
  verify        Run randomized round trips against the config
  status        Show the active configuration
  completion    Generate shell completion script (bash|zsh|fish)

Global Options:
  --config      Path to config file
  --version     Show version and exit

Examples:
  capsule init                       Create configuration interactively
  capsule encode note.txt            Encode a file
  echo -n "hi" | capsule encode      Encode stdin
  capsule decode note.cap            Decode back to the original bytes
  capsule encode --format energy     Emit energy levels instead of a string
  capsule inspect note.txt           Show header, digits and energies
  capsule verify --count 1000        Burn in the active configuration
  capsule status --json              Output as JSON

Getting Started:
  1. Initialize configuration:  capsule init
  2. Encode a payload:          capsule encode <file>
  3. Decode it back:            capsule decode <file>
  4. Check the configuration:   capsule status

Configuration:
  The active config is ./.capsule/config.yaml, falling back to
  ~/.capsule/config.yaml. Override with --config.

For detailed command help: capsule <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("capsule version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	// Library packages log through slog.Default(); route it to stderr at
	// Info so stdout stays parseable.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs)
	case "encode":
		runEncode(cmdArgs, *configPath)
	case "decode":
		runDecode(cmdArgs, *configPath)
	case "inspect":
		runInspect(cmdArgs, *configPath)
	case "verify":
		runVerify(cmdArgs, *configPath)
	case "status":
		runStatus(cmdArgs, *configPath)
	case "completion":
		runCompletion(cmdArgs, *configPath)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
