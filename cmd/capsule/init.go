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
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kraklabs/capsule/internal/bootstrap"
	"github.com/kraklabs/capsule/internal/errors"
	"github.com/kraklabs/capsule/pkg/capsule"
)

// initFlags holds parsed flags for the init command.
type initFlags struct {
	force, nonInteractive bool
	maxInput, blockSize   int
	base, rounds          int
	alphabet, keyHex      string
	prf, normalization    string
}

// runInit executes the 'init' CLI command, creating a .capsule/config.yaml
// configuration file in the current directory.
//
// It starts from the built-in defaults, applies any flag overrides, and in
// interactive mode walks the user through each codec parameter. The saved
// file drives every other command until overridden with --config.
//
// Flags:
//   - --force: Overwrite existing configuration (default: false)
//   - -y: Non-interactive mode, use all defaults (default: false)
//   - --max-input: Maximum payload size in bytes
//   - --block-size: Capsule block size in bytes
//   - --base: Output radix (2..number of alphabet symbols)
//   - --alphabet: Custom symbol set for string output
//   - --rounds: Feistel round count
//   - --key-hex: Permutation key as hex (empty = built-in default)
//   - --prf: Round function (hmac-sha256, blake3)
//   - --normalization: Energy normalization (none, unit)
//
// Examples:
//
//	capsule init                       Interactive setup
//	capsule init -y                    Use all defaults
//	capsule init --base 256 -y         Byte-per-digit blocks, no prompts
//	capsule init --force               Replace the existing config
func runInit(args []string) {
	flags := parseInitFlags(args)

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot get current directory: %v\n", err)
		os.Exit(1)
	}

	configPath := bootstrap.ConfigPath(cwd)
	if _, err := os.Stat(configPath); err == nil && !flags.force {
		errors.FatalError(errors.NewConfigError(
			"Configuration already exists",
			fmt.Sprintf("%s is already present", configPath),
			"Run 'capsule init --force' to overwrite it",
			nil,
		), false)
	}

	cfg := createInitConfig(flags)
	reader := bufio.NewReader(os.Stdin)

	if !flags.nonInteractive {
		runInteractiveConfig(reader, cfg)
	}

	if err := cfg.Validate(); err != nil {
		errors.FatalError(errors.NewConfigError(
			"Invalid configuration",
			err.Error(),
			"Adjust the reported fields and rerun 'capsule init'",
			err,
		), false)
	}

	saveInitConfig(cwd, cfg, flags.force)
	printNextSteps()
}

func parseInitFlags(args []string) initFlags {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var f initFlags
	defaults := DefaultConfig()
	fs.BoolVar(&f.force, "force", false, "Overwrite existing configuration")
	fs.BoolVar(&f.nonInteractive, "y", false, "Non-interactive mode (use defaults)")
	fs.IntVar(&f.maxInput, "max-input", defaults.MaxInputBytes, "Maximum payload size in bytes")
	fs.IntVar(&f.blockSize, "block-size", defaults.BlockSize, "Capsule block size in bytes")
	fs.IntVar(&f.base, "base", defaults.Base, "Output radix for digit and string forms")
	fs.StringVar(&f.alphabet, "alphabet", "", "Custom symbol set for string output (empty = built-in)")
	fs.IntVar(&f.rounds, "rounds", defaults.FeistelRounds, "Feistel round count")
	fs.StringVar(&f.keyHex, "key-hex", "", "Permutation key as hex (empty = built-in default)")
	fs.StringVar(&f.prf, "prf", "", "Round function: hmac-sha256 or blake3 (empty = hmac-sha256)")
	fs.StringVar(&f.normalization, "normalization", "", "Energy normalization: none or unit (empty = none)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: capsule init [options]

Creates .capsule/config.yaml in the current directory.

Examples:
  capsule init                          # Interactive setup
  capsule init -y                       # Accept all defaults
  capsule init --base 256 --rounds 12 -y
  capsule init --key-hex 2b7e151628aed2a6abf7158809cf4f3c -y

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	return f
}

func createInitConfig(f initFlags) *capsule.Config {
	cfg := DefaultConfig()
	cfg.MaxInputBytes = f.maxInput
	cfg.BlockSize = f.blockSize
	cfg.Base = f.base
	cfg.FeistelRounds = f.rounds
	if f.alphabet != "" {
		cfg.Alphabet = f.alphabet
	}
	if f.keyHex != "" {
		cfg.KeyHex = f.keyHex
	}
	if f.prf != "" {
		cfg.PRF = f.prf
	}
	if f.normalization != "" {
		cfg.Normalization = f.normalization
	}
	return cfg
}

func runInteractiveConfig(reader *bufio.Reader, cfg *capsule.Config) {
	fmt.Println("Capsule Codec Configuration")
	fmt.Println("===========================")
	fmt.Println()

	cfg.MaxInputBytes = promptInt(reader, "Max payload size (bytes)", cfg.MaxInputBytes)
	cfg.BlockSize = promptInt(reader, "Block size (bytes)", cfg.BlockSize)

	fmt.Println()
	fmt.Println("The base sets how many symbols the string form uses. Bases up to 94")
	fmt.Println("stay within printable ASCII; larger bases continue into Unicode.")
	cfg.Base = promptInt(reader, "Base", cfg.Base)
	cfg.Alphabet = prompt(reader, "Alphabet (custom symbols, empty for built-in)", cfg.Alphabet)

	fmt.Println()
	cfg.FeistelRounds = promptInt(reader, "Feistel rounds", cfg.FeistelRounds)
	cfg.KeyHex = prompt(reader, "Permutation key (hex, empty for built-in default)", cfg.KeyHex)
	cfg.PRF = prompt(reader, "Round function (hmac-sha256, blake3)", cfg.EffectivePRF())
	cfg.Normalization = prompt(reader, "Energy normalization (none, unit)", cfg.EffectiveNormalization())
	fmt.Println()
}

func saveInitConfig(cwd string, cfg *capsule.Config, force bool) {
	path, err := bootstrap.InitWorkspace(cwd, cfg, force, slog.Default())
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot save configuration",
			err.Error(),
			"Check write permissions on the current directory",
			err,
		), false)
	}
	fmt.Printf("Created %s\n", path)
	addToGitignore(cwd)
}

func printNextSteps() {
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Review and edit .capsule/config.yaml if needed")
	fmt.Println("  2. Run 'echo hello | capsule encode' to produce a capsule string")
	fmt.Println("  3. Run 'capsule verify' to burn in the configuration")
}

// promptInt displays an interactive prompt for an integer value.
//
// Falls back to defaultValue when the input is empty, unparseable, or
// not positive. Range checking is left to Config.Validate so the user
// sees every violation at once.
func promptInt(reader *bufio.Reader, label string, defaultValue int) int {
	s := prompt(reader, label, strconv.Itoa(defaultValue))
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// prompt displays an interactive prompt and reads user input from stdin.
//
// If the user presses Enter without providing input, the defaultValue is returned.
// This is used during interactive configuration setup.
//
// Parameters:
//   - reader: bufio.Reader for reading from stdin
//   - label: Prompt label to display to the user
//   - defaultValue: Value to return if user presses Enter (shown in brackets)
//
// Returns the user's input or the default value if input is empty.
func prompt(reader *bufio.Reader, label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", label, defaultValue)
	} else {
		fmt.Printf("%s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}

// addToGitignore adds .capsule/ to the project's .gitignore file if not
// already present.
//
// The config file carries key_hex, so keeping it out of version control
// is the safe default. If .gitignore does not exist or cannot be
// modified, the function silently returns without error.
func addToGitignore(dir string) {
	gitignorePath := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignorePath) //nolint:gosec // G304: gitignorePath built from workspace dir
	if err != nil {
		if os.IsNotExist(err) {
			// No .gitignore, nothing to do
			return
		}
		return
	}

	// Check if .capsule/ is already ignored
	lines := strings.Split(string(content), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == ".capsule/" || line == ".capsule" || line == "/.capsule/" || line == "/.capsule" {
			return
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_WRONLY, 0600) //nolint:gosec // G304: gitignorePath built from workspace dir
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	// Add newline if file doesn't end with one
	if len(content) > 0 && content[len(content)-1] != '\n' {
		_, _ = f.WriteString("\n")
	}

	_, _ = f.WriteString("\n# Capsule codec configuration (holds key_hex)\n.capsule/\n")
	fmt.Println("Added .capsule/ to .gitignore")
}
