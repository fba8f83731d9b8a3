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
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kraklabs/capsule/internal/contract"
	"github.com/kraklabs/capsule/internal/errors"
	"github.com/kraklabs/capsule/internal/output"
	"github.com/kraklabs/capsule/pkg/capsule"
	"github.com/kraklabs/capsule/pkg/energy"
)

// Output formats for encode and decode.
const (
	formatString = "string"
	formatDigits = "digits"
	formatEnergy = "energy"
)

// EncodeResult represents one encoded payload for JSON output.
type EncodeResult struct {
	Format     string    `json:"format"`
	InputBytes int       `json:"input_bytes"`
	BlockSize  int       `json:"block_size"`
	Base       int       `json:"base"`
	DigitCount int       `json:"digit_count"`
	Encoded    string    `json:"encoded,omitempty"`
	Digits     []int     `json:"digits,omitempty"`
	Energies   []int     `json:"energies,omitempty"`
	Normalized []float64 `json:"normalized,omitempty"`
}

// runEncode executes the 'encode' CLI command, turning a raw payload into
// its capsule form.
//
// The payload is read from the file argument, or from stdin when no file
// is given. Output goes to stdout: the capsule string by default, or a
// space-separated digit or energy vector with --format.
//
// Flags:
//   - --format: Output form: string, digits, or energy (default: string)
//   - --json: Emit a JSON envelope with the block geometry
//
// Examples:
//
//	echo -n "hello" | capsule encode        Capsule string on stdout
//	capsule encode payload.bin              Encode a file
//	capsule encode --format energy          Energy levels for the router
func runEncode(args []string, configPath string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var globals GlobalFlags
	format := fs.String("format", formatString, "Output format: string, digits, or energy")
	addOutputFlags(fs, &globals)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: capsule encode [options] [file]

Encodes a payload into a fixed-size capsule block and prints its
printable or numeric form. Reads stdin when no file is given.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.normalize()

	if fs.NArg() > 1 {
		errors.FatalError(errors.NewInputError(
			"Too many arguments",
			"The encode command takes at most one file argument",
			"Run 'capsule encode payload.bin' or pipe the payload on stdin",
		), globals.JSON)
	}

	codec, cfg, _ := mustOpenCodec(configPath, globals.JSON)
	raw := readPayload(fs.Arg(0), globals.JSON)

	result := EncodeResult{
		Format:     *format,
		InputBytes: len(raw),
		BlockSize:  cfg.BlockSize,
		Base:       cfg.Base,
		DigitCount: codec.DigitCount(),
	}

	switch *format {
	case formatString:
		s, err := codec.EncodeToString(raw)
		if err != nil {
			fatalEncodeError(err, globals.JSON)
		}
		result.Encoded = s
	case formatDigits:
		digits, err := codec.EncodeToDigits(raw)
		if err != nil {
			fatalEncodeError(err, globals.JSON)
		}
		result.Digits = digits
	case formatEnergy:
		vec, err := energy.Make(codec, raw)
		if err != nil {
			fatalEncodeError(err, globals.JSON)
		}
		result.Energies = vec.Energies
		result.Normalized = vec.Normalized
	default:
		errors.FatalError(errors.NewInputError(
			"Unknown format",
			fmt.Sprintf("Format '%s' is not supported. Valid options: string, digits, energy", *format),
			"Run 'capsule encode --format string', '--format digits', or '--format energy'",
		), globals.JSON)
	}

	if globals.JSON {
		_ = output.JSON(result)
		return
	}

	switch *format {
	case formatString:
		fmt.Println(result.Encoded)
	case formatDigits:
		fmt.Println(formatInts(result.Digits))
	case formatEnergy:
		fmt.Println(formatInts(result.Energies))
	}
}

// fatalEncodeError reports an encode failure and exits.
//
// The only expected failure is a payload over the configured limit; anything
// else is surfaced as an internal error.
func fatalEncodeError(err error, jsonOut bool) {
	if stderrors.Is(err, capsule.ErrInputTooLong) {
		errors.FatalError(errors.NewInputError(
			"Payload too large",
			err.Error(),
			"Raise max_input_bytes in .capsule/config.yaml or shrink the input",
		), jsonOut)
	}
	errors.FatalError(errors.NewInternalError(
		"Encoding failed",
		err.Error(),
		"Run 'capsule status' to check the active configuration",
		err,
	), jsonOut)
}

// readPayload reads the raw payload from a file, or from stdin when path
// is empty or "-".
//
// Reads are capped at the soft limit plus one byte so an oversized stream
// is detected without buffering it whole.
func readPayload(path string, jsonOut bool) []byte {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path) //nolint:gosec // G304: path comes from the command line
		if err != nil {
			errors.FatalError(errors.NewInputError(
				"Cannot read input file",
				err.Error(),
				"Check that the path exists and is readable",
			), jsonOut)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	limit := contract.SoftLimitBytes()
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot read input",
			err.Error(),
			"Check the input source and try again",
		), jsonOut)
	}

	if res := contract.ValidateInputSize(len(data)); !res.OK {
		errors.FatalError(errors.NewInputError(
			"Input exceeds the soft read limit",
			fmt.Sprintf("%s: read %d bytes, limit %d", res.Message, len(data), limit),
			fmt.Sprintf("Set %s to raise the cap if this is intentional", contract.EnvSoftLimit),
		), jsonOut)
	}

	return data
}

// formatInts renders an int slice as a single space-separated line.
func formatInts(values []int) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
