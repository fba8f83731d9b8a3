// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/base64"
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kraklabs/capsule/internal/errors"
	"github.com/kraklabs/capsule/internal/output"
	"github.com/kraklabs/capsule/pkg/capsule"
	"github.com/kraklabs/capsule/pkg/energy"
)

// DecodeResult represents one decoded capsule for JSON output.
type DecodeResult struct {
	Format        string `json:"format"`
	PayloadBytes  int    `json:"payload_bytes"`
	Payload       string `json:"payload,omitempty"`
	PayloadBase64 string `json:"payload_base64"`
}

// runDecode executes the 'decode' CLI command, recovering the original
// payload from a capsule string, digit vector, or energy vector.
//
// Input is read from the file argument, or from stdin when no file is
// given. The recovered payload is written byte-for-byte to stdout; with
// --json a base64 envelope is emitted instead so binary payloads survive
// the JSON encoding.
//
// Integrity failures (checksum mismatch, malformed header, nonzero
// padding) exit with code 4 and name the typed reason.
//
// Flags:
//   - --format: Input form: string, digits, or energy (default: string)
//   - --json: Emit a JSON envelope instead of raw bytes
//
// Examples:
//
//	echo -n "hello" | capsule encode | capsule decode
//	capsule decode --format energy levels.txt
func runDecode(args []string, configPath string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var globals GlobalFlags
	format := fs.String("format", formatString, "Input format: string, digits, or energy")
	addOutputFlags(fs, &globals)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: capsule decode [options] [file]

Decodes a capsule back into the original payload and writes it to
stdout. Reads stdin when no file is given.

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
			"The decode command takes at most one file argument",
			"Run 'capsule decode capsule.txt' or pipe the capsule on stdin",
		), globals.JSON)
	}

	codec, _, _ := mustOpenCodec(configPath, globals.JSON)
	text := strings.TrimSpace(string(readPayload(fs.Arg(0), globals.JSON)))

	var (
		payload []byte
		err     error
	)
	switch *format {
	case formatString:
		payload, err = codec.DecodeFromString(text)
	case formatDigits:
		var digits []int
		digits, err = parseInts(text)
		if err == nil {
			payload, err = codec.DecodeFromDigits(digits)
		}
	case formatEnergy:
		var energies []int
		energies, err = parseInts(text)
		if err == nil {
			payload, err = energy.Recover(codec, energies)
		}
	default:
		errors.FatalError(errors.NewInputError(
			"Unknown format",
			fmt.Sprintf("Format '%s' is not supported. Valid options: string, digits, energy", *format),
			"Run 'capsule decode --format string', '--format digits', or '--format energy'",
		), globals.JSON)
	}
	if err != nil {
		fatalDecodeError(err, globals.JSON)
	}

	if globals.JSON {
		result := DecodeResult{
			Format:        *format,
			PayloadBytes:  len(payload),
			PayloadBase64: base64.StdEncoding.EncodeToString(payload),
		}
		if utf8.Valid(payload) {
			result.Payload = string(payload)
		}
		_ = output.JSON(result)
		return
	}

	_, _ = os.Stdout.Write(payload)
}

// fatalDecodeError maps codec failures onto user-facing errors.
//
// Integrity faults carry exit code 4 so scripts can tell a tampered
// capsule from a malformed command line.
func fatalDecodeError(err error, jsonOut bool) {
	var (
		crcErr       *capsule.CrcMismatchError
		headerErr    *capsule.MalformedHeaderError
		structureErr *capsule.InvalidBlockStructureError
		sizeErr      *capsule.InvalidBlockSizeError
	)

	switch {
	case stderrors.As(err, &crcErr):
		errors.FatalError(errors.NewIntegrityError(
			"Capsule failed verification",
			fmt.Sprintf("Stored checksum %08x does not match payload checksum %08x", crcErr.Expected, crcErr.Actual),
			"The capsule was altered after encoding, or a different key or config produced it",
			err,
		), jsonOut)
	case stderrors.As(err, &headerErr):
		errors.FatalError(errors.NewIntegrityError(
			"Capsule header is malformed",
			headerErr.Reason,
			"Confirm the capsule was produced by 'capsule encode' with this configuration",
			err,
		), jsonOut)
	case stderrors.As(err, &structureErr):
		errors.FatalError(errors.NewIntegrityError(
			"Capsule structure is invalid",
			structureErr.Reason,
			"Confirm the capsule was produced by 'capsule encode' with this configuration",
			err,
		), jsonOut)
	case stderrors.As(err, &sizeErr):
		errors.FatalError(errors.NewInputError(
			"Capsule has the wrong size",
			fmt.Sprintf("Got %d bytes, the active config requires %d", sizeErr.Actual, sizeErr.Expected),
			"Check that the capsule matches the active block_size and base",
		), jsonOut)
	default:
		errors.FatalError(errors.NewInputError(
			"Input is not a valid capsule",
			err.Error(),
			"Check the --format flag against how the capsule was produced",
		), jsonOut)
	}
}

// parseInts parses a whitespace-separated list of integers, as produced
// by 'capsule encode --format digits' or '--format energy'.
func parseInts(text string) ([]int, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, stderrors.New("empty input, expected a whitespace-separated list of integers")
	}

	values := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("value %d (%q) is not an integer", i, field)
		}
		values[i] = n
	}
	return values, nil
}
