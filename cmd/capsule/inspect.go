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
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kraklabs/capsule/internal/errors"
	"github.com/kraklabs/capsule/internal/output"
	"github.com/kraklabs/capsule/internal/ui"
	"github.com/kraklabs/capsule/pkg/capsule"
	"github.com/kraklabs/capsule/pkg/energy"
)

// headLen bounds how many bytes, digits, or energies the walkthrough
// shows per stage.
const headLen = 12

// InspectResult represents the stage-by-stage walkthrough for JSON output.
type InspectResult struct {
	InputBytes   int       `json:"input_bytes"`
	InputHead    string    `json:"input_head"`
	HeaderLength uint16    `json:"header_length"`
	HeaderFlags  uint8     `json:"header_flags"`
	HeaderCRC    string    `json:"header_crc"`
	PaddingBytes int       `json:"padding_bytes"`
	Rounds       int       `json:"rounds"`
	PRF          string    `json:"prf"`
	BlockHead    string    `json:"block_head"`
	Base         int       `json:"base"`
	DigitCount   int       `json:"digit_count"`
	DigitsHead   []int     `json:"digits_head"`
	RuneCount    int       `json:"rune_count"`
	StringHead   string    `json:"string_head"`
	EnergiesHead []int     `json:"energies_head"`
	Normalized   []float64 `json:"normalized_head,omitempty"`
	RoundTrip    bool      `json:"round_trip"`
}

// runInspect executes the 'inspect' CLI command, walking a payload through
// every codec stage and showing what each one produces.
//
// The walkthrough covers the framed header, the permuted block, the digit
// vector, the printable string, and the energy levels, then decodes the
// block back and confirms the payload survived. It is the quickest way to
// see what a configuration actually does to data.
//
// Flags:
//   - --json: Output the walkthrough as JSON
//
// Examples:
//
//	echo -n "hello" | capsule inspect
//	capsule inspect payload.bin --json
func runInspect(args []string, configPath string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	var globals GlobalFlags
	addOutputFlags(fs, &globals)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: capsule inspect [options] [file]

Walks a payload through every codec stage: framing, permutation, digit
conversion, string rendering, and energy levels. Reads stdin when no
file is given.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.normalize()
	ui.InitColors(globals.NoColor)

	if fs.NArg() > 1 {
		errors.FatalError(errors.NewInputError(
			"Too many arguments",
			"The inspect command takes at most one file argument",
			"Run 'capsule inspect payload.bin' or pipe the payload on stdin",
		), globals.JSON)
	}

	codec, cfg, _ := mustOpenCodec(configPath, globals.JSON)
	raw := readPayload(fs.Arg(0), globals.JSON)

	framed, err := codec.Frame(raw)
	if err != nil {
		fatalEncodeError(err, globals.JSON)
	}
	hdr, err := capsule.ParseHeader(framed)
	if err != nil {
		fatalEncodeError(err, globals.JSON)
	}

	block, err := codec.Encode(raw)
	if err != nil {
		fatalEncodeError(err, globals.JSON)
	}
	digits, err := codec.EncodeToDigits(raw)
	if err != nil {
		fatalEncodeError(err, globals.JSON)
	}
	s, err := codec.EncodeToString(raw)
	if err != nil {
		fatalEncodeError(err, globals.JSON)
	}
	vec, err := energy.Make(codec, raw)
	if err != nil {
		fatalEncodeError(err, globals.JSON)
	}

	decoded, err := codec.Decode(block)
	if err != nil {
		fatalDecodeError(err, globals.JSON)
	}
	roundTrip := bytes.Equal(decoded, raw)

	result := InspectResult{
		InputBytes:   len(raw),
		InputHead:    hexHead(raw),
		HeaderLength: hdr.Length,
		HeaderFlags:  hdr.Flags,
		HeaderCRC:    fmt.Sprintf("%08x", hdr.CRC),
		PaddingBytes: cfg.PayloadRegionSize() - len(raw),
		Rounds:       cfg.FeistelRounds,
		PRF:          cfg.EffectivePRF(),
		BlockHead:    hexHead(block[capsule.HeaderSize:]),
		Base:         cfg.Base,
		DigitCount:   len(digits),
		DigitsHead:   intsHead(digits),
		RuneCount:    len([]rune(s)),
		StringHead:   runeHead(s, 2*headLen),
		EnergiesHead: intsHead(vec.Energies),
		RoundTrip:    roundTrip,
	}
	if vec.Normalized != nil {
		result.Normalized = vec.Normalized[:min(headLen, len(vec.Normalized))]
	}

	if globals.JSON {
		_ = output.JSON(result)
		return
	}

	printInspectTable(&result)

	if roundTrip {
		ui.Successf("Round trip verified: %d bytes restored exactly", len(raw))
	} else {
		errors.FatalError(errors.NewInternalError(
			"Round trip failed",
			"The decoded payload differs from the input",
			"Run 'capsule verify' to diagnose the active configuration",
			nil,
		), false)
	}
}

// printInspectTable prints the walkthrough as a stage/field/value table.
func printInspectTable(r *InspectResult) {
	ui.Header("Capsule Inspection")

	rows := [][3]string{
		{"input", "bytes", fmt.Sprintf("%d", r.InputBytes)},
		{"input", "head", r.InputHead},
		{"frame", "length", fmt.Sprintf("%d", r.HeaderLength)},
		{"frame", "flags", fmt.Sprintf("0x%02x", r.HeaderFlags)},
		{"frame", "crc32", "0x" + r.HeaderCRC},
		{"frame", "padding", fmt.Sprintf("%d zero bytes", r.PaddingBytes)},
		{"permute", "rounds", fmt.Sprintf("%d", r.Rounds)},
		{"permute", "prf", r.PRF},
		{"permute", "head", r.BlockHead},
		{"digits", "base", fmt.Sprintf("%d", r.Base)},
		{"digits", "count", fmt.Sprintf("%d", r.DigitCount)},
		{"digits", "head", formatInts(r.DigitsHead)},
		{"string", "runes", fmt.Sprintf("%d", r.RuneCount)},
		{"string", "head", r.StringHead},
		{"energy", "levels", fmt.Sprintf("1..%d", r.Base)},
		{"energy", "head", formatInts(r.EnergiesHead)},
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STAGE\tFIELD\tVALUE")
	_, _ = fmt.Fprintln(w, "---\t---\t---")
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", row[0], row[1], row[2])
	}
	_ = w.Flush()
	fmt.Println()
}

// hexHead renders the first headLen bytes as spaced hex with an ellipsis
// when truncated.
func hexHead(b []byte) string {
	n := min(headLen, len(b))
	parts := make([]string, 0, n+1)
	for _, v := range b[:n] {
		parts = append(parts, fmt.Sprintf("%02x", v))
	}
	if len(b) > n {
		parts = append(parts, "...")
	}
	return strings.Join(parts, " ")
}

// intsHead returns the first headLen values.
func intsHead(values []int) []int {
	return values[:min(headLen, len(values))]
}

// runeHead returns the first n runes of s with an ellipsis when truncated.
func runeHead(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
