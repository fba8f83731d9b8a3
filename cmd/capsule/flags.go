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

import "flag"

// GlobalFlags holds output-shaping flags shared by every subcommand.
type GlobalFlags struct {
	// JSON switches command output to a machine-readable JSON envelope.
	// Implies Quiet so progress and decoration never mix into the stream.
	JSON bool

	// Quiet suppresses progress bars and decorative output.
	Quiet bool

	// NoColor disables ANSI color codes. The NO_COLOR environment
	// variable is honored separately by internal/ui.
	NoColor bool
}

// addOutputFlags registers the shared output flags on a command's FlagSet.
func addOutputFlags(fs *flag.FlagSet, g *GlobalFlags) {
	fs.BoolVar(&g.JSON, "json", false, "Output as JSON")
	fs.BoolVar(&g.Quiet, "q", false, "Suppress non-essential output")
	fs.BoolVar(&g.Quiet, "quiet", false, "Suppress non-essential output")
	fs.BoolVar(&g.NoColor, "no-color", false, "Disable colored output")
}

// normalize applies flag implications after parsing. JSON output always
// runs quiet so stdout stays parseable.
func (g *GlobalFlags) normalize() {
	if g.JSON {
		g.Quiet = true
	}
}
