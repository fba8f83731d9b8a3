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
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/capsule/internal/errors"
	"github.com/kraklabs/capsule/internal/output"
	"github.com/kraklabs/capsule/internal/ui"
	"github.com/kraklabs/capsule/pkg/capsule"
	"github.com/kraklabs/capsule/pkg/energy"
)

// maxReportedFailures caps how many failure details verify keeps; the
// rest are only counted.
const maxReportedFailures = 5

// VerifyResult summarizes a verification run for JSON output.
type VerifyResult struct {
	Rounds       int64           `json:"rounds"`
	Passed       int64           `json:"passed"`
	Failed       int64           `json:"failed"`
	Seed         int64           `json:"seed"`
	PayloadSize  int             `json:"payload_size"`
	Duration     string          `json:"duration"`
	RoundsPerSec float64         `json:"rounds_per_sec"`
	Interrupted  bool            `json:"interrupted,omitempty"`
	Failures     []VerifyFailure `json:"failures,omitempty"`
}

// VerifyFailure records one failed round trip.
type VerifyFailure struct {
	Round int64  `json:"round"`
	Layer string `json:"layer"`
	Bytes int    `json:"bytes"`
	Error string `json:"error"`
}

// verifyOptions holds the knobs for a verification run.
type verifyOptions struct {
	count       int64
	payloadSize int
	seed        int64
	progress    ProgressConfig
}

// runVerify executes the 'verify' CLI command, burning in the active
// configuration with randomized round trips.
//
// Each round encodes a random payload and decodes it back through one of
// the three carrier layers in rotation (string, digits, energy). Any
// mismatch or decode failure is counted and reported with the seed, so a
// failing run can be reproduced exactly.
//
// Flags:
//   - --count: Number of round trips (default: 1000; 0 = run until interrupted)
//   - --payload-size: Fixed payload size in bytes (default: randomized per round)
//   - --seed: Random seed (default: derived from the clock)
//   - --metrics-addr: HTTP listen address for Prometheus metrics (empty to disable)
//   - --debug: Enable debug logging
//
// Examples:
//
//	capsule verify                              1000 randomized round trips
//	capsule verify --count 100000               Longer burn-in
//	capsule verify --count 0                    Soak until Ctrl-C
//	capsule verify --seed 42 --payload-size 64  Reproducible fixed-size run
//	capsule verify --metrics-addr :9102         Expose codec metrics while running
func runVerify(args []string, configPath string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var globals GlobalFlags
	count := fs.Int64("count", 1000, "Number of round trips (0 = run until interrupted)")
	payloadSize := fs.Int("payload-size", -1, "Fixed payload size in bytes (-1 = randomized)")
	seed := fs.Int64("seed", 0, "Random seed (0 = derived from the clock)")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.BoolVar(&globals.JSON, "json", false, "Output as JSON")
	fs.BoolVarP(&globals.Quiet, "quiet", "q", false, "Suppress non-essential output")
	fs.BoolVar(&globals.NoColor, "no-color", false, "Disable colored output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: capsule verify [options]

Description:
  Runs randomized encode/decode round trips against the active
  configuration, rotating through the string, digit, and energy
  carriers. Use it to burn in a new config before deploying it.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  capsule verify
  capsule verify --count 100000 --metrics-addr :9102
  capsule verify --seed 42 --payload-size 64
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	globals.normalize()
	ui.InitColors(globals.NoColor)

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	codec, cfg, _ := mustOpenCodec(configPath, globals.JSON)

	if *payloadSize > cfg.MaxInputBytes {
		errors.FatalError(errors.NewInputError(
			"Payload size exceeds the configured maximum",
			fmt.Sprintf("--payload-size is %d, max_input_bytes is %d", *payloadSize, cfg.MaxInputBytes),
			"Pick a size within the limit or raise max_input_bytes",
		), globals.JSON)
	}

	// Start Prometheus metrics endpoint (optional)
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux}
			logger.Info("metrics.http.start", "addr", *metricsAddr, "path", "/metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	// Graceful shutdown lets a soak run end with a summary instead of
	// dying mid-round.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

	effectiveSeed := *seed
	if effectiveSeed == 0 {
		effectiveSeed = time.Now().UnixNano()
	}

	logger.Info("verify.run.start",
		"count", *count,
		"seed", effectiveSeed,
		"payload_size", *payloadSize,
		"base", cfg.Base,
		"block_size", cfg.BlockSize,
	)

	result := runVerifyRounds(ctx, codec, cfg, verifyOptions{
		count:       *count,
		payloadSize: *payloadSize,
		seed:        effectiveSeed,
		progress:    NewProgressConfig(globals),
	})

	logger.Info("verify.run.done",
		"rounds", result.Rounds,
		"passed", result.Passed,
		"failed", result.Failed,
		"duration", result.Duration,
	)

	if globals.JSON {
		_ = output.JSON(result)
		if result.Failed > 0 {
			os.Exit(errors.ExitIntegrity)
		}
		return
	}

	printVerifySummary(result)

	if result.Failed > 0 {
		errors.FatalError(errors.NewIntegrityError(
			"Verification failed",
			fmt.Sprintf("%d of %d round trips failed", result.Failed, result.Rounds),
			fmt.Sprintf("Rerun with '--seed %d --debug' to reproduce", result.Seed),
			nil,
		), false)
	}
}

// runVerifyRounds drives the round-trip loop and collects the summary.
func runVerifyRounds(ctx context.Context, codec *capsule.Codec, cfg *capsule.Config, opts verifyOptions) *VerifyResult {
	rng := rand.New(rand.NewSource(opts.seed)) //nolint:gosec // G404: reproducibility matters here, secrecy does not
	start := time.Now()
	result := &VerifyResult{Seed: opts.seed, PayloadSize: opts.payloadSize}

	var bar *progressbar.ProgressBar
	if opts.count > 0 {
		bar = NewProgressBar(opts.progress, opts.count, "Verifying")
	} else {
		bar = NewSpinner(opts.progress, "Verifying (Ctrl-C to stop)")
	}

loop:
	for i := int64(0); opts.count == 0 || i < opts.count; i++ {
		select {
		case <-ctx.Done():
			result.Interrupted = true
			break loop
		default:
		}

		size := opts.payloadSize
		if size < 0 {
			size = rng.Intn(cfg.MaxInputBytes + 1)
		}
		payload := make([]byte, size)
		_, _ = rng.Read(payload)

		layer := roundLayer(i)
		if err := verifyRound(codec, layer, payload); err != nil {
			result.Failed++
			if len(result.Failures) < maxReportedFailures {
				result.Failures = append(result.Failures, VerifyFailure{
					Round: i,
					Layer: layer,
					Bytes: size,
					Error: err.Error(),
				})
			}
			slog.Warn("verify.round.fail", "round", i, "layer", layer, "bytes", size, "err", err)
		} else {
			result.Passed++
		}
		result.Rounds++

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	elapsed := time.Since(start)
	result.Duration = elapsed.Round(time.Millisecond).String()
	if secs := elapsed.Seconds(); secs > 0 {
		result.RoundsPerSec = float64(result.Rounds) / secs
	}
	return result
}

// roundLayer selects the carrier layer a round exercises, rotating so a
// burn-in covers all three evenly.
func roundLayer(i int64) string {
	switch i % 3 {
	case 0:
		return formatString
	case 1:
		return formatDigits
	default:
		return formatEnergy
	}
}

// verifyRound encodes payload through one carrier layer and checks the
// decode restores it exactly.
func verifyRound(codec *capsule.Codec, layer string, payload []byte) error {
	var (
		got []byte
		err error
	)

	switch layer {
	case formatString:
		var s string
		s, err = codec.EncodeToString(payload)
		if err == nil {
			got, err = codec.DecodeFromString(s)
		}
	case formatDigits:
		var digits []int
		digits, err = codec.EncodeToDigits(payload)
		if err == nil {
			got, err = codec.DecodeFromDigits(digits)
		}
	case formatEnergy:
		var vec *energy.Vector
		vec, err = energy.Make(codec, payload)
		if err == nil {
			if vec.Normalized != nil {
				got, err = energy.RecoverNormalized(codec, vec.Normalized)
			} else {
				got, err = energy.Recover(codec, vec.Energies)
			}
		}
	default:
		return fmt.Errorf("unknown layer %q", layer)
	}

	if err != nil {
		return err
	}
	if !bytes.Equal(got, payload) {
		return fmt.Errorf("%s round trip restored %d bytes that differ from the input", layer, len(got))
	}
	return nil
}

// printVerifySummary prints the run summary as formatted text to stdout.
func printVerifySummary(r *VerifyResult) {
	ui.Header("Verification Summary")

	fmt.Printf("  Rounds:    %d\n", r.Rounds)
	fmt.Printf("  Passed:    %d\n", r.Passed)
	fmt.Printf("  Failed:    %d\n", r.Failed)
	fmt.Printf("  Seed:      %d\n", r.Seed)
	fmt.Printf("  Duration:  %s (%.0f rounds/s)\n", r.Duration, r.RoundsPerSec)
	fmt.Println()

	if r.Interrupted {
		ui.Warning("Interrupted before completing all rounds")
	}
	for _, f := range r.Failures {
		ui.Errorf("round %d (%s, %d bytes): %s", f.Round, f.Layer, f.Bytes, f.Error)
	}
	if extra := r.Failed - int64(len(r.Failures)); extra > 0 {
		ui.Errorf("...and %d more failures", extra)
	}

	if r.Failed == 0 && r.Rounds > 0 {
		ui.Successf("All %d round trips verified", r.Rounds)
	}
}
