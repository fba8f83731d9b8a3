// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package contract

import (
	"os"
	"strconv"
)

const (
	// DefaultSoftLimitBytes is the baseline soft limit for files the CLI
	// reads into memory.
	DefaultSoftLimitBytes = 16 << 20 // 16 MiB

	// EnvSoftLimit is the environment variable that overrides the soft limit.
	EnvSoftLimit = "CAPSULE_SOFT_LIMIT_BYTES"
)

// SoftLimitBytes returns the effective soft limit for CLI input files.
// Controlled via env CAPSULE_SOFT_LIMIT_BYTES; falls back to DefaultSoftLimitBytes.
func SoftLimitBytes() int {
	if v := os.Getenv(EnvSoftLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultSoftLimitBytes
}

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	OK      bool
	Message string
}

// ValidateInputSize checks a byte count against the soft limit before the
// CLI loads a file into memory. The codec applies its own, much smaller
// max_input_bytes check afterwards; this guard only stops runaway reads.
func ValidateInputSize(n int) *ValidationResult {
	if n > SoftLimitBytes() {
		return &ValidationResult{
			OK:      false,
			Message: "input exceeds soft limit",
		}
	}
	return &ValidationResult{OK: true}
}
