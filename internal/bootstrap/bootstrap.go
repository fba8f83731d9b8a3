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

package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/capsule/pkg/capsule"
)

const (
	// DirName is the workspace configuration directory.
	DirName = ".capsule"

	// FileName is the configuration file inside DirName.
	FileName = "config.yaml"
)

// ErrNoConfig is returned when no configuration file can be located.
var ErrNoConfig = errors.New("no codec configuration found")

// ConfigPath returns the configuration file path for a workspace directory.
func ConfigPath(dir string) string {
	return filepath.Join(dir, DirName, FileName)
}

// GlobalConfigPath returns the per-user fallback configuration path,
// ~/.capsule/config.yaml.
func GlobalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, DirName, FileName), nil
}

// FindConfig resolves which configuration file to use.
//
// Resolution order:
//  1. explicit path, when non-empty (missing file is an error)
//  2. ./.capsule/config.yaml
//  3. ~/.capsule/config.yaml
//
// Returns ErrNoConfig when neither workspace nor global file exists.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config %s: %w", explicit, err)
		}
		return explicit, nil
	}

	local := ConfigPath(".")
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	global, err := GlobalConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}

	return "", ErrNoConfig
}

// InitWorkspace writes cfg to dir/.capsule/config.yaml, creating the
// directory as needed. An existing file is refused unless force is set.
// This function is idempotent under force: rewriting the same config is safe.
//
// Returns the path of the written file.
func InitWorkspace(dir string, cfg *capsule.Config, force bool, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid config: %w", err)
	}

	path := ConfigPath(dir)

	logger.Info("bootstrap.workspace.init.start",
		"path", path,
		"base", cfg.Base,
		"block_size", cfg.BlockSize,
	)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	if err := SaveConfig(path, cfg); err != nil {
		return "", err
	}

	logger.Info("bootstrap.workspace.init.success", "path", path)

	return path, nil
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*capsule.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg capsule.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &cfg, nil
}

// SaveConfig marshals cfg to path. The file is written 0600 since key_hex
// lives in it.
func SaveConfig(path string, cfg *capsule.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	header := []byte("# Capsule codec configuration.\n# Generated by 'capsule init'.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// OpenCodec locates a configuration, loads it and constructs a codec.
// Returns the codec, the loaded config and the path it came from.
func OpenCodec(explicit string, logger *slog.Logger) (*capsule.Codec, *capsule.Config, string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	path, err := FindConfig(explicit)
	if err != nil {
		return nil, nil, "", err
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, nil, "", err
	}

	codec, err := capsule.New(cfg, logger)
	if err != nil {
		return nil, nil, "", err
	}

	logger.Debug("bootstrap.codec.open",
		"path", path,
		"base", cfg.Base,
		"block_size", cfg.BlockSize,
		"digits", cfg.DigitCount(),
	)

	return codec, cfg, path, nil
}
