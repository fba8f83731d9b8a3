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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	captest "github.com/kraklabs/capsule/internal/testing"
)

// chdir switches the working directory for the duration of the test,
// restoring the original directory on cleanup. Equivalent to t.Chdir,
// which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestInitWorkspace_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := captest.Config()

	path, err := InitWorkspace(dir, cfg, false, nil)
	require.NoError(t, err)
	assert.Equal(t, ConfigPath(dir), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "config carries key material")

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, *cfg, *loaded)
}

func TestInitWorkspace_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	cfg := captest.Config()

	_, err := InitWorkspace(dir, cfg, false, nil)
	require.NoError(t, err)

	_, err = InitWorkspace(dir, cfg, false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Force rewrites in place.
	cfg.FeistelRounds = 12
	_, err = InitWorkspace(dir, cfg, true, nil)
	require.NoError(t, err)

	loaded, err := LoadConfig(ConfigPath(dir))
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.FeistelRounds)
}

func TestInitWorkspace_InvalidConfig(t *testing.T) {
	cfg := captest.Config()
	cfg.Base = 1

	_, err := InitWorkspace(t.TempDir(), cfg, false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_input_bytes: [not, a, number]"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_input_bytes: 64\nblock_size: 8\nbase: 62\nfeistel_rounds: 6\n"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block_size")
}

func TestFindConfig_Explicit(t *testing.T) {
	dir := t.TempDir()
	cfg := captest.Config()
	written, err := InitWorkspace(dir, cfg, false, nil)
	require.NoError(t, err)

	found, err := FindConfig(written)
	require.NoError(t, err)
	assert.Equal(t, written, found)

	_, err = FindConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err, "an explicit path must exist")
}

func TestFindConfig_Precedence(t *testing.T) {
	workDir := t.TempDir()
	homeDir := t.TempDir()
	chdir(t, workDir)
	t.Setenv("HOME", homeDir)

	// Nothing anywhere: ErrNoConfig.
	_, err := FindConfig("")
	require.ErrorIs(t, err, ErrNoConfig)

	// Global config only.
	globalPath, err := InitWorkspace(homeDir, captest.Config(), false, nil)
	require.NoError(t, err)
	found, err := FindConfig("")
	require.NoError(t, err)
	assert.Equal(t, globalPath, found)

	// Workspace config wins over global.
	_, err = InitWorkspace(workDir, captest.Config(), false, nil)
	require.NoError(t, err)
	found, err = FindConfig("")
	require.NoError(t, err)
	assert.Equal(t, ConfigPath("."), found)
}

func TestOpenCodec(t *testing.T) {
	dir := t.TempDir()
	written, err := InitWorkspace(dir, captest.Config(), false, nil)
	require.NoError(t, err)

	codec, cfg, path, err := OpenCodec(written, nil)
	require.NoError(t, err)
	assert.Equal(t, written, path)
	assert.Equal(t, *captest.Config(), *cfg)

	raw := []byte("opened from disk")
	s, err := codec.EncodeToString(raw)
	require.NoError(t, err)
	back, err := codec.DecodeFromString(s)
	require.NoError(t, err)
	assert.Equal(t, raw, back)
}

func TestOpenCodec_NoConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := OpenCodec("", nil)
	require.ErrorIs(t, err, ErrNoConfig)
}
