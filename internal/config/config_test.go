package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aledsdavies/bashcst/pkgs/treefmt"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bashcst.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Diff)
	assert.False(t, cfg.Oracle)
	require.NoError(t, cfg.Check())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Config
		wantErr string
	}{
		{
			name:    "overrides defaults",
			content: "format: yaml\ntrivia: true\noracle: true\ndiff: false\n",
			want:    &Config{Format: "yaml", Trivia: true, Oracle: true},
		},
		{
			name:    "partial file keeps defaults",
			content: "digest: true\n",
			want:    &Config{Format: "json", Digest: true, Diff: true},
		},
		{
			name:    "empty file",
			content: "",
			want:    Default(),
		},
		{
			name:    "unknown key",
			content: "formatt: yaml\n",
			wantErr: "field formatt not found",
		},
		{
			name:    "bad format",
			content: "format: jsn\n",
			wantErr: `did you mean "json"?`,
		},
		{
			name:    "malformed yaml",
			content: "format: [\n",
			wantErr: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("default file may be absent", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("default file is read when present", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("format: cbor\n"), 0644))
		t.Chdir(dir)
		cfg, err := Load("")
		require.NoError(t, err)
		f, err := cfg.TreeFormat()
		require.NoError(t, err)
		assert.Equal(t, treefmt.CBOR, f)
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := &Config{Format: "yaml", Validate: true, Digest: true}
	data, err := cfg.Marshal()
	require.NoError(t, err)

	got, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
