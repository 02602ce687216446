package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/handsomefox/giphydl/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	s, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, "downloads", filepath.Base(s.DownloadPath))
	assert.Equal(t, api.QualityOriginal, s.Quality)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `{"api_key":"secret","download_path":"/data/giphy","quality":"Medium"}`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Settings{APIKey: "secret", DownloadPath: "/data/giphy", Quality: api.QualityMedium}, s)
}

func TestLoadQuality(t *testing.T) {
	t.Parallel()
	tests := []struct {
		quality string
		want    api.QualityTier
	}{
		{"高清", api.QualityOriginal},
		{"标准", api.QualityHigh},
		{"压缩", api.QualityMedium},
		{"小图", api.QualitySmall},
		{"High", api.QualityHigh},
		{"fixed_width_small", api.QualitySmall},
		{"ultra", api.QualityOriginal},
		{"", api.QualityOriginal},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.quality, func(t *testing.T) {
			t.Parallel()
			s, err := Load(writeFile(t, `{"quality":"`+tt.quality+`"}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Quality)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Parallel()
	_, err := Load(writeFile(t, `{"api_key":`))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", FileName)
	want := Settings{APIKey: "secret", DownloadPath: "/data/giphy", Quality: api.QualitySmall}

	require.NoError(t, want.Save(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"quality": "Small"`)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, FileName, filepath.Base(DefaultPath()))
}
