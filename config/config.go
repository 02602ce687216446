// Package config stores the settings that are kept between runs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/handsomefox/giphydl/api"
	"github.com/rs/zerolog/log"
)

// FileName is the name of the settings file inside the home directory.
const FileName = ".giphy_downloader_config.json"

// legacyQualities maps the quality values written by older releases.
var legacyQualities = map[string]api.QualityTier{
	"高清": api.QualityOriginal,
	"标准": api.QualityHigh,
	"压缩": api.QualityMedium,
	"小图": api.QualitySmall,
}

type Settings struct {
	APIKey       string
	DownloadPath string
	Quality      api.QualityTier
}

// fileSettings is the on-disk form, quality is kept as text so that unknown values can be migrated.
type fileSettings struct {
	APIKey       string `json:"api_key"`
	DownloadPath string `json:"download_path"`
	Quality      string `json:"quality"`
}

// DefaultPath returns the location of the settings file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Default returns the settings used when no file exists.
func Default() Settings {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return Settings{
		DownloadPath: filepath.Join(dir, "downloads"),
		Quality:      api.QualityOriginal,
	}
}

// Load reads the settings at path. A missing file is not an error, the defaults are returned.
func Load(path string) (Settings, error) {
	s := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}

	var fs fileSettings
	if err := json.Unmarshal(b, &fs); err != nil {
		return s, fmt.Errorf("decode settings %s: %w", path, err)
	}

	if fs.APIKey != "" {
		s.APIKey = fs.APIKey
	}
	if fs.DownloadPath != "" {
		s.DownloadPath = fs.DownloadPath
	}
	s.Quality = parseQuality(fs.Quality)

	return s, nil
}

// Save writes the settings to path, creating the parent directory.
func (s Settings) Save(path string) error {
	b, err := json.MarshalIndent(fileSettings{
		APIKey:       s.APIKey,
		DownloadPath: s.DownloadPath,
		Quality:      s.Quality.String(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	log.Debug().Str("path", path).Msg("saved settings")
	return nil
}

func parseQuality(s string) api.QualityTier {
	if s == "" {
		return api.QualityOriginal
	}
	if q, ok := legacyQualities[s]; ok {
		log.Debug().Str("quality", s).Stringer("migrated", q).Msg("migrated legacy quality setting")
		return q
	}
	q, err := api.ParseQualityTier(s)
	if err != nil {
		log.Debug().Str("quality", s).Msg("unknown quality setting, using the original quality")
		return api.QualityOriginal
	}
	return q
}
