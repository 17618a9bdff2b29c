package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDir       string `json:"output_dir"`
	FilenameFormat  string `json:"filename_format"`
	FileExtension   string `json:"file_extension"`
	ArtistSubfolder bool   `json:"artist_subfolder"`
	AlbumSubfolder  bool   `json:"album_subfolder"`

	// Download settings
	Workers       int     `json:"workers"`
	MaxRetries    int     `json:"max_retries"`
	RetryCooldown float64 `json:"retry_cooldown"`
	RetryExponent float64 `json:"retry_exponent"`

	// Provider settings. Providers lists the fallback order; ProviderURLs
	// maps each name to its API root.
	Providers    []string          `json:"providers"`
	ProviderURLs map[string]string `json:"provider_urls"`
	CatalogURL   string            `json:"catalog_url"`

	// Playlist settings
	CreatePlaylist   bool `json:"create_playlist"`
	PlaylistExtended bool `json:"playlist_extended"`
	PlaylistStrict   bool `json:"playlist_strict"`
	PlaylistAbsolute bool `json:"playlist_absolute"`

	// Tag settings
	WriteTags   bool `json:"write_tags"`
	EmbedLyrics bool `json:"embed_lyrics"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		OutputDir:      filepath.Join(homeDir, "Music"),
		FilenameFormat: "{title} - {artist}",
		FileExtension:  ".flac",

		Workers:       4,
		MaxRetries:    7,
		RetryCooldown: 0.2,
		RetryExponent: 4.0,

		Providers: []string{"tidal", "qobuz", "deezer", "amazon"},
		ProviderURLs: map[string]string{
			"tidal":  "https://tidal.401658.xyz",
			"qobuz":  "https://qobuz.401658.xyz",
			"deezer": "https://deezer.401658.xyz",
			"amazon": "https://amazon.401658.xyz",
		},
		CatalogURL: "https://catalog.401658.xyz",

		CreatePlaylist:   false,
		PlaylistExtended: true,
		PlaylistStrict:   true,

		WriteTags: true,
	}
}

// Load reads settings from a JSON file. A missing file returns defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
