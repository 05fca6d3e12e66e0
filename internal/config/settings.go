package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/poster-downloader/internal/http"
	ioutils "github.com/handiism/poster-downloader/internal/io"
	"github.com/handiism/poster-downloader/internal/source"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	ConcurrencyLimit      int     `json:"concurrency_limit" yaml:"concurrency_limit"`
	RequestTimeoutSeconds int     `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	RequestsPerSecond     float64 `json:"requests_per_second" yaml:"requests_per_second"`
	UserAgent             string  `json:"user_agent" yaml:"user_agent"`

	// Paths
	InputPath          string `json:"input_path" yaml:"input_path"`
	OutputImageDir     string `json:"output_image_dir" yaml:"output_image_dir"`
	SuccessMappingPath string `json:"success_mapping_path" yaml:"success_mapping_path"`
	FailureLogPath     string `json:"failure_log_path" yaml:"failure_log_path"`

	// Input table
	InputEncoding string `json:"input_encoding" yaml:"input_encoding"`
	TitleColumn   string `json:"title_column" yaml:"title_column"`
	URLColumn     string `json:"url_column" yaml:"url_column"`
	ScoreColumn   string `json:"score_column" yaml:"score_column"`

	// File naming
	MaxFileNameLength int `json:"max_filename_length" yaml:"max_filename_length"`

	// Image settings
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg" yaml:"convert_cover_art_to_jpg"`
	ResizeImages         bool `json:"resize_images" yaml:"resize_images"`
	MaxImageSize         int  `json:"max_image_size" yaml:"max_image_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ConcurrencyLimit:      500,
		RequestTimeoutSeconds: 10,
		RequestsPerSecond:     0,
		UserAgent:             "PosterDownloader",

		InputPath:          "MovieGenre.csv",
		OutputImageDir:     "poster_images",
		SuccessMappingPath: "poster_image_scores.csv",
		FailureLogPath:     "poster_download_failures.jsonl",

		InputEncoding: "latin1",
		TitleColumn:   "Title",
		URLColumn:     "Poster",
		ScoreColumn:   "IMDB Score",

		MaxFileNameLength: ioutils.DefaultMaxFileNameLength,

		ConvertCoverArtToJPG: false,
		ResizeImages:         false,
		MaxImageSize:         1000,
	}
}

// Load reads settings from a JSON or YAML file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	settings.Validate()
	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := s.Marshal(isYAML(path))
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the settings as YAML or indented JSON.
func (s *Settings) Marshal(asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(s)
	}
	return json.MarshalIndent(s, "", "  ")
}

// Validate replaces out-of-range values with usable ones.
func (s *Settings) Validate() {
	def := DefaultSettings()
	if s.ConcurrencyLimit < 1 {
		s.ConcurrencyLimit = 1
	}
	if s.RequestTimeoutSeconds < 1 {
		s.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	if s.RequestsPerSecond < 0 {
		s.RequestsPerSecond = 0
	}
	if s.MaxFileNameLength < 1 {
		s.MaxFileNameLength = def.MaxFileNameLength
	}
	if s.MaxImageSize < 1 {
		s.MaxImageSize = def.MaxImageSize
	}
}

// RequestTimeout returns the per-phase network timeout.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// ToClientOptions converts settings to HTTP client options.
func (s *Settings) ToClientOptions() http.Options {
	return http.Options{
		ConnectTimeout:    s.RequestTimeout(),
		ReadTimeout:       s.RequestTimeout(),
		MaxConns:          s.ConcurrencyLimit,
		UserAgent:         s.UserAgent,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// ToSourceOptions converts settings to row source options.
func (s *Settings) ToSourceOptions() source.Options {
	return source.Options{
		Encoding:    s.InputEncoding,
		TitleColumn: s.TitleColumn,
		URLColumn:   s.URLColumn,
		ScoreColumn: s.ScoreColumn,
	}
}

// ToImageOptions converts settings to image post-processing options.
func (s *Settings) ToImageOptions() ioutils.ImageOptions {
	return ioutils.ImageOptions{
		ConvertToJPEG: s.ConvertCoverArtToJPG,
		Resize:        s.ResizeImages,
		MaxSize:       s.MaxImageSize,
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
