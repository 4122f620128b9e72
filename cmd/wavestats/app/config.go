package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Input    InputConfig    `yaml:"input"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	Output   OutputConfig   `yaml:"output"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level maps the configured log level onto slog levels, defaulting to Info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InputConfig describes the source dataset
type InputConfig struct {
	Path        string  `yaml:"path"`
	DatasetID   string  `yaml:"datasetId"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
	SampleRate  float64 `yaml:"sampleRate"`
	Declination float64 `yaml:"declination"` // degrees east of true north
}

// PipelineConfig represents the wave statistics pipeline settings
type PipelineConfig struct {
	GapThresholdSeconds float64    `yaml:"gapThresholdSeconds"`
	DespikeStd          float64    `yaml:"despikeStd"`
	DespikeIters        int        `yaml:"despikeIters"`
	CutoffPeriod        float64    `yaml:"cutoffPeriod"`
	Bands               int        `yaml:"bands"`
	FusionIters         int        `yaml:"fusionIters"`
	Offset              [3]float64 `yaml:"offset"` // sensor to waterline, m
	PUV                 PUVConfig  `yaml:"puv"`
}

// PUVConfig represents the directional estimator settings
type PUVConfig struct {
	LowFreqCutoff float64 `yaml:"lowFreqCutoff"`
	MaxFac        float64 `yaml:"maxFac"`
	MinSpec       float64 `yaml:"minSpec"`
	NorthOffset   float64 `yaml:"northOffset"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
}

// OutputConfig represents result output settings
type OutputConfig struct {
	SummaryFile string `yaml:"summaryFile"`
	Workers     int    `yaml:"workers"`
}

// LoadConfig reads and strictly decodes the YAML configuration at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening configuration file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var config Config
	if err = dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("decoding configuration file: %w", err)
	}

	if config.Input.Path == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if config.Input.SampleRate <= 0 {
		return nil, fmt.Errorf("input sample rate must be positive, got %g", config.Input.SampleRate)
	}
	return &config, nil
}
