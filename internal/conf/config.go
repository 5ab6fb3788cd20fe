// config.go: settings struct and viper-backed configuration loading for sonobird.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sonobird/sonobird/internal/errors"
)

// Audio constants required by the classifier model.
const (
	SampleRate   = 48000 // samples per second expected by the model
	NumChannels  = 1
	ChunkSeconds = 3 // model input window length in seconds
)

// InputSettings describes the single recording to analyze.
type InputSettings struct {
	Path string // local audio file path
	URL  string // remote audio file URL, mutually exclusive with Path
}

// BirdNETSettings contains classifier model settings.
type BirdNETSettings struct {
	ModelPath   string  // path to the TFLite model file
	LabelPath   string  // path to the species label file
	Sensitivity float64 // sigmoid sensitivity, 0.0 to 1.5
	Overlap     float64 // overlap between analysis windows, 0.0 to 2.9
	Threads     int     // tflite interpreter threads, 0 for automatic
}

// AlertSettings carries the alerting thresholds and the rare species registry.
type AlertSettings struct {
	LowConfidence float64  // strict upper bound below which a low-confidence alert fires
	UnknownSound  float64  // strict upper bound below which an unknown-sound alert fires
	RareSpecies   []string // species labels treated as rare, matched case-insensitively
}

// OutputSettings controls report rendering and optional file output.
type OutputSettings struct {
	TopN int    // number of ranked predictions to show
	File string // optional path to also write the report to
}

// LogSettings controls the optional JSON file log.
type LogSettings struct {
	Enabled bool
	Path    string
}

// FetchSettings controls remote audio acquisition.
type FetchSettings struct {
	TimeoutSeconds int // per-request timeout for downloads
	MaxRetries     int // bounded retry count for transient failures
}

// Settings contains all application settings.
type Settings struct {
	Debug bool

	Input   InputSettings
	BirdNET BirdNETSettings
	Alerts  AlertSettings
	Output  OutputSettings
	Log     LogSettings
	Fetch   FetchSettings
}

var (
	settingsInstance *Settings
	settingsOnce     sync.Once
)

// Load reads configuration from an optional config.yaml plus environment and
// returns validated settings. Defaults apply for anything not configured.
func Load() (*Settings, error) {
	var err error
	settingsOnce.Do(func() {
		settingsInstance, err = loadSettings()
	})
	if err != nil {
		return nil, err
	}
	return settingsInstance, nil
}

// Setting returns the shared settings instance, loading it on first use.
func Setting() *Settings {
	s, err := Load()
	if err != nil {
		panic(fmt.Sprintf("error loading settings: %v", err))
	}
	return s
}

func loadSettings() (*Settings, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := configDirs()
	if err != nil {
		return nil, err
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("operation", "read-config").
				Build()
		}
		// No config file is fine, defaults and flags cover everything.
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-config").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// configDirs returns OS-conventional configuration directories.
func configDirs() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	switch runtime.GOOS {
	case "windows":
		return []string{
			".",
			filepath.Join(homeDir, "AppData", "Roaming", "sonobird"),
		}, nil
	default:
		return []string{
			".",
			filepath.Join(homeDir, ".config", "sonobird"),
			"/etc/sonobird",
		}, nil
	}
}

// WriteDefaultConfig writes the effective settings as YAML to the given path,
// creating parent directories as needed. With no config file present this is
// the default configuration.
func WriteDefaultConfig(path string) error {
	setDefaults()
	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-defaults").
			Build()
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal-defaults").
			Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Component("conf").
				Category(errors.CategoryFileIO).
				Context("operation", "create-config-dir").
				Build()
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "write-config").
			Build()
	}
	return nil
}
