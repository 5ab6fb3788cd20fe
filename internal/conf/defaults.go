// defaults.go: default configuration values for sonobird.
package conf

import "github.com/spf13/viper"

// Alert thresholds. An unknown-sound score is always also a low-confidence
// score, validation enforces unknownsound <= lowconfidence.
const (
	DefaultLowConfidenceThreshold = 0.5
	DefaultUnknownSoundThreshold  = 0.3
)

// DefaultRareSpecies is the built-in rare species registry.
var DefaultRareSpecies = []string{
	"Spotted Owl",
	"California Condor",
	"Whooping Crane",
	"Ivory-billed Woodpecker",
}

// setDefaults registers all default configuration values with viper.
func setDefaults() {
	viper.SetDefault("debug", false)

	viper.SetDefault("birdnet.modelpath", "model/BirdNET_GLOBAL_6K_V2.4_Model_FP32.tflite")
	viper.SetDefault("birdnet.labelpath", "model/labels_en.txt")
	viper.SetDefault("birdnet.sensitivity", 1.0)
	viper.SetDefault("birdnet.overlap", 0.0)
	viper.SetDefault("birdnet.threads", 0)

	viper.SetDefault("alerts.lowconfidence", DefaultLowConfidenceThreshold)
	viper.SetDefault("alerts.unknownsound", DefaultUnknownSoundThreshold)
	viper.SetDefault("alerts.rarespecies", DefaultRareSpecies)

	viper.SetDefault("output.topn", 3)
	viper.SetDefault("output.file", "")

	viper.SetDefault("log.enabled", false)
	viper.SetDefault("log.path", "log/sonobird.log")

	viper.SetDefault("fetch.timeoutseconds", 30)
	viper.SetDefault("fetch.maxretries", 3)
}
