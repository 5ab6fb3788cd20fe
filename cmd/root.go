package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sonobird/sonobird/cmd/config"
	"github.com/sonobird/sonobird/cmd/file"
	"github.com/sonobird/sonobird/cmd/url"
	"github.com/sonobird/sonobird/internal/conf"
	"github.com/sonobird/sonobird/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sonobird",
		Short: "Identify bird species in a sound recording",
		Long: `sonobird classifies a single bird-sound recording with a BirdNET
TensorFlow Lite model and prints a ranked report with operator alerts for
rare species, low classifier confidence and possibly-unknown sounds.`,
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		file.Command(settings),
		url.Command(settings),
		config.Command(),
	)

	// Flag defaults come from viper, so after flag parsing the settings
	// struct reflects flags over config file over defaults. Validate the
	// combined result before any subcommand runs.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if settings.Debug {
			logging.Init(slog.LevelDebug)
		}
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.BirdNET.ModelPath, "model", viper.GetString("birdnet.modelpath"), "Path to the TFLite model file")
	rootCmd.PersistentFlags().StringVar(&settings.BirdNET.LabelPath, "labels", viper.GetString("birdnet.labelpath"), "Path to the species label file")
	rootCmd.PersistentFlags().Float64VarP(&settings.BirdNET.Sensitivity, "sensitivity", "s", viper.GetFloat64("birdnet.sensitivity"), "Sigmoid sensitivity value between 0.0 and 1.5")
	rootCmd.PersistentFlags().Float64Var(&settings.BirdNET.Overlap, "overlap", viper.GetFloat64("birdnet.overlap"), "Overlap between analysis windows, between 0.0 and 2.9")
	rootCmd.PersistentFlags().IntVarP(&settings.Output.TopN, "topn", "n", viper.GetInt("output.topn"), "Number of ranked predictions to show")
	rootCmd.PersistentFlags().StringVarP(&settings.Output.File, "output", "o", viper.GetString("output.file"), "Also write the report to this file")
}
