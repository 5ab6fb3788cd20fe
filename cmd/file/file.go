package file

import (
	"github.com/spf13/cobra"

	"github.com/sonobird/sonobird/internal/analysis"
	"github.com/sonobird/sonobird/internal/conf"
)

// Command creates a new file command for analyzing a single local audio file.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "file [input.wav]",
		Short: "Analyze a local audio file",
		Long:  `Analyze a single local audio recording for bird calls and songs.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			return analysis.FileAnalysis(cmd.Context(), settings)
		},
	}
}
