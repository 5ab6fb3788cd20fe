package url

import (
	"github.com/spf13/cobra"

	"github.com/sonobird/sonobird/internal/analysis"
	"github.com/sonobird/sonobird/internal/conf"
)

// Command creates a new url command for analyzing a remote audio recording.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "url [address]",
		Short: "Download and analyze a remote audio file",
		Long:  `Download a recording, for example from Xeno-Canto, and analyze it for bird calls and songs.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.URL = args[0]
			return analysis.URLAnalysis(cmd.Context(), settings)
		},
	}
}
