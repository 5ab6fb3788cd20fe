package analysis

import (
	"context"
	"os"

	"github.com/sonobird/sonobird/internal/birdnet"
	"github.com/sonobird/sonobird/internal/conf"
	"github.com/sonobird/sonobird/internal/fetcher"
)

// FileAnalysis analyzes the local audio file named in settings and prints the
// report to stdout.
func FileAnalysis(ctx context.Context, settings *conf.Settings) error {
	return run(ctx, settings, fetcher.Source{Path: settings.Input.Path})
}

// URLAnalysis downloads and analyzes the remote recording named in settings
// and prints the report to stdout.
func URLAnalysis(ctx context.Context, settings *conf.Settings) error {
	return run(ctx, settings, fetcher.Source{URL: settings.Input.URL})
}

func run(ctx context.Context, settings *conf.Settings, src fetcher.Source) error {
	classifier, err := birdnet.New(settings)
	if err != nil {
		return err
	}

	pipeline := New(settings, fetcher.New(settings), classifier, os.Stdout)
	return pipeline.Run(ctx, src)
}
