// Package analysis wires the pipeline together: resolve the audio source,
// decode it, classify it, rank the predictions, evaluate alerts and render
// the report. One recording per invocation, errors are terminal.
package analysis

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sonobird/sonobird/internal/conf"
	"github.com/sonobird/sonobird/internal/detection"
	"github.com/sonobird/sonobird/internal/errors"
	"github.com/sonobird/sonobird/internal/fetcher"
	"github.com/sonobird/sonobird/internal/logging"
	"github.com/sonobird/sonobird/internal/myaudio"
)

var log = logging.ForService("analysis")

// Classifier produces per-species confidence scores for decoded audio chunks.
// It must return at least one prediction on success.
type Classifier interface {
	Classify(ctx context.Context, chunks [][]float32) (detection.PredictionSet, error)
}

// Resolver yields a local file path for an audio source.
type Resolver interface {
	Resolve(ctx context.Context, src fetcher.Source) (string, error)
}

// Pipeline runs a single-shot analysis of one recording.
type Pipeline struct {
	settings   *conf.Settings
	resolver   Resolver
	classifier Classifier
	out        io.Writer
}

// New assembles a pipeline. out receives the rendered report, typically stdout.
func New(settings *conf.Settings, resolver Resolver, classifier Classifier, out io.Writer) *Pipeline {
	return &Pipeline{
		settings:   settings,
		resolver:   resolver,
		classifier: classifier,
		out:        out,
	}
}

// Run analyzes the given source and writes the rendered report. Any stage
// failure aborts the run with no partial report.
func (p *Pipeline) Run(ctx context.Context, src fetcher.Source) error {
	runID := uuid.NewString()
	start := time.Now()
	log.Info("analysis started", "run_id", runID, "remote", src.URL != "", "path", src.Path)

	audioPath, err := p.resolver.Resolve(ctx, src)
	if err != nil {
		return err
	}

	chunks, err := myaudio.ReadAudioData(ctx, p.settings, audioPath)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return errors.New(fmt.Errorf("%w: recording too short to analyze", myaudio.ErrDecode)).
			Component("analysis").
			Category(errors.CategoryAudioDecode).
			Context("run_id", runID).
			Build()
	}

	predictions, err := p.classifier.Classify(ctx, chunks)
	if err != nil {
		return err
	}

	ranked, err := detection.Rank(predictions)
	if err != nil {
		return err
	}

	engine := detection.NewAlertEngine(detection.AlertConfig{
		Registry:      detection.NewRegistry(p.settings.Alerts.RareSpecies),
		LowConfidence: p.settings.Alerts.LowConfidence,
		UnknownSound:  p.settings.Alerts.UnknownSound,
	})
	alerts := engine.Evaluate(ranked.Top())

	report := detection.FormatReport(ranked, alerts, p.settings.Output.TopN)

	if err := p.writeReport(report); err != nil {
		return err
	}

	log.Info("analysis completed",
		"run_id", runID,
		"top_label", ranked.Top().Label,
		"top_score", ranked.Top().Score,
		"alerts", len(alerts),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// writeReport writes the report to the pipeline output and, when configured,
// to the output file as well.
func (p *Pipeline) writeReport(report string) error {
	if _, err := io.WriteString(p.out, report); err != nil {
		return errors.New(fmt.Errorf("failed to write report: %w", err)).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Build()
	}

	if p.settings.Output.File == "" {
		return nil
	}
	if err := os.WriteFile(p.settings.Output.File, []byte(report), 0o644); err != nil {
		return errors.New(fmt.Errorf("failed to write report file: %w", err)).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("output_file", p.settings.Output.File).
			Build()
	}
	return nil
}
