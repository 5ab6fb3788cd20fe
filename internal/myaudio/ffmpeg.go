package myaudio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sonobird/sonobird/internal/conf"
)

// convertWithFFmpeg converts an arbitrary audio container (mp3, ogg, m4a...)
// to a mono WAV at the model sample rate using an ffmpeg subprocess. It
// returns the converted file path and a cleanup function for it.
func convertWithFFmpeg(ctx context.Context, inputPath string) (string, func(), error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", nil, fmt.Errorf("unsupported audio format %s and ffmpeg is not available", filepath.Ext(inputPath))
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(os.TempDir(), base+"-converted.wav")

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", inputPath,
		"-ac", strconv.Itoa(conf.NumChannels),
		"-ar", strconv.Itoa(conf.SampleRate),
		"-sample_fmt", "s16",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", nil, fmt.Errorf("ffmpeg conversion failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	log.Debug("converted audio with ffmpeg",
		"input", filepath.Base(inputPath),
		"output", filepath.Base(outputPath))

	cleanup := func() {
		if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to remove converted file", "path", outputPath, "error", err)
		}
	}
	return outputPath, cleanup, nil
}
