// Package myaudio decodes audio recordings into the canonical form the
// classifier expects: mono float32 samples at the model rate, split into
// padded analysis windows.
package myaudio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sonobird/sonobird/internal/conf"
	"github.com/sonobird/sonobird/internal/errors"
	"github.com/sonobird/sonobird/internal/logging"
)

// ErrDecode is the terminal failure for corrupt or unsupported audio input.
var ErrDecode = errors.NewStd("audio decode failed")

var log = logging.ForService("myaudio")

// AudioInfo holds the format properties of an audio file.
type AudioInfo struct {
	SampleRate   int
	TotalSamples int
	NumChannels  int
	BitDepth     int
}

// AudioChunkCallback receives each complete analysis window during decoding.
type AudioChunkCallback func(chunk []float32) error

// GetAudioInfo returns format information for a WAV or FLAC file.
func GetAudioInfo(filePath string) (AudioInfo, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return AudioInfo{}, decodeError(filePath, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".wav":
		info, err := readWAVInfo(file)
		if err != nil {
			return AudioInfo{}, decodeError(filePath, err)
		}
		return info, nil
	case ".flac":
		info, err := readFLACInfo(file)
		if err != nil {
			return AudioInfo{}, decodeError(filePath, err)
		}
		return info, nil
	default:
		return AudioInfo{}, decodeError(filePath, fmt.Errorf("unsupported audio format: %s", filepath.Ext(filePath)))
	}
}

// ReadAudioData decodes the file at path into 3-second float32 chunks at the
// model sample rate. Containers other than WAV and FLAC are converted through
// ffmpeg first when it is available on the system.
func ReadAudioData(ctx context.Context, settings *conf.Settings, path string) ([][]float32, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".flac" {
		converted, cleanup, err := convertWithFFmpeg(ctx, path)
		if err != nil {
			return nil, decodeError(path, err)
		}
		defer cleanup()
		path = converted
	}

	var chunks [][]float32
	err := readAudioDataBuffered(settings, path, func(chunk []float32) error {
		// Callback retains the chunk, so hand over a copy.
		owned := make([]float32, len(chunk))
		copy(owned, chunk)
		chunks = append(chunks, owned)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if settings.Debug {
		log.Debug("audio decoded", "path", filepath.Base(path), "chunks", len(chunks))
	}
	return chunks, nil
}

// readAudioDataBuffered streams complete analysis windows to the callback.
func readAudioDataBuffered(settings *conf.Settings, path string, callback AudioChunkCallback) error {
	file, err := os.Open(path)
	if err != nil {
		return decodeError(path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		if err := readWAVBuffered(file, settings, callback); err != nil {
			return decodeError(path, err)
		}
	case ".flac":
		if err := readFLACBuffered(file, settings, callback); err != nil {
			return decodeError(path, err)
		}
	default:
		return decodeError(path, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path)))
	}
	return nil
}

// getAudioDivisor maps bit depth to the PCM-to-float32 conversion divisor.
func getAudioDivisor(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("unsupported audio file bit depth: %d", bitDepth)
	}
}

// chunkSamples returns the window length, minimum tail length and step size
// in samples at the model rate.
func chunkSamples(overlap float64) (windowSamples, minTailSamples, stepSamples int) {
	windowSamples = conf.ChunkSeconds * conf.SampleRate
	minTailSamples = windowSamples / 2
	stepSamples = int((float64(conf.ChunkSeconds) - overlap) * conf.SampleRate)
	return windowSamples, minTailSamples, stepSamples
}

// emitChunks feeds complete windows from currentChunk to the callback and
// returns the remaining samples.
func emitChunks(currentChunk []float32, overlap float64, callback AudioChunkCallback) ([]float32, error) {
	windowSamples, _, stepSamples := chunkSamples(overlap)
	for len(currentChunk) >= windowSamples {
		if err := callback(currentChunk[:windowSamples]); err != nil {
			return nil, err
		}
		currentChunk = currentChunk[stepSamples:]
	}
	return currentChunk, nil
}

// emitTail pads and emits a final partial window if it is long enough to be
// worth analyzing.
func emitTail(currentChunk []float32, overlap float64, callback AudioChunkCallback) error {
	windowSamples, minTailSamples, _ := chunkSamples(overlap)
	if len(currentChunk) < minTailSamples {
		return nil
	}
	if len(currentChunk) < windowSamples {
		padding := make([]float32, windowSamples-len(currentChunk))
		currentChunk = append(currentChunk, padding...)
	}
	return callback(currentChunk)
}

func decodeError(path string, err error) error {
	return errors.New(fmt.Errorf("%w: %s: %w", ErrDecode, filepath.Base(path), err)).
		Component("myaudio").
		Category(errors.CategoryAudioDecode).
		Context("file_extension", strings.ToLower(filepath.Ext(path))).
		Build()
}
