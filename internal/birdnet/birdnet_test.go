package birdnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sonobird/sonobird/internal/conf"
)

func testSettings(threads int) *conf.Settings {
	return &conf.Settings{
		BirdNET: conf.BirdNETSettings{
			Sensitivity: 1.0,
			Threads:     threads,
		},
	}
}

func TestReadLabels(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "labels with blank lines",
			content:   "American Robin\n\nBlue Jay\nSpotted Owl\n",
			wantCount: 3,
		},
		{
			name:      "single label no trailing newline",
			content:   "American Robin",
			wantCount: 1,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, tt.name+".txt")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			file, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer file.Close()

			labels, err := readLabels(file)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(labels) != tt.wantCount {
				t.Errorf("expected %d labels, got %d", tt.wantCount, len(labels))
			}
		})
	}
}

func TestNewMissingModelFile(t *testing.T) {
	t.Parallel()

	settings := testSettings(0)
	settings.BirdNET.ModelPath = filepath.Join(t.TempDir(), "missing.tflite")

	if _, err := New(settings); err == nil {
		t.Fatal("expected error for missing model file")
	}
}
