package mux

import (
	"context"

	"github.com/ytget/ytfetch/internal/model"
)

// Muxer defines the interface for the merge service.
type Muxer interface {
	SetUpdateCallback(func(*model.MuxTask))
	Merge(ctx context.Context, videoPath, audioPath, outputPath string) (*model.MuxTask, error)
}

// Runner executes an external command and returns what it wrote to stderr.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
