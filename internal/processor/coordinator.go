package processor

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/internal/transcriber"
)

// Coordinator transcribes an ordered set of segments concurrently.
type Coordinator struct {
	transcriber transcriber.Transcriber
	maxWorkers  int
	logger      logger.Logger
}

// NewCoordinator creates a Coordinator running at most maxWorkers
// transcriptions at once (NumCPU when maxWorkers <= 0).
func NewCoordinator(tr transcriber.Transcriber, maxWorkers int, log logger.Logger) *Coordinator {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &Coordinator{transcriber: tr, maxWorkers: maxWorkers, logger: log}
}

// TranscribeAll transcribes every path and joins the fragments with a single
// space in input order, whatever order they finish in. The first failure
// cancels the remaining work and no partial text is returned.
func (c *Coordinator) TranscribeAll(ctx context.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}

	workers := min(c.maxWorkers, len(paths))
	c.logger.Info(ctx, "Transcribing %d segments with %d workers", len(paths), workers)

	sem := newSemaphore(workers)
	g, gctx := errgroup.WithContext(ctx)
	fragments := make([]string, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			if err := sem.acquire(gctx); err != nil {
				return err
			}
			defer sem.release()

			text, err := c.transcriber.Transcribe(gctx, path)
			if err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
			fragments[i] = text
			c.logger.Debug(ctx, "Segment %d/%d done: %s", i+1, len(paths), path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(fragments, " "), nil
}
