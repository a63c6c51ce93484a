package segment

import "context"

// Segmenter splits an audio file into consecutive fixed-length segments.
//
// Split does not clear outputDir first. Callers that reuse a directory must
// empty it themselves or stale segments will be returned alongside new ones.
type Segmenter interface {
	Split(ctx context.Context, sourcePath string, segmentSeconds int, outputDir string) ([]string, error)
}
