package segment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

// Split cuts sourcePath into segmentSeconds-long pieces inside outputDir using
// ffmpeg's segment muxer with stream copy. The last piece holds the remainder.
// Returned paths are in chronological order.
func (s *implSegmenter) Split(ctx context.Context, sourcePath string, segmentSeconds int, outputDir string) ([]string, error) {
	if segmentSeconds <= 0 {
		return nil, fmt.Errorf("segment duration must be positive, got %d", segmentSeconds)
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, &ExternalToolError{
			Tool:     s.ffmpeg,
			ExitCode: -1,
			Err:      fmt.Errorf("source audio: %w", err),
		}
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create segment dir: %w", err)
	}

	ext := filepath.Ext(sourcePath)
	if ext == "" {
		ext = ".wav"
	}

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", sourcePath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentSeconds),
		"-reset_timestamps", "1",
		"-map", "0:a",
		"-c", "copy", // no re-encode
	}
	args = append(args, s.extraArgs...)
	args = append(args, filepath.Join(outputDir, s.prefix+"_%03d"+ext))

	s.logger.Info(ctx, "Splitting %s into %ds segments", sourcePath, segmentSeconds)

	if _, err := s.executor.Execute(ctx, s.ffmpeg, args...); err != nil {
		toolErr := &ExternalToolError{Tool: s.ffmpeg, Args: args, ExitCode: -1, Err: err}
		var cmdErr *executor.CommandError
		if errors.As(err, &cmdErr) {
			toolErr.ExitCode = cmdErr.ExitCode
			toolErr.Output = cmdErr.Stderr
			toolErr.Err = cmdErr.Err
		}
		return nil, toolErr
	}

	paths, err := s.collect(outputDir, ext)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	if len(paths) == 0 {
		return nil, &ExternalToolError{
			Tool: s.ffmpeg,
			Args: args,
			Err:  fmt.Errorf("no segments written to %s", outputDir),
		}
	}

	s.logger.Info(ctx, "Created %d segments in %s", len(paths), outputDir)
	return paths, nil
}

// collect returns <prefix>_*<ext> files in dir. The zero-padded index makes
// lexical order chronological.
func (s *implSegmenter) collect(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, s.prefix+"_") || !strings.HasSuffix(name, ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
