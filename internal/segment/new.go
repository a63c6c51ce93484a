package segment

import (
	"fmt"

	"github.com/google/shlex"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

const defaultPrefix = "segment"

type implSegmenter struct {
	executor  executor.Executor
	logger    logger.Logger
	ffmpeg    string
	prefix    string
	extraArgs []string
}

// Options configures the ffmpeg invocation used for splitting.
type Options struct {
	FFmpegPath string
	Prefix     string
	// ExtraArgs is a shell-style string appended before the output pattern.
	ExtraArgs string
}

// New creates a new Segmenter instance
func New(exec executor.Executor, log logger.Logger, opts Options) (Segmenter, error) {
	extra, err := shlex.Split(opts.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("parse segment args: %w", err)
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}
	return &implSegmenter{
		executor:  exec,
		logger:    log,
		ffmpeg:    opts.FFmpegPath,
		prefix:    opts.Prefix,
		extraArgs: extra,
	}, nil
}
