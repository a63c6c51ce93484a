package processor

import (
	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/internal/media"
	"github.com/nguyentantai21042004/video-recap/internal/summarizer"
)

type implProcessor struct {
	cfg        *config.Config
	media      media.Media
	pipeline   *Pipeline
	summarizer summarizer.Summarizer
	logger     logger.Logger
}

// New creates a new Processor instance. sum may be nil, in which case
// recaps carry the raw transcript only.
func New(cfg *config.Config, m media.Media, pipe *Pipeline, sum summarizer.Summarizer, log logger.Logger) Processor {
	return &implProcessor{
		cfg:        cfg,
		media:      m,
		pipeline:   pipe,
		summarizer: sum,
		logger:     log,
	}
}
