package media

import (
	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

type implMedia struct {
	ffmpeg   config.FFmpegConfig
	ytdlp    string
	formats  string
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Media instance
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Media {
	return &implMedia{
		ffmpeg:   cfg.FFmpeg,
		ytdlp:    cfg.Media.YTDLPPath,
		formats:  cfg.Media.Formats,
		executor: exec,
		logger:   log,
	}
}
