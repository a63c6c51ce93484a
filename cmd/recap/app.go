package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/internal/media"
	"github.com/nguyentantai21042004/video-recap/internal/processor"
	"github.com/nguyentantai21042004/video-recap/internal/segment"
	"github.com/nguyentantai21042004/video-recap/internal/summarizer"
	"github.com/nguyentantai21042004/video-recap/internal/transcriber"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	media     media.Media
	pipeline  *processor.Pipeline
	processor processor.Processor
}

func loadConfig(cfgPath string) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.Configure(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, log, nil
}

func newApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, log, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	log.Debug(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	exec := executor.New()
	m := media.New(cfg, exec, log)

	seg, err := segment.New(exec, log, segment.Options{
		FFmpegPath: cfg.FFmpeg.BinaryPath,
		Prefix:     cfg.FFmpeg.SegmentName,
		ExtraArgs:  cfg.FFmpeg.SegmentArgs,
	})
	if err != nil {
		return nil, err
	}

	absCfg, err := filepath.Abs(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	pcfg := processor.PipelineConfigFrom(cfg)
	tr, err := transcriber.New(cfg, pcfg.ComputeDevice, exec, log, absCfg)
	if err != nil {
		return nil, err
	}
	pipe := processor.NewPipeline(pcfg, seg, tr, log)

	var sum summarizer.Summarizer
	if len(cfg.Gemini.APIKeys) > 0 {
		sum, err = summarizer.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn(ctx, "No Gemini API keys configured; recaps will carry the raw transcript only")
	}

	return &app{
		cfg:       cfg,
		log:       log,
		media:     m,
		pipeline:  pipe,
		processor: processor.New(cfg, m, pipe, sum, log),
	}, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
