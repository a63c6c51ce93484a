package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/internal/segment"
	"github.com/nguyentantai21042004/video-recap/internal/transcriber"
)

const (
	StageSegmentation  = "segmentation"
	StageTranscription = "transcription"
)

// StageError names the pipeline stage that failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// PipelineConfig holds everything the transcription entry point needs.
type PipelineConfig struct {
	// Sources strictly longer than this are segmented.
	SegmentThresholdSeconds float64
	SegmentDurationSeconds  int
	// WorkingDirectory receives one fresh segment directory per call.
	WorkingDirectory string
	ComputeDevice    string
	MaxWorkers       int
}

// PipelineConfigFrom derives a PipelineConfig from the loaded configuration.
func PipelineConfigFrom(cfg *config.Config) PipelineConfig {
	return PipelineConfig{
		SegmentThresholdSeconds: cfg.Pipeline.SegmentThresholdSeconds,
		SegmentDurationSeconds:  cfg.Pipeline.SegmentDurationSeconds,
		WorkingDirectory:        cfg.Paths.Temp,
		ComputeDevice:           transcriber.ResolveDevice(cfg.Whisper.Device),
		MaxWorkers:              cfg.Performance.MaxWorkers,
	}
}

// Pipeline is the transcription entry point: short audio goes straight to the
// transcriber, long audio is segmented and transcribed in parallel.
type Pipeline struct {
	cfg         PipelineConfig
	segmenter   segment.Segmenter
	transcriber transcriber.Transcriber
	logger      logger.Logger
}

// NewPipeline creates a new Pipeline instance
func NewPipeline(cfg PipelineConfig, seg segment.Segmenter, tr transcriber.Transcriber, log logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, segmenter: seg, transcriber: tr, logger: log}
}

// NeedsSegmentation reports whether audio of this length takes the segmented path.
func (p *Pipeline) NeedsSegmentation(totalSeconds float64) bool {
	return totalSeconds > p.cfg.SegmentThresholdSeconds
}

// Transcribe returns the transcript of audioPath whose length is totalSeconds.
func (p *Pipeline) Transcribe(ctx context.Context, totalSeconds float64, audioPath string) (string, error) {
	if !p.NeedsSegmentation(totalSeconds) {
		p.logger.Info(ctx, "Transcribing %s directly (%.0fs, device=%s)", audioPath, totalSeconds, p.cfg.ComputeDevice)
		text, err := p.transcriber.Transcribe(ctx, audioPath)
		if err != nil {
			return "", &StageError{Stage: StageTranscription, Err: err}
		}
		return text, nil
	}

	segDir := filepath.Join(p.cfg.WorkingDirectory, "segments-"+uuid.NewString())
	defer func() {
		if err := os.RemoveAll(segDir); err != nil {
			p.logger.Warn(ctx, "Failed to remove segment dir %s: %v", segDir, err)
		}
	}()

	p.logger.Info(ctx, "Audio is %.0fs (> %.0fs), segmenting into %ds chunks",
		totalSeconds, p.cfg.SegmentThresholdSeconds, p.cfg.SegmentDurationSeconds)

	paths, err := p.segmenter.Split(ctx, audioPath, p.cfg.SegmentDurationSeconds, segDir)
	if err != nil {
		return "", &StageError{Stage: StageSegmentation, Err: err}
	}

	text, err := NewCoordinator(p.transcriber, p.cfg.MaxWorkers, p.logger).TranscribeAll(ctx, paths)
	if err != nil {
		return "", &StageError{Stage: StageTranscription, Err: err}
	}
	return text, nil
}
