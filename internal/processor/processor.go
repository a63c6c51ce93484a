package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/internal/media"
	"github.com/nguyentantai21042004/video-recap/internal/summarizer"
)

const defaultCaptionLanguage = "en"

// ErrInvalidRequest is returned (wrapped) when a Request fails validation.
var ErrInvalidRequest = errors.New("invalid request")

func (r *Request) validate() error {
	switch {
	case r.URL == "" && r.FilePath == "":
		return errors.New("either url or file is required")
	case r.URL != "" && r.FilePath != "":
		return errors.New("url and file are mutually exclusive")
	case r.URL != "":
		if err := media.ValidateURL(r.URL); err != nil {
			return err
		}
	case r.UseCaptions:
		return errors.New("captions are only available for urls")
	}
	if r.UseCaptions && r.CaptionLanguage == "" {
		r.CaptionLanguage = defaultCaptionLanguage
	}
	return nil
}

func (r *Request) source() string {
	if r.URL != "" {
		return r.URL
	}
	return r.FilePath
}

// Recap orchestrates one request: transcript (captions or speech-to-text),
// summary, cleaned transcript and exported files.
func (p *implProcessor) Recap(ctx context.Context, req Request) (*Recap, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	startTime := time.Now()
	rec := &Recap{RequestID: uuid.NewString(), Source: req.source()}
	ctx = logger.WithRequestID(ctx, rec.RequestID)

	p.logger.Info(ctx, "Starting recap: %s", rec.Source)

	workDir := filepath.Join(p.cfg.Paths.Temp, rec.RequestID)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer p.removeWorkDir(ctx, workDir)

	// Step 1: platform captions, when asked for and available
	if req.UseCaptions {
		if err := p.transcriptFromCaptions(ctx, req, workDir, rec); err != nil {
			return nil, fmt.Errorf("captions: %w", err)
		}
	}

	// Step 2: speech-to-text
	if !rec.FromCaptions {
		asset, err := p.prepareAudio(ctx, req, workDir)
		if err != nil {
			return nil, fmt.Errorf("prepare audio: %w", err)
		}
		rec.Title = asset.Title
		rec.DurationSeconds = asset.Duration
		rec.Segmented = p.pipeline.NeedsSegmentation(asset.Duration)

		text, err := p.pipeline.Transcribe(ctx, asset.Duration, asset.Path)
		if err != nil {
			return nil, fmt.Errorf("transcribe: %w", err)
		}
		rec.RawTranscript = text
	}
	if req.Title != "" {
		rec.Title = req.Title
	}
	rec.Length = media.FormatLength(rec.DurationSeconds)

	// Step 3: summary and cleaned transcript
	if err := p.summarize(ctx, req, rec); err != nil {
		return nil, err
	}

	// Step 4: recap files
	stem := summarizer.FileStem(rec.Title) + "_" + rec.RequestID[:8]
	outputs, err := summarizer.Export(summarizer.Document{
		Title:      rec.Title,
		Source:     rec.Source,
		Length:     rec.Length,
		Summary:    rec.Summary,
		Transcript: firstNonEmpty(rec.FullTranscript, rec.RawTranscript),
	}, p.cfg.Paths.Output, stem, p.cfg.Export.Formats)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	rec.Outputs = outputs

	p.logger.Info(ctx, "Recap completed in %s: %s", time.Since(startTime).Round(time.Millisecond), strings.Join(outputs, ", "))
	return rec, nil
}

func (p *implProcessor) summarize(ctx context.Context, req Request, rec *Recap) error {
	if p.summarizer == nil {
		p.logger.Warn(ctx, "No Gemini API key configured, skipping summary")
		return nil
	}
	if strings.TrimSpace(rec.RawTranscript) == "" {
		p.logger.Warn(ctx, "Transcript is empty, skipping summary")
		return nil
	}

	summary, err := p.summarizer.Summarize(ctx, rec.RawTranscript, req.Language)
	if err != nil {
		return err
	}
	rec.Summary = summary

	full, err := p.summarizer.CleanTranscript(ctx, rec.RawTranscript)
	if err != nil {
		return err
	}
	rec.FullTranscript = full
	return nil
}

// ProcessFile recaps a local video and moves it to the archive folder.
func (p *implProcessor) ProcessFile(ctx context.Context, videoPath string) error {
	rec, err := p.Recap(ctx, Request{FilePath: videoPath})
	if err != nil {
		return err
	}

	if err := p.moveToArchived(logger.WithRequestID(ctx, rec.RequestID), videoPath); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
