package processor

import (
	"context"
	"strings"
)

// transcriptFromCaptions fills rec from the video's uploaded captions. When no
// track matches the requested language rec is left for speech-to-text.
func (p *implProcessor) transcriptFromCaptions(ctx context.Context, req Request, workDir string, rec *Recap) error {
	info, err := p.media.VideoInfo(ctx, req.URL)
	if err != nil {
		return err
	}
	rec.Title = info.Title
	rec.DurationSeconds = info.Duration

	text, err := p.media.FetchCaptions(ctx, req.URL, req.CaptionLanguage, workDir)
	if err != nil {
		p.logger.Warn(ctx, "Failed to fetch captions, falling back to transcription: %v", err)
		return nil
	}
	if strings.TrimSpace(text) == "" {
		p.logger.Info(ctx, "No %q captions, falling back to transcription", req.CaptionLanguage)
		return nil
	}

	p.logger.Info(ctx, "Using %q captions (%d chars)", req.CaptionLanguage, len(text))
	rec.RawTranscript = text
	rec.FromCaptions = true
	return nil
}
