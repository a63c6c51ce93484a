package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/video-recap/internal/media"
)

// prepareAudio produces a 16 kHz mono WAV for the request inside workDir,
// downloading remote sources first.
func (p *implProcessor) prepareAudio(ctx context.Context, req Request, workDir string) (media.AudioAsset, error) {
	if req.URL != "" {
		return p.media.Fetch(ctx, req.URL, workDir)
	}

	audioPath, err := p.media.ExtractAudio(ctx, req.FilePath, workDir)
	if err != nil {
		return media.AudioAsset{}, err
	}

	duration, err := p.media.ProbeDuration(ctx, audioPath)
	if err != nil {
		return media.AudioAsset{}, fmt.Errorf("probe %s: %w", audioPath, err)
	}

	name := filepath.Base(req.FilePath)
	return media.AudioAsset{
		Path:     audioPath,
		Duration: duration,
		Title:    strings.TrimSuffix(name, filepath.Ext(name)),
	}, nil
}
