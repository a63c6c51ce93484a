//go:build whisper

package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
)

type whisperBindings struct {
	logger logger.Logger
	opts   Options
}

// NewWhisper creates an in-process Transcriber backed by the whisper.cpp bindings.
func NewWhisper(log logger.Logger, opts Options) (Transcriber, error) {
	if opts.ModelPath == "" {
		return nil, errors.New("whisper model path is required")
	}
	return &whisperBindings{logger: log, opts: opts}, nil
}

// Transcribe loads the model for this call only and releases it afterwards.
func (w *whisperBindings) Transcribe(ctx context.Context, audioPath string) (string, error) {
	samples, err := readWAV16kMono(audioPath)
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}

	model, err := whisper.New(w.opts.ModelPath)
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: fmt.Errorf("load model: %w", err)}
	}
	defer func() { _ = model.Close() }()

	wctx, err := model.NewContext()
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: fmt.Errorf("new context: %w", err)}
	}
	if lang := strings.TrimSpace(w.opts.Language); lang != "" {
		_ = wctx.SetLanguage(lang)
	}
	if w.opts.Threads > 0 {
		wctx.SetThreads(uint(w.opts.Threads))
	}

	w.logger.Debug(ctx, "whisper bindings on %s (%d samples)", audioPath, len(samples))

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}

	var b strings.Builder
	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &TranscriptionError{Path: audioPath, Err: err}
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(seg.Text))
	}
	return b.String(), nil
}
