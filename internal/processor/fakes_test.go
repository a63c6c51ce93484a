package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nguyentantai21042004/video-recap/internal/media"
	"github.com/nguyentantai21042004/video-recap/internal/transcriber"
)

// fakeTranscriber returns "text:<basename>" for every file.
type fakeTranscriber struct {
	mu    sync.Mutex
	calls []string

	// fail maps a base name to the error returned for it.
	fail  map[string]error
	delay func(path string) time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		old := f.maxInFlight.Load()
		if n <= old || f.maxInFlight.CompareAndSwap(old, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	if err, ok := f.fail[filepath.Base(path)]; ok {
		return "", &transcriber.TranscriptionError{Path: path, Err: err}
	}
	if f.delay != nil {
		select {
		case <-time.After(f.delay(path)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "text:" + filepath.Base(path), nil
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeSegmenter returns n segment paths inside the output dir.
type fakeSegmenter struct {
	n     int
	err   error
	calls int
	dirs  []string
}

func (f *fakeSegmenter) Split(ctx context.Context, src string, secs int, dir string) ([]string, error) {
	f.calls++
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return nil, f.err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, f.n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("segment_%03d.wav", i))
	}
	return paths, nil
}

type fakeMedia struct {
	duration     float64
	info         media.Info
	captions     string
	captionsErr  error
	fetchCalls   int
	extractCalls int
}

func (f *fakeMedia) ExtractAudio(ctx context.Context, inputPath, outDir string) (string, error) {
	f.extractCalls++
	path := filepath.Join(outDir, "audio.wav")
	return path, os.WriteFile(path, []byte("wav"), 0644)
}

func (f *fakeMedia) ProbeDuration(ctx context.Context, path string) (float64, error) {
	return f.duration, nil
}

func (f *fakeMedia) Fetch(ctx context.Context, url, outDir string) (media.AudioAsset, error) {
	f.fetchCalls++
	path, err := f.ExtractAudio(ctx, url, outDir)
	return media.AudioAsset{Path: path, Duration: f.duration, Title: f.info.Title}, err
}

func (f *fakeMedia) VideoInfo(ctx context.Context, url string) (media.Info, error) {
	return f.info, nil
}

func (f *fakeMedia) ListCaptions(ctx context.Context, url string) (map[string]string, error) {
	return map[string]string{"en": "English"}, nil
}

func (f *fakeMedia) FetchCaptions(ctx context.Context, url, language, outDir string) (string, error) {
	return f.captions, f.captionsErr
}

type fakeSummarizer struct {
	languages []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript, language string) (string, error) {
	f.languages = append(f.languages, language)
	return "summary of " + transcript, nil
}

func (f *fakeSummarizer) CleanTranscript(ctx context.Context, transcript string) (string, error) {
	return "clean " + transcript, nil
}

func (f *fakeSummarizer) DetectLanguage(text string) string {
	return "English"
}
