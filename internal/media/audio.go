package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
)

// ExtractAudio converts any ffmpeg-readable input into a mono PCM WAV at the
// configured sample rate (16 kHz by default, what whisper expects).
func (m *implMedia) ExtractAudio(ctx context.Context, inputPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	audioPath := filepath.Join(outDir, base+"_audio.wav")

	m.logger.Info(ctx, "Extracting audio: %s", inputPath)

	// -vn: drop video, -ac 1: mono, -threads 0: all cores
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-i", inputPath,
		"-vn",
		"-ar", strconv.Itoa(m.ffmpeg.SampleRate),
		"-ac", "1",
		"-c:a", m.ffmpeg.AudioCodec,
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := m.executor.Execute(ctx, m.ffmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	m.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}

// ProbeDuration returns the length of a media file in seconds. WAV files are
// measured from their header when ffprobe is unavailable.
func (m *implMedia) ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := m.executor.Execute(ctx, m.ffmpeg.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err == nil {
		secs, perr := strconv.ParseFloat(strings.TrimSpace(out), 64)
		if perr == nil && secs >= 0 {
			return secs, nil
		}
		err = fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(out), perr)
	}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		secs, werr := wavDuration(path)
		if werr == nil {
			m.logger.Debug(ctx, "ffprobe failed (%v), using wav header for %s", err, path)
			return secs, nil
		}
	}
	return 0, fmt.Errorf("probe duration: %w", err)
}

func wavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s is not a valid wav file", path)
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}
