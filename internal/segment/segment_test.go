package segment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

// fakeExecutor records the ffmpeg call and writes the requested number of
// segment files in reverse order.
type fakeExecutor struct {
	segments int
	err      error
	calls    [][]string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return "", f.err
	}
	pattern := args[len(args)-1]
	for i := f.segments - 1; i >= 0; i-- {
		if err := os.WriteFile(fmt.Sprintf(pattern, i), []byte("x"), 0644); err != nil {
			return "", err
		}
	}
	return "", nil
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func newTestSegmenter(t *testing.T, ex executor.Executor, extra string) Segmenter {
	t.Helper()
	s, err := New(ex, logger.New("error"), Options{FFmpegPath: "ffmpeg", ExtraArgs: extra})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSplitReturnsOrderedSegments(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "talk.wav")
	touch(t, src)
	out := filepath.Join(dir, "segments")

	fake := &fakeExecutor{segments: 4}
	paths, err := newTestSegmenter(t, fake, "").Split(context.Background(), src, 900, out)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	want := []string{"segment_000.wav", "segment_001.wav", "segment_002.wav", "segment_003.wav"}
	if len(paths) != len(want) {
		t.Fatalf("Split() returned %d paths, want %d", len(paths), len(want))
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, filepath.Base(p), want[i])
		}
	}

	if len(fake.calls) != 1 {
		t.Fatalf("ffmpeg called %d times, want 1", len(fake.calls))
	}
	cmd := strings.Join(fake.calls[0], " ")
	for _, part := range []string{"-f segment", "-segment_time 900", "-c copy", "-i " + src} {
		if !strings.Contains(cmd, part) {
			t.Errorf("command %q missing %q", cmd, part)
		}
	}
}

func TestSplitExtraArgs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "talk.m4a")
	touch(t, src)

	fake := &fakeExecutor{segments: 1}
	paths, err := newTestSegmenter(t, fake, "-loglevel 'error'").Split(context.Background(), src, 60, dir)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(paths) != 1 || filepath.Ext(paths[0]) != ".m4a" {
		t.Errorf("paths = %v, want one .m4a segment", paths)
	}

	args := fake.calls[0]
	if args[len(args)-3] != "-loglevel" || args[len(args)-2] != "error" {
		t.Errorf("extra args not placed before output: %v", args)
	}
}

func TestSplitMissingSource(t *testing.T) {
	fake := &fakeExecutor{segments: 2}
	_, err := newTestSegmenter(t, fake, "").Split(context.Background(), "/nonexistent/a.wav", 900, t.TempDir())

	var toolErr *ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %v is not *ExternalToolError", err)
	}
	if len(fake.calls) != 0 {
		t.Error("ffmpeg should not run for a missing source")
	}
}

func TestSplitInvalidDuration(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.wav")
	touch(t, src)

	for _, secs := range []int{0, -5} {
		fake := &fakeExecutor{segments: 1}
		if _, err := newTestSegmenter(t, fake, "").Split(context.Background(), src, secs, dir); err == nil {
			t.Errorf("Split(%d) should fail", secs)
		}
		if len(fake.calls) != 0 {
			t.Errorf("Split(%d) should not run ffmpeg", secs)
		}
	}
}

func TestSplitToolFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.wav")
	touch(t, src)

	fake := &fakeExecutor{err: &executor.CommandError{
		Name:     "ffmpeg",
		ExitCode: 1,
		Stderr:   "Invalid data found when processing input",
		Err:      errors.New("exit status 1"),
	}}
	_, err := newTestSegmenter(t, fake, "").Split(context.Background(), src, 900, dir)

	var toolErr *ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %v is not *ExternalToolError", err)
	}
	if toolErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", toolErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("Error() = %q should carry tool output", err.Error())
	}
}

func TestSplitNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.wav")
	touch(t, src)

	_, err := newTestSegmenter(t, &fakeExecutor{}, "").Split(context.Background(), src, 900, filepath.Join(dir, "out"))
	var toolErr *ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %v is not *ExternalToolError", err)
	}
}

func TestNewRejectsBadArgs(t *testing.T) {
	if _, err := New(&fakeExecutor{}, logger.New("error"), Options{ExtraArgs: "-x 'unterminated"}); err == nil {
		t.Error("New() should reject unbalanced quotes")
	}
}

func writeTone(t *testing.T, path string, seconds float64) {
	t.Helper()
	const rate = 16000
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	n := int(seconds * rate)
	data := make([]int, n)
	for i := range data {
		data[i] = (i % 64) * 256
	}
	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func wavSeconds(t *testing.T, path string) float64 {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d, err := wav.NewDecoder(f).Duration()
	if err != nil {
		t.Fatalf("duration of %s: %v", path, err)
	}
	return d.Seconds()
}

func TestSplitWithFFmpegPreservesDuration(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "tone.wav")
	writeTone(t, src, 5.5)

	paths, err := newTestSegmenter(t, executor.New(), "").Split(context.Background(), src, 2, filepath.Join(dir, "segments"))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Split() returned %d segments, want 3", len(paths))
	}

	var total float64
	for i, p := range paths {
		secs := wavSeconds(t, p)
		if i < len(paths)-1 && (secs < 1.9 || secs > 2.1) {
			t.Errorf("segment %d lasts %.3fs, want ~2s", i, secs)
		}
		total += secs
	}
	if total < 5.45 || total > 5.55 {
		t.Errorf("segments sum to %.3fs, want ~5.5s", total)
	}
}
