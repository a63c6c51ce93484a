package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

type whisperCLI struct {
	executor  executor.Executor
	logger    logger.Logger
	opts      Options
	extraArgs []string
}

// NewWhisperCLI creates a Transcriber that shells out to the whisper.cpp CLI.
func NewWhisperCLI(exec executor.Executor, log logger.Logger, opts Options) (Transcriber, error) {
	extra, err := shlex.Split(opts.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("parse whisper extra args: %w", err)
	}
	if opts.BinaryPath == "" {
		opts.BinaryPath = "whisper-cli"
	}
	// whisper-cli runs inside a scratch directory, so relative paths are
	// pinned to the caller's working directory here.
	if opts.ModelPath != "" {
		if opts.ModelPath, err = filepath.Abs(opts.ModelPath); err != nil {
			return nil, fmt.Errorf("resolve model path: %w", err)
		}
	}
	if strings.ContainsRune(opts.BinaryPath, '/') || strings.ContainsRune(opts.BinaryPath, filepath.Separator) {
		if opts.BinaryPath, err = filepath.Abs(opts.BinaryPath); err != nil {
			return nil, fmt.Errorf("resolve whisper binary: %w", err)
		}
	}
	return &whisperCLI{executor: exec, logger: log, opts: opts, extraArgs: extra}, nil
}

// Transcribe runs whisper-cli inside a scratch directory with plain text
// output, so the audio's own directory is never written to.
func (w *whisperCLI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}
	absAudio, err := filepath.Abs(audioPath)
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}

	scratch, err := os.MkdirTemp("", "recap-whisper-*")
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: fmt.Errorf("create scratch dir: %w", err)}
	}
	defer os.RemoveAll(scratch)

	outputPrefix := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))

	// -otxt: plain text output, -of: output prefix (whisper appends .txt)
	args := []string{
		"-m", w.opts.ModelPath,
		"-f", absAudio,
		"-otxt",
		"-of", outputPrefix,
		"-l", w.opts.Language,
		"-t", strconv.Itoa(w.opts.Threads),
	}
	if w.opts.Device == config.DeviceCPU {
		args = append(args, "-ng")
	}
	if w.opts.Prompt != "" {
		args = append(args, "--prompt", w.opts.Prompt)
	}
	args = append(args, w.extraArgs...)

	w.logger.Debug(ctx, "whisper-cli on %s (device=%s, threads=%d)", audioPath, w.opts.Device, w.opts.Threads)

	if _, err := w.executor.ExecuteInDir(ctx, scratch, w.opts.BinaryPath, args...); err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}

	data, err := os.ReadFile(filepath.Join(scratch, outputPrefix+".txt"))
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: fmt.Errorf("read whisper output: %w", err)}
	}
	return joinLines(string(data)), nil
}

// joinLines folds whisper's one-segment-per-line output into a single line.
func joinLines(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
