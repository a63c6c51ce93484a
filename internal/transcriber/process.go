package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

// WorkerCommand is the hidden CLI subcommand that transcribes one file.
const WorkerCommand = "worker"

// WorkerResult is what a worker process prints on stdout.
type WorkerResult struct {
	Text string `json:"text"`
}

// WriteResult encodes a worker result for the parent process.
func WriteResult(w io.Writer, text string) error {
	return json.NewEncoder(w).Encode(WorkerResult{Text: text})
}

// ProcessOptions configures how worker processes are launched.
type ProcessOptions struct {
	// Binary defaults to the running executable.
	Binary     string
	ConfigPath string
	Device     string
}

type processTranscriber struct {
	executor executor.Executor
	logger   logger.Logger
	opts     ProcessOptions
}

// NewProcess creates a Transcriber that runs each file in its own worker
// process, so every transcription loads a private model instance.
func NewProcess(exec executor.Executor, log logger.Logger, opts ProcessOptions) (Transcriber, error) {
	if opts.Binary == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable: %w", err)
		}
		opts.Binary = self
	}
	return &processTranscriber{executor: exec, logger: log, opts: opts}, nil
}

func (p *processTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	args := []string{WorkerCommand}
	if p.opts.ConfigPath != "" {
		args = append(args, "--config", p.opts.ConfigPath)
	}
	if p.opts.Device != "" {
		args = append(args, "--device", p.opts.Device)
	}
	args = append(args, audioPath)

	p.logger.Debug(ctx, "Starting worker for %s", audioPath)

	out, err := p.executor.Execute(ctx, p.opts.Binary, args...)
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}

	var res WorkerResult
	if err := json.NewDecoder(strings.NewReader(out)).Decode(&res); err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: fmt.Errorf("decode worker output: %w", err)}
	}
	return res.Text, nil
}
