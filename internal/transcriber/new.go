package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

// Options carries the model settings shared by the local engines.
type Options struct {
	ModelPath  string
	BinaryPath string
	Language   string
	Prompt     string
	Threads    int
	// Device is cpu or gpu; resolve auto with ResolveDevice first.
	Device    string
	ExtraArgs string
}

// OptionsFromConfig builds engine options from the whisper section,
// resolving the device preference.
func OptionsFromConfig(cfg config.WhisperConfig) Options {
	return Options{
		ModelPath:  cfg.ModelPath,
		BinaryPath: cfg.BinaryPath,
		Language:   cfg.Language,
		Prompt:     cfg.Prompt,
		Threads:    cfg.Threads,
		Device:     ResolveDevice(cfg.Device),
		ExtraArgs:  cfg.ExtraArgs,
	}
}

// New returns the Transcriber selected by whisper.engine, running on device
// (cpu or gpu; empty resolves whisper.device). configPath is forwarded to
// worker processes for the process engine.
func New(cfg *config.Config, device string, exec executor.Executor, log logger.Logger, configPath string) (Transcriber, error) {
	opts := OptionsFromConfig(cfg.Whisper)
	if device != "" {
		opts.Device = device
	}
	switch cfg.Whisper.Engine {
	case config.EngineProcess:
		return NewProcess(exec, log, ProcessOptions{ConfigPath: configPath, Device: opts.Device})
	default:
		return newLocal(cfg.Whisper.Engine, exec, log, opts)
	}
}

// NewLocal returns the in-process engine a worker runs (whisper.worker_engine).
func NewLocal(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	return newLocal(cfg.Whisper.WorkerEngine, exec, log, OptionsFromConfig(cfg.Whisper))
}

func newLocal(engine string, exec executor.Executor, log logger.Logger, opts Options) (Transcriber, error) {
	switch engine {
	case config.EngineWhisperCLI:
		return NewWhisperCLI(exec, log, opts)
	case config.EngineWhisper:
		return NewWhisper(log, opts)
	default:
		return nil, fmt.Errorf("unknown transcription engine %q", engine)
	}
}
