package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EngineProcess    = "process"
	EngineWhisperCLI = "whispercli"
	EngineWhisper    = "whisper"

	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceGPU  = "gpu"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Server      ServerConfig      `yaml:"server"`
	Media       MediaConfig       `yaml:"media"`
	Export      ExportConfig      `yaml:"export"`
}

type WhisperConfig struct {
	// Engine used by the pipeline: process, whispercli or whisper.
	Engine string `yaml:"engine"`
	// WorkerEngine is the local engine a worker process runs.
	WorkerEngine string `yaml:"worker_engine"`
	ModelPath    string `yaml:"model_path"`
	BinaryPath   string `yaml:"binary_path"`
	Language     string `yaml:"language"`
	Prompt       string `yaml:"prompt"`
	Threads      int    `yaml:"threads"`
	Device       string `yaml:"device"` // auto, cpu, gpu
	ExtraArgs    string `yaml:"extra_args"`
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	SampleRate  int    `yaml:"sample_rate"`
	SegmentArgs string `yaml:"segment_args"`
	SegmentName string `yaml:"segment_name"`
	AudioCodec  string `yaml:"audio_codec"`
}

type PipelineConfig struct {
	SegmentThresholdSeconds float64 `yaml:"segment_threshold_seconds"`
	SegmentDurationSeconds  int     `yaml:"segment_duration_seconds"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	// Console writes log lines to stderr.
	Console bool `yaml:"console"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
	MaxWorkers    int `yaml:"max_workers"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type MediaConfig struct {
	YTDLPPath string `yaml:"ytdlp_path"`
	Formats   string `yaml:"formats"`
}

type ExportConfig struct {
	// Formats lists the recap files written per request: md, docx, pdf.
	Formats []string `yaml:"formats"`
}

// Load reads a YAML config file, applies RECAP_* environment overrides and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Whisper.Engine == "" {
		c.Whisper.Engine = EngineProcess
	}
	if c.Whisper.WorkerEngine == "" {
		c.Whisper.WorkerEngine = EngineWhisperCLI
	}
	switch c.Whisper.Engine {
	case EngineProcess, EngineWhisperCLI, EngineWhisper:
	default:
		return fmt.Errorf("whisper.engine must be one of process, whispercli, whisper (got %q)", c.Whisper.Engine)
	}
	switch c.Whisper.WorkerEngine {
	case EngineWhisperCLI, EngineWhisper:
	default:
		return fmt.Errorf("whisper.worker_engine must be whispercli or whisper (got %q)", c.Whisper.WorkerEngine)
	}
	if c.usesEngine(EngineWhisperCLI) && c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}

	if c.Whisper.Device == "" {
		c.Whisper.Device = DeviceAuto
	}
	switch c.Whisper.Device {
	case DeviceAuto, DeviceCPU, DeviceGPU:
	default:
		return fmt.Errorf("whisper.device must be auto, cpu or gpu (got %q)", c.Whisper.Device)
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}

	if c.Pipeline.SegmentThresholdSeconds < 0 {
		return fmt.Errorf("pipeline.segment_threshold_seconds must not be negative")
	}
	if c.Pipeline.SegmentDurationSeconds < 0 {
		return fmt.Errorf("pipeline.segment_duration_seconds must be positive")
	}
	if c.Pipeline.SegmentThresholdSeconds == 0 {
		c.Pipeline.SegmentThresholdSeconds = 1800
	}
	if c.Pipeline.SegmentDurationSeconds == 0 {
		c.Pipeline.SegmentDurationSeconds = 900
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.SegmentName == "" {
		c.FFmpeg.SegmentName = "segment"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "pcm_s16le"
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.File == "" {
		c.Logging.Console = true
	}

	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.MaxWorkers == 0 {
		c.Performance.MaxWorkers = runtime.NumCPU()
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash-001"
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 512
	}

	if c.Media.YTDLPPath == "" {
		c.Media.YTDLPPath = "yt-dlp"
	}
	if c.Media.Formats == "" {
		c.Media.Formats = "bestaudio/best"
	}

	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"md", "docx"}
	}
	for _, f := range c.Export.Formats {
		switch f {
		case "md", "docx", "pdf":
		default:
			return fmt.Errorf("export.formats: unsupported format %q", f)
		}
	}

	return nil
}

func (c *Config) usesEngine(engine string) bool {
	return c.Whisper.Engine == engine || (c.Whisper.Engine == EngineProcess && c.Whisper.WorkerEngine == engine)
}

// UsesWhisperCLI reports whether any configured transcription path shells out to the whisper.cpp CLI.
func (c *Config) UsesWhisperCLI() bool {
	return c.usesEngine(EngineWhisperCLI)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RECAP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RECAP_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RECAP_WHISPER_ENGINE"); v != "" {
		cfg.Whisper.Engine = v
	}
	if v := os.Getenv("RECAP_WHISPER_MODEL"); v != "" {
		cfg.Whisper.ModelPath = v
	}
	if v := os.Getenv("RECAP_DEVICE"); v != "" {
		cfg.Whisper.Device = strings.ToLower(v)
	}
	if v := os.Getenv("RECAP_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Performance.MaxWorkers = n
		}
	}
	if v := os.Getenv("RECAP_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GEMINI_API_KEYS"); v != "" {
		cfg.Gemini.APIKeys = splitKeys(v)
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && len(cfg.Gemini.APIKeys) == 0 {
		cfg.Gemini.APIKeys = []string{strings.TrimSpace(v)}
	}
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
