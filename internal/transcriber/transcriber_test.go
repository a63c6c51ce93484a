package transcriber

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

type fakeExecutor struct {
	stdout string
	err    error
	// output is written to the -of prefix with a .txt suffix when set.
	output string
	name   string
	args   []string
	dir    string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	f.dir = dir
	if f.err != nil {
		return "", f.err
	}
	if f.output != "" {
		for i, a := range args {
			if a == "-of" && i+1 < len(args) {
				if err := os.WriteFile(filepath.Join(dir, args[i+1]+".txt"), []byte(f.output), 0644); err != nil {
					return "", err
				}
			}
		}
	}
	return f.stdout, nil
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func audioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "segment_000.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveDevice(t *testing.T) {
	origLookPath, origOS, origArch := lookPath, goos, goarch
	defer func() { lookPath, goos, goarch = origLookPath, origOS, origArch }()

	noGPU := func(string) (string, error) { return "", errors.New("not found") }
	nvidia := func(string) (string, error) { return "/usr/bin/nvidia-smi", nil }

	tests := []struct {
		name       string
		preference string
		lookPath   func(string) (string, error)
		goos       string
		goarch     string
		want       string
	}{
		{"explicit cpu", config.DeviceCPU, nvidia, "linux", "amd64", config.DeviceCPU},
		{"explicit gpu", config.DeviceGPU, noGPU, "linux", "amd64", config.DeviceGPU},
		{"auto with nvidia", config.DeviceAuto, nvidia, "linux", "amd64", config.DeviceGPU},
		{"auto on apple silicon", config.DeviceAuto, noGPU, "darwin", "arm64", config.DeviceGPU},
		{"auto without accelerator", config.DeviceAuto, noGPU, "linux", "amd64", config.DeviceCPU},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookPath, goos, goarch = tt.lookPath, tt.goos, tt.goarch
			if got := ResolveDevice(tt.preference); got != tt.want {
				t.Errorf("ResolveDevice(%q) = %q, want %q", tt.preference, got, tt.want)
			}
		})
	}
}

func TestWhisperCLITranscribe(t *testing.T) {
	tests := []struct {
		name      string
		device    string
		prompt    string
		wantNoGPU bool
	}{
		{"cpu disables gpu", config.DeviceCPU, "", true},
		{"gpu keeps default", config.DeviceGPU, "keynote", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExecutor{output: " Hello there.\n General Kenobi.\n\n"}
			tr, err := NewWhisperCLI(fake, logger.New("error"), Options{
				ModelPath: "models/ggml-base.bin",
				Language:  "auto",
				Threads:   4,
				Device:    tt.device,
				Prompt:    tt.prompt,
				ExtraArgs: "-bo 5",
			})
			if err != nil {
				t.Fatalf("NewWhisperCLI() error = %v", err)
			}

			path := audioFile(t)
			got, err := tr.Transcribe(context.Background(), path)
			if err != nil {
				t.Fatalf("Transcribe() error = %v", err)
			}
			if got != "Hello there. General Kenobi." {
				t.Errorf("Transcribe() = %q", got)
			}

			if fake.name != "whisper-cli" {
				t.Errorf("binary = %q, want whisper-cli", fake.name)
			}
			if hasArg(fake.args, "-ng") != tt.wantNoGPU {
				t.Errorf("-ng present = %v, want %v (args %v)", !tt.wantNoGPU, tt.wantNoGPU, fake.args)
			}
			if hasArg(fake.args, "--prompt") != (tt.prompt != "") {
				t.Errorf("--prompt handling wrong: %v", fake.args)
			}
			if !hasArg(fake.args, "-bo") || !hasArg(fake.args, "-otxt") {
				t.Errorf("args missing -bo/-otxt: %v", fake.args)
			}

			if fake.dir == "" || fake.dir == filepath.Dir(path) {
				t.Errorf("whisper-cli ran in %q, want a scratch directory", fake.dir)
			}
			if _, err := os.Stat(fake.dir); !os.IsNotExist(err) {
				t.Errorf("scratch directory %s should be removed", fake.dir)
			}

			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Errorf("audio directory was written to: %d entries", len(entries))
			}
		})
	}
}

func TestWhisperCLIEmptyOutput(t *testing.T) {
	fake := &fakeExecutor{output: "\n"}
	tr, _ := NewWhisperCLI(fake, logger.New("error"), Options{Device: config.DeviceCPU})

	got, err := tr.Transcribe(context.Background(), audioFile(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "" {
		t.Errorf("Transcribe() = %q, want empty", got)
	}
}

func TestWhisperCLIFailure(t *testing.T) {
	fake := &fakeExecutor{err: &executor.CommandError{Name: "whisper-cli", ExitCode: 2, Stderr: "failed to load model", Err: errors.New("exit status 2")}}
	tr, _ := NewWhisperCLI(fake, logger.New("error"), Options{Device: config.DeviceCPU})

	path := audioFile(t)
	_, err := tr.Transcribe(context.Background(), path)

	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("error %v is not *TranscriptionError", err)
	}
	if trErr.Path != path {
		t.Errorf("Path = %q, want %q", trErr.Path, path)
	}
	if !strings.Contains(err.Error(), "failed to load model") {
		t.Errorf("Error() = %q should include stderr", err.Error())
	}
}

func TestWhisperCLIMissingFile(t *testing.T) {
	fake := &fakeExecutor{}
	tr, _ := NewWhisperCLI(fake, logger.New("error"), Options{})

	_, err := tr.Transcribe(context.Background(), "/nonexistent/segment.wav")
	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("error %v is not *TranscriptionError", err)
	}
	if fake.name != "" {
		t.Error("whisper-cli should not run for a missing file")
	}
}

func TestProcessTranscribe(t *testing.T) {
	fake := &fakeExecutor{stdout: `{"text":" spoken words"}` + "\n"}
	tr, err := NewProcess(fake, logger.New("error"), ProcessOptions{
		Binary:     "/usr/local/bin/recap",
		ConfigPath: "config.yaml",
		Device:     config.DeviceGPU,
	})
	if err != nil {
		t.Fatalf("NewProcess() error = %v", err)
	}

	got, err := tr.Transcribe(context.Background(), "/tmp/seg/segment_001.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != " spoken words" {
		t.Errorf("Transcribe() = %q, want %q", got, " spoken words")
	}

	want := []string{WorkerCommand, "--config", "config.yaml", "--device", "gpu", "/tmp/seg/segment_001.wav"}
	if strings.Join(fake.args, " ") != strings.Join(want, " ") {
		t.Errorf("worker args = %v, want %v", fake.args, want)
	}
}

func TestProcessTranscribeErrors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeExecutor
	}{
		{"worker exits non-zero", &fakeExecutor{err: &executor.CommandError{Name: "recap", ExitCode: 1, Stderr: "model missing", Err: errors.New("exit status 1")}}},
		{"garbage on stdout", &fakeExecutor{stdout: "not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := NewProcess(tt.fake, logger.New("error"), ProcessOptions{Binary: "recap"})
			_, err := tr.Transcribe(context.Background(), "a.wav")
			var trErr *TranscriptionError
			if !errors.As(err, &trErr) {
				t.Fatalf("error %v is not *TranscriptionError", err)
			}
		})
	}
}

func TestWriteResultRoundTrip(t *testing.T) {
	var b strings.Builder
	if err := WriteResult(&b, "a \"quoted\" line"); err != nil {
		t.Fatal(err)
	}
	tr, _ := NewProcess(&fakeExecutor{stdout: b.String()}, logger.New("error"), ProcessOptions{Binary: "recap"})
	got, err := tr.Transcribe(context.Background(), "a.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "a \"quoted\" line" {
		t.Errorf("Transcribe() = %q", got)
	}
}

func TestNewSelectsEngine(t *testing.T) {
	tests := []struct {
		name    string
		engine  string
		wantErr bool
	}{
		{"process", config.EngineProcess, false},
		{"whisper cli", config.EngineWhisperCLI, false},
		{"unknown", "cloud", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Whisper: config.WhisperConfig{Engine: tt.engine, Device: config.DeviceCPU}}
			_, err := New(cfg, "", &fakeExecutor{}, logger.New("error"), "config.yaml")
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewUsesGivenDevice(t *testing.T) {
	cfg := &config.Config{Whisper: config.WhisperConfig{Engine: config.EngineProcess, Device: config.DeviceCPU}}
	fake := &fakeExecutor{stdout: `{"text":"ok"}`}

	tr, err := New(cfg, config.DeviceGPU, fake, logger.New("error"), "config.yaml")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := tr.Transcribe(context.Background(), "a.wav"); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	var device string
	for i, a := range fake.args {
		if a == "--device" && i+1 < len(fake.args) {
			device = fake.args[i+1]
		}
	}
	if device != config.DeviceGPU {
		t.Errorf("worker --device = %q, want gpu (args %v)", device, fake.args)
	}
}

// stubWhisperCLI fails like whisper-cli when the -m model cannot be read and
// otherwise writes a fixed transcript to the -of prefix.
const stubWhisperCLI = `#!/bin/sh
model=""
of=""
while [ $# -gt 0 ]; do
  case "$1" in
    -m) model="$2"; shift ;;
    -of) of="$2"; shift ;;
  esac
  shift
done
if [ ! -r "$model" ]; then
  echo "failed to load model '$model'" >&2
  exit 1
fi
printf ' stub transcript\n' > "$of.txt"
`

func TestWhisperCLIRelativePathsWithRealExecutor(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	t.Chdir(t.TempDir())

	for path, body := range map[string]string{
		"models/ggml-base.bin": "model",
		"bin/whisper-cli":      stubWhisperCLI,
		"segment_000.wav":      "RIFF",
	} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0755); err != nil {
			t.Fatal(err)
		}
	}

	tr, err := NewWhisperCLI(executor.New(), logger.New("error"), Options{
		ModelPath:  "models/ggml-base.bin",
		BinaryPath: "./bin/whisper-cli",
		Language:   "en",
		Threads:    1,
		Device:     config.DeviceCPU,
	})
	if err != nil {
		t.Fatalf("NewWhisperCLI() error = %v", err)
	}

	got, err := tr.Transcribe(context.Background(), "segment_000.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "stub transcript" {
		t.Errorf("Transcribe() = %q, want %q", got, "stub transcript")
	}
}
