package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/transcriber"
)

var lookPath = exec.LookPath

// Result represents a diagnostic check.
type Result struct {
	Name   string
	Pass   bool
	Detail string
}

// Run executes doctor checks.
func Run(cfg *config.Config, configPath string) []Result {
	results := []Result{
		checkFile("config", configPath),
		checkFile("model file", cfg.Whisper.ModelPath),
		checkExecutable("ffmpeg", cfg.FFmpeg.BinaryPath),
		checkExecutable("ffprobe", cfg.FFmpeg.FFprobePath),
		checkExecutable("yt-dlp", cfg.Media.YTDLPPath),
	}
	if cfg.UsesWhisperCLI() {
		results = append(results, checkExecutable("whisper-cli", cfg.Whisper.BinaryPath))
	}
	results = append(results,
		checkDevice(cfg.Whisper.Device),
		checkGeminiKeys(cfg.Gemini.APIKeys),
		checkWritableDir("output dir", cfg.Paths.Output),
		checkWritableDir("temp dir", cfg.Paths.Temp),
	)
	return results
}

// Failed reports whether any check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return true
		}
	}
	return false
}

func checkFile(label, path string) Result {
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if _, err := os.Stat(os.ExpandEnv(path)); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

func checkExecutable(label, cmd string) Result {
	if cmd == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	path := os.ExpandEnv(cmd)
	// A separator means an explicit path rather than a PATH lookup.
	if strings.Contains(path, "/") || strings.Contains(path, "\\") {
		info, err := os.Stat(path)
		if err != nil {
			return Result{Name: label, Pass: false, Detail: err.Error()}
		}
		if info.IsDir() {
			return Result{Name: label, Pass: false, Detail: "is a directory"}
		}
		if info.Mode().Perm()&0o111 == 0 {
			return Result{Name: label, Pass: false, Detail: "not executable; chmod +x it"}
		}
		return Result{Name: label, Pass: true, Detail: path}
	}
	resolved, err := lookPath(path)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: resolved}
}

func checkDevice(pref string) Result {
	return Result{Name: "device", Pass: true, Detail: fmt.Sprintf("%s -> %s", pref, transcriber.ResolveDevice(pref))}
}

// Missing keys only disable summaries, so this never fails.
func checkGeminiKeys(keys []string) Result {
	if len(keys) == 0 {
		return Result{Name: "gemini keys", Pass: true, Detail: "none; summaries disabled"}
	}
	return Result{Name: "gemini keys", Pass: true, Detail: fmt.Sprintf("%d configured", len(keys))}
}

func checkWritableDir(label, dir string) Result {
	if dir == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return Result{Name: label, Pass: true, Detail: dir}
}
