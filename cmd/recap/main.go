package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional; GEMINI_API_KEYS and RECAP_* may come from .env.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "recap",
		Short: "Transcribe and summarize videos with whisper.cpp and Gemini",
		Long: `recap turns a video (YouTube link or local file) into a transcript and summary.

Audio longer than pipeline.segment_threshold_seconds is split into
pipeline.segment_duration_seconds chunks that are transcribed in parallel,
each by its own worker process, and joined back in order.`,
		Example: `  recap run https://www.youtube.com/watch?v=dQw4w9WgXcQ --lang French
  recap run talk.mp4
  recap run https://youtu.be/dQw4w9WgXcQ --captions --caption-lang en
  recap transcribe meeting.wav
  recap watch
  recap serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version
	root.CompletionOptions.DisableDefaultCmd = true

	cfgPath := root.PersistentFlags().StringP("config", "c", "config.yaml", "Path to config file (YAML)")

	root.AddCommand(newRunCmd(cfgPath))
	root.AddCommand(newTranscribeCmd(cfgPath))
	root.AddCommand(newInfoCmd(cfgPath))
	root.AddCommand(newCaptionsCmd(cfgPath))
	root.AddCommand(newWatchCmd(cfgPath))
	root.AddCommand(newServeCmd(cfgPath))
	root.AddCommand(newDoctorCmd(cfgPath))

	// Hidden; spawned once per audio chunk by the process engine.
	root.AddCommand(newWorkerCmd(cfgPath))
	return root
}
