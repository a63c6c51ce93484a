package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/doctor"
	"github.com/nguyentantai21042004/video-recap/internal/httpapi"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/internal/media"
	"github.com/nguyentantai21042004/video-recap/internal/processor"
	"github.com/nguyentantai21042004/video-recap/internal/transcriber"
	"github.com/nguyentantai21042004/video-recap/internal/watcher"
	"github.com/nguyentantai21042004/video-recap/pkg/executor"
)

// newRunCmd recaps a single URL or local file.
func newRunCmd(cfgPath *string) *cobra.Command {
	var req processor.Request
	cmd := &cobra.Command{
		Use:   "run <url|file>",
		Short: "Transcribe and summarize one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			if media.ValidateURL(args[0]) == nil {
				req.URL = args[0]
			} else {
				req.FilePath = args[0]
			}
			rec, err := a.processor.Recap(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n", rec.Title, rec.Length)
			if rec.Summary != "" {
				fmt.Fprintln(out, rec.Summary)
			} else {
				fmt.Fprintln(out, rec.FullTranscript)
			}
			fmt.Fprintln(out)
			for _, p := range rec.Outputs {
				fmt.Fprintf(out, "wrote %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Language, "lang", "", "summary language (default: language of the transcript)")
	cmd.Flags().StringVar(&req.Title, "title", "", "override the recap title")
	cmd.Flags().BoolVar(&req.UseCaptions, "captions", false, "use the video's captions instead of transcribing when available")
	cmd.Flags().StringVar(&req.CaptionLanguage, "caption-lang", "", "caption language code or name (default en)")
	return cmd
}

// newTranscribeCmd runs only the transcription pipeline on a local file.
func newTranscribeCmd(cfgPath *string) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe a local audio or video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *cfgPath)
			if err != nil {
				return err
			}

			workDir := filepath.Join(a.cfg.Paths.Temp, uuid.NewString())
			if err := os.MkdirAll(workDir, 0755); err != nil {
				return err
			}
			defer os.RemoveAll(workDir)

			audio, err := a.media.ExtractAudio(ctx, args[0], workDir)
			if err != nil {
				return err
			}
			total, err := a.media.ProbeDuration(ctx, audio)
			if err != nil {
				return err
			}
			text, err := a.pipeline.Transcribe(ctx, total, audio)
			if err != nil {
				return err
			}

			if outPath != "" {
				return os.WriteFile(outPath, []byte(text+"\n"), 0644)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the transcript to this file instead of stdout")
	return cmd
}

func newInfoCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info <url>",
		Short: "Show title and length of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			info, err := media.New(cfg, executor.New(), log).VideoInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "title:  %s\nlength: %s\n", info.Title, info.Length)
			return nil
		},
	}
}

func newCaptionsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "captions <url>",
		Short: "List caption languages available for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			captions, err := media.New(cfg, executor.New(), log).ListCaptions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(captions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no captions available")
				return nil
			}
			codes := make([]string, 0, len(captions))
			for code := range captions {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", code, captions[code])
			}
			return nil
		},
	}
}

// newWatchCmd recaps every video dropped into paths.input.
func newWatchCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the input directory and recap new videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *cfgPath)
			if err != nil {
				return err
			}

			w, err := watcher.New(a.cfg.Paths.Input, a.processor.ProcessFile, a.log, a.cfg.Performance.MaxConcurrent)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Stop()

			a.log.Info(ctx, "========================================")
			a.log.Info(ctx, "Video recap pipeline is ready!")
			a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
			a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
			a.log.Info(ctx, "  - Whisper: engine=%s, device=%s, %d threads", a.cfg.Whisper.Engine, transcriber.ResolveDevice(a.cfg.Whisper.Device), a.cfg.Whisper.Threads)
			a.log.Info(ctx, "  - Segments: >%.0fs split into %ds chunks, %d workers", a.cfg.Pipeline.SegmentThresholdSeconds, a.cfg.Pipeline.SegmentDurationSeconds, a.cfg.Performance.MaxWorkers)
			a.log.Info(ctx, "  - Concurrent: %d videos at once", a.cfg.Performance.MaxConcurrent)
			a.log.Info(ctx, "Press Ctrl+C to stop")
			a.log.Info(ctx, "========================================")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.log.Error(ctx, "Watcher error: %v", err)
				return err
			}
			a.log.Info(ctx, "Video recap pipeline stopped")
			return nil
		},
	}
}

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the recap HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			return httpapi.NewServer(a.cfg, a.processor, a.media, a.log).Run(cmd.Context())
		},
	}
}

// newDoctorCmd runs environment checks.
func newDoctorCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, model and config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			results := doctor.Run(cfg, *cfgPath)
			for _, r := range results {
				status := "ok"
				if !r.Pass {
					status = "fail"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-4s %s\n", r.Name, status, r.Detail)
			}
			if doctor.Failed(results) {
				return fmt.Errorf("doctor found issues")
			}
			return nil
		},
	}
}

// newWorkerCmd transcribes one chunk with the local engine and prints the
// result as JSON. Logs never go to stdout here.
func newWorkerCmd(cfgPath *string) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:    transcriber.WorkerCommand + " <audio>",
		Short:  "Transcribe one audio chunk (internal)",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if device != "" {
				cfg.Whisper.Device = device
			}
			cfg.Logging.Console = false
			log, err := logger.Configure(cfg.Logging)
			if err != nil {
				return err
			}

			tr, err := transcriber.NewLocal(cfg, executor.New(), log)
			if err != nil {
				return err
			}
			text, err := tr.Transcribe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return transcriber.WriteResult(cmd.OutOrStdout(), text)
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "cpu or gpu")
	return cmd
}
