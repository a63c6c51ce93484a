package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var reVideoID = regexp.MustCompile(`(?:v=|youtu\.be/|embed/|shorts/)([a-zA-Z0-9_-]{11})`)

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q: want http(s)://host/...", raw)
	}
	return nil
}

// VideoID extracts the 11 character YouTube video id from a watch, short,
// embed or youtu.be link.
func VideoID(raw string) (string, error) {
	m := reVideoID.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("invalid YouTube URL: %s", raw)
	}
	return m[1], nil
}

// EmbedURL returns the embeddable player URL for a YouTube link.
func EmbedURL(raw string) (string, error) {
	id, err := VideoID(raw)
	if err != nil {
		return "", err
	}
	return "https://www.youtube.com/embed/" + id, nil
}

// FormatLength renders seconds as HH:MM:SS.
func FormatLength(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

type ytTrack struct {
	Ext  string `json:"ext"`
	Name string `json:"name"`
}

type ytMetadata struct {
	Title     string               `json:"title"`
	Duration  float64              `json:"duration"`
	Subtitles map[string][]ytTrack `json:"subtitles"`
}

func (m *implMedia) metadata(ctx context.Context, rawURL string) (*ytMetadata, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	out, err := m.executor.Execute(ctx, m.ytdlp, "-J", "--no-playlist", "--no-warnings", rawURL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata: %w", err)
	}
	var meta ytMetadata
	if err := json.Unmarshal([]byte(out), &meta); err != nil {
		return nil, fmt.Errorf("decode yt-dlp metadata: %w", err)
	}
	return &meta, nil
}

// VideoInfo returns the title and length of a remote video.
func (m *implMedia) VideoInfo(ctx context.Context, rawURL string) (Info, error) {
	meta, err := m.metadata(ctx, rawURL)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Title:    meta.Title,
		Duration: meta.Duration,
		Length:   FormatLength(meta.Duration),
	}, nil
}

// Fetch downloads the best audio stream of a remote video into outDir and
// converts it to a transcription-ready WAV.
func (m *implMedia) Fetch(ctx context.Context, rawURL, outDir string) (AudioAsset, error) {
	info, err := m.VideoInfo(ctx, rawURL)
	if err != nil {
		return AudioAsset{}, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return AudioAsset{}, fmt.Errorf("create download dir: %w", err)
	}

	m.logger.Info(ctx, "Downloading %q (%s)", info.Title, info.Length)

	out, err := m.executor.Execute(ctx, m.ytdlp,
		"-f", m.formats,
		"--no-playlist",
		"--no-progress",
		"--no-warnings",
		"-o", filepath.Join(outDir, "source.%(ext)s"),
		"--print", "after_move:filepath",
		rawURL,
	)
	if err != nil {
		return AudioAsset{}, fmt.Errorf("yt-dlp download: %w", err)
	}
	downloaded := lastLine(out)
	if downloaded == "" {
		return AudioAsset{}, fmt.Errorf("yt-dlp download: no file reported")
	}

	audioPath, err := m.ExtractAudio(ctx, downloaded, outDir)
	if err != nil {
		return AudioAsset{}, err
	}
	if err := os.Remove(downloaded); err != nil {
		m.logger.Warn(ctx, "Failed to remove download %s: %v", downloaded, err)
	}

	duration, err := m.ProbeDuration(ctx, audioPath)
	if err != nil {
		m.logger.Warn(ctx, "Using reported duration for %s: %v", audioPath, err)
		duration = info.Duration
	}

	return AudioAsset{Path: audioPath, Duration: duration, Title: info.Title}, nil
}

// ListCaptions returns the uploaded (non auto-generated) caption tracks of a
// video as language code -> display name.
func (m *implMedia) ListCaptions(ctx context.Context, rawURL string) (map[string]string, error) {
	meta, err := m.metadata(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	captions := make(map[string]string, len(meta.Subtitles))
	for code, tracks := range meta.Subtitles {
		if code == "live_chat" {
			continue
		}
		name := code
		for _, t := range tracks {
			if t.Name != "" {
				name = t.Name
				break
			}
		}
		captions[code] = name
	}
	return captions, nil
}

// FetchCaptions downloads one caption track as plain text. language may be a
// code ("en") or a display name ("English"). Returns "" when the video has no
// matching track.
func (m *implMedia) FetchCaptions(ctx context.Context, rawURL, language, outDir string) (string, error) {
	captions, err := m.ListCaptions(ctx, rawURL)
	if err != nil {
		return "", err
	}
	code := resolveCaptionCode(captions, language)
	if code == "" {
		m.logger.Info(ctx, "No %q captions for %s", language, rawURL)
		return "", nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create captions dir: %w", err)
	}
	if _, err := m.executor.Execute(ctx, m.ytdlp,
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--write-subs",
		"--sub-langs", code,
		"--sub-format", "vtt",
		"-o", filepath.Join(outDir, "captions.%(ext)s"),
		rawURL,
	); err != nil {
		return "", fmt.Errorf("yt-dlp captions: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "captions."+code+".vtt"))
	if err != nil {
		return "", fmt.Errorf("read captions: %w", err)
	}
	return VTTToText(string(data)), nil
}

func resolveCaptionCode(captions map[string]string, language string) string {
	if language == "" {
		return ""
	}
	if _, ok := captions[language]; ok {
		return language
	}
	codes := make([]string, 0, len(captions))
	for code := range captions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if strings.EqualFold(captions[code], language) {
			return code
		}
	}
	return ""
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
