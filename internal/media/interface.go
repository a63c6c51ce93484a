package media

import "context"

// AudioAsset is a local audio file ready for transcription.
type AudioAsset struct {
	Path     string
	Duration float64 // seconds
	Title    string
}

// Info describes a remote video.
type Info struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Length   string  `json:"length"` // HH:MM:SS
}

// Media prepares audio and captions for the recap pipeline.
type Media interface {
	ExtractAudio(ctx context.Context, inputPath, outDir string) (string, error)
	ProbeDuration(ctx context.Context, path string) (float64, error)
	Fetch(ctx context.Context, url, outDir string) (AudioAsset, error)
	VideoInfo(ctx context.Context, url string) (Info, error)
	ListCaptions(ctx context.Context, url string) (map[string]string, error)
	FetchCaptions(ctx context.Context, url, language, outDir string) (string, error)
}
