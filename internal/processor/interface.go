package processor

import "context"

// Processor turns videos into recaps.
type Processor interface {
	// Recap runs one request end to end and returns the finished recap.
	Recap(ctx context.Context, req Request) (*Recap, error)
	// ProcessFile recaps a video dropped into the inbox and archives it.
	ProcessFile(ctx context.Context, videoPath string) error
}

// Request describes one recap job. Exactly one of URL and FilePath is set.
type Request struct {
	URL      string `json:"url"`
	FilePath string `json:"-"`
	// Title overrides the name derived from the source.
	Title string `json:"title,omitempty"`
	// Language of the summary; empty keeps the transcript's language.
	Language        string `json:"language"`
	UseCaptions     bool   `json:"use_captions"`
	CaptionLanguage string `json:"caption_language"`
}

// Recap is the result of one request.
type Recap struct {
	RequestID       string   `json:"request_id"`
	Title           string   `json:"title"`
	Source          string   `json:"source"`
	DurationSeconds float64  `json:"duration_seconds"`
	Length          string   `json:"length"`
	RawTranscript   string   `json:"raw_transcript"`
	Summary         string   `json:"summary"`
	FullTranscript  string   `json:"full_transcript"`
	Segmented       bool     `json:"segmented"`
	FromCaptions    bool     `json:"from_captions"`
	Outputs         []string `json:"outputs"`
}
