package summarizer

import "context"

// Summarizer turns raw transcripts into LLM-written recaps.
type Summarizer interface {
	// Summarize writes a structured summary in language. An empty language
	// means the transcript's own (detected) language.
	Summarize(ctx context.Context, transcript, language string) (string, error)
	// CleanTranscript rewrites a raw transcript into readable prose in its
	// original language.
	CleanTranscript(ctx context.Context, transcript string) (string, error)
	DetectLanguage(text string) string
}

// generator sends one prompt to a language model.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
