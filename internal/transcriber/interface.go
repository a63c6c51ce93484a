package transcriber

import "context"

// Transcriber turns one audio file into text. An empty string is a valid
// result for silent audio.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
