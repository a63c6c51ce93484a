package summarizer

import (
	"errors"

	"github.com/nguyentantai21042004/video-recap/internal/logger"
)

const defaultModel = "gemini-2.0-flash-001"

type implSummarizer struct {
	gen      generator
	detector *languageDetector
	logger   logger.Logger
}

// New creates a Summarizer that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string, log logger.Logger) (Summarizer, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("at least one Gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	return newWithGenerator(&geminiGenerator{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}, log), nil
}

func newWithGenerator(gen generator, log logger.Logger) *implSummarizer {
	return &implSummarizer{
		gen:      gen,
		detector: newLanguageDetector(),
		logger:   log,
	}
}
