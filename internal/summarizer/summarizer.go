package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const summaryPrompt = `Act as an expert editor and writer specializing in content optimization. Your task is to take a given video transcript and transform it into a well-structured text.
The transcript is in %s; the output text should be written in %s.

Instructions:
- Read the whole transcript first and understand its main ideas, key points and overall message.
- Extract the main ideas, events or arguments presented.
- Keep the original meaning while condensing the text.
- Make the summary flow naturally and read easily.
- Remove filler words, repetitions and irrelevant details.
- Prefer bullet points or short paragraphs in markdown, with bold for important concepts.

Transcript:
---
%s
---`

const cleanupPrompt = `You are an expert editor and writer. Transform the raw transcription of spoken text below into well-formatted, natural and structured text.

Instructions:
- Use the same language as the original transcription.
- Correct grammar, punctuation and sentence structure for smooth reading.
- Remove filler words, hesitations and redundancies while keeping the speaker's intent, tone and meaning.
- Do not add or invent content beyond minor adjustments for clarity.

Raw transcription:
---
%s
---

Return only the cleaned and formatted text in its original language, without additional commentary.`

var errEmptyTranscript = errors.New("transcript is empty")

func (s *implSummarizer) DetectLanguage(text string) string {
	return s.detector.detect(text)
}

// Summarize asks the model for a markdown summary of transcript.
func (s *implSummarizer) Summarize(ctx context.Context, transcript, language string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", errEmptyTranscript
	}

	detected := s.DetectLanguage(transcript)
	if language == "" {
		language = detected
	}

	s.logger.Info(ctx, "Summarizing %d chars (%s -> %s)", len(transcript), detected, language)

	summary, err := s.gen.Generate(ctx, fmt.Sprintf(summaryPrompt, detected, language, transcript))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// CleanTranscript asks the model to rewrite the raw transcript as readable text.
func (s *implSummarizer) CleanTranscript(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", errEmptyTranscript
	}

	s.logger.Info(ctx, "Creating full transcript from %d chars", len(transcript))

	text, err := s.gen.Generate(ctx, fmt.Sprintf(cleanupPrompt, transcript))
	if err != nil {
		return "", fmt.Errorf("clean transcript: %w", err)
	}
	return strings.TrimSpace(text), nil
}
