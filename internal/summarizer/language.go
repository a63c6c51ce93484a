package summarizer

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

const fallbackLanguage = "English"

// languageDetector builds the lingua detector on first use; its models are
// large and not every run summarizes.
type languageDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

func newLanguageDetector() *languageDetector {
	return &languageDetector{}
}

func (d *languageDetector) detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return fallbackLanguage
	}
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build()
	})
	lang, ok := d.detector.DetectLanguageOf(sample(text))
	if !ok {
		return fallbackLanguage
	}
	return lang.String()
}

// sample caps detection input; the first few thousand characters are plenty.
func sample(text string) string {
	const max = 4000
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
