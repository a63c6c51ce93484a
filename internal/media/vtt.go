package media

import (
	"html"
	"regexp"
	"strings"
)

var (
	reCueTag   = regexp.MustCompile(`<[^>]*>`)
	reCueIndex = regexp.MustCompile(`^\d+$`)
)

// VTTToText strips a WebVTT document down to its spoken text. Cue timings,
// numeric identifiers, header and NOTE/STYLE blocks and inline tags are
// removed, and the rolling duplicates of auto captions are collapsed.
func VTTToText(vtt string) string {
	var (
		out      []string
		prev     string
		skipping bool
	)
	vtt = strings.TrimPrefix(vtt, "\ufeff")
	for i, line := range strings.Split(strings.ReplaceAll(vtt, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			skipping = false
			continue
		}
		if skipping {
			continue
		}
		if i == 0 && strings.HasPrefix(line, "WEBVTT") || isMetaBlock(line) {
			skipping = true
			continue
		}
		if strings.Contains(line, "-->") || reCueIndex.MatchString(line) {
			continue
		}

		text := strings.TrimSpace(html.UnescapeString(reCueTag.ReplaceAllString(line, "")))
		if text == "" || text == prev {
			continue
		}
		out = append(out, text)
		prev = text
	}
	return strings.Join(out, " ")
}

func isMetaBlock(line string) bool {
	for _, kw := range []string{"NOTE", "STYLE", "REGION"} {
		if line == kw || strings.HasPrefix(line, kw+" ") {
			return true
		}
	}
	return false
}
