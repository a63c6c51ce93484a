package summarizer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Document is one finished recap ready to be written to disk.
type Document struct {
	Title       string
	Source      string
	Length      string // HH:MM:SS
	Summary     string // markdown
	Transcript  string
	GeneratedAt time.Time
}

var reUnsafeName = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// FileStem turns a title into a safe file name without extension.
func FileStem(title string) string {
	stem := strings.Trim(reUnsafeName.ReplaceAllString(strings.TrimSpace(title), "_"), "_.")
	if stem == "" {
		return "recap"
	}
	if r := []rune(stem); len(r) > 120 {
		stem = string(r[:120])
	}
	return stem
}

// Export writes doc into dir once per format (md, docx, pdf) and returns the
// written paths in format order.
func Export(doc Document, dir, stem string, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}

	var paths []string
	for _, format := range formats {
		path := filepath.Join(dir, stem+"."+format)
		var err error
		switch format {
		case "md":
			err = os.WriteFile(path, []byte(renderMarkdown(doc)), 0644)
		case "docx":
			err = recapToDocx(doc, path)
		case "pdf":
			err = recapToPDF(doc, path)
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func renderMarkdown(doc Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	fmt.Fprintf(&b, "_%s_", doc.GeneratedAt.Format("2006-01-02 15:04"))
	if doc.Length != "" {
		fmt.Fprintf(&b, " · %s", doc.Length)
	}
	if doc.Source != "" {
		fmt.Fprintf(&b, " · %s", doc.Source)
	}
	b.WriteString("\n\n## Summary\n\n")
	b.WriteString(strings.TrimSpace(doc.Summary))
	b.WriteString("\n\n## Transcript\n\n")
	b.WriteString(strings.TrimSpace(doc.Transcript))
	b.WriteString("\n")
	return b.String()
}
