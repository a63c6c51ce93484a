package summarizer

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// recapToPDF writes the recap with the core Helvetica font. Text is mapped to
// cp1252, so characters outside it are lost; use docx for other scripts.
func recapToPDF(doc Document, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor("recap", false)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(doc.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	meta := doc.GeneratedAt.Format("2006-01-02 15:04")
	if doc.Length != "" {
		meta += "  |  " + doc.Length
	}
	if doc.Source != "" {
		meta += "  |  " + doc.Source
	}
	pdf.MultiCell(0, 5, tr(meta), "", "L", false)
	pdf.Ln(6)

	writeSection(pdf, tr, "Summary", markdownLines(doc.Summary))
	pdf.Ln(6)
	writeSection(pdf, tr, "Transcript", paragraphs(doc.Transcript))

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeSection(pdf *gofpdf.Fpdf, tr func(string) string, title string, lines []string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	if len(lines) == 0 {
		pdf.MultiCell(0, 6, "(empty)", "", "L", false)
		return
	}
	for _, line := range lines {
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
		pdf.Ln(1)
	}
}

// markdownLines flattens markdown to plain lines for the PDF body.
func markdownLines(markdown string) []string {
	var out []string
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}
		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			trimmed = m[2]
		} else if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			trimmed = "- " + m[1]
		}
		out = append(out, cleanMarkdownInline(trimmed))
	}
	return out
}
