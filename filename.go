package researchpdf

import (
	"strings"
	"time"
	"unicode"
)

// Filename layout: research_report_<title>_<YYYYMMDD_HHMMSS>.pdf
const (
	filenamePrefix     = "research_report_"
	filenameTimeLayout = "20060102_150405"
	maxTitleRunes      = 50
)

// SanitizeTitle turns a report title into a filename fragment: the first 50
// runes, restricted to letters, digits, spaces, '-' and '_', trimmed, with
// spaces replaced by '_'.
func SanitizeTitle(title string) string {
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}

	var b strings.Builder
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// ReportFilename synthesizes the PDF name for a title rendered at t.
func ReportFilename(title string, t time.Time) string {
	return filenamePrefix + SanitizeTitle(title) + "_" + t.Format(filenameTimeLayout) + ".pdf"
}

// ensurePDFExt appends ".pdf" unless name already ends with it (any case).
func ensurePDFExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return name
	}
	return name + ".pdf"
}
