package pipeline

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTOCTitle heads the generated table of contents.
const DefaultTOCTitle = "Table of Contents"

var (
	// tocMarkerPattern matches the [TOC] paragraph goldmark emits for the marker.
	tocMarkerPattern = regexp.MustCompile(`(?i)<p>\s*\[TOC\]\s*</p>`)

	// headingPattern matches h1-h6 tags with an id attribute.
	// Captures: 1=level, 2=id, 3=inner HTML.
	headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// TOCInjector defines the contract for table of contents generation.
type TOCInjector interface {
	InjectTOC(ctx context.Context, fragment string) (string, error)
}

// TOCInjection replaces every [TOC] marker with a numbered table of contents.
type TOCInjection struct {
	Title    string
	MinDepth int
	MaxDepth int
}

// NewTOCInjection creates a TOCInjection covering all heading levels.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{Title: DefaultTOCTitle, MinDepth: 1, MaxDepth: 6}
}

// InjectTOC replaces [TOC] markers in fragment. Content without a marker or
// without headings is returned unchanged (markers are removed in the latter case).
func (t *TOCInjection) InjectTOC(ctx context.Context, fragment string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !tocMarkerPattern.MatchString(fragment) {
		return fragment, nil
	}

	headings := extractHeadings(fragment, t.MinDepth, t.MaxDepth)
	toc := generateNumberedTOC(headings, t.Title)
	return tocMarkerPattern.ReplaceAllLiteralString(fragment, toc), nil
}

type headingInfo struct {
	Level int
	ID    string
	Text  string
}

// stripHTMLTags removes tags and decodes entities so the text can be
// escaped once when written back.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

func extractHeadings(fragment string, minDepth, maxDepth int) []headingInfo {
	matches := headingPattern.FindAllStringSubmatch(fragment, -1)

	var headings []headingInfo
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{
			Level: level,
			ID:    m[2],
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}

// numberingState tracks hierarchical numbering ("1.", "1.1.", ...).
// The first heading seen defines depth 1; skipped levels nest one deeper.
type numberingState struct {
	counters     [6]int
	minLevelSeen int
	lastDepth    int
}

func (n *numberingState) next(level int) (string, int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}

	depth := max(level-n.minLevelSeen+1, 1)
	if n.lastDepth > 0 && depth > n.lastDepth+1 {
		depth = n.lastDepth + 1
	}

	for i := depth; i < len(n.counters); i++ {
		n.counters[i] = 0
	}
	n.counters[depth-1]++
	n.lastDepth = depth

	parts := make([]string, depth)
	for i := range depth {
		parts[i] = strconv.Itoa(n.counters[i])
	}
	return strings.Join(parts, ".") + ".", depth
}

func generateNumberedTOC(headings []headingInfo, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)
	if title != "" {
		buf.WriteString(`<h2 class="toc-title">`)
		buf.WriteString(html.EscapeString(title))
		buf.WriteString(`</h2>`)
	}
	buf.WriteString(`<div class="toc-list">`)

	var numbering numberingState
	for _, h := range headings {
		num, depth := numbering.next(h.Level)

		buf.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&buf, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		buf.WriteString(`><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(num)
		buf.WriteString(" ")
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a></div>`)
	}

	buf.WriteString(`</div></nav>`)
	return buf.String()
}
