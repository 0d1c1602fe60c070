package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrDocumentRender indicates the document template failed to execute.
var ErrDocumentRender = errors.New("document template rendering failed")

// DefaultDocumentTitle is printed in the report header.
const DefaultDocumentTitle = "Deep Research Report"

// DocumentData holds everything the report template renders.
type DocumentData struct {
	Title      string
	Query      string
	Timestamp  string
	Content    template.HTML // trusted: produced by goldmark without raw HTML
	References []Reference
}

// DocumentAssembler defines the contract for building the full HTML document.
type DocumentAssembler interface {
	Assemble(ctx context.Context, data *DocumentData) (string, error)
}

// TemplateAssembler renders DocumentData through an html/template.
type TemplateAssembler struct {
	tmpl *template.Template
}

// NewTemplateAssembler parses the document template.
func NewTemplateAssembler(tmplContent string) (*TemplateAssembler, error) {
	tmpl, err := template.New("report").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	return &TemplateAssembler{tmpl: tmpl}, nil
}

// Assemble executes the template. References are expected in number order.
func (a *TemplateAssembler) Assemble(ctx context.Context, data *DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var d DocumentData
	if data != nil {
		d = *data
	}
	if d.Title == "" {
		d.Title = DefaultDocumentTitle
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, &d); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body>, or at the
// start of the content, in that order of preference.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close the <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
