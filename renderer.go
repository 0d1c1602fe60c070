package researchpdf

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-researchpdf/internal/assets"
	"github.com/alnah/go-researchpdf/internal/dateutil"
	"github.com/alnah/go-researchpdf/internal/fileutil"
	"github.com/alnah/go-researchpdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.TOCInjector          = (*pipeline.TOCInjection)(nil)
	_ pipeline.HTMLEnhancer         = (*pipeline.ClassEnhancer)(nil)
	_ pipeline.DocumentAssembler    = (*pipeline.TemplateAssembler)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// Renderer turns markdown research reports into cited HTML and PDF.
// Create with NewRenderer, call Render any number of times (concurrently if
// needed), and Close when done.
type Renderer struct {
	cfg    rendererConfig
	logger *slog.Logger
	now    func() time.Time

	assetLoader   assets.AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	tocInjector   pipeline.TOCInjector
	enhancer      pipeline.HTMLEnhancer
	assembler     pipeline.DocumentAssembler
	cssInjector   pipeline.CSSInjector
	css           string

	// pdfMu serializes the browser; everything before it is pure.
	pdfMu        sync.Mutex
	pdfConverter pdfConverter
	closed       bool
}

// NewRenderer creates a Renderer. The browser is launched lazily on the
// first PDF render. Returns an error if assets cannot be loaded or parsed.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:         defaultTimeout,
			style:           DefaultStyle,
			template:        DefaultTemplate,
			documentTitle:   pipeline.DefaultDocumentTitle,
			defaultTitle:    DefaultTitle,
			outputDir:       DefaultOutputDir,
			timestampFormat: defaultTimestampFormat,
			highlightStyle:  pipeline.DefaultHighlightStyle,
		},
		logger:        slog.Default(),
		now:           time.Now,
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		tocInjector:   pipeline.NewTOCInjection(),
		enhancer:      pipeline.NewClassEnhancer(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.loadAssets(); err != nil {
		return nil, err
	}

	if _, err := dateutil.Format(r.cfg.timestampFormat, r.now()); err != nil {
		return nil, fmt.Errorf("timestamp format: %w", err)
	}

	if r.pdfConverter == nil {
		r.pdfConverter = newRodConverter(r.cfg.timeout)
	}
	return r, nil
}

// loadAssets resolves the stylesheet and template through the asset loader
// and prepares the document assembler.
func (r *Renderer) loadAssets() error {
	if r.assetLoader == nil {
		resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		r.assetLoader = resolver
	}

	css, err := r.assetLoader.LoadStyle(r.cfg.style)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStyleNotFound, err)
	}

	highlight, err := pipeline.HighlightCSS(r.cfg.highlightStyle)
	if err != nil {
		return err
	}
	r.css = css + "\n" + highlight

	if r.assembler == nil {
		tmpl, err := r.assetLoader.LoadTemplate(r.cfg.template)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
		}
		assembler, err := pipeline.NewTemplateAssembler(tmpl)
		if err != nil {
			return fmt.Errorf("initializing document template: %w", err)
		}
		r.assembler = assembler
	}
	return nil
}

// Render runs the full pipeline. Reference numbering is local to the call.
// When input.HTMLOnly is set no PDF is produced and nothing is written.
// Recovers from internal panics so they do not propagate to callers.
func (r *Renderer) Render(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	title := input.Title
	if strings.TrimSpace(title) == "" {
		title = r.cfg.defaultTitle
	}
	now := r.now()

	htmlDoc, refs, err := r.renderHTML(ctx, input.Content, title, now)
	if err != nil {
		return nil, err
	}

	res := &Result{
		HTML:       []byte(htmlDoc),
		References: toReferences(refs),
	}
	if input.HTMLOnly {
		return res, nil
	}

	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = r.cfg.outputDir
	}
	filename := filepath.Base(input.Filename)
	if input.Filename == "" {
		filename = ReportFilename(title, now)
	}
	filename = ensurePDFExt(filename)

	// #nosec G301 -- report directories are meant to be shared
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputDir, err)
	}

	pdfBytes, err := r.toPDF(ctx, htmlDoc)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	path := filepath.Join(outputDir, filename)
	if err := fileutil.WriteFileAtomic(path, pdfBytes, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	res.Path = path
	res.PDFSize = len(pdfBytes)
	return res, nil
}

// renderHTML produces the complete, styled HTML document.
func (r *Renderer) renderHTML(ctx context.Context, content, title string, now time.Time) (string, []pipeline.Reference, error) {
	md := r.preprocessor.PreprocessMarkdown(ctx, content)
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	md, refs := pipeline.ExtractReferences(md)

	fragment, err := r.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return "", nil, fmt.Errorf("converting to HTML: %w", err)
	}

	fragment, err = r.tocInjector.InjectTOC(ctx, fragment)
	if err != nil {
		return "", nil, fmt.Errorf("injecting TOC: %w", err)
	}

	enh := r.enhancer.Enhance(ctx, fragment)
	if enh.Outcome == pipeline.OutcomeOriginal {
		r.logger.Warn("html enhancement skipped, using unstyled markup", "error", enh.Err)
	}
	fragment = enh.HTML

	timestamp, err := dateutil.Format(r.cfg.timestampFormat, now)
	if err != nil {
		return "", nil, fmt.Errorf("formatting timestamp: %w", err)
	}

	doc, err := r.assembler.Assemble(ctx, &pipeline.DocumentData{
		Title:      r.cfg.documentTitle,
		Query:      title,
		Timestamp:  timestamp,
		Content:    template.HTML(fragment), // #nosec G203 -- goldmark output, raw HTML disabled
		References: refs,
	})
	if err != nil {
		return "", nil, fmt.Errorf("assembling document: %w", err)
	}

	doc = r.cssInjector.InjectCSS(ctx, doc, r.css)
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	return doc, refs, nil
}

func (r *Renderer) toPDF(ctx context.Context, htmlDoc string) ([]byte, error) {
	r.pdfMu.Lock()
	defer r.pdfMu.Unlock()

	if r.closed {
		return nil, ErrRendererClosed
	}
	return r.pdfConverter.ToPDF(ctx, htmlDoc)
}

// Close releases resources (headless Chrome browser). Safe to call twice.
func (r *Renderer) Close() error {
	r.pdfMu.Lock()
	defer r.pdfMu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if r.pdfConverter != nil {
		return r.pdfConverter.Close()
	}
	return nil
}
