package researchpdf

import (
	"log/slog"
	"time"

	"github.com/alnah/go-researchpdf/internal/assets"
	"github.com/alnah/go-researchpdf/internal/pipeline"
)

// Defaults applied when Input or options leave a value empty.
const (
	DefaultTitle     = "Research Report"
	DefaultOutputDir = "reports"
	DefaultStyle     = assets.DefaultStyleName
	DefaultTemplate  = assets.DefaultTemplateName

	defaultTimeout         = 30 * time.Second
	defaultTimestampFormat = "report"
)

// Input contains the parameters of one render.
type Input struct {
	Content   string // markdown report body
	Title     string // shown as the "Query:" label and used in the filename
	OutputDir string // created if absent
	Filename  string // synthesized from Title when empty; ".pdf" appended if missing
	HTMLOnly  bool   // skip PDF generation and file output
}

// Result is the outcome of a successful render.
type Result struct {
	Path       string // written PDF, empty when HTMLOnly
	HTML       []byte
	PDFSize    int
	References []Reference
}

// Reference is one numbered citation of a rendered report.
type Reference struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

func toReferences(refs []pipeline.Reference) []Reference {
	out := make([]Reference, len(refs))
	for i, r := range refs {
		out[i] = Reference(r)
	}
	return out
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds construction-time settings.
type rendererConfig struct {
	timeout         time.Duration
	style           string
	template        string
	assetPath       string
	documentTitle   string
	defaultTitle    string
	outputDir       string
	timestampFormat string
	highlightStyle  string
}

// WithTimeout sets the browser page-load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("researchpdf: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithStyle selects the stylesheet by asset name.
func WithStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.style = name
	}
}

// WithTemplate selects the document template by asset name.
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		r.cfg.template = name
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithDocumentTitle sets the header title (default "Deep Research Report").
func WithDocumentTitle(title string) Option {
	return func(r *Renderer) {
		r.cfg.documentTitle = title
	}
}

// WithDefaultTitle sets the title used when Input.Title is empty.
func WithDefaultTitle(title string) Option {
	return func(r *Renderer) {
		r.cfg.defaultTitle = title
	}
}

// WithOutputDir sets the directory used when Input.OutputDir is empty.
func WithOutputDir(dir string) Option {
	return func(r *Renderer) {
		r.cfg.outputDir = dir
	}
}

// WithTimestampFormat sets the header timestamp layout, as dateutil tokens
// ("MMMM DD, YYYY [at] hh:mm A") or a preset name ("report", "iso").
func WithTimestampFormat(format string) Option {
	return func(r *Renderer) {
		r.cfg.timestampFormat = format
	}
}

// WithHighlightStyle selects the chroma style for code blocks.
func WithHighlightStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.highlightStyle = name
	}
}

// WithLogger sets the logger used for degraded-path warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the time source for timestamps and filenames.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}
