package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	researchpdf "github.com/alnah/go-researchpdf"
	"github.com/alnah/go-researchpdf/internal/fileutil"
)

// Sentinel errors for the render command.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadMarkdown     = errors.New("failed to read markdown")
	ErrWriteHTML        = errors.New("failed to write HTML file")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// stdinArg selects standard input as the markdown source.
const stdinArg = "-"

const filePermissions = 0o644 // rw-r--r--

// runRender renders one markdown report and prints where it went.
func runRender(ctx context.Context, args []string, deps *Dependencies) error {
	flags, positional, err := parseRenderFlags(args, deps.Stderr)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrNoInput
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: render takes one input, got %d", ErrUsage, len(positional))
	}

	env, err := setup(flags.common, deps)
	if err != nil {
		return err
	}
	cfg := env.cfg
	if err := parseTimeoutFlag(cfg, flags.timeout); err != nil {
		return err
	}

	content, err := readMarkdown(positional[0], deps.Stdin)
	if err != nil {
		return err
	}

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}
	title := flags.title
	if strings.TrimSpace(title) == "" {
		title = cfg.Document.DefaultQuery
	}

	// One instant for the PDF name, the header timestamp and the HTML name.
	now := deps.Now()
	opts := append(rendererOptions(cfg, env.logger, deps), researchpdf.WithClock(func() time.Time { return now }))

	renderer, err := researchpdf.NewRenderer(opts...)
	if err != nil {
		return err
	}
	defer renderer.Close()

	env.logger.Debug("rendering report", "input", positional[0], "output_dir", outputDir)

	res, err := renderer.Render(ctx, researchpdf.Input{
		Content:   content,
		Title:     title,
		OutputDir: outputDir,
		Filename:  flags.filename,
		HTMLOnly:  flags.htmlOnly,
	})
	if err != nil {
		return err
	}

	var htmlPath string
	if flags.htmlOnly || flags.html {
		htmlPath = resolveHTMLPath(res.Path, outputDir, flags.filename, title, now)
		if err := writeHTML(htmlPath, res.HTML); err != nil {
			return err
		}
	}

	if !flags.common.quiet {
		printRenderResult(deps.Stdout, res, htmlPath)
	}
	return nil
}

// readMarkdown reads the input file, or stdin for "-".
func readMarkdown(arg string, stdin io.Reader) (string, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadMarkdown, err)
		}
		return string(data), nil
	}

	if err := validateMarkdownExtension(arg); err != nil {
		return "", err
	}
	// #nosec G304 -- reading the user-specified input is the command's purpose
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// validateMarkdownExtension checks that path has a markdown extension.
func validateMarkdownExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidExtension, path)
}

// resolveHTMLPath places the HTML next to the PDF, or where the PDF would
// have gone when no PDF was written.
func resolveHTMLPath(pdfPath, outputDir, filename, title string, now time.Time) string {
	if pdfPath != "" {
		return trimPDFExt(pdfPath) + ".html"
	}
	name := filepath.Base(filename)
	if filename == "" {
		name = researchpdf.ReportFilename(title, now)
	}
	return filepath.Join(outputDir, trimPDFExt(name)+".html")
}

// trimPDFExt removes a trailing ".pdf" (any case) and keeps other dots.
func trimPDFExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return name[:len(name)-len(".pdf")]
	}
	return name
}

func writeHTML(path string, html []byte) error {
	// #nosec G301 -- report directories are meant to be shared
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", researchpdf.ErrCreateOutputDir, err)
	}
	if err := fileutil.WriteFileAtomic(path, html, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}
	return nil
}

func printRenderResult(w io.Writer, res *researchpdf.Result, htmlPath string) {
	if res.Path != "" {
		fmt.Fprintf(w, "PDF:  %s (%d bytes)\n", res.Path, res.PDFSize)
	}
	if htmlPath != "" {
		fmt.Fprintf(w, "HTML: %s\n", htmlPath)
	}
	if len(res.References) == 0 {
		return
	}
	fmt.Fprintf(w, "References (%d):\n", len(res.References))
	for _, ref := range res.References {
		fmt.Fprintf(w, "  [%d] %s <%s>\n", ref.Number, ref.Title, ref.URL)
	}
}
