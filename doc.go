// Package researchpdf renders markdown research reports to PDF with numbered
// citations.
//
// # Quick Start
//
//	r, err := researchpdf.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res, err := r.Render(ctx, researchpdf.Input{
//	    Content: "Go is [fast](https://go.dev).",
//	    Title:   "Why Go",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Path) // reports/research_report_Why_Go_20250601_150405.pdf
//
// # Rendering Pipeline
//
//  1. Reference extraction: every markdown link and bare URL becomes a [n]
//     marker; repeated URLs share a number.
//  2. Markdown to HTML via Goldmark (tables, footnotes, chroma highlighting).
//  3. Optional [TOC] expansion and research-* class enhancement.
//  4. Document assembly from the report template, with the reference list.
//  5. PDF printing via headless Chrome (go-rod) and an atomic file write.
//
// Reference numbering is local to each Render call, so one Renderer may be
// shared between goroutines. The browser step is serialized per Renderer;
// use RendererPool for parallel PDF generation.
package researchpdf
