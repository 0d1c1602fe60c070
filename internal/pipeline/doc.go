// Package pipeline implements the markdown-to-HTML stages of report rendering.
//
// The stages run in this order:
//   - Markdown preprocessing (line ending normalization)
//   - Reference extraction: links and bare URLs become [n] citation markers
//   - Markdown to HTML conversion via Goldmark
//   - [TOC] marker replacement with a numbered table of contents
//   - Class enhancement of tables, blockquotes and code blocks
//   - Document assembly from the report template and CSS injection
//
// PDF rendering is handled by the root researchpdf package using headless
// Chrome (go-rod). Every stage is a pure function of its input, so a single
// set of stage values can serve concurrent renders.
package pipeline
