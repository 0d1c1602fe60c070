package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unix line endings unchanged", "a\nb", "a\nb"},
		{"windows line endings", "a\r\nb\r\n", "a\nb\n"},
		{"old mac line endings", "a\rb", "a\nb"},
		{"blank lines compressed", "a\n\n\n\n\nb", "a\n\nb"},
		{"empty", "", ""},
	}

	p := &CommonMarkPreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreprocessMarkdown_CanceledContextReturnsInput(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "a\r\nb"
	if got := (&CommonMarkPreprocessor{}).PreprocessMarkdown(ctx, input); got != input {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "heading gets an id",
			input:    "## Key Findings",
			contains: []string{`<h2 id="key-findings">Key Findings</h2>`},
		},
		{
			name:     "table",
			input:    "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<th>a</th>", "<td>2</td>"},
		},
		{
			name:     "fenced code is highlighted with classes",
			input:    "```go\nfunc main() {}\n```",
			contains: []string{`class="chroma"`, "<pre"},
		},
		{
			name:     "hard line breaks",
			input:    "line one\nline two",
			contains: []string{"line one<br />"},
		},
		{
			name:     "footnotes",
			input:    "Claim[^1].\n\n[^1]: Evidence.",
			contains: []string{`class="footnotes"`, "Evidence."},
		},
		{
			name:     "definition list",
			input:    "Term\n: Definition",
			contains: []string{"<dl>", "<dt>Term</dt>", "<dd>Definition</dd>"},
		},
		{
			name:     "smart quotes",
			input:    `He said "hello".`,
			contains: []string{"&ldquo;hello&rdquo;"},
		},
		{
			name:     "ordered list keeps its start number",
			input:    "3. three\n4. four",
			contains: []string{`<ol start="3">`},
		},
		{
			name:     "heading attributes",
			input:    "## Setup {#custom-id}",
			contains: []string{`id="custom-id"`},
		},
		{
			name:     "citation markers survive as text",
			input:    "As reported [1] and [2].",
			contains: []string{"As reported [1] and [2]."},
		},
		{
			name:     "raw HTML is not passed through",
			input:    "<script>alert(1)</script>",
			contains: []string{"<!-- raw HTML omitted -->"},
		},
	}

	conv := NewGoldmarkConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# Title")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	for _, style := range []string{"", DefaultHighlightStyle, "does-not-exist"} {
		t.Run("style="+style, func(t *testing.T) {
			t.Parallel()

			css, err := HighlightCSS(style)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(css, ".chroma") {
				t.Errorf("CSS missing .chroma selector: %q", css)
			}
		})
	}
}
