package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestTOCInjection_InjectTOC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "no marker leaves content unchanged",
			input:    `<h1 id="a">A</h1><p>text</p>`,
			contains: []string{`<h1 id="a">A</h1><p>text</p>`},
		},
		{
			name:  "marker replaced with numbered entries",
			input: `<p>[TOC]</p><h1 id="intro">Intro</h1><h2 id="scope">Scope</h2><h2 id="method">Method</h2><h1 id="end">End</h1>`,
			contains: []string{
				`<nav class="toc">`,
				`<h2 class="toc-title">Table of Contents</h2>`,
				`<a href="#intro">1. Intro</a>`,
				`<a href="#scope">1.1. Scope</a>`,
				`<a href="#method">1.2. Method</a>`,
				`<a href="#end">2. End</a>`,
				`style="padding-left:1.5em"`,
			},
			notContains: []string{"[TOC]"},
		},
		{
			name:        "marker without headings is removed",
			input:       `<p>[TOC]</p><p>body</p>`,
			contains:    []string{"<p>body</p>"},
			notContains: []string{"[TOC]", "toc-list"},
		},
		{
			name:     "heading text is unescaped then escaped once",
			input:    `<p>[toc]</p><h2 id="qa">Q&amp;A <em>now</em></h2>`,
			contains: []string{`<a href="#qa">1. Q&amp;A now</a>`},
		},
		{
			name:     "skipped levels nest one deeper",
			input:    `<p>[TOC]</p><h1 id="a">A</h1><h4 id="b">B</h4>`,
			contains: []string{`1.1. B`},
		},
	}

	inj := NewTOCInjection()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := inj.InjectTOC(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("output should not contain %q\ngot: %s", unwanted, got)
				}
			}
		})
	}
}

func TestTOCInjection_EndToEndWithGoldmark(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fragment, err := NewGoldmarkConverter().ToHTML(ctx, "[TOC]\n\n# Overview\n\n## Details")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}

	got, err := NewTOCInjection().InjectTOC(ctx, fragment)
	if err != nil {
		t.Fatalf("InjectTOC: %v", err)
	}
	for _, want := range []string{`href="#overview"`, `href="#details"`, "1.1. Details"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot: %s", want, got)
		}
	}
}

func TestNumberingState(t *testing.T) {
	t.Parallel()

	levels := []int{2, 3, 3, 2, 4, 2}
	want := []string{"1.", "1.1.", "1.2.", "2.", "2.1.", "3."}

	var n numberingState
	for i, level := range levels {
		got, _ := n.next(level)
		if got != want[i] {
			t.Errorf("next(%d) #%d = %q, want %q", level, i, got, want[i])
		}
	}
}
