package pipeline

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestExtractReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantText string
		wantRefs []Reference
	}{
		{
			name:     "no links",
			input:    "Plain text only.",
			wantText: "Plain text only.",
		},
		{
			name:     "single markdown link",
			input:    "See [Go](https://go.dev) for details.",
			wantText: "See [1] for details.",
			wantRefs: []Reference{{Number: 1, Title: "Go", URL: "https://go.dev"}},
		},
		{
			name:     "empty link text uses domain",
			input:    "[](https://www.example.com/page)",
			wantText: "[1]",
			wantRefs: []Reference{{Number: 1, Title: "example.com", URL: "https://www.example.com/page"}},
		},
		{
			name:     "link target with surrounding spaces",
			input:    "[]( https://example.com/page )",
			wantText: "[1]",
			wantRefs: []Reference{{Number: 1, Title: "example.com", URL: "https://example.com/page"}},
		},
		{
			name:     "anchor link is untouched",
			input:    "Jump to [Section](#intro).",
			wantText: "Jump to [Section](#intro).",
		},
		{
			name:     "duplicate markdown links share a number",
			input:    "[A](https://a.com) and [again](https://a.com) and [B](https://b.com)",
			wantText: "[1] and [1] and [2]",
			wantRefs: []Reference{
				{Number: 1, Title: "A", URL: "https://a.com"},
				{Number: 2, Title: "B", URL: "https://b.com"},
			},
		},
		{
			name:     "bare URLs",
			input:    "Visit https://a.com/x or www.b.org today",
			wantText: "Visit [1] or [2] today",
			wantRefs: []Reference{
				{Number: 1, Title: "a.com", URL: "https://a.com/x"},
				{Number: 2, Title: "b.org", URL: "www.b.org"},
			},
		},
		{
			name:     "bare URL drops sentence punctuation",
			input:    "Source: https://a.com/x.",
			wantText: "Source: [1].",
			wantRefs: []Reference{{Number: 1, Title: "a.com", URL: "https://a.com/x"}},
		},
		{
			name:     "bare URL in parentheses",
			input:    "(see https://a.com/x)",
			wantText: "(see [1])",
			wantRefs: []Reference{{Number: 1, Title: "a.com", URL: "https://a.com/x"}},
		},
		{
			name:     "balanced parentheses stay in the URL",
			input:    "https://en.wikipedia.org/wiki/Go_(language)",
			wantText: "[1]",
			wantRefs: []Reference{{Number: 1, Title: "en.wikipedia.org", URL: "https://en.wikipedia.org/wiki/Go_(language)"}},
		},
		{
			name:     "link then bare occurrences share a number",
			input:    "[Docs](https://x.io/d) then https://x.io/d and https://x.io/d",
			wantText: "[1] then [1] and [1]",
			wantRefs: []Reference{{Number: 1, Title: "Docs", URL: "https://x.io/d"}},
		},
		{
			name:     "no normalization of trailing slash",
			input:    "https://x.io/ and https://x.io",
			wantText: "[1] and [2]",
			wantRefs: []Reference{
				{Number: 1, Title: "x.io", URL: "https://x.io/"},
				{Number: 2, Title: "x.io", URL: "https://x.io"},
			},
		},
		{
			name:     "URL glued to a bracket is skipped",
			input:    "[https://a.com] stays",
			wantText: "[https://a.com] stays",
		},
		{
			name:     "image syntax is treated as a link",
			input:    "![chart](https://img.io/c.png)",
			wantText: "![1]",
			wantRefs: []Reference{{Number: 1, Title: "chart", URL: "https://img.io/c.png"}},
		},
		{
			name:     "markdown links numbered before bare URLs",
			input:    "https://first.com then [late](https://second.com)",
			wantText: "[2] then [1]",
			wantRefs: []Reference{
				{Number: 1, Title: "late", URL: "https://second.com"},
				{Number: 2, Title: "first.com", URL: "https://first.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotText, gotRefs := ExtractReferences(tt.input)
			if gotText != tt.wantText {
				t.Errorf("text = %q, want %q", gotText, tt.wantText)
			}
			if !reflect.DeepEqual(gotRefs, tt.wantRefs) {
				t.Errorf("refs = %+v, want %+v", gotRefs, tt.wantRefs)
			}
		})
	}
}

func TestExtractReferences_DistinctURLsGetContiguousNumbers(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	const n = 25
	for i := range n {
		fmt.Fprintf(&sb, "[site %d](https://site%d.example.com) ", i, i)
		fmt.Fprintf(&sb, "https://site%d.example.com\n", i)
	}

	text, refs := ExtractReferences(sb.String())
	if len(refs) != n {
		t.Fatalf("got %d references, want %d", len(refs), n)
	}
	for i, ref := range refs {
		if ref.Number != i+1 {
			t.Errorf("refs[%d].Number = %d, want %d", i, ref.Number, i+1)
		}
		m := fmt.Sprintf("[%d]", i+1)
		if got := strings.Count(text, m); got != 2 {
			t.Errorf("marker %s appears %d times, want 2", m, got)
		}
	}
	if strings.Contains(text, "http") {
		t.Errorf("substituted text still contains a URL: %q", text)
	}
}

func TestExtractReferences_ConcurrentCallsAreIndependent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	errs := make(chan string, 50)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			input := fmt.Sprintf("[a](https://a%d.com) [b](https://b%d.com)", i, i)
			text, refs := ExtractReferences(input)
			if text != "[1] [2]" || len(refs) != 2 {
				errs <- fmt.Sprintf("call %d: text=%q refs=%d", i, text, len(refs))
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestDomainTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"https://www.example.com/page", "example.com"},
		{"http://docs.example.org", "docs.example.org"},
		{"www.example.net/path", "example.net"},
		{"example.io", "example.io"},
		{"https://example.com:8080/x", "example.com:8080"},
		{"https://", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := DomainTitle(tt.input); got != tt.want {
				t.Errorf("DomainTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
