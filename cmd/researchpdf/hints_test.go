package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	researchpdf "github.com/alnah/go-researchpdf"
	"github.com/alnah/go-researchpdf/internal/config"
	"github.com/alnah/go-researchpdf/internal/vectorstore"
)

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"deadline", fmt.Errorf("converting to PDF: %w", context.DeadlineExceeded), true},
		{"page load", researchpdf.ErrPageLoad, true},
		{"config not found", config.ErrConfigNotFound, true},
		{"output dir", researchpdf.ErrCreateOutputDir, true},
		{"missing api key", vectorstore.ErrMissingAPIKey, true},
		{"no vector store", vectorstore.ErrNoVectorStore, true},
		{"plain error", errors.New("boom"), false},
		{"usage", ErrUsage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := hintFor(tt.err)
			if tt.wantHint && !strings.Contains(hint, "hint:") {
				t.Errorf("hintFor(%v) = %q, want a hint", tt.err, hint)
			}
			if !tt.wantHint && hint != "" {
				t.Errorf("hintFor(%v) = %q, want none", tt.err, hint)
			}
		})
	}
}
