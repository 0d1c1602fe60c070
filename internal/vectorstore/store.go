package vectorstore

import (
	"context"
	"fmt"
)

// Store is a searchable document collection.
type Store interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Fetch(ctx context.Context, id string) (*Document, error)
}

// SearchResult is one search hit. Text is a snippet of the best chunk.
type SearchResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Document is the full content of a stored file.
type Document struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	URL      string         `json:"url"`
	Metadata map[string]any `json:"metadata"`
}

const (
	// SnippetLength is the number of characters kept in search snippets.
	SnippetLength = 200

	// NoContent stands in for files without text.
	NoContent = "No content available"

	fileURLPrefix = "https://platform.openai.com/storage/files/"
)

// FileURL returns the platform URL of a stored file.
func FileURL(id string) string {
	return fileURLPrefix + id
}

// Snippet truncates text to SnippetLength characters, marking the cut with "...".
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetLength {
		return text
	}
	return string(runes[:SnippetLength]) + "..."
}

// ErrorDocument describes a failed fetch in the shape of a regular document,
// so callers that expect a document still get one.
func ErrorDocument(id string, err error) *Document {
	return &Document{
		ID:    id,
		Title: fmt.Sprintf("Error retrieving document %s", id),
		Text:  fmt.Sprintf("Error: %v", err),
		URL:   FileURL(id),
	}
}
