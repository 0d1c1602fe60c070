package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// NewClient builds an OpenAI client for apiKey. Extra options are applied
// last, so tests can point the client at a local server.
func NewClient(apiKey string, opts ...option.RequestOption) (openai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return openai.Client{}, ErrMissingAPIKey
	}
	return openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...), nil
}

// DetectVectorStoreID returns configured when set, otherwise the ID of the
// first vector store listed for the account.
func DetectVectorStoreID(ctx context.Context, client openai.Client, configured string) (string, error) {
	if id := strings.TrimSpace(configured); id != "" {
		return id, nil
	}

	page, err := client.VectorStores.List(ctx, openai.VectorStoreListParams{Limit: openai.Int(1)})
	if err != nil {
		return "", fmt.Errorf("%w: listing vector stores: %v", ErrVectorStoreRequest, err)
	}
	if len(page.Data) == 0 {
		return "", ErrNoVectorStore
	}
	return page.Data[0].ID, nil
}

// OpenAIStore implements Store on top of an OpenAI vector store.
type OpenAIStore struct {
	client        openai.Client
	vectorStoreID string
	logger        *slog.Logger
}

var _ Store = (*OpenAIStore)(nil)

// NewOpenAIStore creates a Store for one vector store. A nil logger uses slog.Default.
func NewOpenAIStore(client openai.Client, vectorStoreID string, logger *slog.Logger) *OpenAIStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIStore{client: client, vectorStoreID: vectorStoreID, logger: logger}
}

// VectorStoreID returns the store being queried.
func (s *OpenAIStore) VectorStoreID() string {
	return s.vectorStoreID
}

// Search runs a semantic search. Missing fields in a hit are filled with
// positional fallbacks rather than dropping the hit.
func (s *OpenAIStore) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []SearchResult{}, nil
	}

	s.logger.Info("searching vector store", "vector_store", s.vectorStoreID, "query", query)

	page, err := s.client.VectorStores.Search(ctx, s.vectorStoreID, openai.VectorStoreSearchParams{
		Query: openai.VectorStoreSearchParamsQueryUnion{OfString: openai.String(query)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrVectorStoreRequest, err)
	}

	results := make([]SearchResult, 0, len(page.Data))
	for i, hit := range page.Data {
		id := hit.FileID
		if id == "" {
			id = fmt.Sprintf("vs_%d", i)
		}
		title := hit.Filename
		if title == "" {
			title = fmt.Sprintf("Document %d", i+1)
		}
		text := ""
		if len(hit.Content) > 0 {
			text = hit.Content[0].Text
		}
		if text == "" {
			text = NoContent
		}
		results = append(results, SearchResult{
			ID:    id,
			Title: title,
			Text:  Snippet(text),
			URL:   FileURL(id),
		})
	}

	s.logger.Info("vector store search done", "results", len(results))
	return results, nil
}

// Fetch retrieves a file's full text with its title and attributes.
func (s *OpenAIStore) Fetch(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, ErrEmptyDocumentID
	}

	s.logger.Info("fetching vector store file", "vector_store", s.vectorStoreID, "file_id", id)

	content, err := s.client.VectorStores.Files.Content(ctx, s.vectorStoreID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: file content: %v", ErrVectorStoreRequest, err)
	}
	info, err := s.client.VectorStores.Files.Get(ctx, s.vectorStoreID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: file info: %v", ErrVectorStoreRequest, err)
	}

	text := NoContent
	if len(content.Data) > 0 {
		parts := make([]string, 0, len(content.Data))
		for _, c := range content.Data {
			parts = append(parts, c.Text)
		}
		text = strings.Join(parts, "\n")
	}

	return &Document{
		ID:       id,
		Title:    s.fileTitle(ctx, id),
		Text:     text,
		URL:      FileURL(id),
		Metadata: attributes(info.Attributes),
	}, nil
}

// fileTitle looks up the uploaded file name; vector store file objects do not carry it.
func (s *OpenAIStore) fileTitle(ctx context.Context, id string) string {
	f, err := s.client.Files.Get(ctx, id)
	if err != nil || f.Filename == "" {
		if err != nil {
			s.logger.Debug("file name lookup failed", "file_id", id, "error", err)
		}
		return fmt.Sprintf("Document %s", id)
	}
	return f.Filename
}

// attributes converts file attributes to plain values, nil when there are none.
func attributes(attrs map[string]openai.VectorStoreFileAttributeUnion) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = attributeValue(v)
	}
	return out
}

func attributeValue(v openai.VectorStoreFileAttributeUnion) any {
	var val any
	if raw := v.RawJSON(); raw != "" && json.Unmarshal([]byte(raw), &val) == nil {
		return val
	}
	switch {
	case v.JSON.OfBool.Valid():
		return v.OfBool
	case v.JSON.OfFloat.Valid():
		return v.OfFloat
	default:
		return v.OfString
	}
}
