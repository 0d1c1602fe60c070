package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alnah/go-researchpdf/internal/metrics"
	"github.com/alnah/go-researchpdf/internal/vectorstore"
)

// Tool names.
const (
	ToolSearch = "search"
	ToolFetch  = "fetch"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"search query, natural language or keywords"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
}

// SearchResultOutput is a single cited snippet.
type SearchResultOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// FetchInput is the input schema for the fetch tool.
type FetchInput struct {
	ID string `json:"id" jsonschema:"document ID returned by search"`
}

// FetchOutput is the output schema for the fetch tool.
type FetchOutput struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	URL      string         `json:"url"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearch,
		Description: "Search the vector store for documents relevant to a query. Returns IDs, titles, snippets and citation URLs.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolFetch,
		Description: "Retrieve the complete content of a document by ID for analysis and citation.",
	}, s.handleFetch)
}

// handleSearch never fails the call: store errors are logged and produce no results.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	output := SearchOutput{Results: []SearchResultOutput{}}
	if strings.TrimSpace(input.Query) == "" {
		s.recorder.IncToolCall(ToolSearch, metrics.OutcomeSuccess)
		return nil, output, nil
	}

	results, err := s.store.Search(ctx, input.Query)
	if err != nil {
		s.logger.Error("vector store search failed", "query", input.Query, "error", err)
		s.recorder.IncToolCall(ToolSearch, metrics.OutcomeOf(err))
		return nil, output, nil
	}

	for _, r := range results {
		output.Results = append(output.Results, SearchResultOutput(r))
	}
	s.recorder.IncToolCall(ToolSearch, metrics.OutcomeSuccess)
	return nil, output, nil
}

// handleFetch rejects an empty ID; store errors come back as an error document.
func (s *Server) handleFetch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FetchInput,
) (*mcp.CallToolResult, FetchOutput, error) {
	if input.ID == "" {
		s.recorder.IncToolCall(ToolFetch, metrics.OutcomeError)
		return nil, FetchOutput{}, vectorstore.ErrEmptyDocumentID
	}

	doc, err := s.store.Fetch(ctx, input.ID)
	if err != nil {
		s.logger.Error("vector store fetch failed", "id", input.ID, "error", err)
		s.recorder.IncToolCall(ToolFetch, metrics.OutcomeOf(err))
		doc = vectorstore.ErrorDocument(input.ID, err)
	} else {
		s.recorder.IncToolCall(ToolFetch, metrics.OutcomeSuccess)
	}

	return nil, FetchOutput{
		ID:       doc.ID,
		Title:    doc.Title,
		Text:     doc.Text,
		URL:      doc.URL,
		Metadata: doc.Metadata,
	}, nil
}
