package vectorstore

import "errors"

var (
	ErrMissingAPIKey      = errors.New("OpenAI API key is required")
	ErrNoVectorStore      = errors.New("no vector store available")
	ErrEmptyDocumentID    = errors.New("document ID is required")
	ErrVectorStoreRequest = errors.New("vector store request failed")
)
