// Package vectorstore searches and fetches research documents held in an
// OpenAI vector store.
//
// Store is the interface the MCP server depends on; OpenAIStore implements it
// with openai-go. Results carry a stable platform URL so they can be cited.
package vectorstore
