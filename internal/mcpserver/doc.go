// Package mcpserver exposes a vector store to deep research clients over the
// Model Context Protocol.
//
// Two tools are registered: search returns cited snippets and fetch returns a
// full document. The server runs over stdio or streamable HTTP.
package mcpserver
