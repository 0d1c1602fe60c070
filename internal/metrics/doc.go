// Package metrics records render, query and MCP tool metrics.
//
// Components depend on the Recorder interface. NoopRecorder is the default,
// PrometheusRecorder is wired by the HTTP and MCP servers, and Handler
// exposes its registry for scraping.
package metrics
