// Package server is the HTTP front end of the research service.
//
// It forwards queries to the research agency, renders markdown reports to
// PDF through a renderer pool, and exposes health and Prometheus endpoints.
package server
