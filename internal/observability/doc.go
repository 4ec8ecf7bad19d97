// Package observability provides the structured logger and Prometheus
// metrics shared by the pipeline stages, the CLI and the HTTP server.
package observability
