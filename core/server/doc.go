// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and limits for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, and the request body
// limit applied to dedupe payloads.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command when constructing the Fiber application.
package server
