// Package server exposes the analysis pipeline as a small JSON HTTP API.
//
// Routes:
//
//	GET  /health       reports whether the model server answers
//	GET  /v1/modes     lists the registered modes
//	POST /v1/analyze   runs one request through the pipeline
//
// The API has no authentication and is meant to listen on localhost.
package server
