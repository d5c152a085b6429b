// Package mcpserver serves the analysis pipeline to MCP clients over stdio.
//
// Two tools are registered: analyze runs one request through the pipeline
// and list_modes describes the registered modes. Failures are returned as
// tool errors so the client model can see them.
package mcpserver
