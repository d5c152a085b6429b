// Ccw sends code, diffs and questions to a model served by Ollama and
// prints the reply.
//
// Each run uses an analysis mode that decides the system prompts and the
// inputs the request needs. Requests whose estimated context window exceeds
// --skip-larger are skipped without contacting the server.
//
// Usage:
//
//	ccw -f main.go                           # audit one file (checker mode)
//	ccw --mode explain -d ./pkg -q "why?"    # explain every file under ./pkg
//	git diff | ccw --mode commit_summary     # summarize a diff from stdin
//	ccw --mode commit_review --staged        # review staged changes
//	ccw --mode ask -q "what is a mutex?"     # ask a question
//	ccw serve                                # HTTP API on 127.0.0.1:8088
//	ccw mcp                                  # MCP tools over stdio
//
// OLLAMA_HOST must name the server, e.g. http://localhost:11434.
package main
