// Package output renders run progress and results.
//
// Three formats are supported:
//   - text: the reply between status lines (context window banner, skip
//     notice, elapsed time), styled with lipgloss on a terminal
//   - json: every result of the invocation as one JSON document
//   - markdown: one section per request
//
// Use [New] to obtain a [Writer] by format name.
package output
