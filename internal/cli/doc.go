// Package cli wires together the Cobra command tree for the ccw binary.
//
// The root command runs an analysis: it collects source files, a diff or a
// question according to the mode, sends each request through the review
// engine and renders the results. Subcommands list modes and models, manage
// configuration, the reply cache, run history and the git hook, and start
// the HTTP and MCP servers. Exit codes are deterministic: 0 success,
// 2 usage error, 3 request rejected by the server, 4 runtime error.
package cli
