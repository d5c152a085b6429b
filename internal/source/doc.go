// Package source gathers code fragments for the file-based modes: every
// source file under a directory plus an explicitly named file, optionally
// cut to a line range.
package source
