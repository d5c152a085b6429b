// Package gitctx obtains diffs from git for the diff-based modes.
//
// It covers unstaged, staged, single-commit and revision-range diffs by
// shelling out to git. Results can be filtered by exclude globs and
// truncated to a maximum byte size.
package gitctx
