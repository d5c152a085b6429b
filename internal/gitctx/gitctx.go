package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Options controls how diffs are gathered.
type Options struct {
	// Dir is the directory git runs in. Empty means the working directory.
	Dir          string
	ContextLines int
	// Exclude drops files matching these globs from the diff.
	Exclude []string
	// MaxBytes truncates the diff. Zero keeps it whole.
	MaxBytes int
}

// Diff is a collected diff with its provenance.
type Diff struct {
	Text  string
	Files []string
	Mode  string
	Range string
	Repo  RepoMeta
}

// Source describes where the diff came from, for display and history.
func (d Diff) Source() string {
	if d.Range != "" {
		return d.Mode + " " + d.Range
	}
	return d.Mode
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// ErrNoRepo is returned when git cannot find a repository.
var ErrNoRepo = errors.New("not a git repository")

// Repo collects repository metadata. Head and Branch are empty in a
// repository without commits.
func Repo(ctx context.Context, opts Options) (RepoMeta, error) {
	root, err := gitOutput(ctx, opts.Dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("%w: %v", ErrNoRepo, err)
	}
	head, _ := gitOutput(ctx, opts.Dir, "rev-parse", "HEAD")
	branch, _ := gitOutput(ctx, opts.Dir, "rev-parse", "--abbrev-ref", "HEAD")
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// Unstaged returns the diff of the working tree against the index.
func Unstaged(ctx context.Context, opts Options) (Diff, error) {
	return collect(ctx, opts, "unstaged", "", "diff")
}

// Staged returns the diff of the index against HEAD.
func Staged(ctx context.Context, opts Options) (Diff, error) {
	return collect(ctx, opts, "staged", "", "diff", "--cached")
}

// Commit returns the changes introduced by a single commit. The root commit
// is diffed against the empty tree.
func Commit(ctx context.Context, sha string, opts Options) (Diff, error) {
	if sha == "" {
		return Diff{}, errors.New("commit is required")
	}
	return collect(ctx, opts, "commit", sha, "show", "--format=", "--no-color", sha)
}

// Range returns the combined diff for a revision range such as main..HEAD.
func Range(ctx context.Context, revRange string, opts Options) (Diff, error) {
	if revRange == "" {
		return Diff{}, errors.New("revision range is required")
	}
	return collect(ctx, opts, "range", revRange, "diff", revRange)
}

func collect(ctx context.Context, opts Options, mode, rangeStr string, args ...string) (Diff, error) {
	args = append(args, diffFlags(opts)...)
	text, err := gitOutput(ctx, opts.Dir, args...)
	if err != nil {
		return Diff{}, fmt.Errorf("git %s: %w", strings.Join(args[:min(len(args), 2)], " "), err)
	}

	meta, err := Repo(ctx, opts)
	if err != nil {
		meta = RepoMeta{}
	}
	d := shape(text, opts)
	d.Mode = mode
	d.Range = rangeStr
	d.Repo = meta
	return d, nil
}

func diffFlags(opts Options) []string {
	var args []string
	if opts.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", opts.ContextLines))
	}
	return args
}

// shape applies exclusion then truncation, so excluded files do not use up
// the byte budget.
func shape(text string, opts Options) Diff {
	files := extractFiles(text)
	if len(opts.Exclude) > 0 {
		text = filterExcluded(text, opts.Exclude)
		files = filterFileList(files, opts.Exclude)
	}
	if opts.MaxBytes > 0 && len(text) > opts.MaxBytes {
		text = text[:opts.MaxBytes] + "\n... (diff truncated)\n"
	}
	return Diff{Text: text, Files: files}
}

func extractFiles(diff string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(diff, "\n") {
		f, ok := strings.CutPrefix(line, "+++ b/")
		if ok && !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	return files
}

func filterExcluded(diff string, excludes []string) string {
	var kept strings.Builder
	for _, section := range splitDiffSections(diff) {
		path := sectionPath(section)
		if path == "" || !MatchesAny(path, excludes) {
			kept.WriteString(section)
		}
	}
	return kept.String()
}

func splitDiffSections(diff string) []string {
	var sections []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "diff --git") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// sectionPath returns the post-image path of a diff section, falling back
// to the pre-image path for deletions.
func sectionPath(section string) string {
	var old string
	for _, line := range strings.Split(section, "\n") {
		if p, ok := strings.CutPrefix(line, "+++ b/"); ok {
			return p
		}
		if p, ok := strings.CutPrefix(line, "--- a/"); ok {
			old = p
		}
	}
	return old
}

func filterFileList(files []string, excludes []string) []string {
	var result []string
	for _, f := range files {
		if !MatchesAny(f, excludes) {
			result = append(result, f)
		}
	}
	return result
}

// MatchesAny reports whether path matches any of the glob patterns. A
// "**/" prefix matches at any depth and a "/**" suffix matches everything
// below a directory.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			dir = strings.TrimPrefix(dir, "**/")
			if strings.HasPrefix(path, dir+"/") || strings.Contains(path, "/"+dir+"/") {
				return true
			}
		}
		if clean, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, err := filepath.Match(clean, filepath.Base(path)); err == nil && matched {
				return true
			}
			if matched, err := filepath.Match(clean, path); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
