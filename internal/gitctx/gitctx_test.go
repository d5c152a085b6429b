package gitctx

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const twoFileDiff = `diff --git a/main.go b/main.go
--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
+import "fmt"
diff --git a/vendor/lib.go b/vendor/lib.go
--- a/vendor/lib.go
+++ b/vendor/lib.go
@@ -1,3 +1,4 @@
+package lib
`

func TestExtractFiles(t *testing.T) {
	files := extractFiles(twoFileDiff)
	if len(files) != 2 || files[0] != "main.go" || files[1] != "vendor/lib.go" {
		t.Errorf("extractFiles = %v", files)
	}
	if got := extractFiles("+++ b/a.go\n+++ b/a.go\n"); len(got) != 1 {
		t.Errorf("extractFiles did not dedup: %v", got)
	}
	if got := extractFiles(""); len(got) != 0 {
		t.Errorf("extractFiles(\"\") = %v", got)
	}
}

func TestSplitDiffSections(t *testing.T) {
	sections := splitDiffSections(twoFileDiff)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if strings.Join(sections, "") != twoFileDiff {
		t.Error("sections do not reassemble to the original diff")
	}
}

func TestSectionPath(t *testing.T) {
	tests := []struct {
		section string
		want    string
	}{
		{"diff --git a/x.go b/x.go\n--- a/x.go\n+++ b/x.go\n", "x.go"},
		{"diff --git a/gone.go b/gone.go\n--- a/gone.go\n+++ /dev/null\n", "gone.go"},
		{"diff --git a/bin b/bin\nBinary files differ\n", ""},
	}
	for _, tt := range tests {
		if got := sectionPath(tt.section); got != tt.want {
			t.Errorf("sectionPath = %q, want %q", got, tt.want)
		}
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"vendor/lib.go", []string{"vendor/**"}, true},
		{"vendor/deep/lib.go", []string{"vendor/**"}, true},
		{"main.go", []string{"vendor/**"}, false},
		{"foo.gen.go", []string{"**/*.gen.go"}, true},
		{"pkg/foo.gen.go", []string{"**/*.gen.go"}, true},
		{"web/dist/bundle.js", []string{"**/dist/**"}, true},
		{"main.go", []string{"*.go"}, true},
		{"main.go", nil, false},
	}
	for _, tt := range tests {
		if got := MatchesAny(tt.path, tt.patterns); got != tt.want {
			t.Errorf("MatchesAny(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
}

func TestShape_ExcludeBeforeTruncate(t *testing.T) {
	small := "diff --git a/main.go b/main.go\n--- a/main.go\n+++ b/main.go\n@@ -1 +1 @@\n+line\n"
	large := "diff --git a/vendor/big.go b/vendor/big.go\n--- a/vendor/big.go\n+++ b/vendor/big.go\n@@ -1 +1 @@\n+" + strings.Repeat("x", 500) + "\n"

	d := shape(large+small, Options{MaxBytes: 100, Exclude: []string{"vendor/**"}})
	if strings.Contains(d.Text, "truncated") {
		t.Error("diff truncated although the excluded part made it fit")
	}
	if d.Text != small {
		t.Errorf("Text = %q", d.Text)
	}
	if len(d.Files) != 1 || d.Files[0] != "main.go" {
		t.Errorf("Files = %v", d.Files)
	}
}

func TestShape_Truncation(t *testing.T) {
	d := shape("+++ b/a.go\n+"+strings.Repeat("x", 200)+"\n", Options{MaxBytes: 50})
	if !strings.HasSuffix(d.Text, "... (diff truncated)\n") {
		t.Errorf("Text = %q", d.Text)
	}
}

func TestDiffSource(t *testing.T) {
	if got := (Diff{Mode: "staged"}).Source(); got != "staged" {
		t.Errorf("Source = %q", got)
	}
	if got := (Diff{Mode: "range", Range: "main..HEAD"}).Source(); got != "range main..HEAD" {
		t.Errorf("Source = %q", got)
	}
}

// setupTestRepo creates a temp git repo with one commit and returns its path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=test",
			"GIT_COMMITTER_EMAIL=test@test.com",
			"GIT_CONFIG_NOSYSTEM=1",
			"HOME="+dir,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	run("init", "-q")
	run("checkout", "-q", "-b", "main")
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644)
	run("add", "-A")
	run("commit", "-q", "-m", "init")

	return dir
}

func TestStagedAndUnstaged(t *testing.T) {
	dir := setupTestRepo(t)
	ctx := context.Background()
	opts := Options{Dir: dir}

	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() { println(1) }\n"), 0o644)

	d, err := Unstaged(ctx, opts)
	if err != nil {
		t.Fatalf("Unstaged error: %v", err)
	}
	if !strings.Contains(d.Text, "+func main() { println(1) }") || d.Mode != "unstaged" {
		t.Errorf("Unstaged = %+v", d)
	}
	if d.Repo.Branch != "main" || d.Repo.Head == "" {
		t.Errorf("Repo = %+v", d.Repo)
	}

	staged, err := Staged(ctx, opts)
	if err != nil {
		t.Fatalf("Staged error: %v", err)
	}
	if staged.Text != "" {
		t.Errorf("Staged before add = %q, want empty", staged.Text)
	}

	cmd := exec.Command("git", "add", "main.go")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git add: %v\n%s", err, out)
	}
	staged, err = Staged(ctx, opts)
	if err != nil {
		t.Fatalf("Staged error: %v", err)
	}
	if len(staged.Files) != 1 || staged.Files[0] != "main.go" {
		t.Errorf("Staged files = %v", staged.Files)
	}
}

func TestCommitAndRange(t *testing.T) {
	dir := setupTestRepo(t)
	ctx := context.Background()
	opts := Options{Dir: dir}

	d, err := Commit(ctx, "HEAD", opts)
	if err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	if !strings.Contains(d.Text, "+package main") || d.Source() != "commit HEAD" {
		t.Errorf("Commit = %+v", d)
	}

	if _, err := Range(ctx, "HEAD..HEAD", opts); err != nil {
		t.Errorf("Range error: %v", err)
	}
	if _, err := Range(ctx, "nope..HEAD", opts); err == nil {
		t.Error("expected error for unknown revision")
	}
	if _, err := Commit(ctx, "", opts); err == nil {
		t.Error("expected error for empty commit")
	}
}

func TestRepo_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())
	_, err := Repo(context.Background(), Options{Dir: t.TempDir()})
	if !errors.Is(err, ErrNoRepo) {
		t.Errorf("Repo error = %v, want ErrNoRepo", err)
	}
}
