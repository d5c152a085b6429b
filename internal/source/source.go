package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extensions lists the file extensions treated as source code.
var Extensions = []string{
	"c", "h",
	"cpp", "hpp", "cc", "hh", "cxx", "hxx",
	"cs",
	"go",
	"java", "js",
	"py",
	"rs",
	"ts",
}

// Fragment is the content of one source file, possibly cut to a line range.
type Fragment struct {
	Path    string
	Content string
}

// Options selects the files to collect.
type Options struct {
	Dir  string
	File string
	// StartLine and EndLine bound the lines kept from each file, 1-based and
	// inclusive. The range applies only when both are set.
	StartLine int
	EndLine   int
}

// HasRange reports whether a line range is in effect.
func (o Options) HasRange() bool {
	return o.StartLine > 0 && o.EndLine > 0
}

// IsSource reports whether path has one of the source extensions.
func IsSource(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ext != "" && slices.Contains(Extensions, ext)
}

// Read returns the content of path. When start and end are both positive
// only lines start through end are kept, each terminated by a newline.
func Read(path string, start, end int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if start <= 0 || end <= 0 {
		return string(data), nil
	}
	return sliceLines(data, start, end), nil
}

func sliceLines(data []byte, start, end int) string {
	var b strings.Builder
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for n := 1; sc.Scan(); n++ {
		if n > end {
			break
		}
		if n >= start {
			b.WriteString(strings.TrimSuffix(sc.Text(), "\r"))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Collect reads every source file under opts.Dir in walk order, then
// opts.File. Files without a source extension are skipped, as are .git
// directories.
func Collect(opts Options) ([]Fragment, error) {
	var frags []Fragment
	add := func(path string) error {
		content, err := Read(path, opts.StartLine, opts.EndLine)
		if err != nil {
			return err
		}
		frags = append(frags, Fragment{Path: path, Content: content})
		return nil
	}

	if opts.Dir != "" {
		err := filepath.WalkDir(opts.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsSource(path) {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", opts.Dir, err)
		}
	}

	if opts.File != "" && IsSource(opts.File) {
		if err := add(opts.File); err != nil {
			return nil, err
		}
	}
	return frags, nil
}
