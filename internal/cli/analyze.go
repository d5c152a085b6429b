package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/ccw/internal/gitctx"
	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/output"
	"github.com/dshills/ccw/internal/progress"
	"github.com/dshills/ccw/internal/review"
	"github.com/dshills/ccw/internal/source"
)

// Analyze flags
var (
	flagMode        string
	flagDir         string
	flagFile        string
	flagStart       int
	flagEnd         int
	flagQuestion    string
	flagCriteria    string
	flagKeepAlive   int
	flagTimeout     int
	flagMaxAttempts int
	flagSkipLarger  int
	flagFormat      string
	flagOut         string
	flagStaged      bool
	flagUnstaged    bool
	flagCommit      string
	flagRange       string
	flagExclude     string
	flagCache       bool
	flagHistory     bool
	flagRedact      bool
)

// buildOverrides maps the flags the user set to config override keys.
func buildOverrides(changed func(string) bool) map[string]string {
	m := make(map[string]string)
	set := func(flag, key, value string) {
		if changed(flag) {
			m[key] = value
		}
	}
	set("env-file", "envFile", flagEnvFile)
	set("host", "host", flagHost)
	set("model", "model", flagModel)
	set("modes-file", "modesFile", flagModesFile)
	set("keepalive", "keepAlive", strconv.Itoa(flagKeepAlive))
	set("timeout", "timeout", strconv.Itoa(flagTimeout))
	set("max-attempts", "maxAttempts", strconv.Itoa(flagMaxAttempts))
	set("skip-larger", "skipLarger", strconv.Itoa(flagSkipLarger))
	set("format", "format", flagFormat)
	set("cache", "cache", strconv.FormatBool(flagCache))
	set("history", "history", strconv.FormatBool(flagHistory))
	set("redact", "redact", strconv.FormatBool(flagRedact))
	set("addr", "addr", flagAddr)
	return m
}

func splitComma(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags().Changed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		fail(err)
		return nil
	}
	defer a.Close()

	def := a.registry.Lookup(flagMode)
	inputs, err := collectInputs(ctx, def, os.Stdin)
	if err != nil {
		fail(err)
		return nil
	}

	out := io.Writer(os.Stdout)
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			fail(fmt.Errorf("creating output file: %w", err))
			return nil
		}
		defer f.Close()
		out = f
	}
	w, err := output.New(cfg.Format, out)
	if err != nil {
		fail(err)
		return nil
	}

	b := batch{
		engine:         a.engine,
		def:            def,
		inputs:         inputs,
		numbered:       def.Input == modes.InputFiles,
		skipLarger:     cfg.SkipLarger,
		keepAlive:      cfg.KeepAlive,
		timeoutSeconds: cfg.TimeoutSeconds,
		writer:         w,
		spinner:        os.Stderr,
	}
	if err := b.run(ctx); err != nil {
		fail(err)
	}
	return nil
}

// collectInputs gathers the request inputs for def from the flags: one per
// source file for files modes, one diff for stdin modes, and a single
// question for modes without a body.
func collectInputs(ctx context.Context, def modes.Definition, stdin io.Reader) ([]review.Input, error) {
	base := review.Input{Question: flagQuestion}
	if flagCriteria != "" {
		data, err := os.ReadFile(flagCriteria)
		if err != nil {
			return nil, fmt.Errorf("reading criteria: %w", err)
		}
		base.Criteria = string(data)
	}

	switch def.Input {
	case modes.InputNone:
		return []review.Input{base}, nil

	case modes.InputStdin:
		in := base
		diff, ok, err := gitDiff(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			in.Body = diff.Text
			in.Source = diff.Source()
			return []review.Input{in}, nil
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		in.Body = string(data)
		in.Source = "stdin"
		return []review.Input{in}, nil

	default:
		if flagDir == "" && flagFile == "" {
			return nil, usageErrorf("mode %s reads source files: pass --file or --dir", def.ID)
		}
		frags, err := source.Collect(source.Options{
			Dir:       flagDir,
			File:      flagFile,
			StartLine: flagStart,
			EndLine:   flagEnd,
		})
		if err != nil {
			return nil, err
		}
		if len(frags) == 0 {
			return nil, usageErrorf("no source files found (extensions: %s)", strings.Join(source.Extensions, ", "))
		}
		inputs := make([]review.Input, 0, len(frags))
		for _, f := range frags {
			in := base
			in.Body = f.Content
			in.Source = f.Path
			inputs = append(inputs, in)
		}
		return inputs, nil
	}
}

// gitDiff obtains the diff named by the git flags. ok is false when no git
// flag was given.
func gitDiff(ctx context.Context) (gitctx.Diff, bool, error) {
	n := 0
	for _, set := range []bool{flagStaged, flagUnstaged, flagCommit != "", flagRange != ""} {
		if set {
			n++
		}
	}
	if n == 0 {
		return gitctx.Diff{}, false, nil
	}
	if n > 1 {
		return gitctx.Diff{}, false, usageErrorf("--staged, --unstaged, --commit and --range are mutually exclusive")
	}

	opts := gitctx.Options{Exclude: splitComma(flagExclude)}
	var (
		diff gitctx.Diff
		err  error
	)
	switch {
	case flagStaged:
		diff, err = gitctx.Staged(ctx, opts)
	case flagUnstaged:
		diff, err = gitctx.Unstaged(ctx, opts)
	case flagCommit != "":
		diff, err = gitctx.Commit(ctx, flagCommit, opts)
	default:
		diff, err = gitctx.Range(ctx, flagRange, opts)
	}
	if err != nil {
		return gitctx.Diff{}, false, err
	}
	return diff, true, nil
}

// batch runs a sequence of inputs through the engine one at a time.
type batch struct {
	engine   *review.Engine
	def      modes.Definition
	inputs   []review.Input
	numbered bool

	skipLarger     int
	keepAlive      int
	timeoutSeconds int

	writer output.Writer
	// spinner is where progress is drawn while waiting; nil disables it.
	spinner *os.File
}

// run stops at the first usage error or fatal request problem. Skipped and
// exhausted requests do not stop the batch.
func (b batch) run(ctx context.Context) error {
	for i, in := range b.inputs {
		req, err := b.engine.Prepare(b.def, in)
		if err != nil {
			return err
		}

		h := output.Header{
			Source:         in.Source,
			ContextWindow:  req.ContextWindow,
			KeepAlive:      b.keepAlive,
			TimeoutSeconds: b.timeoutSeconds,
		}
		if b.numbered {
			h.Index = i + 1
			h.Total = len(b.inputs)
		}
		if err := b.writer.Start(h); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		stop := func() {}
		if b.spinner != nil && review.Admit(req.ContextWindow, b.skipLarger) {
			stop = progress.Start(b.spinner, "Waiting for "+b.engine.Model())
		}
		res, execErr := b.engine.Execute(ctx, req)
		stop()

		if err := b.writer.Result(res); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		if execErr != nil {
			b.writer.Close() //nolint:errcheck
			return execErr
		}
	}
	if err := b.writer.Close(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagMode, "mode", modes.DefaultID, "Analysis mode (see `ccw modes`)")
	f.StringVarP(&flagDir, "dir", "d", "", "Directory of source files to analyze")
	f.StringVarP(&flagFile, "file", "f", "", "Source file to analyze")
	f.IntVarP(&flagStart, "start", "s", 0, "First line to send (1-based, needs --end)")
	f.IntVarP(&flagEnd, "end", "e", 0, "Last line to send (inclusive, needs --start)")
	f.StringVarP(&flagQuestion, "question", "q", "", "Question about the code")
	f.StringVar(&flagCriteria, "criteria", "", "File holding acceptance criteria")
	f.IntVarP(&flagKeepAlive, "keepalive", "k", 0, "Seconds the server keeps the model loaded")
	f.IntVarP(&flagTimeout, "timeout", "t", 0, "Seconds allowed per attempt")
	f.IntVar(&flagMaxAttempts, "max-attempts", 0, "Network attempts per request")
	f.IntVar(&flagSkipLarger, "skip-larger", 0, "Skip requests whose context window exceeds this")
	f.StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	f.StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	f.BoolVar(&flagStaged, "staged", false, "Analyze staged changes instead of stdin")
	f.BoolVar(&flagUnstaged, "unstaged", false, "Analyze unstaged changes instead of stdin")
	f.StringVar(&flagCommit, "commit", "", "Analyze the diff of a commit instead of stdin")
	f.StringVar(&flagRange, "range", "", "Analyze a revision range (e.g. main..HEAD) instead of stdin")
	f.StringVar(&flagExclude, "exclude", "", "Path globs to drop from git diffs (comma-separated)")
	f.BoolVar(&flagCache, "cache", false, "Reuse cached replies for identical requests")
	f.BoolVar(&flagHistory, "history", false, "Record runs in the history database")
	f.BoolVar(&flagRedact, "redact", false, "Scrub secrets from input before sending")
}
