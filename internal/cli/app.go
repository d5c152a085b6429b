package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dshills/ccw/internal/cache"
	"github.com/dshills/ccw/internal/config"
	"github.com/dshills/ccw/internal/history"
	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/providers"
	"github.com/dshills/ccw/internal/review"
)

// Flags shared by every command.
var (
	flagEnvFile   string
	flagHost      string
	flagModel     string
	flagModesFile string
)

// app holds the collaborators built from the effective config.
type app struct {
	cfg      config.Config
	registry *modes.Registry
	client   *providers.Ollama
	engine   *review.Engine
	history  *history.Store
	logger   *slog.Logger
}

// loadConfig merges the config sources with the flags the user set.
func loadConfig(changed func(string) bool) (config.Config, error) {
	return config.Load(buildOverrides(changed))
}

// newApp validates cfg and builds the registry, client and engine. Cache
// and history are attached only when enabled.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := modes.Load(cfg.ModesFile)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	popts := cfg.ProviderOptions()
	popts.Logger = logger
	client, err := providers.NewOllama(popts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, registry: registry, client: client, logger: logger}
	engineOpts := []review.Option{review.WithLogger(logger)}

	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.CacheOptions())
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		engineOpts = append(engineOpts, review.WithCache(c))
	}
	if cfg.History.Enabled {
		store, err := history.Open(ctx, cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		a.history = store
		engineOpts = append(engineOpts, review.WithRecorder(store))
	}

	a.engine = review.New(cfg.Options(), client, engineOpts...)
	return a, nil
}

// Close releases the history database, if open.
func (a *app) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}

// fail prints err and sets the exit code matching its class.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exitCode = exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case review.IsUsageError(err), errors.Is(err, providers.ErrHostMissing), isInvocationError(err):
		return ExitUsageError
	case providers.IsRequestProblem(err), errors.Is(err, providers.ErrMalformedResponse):
		return ExitRequestProblem
	default:
		return ExitRuntimeError
	}
}

// invocationError reports a command invoked with missing or conflicting
// flags or input.
type invocationError string

func (e invocationError) Error() string { return string(e) }

func usageErrorf(format string, args ...any) error {
	return invocationError(fmt.Sprintf(format, args...))
}

func isInvocationError(err error) bool {
	var ie invocationError
	return errors.As(err, &ie)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagEnvFile, "env-file", "", "Environment file to load (default .env)")
	pf.StringVar(&flagHost, "host", "", "Ollama server address (overrides OLLAMA_HOST)")
	pf.StringVarP(&flagModel, "model", "m", "", "Model name")
	pf.StringVar(&flagModesFile, "modes-file", "", "YAML file with extra or overriding modes")
}
