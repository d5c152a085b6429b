package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dshills/ccw/internal/config"
	"github.com/dshills/ccw/internal/providers"
)

const modelsTimeout = 30 * time.Second

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect the Ollama server",
}

// modelsClient builds a client for the configured host without touching
// cache or history.
func modelsClient(cmd *cobra.Command) (*providers.Ollama, config.Config, error) {
	cfg, err := loadConfig(cmd.Flags().Changed)
	if err != nil {
		return nil, cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, cfg, err
	}
	opts := cfg.ProviderOptions()
	if opts.Timeout == 0 || opts.Timeout > modelsTimeout {
		opts.Timeout = modelsTimeout
	}
	client, err := providers.NewOllama(opts)
	return client, cfg, err
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models installed on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := modelsClient(cmd)
		if err != nil {
			fail(err)
			return nil
		}

		models, err := client.Models(cmd.Context())
		if err != nil {
			fail(err)
			return nil
		}
		if len(models) == 0 {
			fmt.Fprintf(os.Stdout, "No models installed on %s.\n", client.BaseURL())
			return nil
		}
		fmt.Fprintln(os.Stdout, modelsTable(models, time.Now()))
		return nil
	},
}

func modelsTable(models []providers.Model, now time.Time) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "SIZE", "MODIFIED")
	for _, m := range models {
		t.Row(m.Name, humanize.Bytes(uint64(max(m.Size, 0))), humanize.RelTime(m.ModifiedAt, now, "ago", "from now"))
	}
	return t.String()
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the server answers and the configured model is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := modelsClient(cmd)
		if err != nil {
			fail(err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Checking %s...\n", client.BaseURL())
		models, err := client.Models(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if !hasModel(models, cfg.Model) {
			fmt.Fprintf(os.Stderr, "FAIL: model %s is not installed (run: ollama pull %s)\n", cfg.Model, cfg.Model)
			exitCode = ExitRequestProblem
			return nil
		}

		fmt.Fprintf(os.Stdout, "OK: %s is responding and %s is installed\n", client.BaseURL(), cfg.Model)
		return nil
	},
}

// hasModel reports whether name is installed. A name without a tag matches
// the implicit latest tag.
func hasModel(models []providers.Model, name string) bool {
	for _, m := range models {
		if m.Name == name || m.Name == name+":latest" {
			return true
		}
	}
	return false
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
}
