package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/ccw/internal/version"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitUsageError     = 2
	ExitRequestProblem = 3
	ExitRuntimeError   = 4
)

var rootCmd = &cobra.Command{
	Use:   "ccw",
	Short: "Analyze code with a local Ollama model",
	Long: `ccw sends source files, diffs or questions to a model served by Ollama
using one of several analysis modes, and prints the reply.

Files modes read --file and --dir. Diff modes read standard input, or git
when --staged, --unstaged, --commit or --range is given.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print ccw version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stdout, version.String())
	},
}
