// Package cli assembles the perfpack command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/perfpack/perfpack/internal/cli/api"
	"github.com/perfpack/perfpack/internal/logging"
	"github.com/perfpack/perfpack/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "perfpack",
	Short: "Coordinate app-level profiling on Android devices",
	Long: `perfpack toggles the OS permissions a sampling profiler needs to attach to
a specific application, and later packages the profiler's output files into
a zip archive for retrieval.

Typical flow:
  1. perfpack api-prepare --app com.example.app --days 30
  2. The app records itself through the profiler's app API.
  3. perfpack api-collect --app com.example.app -o recording.zip`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cfg := logging.DefaultConfig()
	if level := os.Getenv("PERFPACK_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}

	rootCmd.AddCommand(api.NewPrepareCmd(cfg))
	rootCmd.AddCommand(api.NewCollectCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("perfpack version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
