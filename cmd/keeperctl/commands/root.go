// Package commands implements the keeperctl CLI: a small diagnostic tool
// for exercising and inspecting a keeper.Pool. Every subcommand builds its
// own short-lived Pool from a pool.yml — the library coordinates goroutines
// within one process, the way the embedded-runtime Keeper subsystem it is
// modeled on coordinates worker threads within one host process, so there
// is no cross-invocation persistence to speak of.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "keeperctl",
	Short: "keeperctl - inspect and exercise a keeper.Pool",
	Long: `keeperctl is a diagnostic CLI for the keeper package's Linda
channels. Each subcommand constructs its own Pool from pool.yml, runs one
operation against it, and prints the result — it is a debugging tool for
the library, not a standalone message broker.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pool.yml", "path to pool configuration")
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
