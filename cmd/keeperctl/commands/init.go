package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default pool.yml",
	Long: `Writes a default pool.yml to the current directory: a single
Keeper with GC disabled. Edit keepers/gc_threshold to taste.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing pool.yml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	const template = `keepers: 1
gc_threshold: -1
`
	if err := os.WriteFile(configPath, []byte(template), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	color.New(color.FgGreen).Printf("wrote %s\n", configPath)
	return nil
}
