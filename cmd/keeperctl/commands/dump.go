package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/benoit-pierre/lanes/keeper"
)

var dumpSeed []string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Seed keys and print a Linda's FIFO contents",
	Long: `Optionally seeds one or more keys via --seed key=value (repeatable,
comma-separate multiple values for one key) and prints the resulting
{key -> {first, count, limit, fifo}} table — a one-shot way to look at the
Set/Dump path without writing Go.`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringArrayVar(&dumpSeed, "seed", nil, "key=value[,value...] to Set before dumping")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	pool, linda, err := openPool("keeperctl-dump")
	if err != nil {
		return err
	}
	defer pool.Shutdown()
	defer linda.Close()

	for _, seed := range dumpSeed {
		k, values, err := parseSeed(seed)
		if err != nil {
			return err
		}
		if _, err := linda.Set(k, values...); err != nil {
			return fmt.Errorf("seeding %q: %w", seed, err)
		}
	}

	snapshot, err := linda.Dump()
	if err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}

	bold := color.New(color.FgCyan, color.Bold)
	if len(snapshot) == 0 {
		fmt.Println("(empty)")
		return nil
	}
	for key, kd := range snapshot {
		bold.Printf("%s\n", key.String())
		fmt.Printf("  first=%d count=%d limit=%d\n", kd.First, kd.Count, kd.Limit)
		for i, v := range kd.FIFO {
			fmt.Printf("  [%d] %s\n", i, v.String())
		}
	}
	return nil
}

func parseSeed(seed string) (keeper.Value, []keeper.Value, error) {
	parts := strings.SplitN(seed, "=", 2)
	if len(parts) != 2 {
		return keeper.Value{}, nil, fmt.Errorf("invalid --seed %q, want key=value[,value...]", seed)
	}
	key := keeper.StringValue(parts[0])
	rawValues := strings.Split(parts[1], ",")
	values := make([]keeper.Value, len(rawValues))
	for i, v := range rawValues {
		values[i] = keeper.StringValue(v)
	}
	return key, values, nil
}
