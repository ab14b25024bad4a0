package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/benoit-pierre/lanes/keeper"
)

var receiveTimeout time.Duration

var receiveCmd = &cobra.Command{
	Use:   "receive KEY [KEY...]",
	Short: "Receive from the first non-empty of one or more keys",
	Long: `Blocks until a value is available on one of the given keys, the
timeout elapses, or is cancelled. Since each keeperctl invocation owns its
own short-lived Pool, a bare "keeperctl receive" against an empty store
will simply time out — this subcommand exists to exercise and demonstrate
the blocking/timeout path, not to bridge two separate processes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReceive,
}

func init() {
	receiveCmd.Flags().DurationVar(&receiveTimeout, "timeout", 2*time.Second, "how long to wait for a value")
	rootCmd.AddCommand(receiveCmd)
}

func runReceive(cmd *cobra.Command, args []string) error {
	runID := uuid.New().String()

	pool, linda, err := openPool("keeperctl-receive")
	if err != nil {
		return err
	}
	defer pool.Shutdown()
	defer linda.Close()

	keys := make([]keeper.Value, len(args))
	for i, a := range args {
		keys[i] = keeper.StringValue(a)
	}

	lane := keeper.NewLane()
	key, value, ok, err := linda.Receive(lane, &receiveTimeout, keys...)
	if err != nil {
		return fmt.Errorf("[%s] receive failed: %w", runID, err)
	}
	if !ok {
		color.New(color.FgYellow).Printf("[%s] timed out waiting on %v\n", runID, args)
		return nil
	}
	color.New(color.FgGreen).Printf("[%s] %s -> %s\n", runID, key.String(), value.String())
	return nil
}
