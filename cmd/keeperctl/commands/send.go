package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/benoit-pierre/lanes/keeper"
)

var sendTimeout time.Duration

var sendCmd = &cobra.Command{
	Use:   "send KEY VALUE [VALUE...]",
	Short: "Send one or more string values under KEY",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 0, "block at most this long for room (0 = one non-blocking attempt)")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	runID := uuid.New().String()

	pool, linda, err := openPool("keeperctl-send")
	if err != nil {
		return err
	}
	defer pool.Shutdown()
	defer linda.Close()

	key := keeper.StringValue(args[0])
	values := make([]keeper.Value, len(args)-1)
	for i, a := range args[1:] {
		values[i] = keeper.StringValue(a)
	}

	lane := keeper.NewLane()
	ok, err := linda.Send(lane, &sendTimeout, key, values...)
	if err != nil {
		return fmt.Errorf("[%s] send failed: %w", runID, err)
	}
	if ok {
		color.New(color.FgGreen).Printf("[%s] queued %d value(s) under %q\n", runID, len(values), args[0])
	} else {
		color.New(color.FgYellow).Printf("[%s] timed out: no room under %q\n", runID, args[0])
	}
	return nil
}
