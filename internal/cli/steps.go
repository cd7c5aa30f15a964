package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(stepsCmd)
}

var stepsCmd = &cobra.Command{
	Use:   "steps <count>",
	Short: "Report today's step count",
	Args:  cobra.ExactArgs(1),
	RunE:  runSteps,
}

func runSteps(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	steps, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("step count must be a number: %w", err)
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Engine.ReportSteps(user, steps); err != nil {
		return err
	}

	fmt.Printf("Recorded %d steps for today.\n", steps)
	return nil
}
