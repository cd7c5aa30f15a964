package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	historyCmd.Flags().IntVar(&historyDays, "days", 30, "Number of recent active days to show")
	rootCmd.AddCommand(historyCmd)
}

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed challenges per day",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	history, err := d.Engine.History(user, historyDays)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Println("No completed challenges yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tGOALS")
	for _, day := range history {
		goals := make([]string, len(day.Goals))
		for i, g := range day.Goals {
			goals[i] = fmt.Sprintf("%d", g)
		}
		fmt.Fprintf(w, "%s\t%s\n", day.Date, strings.Join(goals, ", "))
	}
	return w.Flush()
}
