package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(challengesCmd)
}

var challengesCmd = &cobra.Command{
	Use:     "challenges",
	Aliases: []string{"ls"},
	Short:   "List today's challenges and their state",
	RunE:    runChallenges,
}

func runChallenges(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	statuses, err := d.Engine.ListChallenges(user)
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		fmt.Println("All of today's challenges are claimed. Come back tomorrow!")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GOAL\tTYPE\tTITLE\tSATISFIED\tCOMPLETED\tREWARD")
	for _, st := range statuses {
		def := st.Definition
		kind := "daily"
		if def.IsConsecutive {
			kind = fmt.Sprintf("%d-day streak", def.ConsecutiveDays)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d stickers, %d chances\n",
			def.StepGoal,
			kind,
			def.Title,
			checkbox(st.Satisfied),
			checkbox(st.Completed),
			def.RewardStickers,
			def.RewardCreationChances,
		)
	}
	return w.Flush()
}
