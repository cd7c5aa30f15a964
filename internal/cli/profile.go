package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show level, today's progress, and the creation budget",
	RunE:  runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.Engine.Profile(user)
	if err != nil {
		return err
	}

	e, err := d.Entitlements.Get(user)
	if err != nil {
		return err
	}

	fmt.Printf("User:               %s\n", p.UserID)
	fmt.Printf("Level:              %d\n", p.Level)
	fmt.Printf("Goals conquered:    %d\n", p.DistinctGoals)
	fmt.Printf("Today's steps:      %d\n", p.TodaySteps)
	fmt.Printf("Completed today:    %d\n", p.TodayCompleted)
	fmt.Printf("Creation chances:   %d remaining (%d of %d used today)\n",
		e.Remaining(), e.DailyUsedCount, e.TotalChances)
	return nil
}
