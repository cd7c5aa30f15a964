package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/apukou/petapd/internal/app/challenge"
	"github.com/apukou/petapd/internal/domain"
)

func init() {
	claimCmd.Flags().BoolVar(&claimConsecutive, "consecutive", false, "Claim the consecutive variant")
	claimCmd.Flags().IntVar(&claimDays, "days", 0, "Streak length of the consecutive variant")
	rootCmd.AddCommand(claimCmd)
}

var (
	claimConsecutive bool
	claimDays        int
)

var claimCmd = &cobra.Command{
	Use:   "claim <step-goal>",
	Short: "Claim the reward for a completed challenge",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaim,
}

func runClaim(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	goal, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("step goal must be a number: %w", err)
	}

	def, err := challenge.Lookup(goal, claimConsecutive, claimDays)
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Engine.AttemptClaim(user, def)
	if err != nil {
		return err
	}

	if !res.Claimed {
		switch res.Reason {
		case domain.ReasonAlreadyClaimed:
			fmt.Printf("%q is already claimed today.\n", def.Title)
		case domain.ReasonNotSatisfied:
			fmt.Printf("%q is not completed yet. Keep walking!\n", def.Title)
		}
		return nil
	}

	fmt.Printf("Claimed %q: +%d stickers, +%d creation chances\n",
		def.Title, res.Stickers, res.Chances)
	return nil
}
