package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all data for a user (challenges, stickers, budget)",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	if !resetForce {
		fmt.Printf("This deletes all data for %q. Type the user id to confirm: ", user)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != user {
			fmt.Println("Aborted.")
			return nil
		}
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Engine.ResetAccount(user); err != nil {
		return err
	}

	fmt.Printf("All data for %q removed.\n", user)
	return nil
}
