package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	stickersCmd.AddCommand(stickersCreateCmd)
	stickersCmd.AddCommand(stickersRmCmd)
	rootCmd.AddCommand(stickersCmd)
}

var stickersCmd = &cobra.Command{
	Use:   "stickers",
	Short: "Show the sticker album",
	RunE:  runStickersList,
}

var stickersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a sticker (spends a creation chance past the free slots)",
	Args:  cobra.ExactArgs(1),
	RunE:  runStickersCreate,
}

var stickersRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a sticker (restores its chance if it consumed one)",
	Args:  cobra.ExactArgs(1),
	RunE:  runStickersRm,
}

func runStickersList(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	stickers, err := d.Album.List(user)
	if err != nil {
		return err
	}

	if len(stickers) == 0 {
		fmt.Println("The album is empty. Run 'petapd stickers create <name>' to get started.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tID\tNAME\tSOURCE\tCHANCE\tCREATED")
	for _, s := range stickers {
		name := s.Name
		if name == "" && s.Reason != "" {
			name = s.Reason
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.Slot,
			s.ID,
			name,
			s.Source,
			checkbox(s.ConsumedChance),
			s.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func runStickersCreate(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	s, err := d.Album.Create(user, args[0])
	if err != nil {
		return err
	}

	if s.ConsumedChance {
		remaining, err := d.Entitlements.Remaining(user)
		if err != nil {
			return err
		}
		fmt.Printf("Created %q in slot %d (1 chance spent, %d left).\n", s.Name, s.Slot, remaining)
	} else {
		fmt.Printf("Created %q in slot %d (free slot).\n", s.Name, s.Slot)
	}
	return nil
}

func runStickersRm(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Album.Delete(user, args[0]); err != nil {
		return err
	}

	fmt.Println("Deleted.")
	return nil
}
