package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apukou/petapd/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store location, config, and health checks",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Data dir:  %s\n", daemon.PetapHome())
	fmt.Printf("API:       %s:%d\n", d.Config.API.Host, d.Config.API.Port)
	fmt.Printf("Metrics:   %v\n", d.Config.Telemetry.Prometheus)
	fmt.Println()

	d.Health.RunOnce(context.Background())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tHEALTHY\tERROR")
	for _, s := range d.Health.Statuses() {
		errMsg := s.Error
		if errMsg == "" {
			errMsg = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, checkbox(s.Healthy), errMsg)
	}
	return w.Flush()
}
