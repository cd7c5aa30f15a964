package cli

import (
	"fmt"

	"github.com/apukou/petapd/internal/daemon"
	"github.com/apukou/petapd/internal/domain"
)

var flagUser string

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User id to act as")
}

// requireUser returns the --user value or an error when it is missing.
func requireUser() (string, error) {
	if flagUser == "" {
		return "", fmt.Errorf("--user is required: %w", domain.ErrNotAuthenticated)
	}
	return flagUser, nil
}

// openDaemon builds a daemon against the local store for one-shot commands.
func openDaemon() (*daemon.Daemon, error) {
	return daemon.New()
}

// checkbox renders a boolean as a terminal checkbox.
func checkbox(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}
