package command

import (
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage staff accounts",
	Long:  "The users command is used to review registrations and manage staff accounts",
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
