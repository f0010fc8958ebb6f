package command

import (
	"github.com/spf13/cobra"
)

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "Manage patient records",
	Long:  "The patients command is used to list, export and import patient records",
}

func init() {
	rootCmd.AddCommand(patientsCmd)
}
