package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardbook/records/users"
)

var usersSetStatusParams = struct {
	UserId string
	Status string
}{}

var usersSetStatusCmd = &cobra.Command{
	Use:   "set-status {userId} {status}",
	Args:  cobra.ExactArgs(2),
	Short: "Approve, reject or reset a staff account",
	Long:  "The set-status command changes the status of a staff account to Approved, Rejected or Waiting",
	RunE: func(cmd *cobra.Command, args []string) error {
		usersSetStatusParams.UserId = args[0]
		usersSetStatusParams.Status = args[1]
		return Run(setUserStatus)
	},
}

func setUserStatus(service users.Service) error {
	user, err := service.UpdateStatus(context.TODO(), usersSetStatusParams.UserId, usersSetStatusParams.Status)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s is now %s\n", user.IdString(), user.Username, user.Status)
	return nil
}

func init() {
	usersCmd.AddCommand(usersSetStatusCmd)
}
