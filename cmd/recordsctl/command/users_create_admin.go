package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardbook/records/auth"
	"github.com/wardbook/records/users"
)

var usersCreateAdminParams = struct {
	Username string
	Password string
	FullName string
}{}

var usersCreateAdminCmd = &cobra.Command{
	Use:   "create-admin {username}",
	Args:  cobra.ExactArgs(1),
	Short: "Create an approved administrator account",
	Long:  "The create-admin command bootstraps an administrator. The account is approved and holds the configured admin position.",
	RunE: func(cmd *cobra.Command, args []string) error {
		usersCreateAdminParams.Username = args[0]
		return Run(createAdmin)
	},
}

func createAdmin(service users.Service, roles users.RoleResolver) error {
	if usersCreateAdminParams.Password == "" {
		return fmt.Errorf("a password is required")
	}
	if roles.AdminPosition() == "" {
		return &auth.ConfigError{Setting: "HOSPITAL_ADMIN_POSITION"}
	}

	hash, err := auth.HashPassword(usersCreateAdminParams.Password)
	if err != nil {
		return err
	}

	user, err := service.Create(context.TODO(), &users.User{
		Username:     usersCreateAdminParams.Username,
		PasswordHash: hash,
		FullName:     usersCreateAdminParams.FullName,
		Position:     roles.AdminPosition(),
		Status:       users.StatusApproved,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created administrator %s (%s)\n", user.Username, user.IdString())
	return nil
}

func init() {
	usersCreateAdminCmd.Flags().StringVar(&usersCreateAdminParams.Password, "password", "", "Password of the administrator")
	usersCreateAdminCmd.Flags().StringVar(&usersCreateAdminParams.FullName, "full-name", "", "Full name of the administrator")
	usersCmd.AddCommand(usersCreateAdminCmd)
}
