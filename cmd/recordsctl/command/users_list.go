package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardbook/records/pointer"
	"github.com/wardbook/records/store"
	"github.com/wardbook/records/users"
)

var usersListParams = struct {
	Status string
	Page   int
	Limit  int
}{}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff accounts",
	Long:  "The list command prints staff accounts, newest registrations first",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listUsers) },
}

func listUsers(service users.Service) error {
	filter := users.Filter{Status: pointer.FromNonEmptyString(usersListParams.Status)}
	page := store.PageToPagination(usersListParams.Page, usersListParams.Limit)

	result, err := service.List(context.TODO(), &filter, page)
	if err != nil {
		return err
	}

	for _, user := range result.Users {
		fmt.Printf("%s %-9s %s (%s, %s)\n", user.IdString(), user.Status, user.Username, user.FullName, user.Position)
	}
	fmt.Printf("Page %v of %v, %v users in total\n", result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.Total)

	return nil
}

func init() {
	usersListCmd.Flags().StringVar(&usersListParams.Status, "status", users.StatusAll, "Only list users with this status (Pending, Approved, Rejected, Waiting or All)")
	usersListCmd.Flags().IntVar(&usersListParams.Page, "page", store.DefaultPage, "Page to print")
	usersListCmd.Flags().IntVar(&usersListParams.Limit, "limit", 50, "Users per page")
	usersCmd.AddCommand(usersListCmd)
}
