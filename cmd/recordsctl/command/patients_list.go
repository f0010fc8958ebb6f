package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardbook/records/patients"
	"github.com/wardbook/records/pointer"
)

var patientsListParams = struct {
	Status string
	Ward   string
	Search string
}{}

var patientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patients",
	Long:  "The list command prints the patients matching the given filters",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listPatients) },
}

func listPatients(service patients.Service) error {
	list, err := service.List(context.TODO(), &patients.Filter{
		Status: pointer.FromNonEmptyString(patientsListParams.Status),
		Ward:   pointer.FromNonEmptyString(patientsListParams.Ward),
		Search: pointer.FromNonEmptyString(patientsListParams.Search),
	})
	if err != nil {
		return err
	}

	for _, patient := range list {
		fmt.Printf("%s %-10s %-8s %s\n", patient.PatientId, patient.Status, patient.BasicDetails.Ward, patient.BasicDetails.FullName())
	}
	fmt.Printf("Found %v patients\n", len(list))

	return nil
}

func init() {
	patientsListCmd.Flags().StringVar(&patientsListParams.Status, "status", "", "Only list patients with this status")
	patientsListCmd.Flags().StringVar(&patientsListParams.Ward, "ward", "", "Only list patients in this ward")
	patientsListCmd.Flags().StringVar(&patientsListParams.Search, "search", "", "Match patient ids and names")
	patientsCmd.AddCommand(patientsListCmd)
}
