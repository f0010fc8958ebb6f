package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wardbook/records/patients"
	"github.com/wardbook/records/patients/report"
	"github.com/wardbook/records/pointer"
)

var patientsExportParams = struct {
	Output string
	Ward   string
}{}

var patientsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a patient census workbook",
	Long:  "The export command writes an xlsx workbook with a summary sheet and one row per patient",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(exportPatients) },
}

func exportPatients(service patients.Service, logger *zap.SugaredLogger) error {
	now := time.Now()
	output := patientsExportParams.Output
	if output == "" {
		output = fmt.Sprintf("census-%s.xlsx", now.Format("20060102"))
	}

	list, err := service.List(context.TODO(), &patients.Filter{
		Ward: pointer.FromNonEmptyString(patientsExportParams.Ward),
	})
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := report.NewCensus(list, now).Write(f); err != nil {
		return err
	}

	logger.Infow("census exported", "output", output, "patients", len(list))
	fmt.Printf("Exported %v patients to %s\n", len(list), output)
	return nil
}

func init() {
	patientsExportCmd.Flags().StringVarP(&patientsExportParams.Output, "output", "o", "", "Output file (default census-YYYYMMDD.xlsx)")
	patientsExportCmd.Flags().StringVar(&patientsExportParams.Ward, "ward", "", "Only export patients in this ward")
	patientsCmd.AddCommand(patientsExportCmd)
}
