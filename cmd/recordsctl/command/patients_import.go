package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wardbook/records/patients"
)

var patientsImportParams = struct {
	File   string
	DryRun bool
}{}

var patientsImportCmd = &cobra.Command{
	Use:   "import {file}",
	Args:  cobra.ExactArgs(1),
	Short: "Import patients from a JSON file",
	Long:  "The import command creates a patient for each element of a JSON array. Patients without a patient_id get the next free id.",
	RunE: func(cmd *cobra.Command, args []string) error {
		patientsImportParams.File = args[0]
		return Run(importPatients)
	},
}

func importPatients(service patients.Service, logger *zap.SugaredLogger) error {
	b, err := os.ReadFile(patientsImportParams.File)
	if err != nil {
		return err
	}

	var list []patients.Patient
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("unable to parse %s: %w", patientsImportParams.File, err)
	}

	var errs []error
	imported := 0
	for i, patient := range list {
		if patientsImportParams.DryRun {
			patient.ApplyCreateDefaults(time.Now())
			if patient.PatientId == "" {
				patient.PatientId = patients.FormatPatientId(1)
			}
			if err := patient.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("patient %d: %w", i, err))
			}
			continue
		}

		created, err := service.Create(context.TODO(), patient)
		if err != nil {
			logger.Warnw("unable to import patient", "index", i, "patientId", patient.PatientId, "error", err)
			errs = append(errs, fmt.Errorf("patient %d: %w", i, err))
			continue
		}
		imported++
		fmt.Printf("Imported %s\n", created.PatientId)
	}

	fmt.Printf("Imported %v of %v patients\n", imported, len(list))
	return errors.Join(errs...)
}

func init() {
	patientsImportCmd.Flags().BoolVar(&patientsImportParams.DryRun, "dry-run", false, "Only validate the patients")
	patientsCmd.AddCommand(patientsImportCmd)
}
