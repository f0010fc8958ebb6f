package report

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/wardbook/records/patients"
)

const (
	SheetNameSummary    = "Summary"
	SheetNamePatients   = "Patients"
	GeneratedTimeFormat = time.RFC3339
)

var patientColumns = []string{"Patient ID", "Name", "Gender", "Birthday", "Ward", "Status", "Primary Diagnosis", "Stage"}

// Census is a workbook with the current patients grouped by status and ward
type Census struct {
	patients    []*patients.Patient
	createdTime time.Time
}

func NewCensus(list []*patients.Patient, createdTime time.Time) Census {
	return Census{patients: list, createdTime: createdTime}
}

func (c Census) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		c.addSummarySheet,
		c.addPatientsSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (c Census) Write(w io.Writer) error {
	report, err := c.Generate()
	if err != nil {
		return err
	}
	return report.Write(w)
}

func (c Census) addSummarySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SheetNameSummary)
	if err != nil {
		return err
	}

	sh.AddRow().AddCell().SetValue("Patient Census")
	sh.AddRow()

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Report Generated")
	currentRow.AddCell().SetValue(c.createdTime.Format(GeneratedTimeFormat))
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Total Patients")
	currentRow.AddCell().SetInt(len(c.patients))
	sh.AddRow()

	byStatus := map[string]int{}
	byWard := map[string]int{}
	for _, p := range c.patients {
		byStatus[p.Status]++
		byWard[p.BasicDetails.Ward]++
	}

	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Status ---")
	currentRow.AddCell().SetValue("Patients ---")
	for _, status := range []string{patients.StatusActive, patients.StatusInactive, patients.StatusDischarged, patients.StatusDeceased} {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(status)
		currentRow.AddCell().SetInt(byStatus[status])
	}
	sh.AddRow()

	wards := make([]string, 0, len(byWard))
	for ward := range byWard {
		wards = append(wards, ward)
	}
	sort.Strings(wards)

	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Ward ---")
	currentRow.AddCell().SetValue("Patients ---")
	for _, ward := range wards {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(ward)
		currentRow.AddCell().SetInt(byWard[ward])
	}

	return nil
}

func (c Census) addPatientsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SheetNamePatients)
	if err != nil {
		return err
	}

	header := sh.AddRow()
	for _, column := range patientColumns {
		header.AddCell().SetValue(column)
	}

	sorted := make([]*patients.Patient, len(c.patients))
	copy(sorted, c.patients)
	sort.SliceStable(sorted, func(i, j int) bool {
		return comparePatientIds(sorted[i].PatientId, sorted[j].PatientId)
	})

	for _, p := range sorted {
		currentRow := sh.AddRow()
		currentRow.AddCell().SetValue(p.PatientId)
		currentRow.AddCell().SetValue(p.BasicDetails.FullName())
		currentRow.AddCell().SetValue(p.BasicDetails.Gender)
		currentRow.AddCell().SetValue(p.BasicDetails.Birthday)
		currentRow.AddCell().SetValue(p.BasicDetails.Ward)
		currentRow.AddCell().SetValue(p.Status)
		currentRow.AddCell().SetValue(diagnosis(p.PrimaryDiagnosis))
		currentRow.AddCell().SetValue(p.PrimaryDiagnosis.Stage)
	}

	return nil
}

func diagnosis(d patients.PrimaryDiagnosis) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{d.CancerType, d.SubCategory} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " / ")
}

// Generated ids sort numerically, everything else after them alphabetically
func comparePatientIds(a, b string) bool {
	na, okA := patients.ParsePatientId(a)
	nb, okB := patients.ParsePatientId(b)
	switch {
	case okA && okB:
		return na < nb
	case okA != okB:
		return okA
	default:
		return a < b
	}
}
