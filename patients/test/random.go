package test

import (
	"time"

	"github.com/wardbook/records/patients"
	"github.com/wardbook/records/pointer"
	"github.com/wardbook/records/test"
	"github.com/wardbook/records/validation"
)

var wards = []string{"Ward A", "Ward B", "Oncology", "Surgical", "ICU"}

func RandomPatientId() string {
	return patients.FormatPatientId(test.Faker.IntBetween(1, 9999))
}

func RandomWard() string {
	return test.RandomElement(wards)
}

func RandomPatient() patients.Patient {
	birthday := test.Faker.Time().TimeBetween(time.Now().AddDate(-90, 0, 0), time.Now().AddDate(-1, 0, 0))
	assessed := test.RandomDaysAgo(1, 365)
	vitalsDate := test.RandomDaysAgo(1, 30).Format(validation.DateLayout)

	return patients.Patient{
		PatientId: RandomPatientId(),
		BasicDetails: patients.BasicDetails{
			Title:     test.Faker.RandomStringElement(patients.Titles.ToSlice()),
			FirstName: test.Faker.Person().FirstName(),
			LastName:  test.Faker.Person().LastName(),
			Gender:    test.Faker.RandomStringElement(patients.Genders.ToSlice()),
			Birthday:  birthday.Format(validation.DateLayout),
			Ward:      RandomWard(),
			Phone:     "+44 7700 900" + test.Faker.Numerify("###"),
			Email:     test.Faker.Internet().Email(),
			City:      test.Faker.Address().City(),
		},
		Status:         patients.StatusActive,
		MedicalHistory: patients.DefaultMedicalHistory(),
		FamilyBackground: []patients.FamilyMember{
			{Disease: "Diabetes", Relation: test.Faker.RandomStringElement(patients.Relations.ToSlice())},
		},
		Vitals: map[string]patients.Vitals{
			vitalsDate: {
				Weight:        pointer.FromAny(test.Faker.Float64(1, 40, 120)),
				Height:        pointer.FromAny(test.Faker.Float64(1, 140, 200)),
				BloodPressure: "120/80",
				Pulse:         pointer.FromAny(test.Faker.IntBetween(50, 110)),
				Temperature:   pointer.FromAny(36.6),
			},
		},
		PrimaryDiagnosis: patients.PrimaryDiagnosis{
			CancerType:   test.Faker.RandomStringElement([]string{"Breast", "Lung", "Colorectal", "Prostate"}),
			Stage:        test.Faker.RandomStringElement(patients.Stages.ToSlice()),
			AssessedDate: assessed.Format(validation.DateLayout),
		},
		Medications: []patients.Medication{
			{Name: "Tamoxifen", Dosage: "20mg", StartDate: assessed.Format(validation.DateLayout)},
		},
		PatientLog: []patients.LogEntry{
			{Note: test.Faker.Lorem().Sentence(8)},
		},
		ComplicationsAndRisks: []patients.Complication{
			{Complication: "Neutropenia", Severity: test.Faker.RandomStringElement(patients.Severities.ToSlice())},
		},
	}
}
