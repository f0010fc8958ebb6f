package patients_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"

	"github.com/wardbook/records/patients"
	patientsTest "github.com/wardbook/records/patients/test"
	"github.com/wardbook/records/pointer"
	"github.com/wardbook/records/validation"
)

var _ = Describe("Patient", func() {
	var patient patients.Patient

	BeforeEach(func() {
		patient = patientsTest.RandomPatient()
		patient.ApplyCreateDefaults(time.Now())
	})

	Describe("Validate", func() {
		It("accepts a complete patient", func() {
			Expect(patient.Validate()).To(Succeed())
		})

		It("requires a ward", func() {
			patient.BasicDetails.Ward = ""
			err := patient.Validate()
			Expect(err).To(HaveOccurred())
			Expect(fieldErrors(err)).To(ContainElement(MatchFields(IgnoreExtras, Fields{
				"Field": Equal("basic_details.ward"),
				"Rule":  Equal("required"),
			})))
		})

		It("rejects values outside of an enum", func() {
			patient.BasicDetails.Title = "Sir"
			patient.ComplicationsAndRisks[0].Severity = "Extreme"
			err := patient.Validate()
			Expect(fieldErrors(err)).To(ConsistOf(
				MatchFields(IgnoreExtras, Fields{"Field": Equal("basic_details.title"), "Rule": Equal("enum")}),
				MatchFields(IgnoreExtras, Fields{"Field": Equal("complications_and_risks[0].severity"), "Rule": Equal("enum")}),
			))
		})

		It("rejects a birthday in the future", func() {
			patient.BasicDetails.Birthday = time.Now().AddDate(0, 0, 2).Format(validation.DateLayout)
			Expect(fieldErrors(patient.Validate())).To(ContainElement(MatchFields(IgnoreExtras, Fields{
				"Field": Equal("basic_details.birthday"),
				"Rule":  Equal("notfuture"),
			})))
		})

		It("rejects malformed dates", func() {
			patient.PrimaryDiagnosis.AssessedDate = "31/12/2020"
			Expect(patient.Validate()).ToNot(Succeed())
		})

		DescribeTable("bounds vitals",
			func(mutate func(v *patients.Vitals), valid bool) {
				vitals := patients.Vitals{}
				mutate(&vitals)
				patient.Vitals = map[string]patients.Vitals{"2024-01-01": vitals}
				if valid {
					Expect(patient.Validate()).To(Succeed())
				} else {
					Expect(patient.Validate()).ToNot(Succeed())
				}
			},
			Entry("minimal weight", func(v *patients.Vitals) { v.Weight = pointer.FromAny(0.5) }, true),
			Entry("weight too low", func(v *patients.Vitals) { v.Weight = pointer.FromAny(0.4) }, false),
			Entry("weight too high", func(v *patients.Vitals) { v.Weight = pointer.FromAny(500.1) }, false),
			Entry("height too low", func(v *patients.Vitals) { v.Height = pointer.FromAny(19.0) }, false),
			Entry("pulse too high", func(v *patients.Vitals) { v.Pulse = pointer.FromAny(251) }, false),
			Entry("temperature in range", func(v *patients.Vitals) { v.Temperature = pointer.FromAny(45.0) }, true),
			Entry("temperature too low", func(v *patients.Vitals) { v.Temperature = pointer.FromAny(29.9) }, false),
			Entry("blood pressure", func(v *patients.Vitals) { v.BloodPressure = "120/80" }, true),
			Entry("malformed blood pressure", func(v *patients.Vitals) { v.BloodPressure = "120-80" }, false),
		)

		It("rejects vitals keyed by something other than a date", func() {
			patient.Vitals = map[string]patients.Vitals{"yesterday": {}}
			Expect(patient.Validate()).ToNot(Succeed())
		})

		It("caps log notes", func() {
			patient.PatientLog[0].Note = strings.Repeat("a", 1001)
			Expect(fieldErrors(patient.Validate())).To(ContainElement(MatchFields(IgnoreExtras, Fields{
				"Field": Equal("patient_log[0].note"),
				"Rule":  Equal("max"),
			})))
		})

		It("rejects generated ids which are too long for the id sequence", func() {
			patient.PatientId = "PT-99999999999999999999"
			Expect(fieldErrors(patient.Validate())).To(ConsistOf(MatchFields(IgnoreExtras, Fields{
				"Field": Equal("patient_id"),
				"Rule":  Equal("patientid"),
			})))
		})

		It("accepts ids without the generated prefix", func() {
			patient.PatientId = "LEGACY-123456789012345678901234"
			Expect(patient.Validate()).To(Succeed())
		})

		It("rejects two vitals keys for the same day", func() {
			patient.Vitals = map[string]patients.Vitals{
				"2024-01-01":           {Weight: pointer.FromAny(70.0)},
				"2024-01-01T08:00:00Z": {Weight: pointer.FromAny(71.0)},
			}
			Expect(fieldErrors(patient.Validate())).To(ConsistOf(MatchFields(IgnoreExtras, Fields{
				"Field": Equal("vitals"),
				"Rule":  Equal("duplicate"),
				"Param": Equal("2024-01-01"),
			})))
		})

		It("requires medication start dates", func() {
			patient.Medications = []patients.Medication{{Name: "Cisplatin"}}
			Expect(patient.Validate()).ToNot(Succeed())
		})
	})

	Describe("ApplyCreateDefaults", func() {
		It("resets the status and the medical history", func() {
			patient.Status = patients.StatusDeceased
			patient.MedicalHistory.Smoking = "Current"
			patient.MedicalHistory.Allergies = []string{"Penicillin"}
			patient.ApplyCreateDefaults(time.Now())

			Expect(patient.Status).To(Equal(patients.StatusActive))
			Expect(patient.MedicalHistory).To(Equal(patients.DefaultMedicalHistory()))
		})

		It("dates undated log entries and complications", func() {
			now := time.Now()
			patient.PatientLog = []patients.LogEntry{{Note: "admitted"}}
			patient.ComplicationsAndRisks = []patients.Complication{{Complication: "fever"}}
			patient.ApplyCreateDefaults(now)

			Expect(*patient.PatientLog[0].Date).To(Equal(now))
			Expect(*patient.ComplicationsAndRisks[0].Date).To(Equal(now))
		})
	})

	Describe("NormalizeDates", func() {
		It("stores timestamps as calendar dates", func() {
			patient.BasicDetails.Birthday = "1980-05-17T10:30:00Z"
			patient.Vitals = map[string]patients.Vitals{"2024-02-01T00:00:00Z": {}}
			patient.NormalizeDates()

			Expect(patient.BasicDetails.Birthday).To(Equal("1980-05-17"))
			Expect(patient.Vitals).To(HaveKey("2024-02-01"))
		})
	})

	Describe("PatientUpdate", func() {
		It("only validates provided sections", func() {
			update := patients.PatientUpdate{
				PatientId: patient.PatientId,
				Status:    pointer.FromString(patients.StatusDischarged),
			}
			Expect(update.Validate()).To(Succeed())
			Expect(update.IsEmpty()).To(BeFalse())
		})

		It("rejects an invalid status", func() {
			update := patients.PatientUpdate{
				PatientId: patient.PatientId,
				Status:    pointer.FromString("Gone"),
			}
			Expect(update.Validate()).ToNot(Succeed())
		})

		It("rejects vitals which would collapse into one day", func() {
			update := patients.PatientUpdate{
				PatientId: patient.PatientId,
				Vitals: map[string]patients.Vitals{
					"2024-01-01":           {Weight: pointer.FromAny(70.0)},
					"2024-01-01T08:00:00Z": {Weight: pointer.FromAny(71.0)},
				},
			}
			Expect(fieldErrors(update.Validate())).To(ContainElement(MatchFields(IgnoreExtras, Fields{
				"Field": Equal("vitals"),
				"Rule":  Equal("duplicate"),
			})))
		})

		It("keeps vitals for different days", func() {
			update := patients.PatientUpdate{
				PatientId: patient.PatientId,
				Vitals: map[string]patients.Vitals{
					"2024-01-01":           {Weight: pointer.FromAny(70.0)},
					"2024-01-02T08:00:00Z": {Weight: pointer.FromAny(71.0)},
				},
			}
			Expect(update.Validate()).To(Succeed())
			update.NormalizeDates()
			Expect(update.Vitals).To(HaveLen(2))
			Expect(update.Vitals).To(HaveKey("2024-01-02"))
		})
	})
})

var _ = Describe("Patient ids", func() {
	It("zero pads to four digits", func() {
		Expect(patients.FormatPatientId(7)).To(Equal("PT-0007"))
		Expect(patients.FormatPatientId(12345)).To(Equal("PT-12345"))
	})

	It("parses generated ids", func() {
		number, ok := patients.ParsePatientId("PT-0042")
		Expect(ok).To(BeTrue())
		Expect(number).To(Equal(42))

		_, ok = patients.ParsePatientId("MRN-42")
		Expect(ok).To(BeFalse())

		_, ok = patients.ParsePatientId("PT-99999999999999999999")
		Expect(ok).To(BeFalse())
	})
})

func fieldErrors(err error) []validation.FieldError {
	Expect(err).To(HaveOccurred())
	var validationErr *validation.Error
	Expect(err).To(BeAssignableToTypeOf(validationErr))
	return err.(*validation.Error).Fields
}
