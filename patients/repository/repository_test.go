package repository_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/wardbook/records/patients"
	patientsRepository "github.com/wardbook/records/patients/repository"
	patientsTest "github.com/wardbook/records/patients/test"
	"github.com/wardbook/records/pointer"
	dbTest "github.com/wardbook/records/store/test"
)

var _ = Describe("Patients Repository", func() {
	var repo patients.Repository
	var collection *mongo.Collection
	var ctx context.Context

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		connector := dbTest.GetTestConnector()
		repo, err = patientsRepository.NewRepository(connector, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
		Expect(connector.Initialize(ctx)).To(Succeed())

		collection, err = connector.Collection(ctx, patients.CollectionName)
		Expect(err).ToNot(HaveOccurred())
		_, err = collection.DeleteMany(ctx, bson.M{})
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Create", func() {
		It("round trips the patient", func() {
			patient := patientsTest.RandomPatient()
			created, err := repo.Create(ctx, patient)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Id).ToNot(BeNil())
			Expect(created.CreatedTime).ToNot(BeZero())

			fetched, err := repo.Get(ctx, patient.PatientId)
			Expect(err).ToNot(HaveOccurred())
			Expect(fetched.BasicDetails).To(Equal(patient.BasicDetails))
			Expect(fetched.Vitals).To(Equal(patient.Vitals))
			Expect(fetched.Status).To(Equal(patient.Status))
		})

		It("keeps the first record when the patient id is taken", func() {
			first := patientsTest.RandomPatient()
			_, err := repo.Create(ctx, first)
			Expect(err).ToNot(HaveOccurred())

			second := patientsTest.RandomPatient()
			second.PatientId = first.PatientId
			_, err = repo.Create(ctx, second)
			Expect(err).To(MatchError(patients.ErrDuplicate))

			fetched, err := repo.Get(ctx, first.PatientId)
			Expect(err).ToNot(HaveOccurred())
			Expect(fetched.BasicDetails).To(Equal(first.BasicDetails))
		})
	})

	Describe("Get", func() {
		It("returns not found for unknown ids", func() {
			_, err := repo.Get(ctx, "PT-99999")
			Expect(err).To(MatchError(patients.ErrNotFound))
		})
	})

	Describe("List", func() {
		var stored []patients.Patient

		BeforeEach(func() {
			stored = make([]patients.Patient, 0, 6)
			for i := 1; i <= 6; i++ {
				patient := patientsTest.RandomPatient()
				patient.PatientId = patients.FormatPatientId(i)
				patient.BasicDetails.Ward = "Ward A"
				if i%2 == 0 {
					patient.BasicDetails.Ward = "Ward B"
					patient.Status = patients.StatusDischarged
				}
				_, err := repo.Create(ctx, patient)
				Expect(err).ToNot(HaveOccurred())
				stored = append(stored, patient)
			}
		})

		It("returns every patient without a filter", func() {
			list, err := repo.List(ctx, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(6))
		})

		It("filters by status and ward", func() {
			list, err := repo.List(ctx, &patients.Filter{
				Status: pointer.FromString(patients.StatusDischarged),
				Ward:   pointer.FromString("Ward B"),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(3))
			Expect(list).To(HaveEach(PointTo(MatchFields(IgnoreExtras, Fields{
				"Status": Equal(patients.StatusDischarged),
			}))))
		})

		It("searches names case-insensitively", func() {
			target := stored[2]
			list, err := repo.List(ctx, &patients.Filter{
				Search: pointer.FromString(target.BasicDetails.LastName),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(ContainElement(PointTo(MatchFields(IgnoreExtras, Fields{
				"PatientId": Equal(target.PatientId),
			}))))
		})

		It("searches patient ids", func() {
			list, err := repo.List(ctx, &patients.Filter{Search: pointer.FromString("pt-0004")})
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].PatientId).To(Equal("PT-0004"))
		})
	})

	Describe("Update", func() {
		It("replaces only the provided sections", func() {
			patient := patientsTest.RandomPatient()
			_, err := repo.Create(ctx, patient)
			Expect(err).ToNot(HaveOccurred())

			details := patient.BasicDetails
			details.Ward = "ICU"
			details.Notes = ""
			updated, err := repo.Update(ctx, patients.PatientUpdate{
				PatientId:    patient.PatientId,
				BasicDetails: &details,
				Medications:  []patients.Medication{},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.BasicDetails.Ward).To(Equal("ICU"))
			Expect(updated.Medications).To(BeEmpty())
			Expect(updated.PatientId).To(Equal(patient.PatientId))
			Expect(updated.Vitals).To(Equal(patient.Vitals))
			Expect(updated.PrimaryDiagnosis).To(Equal(patient.PrimaryDiagnosis))
			Expect(updated.UpdatedTime).To(BeTemporally(">=", updated.CreatedTime))
		})

		It("returns not found for unknown ids", func() {
			_, err := repo.Update(ctx, patients.PatientUpdate{
				PatientId: "PT-99999",
				Status:    pointer.FromString(patients.StatusInactive),
			})
			Expect(err).To(MatchError(patients.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("returns the deleted patient and fails the second time", func() {
			patient := patientsTest.RandomPatient()
			_, err := repo.Create(ctx, patient)
			Expect(err).ToNot(HaveOccurred())

			deleted, err := repo.Delete(ctx, patient.PatientId)
			Expect(err).ToNot(HaveOccurred())
			Expect(deleted.PatientId).To(Equal(patient.PatientId))

			_, err = repo.Delete(ctx, patient.PatientId)
			Expect(err).To(MatchError(patients.ErrNotFound))

			list, err := repo.List(ctx, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(list).ToNot(ContainElement(PointTo(MatchFields(IgnoreExtras, Fields{
				"PatientId": Equal(patient.PatientId),
			}))))
		})
	})

	Describe("MaxPatientNumber", func() {
		It("is zero for an empty collection", func() {
			Expect(repo.MaxPatientNumber(ctx)).To(Equal(0))
		})

		It("compares suffixes numerically", func() {
			for _, id := range []string{"PT-0009", "PT-10000", "PT-9999", "LEGACY-123456"} {
				patient := patientsTest.RandomPatient()
				patient.PatientId = id
				_, err := repo.Create(ctx, patient)
				Expect(err).ToNot(HaveOccurred())
			}
			Expect(repo.MaxPatientNumber(ctx)).To(Equal(10000))
		})

		It("ignores suffixes which are too long for the id sequence", func() {
			for _, id := range []string{"PT-0042", "PT-99999999999999999999"} {
				patient := patientsTest.RandomPatient()
				patient.PatientId = id
				_, err := repo.Create(ctx, patient)
				Expect(err).ToNot(HaveOccurred())
			}
			Expect(repo.MaxPatientNumber(ctx)).To(Equal(42))
		})
	})
})
