package service_test

import (
	"context"

	"github.com/mohae/deepcopy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/wardbook/records/errors"
	"github.com/wardbook/records/patients"
	patientsService "github.com/wardbook/records/patients/service"
	patientsTest "github.com/wardbook/records/patients/test"
	"github.com/wardbook/records/pointer"
	"github.com/wardbook/records/test"
	"github.com/wardbook/records/validation"
)

var _ = Describe("Patients Service", func() {
	var ctrl *gomock.Controller
	var repo *patientsTest.MockRepository
	var svc patients.Service
	var ctx context.Context

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		repo = patientsTest.NewMockRepository(ctrl)
		svc, err = patientsService.NewService(repo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Create", func() {
		var patient patients.Patient

		BeforeEach(func() {
			patient = patientsTest.RandomPatient()
			patient.Status = patients.StatusDeceased
			patient.MedicalHistory = patients.MedicalHistory{Smoking: "Current", Alcohol: "Regular", Allergies: []string{"Latex"}}
		})

		It("forces the active status and the default medical history", func() {
			repo.EXPECT().Create(gomock.Any(), test.Match(func(p patients.Patient) bool {
				return p.Status == patients.StatusActive &&
					p.MedicalHistory.Smoking == patients.Unknown &&
					p.MedicalHistory.Alcohol == patients.Unknown &&
					len(p.MedicalHistory.Allergies) == 0
			})).DoAndReturn(func(_ context.Context, p patients.Patient) (*patients.Patient, error) {
				return &p, nil
			})

			created, err := svc.Create(ctx, patient)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.PatientId).To(Equal(patient.PatientId))
			Expect(created.PatientLog[0].Date).ToNot(BeNil())
		})

		It("does not modify the input", func() {
			original := deepcopy.Copy(patient).(patients.Patient)
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p patients.Patient) (*patients.Patient, error) {
				return &p, nil
			})

			_, err := svc.Create(ctx, patient)
			Expect(err).ToNot(HaveOccurred())
			Expect(patient).To(Equal(original))
		})

		It("generates the next patient id when none is provided", func() {
			patient.PatientId = ""
			repo.EXPECT().MaxPatientNumber(gomock.Any()).Return(41, nil)
			repo.EXPECT().Create(gomock.Any(), test.Match(func(p patients.Patient) bool {
				return p.PatientId == "PT-0042"
			})).DoAndReturn(func(_ context.Context, p patients.Patient) (*patients.Patient, error) {
				return &p, nil
			})

			created, err := svc.Create(ctx, patient)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.PatientId).To(Equal("PT-0042"))
		})

		It("rejects invalid patients before touching the store", func() {
			patient.BasicDetails.Gender = "Unknown"
			_, err := svc.Create(ctx, patient)

			var validationErr *validation.Error
			Expect(err).To(BeAssignableToTypeOf(validationErr))
			code, _ := errors.Describe(err)
			Expect(code).To(Equal(400))
		})

		It("propagates duplicates", func() {
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, patients.ErrDuplicate)
			_, err := svc.Create(ctx, patient)
			Expect(err).To(MatchError(patients.ErrDuplicate))
		})
	})

	Describe("Update", func() {
		It("returns not found without a patient id", func() {
			_, err := svc.Update(ctx, patients.PatientUpdate{Status: pointer.FromString(patients.StatusInactive)})
			Expect(err).To(MatchError(patients.ErrNotFound))
		})

		It("dates new log entries", func() {
			update := patients.PatientUpdate{
				PatientId:  "PT-0001",
				PatientLog: []patients.LogEntry{{Note: "discharged home"}},
			}
			repo.EXPECT().Update(gomock.Any(), test.Match(func(u patients.PatientUpdate) bool {
				return u.PatientLog[0].Date != nil
			})).Return(&patients.Patient{PatientId: "PT-0001"}, nil)

			_, err := svc.Update(ctx, update)
			Expect(err).ToNot(HaveOccurred())
			Expect(update.PatientLog[0].Date).To(BeNil())
		})

		It("validates provided sections", func() {
			_, err := svc.Update(ctx, patients.PatientUpdate{
				PatientId: "PT-0001",
				Surgeries: []patients.Surgery{{Name: "Lumpectomy"}},
			})
			Expect(err).To(HaveOccurred())
		})

		It("propagates not found", func() {
			repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, patients.ErrNotFound)
			_, err := svc.Update(ctx, patients.PatientUpdate{PatientId: "PT-0404", Status: pointer.FromString(patients.StatusInactive)})
			Expect(err).To(MatchError(errors.NotFound))
		})
	})

	Describe("Get", func() {
		It("requires a patient id", func() {
			_, err := svc.Get(ctx, "")
			Expect(err).To(MatchError(patients.ErrMissingPatientId))
		})
	})

	Describe("Delete", func() {
		It("returns not found for an empty id", func() {
			_, err := svc.Delete(ctx, "")
			Expect(err).To(MatchError(patients.ErrNotFound))
		})
	})

	Describe("NextPatientId", func() {
		It("starts at one", func() {
			repo.EXPECT().MaxPatientNumber(gomock.Any()).Return(0, nil)
			Expect(svc.NextPatientId(ctx)).To(Equal("PT-0001"))
		})
	})
})
