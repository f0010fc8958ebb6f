package integration_test

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wardbook/records/api"
	"github.com/wardbook/records/auth"
	"github.com/wardbook/records/patients"
	"github.com/wardbook/records/test"
	"github.com/wardbook/records/users"
)

var _ = Describe("Records", Ordered, func() {
	var nurse *session
	var admin *session
	var alice *users.User
	var patientId string

	It("registers a new member of staff as pending", func() {
		rec := perform(http.MethodPost, "/api/auth/register", auth.RegisterRequest{
			Username: "alice",
			Password: "correct horse",
			FullName: "Alice Smith",
			Position: "Nurse",
		}, nil)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		response := api.RegisterResponse{}
		decode(rec, &response)
		Expect(response.User.Status).To(Equal(users.StatusPending))
		alice = response.User
	})

	It("rejects a second registration with the same username", func() {
		rec := perform(http.MethodPost, "/api/auth/register", auth.RegisterRequest{
			Username: "alice",
			Password: "another",
		}, nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec).To(test.HaveMessage("User already exists"))
	})

	It("lets pending staff sign in", func() {
		nurse = login("alice", "correct horse")

		rec := perform(http.MethodGet, "/api/auth/user", nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))

		response := api.CurrentUserResponse{}
		decode(rec, &response)
		Expect(response.User.Username).To(Equal("alice"))
		Expect(response.IsAdmin).To(BeFalse())
	})

	It("rejects a wrong password", func() {
		rec := perform(http.MethodPost, "/api/auth/login", auth.LoginRequest{Username: "alice", Password: "wrong"}, nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("keeps the admin api to administrators", func() {
		rec := perform(http.MethodGet, "/api/admin/users", nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("lets an administrator approve staff", func() {
		hash, err := auth.HashPassword("admin password")
		Expect(err).ToNot(HaveOccurred())
		_, err = usersService.Create(context.Background(), &users.User{
			Username:     "root",
			PasswordHash: hash,
			Position:     AdminPosition,
			Status:       users.StatusApproved,
		})
		Expect(err).ToNot(HaveOccurred())
		admin = login("root", "admin password")

		rec := perform(http.MethodGet, "/api/admin/users?status=Waiting", nil, admin)
		Expect(rec.Code).To(Equal(http.StatusOK))
		list := users.ListResult{}
		decode(rec, &list)
		Expect(list.Users).To(HaveLen(1))
		Expect(list.Users[0].Username).To(Equal("alice"))

		rec = perform(http.MethodPatch, "/api/admin/users", api.UpdateUserStatusRequest{
			UserId: alice.IdString(),
			Status: users.StatusApproved,
		}, admin)
		Expect(rec.Code).To(Equal(http.StatusOK))
		response := api.UserResponse{}
		decode(rec, &response)
		Expect(response.User.Status).To(Equal(users.StatusApproved))
	})

	It("hands out the first patient id", func() {
		rec := perform(http.MethodGet, "/api/patients/next-id", nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))

		response := api.NextPatientIdResponse{}
		decode(rec, &response)
		Expect(response.PatientId).To(Equal("PT-0001"))
		patientId = response.PatientId
	})

	It("admits a patient as active with a default medical history", func() {
		patient := patients.Patient{}
		Expect(test.LoadJSONFixture("test/fixtures/patient.json", &patient)).To(Succeed())
		patient.PatientId = patientId

		rec := perform(http.MethodPost, "/api/patients", patient, nurse)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		response := api.PatientResponse{}
		decode(rec, &response)
		Expect(response.Data.Status).To(Equal(patients.StatusActive))
		Expect(response.Data.MedicalHistory).To(Equal(patients.DefaultMedicalHistory()))
		Expect(response.Data.PrimaryDiagnosis.AssessedDate).To(Equal("2024-01-20"))
		Expect(response.Data.PatientLog).To(HaveLen(1))
		Expect(response.Data.PatientLog[0].Date).ToNot(BeNil())

		rec = perform(http.MethodPost, "/api/patients", patient, nurse)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns the stored patient", func() {
		rec := perform(http.MethodGet, "/api/patients/"+patientId, nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))

		response := api.PatientResponse{}
		decode(rec, &response)
		Expect(response.Data.BasicDetails.FullName()).To(Equal("Grace Okafor"))
		Expect(response.Data.BasicDetails.Ward).To(Equal("Oncology"))
	})

	It("updates the provided sections only", func() {
		rec := perform(http.MethodPut, "/api/patients", []byte(`{"patient_id":"`+patientId+`","status":"Discharged"}`), nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))

		response := api.PatientResponse{}
		decode(rec, &response)
		Expect(response.Data.Status).To(Equal(patients.StatusDischarged))
		Expect(response.Data.BasicDetails.Ward).To(Equal("Oncology"))
	})

	It("filters the patient list", func() {
		rec := perform(http.MethodGet, "/api/patients?search=okaf", nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))
		response := api.PatientsResponse{}
		decode(rec, &response)
		Expect(response.Data).To(HaveLen(1))

		rec = perform(http.MethodGet, "/api/patients?status=Active", nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))
		decode(rec, &response)
		Expect(response.Data).To(BeEmpty())
	})

	It("deletes a patient once", func() {
		rec := perform(http.MethodDelete, "/api/patients/"+patientId, nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = perform(http.MethodDelete, "/api/patients/"+patientId, nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		rec = perform(http.MethodGet, "/api/patients", nil, nurse)
		response := api.PatientsResponse{}
		decode(rec, &response)
		Expect(response.Data).To(BeEmpty())
	})

	It("signs out", func() {
		rec := perform(http.MethodPost, "/api/auth/logout", nil, nurse)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Result().Cookies()[0].MaxAge).To(BeNumerically("<", 0))
	})
})
