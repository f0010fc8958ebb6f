package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wardbook/records/patients"
)

type PatientResponse struct {
	Data *patients.Patient `json:"data"`
}

type PatientsResponse struct {
	Data []*patients.Patient `json:"data"`
}

type NextPatientIdResponse struct {
	PatientId string `json:"patient_id"`
}

// (GET /api/patients)
func (h *Handler) ListPatients(ec echo.Context) error {
	ctx := ec.Request().Context()
	filter := patients.Filter{
		Status: queryParam(ec, "status"),
		Ward:   queryParam(ec, "ward"),
		Search: queryParam(ec, "search"),
	}

	list, err := h.patients.List(ctx, &filter)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*patients.Patient{}
	}

	return ec.JSON(http.StatusOK, PatientsResponse{Data: list})
}

// (GET /api/patients/next-id)
func (h *Handler) NextPatientId(ec echo.Context) error {
	ctx := ec.Request().Context()
	patientId, err := h.patients.NextPatientId(ctx)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, NextPatientIdResponse{PatientId: patientId})
}

// (GET /api/patients/:patient_id)
func (h *Handler) GetPatient(ec echo.Context) error {
	ctx := ec.Request().Context()
	patient, err := h.patients.Get(ctx, ec.Param("patient_id"))
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, PatientResponse{Data: patient})
}

// (POST /api/patients)
func (h *Handler) CreatePatient(ec echo.Context) error {
	ctx := ec.Request().Context()
	patient := patients.Patient{}
	if err := ec.Bind(&patient); err != nil {
		return err
	}
	// Clients must pick the id, usually from next-id. Only the import command relies on generated ids.
	if strings.TrimSpace(patient.PatientId) == "" {
		return patients.ErrMissingPatientId
	}

	result, err := h.patients.Create(ctx, patient)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusCreated, PatientResponse{Data: result})
}

// UpdatePatient replaces every section present in the body. Nested objects are not merged.
// (PUT /api/patients)
func (h *Handler) UpdatePatient(ec echo.Context) error {
	ctx := ec.Request().Context()
	update := patients.PatientUpdate{}
	if err := ec.Bind(&update); err != nil {
		return err
	}

	result, err := h.patients.Update(ctx, update)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, PatientResponse{Data: result})
}

// (DELETE /api/patients/:patient_id)
func (h *Handler) DeletePatient(ec echo.Context) error {
	ctx := ec.Request().Context()
	patient, err := h.patients.Delete(ctx, ec.Param("patient_id"))
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, PatientResponse{Data: patient})
}
