package service

import (
	"context"
	"strings"
	"time"

	"github.com/mohae/deepcopy"
	"go.uber.org/zap"

	"github.com/wardbook/records/patients"
)

type service struct {
	repo   patients.Repository
	logger *zap.SugaredLogger
	now    func() time.Time
}

var _ patients.Service = &service{}

func NewService(repo patients.Repository, logger *zap.SugaredLogger) (patients.Service, error) {
	return &service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (s *service) Get(ctx context.Context, patientId string) (*patients.Patient, error) {
	if patientId == "" {
		return nil, patients.ErrMissingPatientId
	}
	return s.repo.Get(ctx, patientId)
}

func (s *service) List(ctx context.Context, filter *patients.Filter) ([]*patients.Patient, error) {
	return s.repo.List(ctx, filter)
}

// Create stores a new patient. A patient id is generated when none is provided.
// Status and medical history always start from their defaults.
func (s *service) Create(ctx context.Context, patient patients.Patient) (*patients.Patient, error) {
	patient = deepcopy.Copy(patient).(patients.Patient)
	patient.PatientId = strings.TrimSpace(patient.PatientId)
	if patient.PatientId == "" {
		patientId, err := s.NextPatientId(ctx)
		if err != nil {
			return nil, err
		}
		patient.PatientId = patientId
	}

	patient.ApplyCreateDefaults(s.now())
	if err := patient.Validate(); err != nil {
		return nil, err
	}
	patient.NormalizeDates()

	s.logger.Infow("creating patient", "patientId", patient.PatientId, "ward", patient.BasicDetails.Ward)
	return s.repo.Create(ctx, patient)
}

func (s *service) Update(ctx context.Context, update patients.PatientUpdate) (*patients.Patient, error) {
	update = deepcopy.Copy(update).(patients.PatientUpdate)
	update.PatientId = strings.TrimSpace(update.PatientId)
	if update.PatientId == "" {
		return nil, patients.ErrNotFound
	}

	update.ApplyDefaults(s.now())
	if err := update.Validate(); err != nil {
		return nil, err
	}
	update.NormalizeDates()

	s.logger.Infow("updating patient", "patientId", update.PatientId)
	return s.repo.Update(ctx, update)
}

func (s *service) Delete(ctx context.Context, patientId string) (*patients.Patient, error) {
	if patientId == "" {
		return nil, patients.ErrNotFound
	}

	s.logger.Infow("deleting patient", "patientId", patientId)
	return s.repo.Delete(ctx, patientId)
}

func (s *service) NextPatientId(ctx context.Context) (string, error) {
	number, err := s.repo.MaxPatientNumber(ctx)
	if err != nil {
		return "", err
	}
	return patients.FormatPatientId(number + 1), nil
}
