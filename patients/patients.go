package patients

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/wardbook/records/errors"
)

//go:generate mockgen --build_flags=--mod=mod -source=./patients.go -destination=./test/mock_patients.go -package test Service,Repository

const (
	CollectionName  = "patients"
	PatientIdPrefix = "PT-"

	// Longer numeric suffixes don't fit into an int64
	MaxPatientIdDigits = 18
)

var (
	ErrNotFound         = errors.New(errors.NotFound, "Patient not found")
	ErrDuplicate        = errors.New(errors.Duplicate, "Patient ID already exists")
	ErrMissingPatientId = errors.New(errors.BadRequest, "Patient ID is required")

	patientIdRegexp = regexp.MustCompile(fmt.Sprintf(`^%s(\d{1,%d})$`, regexp.QuoteMeta(PatientIdPrefix), MaxPatientIdDigits))
)

type Service interface {
	Get(ctx context.Context, patientId string) (*Patient, error)
	List(ctx context.Context, filter *Filter) ([]*Patient, error)
	Create(ctx context.Context, patient Patient) (*Patient, error)
	Update(ctx context.Context, update PatientUpdate) (*Patient, error)
	Delete(ctx context.Context, patientId string) (*Patient, error)
	NextPatientId(ctx context.Context) (string, error)
}

type Repository interface {
	Get(ctx context.Context, patientId string) (*Patient, error)
	List(ctx context.Context, filter *Filter) ([]*Patient, error)
	Create(ctx context.Context, patient Patient) (*Patient, error)
	Update(ctx context.Context, update PatientUpdate) (*Patient, error)
	Delete(ctx context.Context, patientId string) (*Patient, error)
	// MaxPatientNumber returns the highest numeric suffix of all PT- identifiers, or 0
	MaxPatientNumber(ctx context.Context) (int, error)
}

type Filter struct {
	Status *string
	Ward   *string
	// Search matches names and patient ids, case-insensitive
	Search *string
}

func FormatPatientId(number int) string {
	return fmt.Sprintf("%s%04d", PatientIdPrefix, number)
}

func ParsePatientId(patientId string) (int, bool) {
	matches := patientIdRegexp.FindStringSubmatch(patientId)
	if matches == nil {
		return 0, false
	}
	number, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return number, true
}
