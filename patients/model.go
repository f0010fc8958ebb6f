package patients

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wardbook/records/validation"
)

type Patient struct {
	Id                    *primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	PatientId             string              `json:"patient_id" bson:"patient_id" validate:"required"`
	BasicDetails          BasicDetails        `json:"basic_details" bson:"basic_details"`
	Status                string              `json:"status" bson:"status" validate:"required,enum=status"`
	MedicalHistory        MedicalHistory      `json:"medical_history" bson:"medical_history"`
	FamilyBackground      []FamilyMember      `json:"family_background" bson:"family_background" validate:"omitempty,dive"`
	Vitals                map[string]Vitals   `json:"vitals" bson:"vitals" validate:"omitempty,dive,keys,calendardate,notfuture,endkeys"`
	PrimaryDiagnosis      PrimaryDiagnosis    `json:"primary_diagnosis" bson:"primary_diagnosis"`
	LabResults            LabResults          `json:"lab_results" bson:"lab_results"`
	Medications           []Medication        `json:"medications" bson:"medications" validate:"omitempty,dive"`
	Surgeries             []Surgery           `json:"surgeries" bson:"surgeries" validate:"omitempty,dive"`
	PatientLog            []LogEntry          `json:"patient_log" bson:"patient_log" validate:"omitempty,dive"`
	ComplicationsAndRisks []Complication      `json:"complications_and_risks" bson:"complications_and_risks" validate:"omitempty,dive"`
	CreatedTime           time.Time           `json:"createdAt" bson:"createdTime"`
	UpdatedTime           time.Time           `json:"updatedAt" bson:"updatedTime"`
}

type BasicDetails struct {
	Title      string `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,enum=title"`
	FirstName  string `json:"first_name,omitempty" bson:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty" bson:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Gender     string `json:"gender,omitempty" bson:"gender,omitempty" validate:"omitempty,enum=gender"`
	Birthday   string `json:"birthday,omitempty" bson:"birthday,omitempty" validate:"omitempty,calendardate,notfuture"`
	Ward       string `json:"ward" bson:"ward" validate:"required"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,phone"`
	Email      string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Address    string `json:"address,omitempty" bson:"address,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (b BasicDetails) FullName() string {
	name := b.FirstName
	for _, part := range []string{b.MiddleName, b.LastName} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}

type MedicalHistory struct {
	Smoking           string   `json:"smoking" bson:"smoking" validate:"omitempty,enum=smoking"`
	Alcohol           string   `json:"alcohol" bson:"alcohol" validate:"omitempty,enum=alcohol"`
	ChronicIllnesses  []string `json:"chronic_illnesses" bson:"chronic_illnesses"`
	Allergies         []string `json:"allergies" bson:"allergies"`
	PreviousSurgeries []string `json:"previous_surgeries" bson:"previous_surgeries"`
}

func DefaultMedicalHistory() MedicalHistory {
	return MedicalHistory{
		Smoking:           Unknown,
		Alcohol:           Unknown,
		ChronicIllnesses:  []string{},
		Allergies:         []string{},
		PreviousSurgeries: []string{},
	}
}

type FamilyMember struct {
	Disease  string `json:"disease" bson:"disease"`
	Relation string `json:"relation" bson:"relation" validate:"omitempty,enum=relation"`
}

// Vitals are recorded per calendar day, keyed by YYYY-MM-DD
type Vitals struct {
	Weight        *float64 `json:"weight,omitempty" bson:"weight,omitempty" validate:"omitempty,min=0.5,max=500"`
	Height        *float64 `json:"height,omitempty" bson:"height,omitempty" validate:"omitempty,min=20,max=300"`
	BloodPressure string   `json:"blood_pressure,omitempty" bson:"blood_pressure,omitempty" validate:"omitempty,bloodpressure"`
	Pulse         *int     `json:"pulse,omitempty" bson:"pulse,omitempty" validate:"omitempty,min=20,max=250"`
	Temperature   *float64 `json:"temperature,omitempty" bson:"temperature,omitempty" validate:"omitempty,min=30,max=45"`
	Observations  []string `json:"observations,omitempty" bson:"observations,omitempty"`
	Notes         string   `json:"notes,omitempty" bson:"notes,omitempty"`
}

type PrimaryDiagnosis struct {
	CancerType       string `json:"cancer_type,omitempty" bson:"cancer_type,omitempty"`
	SubCategory      string `json:"sub_category,omitempty" bson:"sub_category,omitempty"`
	Stage            string `json:"stage,omitempty" bson:"stage,omitempty" validate:"omitempty,enum=stage"`
	AssessedDate     string `json:"assessed_date,omitempty" bson:"assessed_date,omitempty" validate:"omitempty,calendardate,notfuture"`
	Findings         string `json:"findings,omitempty" bson:"findings,omitempty"`
	Notes            string `json:"notes,omitempty" bson:"notes,omitempty"`
	ConsultingDoctor string `json:"consulting_doctor,omitempty" bson:"consulting_doctor,omitempty"`
}

type LabResults struct {
	BloodTests          []LabResult `json:"blood_tests" bson:"blood_tests" validate:"omitempty,dive"`
	Imaging             []LabResult `json:"imaging" bson:"imaging" validate:"omitempty,dive"`
	OtherInvestigations []LabResult `json:"other_investigations" bson:"other_investigations" validate:"omitempty,dive"`
}

type LabResult struct {
	Name   string `json:"name" bson:"name"`
	Result string `json:"result" bson:"result"`
}

type Medication struct {
	Name      string `json:"name" bson:"name"`
	Dosage    string `json:"dosage,omitempty" bson:"dosage,omitempty"`
	StartDate string `json:"start_date" bson:"start_date" validate:"required,calendardate"`
	EndDate   string `json:"end_date,omitempty" bson:"end_date,omitempty" validate:"omitempty,calendardate"`
}

type Surgery struct {
	Name         string `json:"name" bson:"name"`
	Date         string `json:"date" bson:"date" validate:"required,calendardate"`
	Notes        string `json:"notes,omitempty" bson:"notes,omitempty"`
	Complication string `json:"complication,omitempty" bson:"complication,omitempty"`
}

type LogEntry struct {
	Date *time.Time `json:"date" bson:"date" validate:"required"`
	Note string     `json:"note" bson:"note" validate:"required,max=1000"`
}

type Complication struct {
	Date         *time.Time `json:"date" bson:"date" validate:"required"`
	Complication string     `json:"complication" bson:"complication"`
	Severity     string     `json:"severity,omitempty" bson:"severity,omitempty" validate:"omitempty,enum=severity"`
}

// PatientUpdate replaces every provided top level section of a patient. Nested
// objects are replaced as a whole, they are not merged field by field. Nil sections
// are left untouched.
type PatientUpdate struct {
	PatientId             string            `json:"patient_id"`
	BasicDetails          *BasicDetails     `json:"basic_details,omitempty"`
	Status                *string           `json:"status,omitempty" validate:"omitempty,enum=status"`
	MedicalHistory        *MedicalHistory   `json:"medical_history,omitempty"`
	FamilyBackground      []FamilyMember    `json:"family_background,omitempty" validate:"omitempty,dive"`
	Vitals                map[string]Vitals `json:"vitals,omitempty" validate:"omitempty,dive,keys,calendardate,notfuture,endkeys"`
	PrimaryDiagnosis      *PrimaryDiagnosis `json:"primary_diagnosis,omitempty"`
	LabResults            *LabResults       `json:"lab_results,omitempty"`
	Medications           []Medication      `json:"medications,omitempty" validate:"omitempty,dive"`
	Surgeries             []Surgery         `json:"surgeries,omitempty" validate:"omitempty,dive"`
	PatientLog            []LogEntry        `json:"patient_log,omitempty" validate:"omitempty,dive"`
	ComplicationsAndRisks []Complication    `json:"complications_and_risks,omitempty" validate:"omitempty,dive"`
}

func (u PatientUpdate) IsEmpty() bool {
	return u.BasicDetails == nil && u.Status == nil && u.MedicalHistory == nil &&
		u.FamilyBackground == nil && u.Vitals == nil && u.PrimaryDiagnosis == nil &&
		u.LabResults == nil && u.Medications == nil && u.Surgeries == nil &&
		u.PatientLog == nil && u.ComplicationsAndRisks == nil
}

// ApplyCreateDefaults resets the sections that are owned by the service on creation
func (p *Patient) ApplyCreateDefaults(now time.Time) {
	p.Status = StatusActive
	p.MedicalHistory = DefaultMedicalHistory()
	if p.FamilyBackground == nil {
		p.FamilyBackground = []FamilyMember{}
	}
	if p.Vitals == nil {
		p.Vitals = map[string]Vitals{}
	}
	if p.LabResults.BloodTests == nil {
		p.LabResults.BloodTests = []LabResult{}
	}
	if p.LabResults.Imaging == nil {
		p.LabResults.Imaging = []LabResult{}
	}
	if p.LabResults.OtherInvestigations == nil {
		p.LabResults.OtherInvestigations = []LabResult{}
	}
	if p.Medications == nil {
		p.Medications = []Medication{}
	}
	if p.Surgeries == nil {
		p.Surgeries = []Surgery{}
	}
	if p.PatientLog == nil {
		p.PatientLog = []LogEntry{}
	}
	if p.ComplicationsAndRisks == nil {
		p.ComplicationsAndRisks = []Complication{}
	}
	defaultEntryDates(p.PatientLog, p.ComplicationsAndRisks, now)
}

func (u *PatientUpdate) ApplyDefaults(now time.Time) {
	defaultEntryDates(u.PatientLog, u.ComplicationsAndRisks, now)
}

func defaultEntryDates(log []LogEntry, complications []Complication, now time.Time) {
	for i := range log {
		if log[i].Date == nil {
			log[i].Date = &now
		}
	}
	for i := range complications {
		if complications[i].Date == nil {
			complications[i].Date = &now
		}
	}
}

// Validate checks the struct constraints, the format of generated patient ids and
// that no two vitals keys fall on the same calendar day
func (p *Patient) Validate() error {
	fields, err := structFieldErrors(p)
	if err != nil {
		return err
	}
	fields = append(fields, patientIdFieldErrors(p.PatientId)...)
	fields = append(fields, vitalsFieldErrors(p.Vitals)...)
	return fieldErrorsToError(fields)
}

func (u *PatientUpdate) Validate() error {
	fields, err := structFieldErrors(u)
	if err != nil {
		return err
	}
	fields = append(fields, vitalsFieldErrors(u.Vitals)...)
	return fieldErrorsToError(fields)
}

func structFieldErrors(s interface{}) ([]validation.FieldError, error) {
	err := validation.Struct(s)
	if err == nil {
		return nil, nil
	}
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		return validationErr.Fields, nil
	}
	return nil, err
}

func fieldErrorsToError(fields []validation.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &validation.Error{Fields: fields}
}

// Ids with the generated prefix must have a numeric suffix which fits the id sequence
func patientIdFieldErrors(patientId string) []validation.FieldError {
	if !strings.HasPrefix(patientId, PatientIdPrefix) {
		return nil
	}
	if _, ok := ParsePatientId(patientId); ok {
		return nil
	}
	return []validation.FieldError{{Field: "patient_id", Rule: "patientid"}}
}

// Keys are normalized to calendar days on save, two keys for the same day would overwrite each other
func vitalsFieldErrors(vitals map[string]Vitals) []validation.FieldError {
	counts := map[string]int{}
	for key := range vitals {
		if date, err := validation.ParseDate(key); err == nil {
			counts[date.Format(validation.DateLayout)]++
		}
	}

	var fields []validation.FieldError
	for day, count := range counts {
		if count > 1 {
			fields = append(fields, validation.FieldError{Field: "vitals", Rule: "duplicate", Param: day})
		}
	}
	return fields
}

// NormalizeDates rewrites timestamps supplied for calendar date fields as YYYY-MM-DD
func (p *Patient) NormalizeDates() {
	normalizeDate(&p.BasicDetails.Birthday)
	normalizeDate(&p.PrimaryDiagnosis.AssessedDate)
	p.Vitals = normalizeVitals(p.Vitals)
	normalizeMedications(p.Medications)
	normalizeSurgeries(p.Surgeries)
}

func (u *PatientUpdate) NormalizeDates() {
	if u.BasicDetails != nil {
		normalizeDate(&u.BasicDetails.Birthday)
	}
	if u.PrimaryDiagnosis != nil {
		normalizeDate(&u.PrimaryDiagnosis.AssessedDate)
	}
	u.Vitals = normalizeVitals(u.Vitals)
	normalizeMedications(u.Medications)
	normalizeSurgeries(u.Surgeries)
}

func normalizeVitals(vitals map[string]Vitals) map[string]Vitals {
	if vitals == nil {
		return nil
	}
	normalized := make(map[string]Vitals, len(vitals))
	for date, v := range vitals {
		normalizeDate(&date)
		normalized[date] = v
	}
	return normalized
}

func normalizeMedications(medications []Medication) {
	for i := range medications {
		normalizeDate(&medications[i].StartDate)
		normalizeDate(&medications[i].EndDate)
	}
}

func normalizeSurgeries(surgeries []Surgery) {
	for i := range surgeries {
		normalizeDate(&surgeries[i].Date)
	}
}

func normalizeDate(value *string) {
	if *value == "" {
		return
	}
	if date, err := validation.ParseDate(*value); err == nil {
		*value = date.Format(validation.DateLayout)
	}
}
