package patients

import (
	"github.com/wardbook/records/validation"
)

const (
	StatusActive     = "Active"
	StatusInactive   = "Inactive"
	StatusDischarged = "Discharged"
	StatusDeceased   = "Deceased"

	Unknown = "Unknown"
)

const (
	EnumTitle    = "title"
	EnumGender   = "gender"
	EnumStatus   = "status"
	EnumSmoking  = "smoking"
	EnumAlcohol  = "alcohol"
	EnumRelation = "relation"
	EnumStage    = "stage"
	EnumSeverity = "severity"
)

// Allowed values for the enum=<name> validation tags used by the patient model
var (
	Titles     = validation.RegisterEnum(EnumTitle, "Mr", "Mrs", "Ms", "Miss", "Dr", "Prof")
	Genders    = validation.RegisterEnum(EnumGender, "Male", "Female", "Other")
	Statuses   = validation.RegisterEnum(EnumStatus, StatusActive, StatusInactive, StatusDischarged, StatusDeceased)
	Smoking    = validation.RegisterEnum(EnumSmoking, "Never", "Former", "Current", Unknown)
	Alcohol    = validation.RegisterEnum(EnumAlcohol, "Never", "Occasional", "Regular", "Former", Unknown)
	Relations  = validation.RegisterEnum(EnumRelation, "Father", "Mother", "Brother", "Sister", "Son", "Daughter", "Grandfather", "Grandmother", "Uncle", "Aunt", "Cousin", "Other")
	Stages     = validation.RegisterEnum(EnumStage, "0", "I", "II", "III", "IV", Unknown)
	Severities = validation.RegisterEnum(EnumSeverity, "Low", "Moderate", "High", "Critical")
)
