// internal/models/base.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

type BaseModel struct {
	gorm.Model
}

// EducationType discriminates the two education record variants.
type EducationType string

const (
	EducationSchool  EducationType = "school"
	EducationCollege EducationType = "college"
)

// EducationRecord is a tagged union keyed by Type. Only the fields of the
// active variant are meaningful; Validate rejects records that mix variants
// or leave the active variant's fields empty.
type EducationRecord struct {
	Type          EducationType `json:"type"`
	SchoolName    string        `json:"school_name,omitempty"`
	SchoolClass   string        `json:"school_class,omitempty"`
	CollegeName   string        `json:"college_name,omitempty"`
	CollegeYear   string        `json:"college_year,omitempty"`
	CollegeBranch string        `json:"college_branch,omitempty"`
}

// Validate checks that the record is complete for its active variant.
func (e EducationRecord) Validate() error {
	switch e.Type {
	case EducationSchool:
		if e.SchoolName == "" || e.SchoolClass == "" {
			return fmt.Errorf("school education requires school_name and school_class")
		}
		return nil
	case EducationCollege:
		if e.CollegeName == "" || e.CollegeYear == "" || e.CollegeBranch == "" {
			return fmt.Errorf("college education requires college_name, college_year and college_branch")
		}
		return nil
	case "":
		return fmt.Errorf("education type is required")
	default:
		return fmt.Errorf("unknown education type %q", e.Type)
	}
}

func (e EducationRecord) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan unmarshals a JSONB column into the struct.
func (e *EducationRecord) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("EducationRecord: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, e)
}

// EducationList is the JSONB column holding one record per player,
// parallel to the player name lists.
type EducationList []EducationRecord

func (l EducationList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan unmarshals a JSONB column into the slice.
func (l *EducationList) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("EducationList: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, l)
}

type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan unmarshals a JSONB column into the slice.
func (s *StringSlice) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("StringSlice: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}
