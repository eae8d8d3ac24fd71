package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRow is returned when a lookup-table row fails validation.
var ErrInvalidRow = errors.New("invalid lookup row")

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegionCode maps an exact feed title to the one-letter code appended to
// its regional archive identifiers.
type RegionCode struct {
	Title     string    `json:"title" yaml:"title" validate:"required"`
	Code      string    `json:"code" yaml:"code" validate:"required,len=1"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// TitleCorrection maps a lowercase spoken phrase to the feed title it means.
type TitleCorrection struct {
	Phrase    string    `json:"phrase" yaml:"phrase" validate:"required"`
	Title     string    `json:"title" yaml:"title" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// ImportFile is the document accepted by cmd/import.
//
//	region_codes:
//	  - title: KC Newspapers
//	    code: k
//	title_corrections:
//	  - phrase: newsroom
//	    title: the newsroom hour
type ImportFile struct {
	RegionCodes      []RegionCode      `yaml:"region_codes" validate:"dive"`
	TitleCorrections []TitleCorrection `yaml:"title_corrections" validate:"dive"`
}

// Validate checks every row of the file.
func (f *ImportFile) Validate() error {
	return validateRow(f)
}

// TableCounts reports the row count of each lookup table.
type TableCounts struct {
	RegionCodes      int `json:"region_codes"`
	TitleCorrections int `json:"title_corrections"`
}

func validateRow(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRow, err)
	}
	return nil
}
