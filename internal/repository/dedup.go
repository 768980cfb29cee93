package repository

import (
	"time"

	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/utils"
)

// Duplicate rules are type-specific and intentionally narrow: two records are
// duplicates only when every key field agrees after normalization. Anything
// weaker would swallow legitimate repeat treatments.

// LabResultMatches reports whether an existing lab result duplicates the given
// (test type, test date, lab name) triple. Dates match when equal on the
// calendar day or both absent.
func LabResultMatches(existing *models.LabResultRecord, testType string, testDate *time.Time, labName string) bool {
	if existing == nil {
		return false
	}
	if utils.NormalizeIdentifier(existing.TestType) != utils.NormalizeIdentifier(testType) {
		return false
	}
	if utils.NormalizeIdentifier(existing.LabName) != utils.NormalizeIdentifier(labName) {
		return false
	}
	return sameDate(existing.TestDate, testDate)
}

// MedicationMatches reports whether an existing medication duplicates the given
// (name, start date) pair.
func MedicationMatches(existing *models.MedicationRecord, name string, startDate *time.Time) bool {
	if existing == nil {
		return false
	}
	if utils.NormalizeIdentifier(existing.Name) != utils.NormalizeIdentifier(name) {
		return false
	}
	return sameDate(existing.StartDate, startDate)
}

func sameDate(a, b *time.Time) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
