package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pawtrail/mailroom/internal/models"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLabResultMatches_IdenticalTriple(t *testing.T) {
	existing := &models.LabResultRecord{
		TestType: "CBC",
		TestDate: datePtr(2024, time.March, 18),
		LabName:  "VetLab",
	}

	assert.True(t, LabResultMatches(existing, "CBC", datePtr(2024, time.March, 18), "VetLab"))
}

func TestLabResultMatches_NormalizesCaseAndSpacing(t *testing.T) {
	existing := &models.LabResultRecord{
		TestType: "Complete Blood Count",
		TestDate: datePtr(2024, time.March, 18),
		LabName:  "Vet-Lab",
	}

	assert.True(t, LabResultMatches(existing, "complete blood count", datePtr(2024, time.March, 18), "vetlab"))
}

func TestLabResultMatches_AnyFieldDifferentIsNotDuplicate(t *testing.T) {
	existing := &models.LabResultRecord{
		TestType: "CBC",
		TestDate: datePtr(2024, time.March, 18),
		LabName:  "VetLab",
	}

	assert.False(t, LabResultMatches(existing, "Chemistry Panel", datePtr(2024, time.March, 18), "VetLab"))
	assert.False(t, LabResultMatches(existing, "CBC", datePtr(2024, time.March, 19), "VetLab"))
	assert.False(t, LabResultMatches(existing, "CBC", datePtr(2024, time.March, 18), "OtherLab"))
}

func TestLabResultMatches_TimeOfDayIrrelevant(t *testing.T) {
	morning := time.Date(2024, time.March, 18, 8, 30, 0, 0, time.UTC)
	existing := &models.LabResultRecord{
		TestType: "CBC",
		TestDate: &morning,
		LabName:  "VetLab",
	}
	evening := time.Date(2024, time.March, 18, 22, 0, 0, 0, time.UTC)

	assert.True(t, LabResultMatches(existing, "CBC", &evening, "VetLab"))
}

func TestLabResultMatches_BothDatesAbsentMatch(t *testing.T) {
	existing := &models.LabResultRecord{
		TestType: "CBC",
		LabName:  "VetLab",
	}

	assert.True(t, LabResultMatches(existing, "CBC", nil, "VetLab"))
}

func TestLabResultMatches_OneDateAbsentIsNotDuplicate(t *testing.T) {
	existing := &models.LabResultRecord{
		TestType: "CBC",
		TestDate: datePtr(2024, time.March, 18),
		LabName:  "VetLab",
	}

	assert.False(t, LabResultMatches(existing, "CBC", nil, "VetLab"))
	assert.False(t, LabResultMatches(&models.LabResultRecord{TestType: "CBC", LabName: "VetLab"}, "CBC", datePtr(2024, time.March, 18), "VetLab"))
}

func TestLabResultMatches_NilExisting(t *testing.T) {
	assert.False(t, LabResultMatches(nil, "CBC", nil, "VetLab"))
}

func TestMedicationMatches_IdenticalPair(t *testing.T) {
	existing := &models.MedicationRecord{
		Name:      "Apoquel",
		StartDate: datePtr(2024, time.June, 1),
	}

	assert.True(t, MedicationMatches(existing, "apoquel", datePtr(2024, time.June, 1)))
}

func TestMedicationMatches_DifferentStartDateIsRepeatTreatment(t *testing.T) {
	existing := &models.MedicationRecord{
		Name:      "Apoquel",
		StartDate: datePtr(2024, time.June, 1),
	}

	assert.False(t, MedicationMatches(existing, "Apoquel", datePtr(2024, time.September, 1)))
}

func TestMedicationMatches_DifferentName(t *testing.T) {
	existing := &models.MedicationRecord{
		Name:      "Apoquel",
		StartDate: datePtr(2024, time.June, 1),
	}

	assert.False(t, MedicationMatches(existing, "Cytopoint", datePtr(2024, time.June, 1)))
}

func TestMedicationMatches_BothStartDatesAbsent(t *testing.T) {
	existing := &models.MedicationRecord{Name: "Apoquel"}

	assert.True(t, MedicationMatches(existing, "Apoquel", nil))
}
