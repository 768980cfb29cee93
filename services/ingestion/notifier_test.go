package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
)

func notifierPet() *models.Pet {
	return &models.Pet{ID: "pet_1", Name: "Rex", OwnerUserID: "user_1"}
}

func notifierEmail() dto.InboundEmail {
	return dto.InboundEmail{
		MessageKey:  "msg-1",
		FromAddress: "reception@happypaws.com",
		FromName:    "Happy Paws Clinic",
	}
}

func TestComposeOutcomeNotification_AllSaved(t *testing.T) {
	attachments := []*ProcessedAttachment{
		{DBInserted: true, RecordIDs: []string{"lab_1"}, DocumentType: enum.DocumentLabResult},
		{DBInserted: true, RecordIDs: []string{"med_1", "med_2"}, DocumentType: enum.DocumentMedication},
	}

	n := composeOutcomeNotification(notifierPet(), notifierEmail(), attachments)

	assert.Equal(t, "New health records for Rex", n.Title)
	assert.Contains(t, n.Body, "3 records")
	assert.Contains(t, n.Body, "Happy Paws Clinic")
	assert.Contains(t, n.Body, "lab result")
	assert.Contains(t, n.Body, "medication")
	assert.Equal(t, "pet_1", n.Data["petId"])
	assert.Equal(t, "msg-1", n.Data["messageKey"])
}

func TestComposeOutcomeNotification_PartiallyProcessed(t *testing.T) {
	attachments := []*ProcessedAttachment{
		{DBInserted: true, RecordIDs: []string{"vac_1"}, DocumentType: enum.DocumentVaccination},
		{SkipReason: enum.SkipNoPetInfo},
	}

	n := composeOutcomeNotification(notifierPet(), notifierEmail(), attachments)

	assert.Equal(t, "Email for Rex partially processed", n.Title)
	assert.Contains(t, n.Body, "1 record")
	assert.Contains(t, n.Body, "1 attachment")
}

func TestComposeOutcomeNotification_NeedsReviewNamesMicrochip(t *testing.T) {
	attachments := []*ProcessedAttachment{
		{
			Attachment: dto.AttachmentPointer{Filename: "lab_report.pdf"},
			SkipReason: enum.SkipMicrochipMismatch,
			Validation: &PetValidationResult{
				Outcome:          enum.ValidationMismatched,
				MismatchedFields: []string{"microchip"},
				Extracted:        &dto.ExtractedPetIdentity{MicrochipNumber: "900000000000001"},
			},
		},
	}

	n := composeOutcomeNotification(notifierPet(), notifierEmail(), attachments)

	assert.Equal(t, "Email for Rex needs review", n.Title)
	assert.Contains(t, n.Body, "lab_report.pdf")
	assert.Contains(t, n.Body, "900000000000001")
}

func TestComposeOutcomeNotification_DuplicateOnlyNeedsReview(t *testing.T) {
	attachments := []*ProcessedAttachment{
		{Attachment: dto.AttachmentPointer{Filename: "cbc.pdf"}, Duplicate: true},
	}

	n := composeOutcomeNotification(notifierPet(), notifierEmail(), attachments)

	assert.Equal(t, "Email for Rex needs review", n.Title)
	assert.Contains(t, n.Body, "already on file")
}

func TestComposeOutcomeNotification_NoAttachments(t *testing.T) {
	n := composeOutcomeNotification(notifierPet(), notifierEmail(), nil)

	assert.Equal(t, "New message for Rex", n.Title)
	assert.Contains(t, n.Body, "Happy Paws Clinic")
}

func TestComposeOutcomeNotification_SenderFallsBackToAddress(t *testing.T) {
	email := notifierEmail()
	email.FromName = ""

	n := composeOutcomeNotification(notifierPet(), email, nil)

	assert.Contains(t, n.Body, "reception@happypaws.com")
}

func TestComposeFailureNotification(t *testing.T) {
	n := composeFailureNotification(notifierPet(), notifierEmail())

	assert.Equal(t, "Email for Rex could not be processed", n.Title)
	assert.Contains(t, n.Body, "Happy Paws Clinic")
	assert.Equal(t, "pet_1", n.Data["petId"])
}
