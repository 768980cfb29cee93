package ingestion

import (
	"fmt"
	"strings"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
)

// The owner gets exactly one push per processed email. Which variant is chosen
// depends on the net outcome across all attachments; two pushes for one email
// is a bug.

func composeOutcomeNotification(pet *models.Pet, email dto.InboundEmail, attachments []*ProcessedAttachment) dto.Notification {
	var saved, skipped int
	var savedTypes []enum.DocumentType
	var savedRecords int
	for _, att := range attachments {
		if att.DBInserted {
			saved++
			savedRecords += len(att.RecordIDs)
			savedTypes = append(savedTypes, att.DocumentType)
		} else if att.skipped() {
			skipped++
		}
	}

	data := map[string]string{
		"petId":      pet.ID,
		"messageKey": email.MessageKey,
	}

	switch {
	case saved > 0 && skipped == 0:
		return dto.Notification{
			Title: fmt.Sprintf("New health records for %s", pet.Name),
			Body: fmt.Sprintf("Saved %s from %s (%s).",
				pluralize(savedRecords, "record"), senderLabel(email), distinctTypeLabels(savedTypes)),
			Data: data,
		}
	case saved > 0 && skipped > 0:
		return dto.Notification{
			Title: fmt.Sprintf("Email for %s partially processed", pet.Name),
			Body: fmt.Sprintf("Saved %s, skipped %s. Open the app to review.",
				pluralize(savedRecords, "record"), pluralize(skipped, "attachment")),
			Data: data,
		}
	case skipped > 0:
		return dto.Notification{
			Title: fmt.Sprintf("Email for %s needs review", pet.Name),
			Body:  skippedSummary(attachments),
			Data:  data,
		}
	default:
		// No attachments at all: the email still landed as a thread message.
		return dto.Notification{
			Title: fmt.Sprintf("New message for %s", pet.Name),
			Body:  fmt.Sprintf("%s sent a message.", senderLabel(email)),
			Data:  data,
		}
	}
}

func composeFailureNotification(pet *models.Pet, email dto.InboundEmail) dto.Notification {
	return dto.Notification{
		Title: fmt.Sprintf("Email for %s could not be processed", pet.Name),
		Body:  fmt.Sprintf("We couldn't process an email from %s. Please ask the sender to try again.", senderLabel(email)),
		Data: map[string]string{
			"petId":      pet.ID,
			"messageKey": email.MessageKey,
		},
	}
}

// skippedSummary lists filenames with human-readable reasons, including the
// identity details that caused a mismatch.
func skippedSummary(attachments []*ProcessedAttachment) string {
	var parts []string
	for _, att := range attachments {
		if !att.skipped() {
			continue
		}
		name := att.Attachment.Filename
		if name == "" {
			name = "attachment"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", name, skipDetail(att)))
	}
	return "Skipped: " + strings.Join(parts, "; ") + "."
}

func skipDetail(att *ProcessedAttachment) string {
	switch {
	case att.SkipReason == enum.SkipMicrochipMismatch:
		detail := "microchip on the document doesn't match"
		if att.Validation != nil && att.Validation.Extracted != nil && att.Validation.Extracted.MicrochipNumber != "" {
			detail = fmt.Sprintf("document shows microchip %s", att.Validation.Extracted.MicrochipNumber)
		}
		return detail
	case att.SkipReason == enum.SkipAttributesMismatch:
		if att.Validation != nil && len(att.Validation.MismatchedFields) > 0 {
			return fmt.Sprintf("%s on the document doesn't match", strings.Join(att.Validation.MismatchedFields, ", "))
		}
		return "pet details on the document don't match"
	case att.SkipReason == enum.SkipNoPetInfo:
		return "no pet details found on the document"
	case att.Duplicate:
		return "already on file"
	case att.FailureMessage != "":
		return "could not be read"
	default:
		return "skipped"
	}
}

func distinctTypeLabels(types []enum.DocumentType) string {
	seen := make(map[enum.DocumentType]bool)
	var labels []string
	for _, t := range types {
		if seen[t] {
			continue
		}
		seen[t] = true
		labels = append(labels, t.Label())
	}
	return strings.Join(labels, ", ")
}

func senderLabel(email dto.InboundEmail) string {
	if email.FromName != "" {
		return email.FromName
	}
	return email.FromAddress
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
