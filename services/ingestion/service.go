package ingestion

import (
	"context"
	"fmt"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/config"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/logger"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
)

type ingestionService struct {
	log           logger.Logger
	repositories  *repository.Repositories
	storage       interfaces.StorageService
	extraction    interfaces.ExtractionService
	notifications interfaces.NotificationService

	persister     *recordPersister
	threadLocks   *utils.KeyedMutex
	validatorOpts ValidatorOptions

	mailDomain     string
	replyDomain    string
	maxConcurrency int
}

func NewIngestionService(
	log logger.Logger,
	cfg *config.Config,
	repositories *repository.Repositories,
	storage interfaces.StorageService,
	extraction interfaces.ExtractionService,
	notifications interfaces.NotificationService,
) interfaces.IngestionService {
	maxConcurrency := cfg.ExtractionConfig.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &ingestionService{
		log:            log,
		repositories:   repositories,
		storage:        storage,
		extraction:     extraction,
		notifications:  notifications,
		persister:      &recordPersister{repos: repositories},
		threadLocks:    utils.NewKeyedMutex(),
		validatorOpts:  defaultValidatorOptions(),
		mailDomain:     cfg.AppConfig.MailDomain,
		replyDomain:    cfg.AppConfig.ReplyDomain,
		maxConcurrency: maxConcurrency,
	}
}

// ProcessInboundEmail runs one email to a terminal state. Per-attachment
// problems degrade to recorded outcomes; only intake-level failures return an
// error, and those are persisted on the ProcessedEmailRecord too.
func (s *ingestionService) ProcessInboundEmail(ctx context.Context, email dto.InboundEmail) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.ProcessInboundEmail")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("message_key", email.MessageKey)

	if email.MessageKey == "" {
		err := errors.New("message key is required")
		tracing.TraceErr(span, err)
		return err
	}

	// Idempotency gate. A redelivered message key is acknowledged and dropped,
	// whatever terminal state the first delivery reached.
	existing, err := s.repositories.ProcessedEmailRepository.GetByMessageKey(ctx, email.MessageKey)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	if existing != nil {
		s.log.Infof("message %s already %s, dropping redelivery", email.MessageKey, existing.Status)
		return nil
	}

	record := &models.ProcessedEmailRecord{
		MessageKey:      email.MessageKey,
		Status:          enum.ProcessingPending,
		AttachmentCount: len(email.Attachments),
	}
	if _, err := s.repositories.ProcessedEmailRepository.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrAlreadyProcessed) {
			// Concurrent delivery won the race.
			return nil
		}
		tracing.TraceErr(span, err)
		return err
	}

	if validation := mailvalidate.ValidateEmailSyntax(email.FromAddress); !validation.IsValid {
		return s.failEmail(ctx, record.ID, nil, email, fmt.Sprintf("invalid sender address %q", email.FromAddress))
	}

	pet, err := s.repositories.PetRepository.GetByMailboxAlias(ctx, email.MailboxAlias)
	if err != nil {
		return s.failEmail(ctx, record.ID, nil, email, err.Error())
	}
	if pet == nil {
		return s.failEmail(ctx, record.ID, nil, email, fmt.Sprintf("no pet registered for mailbox %q", email.MailboxAlias))
	}
	span.SetTag("pet_id", pet.ID)

	cleanedText, cleanedHTML := Clean(email.TextBody, email.HTMLBody)

	attachments := s.classifyAttachments(ctx, email)
	s.validateAttachments(ctx, pet, record.ID, attachments)
	s.persistAttachments(ctx, pet, record.ID, attachments)

	if err := s.recordThreadMessage(ctx, pet, email, cleanedText, cleanedHTML); err != nil {
		// Thread bookkeeping failure must not discard already-saved records.
		s.log.Errorf("failed to record thread message for pet %s: %v", pet.ID, err)
	}

	recordIDs, documentTypes := collectSaved(attachments)
	success := true
	for _, att := range attachments {
		if att.FailureMessage != "" {
			success = false
		}
	}
	if err := s.repositories.ProcessedEmailRepository.MarkCompleted(ctx, record.ID, success, recordIDs, documentTypes); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	s.sendNotification(ctx, pet.OwnerUserID, composeOutcomeNotification(pet, email, attachments))
	return nil
}

// classifyAttachments calls the extraction service for every attachment with
// bounded concurrency. One bad attachment never aborts the email; all results
// are gathered, in email order, before anything downstream runs.
func (s *ingestionService) classifyAttachments(ctx context.Context, email dto.InboundEmail) []*ProcessedAttachment {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.classifyAttachments")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("attachment_count", len(email.Attachments))

	results := make([]*ProcessedAttachment, len(email.Attachments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, pointer := range email.Attachments {
		i, pointer := i, pointer
		g.Go(func() error {
			processed := &ProcessedAttachment{
				Attachment:   pointer,
				DocumentType: enum.DocumentUnknown,
			}
			extraction, err := s.extraction.Classify(gctx, pointer.Bucket, pointer.Path)
			if err != nil {
				s.log.Warnf("classification failed for %s: %v", pointer.Filename, err)
				processed.FailureMessage = err.Error()
			} else {
				processed.Extraction = extraction
				processed.DocumentType = enum.DecodeDocumentType(extraction.DocumentType)
			}
			results[i] = processed
			return nil
		})
	}
	// Workers never return errors; they record failure on their own slot.
	_ = g.Wait()

	return results
}

// validateAttachments applies the identity check to every classified
// attachment. Mismatches become PendingApprovals; no_info skips silently.
func (s *ingestionService) validateAttachments(ctx context.Context, pet *models.Pet, sourceEmailID string, attachments []*ProcessedAttachment) {
	for _, att := range attachments {
		if att.FailureMessage != "" {
			continue
		}
		if att.DocumentType == enum.DocumentUnknown {
			att.FailureMessage = "unrecognized document type"
			continue
		}

		att.Validation = ValidatePetIdentity(att.Extraction.Pet, pet, s.validatorOpts)
		att.SkipReason = skipReasonFor(att.Validation)

		if att.Validation.Outcome == enum.ValidationMismatched {
			s.createPendingApproval(ctx, pet, sourceEmailID, att)
		}
	}
}

func (s *ingestionService) createPendingApproval(ctx context.Context, pet *models.Pet, sourceEmailID string, att *ProcessedAttachment) {
	validationErrors := models.JSONMap{}
	for _, field := range att.Validation.MismatchedFields {
		validationErrors[field] = "does not match pet profile"
	}

	approval := &models.PendingApproval{
		PetID:            pet.ID,
		SourceEmailID:    sourceEmailID,
		Filename:         att.Attachment.Filename,
		DocumentType:     att.DocumentType,
		DocumentURL:      s.storage.GetPublicURL(att.Attachment.Path),
		Confidence:       att.Extraction.Confidence,
		Payload:          extractionResultToJSON(att.Extraction),
		ValidationStatus: enum.ValidationStatusIncorrect,
		ValidationErrors: validationErrors,
		Status:           enum.ApprovalPending,
	}
	if _, err := s.repositories.PendingApprovalRepository.Create(ctx, approval); err != nil {
		s.log.Errorf("failed to create pending approval for %s: %v", att.Attachment.Filename, err)
	}
}

// persistAttachments writes every matched attachment through the persister.
// Per-attachment persistence errors are recorded and the batch continues.
func (s *ingestionService) persistAttachments(ctx context.Context, pet *models.Pet, sourceEmailID string, attachments []*ProcessedAttachment) {
	for _, att := range attachments {
		if att.Validation == nil || att.Validation.Outcome != enum.ValidationMatched {
			continue
		}

		documentURL := s.storage.GetPublicURL(att.Attachment.Path)
		outcome, err := s.persister.Save(ctx, pet, sourceEmailID, att.Extraction, documentURL, false)
		if err != nil {
			s.log.Errorf("failed to persist %s: %v", att.Attachment.Filename, err)
			att.FailureMessage = err.Error()
			continue
		}
		if outcome.NothingNew {
			att.Duplicate = true
			continue
		}
		att.DBInserted = true
		att.RecordIDs = outcome.SavedRecordIDs
	}
}

// ApprovePending resolves a held document. The claim is exactly-once; the
// payload then goes through the same dedup/persist path as the pipeline, with
// saveAnyway overriding duplicate filtering.
func (s *ingestionService) ApprovePending(ctx context.Context, approvalID string, saveAnyway bool) (*dto.SaveOutcome, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.ApprovePending")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("approval_id", approvalID)

	approval, err := s.repositories.PendingApprovalRepository.GetByID(ctx, approvalID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	pet, err := s.repositories.PetRepository.GetByID(ctx, approval.PetID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	result, err := extractionResultFromJSON(approval.Payload)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "held payload is unreadable")
	}

	// Claim before writing so a concurrent approval cannot double-save.
	if err := s.repositories.PendingApprovalRepository.UpdateStatus(ctx, approvalID, enum.ApprovalApproved); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	outcome, err := s.persister.Save(ctx, pet, approval.SourceEmailID, result, approval.DocumentURL, saveAnyway)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return outcome, nil
}

// SaveRecords is the direct batch-save surface used by the review UI.
func (s *ingestionService) SaveRecords(ctx context.Context, petID string, sourceEmailID string, result *dto.ExtractionResult, documentURL string, saveAnyway bool) (*dto.SaveOutcome, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.SaveRecords")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("pet_id", petID)

	pet, err := s.repositories.PetRepository.GetByID(ctx, petID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	outcome, err := s.persister.Save(ctx, pet, sourceEmailID, result, documentURL, saveAnyway)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return outcome, nil
}

func (s *ingestionService) RejectPending(ctx context.Context, approvalID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.RejectPending")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("approval_id", approvalID)

	if err := s.repositories.PendingApprovalRepository.UpdateStatus(ctx, approvalID, enum.ApprovalRejected); err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

// failEmail marks the record failed and pushes the failure notification when
// the owner is known. The returned error carries the intake failure upward.
func (s *ingestionService) failEmail(ctx context.Context, recordID string, pet *models.Pet, email dto.InboundEmail, message string) error {
	if err := s.repositories.ProcessedEmailRepository.MarkFailed(ctx, recordID, message); err != nil {
		s.log.Errorf("failed to mark email %s failed: %v", email.MessageKey, err)
	}
	if pet != nil {
		s.sendNotification(ctx, pet.OwnerUserID, composeFailureNotification(pet, email))
	}
	return errors.New(message)
}

// sendNotification is fire-and-forget; a push failure never changes the
// pipeline's outcome.
func (s *ingestionService) sendNotification(ctx context.Context, userID string, notification dto.Notification) {
	if err := s.notifications.Send(ctx, userID, notification); err != nil {
		s.log.Warnf("push notification failed for user %s: %v", userID, err)
	}
}

func collectSaved(attachments []*ProcessedAttachment) (recordIDs []string, documentTypes []string) {
	seenTypes := make(map[string]bool)
	for _, att := range attachments {
		if !att.DBInserted {
			continue
		}
		recordIDs = append(recordIDs, att.RecordIDs...)
		label := att.DocumentType.String()
		if !seenTypes[label] {
			seenTypes[label] = true
			documentTypes = append(documentTypes, label)
		}
	}
	return recordIDs, documentTypes
}
