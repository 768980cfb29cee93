package ingestion

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/config"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/logger"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/utils"
)

// In-memory fakes implementing just enough of the repository and service
// interfaces to run the pipeline end to end.

type fakePetRepo struct {
	pets []*models.Pet
}

func (f *fakePetRepo) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	for _, p := range f.pets {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrPetNotFound
}

func (f *fakePetRepo) GetByMailboxAlias(ctx context.Context, alias string) (*models.Pet, error) {
	for _, p := range f.pets {
		if p.MailboxAlias == alias {
			return p, nil
		}
	}
	return nil, nil
}

type fakeProcessedEmailRepo struct {
	mu      sync.Mutex
	records []*models.ProcessedEmailRecord
}

func (f *fakeProcessedEmailRepo) Create(ctx context.Context, record *models.ProcessedEmailRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.MessageKey == record.MessageKey {
			return "", repository.ErrAlreadyProcessed
		}
	}
	if record.ID == "" {
		record.ID = utils.GenerateNanoIDWithPrefix("pmail", 16)
	}
	f.records = append(f.records, record)
	return record.ID, nil
}

func (f *fakeProcessedEmailRepo) GetByMessageKey(ctx context.Context, messageKey string) (*models.ProcessedEmailRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.MessageKey == messageKey {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeProcessedEmailRepo) MarkCompleted(ctx context.Context, id string, success bool, recordIDs []string, documentTypes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id && r.Status == enum.ProcessingPending {
			r.Status = enum.ProcessingCompleted
			r.Success = success
			r.RecordIDs = pq.StringArray(recordIDs)
			r.DocumentTypes = pq.StringArray(documentTypes)
			r.RecordsCreated = len(recordIDs)
			r.CompletedAt = utils.NowPtr()
			return nil
		}
	}
	return errors.New("record not pending")
}

func (f *fakeProcessedEmailRepo) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id && r.Status == enum.ProcessingPending {
			r.Status = enum.ProcessingFailed
			r.ErrorMessage = errorMessage
			r.CompletedAt = utils.NowPtr()
			return nil
		}
	}
	return errors.New("record not pending")
}

func (f *fakeProcessedEmailRepo) FailStalePending(ctx context.Context, maxAgeMinutes int) (int64, error) {
	return 0, nil
}

type fakeLabResultRepo struct {
	mu   sync.Mutex
	rows []*models.LabResultRecord
}

func (f *fakeLabResultRepo) Create(ctx context.Context, record *models.LabResultRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == "" {
		record.ID = utils.GenerateNanoIDWithPrefix("lab", 16)
	}
	f.rows = append(f.rows, record)
	return record.ID, nil
}

func (f *fakeLabResultRepo) ListByPet(ctx context.Context, petID string) ([]*models.LabResultRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.LabResultRecord
	for _, r := range f.rows {
		if r.PetID == petID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLabResultRepo) FindMatching(ctx context.Context, petID string, testType string, testDate *time.Time, labName string) (*models.LabResultRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.PetID == petID && repository.LabResultMatches(r, testType, testDate, labName) {
			return r, nil
		}
	}
	return nil, nil
}

type fakeMedicationRepo struct {
	mu   sync.Mutex
	rows []*models.MedicationRecord
}

func (f *fakeMedicationRepo) Create(ctx context.Context, record *models.MedicationRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == "" {
		record.ID = utils.GenerateNanoIDWithPrefix("medi", 16)
	}
	f.rows = append(f.rows, record)
	return record.ID, nil
}

func (f *fakeMedicationRepo) ListByPet(ctx context.Context, petID string) ([]*models.MedicationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MedicationRecord
	for _, r := range f.rows {
		if r.PetID == petID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMedicationRepo) FindMatching(ctx context.Context, petID string, name string, startDate *time.Time) (*models.MedicationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.PetID == petID && repository.MedicationMatches(r, name, startDate) {
			return r, nil
		}
	}
	return nil, nil
}

type fakeVaccinationRepo struct {
	mu   sync.Mutex
	rows []*models.VaccinationRecord
}

func (f *fakeVaccinationRepo) Create(ctx context.Context, record *models.VaccinationRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == "" {
		record.ID = utils.GenerateNanoIDWithPrefix("vacc", 16)
	}
	f.rows = append(f.rows, record)
	return record.ID, nil
}

func (f *fakeVaccinationRepo) ListByPet(ctx context.Context, petID string) ([]*models.VaccinationRecord, error) {
	return f.rows, nil
}

type fakeThreadRepo struct {
	mu      sync.Mutex
	threads []*models.MessageThread
}

func (f *fakeThreadRepo) Create(ctx context.Context, thread *models.MessageThread) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.threads {
		if t.PetID == thread.PetID && t.CounterpartyAddress == thread.CounterpartyAddress {
			return "", repository.ErrDuplicateRecord
		}
	}
	if thread.ID == "" {
		thread.ID = utils.GenerateNanoIDWithPrefix("thrd", 16)
	}
	f.threads = append(f.threads, thread)
	return thread.ID, nil
}

func (f *fakeThreadRepo) GetByID(ctx context.Context, id string) (*models.MessageThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.threads {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrThreadNotFound
}

func (f *fakeThreadRepo) GetByPetAndCounterparty(ctx context.Context, petID string, counterparty string) (*models.MessageThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.threads {
		if t.PetID == petID && t.CounterpartyAddress == counterparty {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeThreadRepo) ListByPet(ctx context.Context, petID string) ([]*models.MessageThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MessageThread
	for _, t := range f.threads {
		if t.PetID == petID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeThreadRepo) RecordNewMessage(ctx context.Context, threadID string, messageTime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.threads {
		if t.ID == threadID {
			t.MessageCount++
			t.LastMessageAt = &messageTime
			return nil
		}
	}
	return repository.ErrThreadNotFound
}

func (f *fakeThreadRepo) SoftDelete(ctx context.Context, threadID string, actorUserID string) error {
	return nil
}

func (f *fakeThreadRepo) Restore(ctx context.Context, threadID string, actorUserID string) error {
	return nil
}

type fakeThreadMessageRepo struct {
	mu       sync.Mutex
	messages []*models.ThreadMessage
}

func (f *fakeThreadMessageRepo) Create(ctx context.Context, message *models.ThreadMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if message.ID == "" {
		message.ID = utils.GenerateNanoIDWithPrefix("tmsg", 16)
	}
	f.messages = append(f.messages, message)
	return message.ID, nil
}

func (f *fakeThreadMessageRepo) ListByThread(ctx context.Context, threadID string) ([]*models.ThreadMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ThreadMessage
	for _, m := range f.messages {
		if m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeThreadMessageRepo) CountInboundSince(ctx context.Context, threadID string, since *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, m := range f.messages {
		if m.ThreadID != threadID || m.Direction != enum.MessageInbound {
			continue
		}
		if since != nil && m.SentAt != nil && !m.SentAt.After(*since) {
			continue
		}
		count++
	}
	return count, nil
}

type fakeApprovalRepo struct {
	mu        sync.Mutex
	approvals []*models.PendingApproval
}

func (f *fakeApprovalRepo) Create(ctx context.Context, approval *models.PendingApproval) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if approval.ID == "" {
		approval.ID = utils.GenerateNanoIDWithPrefix("appr", 16)
	}
	if approval.Status == "" {
		approval.Status = enum.ApprovalPending
	}
	f.approvals = append(f.approvals, approval)
	return approval.ID, nil
}

func (f *fakeApprovalRepo) GetByID(ctx context.Context, id string) (*models.PendingApproval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.approvals {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrApprovalNotFound
}

func (f *fakeApprovalRepo) ListPendingByPet(ctx context.Context, petID string) ([]*models.PendingApproval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.PendingApproval
	for _, a := range f.approvals {
		if a.PetID == petID && a.Status == enum.ApprovalPending {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApprovalRepo) UpdateStatus(ctx context.Context, id string, status enum.ApprovalStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.approvals {
		if a.ID == id && a.Status == enum.ApprovalPending {
			a.Status = status
			a.ResolvedAt = utils.NowPtr()
			return nil
		}
	}
	return repository.ErrApprovalNotFound
}

type fakeExtraction struct {
	mu      sync.Mutex
	results map[string]*dto.ExtractionResult
	errs    map[string]error
	calls   int
}

func (f *fakeExtraction) Classify(ctx context.Context, bucket string, path string) (*dto.ExtractionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if result, ok := f.results[path]; ok {
		return result, nil
	}
	return nil, errors.New("no extraction configured")
}

type fakeStorage struct{}

func (f *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	return []byte("content"), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func (f *fakeStorage) GetPublicURL(key string) string {
	return "https://docs.test/" + key
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []dto.Notification
}

func (f *fakeNotifier) Send(ctx context.Context, userID string, notification dto.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, notification)
	return nil
}

type pipelineHarness struct {
	svc       *ingestionService
	pets      *fakePetRepo
	emails    *fakeProcessedEmailRepo
	labs      *fakeLabResultRepo
	meds      *fakeMedicationRepo
	threads   *fakeThreadRepo
	messages  *fakeThreadMessageRepo
	approvals *fakeApprovalRepo
	extractor *fakeExtraction
	notifier  *fakeNotifier
}

func newPipelineHarness(t *testing.T) *pipelineHarness {
	t.Helper()

	appLogger := logger.NewAppLogger(&logger.Config{DevMode: true})
	appLogger.InitLogger()

	h := &pipelineHarness{
		pets:      &fakePetRepo{},
		emails:    &fakeProcessedEmailRepo{},
		labs:      &fakeLabResultRepo{},
		meds:      &fakeMedicationRepo{},
		threads:   &fakeThreadRepo{},
		messages:  &fakeThreadMessageRepo{},
		approvals: &fakeApprovalRepo{},
		extractor: &fakeExtraction{results: map[string]*dto.ExtractionResult{}, errs: map[string]error{}},
		notifier:  &fakeNotifier{},
	}

	repos := &repository.Repositories{
		PetRepository:             h.pets,
		ProcessedEmailRepository:  h.emails,
		LabResultRepository:       h.labs,
		MedicationRepository:      h.meds,
		VaccinationRepository:     &fakeVaccinationRepo{},
		MessageThreadRepository:   h.threads,
		ThreadMessageRepository:   h.messages,
		PendingApprovalRepository: h.approvals,
	}

	cfg := &config.Config{
		AppConfig: &config.AppConfig{
			MailDomain:  "pets.pawtrail.app",
			ReplyDomain: "reply.pawtrail.app",
		},
		ExtractionConfig: &config.ExtractionConfig{MaxConcurrency: 2},
	}

	h.svc = NewIngestionService(appLogger, cfg, repos, &fakeStorage{}, h.extractor, h.notifier).(*ingestionService)
	return h
}

func (h *pipelineHarness) addPet() *models.Pet {
	pet := testPet()
	pet.OwnerUserID = "user_1"
	pet.MailboxAlias = "rex-a7k2"
	h.pets.pets = append(h.pets.pets, pet)
	return pet
}

func labEmail(messageKey string) dto.InboundEmail {
	return dto.InboundEmail{
		MessageKey:   messageKey,
		FromAddress:  "reception@happypaws.com",
		FromName:     "Happy Paws Clinic",
		MailboxAlias: "rex-a7k2",
		Subject:      "Re: Lab results for Rex",
		TextBody:     "Hi! Rex's bloodwork came back, see attached.\n\nOn Mon, 12 Feb 2024 at 10:00, Owner <o@x.com> wrote:\n> thanks",
		Attachments: []dto.AttachmentPointer{
			{Filename: "cbc.pdf", ContentType: "application/pdf", Bucket: "inbound", Path: "msg/cbc.pdf"},
		},
	}
}

func labExtraction(chip string) *dto.ExtractionResult {
	return &dto.ExtractionResult{
		DocumentType: "lab_result",
		Confidence:   0.93,
		Pet:          &dto.ExtractedPetIdentity{Name: "Rex", MicrochipNumber: chip},
		LabResult: &dto.LabResultFields{
			TestType: "CBC",
			TestDate: "2024-03-18",
			LabName:  "VetLab",
			Rows: []dto.LabTestRow{
				{Analyte: "WBC", Value: "6.2", Unit: "10^9/L", ReferenceRange: "5.5-16.9"},
			},
		},
	}
}

func TestProcessInboundEmail_MatchedLabResultSaved(t *testing.T) {
	h := newPipelineHarness(t)
	pet := h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction(pet.MicrochipNumber)

	err := h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-1"))
	require.NoError(t, err)

	// Record saved with provenance
	require.Len(t, h.labs.rows, 1)
	saved := h.labs.rows[0]
	assert.Equal(t, pet.ID, saved.PetID)
	assert.Equal(t, "CBC", saved.TestType)
	assert.Equal(t, "https://docs.test/msg/cbc.pdf", saved.DocumentURL)
	assert.NotEmpty(t, saved.SourceEmailID)

	// Audit row completed successfully
	record, err := h.emails.GetByMessageKey(context.Background(), "msg-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, enum.ProcessingCompleted, record.Status)
	assert.True(t, record.Success)
	assert.Equal(t, []string{saved.ID}, []string(record.RecordIDs))
	assert.Equal(t, []string{"lab_result"}, []string(record.DocumentTypes))

	// Thread created with the cleaned message appended
	require.Len(t, h.threads.threads, 1)
	thread := h.threads.threads[0]
	assert.Equal(t, "reception@happypaws.com", thread.CounterpartyAddress)
	assert.Equal(t, enum.SenderVetClinic, thread.SenderCategory)
	assert.Equal(t, "Lab results for Rex", thread.Subject)
	assert.Contains(t, thread.ReplyAddress, "@reply.pawtrail.app")
	assert.Equal(t, 1, thread.MessageCount)

	require.Len(t, h.messages.messages, 1)
	msg := h.messages.messages[0]
	assert.Equal(t, enum.MessageInbound, msg.Direction)
	assert.Equal(t, "rex-a7k2@pets.pawtrail.app", msg.ToAddress)
	assert.NotContains(t, msg.BodyText, "wrote:")

	// Exactly one notification, success variant
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "New health records for Rex", h.notifier.sent[0].Title)
}

func TestProcessInboundEmail_RedeliveryIsDropped(t *testing.T) {
	h := newPipelineHarness(t)
	pet := h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction(pet.MicrochipNumber)

	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-1")))
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-1")))

	assert.Len(t, h.labs.rows, 1, "redelivery must not duplicate records")
	assert.Len(t, h.messages.messages, 1, "redelivery must not duplicate thread messages")
	assert.Len(t, h.notifier.sent, 1, "redelivery must not re-notify")
}

func TestProcessInboundEmail_MicrochipMismatchHeldForApproval(t *testing.T) {
	h := newPipelineHarness(t)
	h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction("900000000000001")

	err := h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-2"))
	require.NoError(t, err)

	// Nothing saved, approval created instead
	assert.Empty(t, h.labs.rows)
	require.Len(t, h.approvals.approvals, 1)
	approval := h.approvals.approvals[0]
	assert.Equal(t, enum.ApprovalPending, approval.Status)
	assert.Equal(t, enum.DocumentLabResult, approval.DocumentType)
	assert.Contains(t, approval.ValidationErrors, "microchip")
	assert.NotEmpty(t, approval.Payload)

	// Review notification names the extracted chip
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Email for Rex needs review", h.notifier.sent[0].Title)
	assert.Contains(t, h.notifier.sent[0].Body, "900000000000001")
}

func TestProcessInboundEmail_MixedMatchAndMismatchInOneEmail(t *testing.T) {
	h := newPipelineHarness(t)
	pet := h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction(pet.MicrochipNumber)

	mismatched := labExtraction("900000000000001")
	mismatched.LabResult.TestType = "Chemistry Panel"
	h.extractor.results["msg/chem.pdf"] = mismatched

	email := labEmail("msg-17")
	email.Attachments = append(email.Attachments, dto.AttachmentPointer{
		Filename: "chem.pdf", ContentType: "application/pdf", Bucket: "inbound", Path: "msg/chem.pdf",
	})

	err := h.svc.ProcessInboundEmail(context.Background(), email)
	require.NoError(t, err)

	// Matched attachment saved
	require.Len(t, h.labs.rows, 1)
	assert.Equal(t, "CBC", h.labs.rows[0].TestType)

	// Mismatched attachment held, not saved
	require.Len(t, h.approvals.approvals, 1)
	approval := h.approvals.approvals[0]
	assert.Equal(t, enum.ApprovalPending, approval.Status)
	assert.Equal(t, "chem.pdf", approval.Filename)
	assert.Contains(t, approval.ValidationErrors, "microchip")

	// Audit row completed; a held attachment is not a processing failure
	record, getErr := h.emails.GetByMessageKey(context.Background(), "msg-17")
	require.NoError(t, getErr)
	assert.Equal(t, enum.ProcessingCompleted, record.Status)
	assert.True(t, record.Success)
	assert.Equal(t, []string{h.labs.rows[0].ID}, []string(record.RecordIDs))

	// One combined notification covering both outcomes
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Email for Rex partially processed", h.notifier.sent[0].Title)
	assert.Contains(t, h.notifier.sent[0].Body, "1 record")
	assert.Contains(t, h.notifier.sent[0].Body, "1 attachment")
}

func TestApprovePending_ReplaysHeldPayload(t *testing.T) {
	h := newPipelineHarness(t)
	h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction("900000000000001")
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-3")))
	require.Len(t, h.approvals.approvals, 1)
	approvalID := h.approvals.approvals[0].ID

	outcome, err := h.svc.ApprovePending(context.Background(), approvalID, false)
	require.NoError(t, err)

	require.Len(t, outcome.SavedRecordIDs, 1)
	require.Len(t, h.labs.rows, 1)
	assert.Equal(t, "CBC", h.labs.rows[0].TestType)
	assert.Equal(t, enum.ApprovalApproved, h.approvals.approvals[0].Status)

	// Second approval of the same item cannot double-save
	_, err = h.svc.ApprovePending(context.Background(), approvalID, false)
	assert.ErrorIs(t, err, repository.ErrApprovalNotFound)
	assert.Len(t, h.labs.rows, 1)
}

func TestRejectPending(t *testing.T) {
	h := newPipelineHarness(t)
	h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction("900000000000001")
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-4")))
	approvalID := h.approvals.approvals[0].ID

	require.NoError(t, h.svc.RejectPending(context.Background(), approvalID))

	assert.Equal(t, enum.ApprovalRejected, h.approvals.approvals[0].Status)
	assert.Empty(t, h.labs.rows)
}

func TestProcessInboundEmail_DuplicateLabResultNotSavedAgain(t *testing.T) {
	h := newPipelineHarness(t)
	pet := h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction(pet.MicrochipNumber)

	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-5")))
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-6")))

	assert.Len(t, h.labs.rows, 1, "same (test type, date, lab) triple must not be stored twice")

	// Second email completes and reports the duplicate for review
	record, err := h.emails.GetByMessageKey(context.Background(), "msg-6")
	require.NoError(t, err)
	assert.Equal(t, enum.ProcessingCompleted, record.Status)

	require.Len(t, h.notifier.sent, 2)
	assert.Equal(t, "Email for Rex needs review", h.notifier.sent[1].Title)
	assert.Contains(t, h.notifier.sent[1].Body, "already on file")
}

func TestSaveRecords_OverrideWritesDuplicates(t *testing.T) {
	h := newPipelineHarness(t)
	pet := h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction(pet.MicrochipNumber)
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-7")))
	require.Len(t, h.labs.rows, 1)

	outcome, err := h.svc.SaveRecords(context.Background(), pet.ID, "", labExtraction(pet.MicrochipNumber), "", true)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.DuplicateCount)
	assert.Len(t, outcome.SavedRecordIDs, 1)
	assert.Len(t, h.labs.rows, 2)
}

func TestProcessInboundEmail_UnknownMailboxFails(t *testing.T) {
	h := newPipelineHarness(t)

	email := labEmail("msg-8")
	email.MailboxAlias = "nobody-here"
	err := h.svc.ProcessInboundEmail(context.Background(), email)
	require.Error(t, err)

	record, getErr := h.emails.GetByMessageKey(context.Background(), "msg-8")
	require.NoError(t, getErr)
	require.NotNil(t, record)
	assert.Equal(t, enum.ProcessingFailed, record.Status)
	assert.Contains(t, record.ErrorMessage, "nobody-here")
	assert.Empty(t, h.notifier.sent, "no owner to notify when the mailbox is unknown")
}

func TestProcessInboundEmail_InvalidSenderFails(t *testing.T) {
	h := newPipelineHarness(t)
	h.addPet()

	email := labEmail("msg-9")
	email.FromAddress = "not an address"
	err := h.svc.ProcessInboundEmail(context.Background(), email)
	require.Error(t, err)

	record, getErr := h.emails.GetByMessageKey(context.Background(), "msg-9")
	require.NoError(t, getErr)
	assert.Equal(t, enum.ProcessingFailed, record.Status)
}

func TestProcessInboundEmail_UnknownDocumentTypeCompletesWithoutSuccess(t *testing.T) {
	h := newPipelineHarness(t)
	h.addPet()
	h.extractor.results["msg/cbc.pdf"] = &dto.ExtractionResult{DocumentType: "holiday_photo"}

	err := h.svc.ProcessInboundEmail(context.Background(), labEmail("msg-10"))
	require.NoError(t, err)

	record, getErr := h.emails.GetByMessageKey(context.Background(), "msg-10")
	require.NoError(t, getErr)
	assert.Equal(t, enum.ProcessingCompleted, record.Status)
	assert.False(t, record.Success)
	assert.Empty(t, h.labs.rows)
}

func TestProcessInboundEmail_ClassificationFailureDoesNotAbortBatch(t *testing.T) {
	h := newPipelineHarness(t)
	pet := h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction(pet.MicrochipNumber)
	h.extractor.errs["msg/broken.pdf"] = errors.New("model timeout")

	email := labEmail("msg-11")
	email.Attachments = append(email.Attachments, dto.AttachmentPointer{
		Filename: "broken.pdf", Bucket: "inbound", Path: "msg/broken.pdf",
	})

	err := h.svc.ProcessInboundEmail(context.Background(), email)
	require.NoError(t, err)

	assert.Len(t, h.labs.rows, 1, "healthy attachment still saved")
	record, _ := h.emails.GetByMessageKey(context.Background(), "msg-11")
	assert.False(t, record.Success, "batch with a failed attachment is not a full success")

	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Email for Rex partially processed", h.notifier.sent[0].Title)
}

func TestProcessInboundEmail_RepeatSenderReusesThread(t *testing.T) {
	h := newPipelineHarness(t)
	pet := h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction(pet.MicrochipNumber)

	first := labEmail("msg-12")
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), first))

	second := labEmail("msg-13")
	second.Attachments = nil
	second.TextBody = "Quick follow-up: Rex can come in Thursday."
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), second))

	require.Len(t, h.threads.threads, 1, "same counterparty lands in the same thread")
	assert.Equal(t, 2, h.threads.threads[0].MessageCount)

	messages, err := h.messages.ListByThread(context.Background(), h.threads.threads[0].ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestProcessInboundEmail_CounterpartyAddressCaseInsensitive(t *testing.T) {
	h := newPipelineHarness(t)
	pet := h.addPet()
	h.extractor.results["msg/cbc.pdf"] = labExtraction(pet.MicrochipNumber)

	first := labEmail("msg-14")
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), first))

	second := labEmail("msg-15")
	second.FromAddress = "Reception@HappyPaws.com"
	second.Attachments = nil
	require.NoError(t, h.svc.ProcessInboundEmail(context.Background(), second))

	assert.Len(t, h.threads.threads, 1)
}
