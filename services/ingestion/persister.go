package ingestion

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/tracing"
)

// recordPersister writes one extraction result to the health-record table
// matching its document type. Shared by the pipeline and the approval flow so
// "approve" goes through the exact same dedup and provenance path.
type recordPersister struct {
	repos *repository.Repositories
}

// Save partitions candidate rows into non-duplicates (always written) and
// duplicates (written only when override is set). A uniqueness violation from
// storage counts as a duplicate, not a failure.
func (p *recordPersister) Save(ctx context.Context, pet *models.Pet, sourceEmailID string, result *dto.ExtractionResult, documentURL string, override bool) (*dto.SaveOutcome, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "recordPersister.Save")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("pet_id", pet.ID)
	span.SetTag("document_type", result.DocumentType)

	outcome := &dto.SaveOutcome{}
	docType := enum.DecodeDocumentType(result.DocumentType)

	var err error
	switch docType {
	case enum.DocumentVaccination:
		err = p.saveVaccination(ctx, pet, sourceEmailID, result, documentURL, outcome)
	case enum.DocumentMedication:
		err = p.saveMedications(ctx, pet, sourceEmailID, result, documentURL, override, outcome)
	case enum.DocumentLabResult:
		err = p.saveLabResult(ctx, pet, sourceEmailID, result, documentURL, override, outcome)
	case enum.DocumentClinicalExam:
		err = p.saveClinicalExam(ctx, pet, sourceEmailID, result, documentURL, outcome)
	case enum.DocumentInvoice:
		err = p.saveInvoice(ctx, pet, sourceEmailID, result, documentURL, outcome)
	case enum.DocumentTravel:
		err = p.saveTravel(ctx, pet, sourceEmailID, result, documentURL, outcome)
	default:
		err = errors.Errorf("no table for document type %s", result.DocumentType)
	}
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	outcome.NothingNew = len(outcome.SavedRecordIDs) == 0 && outcome.DuplicateCount > 0
	return outcome, nil
}

func (p *recordPersister) saveVaccination(ctx context.Context, pet *models.Pet, sourceEmailID string, result *dto.ExtractionResult, documentURL string, outcome *dto.SaveOutcome) error {
	fields := result.Vaccination
	if fields == nil {
		return errors.New("vaccination payload missing")
	}

	record := &models.VaccinationRecord{
		PetID:          pet.ID,
		VaccineName:    fields.VaccineName,
		AdministeredAt: parseDate(fields.AdministeredAt),
		ValidUntil:     parseDate(fields.ValidUntil),
		VetName:        fields.VetName,
		BatchNumber:    fields.BatchNumber,
		SourceEmailID:  sourceEmailID,
		DocumentURL:    documentURL,
		Confidence:     result.Confidence,
	}
	id, err := p.repos.VaccinationRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			outcome.DuplicateCount++
			return nil
		}
		return err
	}
	outcome.SavedRecordIDs = append(outcome.SavedRecordIDs, id)
	return nil
}

func (p *recordPersister) saveMedications(ctx context.Context, pet *models.Pet, sourceEmailID string, result *dto.ExtractionResult, documentURL string, override bool, outcome *dto.SaveOutcome) error {
	fields := result.Medication
	if fields == nil || len(fields.Medicines) == 0 {
		return errors.New("medication payload missing")
	}

	for _, med := range fields.Medicines {
		startDate := parseDate(med.StartDate)

		existing, err := p.repos.MedicationRepository.FindMatching(ctx, pet.ID, med.Name, startDate)
		if err != nil {
			return err
		}
		if existing != nil {
			outcome.DuplicateCount++
			if !override {
				continue
			}
		}

		record := &models.MedicationRecord{
			PetID:         pet.ID,
			Name:          med.Name,
			Dosage:        med.Dosage,
			Frequency:     med.Frequency,
			StartDate:     startDate,
			EndDate:       parseDate(med.EndDate),
			PrescribedBy:  fields.PrescribedBy,
			SourceEmailID: sourceEmailID,
			DocumentURL:   documentURL,
			Confidence:    result.Confidence,
		}
		id, err := p.repos.MedicationRepository.Create(ctx, record)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateRecord) {
				outcome.DuplicateCount++
				continue
			}
			return err
		}
		outcome.SavedRecordIDs = append(outcome.SavedRecordIDs, id)
	}
	return nil
}

func (p *recordPersister) saveLabResult(ctx context.Context, pet *models.Pet, sourceEmailID string, result *dto.ExtractionResult, documentURL string, override bool, outcome *dto.SaveOutcome) error {
	fields := result.LabResult
	if fields == nil {
		return errors.New("lab result payload missing")
	}

	testDate := parseDate(fields.TestDate)

	existing, err := p.repos.LabResultRepository.FindMatching(ctx, pet.ID, fields.TestType, testDate, fields.LabName)
	if err != nil {
		return err
	}
	if existing != nil {
		outcome.DuplicateCount++
		if !override {
			return nil
		}
	}

	record := &models.LabResultRecord{
		PetID:         pet.ID,
		TestType:      fields.TestType,
		TestDate:      testDate,
		LabName:       fields.LabName,
		VetName:       fields.VetName,
		Results:       labRowsToJSON(fields.Rows),
		SourceEmailID: sourceEmailID,
		DocumentURL:   documentURL,
		Confidence:    result.Confidence,
	}
	id, err := p.repos.LabResultRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			outcome.DuplicateCount++
			return nil
		}
		return err
	}
	outcome.SavedRecordIDs = append(outcome.SavedRecordIDs, id)
	return nil
}

func (p *recordPersister) saveClinicalExam(ctx context.Context, pet *models.Pet, sourceEmailID string, result *dto.ExtractionResult, documentURL string, outcome *dto.SaveOutcome) error {
	fields := result.ClinicalExam
	if fields == nil {
		return errors.New("clinical exam payload missing")
	}

	vitals := make(models.JSONMap, len(fields.Vitals))
	for k, v := range fields.Vitals {
		vitals[k] = v
	}

	record := &models.ClinicalExamRecord{
		PetID:         pet.ID,
		ExamDate:      parseDate(fields.ExamDate),
		VetName:       fields.VetName,
		Diagnosis:     fields.Diagnosis,
		Notes:         fields.Notes,
		Vitals:        vitals,
		SourceEmailID: sourceEmailID,
		DocumentURL:   documentURL,
		Confidence:    result.Confidence,
	}
	id, err := p.repos.ClinicalExamRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			outcome.DuplicateCount++
			return nil
		}
		return err
	}
	outcome.SavedRecordIDs = append(outcome.SavedRecordIDs, id)
	return nil
}

func (p *recordPersister) saveInvoice(ctx context.Context, pet *models.Pet, sourceEmailID string, result *dto.ExtractionResult, documentURL string, outcome *dto.SaveOutcome) error {
	fields := result.Invoice
	if fields == nil {
		return errors.New("invoice payload missing")
	}

	record := &models.InvoiceRecord{
		PetID:         pet.ID,
		Vendor:        fields.Vendor,
		IssuedAt:      parseDate(fields.IssuedAt),
		TotalAmount:   fields.TotalAmount,
		Currency:      fields.Currency,
		LineItems:     invoiceItemsToJSON(fields.LineItems),
		SourceEmailID: sourceEmailID,
		DocumentURL:   documentURL,
		Confidence:    result.Confidence,
	}
	id, err := p.repos.InvoiceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			outcome.DuplicateCount++
			return nil
		}
		return err
	}
	outcome.SavedRecordIDs = append(outcome.SavedRecordIDs, id)
	return nil
}

func (p *recordPersister) saveTravel(ctx context.Context, pet *models.Pet, sourceEmailID string, result *dto.ExtractionResult, documentURL string, outcome *dto.SaveOutcome) error {
	fields := result.Travel
	if fields == nil {
		return errors.New("travel payload missing")
	}

	record := &models.TravelRecord{
		PetID:          pet.ID,
		DocumentName:   fields.DocumentName,
		IssuedAt:       parseDate(fields.IssuedAt),
		ValidUntil:     parseDate(fields.ValidUntil),
		IssuingCountry: fields.IssuingCountry,
		SourceEmailID:  sourceEmailID,
		DocumentURL:    documentURL,
		Confidence:     result.Confidence,
	}
	id, err := p.repos.TravelRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			outcome.DuplicateCount++
			return nil
		}
		return err
	}
	outcome.SavedRecordIDs = append(outcome.SavedRecordIDs, id)
	return nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006", "01/02/2006"}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func labRowsToJSON(rows []dto.LabTestRow) models.JSONMap {
	if len(rows) == 0 {
		return nil
	}
	encoded := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		encoded = append(encoded, map[string]interface{}{
			"analyte":        row.Analyte,
			"value":          row.Value,
			"unit":           row.Unit,
			"referenceRange": row.ReferenceRange,
		})
	}
	return models.JSONMap{"rows": encoded}
}

func invoiceItemsToJSON(items []dto.InvoiceLineItem) models.JSONMap {
	if len(items) == 0 {
		return nil
	}
	encoded := make([]interface{}, 0, len(items))
	for _, item := range items {
		encoded = append(encoded, map[string]interface{}{
			"description": item.Description,
			"amount":      item.Amount,
		})
	}
	return models.JSONMap{"items": encoded}
}

// extractionResultToJSON serializes a result for the pending-approval payload.
func extractionResultToJSON(result *dto.ExtractionResult) models.JSONMap {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil
	}
	var m models.JSONMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// extractionResultFromJSON is the inverse, used when an approval is replayed.
func extractionResultFromJSON(payload models.JSONMap) (*dto.ExtractionResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var result dto.ExtractionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
