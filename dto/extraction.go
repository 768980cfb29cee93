package dto

// ExtractionRequest asks the extraction service to classify one stored document.
type ExtractionRequest struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
}

// ExtractionResult is the extraction service's structured read of a document.
// DocumentType is the service's raw label; mapping to the canonical enum happens
// in the pipeline.
type ExtractionResult struct {
	DocumentType string  `json:"documentType"`
	Confidence   float64 `json:"confidence"`

	Pet *ExtractedPetIdentity `json:"pet,omitempty"`

	Vaccination  *VaccinationFields  `json:"vaccination,omitempty"`
	Medication   *MedicationFields   `json:"medication,omitempty"`
	LabResult    *LabResultFields    `json:"labResult,omitempty"`
	ClinicalExam *ClinicalExamFields `json:"clinicalExam,omitempty"`
	Invoice      *InvoiceFields      `json:"invoice,omitempty"`
	Travel       *TravelFields       `json:"travel,omitempty"`
}

// ExtractedPetIdentity carries whatever pet-identifying fields the document showed.
// Empty strings and AgeYears <= 0 mean "not found on the document".
type ExtractedPetIdentity struct {
	Name            string `json:"name,omitempty"`
	Breed           string `json:"breed,omitempty"`
	Gender          string `json:"gender,omitempty"`
	MicrochipNumber string `json:"microchipNumber,omitempty"`
	AgeYears        int    `json:"ageYears,omitempty"`
}

// HasAnyField reports whether the document carried any identity evidence at all.
func (p *ExtractedPetIdentity) HasAnyField() bool {
	if p == nil {
		return false
	}
	return p.Name != "" || p.Breed != "" || p.Gender != "" || p.MicrochipNumber != "" || p.AgeYears > 0
}

type VaccinationFields struct {
	VaccineName    string `json:"vaccineName"`
	AdministeredAt string `json:"administeredAt,omitempty"`
	ValidUntil     string `json:"validUntil,omitempty"`
	VetName        string `json:"vetName,omitempty"`
	BatchNumber    string `json:"batchNumber,omitempty"`
}

// MedicationFields may list several medicines from one prescription document;
// each becomes its own medication record.
type MedicationFields struct {
	PrescribedBy string         `json:"prescribedBy,omitempty"`
	Medicines    []MedicineItem `json:"medicines"`
}

type MedicineItem struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type LabResultFields struct {
	TestType string       `json:"testType"`
	TestDate string       `json:"testDate,omitempty"`
	LabName  string       `json:"labName,omitempty"`
	VetName  string       `json:"vetName,omitempty"`
	Rows     []LabTestRow `json:"rows,omitempty"`
}

type LabTestRow struct {
	Analyte        string `json:"analyte"`
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"referenceRange,omitempty"`
}

type ClinicalExamFields struct {
	ExamDate  string            `json:"examDate,omitempty"`
	VetName   string            `json:"vetName,omitempty"`
	Diagnosis string            `json:"diagnosis,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Vitals    map[string]string `json:"vitals,omitempty"`
}

type InvoiceFields struct {
	Vendor      string            `json:"vendor,omitempty"`
	IssuedAt    string            `json:"issuedAt,omitempty"`
	TotalAmount float64           `json:"totalAmount,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	LineItems   []InvoiceLineItem `json:"lineItems,omitempty"`
}

type InvoiceLineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type TravelFields struct {
	DocumentName   string `json:"documentName,omitempty"`
	IssuedAt       string `json:"issuedAt,omitempty"`
	ValidUntil     string `json:"validUntil,omitempty"`
	IssuingCountry string `json:"issuingCountry,omitempty"`
}
