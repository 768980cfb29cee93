package enum

import "strings"

type DocumentType string

const (
	DocumentVaccination  DocumentType = "vaccination"
	DocumentMedication   DocumentType = "medication"
	DocumentLabResult    DocumentType = "lab_result"
	DocumentClinicalExam DocumentType = "clinical_exam"
	DocumentInvoice      DocumentType = "invoice"
	DocumentTravel       DocumentType = "travel"
	DocumentUnknown      DocumentType = "unknown"
)

func (t DocumentType) String() string {
	return string(t)
}

// DecodeDocumentType maps the extraction service's raw label to the canonical enum.
func DecodeDocumentType(raw string) DocumentType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "vaccination", "vaccine", "vaccination_record":
		return DocumentVaccination
	case "medication", "prescription":
		return DocumentMedication
	case "lab_result", "lab", "laboratory_result":
		return DocumentLabResult
	case "clinical_exam", "exam", "consultation":
		return DocumentClinicalExam
	case "invoice", "bill", "receipt":
		return DocumentInvoice
	case "travel", "travel_certificate", "passport":
		return DocumentTravel
	default:
		return DocumentUnknown
	}
}

// Label is the human-readable form used in notification copy.
func (t DocumentType) Label() string {
	switch t {
	case DocumentVaccination:
		return "vaccination"
	case DocumentMedication:
		return "medication"
	case DocumentLabResult:
		return "lab result"
	case DocumentClinicalExam:
		return "clinical exam"
	case DocumentInvoice:
		return "invoice"
	case DocumentTravel:
		return "travel document"
	default:
		return "document"
	}
}
