package ingestion

import (
	"strings"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/utils"
)

// ValidatorOptions tunes the fuzzy attribute comparison. Microchip handling is
// not tunable; chips are unique and authoritative.
type ValidatorOptions struct {
	// NameMatch decides whether an extracted name agrees with the stored one.
	// Defaults to case-insensitive containment either way.
	NameMatch func(extracted, stored string) bool
	// AgeToleranceYears allows for documents issued a while ago. Default 1.
	AgeToleranceYears int
}

func defaultValidatorOptions() ValidatorOptions {
	return ValidatorOptions{
		NameMatch:         looseContains,
		AgeToleranceYears: 1,
	}
}

func looseContains(a, b string) bool {
	na, nb := utils.NormalizeLooseText(a), utils.NormalizeLooseText(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// ValidatePetIdentity checks a document's extracted identity fields against the
// target pet. Precedence: microchip (authoritative, short-circuits), then named
// attributes (weak, free-text evidence), then absence of any field.
func ValidatePetIdentity(extracted *dto.ExtractedPetIdentity, pet *models.Pet, opts ValidatorOptions) *PetValidationResult {
	if opts.NameMatch == nil {
		opts.NameMatch = looseContains
	}

	if !extracted.HasAnyField() {
		return &PetValidationResult{
			Outcome:   enum.ValidationNoInfo,
			Extracted: extracted,
		}
	}

	if extracted.MicrochipNumber != "" && pet.MicrochipNumber != "" {
		if utils.NormalizeIdentifier(extracted.MicrochipNumber) != utils.NormalizeIdentifier(pet.MicrochipNumber) {
			return &PetValidationResult{
				Outcome:          enum.ValidationMismatched,
				Extracted:        extracted,
				MismatchedFields: []string{"microchip"},
			}
		}
		// Chip agrees; attribute noise on the document is irrelevant.
		return &PetValidationResult{
			Outcome:   enum.ValidationMatched,
			Extracted: extracted,
		}
	}

	var mismatched []string
	if extracted.Name != "" && !opts.NameMatch(extracted.Name, pet.Name) {
		mismatched = append(mismatched, "name")
	}
	if extracted.Breed != "" && pet.Breed != "" && !looseContains(extracted.Breed, pet.Breed) {
		mismatched = append(mismatched, "breed")
	}
	if extracted.Gender != "" && pet.Gender != "" && !genderMatches(extracted.Gender, pet.Gender) {
		mismatched = append(mismatched, "gender")
	}
	if extracted.AgeYears > 0 {
		petAge := pet.AgeYears(utils.Now())
		if petAge >= 0 && absInt(extracted.AgeYears-petAge) > opts.AgeToleranceYears {
			mismatched = append(mismatched, "age")
		}
	}

	if len(mismatched) > 0 {
		return &PetValidationResult{
			Outcome:          enum.ValidationMismatched,
			Extracted:        extracted,
			MismatchedFields: mismatched,
		}
	}

	return &PetValidationResult{
		Outcome:   enum.ValidationMatched,
		Extracted: extracted,
	}
}

func genderMatches(a, b string) bool {
	return normalizeGender(a) == normalizeGender(b)
}

func normalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "m", "male", "männlich", "macho", "mâle":
		return "male"
	case "f", "female", "weiblich", "hembra", "femelle":
		return "female"
	default:
		return strings.ToLower(strings.TrimSpace(g))
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// skipReasonFor maps a mismatch result to the skip reason recorded on the
// attachment.
func skipReasonFor(result *PetValidationResult) enum.SkipReason {
	switch result.Outcome {
	case enum.ValidationNoInfo:
		return enum.SkipNoPetInfo
	case enum.ValidationMismatched:
		if utils.IsStringInSlice("microchip", result.MismatchedFields) {
			return enum.SkipMicrochipMismatch
		}
		return enum.SkipAttributesMismatch
	default:
		return ""
	}
}
