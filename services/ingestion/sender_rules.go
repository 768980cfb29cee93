package ingestion

import (
	"strings"

	"github.com/pawtrail/mailroom/internal/enum"
)

// Sender categorization is a best-effort heuristic over the sender's address
// and display name. It drives inbox grouping only, never identity decisions.
// Rules are evaluated in order; first hit wins.

type senderRule struct {
	keywords []string
	category enum.SenderCategory
}

var senderRules = []senderRule{
	{keywords: []string{"vet", "veterinar", "tierarzt", "clinic", "animal hospital"}, category: enum.SenderVetClinic},
	{keywords: []string{"groom", "toilettage"}, category: enum.SenderGroomer},
	{keywords: []string{"lab", "diagnostic", "idexx", "analysis"}, category: enum.SenderLaboratory},
	{keywords: []string{"insur", "assur", "versicherung", "seguro"}, category: enum.SenderInsurance},
	{keywords: []string{"pharma", "apotheke", "farmacia", "rx"}, category: enum.SenderPharmacy},
}

// CategorizeSender classifies the counterparty behind an inbound email.
func CategorizeSender(address, displayName string) enum.SenderCategory {
	haystack := strings.ToLower(address + " " + displayName)
	for _, rule := range senderRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.category
			}
		}
	}
	return enum.SenderOther
}
