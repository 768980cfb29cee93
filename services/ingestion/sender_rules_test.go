package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawtrail/mailroom/internal/enum"
)

func TestCategorizeSender(t *testing.T) {
	tests := []struct {
		address     string
		displayName string
		want        enum.SenderCategory
	}{
		{"reception@happypawsvet.com", "", enum.SenderVetClinic},
		{"info@tierarzt-praxis.de", "", enum.SenderVetClinic},
		{"contact@cityanimalclinic.com", "", enum.SenderVetClinic},
		{"hello@example.com", "Riverside Animal Hospital", enum.SenderVetClinic},
		{"bookings@pawfectgrooming.com", "", enum.SenderGroomer},
		{"results@idexx.com", "", enum.SenderLaboratory},
		{"noreply@diagnosticscenter.com", "", enum.SenderLaboratory},
		{"claims@petinsure.com", "", enum.SenderInsurance},
		{"orders@rx-direct.com", "", enum.SenderPharmacy},
		{"uncle.bob@gmail.com", "Bob", enum.SenderOther},
	}

	for _, tt := range tests {
		got := CategorizeSender(tt.address, tt.displayName)
		assert.Equal(t, tt.want, got, "%s / %s", tt.address, tt.displayName)
	}
}

func TestCategorizeSender_FirstRuleWins(t *testing.T) {
	// "vetlab" hits the vet rule before the laboratory rule.
	got := CategorizeSender("results@vetlab.com", "")
	assert.Equal(t, enum.SenderVetClinic, got)
}
