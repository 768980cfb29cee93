package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmailSubject(t *testing.T) {
	assert.Equal(t, "Lab results", NormalizeEmailSubject("Re: Lab results"))
	assert.Equal(t, "Lab results", NormalizeEmailSubject("RE: FWD: Lab results"))
	assert.Equal(t, "Lab results", NormalizeEmailSubject("Re[2]: Lab results"))
	assert.Equal(t, "Lab results", NormalizeEmailSubject("  Lab results  "))
	assert.Equal(t, "", NormalizeEmailSubject("Re:"))
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "985112003456789", NormalizeIdentifier("985-112-003 456 789"))
	assert.Equal(t, "cbc", NormalizeIdentifier(" CBC "))
	assert.Equal(t, "completebloodcount", NormalizeIdentifier("Complete Blood Count"))
}

func TestNormalizeLooseText(t *testing.T) {
	assert.Equal(t, "golden retriever", NormalizeLooseText("  Golden   Retriever "))
	assert.Equal(t, "", NormalizeLooseText("   "))
}
