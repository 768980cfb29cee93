package ingestion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean_TruncatesAtGmailReplySeparator(t *testing.T) {
	text := "Thanks, see you at the next checkup!\n\nOn Mon, 12 Feb 2024 at 10:00, Happy Paws Clinic <reception@happypaws.com> wrote:\n> Dear owner,\n> Please find the results attached."

	cleanedText, _ := Clean(text, "")

	assert.Equal(t, "Thanks, see you at the next checkup!", cleanedText)
	assert.NotContains(t, cleanedText, "wrote:")
	assert.NotContains(t, cleanedText, "Dear owner")
}

func TestClean_TruncatesAtOriginalMessageSeparator(t *testing.T) {
	text := "Rex is doing much better now.\n\n-----Original Message-----\nFrom: clinic@vets.com\nSent: Monday\nSubject: Results\n\nOld content here."

	cleanedText, _ := Clean(text, "")

	assert.Equal(t, "Rex is doing much better now.", cleanedText)
	assert.NotContains(t, cleanedText, "Old content")
}

func TestClean_TruncatesAtFrenchSeparator(t *testing.T) {
	text := "Merci beaucoup pour votre aide.\n\nLe 12 févr. 2024 à 10:00, Clinique Vétérinaire <info@clinique.fr> a écrit :\n> Bonjour,"

	cleanedText, _ := Clean(text, "")

	assert.Equal(t, "Merci beaucoup pour votre aide.", cleanedText)
}

func TestClean_DropsQuotedLinesAndHeaderLines(t *testing.T) {
	text := "New note from the owner.\n> quoted line one\n> quoted line two\nFrom: someone@example.com\nTo: rex-a7k2@pets.pawtrail.app\nStill mine."

	cleanedText, _ := Clean(text, "")

	assert.Contains(t, cleanedText, "New note from the owner.")
	assert.Contains(t, cleanedText, "Still mine.")
	assert.NotContains(t, cleanedText, "quoted line")
	assert.NotContains(t, cleanedText, "From:")
	assert.NotContains(t, cleanedText, "To:")
}

func TestClean_TruncatesAtForwardedHeaderBlock(t *testing.T) {
	text := "Forwarding the invoice from the clinic.\n\nFrom: billing@happypaws.com\nTo: owner@example.com\nDate: Monday\n\nInvoice total was 120 EUR."

	cleanedText, _ := Clean(text, "")

	assert.Equal(t, "Forwarding the invoice from the clinic.", cleanedText)
	assert.NotContains(t, cleanedText, "billing@happypaws.com")
	assert.NotContains(t, cleanedText, "Invoice total")
}

func TestClean_HeaderLinesInsideRunningTextKeepTrailingText(t *testing.T) {
	// No blank line before the header pair, so this is not a forwarded block;
	// the header lines are dropped and the authored text after them survives.
	text := "New note from the owner.\nFrom: someone@example.com\nTo: rex-a7k2@pets.pawtrail.app\nStill mine."

	cleanedText, _ := Clean(text, "")

	assert.Contains(t, cleanedText, "New note from the owner.")
	assert.Contains(t, cleanedText, "Still mine.")
	assert.NotContains(t, cleanedText, "From:")
}

func TestClean_SeparatorInsideFirstCharactersIsKept(t *testing.T) {
	// A separator-shaped opening line is part of the authored message.
	text := "On topic, he wrote:\nthe medication schedule is fine."

	cleanedText, _ := Clean(text, "")

	assert.Contains(t, cleanedText, "medication schedule is fine")
}

func TestClean_NeverEmptyWhenInputNonEmpty(t *testing.T) {
	// Whole body is a quote; cleaning would erase everything.
	text := "> line one\n> line two\n> line three"

	cleanedText, _ := Clean(text, "")

	assert.NotEmpty(t, strings.TrimSpace(cleanedText))
}

func TestClean_FallbackCapsLength(t *testing.T) {
	long := "> " + strings.Repeat("x", 2000)

	cleanedText, _ := Clean(long, "")

	assert.NotEmpty(t, cleanedText)
	assert.LessOrEqual(t, len(cleanedText), fallbackChars)
}

func TestClean_FallbackTruncatesOnRuneBoundary(t *testing.T) {
	long := "> " + strings.Repeat("é", 2000)

	cleanedText, _ := Clean(long, "")

	assert.True(t, utf8.ValidString(cleanedText))
	assert.LessOrEqual(t, utf8.RuneCountInString(cleanedText), fallbackChars)
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"Thanks, see you soon!\n\nOn Mon, 12 Feb 2024 at 10:00, Vet <v@c.com> wrote:\n> old",
		"Just a plain message with no quoting at all.",
		"Multi\n\n\n\n\n\nblank runs here.",
	}
	for _, input := range inputs {
		once, _ := Clean(input, "")
		twice, _ := Clean(once, "")
		assert.Equal(t, once, twice)
	}
}

func TestClean_RemovesBlockquoteFromHTML(t *testing.T) {
	html := `<html><body><div>Here is my reply about the vaccine.</div><blockquote><p>Previous thread content</p></blockquote></body></html>`

	_, cleanedHTML := Clean("", html)

	assert.Contains(t, cleanedHTML, "Here is my reply about the vaccine.")
	assert.NotContains(t, cleanedHTML, "Previous thread content")
}

func TestClean_RemovesGmailQuoteClassFromHTML(t *testing.T) {
	html := `<html><body><div>Fresh content</div><div class="gmail_quote"><div>Quoted stuff</div></div></body></html>`

	_, cleanedHTML := Clean("", html)

	assert.Contains(t, cleanedHTML, "Fresh content")
	assert.NotContains(t, cleanedHTML, "Quoted stuff")
}

func TestClean_HTMLFallbackFillsEmptyText(t *testing.T) {
	html := `<html><body><div>The appointment for the annual vaccination is confirmed for next Tuesday.</div></body></html>`

	cleanedText, _ := Clean("", html)

	require.NotEmpty(t, cleanedText)
	assert.Contains(t, cleanedText, "annual vaccination")
}

func TestClean_MalformedHTMLReturnsSomething(t *testing.T) {
	html := `<div><p>unterminated`

	_, cleanedHTML := Clean("", html)

	assert.NotEmpty(t, cleanedHTML)
}

func TestClean_EmptyInputs(t *testing.T) {
	cleanedText, cleanedHTML := Clean("", "")

	assert.Empty(t, cleanedText)
	assert.Empty(t, cleanedHTML)
}
