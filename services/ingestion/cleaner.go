package ingestion

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jaytaylor/html2text"
)

// Reply cleaning strips quoted and forwarded prior-message content from an
// email body, leaving the new human-authored message. Pure, never errors;
// the worst case is returning the original body untouched.

const (
	// Separators inside the first few characters are assumed to be part of the
	// authored message, not a quote boundary.
	minSeparatorOffset = 20
	// Hard fallback size when cleaning would otherwise empty a non-empty body.
	fallbackChars = 500
	// Minimum tag-stripped HTML length to stand in for an empty text result.
	minHTMLFallbackChars = 20
)

var replySeparators = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^\s*-{2,}\s*original message\s*-{2,}\s*$`),
	regexp.MustCompile(`(?mi)^\s*-{2,}\s*forwarded message\s*-{2,}\s*$`),
	regexp.MustCompile(`(?mi)^\s*-{2,}\s*message d'origine\s*-{2,}\s*$`),
	regexp.MustCompile(`(?mi)^\s*-{2,}\s*message transf[ée]r[ée]\s*-{2,}\s*$`),
	regexp.MustCompile(`(?mi)^\s*-{2,}\s*urspr[üu]ngliche nachricht\s*-{2,}\s*$`),
	regexp.MustCompile(`(?mi)^\s*-{2,}\s*weitergeleitete nachricht\s*-{2,}\s*$`),
	regexp.MustCompile(`(?mi)^\s*-{2,}\s*mensaje original\s*-{2,}\s*$`),
	regexp.MustCompile(`(?mi)^\s*-{2,}\s*mensaje reenviado\s*-{2,}\s*$`),
	regexp.MustCompile(`(?mi)^on .{0,200}wrote:\s*$`),
	regexp.MustCompile(`(?mi)^le .{0,200}a [ée]crit\s*:\s*$`),
	regexp.MustCompile(`(?mi)^am .{0,200}schrieb.{0,100}:\s*$`),
	regexp.MustCompile(`(?mi)^el .{0,200}escribi[óo]\s*:\s*$`),
	// Outlook-style header block: a blank line, then a From/De/Von line
	// immediately followed by a Sent/To/Date style line. Header-shaped lines
	// inside running text are left to the quote scan, which keeps whatever
	// authored text follows them.
	regexp.MustCompile(`(?mi)^[ \t]*\r?\n[ \t]*(from|de|von)[ \t]*:.{0,200}\r?\n[ \t]*(sent|date|to|cc|envoy[ée]|[àa]|gesendet|an|enviado|para)[ \t]*:`),
}

var (
	headerFieldRegex = regexp.MustCompile(`(?i)^(from|to|subject|date|sent|cc|bcc|reply-to)\s*:`)
	blankRunRegex    = regexp.MustCompile(`\n{4,}`)
	leftBorderRegex  = regexp.MustCompile(`(?i)border-left\s*:`)
)

// Clean removes quoted/forwarded content from both bodies. The text result is
// never empty when textBody is non-empty; see the fallback chain below.
func Clean(textBody, htmlBody string) (cleanedText, cleanedHTML string) {
	hasText := strings.TrimSpace(textBody) != ""
	hasHTML := strings.TrimSpace(htmlBody) != ""

	if hasText {
		cleanedText = cleanPlainText(textBody)
	}
	if hasHTML {
		cleanedHTML = cleanHTMLBody(htmlBody)
		if strings.TrimSpace(cleanedHTML) == "" {
			cleanedHTML = htmlBody
		}
	}

	if cleanedText == "" && cleanedHTML != "" {
		if stripped, err := html2text.FromString(cleanedHTML, html2text.Options{TextOnly: true}); err == nil {
			stripped = strings.TrimSpace(stripped)
			if len(stripped) > minHTMLFallbackChars {
				cleanedText = stripped
			}
		}
	}

	if cleanedText == "" && hasText {
		cleanedText = truncate(strings.TrimSpace(textBody), fallbackChars)
	}

	return cleanedText, cleanedHTML
}

func cleanPlainText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	// Truncate at the earliest recognized separator past the minimum offset.
	cutAt := -1
	for _, sep := range replySeparators {
		loc := sep.FindStringIndex(text)
		if loc == nil || loc[0] < minSeparatorOffset {
			continue
		}
		if cutAt == -1 || loc[0] < cutAt {
			cutAt = loc[0]
		}
	}
	if cutAt != -1 {
		text = text[:cutAt]
	}

	// Drop quoted blocks: a quote-marker line opens a block; blank lines and
	// header-shaped lines inside it are dropped; the first substantive line
	// closes it.
	var kept []string
	inQuote := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if isQuoteMarkerLine(trimmed) {
			inQuote = true
			continue
		}
		if inQuote {
			if trimmed == "" {
				continue
			}
			inQuote = false
		}
		kept = append(kept, line)
	}

	result := strings.Join(kept, "\n")
	result = blankRunRegex.ReplaceAllString(result, "\n\n\n")
	return strings.TrimSpace(result)
}

func isQuoteMarkerLine(trimmed string) bool {
	if strings.HasPrefix(trimmed, ">") || strings.HasPrefix(trimmed, "|") {
		return true
	}
	return headerFieldRegex.MatchString(trimmed)
}

// cleanHTMLBody removes quoted-reply markup. On any parse problem the original
// body is returned unchanged.
func cleanHTMLBody(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	doc.Find("blockquote").Remove()
	doc.Find(`[class*="quote"], [class*="Quote"]`).Remove()

	doc.Find("div, p, span, table").Each(func(_ int, sel *goquery.Selection) {
		if style, ok := sel.Attr("style"); ok && leftBorderRegex.MatchString(style) {
			sel.Remove()
		}
	})

	doc.Find("div, p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" || len(text) > 300 {
			return
		}
		if isSeparatorText(text) || headerFieldRegex.MatchString(text) {
			sel.Remove()
		}
	})

	// Drop containers the removals emptied out.
	doc.Find("div, p").Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) == "" && sel.Children().Length() == 0 {
			sel.Remove()
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return html
	}
	return strings.TrimSpace(out)
}

func isSeparatorText(text string) bool {
	for _, sep := range replySeparators {
		if sep.MatchString(text) {
			return true
		}
	}
	return false
}

// truncate caps s at max characters, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
