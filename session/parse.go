package session

import (
	"regexp"
	"strings"

	"github.com/leadmesh/leadmesh/core"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// phonePattern matches runs of digits with common phone punctuation;
	// candidates are accepted once stripping leaves at least ten digits.
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{8,}\d`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// namePatterns holds the per-language introductory phrase patterns, in match
// priority order. The first pattern that matches wins.
var namePatterns = map[core.Language][]*regexp.Regexp{
	core.LangEnglish: {
		regexp.MustCompile(`(?i)\bmy name is\s+([a-zA-Z][a-zA-Z' \-]*)`),
		regexp.MustCompile(`(?i)\bthis is\s+([a-zA-Z][a-zA-Z' \-]*)`),
		regexp.MustCompile(`(?i)\bi am\s+([a-zA-Z][a-zA-Z' \-]*)`),
		regexp.MustCompile(`(?i)\bi'm\s+([a-zA-Z][a-zA-Z' \-]*)`),
	},
	core.LangSpanish: {
		regexp.MustCompile(`(?i)\bme llamo\s+([a-zA-ZÀ-ÿ][a-zA-ZÀ-ÿ' \-]*)`),
		regexp.MustCompile(`(?i)\bmi nombre es\s+([a-zA-ZÀ-ÿ][a-zA-ZÀ-ÿ' \-]*)`),
		regexp.MustCompile(`(?i)\bsoy\s+([a-zA-ZÀ-ÿ][a-zA-ZÀ-ÿ' \-]*)`),
	},
}

// nameStopwords terminate a captured name run; conjunctions and the lead-ins
// of the next clause ("and my email is ...") are not part of the name.
var nameStopwords = map[string]bool{
	"and": true, "my": true, "email": true, "phone": true, "number": true,
	"y": true, "e": true, "mi": true, "correo": true, "teléfono": true, "telefono": true, "numero": true, "número": true,
}

// ParseContactInfo extracts contact fields from free text using the given
// language's pattern family. It is a pure function: missing fields stay
// empty, and nothing is validated beyond the patterns themselves.
func ParseContactInfo(text string, lang core.Language) core.ContactProfile {
	var p core.ContactProfile

	if email := emailPattern.FindString(text); email != "" {
		p.Email = email
	}

	// Strip the email before phone matching so long mailbox digit runs are
	// not mistaken for numbers.
	phoneSource := text
	if p.Email != "" {
		phoneSource = strings.Replace(phoneSource, p.Email, " ", 1)
	}
	for _, candidate := range phonePattern.FindAllString(phoneSource, -1) {
		digits := nonDigit.ReplaceAllString(candidate, "")
		if len(digits) >= 10 {
			p.Phone = digits
			break
		}
	}

	patterns, ok := namePatterns[lang]
	if !ok {
		patterns = namePatterns[core.LangEnglish]
	}
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		first, last := splitName(m[1])
		if first == "" {
			continue
		}
		p.FirstName = first
		p.LastName = last
		break
	}
	return p
}

// splitName cuts the captured run at the first stopword; the first remaining
// token becomes the first name and the rest the last name.
func splitName(raw string) (first, last string) {
	tokens := strings.Fields(raw)
	kept := tokens[:0]
	for _, tok := range tokens {
		if nameStopwords[strings.ToLower(tok)] {
			break
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return "", ""
	}
	return kept[0], strings.Join(kept[1:], " ")
}
