package extract

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// PhoneNumbers returns the phone numbers found in text, deduplicated in
// order of discovery.
//
// Candidates are stripped to digits and '+'. country (an ISO 3166 region
// such as "GB") is used as a parsing hint for candidates without a leading
// '+'; pass "" when unknown. Valid numbers are rendered in international
// format. Candidates that cannot be parsed or validated are still accepted
// verbatim when they carry at least 10 digits.
func PhoneNumbers(text, country string) []string {
	phones := make([]string, 0)
	seen := make(map[string]bool)
	for _, re := range phoneRes {
		for _, raw := range re.FindAllString(text, -1) {
			phone, ok := NormalizePhone(raw, country)
			if !ok || seen[phone] {
				continue
			}
			seen[phone] = true
			phones = append(phones, phone)
		}
	}
	return phones
}

// NormalizePhone validates a single phone candidate.
// It returns the international rendering for valid numbers, the cleaned
// digit string for invalid numbers with at least 10 digits, and false otherwise.
func NormalizePhone(raw, country string) (string, bool) {
	cleaned := nonPhoneCharRe.ReplaceAllString(raw, "")
	if cleaned == "" {
		return "", false
	}

	region := ""
	if !strings.HasPrefix(cleaned, "+") {
		region = strings.ToUpper(country)
	}
	if num, err := phonenumbers.Parse(cleaned, region); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), true
	}

	if countDigits(cleaned) >= minDigits {
		return cleaned, true
	}
	return "", false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
