package extract

import "strings"

// Emails returns every email address in text, in order of appearance.
// Duplicates are kept. An address is accepted when it is at most 320
// characters long and its domain contains a dot; no DNS lookup is made.
func Emails(text string) []string {
	matches := emailRe.FindAllString(text, -1)
	emails := make([]string, 0, len(matches))
	for _, m := range matches {
		if isValidEmail(m) {
			emails = append(emails, m)
		}
	}
	return emails
}

func isValidEmail(email string) bool {
	if len(email) > maxEmailLen {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
