package service

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// DeriveNameFromEmail turns "jane.doe@x.com" into "Jane Doe". The local
// part is split on the separators people actually use in addresses;
// returns "" when the input is not email-shaped.
func DeriveNameFromEmail(email string) string {
	if !emailRe.MatchString(email) {
		return ""
	}
	local := strings.SplitN(email, "@", 2)[0]
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return ""
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(strings.ToLower(s))
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// FallbackName is the last resort when neither the message nor the job
// record yields a display name.
func FallbackName(auftragID string) string {
	return "Job #" + shortID(auftragID)
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
