package utils

import (
	"net/url"
	"strings"
)

// NormalizePhone reduces a locally-formatted Costa Rican phone number to
// E.164 (+506XXXXXXXX). Existing country prefixes and leading zeros are
// stripped before the prefix is applied.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if number == "" {
		return ""
	}
	number = strings.TrimPrefix(number, "506")
	number = strings.TrimLeft(number, "0")
	return "+506" + number
}

// WhatsAppURL builds a wa.me link that opens a chat with the given phone
// and a prefilled message.
func WhatsAppURL(phone, message string) string {
	if phone == "" {
		return ""
	}
	return "https://wa.me/" + strings.TrimPrefix(phone, "+") + "?text=" + url.QueryEscape(message)
}
