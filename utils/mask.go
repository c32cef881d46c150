package utils

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// MaskPhoneNumber keeps the first and last two digits of a 10-digit number.
func MaskPhoneNumber(number string) string {
	if len(number) != 10 {
		return number
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return number
		}
	}
	return number[:2] + "******" + number[8:]
}

func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}
	username, domain := email[:at], email[at+1:]

	if len(username) > 2 {
		username = username[:2] + "****"
	}
	if len(domain) > 3 {
		domain = "****" + domain[len(domain)-3:]
	}
	return username + "@" + domain
}

// RandomMaskedNumber returns "9" followed by nine random digits.
func RandomMaskedNumber() string {
	return "9" + strconv.Itoa(100000000+rand.IntN(900000000))
}
