package utils

import (
	"crypto/rand"
)

// GenerateVerificationCode returns a numeric code for email verification.
func GenerateVerificationCode(length int) string {
	const digits = "0123456789"

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = digits[int(b)%len(digits)]
	}
	return string(buf)
}
