package utils

import (
	"crypto/rand"
	"math/big"
)

// GenerateOTP returns a numeric code of length digits whose first digit is never zero.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, length)
	for i := range b {
		lo, span := int64(0), int64(10)
		if i == 0 {
			lo, span = 1, 9
		}
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", err
		}
		b[i] = byte('0' + lo + n.Int64())
	}
	return string(b), nil
}
