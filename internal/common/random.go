package common

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// MakeRandDigitString generates a random numeric string of exactly length
// digits, suitable for one-time codes. Leading zeros are kept.
func MakeRandDigitString(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
