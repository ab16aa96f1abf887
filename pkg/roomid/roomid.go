// Package roomid generates the short codes participants relay to each other.
package roomid

import (
	"crypto/rand"
	"math/big"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	length   = 5
)

// New returns a random 5-character lowercase alphanumeric code. Uniqueness
// is probabilistic only; the registry's create step is what actually decides
// ownership of an id.
func New() (string, error) {
	span := big.NewInt(int64(len(alphabet)))

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
