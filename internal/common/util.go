package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomDigits returns a uniformly random decimal code of exactly width
// digits, keeping leading zeros ("004217" for width 6). Width is capped at 18
// so the value fits an int64.
func RandomDigits(width int) (string, error) {
	if width <= 0 {
		return "", nil
	}
	if width > 18 {
		return "", fmt.Errorf("width %d exceeds 18 digits", width)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(width)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", width, n.Int64()), nil
}
