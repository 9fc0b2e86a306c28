// Package random generates secrets from crypto/rand.
package random

import (
	"crypto/rand"
	"math/big"
)

const alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Seq returns n characters drawn uniformly from [0-9a-zA-Z].
func Seq(n int) string {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		buf[i] = alphanumeric[idx.Int64()]
	}
	return string(buf)
}

// Key returns prefix followed by n random alphanumerics.
func Key(prefix string, n int) string {
	return prefix + Seq(n)
}
