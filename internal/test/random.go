package test

import (
	"math/rand/v2"
	"strings"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 14
)

// RandomGatewayID returns an identifier shaped like gateway ids, e.g.
// "order_" followed by fourteen alphanumerics.
func RandomGatewayID(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + idLength)
	b.WriteString(prefix)
	for range idLength {
		b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
	}
	return b.String()
}

// MutateHex flips the hex digit at position i, keeping the string valid hex.
func MutateHex(s string, i int) string {
	buf := []byte(s)
	if buf[i] == '0' {
		buf[i] = '1'
	} else {
		buf[i] = '0'
	}
	return string(buf)
}
