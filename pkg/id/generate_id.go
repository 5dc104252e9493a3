package id

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var reID32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns exactly 32 lowercase hex characters (no separators or
// prefixes). Used as the public identifier for loans and payments.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Valid reports whether s is a well-formed 32-char hex identifier.
func Valid(s string) bool { return reID32.MatchString(s) }
