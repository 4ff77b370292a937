package core

import (
	"crypto/rand"

	"github.com/lobbywire/lobbywire/internal/domain"
)

const (
	codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 5
)

// NewCode draws one random room code. Uniqueness is the registry's problem;
// this only guarantees the alphabet and length.
func NewCode() domain.RoomID {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	out := make([]byte, codeLength)
	for i := range out {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return domain.RoomID(out)
}
