package service

import (
	mrand "math/rand/v2"
)

const (
	Alphabet           = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultNonceLength = 48
)

// NonceSource produces random alphanumeric nonces. Not safe for concurrent
// use; every solver worker owns one.
type NonceSource struct {
	r      *mrand.Rand
	length int
}

func NewNonceSource(length int) *NonceSource {
	return NewNonceSourceWith(length, mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64())))
}

// NewNonceSourceWith is used by tests to inject a seeded generator.
func NewNonceSourceWith(length int, r *mrand.Rand) *NonceSource {
	if length <= 0 {
		length = DefaultNonceLength
	}
	return &NonceSource{r: r, length: length}
}

func (s *NonceSource) Len() int { return s.length }

// Fill overwrites dst with random alphabet characters.
func (s *NonceSource) Fill(dst []byte) {
	for i := range dst {
		dst[i] = Alphabet[s.r.IntN(len(Alphabet))]
	}
}

func (s *NonceSource) Next() string {
	b := make([]byte, s.length)
	s.Fill(b)
	return string(b)
}
