package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
)

var (
	ErrPowInvalid    = errors.New("pow invalid")
	ErrUnsatisfiable = errors.New("requirement can never be met")
)

// Digest returns hex(SHA-256(payload || nonce)) in lowercase.
func Digest(payload, nonce string) string {
	sum := sha256.Sum256([]byte(payload + nonce))
	return hex.EncodeToString(sum[:])
}

func Meets(digest, requirement string) bool {
	return strings.HasPrefix(digest, requirement)
}

// checkRequirement rejects prefixes no lowercase hex digest can start with.
func checkRequirement(req string) error {
	if len(req) > sha256.Size*2 {
		return fmt.Errorf("%w: %d chars is longer than a digest", ErrUnsatisfiable, len(req))
	}
	for i := 0; i < len(req); i++ {
		c := req[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("%w: %q is not lowercase hex", ErrUnsatisfiable, req)
		}
	}
	return nil
}

func Verify(ch entity.Challenge, c entity.Candidate) error {
	if c.Nonce == "" {
		return fmt.Errorf("%w: empty nonce", ErrPowInvalid)
	}
	d := Digest(ch.Payload, c.Nonce)
	if c.Digest != d {
		return fmt.Errorf("%w: digest mismatch", ErrPowInvalid)
	}
	if !Meets(d, ch.Requirement) {
		return ErrPowInvalid
	}
	return nil
}
