package security

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and verifies salted one-way password digests.
//
// Raw passwords are pre-hashed with SHA-256 (base64-encoded) before bcrypt,
// so inputs longer than bcrypt's 72-byte limit are not silently truncated.
// The bcrypt output embeds algorithm, salt and cost, so hashes minted at an
// older cost keep verifying after the cost is tuned.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prehash(raw), h.cost)

	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Check reports whether raw matches hashed. Malformed hashes are a plain
// false, never an error, so callers cannot tell them apart from a wrong
// password.
func (h *Hasher) Check(raw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), prehash(raw)) == nil
}

func prehash(raw string) []byte {
	sum := sha256.Sum256([]byte(raw))

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])

	return out
}
