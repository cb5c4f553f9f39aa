package security_test

import (
	"strings"
	"testing"

	"github.com/writeflow/authsvc/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckRoundTrip(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	hashed, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hashed == "" || hashed == "pw123456" {
		t.Fatalf("hash must be a non-empty digest, got %q", hashed)
	}

	if !h.Check("pw123456", hashed) {
		t.Fatal("correct password should verify")
	}

	if h.Check("pw1234567", hashed) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}

	if !h.Check("same-password", first) || !h.Check("same-password", second) {
		t.Fatal("both salted hashes should verify the original password")
	}
}

func TestLongPasswordsAreNotTruncated(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	// bcrypt alone only looks at the first 72 bytes. The SHA-256 pre-hash
	// keeps bytes past that boundary significant.
	base := strings.Repeat("a", 72)

	hashed, err := h.Hash(base + "-tail-one")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if h.Check(base+"-tail-two", hashed) {
		t.Fatal("passwords differing only after byte 72 must not verify")
	}

	if !h.Check(base+"-tail-one", hashed) {
		t.Fatal("the exact long password should still verify")
	}
}

func TestCheckMalformedHashIsFalse(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	for _, bad := range []string{"", "not-a-bcrypt-hash", "$2a$garbage"} {
		if h.Check("whatever", bad) {
			t.Fatalf("malformed hash %q must not verify", bad)
		}
	}
}

func TestCostSurvivesTuning(t *testing.T) {
	old := security.NewHasher(bcrypt.MinCost)

	hashed, err := old.Hash("pw123456")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	// A hasher constructed with a different cost still verifies old hashes
	// because the cost is embedded in the digest itself.
	tuned := security.NewHasher(bcrypt.MinCost + 1)

	if !tuned.Check("pw123456", hashed) {
		t.Fatal("hash minted at the old cost should verify after tuning")
	}
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	h := security.NewHasher(99)

	hashed, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("hash with fallback cost failed: %v", err)
	}

	if !h.Check("pw123456", hashed) {
		t.Fatal("fallback-cost hash should verify")
	}
}
