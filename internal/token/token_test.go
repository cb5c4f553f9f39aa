package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/writeflow/authsvc/internal/token"
)

func newTestCodec() *token.Codec {
	return token.NewCodec("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	c := newTestCodec()

	for _, kind := range []token.Kind{token.KindAccess, token.KindRefresh} {
		raw, err := c.Issue("a@x.com", "Author", kind)
		if err != nil {
			t.Fatalf("issue %s: %v", kind, err)
		}

		claims, err := c.Decode(raw, kind)
		if err != nil {
			t.Fatalf("decode %s: %v", kind, err)
		}

		if claims.Subject != "a@x.com" {
			t.Fatalf("sub = %q, want a@x.com", claims.Subject)
		}
		if claims.Role != "Author" {
			t.Fatalf("role = %q, want Author", claims.Role)
		}
		if claims.TokenType != string(kind) {
			t.Fatalf("type = %q, want %q", claims.TokenType, kind)
		}
		if claims.IssuedAt == nil || claims.ExpiresAt == nil {
			t.Fatal("iat and exp must be present")
		}
		if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
			t.Fatal("exp must be after iat")
		}
	}
}

func TestDecodeRejectsKindMismatch(t *testing.T) {
	c := newTestCodec()

	access, err := c.Issue("a@x.com", "Author", token.KindAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Structurally valid, but presented as the other kind.
	if _, err := c.Decode(access, token.KindRefresh); !errors.Is(err, token.ErrInvalidToken) {
		t.Fatalf("access token presented as refresh: got %v, want ErrInvalidToken", err)
	}

	refresh, err := c.Issue("a@x.com", "Author", token.KindRefresh)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := c.Decode(refresh, token.KindAccess); !errors.Is(err, token.ErrInvalidToken) {
		t.Fatalf("refresh token presented as access: got %v, want ErrInvalidToken", err)
	}
}

func TestDecodeRejectsTypeMismatchWithSharedSecret(t *testing.T) {
	// Same secret for both kinds: the embedded type claim alone must still
	// keep the kinds apart.
	c := token.NewCodec("shared", "shared", 15*time.Minute, 24*time.Hour)

	access, err := c.Issue("a@x.com", "Editor", token.KindAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := c.Decode(access, token.KindRefresh); !errors.Is(err, token.ErrInvalidToken) {
		t.Fatalf("type check must reject despite valid signature, got %v", err)
	}
}

func TestDecodeRejectsExpired(t *testing.T) {
	expired := token.NewCodec("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	raw, err := expired.Issue("a@x.com", "Author", token.KindAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Signature is valid (same secret), the token is simply past exp.
	c := newTestCodec()
	if _, err := c.Decode(raw, token.KindAccess); !errors.Is(err, token.ErrInvalidToken) {
		t.Fatalf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	c := newTestCodec()
	other := token.NewCodec("other-access", "other-refresh", 15*time.Minute, 24*time.Hour)

	raw, err := other.Issue("a@x.com", "Author", token.KindAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := c.Decode(raw, token.KindAccess); !errors.Is(err, token.ErrInvalidToken) {
		t.Fatalf("foreign signature: got %v, want ErrInvalidToken", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c := newTestCodec()

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c.d", "eyJhbGciOiJub25lIn0..sig"} {
		if _, err := c.Decode(raw, token.KindAccess); !errors.Is(err, token.ErrInvalidToken) {
			t.Fatalf("garbage %q: got %v, want ErrInvalidToken", raw, err)
		}
	}
}
