package user_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/writeflow/authsvc/internal/domain/user"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    user.Role
		wantErr bool
	}{
		{"Author", user.RoleAuthor, false},
		{"Editor", user.RoleEditor, false},
		{"Admin", user.RoleAdmin, false},
		{"author", "", true}, // case-sensitive
		{"admin", "", true},
		{"Superuser", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := user.ParseRole(tc.in)

		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRole(%q): expected error, got %q", tc.in, got)
			}
			continue
		}

		if err != nil {
			t.Fatalf("ParseRole(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []user.Role{user.RoleAuthor, user.RoleEditor, user.RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("role %q should be valid", r)
		}
	}
	if user.Role("Owner").Valid() {
		t.Fatal("unknown role should not be valid")
	}
}

func TestUserJSONNeverExposesHash(t *testing.T) {
	u := user.User{
		ID:             1,
		Email:          "a@x.com",
		HashedPassword: "$2a$10$secret-material",
		IsActive:       true,
		Role:           user.RoleAuthor,
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if strings.Contains(string(raw), "secret-material") {
		t.Fatalf("serialized user leaks password hash: %s", raw)
	}
}
