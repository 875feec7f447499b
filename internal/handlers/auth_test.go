package handlers

import "testing"

func TestValidUsername(t *testing.T) {
	cases := []struct {
		username string
		want     bool
	}{
		{"grace", true},
		{"grace_hopper", true},
		{"Ada99", true},
		{"ab", false},
		{"", false},
		{"has space", false},
		{"dash-name", false},
		{"waytoolongusernamefield", false},
	}
	for _, tc := range cases {
		if got := validUsername(tc.username); got != tc.want {
			t.Errorf("validUsername(%q) = %v, want %v", tc.username, got, tc.want)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in clear")
	}
	if err := verifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("verifyPassword rejected the right password: %v", err)
	}
	if err := verifyPassword(hash, "wrong password"); err == nil {
		t.Fatal("verifyPassword accepted the wrong password")
	}
}

func TestNewOpaqueToken(t *testing.T) {
	a, b := newOpaqueToken(), newOpaqueToken()
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatal("two tokens should not collide")
	}
}
