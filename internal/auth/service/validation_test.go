package service

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com  ", "bob@example.com"},
		{"carol@example.com", "carol@example.com"},
	}

	for _, c := range cases {
		if got := NormalizeEmail(c.in); got != c.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateRegistration_PasswordRules(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "Passw0rd", true},
		{"too short", "Pw0", false},
		{"no uppercase", "passw0rd", false},
		{"no lowercase", "PASSW0RD", false},
		{"no digit", "Password", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fields := validateRegistration("alice@example.com", c.password)
			if c.valid && len(fields) > 0 {
				t.Errorf("expected %q to be accepted, got %+v", c.password, fields)
			}
			if !c.valid && len(fields) == 0 {
				t.Errorf("expected %q to be rejected", c.password)
			}
		})
	}
}

func TestValidateRegistration_Email(t *testing.T) {
	invalid := []string{"", "plain", "missing@domain", "@nodomain.com", "spaces in@example.com"}
	for _, email := range invalid {
		if fields := validateRegistration(email, "Passw0rd"); len(fields) == 0 {
			t.Errorf("expected %q to be rejected", email)
		}
	}

	if fields := validateRegistration("alice@example.com", "Passw0rd"); len(fields) != 0 {
		t.Errorf("expected valid input to pass, got %+v", fields)
	}
}

func TestValidateLogin(t *testing.T) {
	if fields := validateLogin("alice@example.com", "anything"); len(fields) != 0 {
		t.Errorf("expected valid input to pass, got %+v", fields)
	}
	if fields := validateLogin("alice@example.com", ""); len(fields) == 0 {
		t.Error("expected missing password to be rejected")
	}
	if fields := validateLogin("bad-email", "anything"); len(fields) == 0 {
		t.Error("expected invalid email to be rejected")
	}
}
