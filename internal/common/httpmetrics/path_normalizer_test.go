package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/api/health", "/api/health"},
		{"/api/customers", "/api/customers"},
		{"/api/customers/90a1f2d4-1111-4222-8333-444455556666", "/api/customers/{id}"},
		{"/api/customers/12345", "/api/customers/{id}"},
		{"/api/customers/90a1f2d4-1111-4222-8333-444455556666/notes/7", "/api/customers/{id}/notes/{id}"},
	}

	for _, c := range cases {
		if got := NormalizePath(c.in); got != c.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
