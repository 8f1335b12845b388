package service

import "testing"

func Test_DeriveNameFromEmail(t *testing.T) {
	cases := []struct {
		email, want string
	}{
		{"jane.doe@x.com", "Jane Doe"},
		{"max_mustermann@example.de", "Max Mustermann"},
		{"anna-lena.mueller@firma.de", "Anna Lena Mueller"},
		{"info+bewerbung@firma.de", "Info Bewerbung"},
		{"MAX@EXAMPLE.DE", "Max"},
		{"not-an-email", ""},
		{"@x.com", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := DeriveNameFromEmail(c.email); got != c.want {
			t.Errorf("DeriveNameFromEmail(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}

func Test_FallbackName(t *testing.T) {
	if got := FallbackName("64f1c2aa99"); got != "Job #64f1c2" {
		t.Fatalf("got %q", got)
	}
	if got := FallbackName("ab"); got != "Job #ab" {
		t.Fatalf("short ids stay whole, got %q", got)
	}
}
