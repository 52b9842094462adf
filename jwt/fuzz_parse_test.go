package jwt

import (
	"testing"
	"time"
)

// FuzzParse exercises the parser with arbitrary token strings.
// Goal: no panics; invalid inputs must be rejected with errors.
func FuzzParse(f *testing.F) {
	mgr, err := NewManager(Config{
		TTL:        5 * time.Minute,
		PrivateKey: []byte("fuzz-shared-secret"),
		Issuer:     "fuzz-test",
		Leeway:     30 * time.Second,
	})
	if err != nil {
		f.Fatal(err)
	}

	validToken, err := mgr.Issue("u1", "a@b.com", "apprenant")
	if err != nil {
		f.Fatal(err)
	}

	f.Add(validToken)
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("eyJhbGciOiJIUzI1NiJ9.eyJpZCI6InUxIn0.invalid")
	f.Add("eyJhbGciOiJub25lIn0.eyJpZCI6InUxIn0.")

	f.Fuzz(func(t *testing.T, input string) {
		claims, err := mgr.Parse(input)
		if err != nil {
			return
		}
		if claims == nil {
			t.Fatal("Parse returned nil claims without error")
		}
	})
}
