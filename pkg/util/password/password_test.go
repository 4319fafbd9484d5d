package password

import (
	"errors"
	"strings"
	"testing"
)

// fast keeps the suite quick; production params come from config.
var fast = Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHasherHashAndVerify(t *testing.T) {
	h := NewHasher(fast)

	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash() format invalid, got %s", hash)
	}
	if !strings.Contains(hash, "m=8192,t=1,p=1") {
		t.Errorf("Hash() params not encoded: %s", hash)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"correct password", hash, "password123", nil},
		{"wrong password", hash, "password124", ErrMismatch},
		{"empty password", hash, "", ErrMismatch},
		{"empty hash", "", "password123", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g", "x", ErrInvalidHash},
		{"malformed params", "$argon2id$v=19$invalid$c29tZXNhbHQ$c29tZWhhc2g", "x", ErrInvalidHash},
		{"future version", "$argon2id$v=20$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g", "x", ErrIncompatibleVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Verify(tt.hash, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashUniqueness(t *testing.T) {
	h := NewHasher(fast)

	hash1, _ := h.Hash("samepassword")
	hash2, _ := h.Hash("samepassword")

	if hash1 == hash2 {
		t.Error("Hash() should salt each call")
	}
	if !Match(hash1, "samepassword") || !Match(hash2, "samepassword") {
		t.Error("both hashes should verify")
	}
}

func TestNewHasherFillsDefaults(t *testing.T) {
	h := NewHasher(Params{Iterations: 1})
	d := DefaultParams()

	if h.params.Memory != d.Memory || h.params.KeyLength != d.KeyLength || h.params.SaltLength != d.SaltLength {
		t.Errorf("NewHasher() params = %+v, want defaults except iterations", *h.params)
	}
	if h.params.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", h.params.Iterations)
	}
}

func TestHasherNeedsRehash(t *testing.T) {
	h := NewHasher(fast)
	current, _ := h.Hash("pw")

	older := fast
	older.Iterations = 2
	stale, _ := HashWithParams("pw", &older)

	tests := []struct {
		name string
		hash string
		want bool
	}{
		{"current params", current, false},
		{"different iterations", stale, true},
		{"garbage", "nope", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.NeedsRehash(tt.hash); got != tt.want {
				t.Errorf("NeedsRehash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkHash(b *testing.B) {
	h := NewHasher(Params{})
	for i := 0; i < b.N; i++ {
		_, _ = h.Hash("benchmarkpassword")
	}
}
