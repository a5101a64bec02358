package crypto

import (
	"strings"
	"testing"
)

// testHasher keeps argon2 cheap enough for unit tests.
func testHasher() Hasher {
	h := NewHasher()
	h.Memory = 8 * 1024
	h.Iterations = 1
	return h
}

func TestHash(t *testing.T) {
	hash, err := NewHasher().Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerify(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("my-secure-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{name: "correct", secret: "my-secure-password", want: true},
		{name: "wrong", secret: "wrong-password", want: false},
		{name: "empty", secret: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := h.Verify(tt.secret, hash)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if match != tt.want {
				t.Errorf("Verify() = %v, want %v", match, tt.want)
			}
		})
	}
}

func TestVerifyUsesStoredParams(t *testing.T) {
	hash, err := testHasher().Hash("pw")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	match, err := NewHasher().Verify("pw", hash)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if !match {
		t.Error("Verify() with different receiver params should still match")
	}
}

func TestHashSalted(t *testing.T) {
	h := testHasher()
	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same secret (salt should differ)")
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{name: "garbage", encoded: "invalid-hash-format", wantErr: ErrInvalidHashFormat},
		{name: "wrong algorithm", encoded: "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$a2V5", wantErr: ErrInvalidHashFormat},
		{name: "wrong version", encoded: "$argon2id$v=16$m=1,t=1,p=1$c2FsdA$a2V5", wantErr: ErrIncompatibleVersion},
		{name: "bad params", encoded: "$argon2id$v=19$m=x$c2FsdA$a2V5", wantErr: ErrInvalidHashFormat},
		{name: "bad salt", encoded: "$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5", wantErr: ErrInvalidHashFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testHasher().Verify("password", tt.encoded)
			if err != tt.wantErr {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
