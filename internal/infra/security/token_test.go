package security

import "testing"

func TestHashTokenDeterministic(t *testing.T) {
	first, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}

	if HashToken(first) != HashToken(first) {
		t.Fatal("same input produced different hashes")
	}

	second, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	if second == first {
		t.Fatal("two generated secrets collided")
	}
	if HashToken(first) == HashToken(second) {
		t.Fatal("distinct secrets produced identical hashes")
	}
}

func TestGenerateNumericCodeLength(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateNumericCode(6)
		if err != nil {
			t.Fatalf("GenerateNumericCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
	}
}

func TestFingerprintDevice(t *testing.T) {
	a := FingerprintDevice("Mozilla/5.0 (iPhone)", "203.0.113.7")
	b := FingerprintDevice("Mozilla/5.0 (iPhone)", "203.0.113.7")
	if a != b {
		t.Fatal("fingerprint not deterministic")
	}
	if len(a) != 16 {
		t.Fatalf("fingerprint length = %d, want 16", len(a))
	}
	if c := FingerprintDevice("Mozilla/5.0 (iPhone)", "203.0.113.8"); c == a {
		t.Fatal("different IPs produced identical fingerprints")
	}
}
