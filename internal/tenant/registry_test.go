package tenant

import (
	"errors"
	"testing"
)

const testSecret = "b08daaf0a631344a5a63dbb536bce0a71077b08a"

func newTestRegistry() *Registry {
	return NewRegistry(
		map[string]string{testSecret: "fishd.club"},
		map[string]string{"fishd.club": "© fishd.club"},
	)
}

func TestResolveSecret(t *testing.T) {
	r := newTestRegistry()

	domainName, err := r.ResolveSecret(testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if domainName != "fishd.club" {
		t.Errorf("resolved domain = %q, want fishd.club", domainName)
	}
}

func TestResolveSecretFormat(t *testing.T) {
	r := newTestRegistry()

	for _, secret := range []string{"", "short", testSecret + "00"} {
		if _, err := r.ResolveSecret(secret); !errors.Is(err, ErrSecretFormat) {
			t.Errorf("ResolveSecret(%q) = %v, want ErrSecretFormat", secret, err)
		}
	}
}

func TestResolveSecretUnknown(t *testing.T) {
	r := newTestRegistry()

	unknown := "ffffffffffffffffffffffffffffffffffffffff"
	if _, err := r.ResolveSecret(unknown); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("ResolveSecret(unknown) = %v, want ErrInvalidSecret", err)
	}
}

func TestIsKnownDomain(t *testing.T) {
	r := newTestRegistry()

	if !r.IsKnownDomain("fishd.club") {
		t.Error("fishd.club should be known")
	}
	if r.IsKnownDomain("otherdomain") {
		t.Error("otherdomain should not be known")
	}
}

func TestWatermark(t *testing.T) {
	r := newTestRegistry()

	if got := r.Watermark("fishd.club"); got != "© fishd.club" {
		t.Errorf("Watermark(fishd.club) = %q", got)
	}
	if got := r.Watermark("otherdomain"); got != "" {
		t.Errorf("Watermark(otherdomain) = %q, want empty", got)
	}
}
