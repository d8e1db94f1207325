// Package tenant holds the static secret→domain table. The table is built
// once at startup and never mutated afterwards, so lookups need no locking.
package tenant

import "errors"

// SecretLength is the required secret size: 40 hex characters, SHA-1 shaped.
// The value is matched verbatim against the table, never verified as a hash.
const SecretLength = 40

var (
	ErrSecretFormat  = errors.New("secret key is in wrong format (should be sha1)")
	ErrInvalidSecret = errors.New("secret key is invalid")
)

type Registry struct {
	secrets    map[string]string
	domains    map[string]struct{}
	watermarks map[string]string
}

// NewRegistry builds a registry from the configured secret→domain table and
// optional per-domain watermark texts. Both maps are copied.
func NewRegistry(secrets map[string]string, watermarks map[string]string) *Registry {
	r := &Registry{
		secrets:    make(map[string]string, len(secrets)),
		domains:    make(map[string]struct{}, len(secrets)),
		watermarks: make(map[string]string, len(watermarks)),
	}
	for secret, domainName := range secrets {
		r.secrets[secret] = domainName
		r.domains[domainName] = struct{}{}
	}
	for domainName, text := range watermarks {
		r.watermarks[domainName] = text
	}
	return r
}

// ResolveSecret maps a secret to its domain. Format problems and unknown
// secrets are distinct failures.
func (r *Registry) ResolveSecret(secret string) (string, error) {
	if len(secret) != SecretLength {
		return "", ErrSecretFormat
	}
	domainName, ok := r.secrets[secret]
	if !ok {
		return "", ErrInvalidSecret
	}
	return domainName, nil
}

func (r *Registry) IsKnownDomain(domainName string) bool {
	_, ok := r.domains[domainName]
	return ok
}

// Watermark returns the configured watermark text for a domain, or "" when
// the domain does not stamp its uploads.
func (r *Registry) Watermark(domainName string) string {
	return r.watermarks[domainName]
}
