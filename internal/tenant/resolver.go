package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"warung-orders/internal/domain"
)

var (
	ErrInvalidSlug = errors.New("invalid tenant identifier")
	ErrNotFound    = errors.New("tenant not found")
)

const (
	// TenantTTL bounds how long a resolved identity is served without a
	// fresh lookup; MenuTTL does the same for derived menu listings.
	TenantTTL = 10 * time.Minute
	MenuTTL   = 5 * time.Minute

	cachePrefix = "warung:tenant:"
	minSlugLen  = 2
	maxSlugLen  = 63
)

// Lookup is the backing store for tenant records. Implementations return
// ErrNotFound when no record matches the slug.
type Lookup interface {
	TenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// KV is the cache surface; entries expire after the given TTL.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// SanitizeSlug lower-cases the identifier, strips everything outside
// [a-z0-9-_], caps the length and rejects anything too short to be a real
// slug. Malformed input never reaches the backing store.
func SanitizeSlug(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
		if b.Len() == maxSlugLen {
			break
		}
	}
	slug := b.String()
	if len(slug) < minSlugLen {
		return "", ErrInvalidSlug
	}
	return slug, nil
}

// Resolver maps a URL identifier to a tenant identity through a TTL cache.
type Resolver struct {
	lookup Lookup
	cache  KV
}

func NewResolver(lookup Lookup, cache KV) *Resolver {
	return &Resolver{lookup: lookup, cache: cache}
}

// Resolve sanitizes the identifier and returns the matching tenant. A cache
// hit within the TTL skips the backing lookup entirely; not-found is
// definitive and never replaced by a stale or default tenant.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*domain.Tenant, error) {
	slug, err := SanitizeSlug(raw)
	if err != nil {
		return nil, err
	}

	key := cachePrefix + slug
	if cached, err := r.cache.Get(ctx, key); err == nil && cached != "" {
		var t domain.Tenant
		if err := json.Unmarshal([]byte(cached), &t); err == nil {
			return &t, nil
		}
	}

	t, err := r.lookup.TenantBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(t); err == nil {
		_ = r.cache.Set(ctx, key, string(payload), TenantTTL)
	}
	return t, nil
}
