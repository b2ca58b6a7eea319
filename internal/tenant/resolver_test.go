package tenant_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"warung-orders/internal/domain"
	"warung-orders/internal/tenant"

	"github.com/stretchr/testify/assert"
)

type countingLookup struct {
	tenants map[string]*domain.Tenant
	calls   int
}

func (l *countingLookup) TenantBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	l.calls++
	if t, ok := l.tenants[slug]; ok {
		return t, nil
	}
	return nil, tenant.ErrNotFound
}

type ttlEntry struct {
	value     string
	expiresAt time.Time
}

// ttlKV is an in-memory stand-in for redis with an adjustable clock.
type ttlKV struct {
	now     time.Time
	entries map[string]ttlEntry
}

func newTTLKV() *ttlKV {
	return &ttlKV{now: time.Now(), entries: map[string]ttlEntry{}}
}

func (kv *ttlKV) Get(_ context.Context, key string) (string, error) {
	entry, ok := kv.entries[key]
	if !ok || kv.now.After(entry.expiresAt) {
		return "", nil
	}
	return entry.value, nil
}

func (kv *ttlKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	kv.entries[key] = ttlEntry{value: value, expiresAt: kv.now.Add(ttl)}
	return nil
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "already clean", raw: "warung-sedap", want: "warung-sedap"},
		{name: "uppercased and padded", raw: "  Warung-Sedap  ", want: "warung-sedap"},
		{name: "hostile characters stripped", raw: "wa'; DROP TABLE--rung", want: "wadroptable--rung"},
		{name: "underscores kept", raw: "toko_12", want: "toko_12"},
		{name: "too short", raw: "a", wantErr: tenant.ErrInvalidSlug},
		{name: "nothing survives stripping", raw: "!!??", wantErr: tenant.ErrInvalidSlug},
		{name: "overlong input capped", raw: strings.Repeat("abcdefghij", 7), want: strings.Repeat("abcdefghij", 6) + "abc"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := tenant.SanitizeSlug(testCase.raw)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.LessOrEqual(t, len(got), 63)
		})
	}
}

func TestResolve_CacheHitSkipsLookup(t *testing.T) {
	ctx := context.Background()
	lookup := &countingLookup{tenants: map[string]*domain.Tenant{
		"warung-sedap": {ID: 7, Slug: "warung-sedap", Name: "Warung Sedap"},
	}}
	resolver := tenant.NewResolver(lookup, newTTLKV())

	first, err := resolver.Resolve(ctx, "Warung-Sedap")
	assert.NoError(t, err)
	assert.Equal(t, 7, first.ID)
	assert.Equal(t, 1, lookup.calls)

	second, err := resolver.Resolve(ctx, "warung-sedap")
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lookup.calls, "second resolve must be served from cache")
}

func TestResolve_ExpiredEntryTriggersFreshLookup(t *testing.T) {
	ctx := context.Background()
	lookup := &countingLookup{tenants: map[string]*domain.Tenant{
		"warung-sedap": {ID: 7, Slug: "warung-sedap"},
	}}
	kv := newTTLKV()
	resolver := tenant.NewResolver(lookup, kv)

	_, err := resolver.Resolve(ctx, "warung-sedap")
	assert.NoError(t, err)

	kv.now = kv.now.Add(tenant.TenantTTL + time.Second)

	_, err = resolver.Resolve(ctx, "warung-sedap")
	assert.NoError(t, err)
	assert.Equal(t, 2, lookup.calls)
}

func TestResolve_NotFoundIsDefinitive(t *testing.T) {
	ctx := context.Background()
	lookup := &countingLookup{tenants: map[string]*domain.Tenant{}}
	resolver := tenant.NewResolver(lookup, newTTLKV())

	got, err := resolver.Resolve(ctx, "ghost-warung")
	assert.ErrorIs(t, err, tenant.ErrNotFound)
	assert.Nil(t, got)
}

func TestResolve_InvalidSlugRejectedBeforeLookup(t *testing.T) {
	ctx := context.Background()
	lookup := &countingLookup{tenants: map[string]*domain.Tenant{}}
	resolver := tenant.NewResolver(lookup, newTTLKV())

	_, err := resolver.Resolve(ctx, "!")
	assert.ErrorIs(t, err, tenant.ErrInvalidSlug)
	assert.Equal(t, 0, lookup.calls)
}
