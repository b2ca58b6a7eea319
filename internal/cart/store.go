package cart

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"

	"warung-orders/internal/domain"
	"warung-orders/internal/pricing"
)

// KV is the durable key-value surface the cart persists to. Get returns an
// empty string for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

const keyPrefix = "warung:cart:"

// LineKey is the full identity of a cart line: the menu item plus the
// fingerprint of its customizations. Add, update and remove all operate on
// this key; removing every variant of an item is a separate explicit call.
type LineKey struct {
	MenuItemID  int
	Fingerprint string
}

// Fingerprint canonicalizes selections + note into a stable string, so two
// lines with the same effective customizations always collide.
func Fingerprint(selections map[int][]int, note string) string {
	optionIDs := make([]int, 0, len(selections))
	for optionID, itemIDs := range selections {
		if len(itemIDs) > 0 {
			optionIDs = append(optionIDs, optionID)
		}
	}
	sort.Ints(optionIDs)

	var b strings.Builder
	for i, optionID := range optionIDs {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Itoa(optionID))
		b.WriteByte(':')
		itemIDs := make([]int, len(selections[optionID]))
		copy(itemIDs, selections[optionID])
		sort.Ints(itemIDs)
		for j, itemID := range itemIDs {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(itemID))
		}
	}
	if note != "" {
		b.WriteByte('#')
		b.WriteString(note)
	}
	return b.String()
}

// Sessions hands out carts one caller at a time. Each session has its own
// lock, and With hydrates the cart only after acquiring it, so two
// overlapping requests for the same session never race their
// read-modify-write cycles and neither mutation is lost.
type Sessions struct {
	kv    KV
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessions(kv KV) *Sessions {
	return &Sessions{kv: kv, locks: make(map[string]*sync.Mutex)}
}

func (s *Sessions) lock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// With runs fn against a freshly hydrated cart while holding the session's
// lock. Everything that reads and then mutates a cart must go through here.
func (s *Sessions) With(ctx context.Context, sessionID string, fn func(*Store) error) error {
	l := s.lock(sessionID)
	l.Lock()
	defer l.Unlock()
	return fn(NewStore(ctx, s.kv, sessionID))
}

// Store is the ordered collection of lines a customer has committed to buy.
// Every mutation rewrites the whole cart to the KV store before returning,
// so a reload always observes the last applied mutation. The instance mutex
// only guards this copy; cross-request serialization for a session is the
// job of Sessions.With, which holds the session lock around hydration and
// mutation alike.
type Store struct {
	mu    sync.Mutex
	kv    KV
	key   string
	lines []domain.CartLine
}

// NewStore hydrates the cart for a session. A missing or corrupt payload is
// non-fatal and yields an empty cart.
func NewStore(ctx context.Context, kv KV, sessionID string) *Store {
	s := &Store{kv: kv, key: keyPrefix + sessionID}

	raw, err := kv.Get(ctx, s.key)
	if err != nil || raw == "" {
		return s
	}
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return s
	}
	s.lines = lines
	return s
}

func lineKey(line domain.CartLine) LineKey {
	return LineKey{MenuItemID: line.MenuItemID, Fingerprint: Fingerprint(line.Selections, line.Note)}
}

// AddLine merges into an existing line with the same identity, incrementing
// its quantity and keeping its original price fields; otherwise it appends.
func (s *Store) AddLine(ctx context.Context, line domain.CartLine) error {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey(line)
	for i := range s.lines {
		if lineKey(s.lines[i]) == key {
			s.lines[i].Quantity += line.Quantity
			return s.persist(ctx)
		}
	}
	s.lines = append(s.lines, line)
	return s.persist(ctx)
}

// UpdateQuantity sets a line's quantity directly; zero or below removes it.
func (s *Store) UpdateQuantity(ctx context.Context, key LineKey, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		return s.removeLocked(ctx, key)
	}
	for i := range s.lines {
		if lineKey(s.lines[i]) == key {
			s.lines[i].Quantity = qty
			return s.persist(ctx)
		}
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key LineKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, key)
}

func (s *Store) removeLocked(ctx context.Context, key LineKey) error {
	for i := range s.lines {
		if lineKey(s.lines[i]) == key {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// RemoveAllVariants drops every line for a menu item regardless of
// customization.
func (s *Store) RemoveAllVariants(ctx context.Context, menuItemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	removed := false
	for _, line := range s.lines {
		if line.MenuItemID == menuItemID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	s.lines = kept
	if !removed {
		return nil
	}
	return s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	return s.persist(ctx)
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Totals derives item count and amount from the lines; they are never
// stored independently.
func (s *Store) Totals() (int, domain.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.CartTotals(s.lines)
}

func (s *Store) persist(ctx context.Context) error {
	payload, err := json.Marshal(s.lines)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(payload))
}
