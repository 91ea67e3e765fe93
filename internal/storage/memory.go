package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dvloznov/finbot/internal/category"
)

// Memory is an in-process store for the CLI and tests. It mirrors the
// SQL store's semantics, including the cache merge rules.
type Memory struct {
	mu           sync.Mutex
	transactions []Transaction
	categories   map[string][]Category
	cache        memoryCache
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty store seeded with the default taxonomy.
func NewMemory() *Memory {
	return &Memory{
		categories: map[string][]Category{"": DefaultCategories()},
		cache:      memoryCache{entries: make(map[string]category.CacheEntry)},
	}
}

func (m *Memory) CreateTransaction(_ context.Context, tx *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	m.transactions = append(m.transactions, *tx)
	return nil
}

func (m *Memory) ListRecent(_ context.Context, userID string, limit int) ([]Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Transaction
	for _, tx := range m.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ListSince(_ context.Context, userID string, since time.Time) ([]Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Transaction
	for _, tx := range m.transactions {
		if tx.UserID == userID && !tx.Date.Before(since) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (m *Memory) DeleteLast(_ context.Context, userID string) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lastIdx := -1
	for i, tx := range m.transactions {
		if tx.UserID != userID {
			continue
		}
		if lastIdx == -1 || tx.CreatedAt.After(m.transactions[lastIdx].CreatedAt) {
			lastIdx = i
		}
	}
	if lastIdx == -1 {
		return nil, ErrNoTransactions
	}
	deleted := m.transactions[lastIdx]
	m.transactions = append(m.transactions[:lastIdx], m.transactions[lastIdx+1:]...)
	return &deleted, nil
}

func (m *Memory) AllowedCategories(_ context.Context, userID string) ([]Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cats := m.categories[userID]; len(cats) > 0 {
		return append([]Category(nil), cats...), nil
	}
	return append([]Category(nil), m.categories[""]...), nil
}

func (m *Memory) RecentExamples(_ context.Context, userID string, limit int) ([]category.Example, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var own []Transaction
	for _, tx := range m.transactions {
		if tx.UserID == userID && tx.Label != "" {
			own = append(own, tx)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].CreatedAt.After(own[j].CreatedAt)
	})
	if limit > 0 && len(own) > limit {
		own = own[:limit]
	}
	out := make([]category.Example, 0, len(own))
	for _, tx := range own {
		out = append(out, category.Example{Label: tx.Label, Category: tx.Category})
	}
	return out, nil
}

func (m *Memory) Cache() category.Cache {
	return &m.cache
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]category.CacheEntry
}

var _ category.Cache = (*memoryCache)(nil)

func (c *memoryCache) Get(_ context.Context, hash string) (*category.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[hash]; ok {
		return &e, nil
	}
	return nil, nil
}

func (c *memoryCache) Upsert(_ context.Context, entry category.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.entries[entry.Hash]
	if !ok {
		entry.LastUsedAt = time.Now()
		c.entries[entry.Hash] = entry
		return nil
	}
	if existing.Corrected {
		return nil
	}
	existing.Category = entry.Category
	existing.Confidence = entry.Confidence
	existing.UseCount += entry.UseCount
	existing.LastUsedAt = time.Now()
	c.entries[entry.Hash] = existing
	return nil
}

func (c *memoryCache) Touch(_ context.Context, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[hash]; ok {
		e.UseCount++
		e.LastUsedAt = time.Now()
		c.entries[hash] = e
	}
	return nil
}

func (c *memoryCache) Evict(_ context.Context, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, hash)
	return nil
}

func (c *memoryCache) Correct(_ context.Context, hash, label, categoryName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entries[hash]
	entry.Hash = hash
	entry.Label = label
	entry.Category = categoryName
	entry.Confidence = 1.0
	entry.Corrected = true
	entry.LastUsedAt = time.Now()
	if entry.UseCount == 0 {
		entry.UseCount = 1
	}
	c.entries[hash] = entry
	return nil
}
