// Package category maps free-text transaction labels onto a bounded
// per-user category taxonomy. Resolution runs a deterministic fallback
// chain — learned cache, keyword dictionary, external classifier — and
// degrades to the sentinel category instead of failing.
package category

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Other is the sentinel category: always valid, used when no resolution
// stage produces a confident in-vocabulary answer.
const Other = "другое"

// Source identifies which stage of the fallback chain produced a result.
type Source string

const (
	SourceCache      Source = "cache"
	SourceDictionary Source = "dictionary"
	SourceClassifier Source = "classifier"
	SourceFallback   Source = "fallback"
)

// Resolution is the outcome of resolving one label.
type Resolution struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Example is one (label → category) pair from the user's history, fed to
// the classifier as guidance.
type Example struct {
	Label    string
	Category string
}

// CacheEntry is one learned (label → category) association.
type CacheEntry struct {
	Hash       string
	Label      string
	Category   string
	Confidence float64
	UseCount   int
	Corrected  bool
	LastUsedAt time.Time
}

// Matcher resolves a normalized label against a keyword dictionary.
type Matcher interface {
	Match(normalizedLabel string) (category string, confidence float64)
}

// Cache is the persistent learned-association store, keyed by the hash of
// the normalized label. At most one entry exists per hash; Upsert must
// merge concurrent writers rather than duplicate, and must never
// downgrade an entry whose Corrected flag is set.
type Cache interface {
	// Get returns the entry for hash, or nil when absent.
	Get(ctx context.Context, hash string) (*CacheEntry, error)
	// Upsert inserts the entry or merges it into the existing row.
	Upsert(ctx context.Context, entry CacheEntry) error
	// Touch increments use_count and refreshes last_used_at.
	Touch(ctx context.Context, hash string) error
	// Evict removes the entry for hash if present.
	Evict(ctx context.Context, hash string) error
	// Correct pins hash to category with confidence 1.0 and the
	// corrected flag set, overwriting whatever was there.
	Correct(ctx context.Context, hash, label, categoryName string) error
}

// Gateway is the external classifier. It is an untrusted oracle: its
// output must be validated before use and its errors are a normal,
// non-fatal outcome.
type Gateway interface {
	Classify(ctx context.Context, label string, allowed []string, examples []Example) (string, error)
}

// Normalize lowercases and trims a label for matching and cache keying.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Hash returns the stable cache key for a normalized label.
func Hash(normalized string) string {
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
