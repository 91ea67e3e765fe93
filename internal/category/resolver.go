package category

import (
	"context"
	"strings"

	"github.com/dvloznov/finbot/internal/logger"
)

// Confidence levels attached to resolver outcomes.
const (
	confidenceExact    = 1.0
	confidenceCoerced  = 0.8
	confidenceRejected = 0.5
	confidenceFallback = 0.1
)

// Config tunes the resolver chain.
type Config struct {
	// DictionaryThreshold is the minimum dictionary confidence that is
	// accepted without consulting the classifier.
	DictionaryThreshold float64
	// MaxExamples caps how many historical examples are passed to the
	// classifier.
	MaxExamples int
}

// DefaultConfig returns the resolver defaults.
func DefaultConfig() Config {
	return Config{
		DictionaryThreshold: 0.7,
		MaxExamples:         10,
	}
}

// Resolver runs the category fallback chain: learned cache, keyword
// dictionary, external classifier, sentinel. It never returns an error;
// every failure degrades to the sentinel category.
type Resolver struct {
	cache   Cache
	matcher Matcher
	gateway Gateway
	cfg     Config
}

// New builds a resolver with default configuration. gateway may be nil,
// in which case the chain stops after the dictionary stage.
func New(cache Cache, matcher Matcher, gateway Gateway) *Resolver {
	return NewWithConfig(cache, matcher, gateway, DefaultConfig())
}

func NewWithConfig(cache Cache, matcher Matcher, gateway Gateway, cfg Config) *Resolver {
	if cfg.DictionaryThreshold <= 0 {
		cfg.DictionaryThreshold = DefaultConfig().DictionaryThreshold
	}
	if cfg.MaxExamples <= 0 {
		cfg.MaxExamples = DefaultConfig().MaxExamples
	}
	return &Resolver{
		cache:   cache,
		matcher: matcher,
		gateway: gateway,
		cfg:     cfg,
	}
}

// Resolve maps a raw label onto one of the allowed categories. The
// sentinel category is always a valid answer even when absent from
// allowed. Cache reads and writes are best-effort: a failing cache
// degrades resolution quality, never availability.
func (r *Resolver) Resolve(ctx context.Context, label string, allowed []string, examples []Example) Resolution {
	log := logger.FromContext(ctx)

	normalized := Normalize(label)
	if normalized == "" {
		return Resolution{Category: Other, Confidence: confidenceFallback, Source: SourceFallback}
	}
	hash := Hash(normalized)

	if res, ok := r.fromCache(ctx, hash, allowed); ok {
		return res
	}

	if res, ok := r.fromDictionary(ctx, hash, normalized, allowed); ok {
		return res
	}

	res := r.fromClassifier(ctx, normalized, allowed, examples)
	if res.Source == SourceFallback {
		// Transient classifier failures must not pin the label to the
		// sentinel; leave the cache untouched and retry next time.
		return res
	}
	if err := r.cache.Upsert(ctx, CacheEntry{
		Hash:       hash,
		Label:      normalized,
		Category:   res.Category,
		Confidence: res.Confidence,
		UseCount:   1,
	}); err != nil {
		log.Warn().Err(err).Str("label", normalized).Msg("category cache write failed")
	}
	return res
}

// Correct pins the label to a user-chosen category. Subsequent Resolve
// calls for the same label return it from the cache with confidence 1.0.
func (r *Resolver) Correct(ctx context.Context, label, categoryName string) error {
	normalized := Normalize(label)
	return r.cache.Correct(ctx, Hash(normalized), normalized, categoryName)
}

func (r *Resolver) fromCache(ctx context.Context, hash string, allowed []string) (Resolution, bool) {
	log := logger.FromContext(ctx)

	entry, err := r.cache.Get(ctx, hash)
	if err != nil {
		log.Warn().Err(err).Msg("category cache read failed")
		return Resolution{}, false
	}
	if entry == nil {
		return Resolution{}, false
	}

	// A cached category that no longer exists in the taxonomy is stale;
	// drop it and let the chain re-resolve.
	canonical, ok := member(entry.Category, allowed)
	if !ok && entry.Category != Other {
		if err := r.cache.Evict(ctx, hash); err != nil {
			log.Warn().Err(err).Msg("category cache eviction failed")
		}
		return Resolution{}, false
	}
	if !ok {
		canonical = Other
	}

	if err := r.cache.Touch(ctx, hash); err != nil {
		log.Warn().Err(err).Msg("category cache touch failed")
	}
	return Resolution{Category: canonical, Confidence: entry.Confidence, Source: SourceCache}, true
}

func (r *Resolver) fromDictionary(ctx context.Context, hash, normalized string, allowed []string) (Resolution, bool) {
	log := logger.FromContext(ctx)

	cat, conf := r.matcher.Match(normalized)
	if conf < r.cfg.DictionaryThreshold {
		return Resolution{}, false
	}
	canonical, ok := member(cat, allowed)
	if !ok {
		return Resolution{}, false
	}

	if err := r.cache.Upsert(ctx, CacheEntry{
		Hash:       hash,
		Label:      normalized,
		Category:   canonical,
		Confidence: conf,
		UseCount:   1,
	}); err != nil {
		log.Warn().Err(err).Str("label", normalized).Msg("category cache write failed")
	}
	return Resolution{Category: canonical, Confidence: conf, Source: SourceDictionary}, true
}

func (r *Resolver) fromClassifier(ctx context.Context, normalized string, allowed []string, examples []Example) Resolution {
	log := logger.FromContext(ctx)

	if r.gateway == nil {
		return Resolution{Category: Other, Confidence: confidenceFallback, Source: SourceFallback}
	}
	if len(examples) > r.cfg.MaxExamples {
		examples = examples[:r.cfg.MaxExamples]
	}

	answer, err := r.gateway.Classify(ctx, normalized, allowed, examples)
	if err != nil {
		log.Warn().Err(err).Str("label", normalized).Msg("classifier call failed")
		return Resolution{Category: Other, Confidence: confidenceFallback, Source: SourceFallback}
	}
	answer = Normalize(answer)
	if answer == "" {
		return Resolution{Category: Other, Confidence: confidenceFallback, Source: SourceFallback}
	}

	if canonical, ok := member(answer, allowed); ok {
		return Resolution{Category: canonical, Confidence: confidenceExact, Source: SourceClassifier}
	}

	// The model sometimes pads the answer ("категория: кафе"); accept it
	// when exactly one allowed category is contained in the reply.
	if canonical, ok := coerce(answer, allowed); ok {
		return Resolution{Category: canonical, Confidence: confidenceCoerced, Source: SourceClassifier}
	}

	log.Debug().Str("label", normalized).Str("answer", answer).Msg("classifier answer outside taxonomy")
	return Resolution{Category: Other, Confidence: confidenceRejected, Source: SourceClassifier}
}

// member reports whether name is in allowed, comparing case-insensitively,
// and returns the canonical spelling. The sentinel category is always a
// member.
func member(name string, allowed []string) (string, bool) {
	needle := Normalize(name)
	for _, a := range allowed {
		if Normalize(a) == needle {
			return a, true
		}
	}
	if needle == Other {
		return Other, true
	}
	return "", false
}

func coerce(answer string, allowed []string) (string, bool) {
	found, count := "", 0
	for _, a := range allowed {
		na := Normalize(a)
		if na == "" {
			continue
		}
		if strings.Contains(answer, na) || strings.Contains(na, answer) {
			found = a
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return "", false
}
