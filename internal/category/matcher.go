package category

import (
	"sort"
	"strings"
)

// Dictionary match confidences, highest stage first. An exact hit is
// never overridden by a lower stage.
const (
	exactConfidence     = 1.0
	substringConfidence = 0.9
	fuzzyConfidence     = 0.8

	// fuzzyCutoff is the minimum similarity ratio for a fuzzy hit.
	fuzzyCutoff = 0.7
)

// DictionaryMatcher maps labels to categories via a curated many-to-one
// keyword table. The table is data: it can be extended or replaced
// without touching the matching algorithm.
type DictionaryMatcher struct {
	keywords map[string]string
	ordered  []string
}

// NewDictionaryMatcher builds a matcher over the given keyword → category
// table. Keywords are normalized; iteration order is fixed by sorting so
// results are deterministic.
func NewDictionaryMatcher(keywords map[string]string) *DictionaryMatcher {
	m := &DictionaryMatcher{
		keywords: make(map[string]string, len(keywords)),
		ordered:  make([]string, 0, len(keywords)),
	}
	for kw, cat := range keywords {
		kw = Normalize(kw)
		if kw == "" || cat == "" {
			continue
		}
		if _, exists := m.keywords[kw]; !exists {
			m.ordered = append(m.ordered, kw)
		}
		m.keywords[kw] = cat
	}
	sort.Strings(m.ordered)
	return m
}

// Match resolves a normalized label. Stages, first hit wins: exact
// equality, containment in either direction, fuzzy nearest neighbor with
// a similarity cutoff. Returns ("", 0) when nothing matches.
func (m *DictionaryMatcher) Match(normalizedLabel string) (string, float64) {
	if normalizedLabel == "" {
		return "", 0
	}

	if cat, ok := m.keywords[normalizedLabel]; ok {
		return cat, exactConfidence
	}

	for _, kw := range m.ordered {
		if strings.Contains(normalizedLabel, kw) || strings.Contains(kw, normalizedLabel) {
			return m.keywords[kw], substringConfidence
		}
	}

	bestKw, bestRatio := "", 0.0
	for _, kw := range m.ordered {
		if r := Ratio(normalizedLabel, kw); r > bestRatio {
			bestKw, bestRatio = kw, r
		}
	}
	if bestRatio >= fuzzyCutoff {
		return m.keywords[bestKw], fuzzyConfidence
	}

	return "", 0
}
