package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDictionaryMatcher_Exact(t *testing.T) {
	m := NewDictionaryMatcher(DefaultKeywords())

	cat, conf := m.Match("кофе")
	assert.Equal(t, "кафе", cat)
	assert.Equal(t, 1.0, conf)

	cat, conf = m.Match("такси")
	assert.Equal(t, "такси", cat)
	assert.Equal(t, 1.0, conf)
}

func TestDictionaryMatcher_Substring(t *testing.T) {
	m := NewDictionaryMatcher(DefaultKeywords())

	// Label contains a keyword.
	cat, conf := m.Match("кофе с собой")
	assert.Equal(t, "кафе", cat)
	assert.Equal(t, 0.9, conf)

	// Label is contained in a keyword.
	cat, conf = m.Match("старбакс сити")
	assert.Equal(t, "кафе", cat)
	assert.Equal(t, 0.9, conf)
}

func TestDictionaryMatcher_Fuzzy(t *testing.T) {
	m := NewDictionaryMatcher(DefaultKeywords())

	cat, conf := m.Match("кофи")
	assert.Equal(t, "кафе", cat)
	assert.Equal(t, 0.8, conf)
}

func TestDictionaryMatcher_NoMatch(t *testing.T) {
	m := NewDictionaryMatcher(DefaultKeywords())

	cat, conf := m.Match("qwertyuiop")
	assert.Empty(t, cat)
	assert.Zero(t, conf)
}

func TestDictionaryMatcher_EmptyLabel(t *testing.T) {
	m := NewDictionaryMatcher(DefaultKeywords())

	cat, conf := m.Match("")
	assert.Empty(t, cat)
	assert.Zero(t, conf)
}

func TestDictionaryMatcher_ExactBeatsSubstring(t *testing.T) {
	m := NewDictionaryMatcher(map[string]string{
		"кофе":   "кафе",
		"кофеин": "кафе",
	})

	_, conf := m.Match("кофе")
	assert.Equal(t, 1.0, conf, "an exact hit is never demoted to a substring hit")
}

func TestDictionaryMatcher_NormalizesKeywords(t *testing.T) {
	m := NewDictionaryMatcher(map[string]string{"  Кофе  ": "кафе"})

	cat, conf := m.Match("кофе")
	assert.Equal(t, "кафе", cat)
	assert.Equal(t, 1.0, conf)
}
