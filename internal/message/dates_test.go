package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 45, 0, 0, time.UTC)

	tests := []struct {
		token  string
		want   time.Time
		wantOK bool
	}{
		{"2023-09-05", time.Date(2023, 9, 5, 0, 0, 0, 0, time.UTC), true},
		{"15.06.2023", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"26.12.2024", time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC), true},
		{"1.12.20", time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC), true},
		{"1-12-20", time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC), true},
		{"вчера", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"ВЧЕРА", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"позавчера", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), true},
		// Not dates.
		{"32.13.2023", time.Time{}, false},
		{"0.0.2023", time.Time{}, false},
		{"29.02.2023", time.Time{}, false},
		{"1.12-20", time.Time{}, false},
		{"1.1.202", time.Time{}, false},
		{"2023-99-05", time.Time{}, false},
		{"сегодня-не-дата", time.Time{}, false},
		{"кафе", time.Time{}, false},
		{"123.45", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ResolveDate(tt.token, now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveDate_LeapDay(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got, ok := ResolveDate("29.02.2024", now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)
}

func TestResolveDate_RelativeCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	got, ok := ResolveDate("вчера", now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)
}
