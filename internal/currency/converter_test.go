package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestConvert_KnownCode(t *testing.T) {
	c := NewConverter("RUB", map[string]string{"USD": "90", "EUR": "100"})

	got, converted := c.Convert(dec("10"), "USD")
	assert.True(t, converted)
	assert.True(t, got.Equal(dec("900")), "got %s", got)

	got, converted = c.Convert(dec("1.5"), "eur")
	assert.True(t, converted)
	assert.True(t, got.Equal(dec("150")), "got %s", got)
}

func TestConvert_BaseIsNoop(t *testing.T) {
	c := NewConverter("RUB", map[string]string{"USD": "90"})

	got, converted := c.Convert(dec("500"), "RUB")
	assert.False(t, converted)
	assert.True(t, got.Equal(dec("500")))
}

func TestConvert_UnknownCodePassesThrough(t *testing.T) {
	c := NewConverter("RUB", map[string]string{"USD": "90"})

	got, converted := c.Convert(dec("42"), "XYZ")
	assert.False(t, converted)
	assert.True(t, got.Equal(dec("42")))
}

func TestKnown(t *testing.T) {
	c := NewConverter("RUB", map[string]string{"USD": "90"})

	assert.True(t, c.Known("USD"))
	assert.True(t, c.Known("usd"))
	assert.True(t, c.Known("RUB"), "base code is always known")
	assert.False(t, c.Known("XYZ"))
}

func TestNewConverter_SkipsMalformedRates(t *testing.T) {
	c := NewConverter("RUB", map[string]string{
		"USD": "90",
		"BAD": "not-a-number",
		"NEG": "-5",
	})

	assert.True(t, c.Known("USD"))
	assert.False(t, c.Known("BAD"))
	assert.False(t, c.Known("NEG"))
}

func TestNewConverter_DefaultsBase(t *testing.T) {
	c := NewConverter("", nil)
	assert.Equal(t, DefaultBase, c.Base())
}

func TestDefault(t *testing.T) {
	c := Default()
	require.True(t, c.Known("USD"))
	require.True(t, c.Known("EUR"))

	got, converted := c.Convert(dec("1000"), "EUR")
	assert.True(t, converted)
	assert.True(t, got.Equal(dec("100000")), "got %s", got)
}
