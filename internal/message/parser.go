// Package message implements the transaction-message grammar: a single
// free-text line carrying an amount, an optional sign, currency, date and
// mention, and a free-text label, in no fixed field order.
package message

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finbot/internal/currency"
)

// ErrNotTransaction is returned when the text contains no amount token
// and therefore is not a transaction message at all.
var ErrNotTransaction = errors.New("message: no amount token found")

// ParsedMessage is the structured form of one transaction line.
// Amount is always the absolute magnitude in the base currency; the sign
// is carried solely by IsExpense. OriginalAmount is set only when a
// non-base currency was detected, and holds the pre-conversion value.
type ParsedMessage struct {
	Amount         decimal.Decimal
	OriginalAmount *decimal.Decimal
	Currency       string
	IsExpense      bool
	Label          string
	Date           time.Time
	MentionedUser  string
}

// Parser extracts ParsedMessages from raw text lines.
type Parser struct {
	converter *currency.Converter
	now       func() time.Time
}

// NewParser creates a Parser that converts foreign amounts with converter.
func NewParser(converter *currency.Converter) *Parser {
	if converter == nil {
		converter = currency.Default()
	}
	return &Parser{
		converter: converter,
		now:       time.Now,
	}
}

// Parse tokenizes one line into a ParsedMessage. Extraction order is
// fixed: sign, amount, currency, mention, date; the remainder is the
// label. Each extraction consumes exactly one token, first occurrence
// only. Malformed currency and date tokens are left in the label rather
// than failing the parse; a missing amount fails with ErrNotTransaction.
func (p *Parser) Parse(raw string) (*ParsedMessage, error) {
	text := stripMarkers(raw)
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, ErrNotTransaction
	}

	msg := &ParsedMessage{
		Currency:  p.converter.Base(),
		IsExpense: true,
		Date:      p.now(),
	}

	// Sign prefix on the first token: "+" marks income, "-" is the
	// legacy strict-format expense marker. Either is consumed.
	switch {
	case strings.HasPrefix(tokens[0], "+"):
		msg.IsExpense = false
		tokens = stripSignPrefix(tokens, "+")
	case strings.HasPrefix(tokens[0], "-"):
		tokens = stripSignPrefix(tokens, "-")
	}

	// Amount: first token that is entirely numeric.
	amountIdx := -1
	for i, tok := range tokens {
		if isAmountToken(tok) {
			amountIdx = i
			break
		}
	}
	if amountIdx < 0 {
		return nil, ErrNotTransaction
	}
	amount, err := decimal.NewFromString(strings.Replace(tokens[amountIdx], ",", ".", 1))
	if err != nil {
		return nil, ErrNotTransaction
	}
	msg.Amount = amount
	tokens = append(tokens[:amountIdx], tokens[amountIdx+1:]...)

	// Currency: only the token immediately following the amount is
	// considered, so a 3-letter word later in the label is never
	// mistaken for a code.
	if amountIdx < len(tokens) {
		if code, ok := p.currencyCode(tokens[amountIdx]); ok {
			orig := msg.Amount
			msg.OriginalAmount = &orig
			msg.Currency = code
			msg.Amount, _ = p.converter.Convert(orig, code)
			tokens = append(tokens[:amountIdx], tokens[amountIdx+1:]...)
		}
	}

	// Mention: first @-prefixed token anywhere, sigil stripped. Later
	// occurrences stay in the label untouched.
	for i, tok := range tokens {
		if len(tok) > 1 && strings.HasPrefix(tok, "@") {
			msg.MentionedUser = strings.TrimPrefix(tok, "@")
			tokens = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}

	// Date: first token that resolves to a valid explicit or relative
	// date. Tokens that look date-shaped but do not resolve are left in
	// the label and the date stays "now".
	for i, tok := range tokens {
		if d, ok := ResolveDate(tok, p.now()); ok {
			msg.Date = d
			tokens = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}

	msg.Label = strings.Join(tokens, " ")
	return msg, nil
}

// stripMarkers trims whitespace and surrounding quote/code markers.
func stripMarkers(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		switch {
		case len(s) >= 2 && s[0] == s[len(s)-1] && (s[0] == '"' || s[0] == '\'' || s[0] == '`'):
			s = strings.TrimSpace(s[1 : len(s)-1])
		case strings.HasPrefix(s, "«") && strings.HasSuffix(s, "»") && len(s) > len("«»"):
			s = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, "«"), "»"))
		default:
			return s
		}
	}
}

// stripSignPrefix removes the sign character from the first token,
// dropping the token entirely when the sign stood alone.
func stripSignPrefix(tokens []string, sign string) []string {
	tokens[0] = strings.TrimPrefix(tokens[0], sign)
	if tokens[0] == "" {
		return tokens[1:]
	}
	return tokens
}

// isAmountToken reports whether tok is digits with at most one decimal
// separator (point or comma). Date-shaped tokens like "1.12.20" do not
// qualify.
func isAmountToken(tok string) bool {
	sep := 0
	digits := 0
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',':
			sep++
			if sep > 1 || digits == 0 {
				return false
			}
		default:
			return false
		}
	}
	if digits == 0 {
		return false
	}
	// A trailing separator ("100.") is not a valid amount.
	last := tok[len(tok)-1]
	return last != '.' && last != ','
}

// currencyCode reports whether tok is a known 3-letter currency code.
func (p *Parser) currencyCode(tok string) (string, bool) {
	if len(tok) != 3 {
		return "", false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return "", false
		}
	}
	code := strings.ToUpper(tok)
	if !p.converter.Known(code) {
		return "", false
	}
	return code, true
}
