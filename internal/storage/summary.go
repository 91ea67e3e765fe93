package storage

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one line of a summary report.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	// Percent is the share of this category in the expense total. Zero
	// for income lines.
	Percent float64 `json:"percent,omitempty"`
}

// Summary aggregates a period's transactions: expenses and income broken
// down by category, plus the balance.
type Summary struct {
	Expenses     []CategoryTotal `json:"expenses"`
	Income       []CategoryTotal `json:"income"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	Balance      decimal.Decimal `json:"balance"`
}

// BuildSummary aggregates transactions into per-category totals. Lines
// are sorted by descending total; expense lines carry their share of the
// overall spend.
func BuildSummary(txs []Transaction) Summary {
	expenses := make(map[string]*CategoryTotal)
	income := make(map[string]*CategoryTotal)

	s := Summary{}
	for _, tx := range txs {
		byCat := income
		if tx.IsExpense {
			byCat = expenses
			s.ExpenseTotal = s.ExpenseTotal.Add(tx.Amount)
		} else {
			s.IncomeTotal = s.IncomeTotal.Add(tx.Amount)
		}
		line, ok := byCat[tx.Category]
		if !ok {
			line = &CategoryTotal{Category: tx.Category}
			byCat[tx.Category] = line
		}
		line.Total = line.Total.Add(tx.Amount)
		line.Count++
	}
	s.Balance = s.IncomeTotal.Sub(s.ExpenseTotal)

	s.Expenses = sortTotals(expenses)
	s.Income = sortTotals(income)

	if s.ExpenseTotal.IsPositive() {
		for i := range s.Expenses {
			share, _ := s.Expenses[i].Total.Div(s.ExpenseTotal).Mul(decimal.NewFromInt(100)).Float64()
			s.Expenses[i].Percent = share
		}
	}
	return s
}

func sortTotals(byCat map[string]*CategoryTotal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(byCat))
	for _, line := range byCat {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
