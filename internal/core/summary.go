package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the total of a filter plus its split by category.
type Summary struct {
	Filter     Filter
	Count      int
	Total      decimal.Decimal
	ByCategory []CategoryAmount // order of first appearance
}

// Sum adds up the amounts of every record selected by f, in order.
func Sum(items []Expense, f Filter) decimal.Decimal {
	total := decimal.Zero
	for _, e := range items {
		if f.Matches(e) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Summarize builds a Summary over items.
func Summarize(items []Expense, f Filter) Summary {
	f = f.Normalize()
	s := Summary{Filter: f, Total: decimal.Zero}
	idx := map[string]int{}
	for _, e := range items {
		if !f.Matches(e) {
			continue
		}
		s.Count++
		s.Total = s.Total.Add(e.Amount)
		i, ok := idx[e.Category]
		if !ok {
			i = len(s.ByCategory)
			idx[e.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: e.Category, Amount: decimal.Zero})
		}
		s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(e.Amount)
	}
	return s
}
