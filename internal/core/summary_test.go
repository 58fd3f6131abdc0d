package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func sample() []Expense {
	return []Expense{
		{Description: "apples", Amount: decimal.RequireFromString("10.0"), Category: Groceries, Date: NewDate(2024, 3, 1)},
		{Description: "misc", Amount: decimal.RequireFromString("5.0"), Category: Other, Date: NewDate(2024, 3, 2)},
		{Description: "bread", Amount: decimal.RequireFromString("2.25"), Category: Groceries, Date: NewDate(2024, 3, 2)},
	}
}

func TestSum(t *testing.T) {
	items := sample()
	cases := []struct {
		f    Filter
		want string
	}{
		{Filter{}, "17.25"},
		{Filter{Category: Groceries}, "12.25"},
		{Filter{Category: Other}, "5"},
		{Filter{Category: Entertainment}, "0"},
		{Filter{Date: NewDate(2024, 3, 2)}, "7.25"},
		{Filter{Category: Groceries, Date: NewDate(2024, 3, 2)}, "2.25"},
	}
	for _, tc := range cases {
		if got := Sum(items, tc.f); !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("Sum(%+v) = %s, want %s", tc.f, got, tc.want)
		}
	}
	if got := Sum(nil, Filter{}); !got.IsZero() {
		t.Fatalf("empty sum = %s", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample(), Filter{})
	if s.Count != 3 || !s.Total.Equal(decimal.RequireFromString("17.25")) {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if len(s.ByCategory) != 2 || s.ByCategory[0].Name != Groceries || s.ByCategory[1].Name != Other {
		t.Fatalf("unexpected categories: %+v", s.ByCategory)
	}
	if !s.ByCategory[0].Amount.Equal(decimal.RequireFromString("12.25")) {
		t.Fatalf("groceries = %s", s.ByCategory[0].Amount)
	}
	if s.Filter.Category != AllCategories {
		t.Fatalf("filter not normalised: %+v", s.Filter)
	}
}
