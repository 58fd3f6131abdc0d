package console

import (
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "empty", line: "   ", want: nil},
		{name: "words", line: "add 4.50 Groceries 2024-03-01 milk", want: []string{"add", "4.50", "Groceries", "2024-03-01", "milk"}},
		{name: "double quotes", line: `add 3 "Day Trip" 2024-03-01 bus`, want: []string{"add", "3", "Day Trip", "2024-03-01", "bus"}},
		{name: "single quotes", line: `total 'All Categories'`, want: []string{"total", "All Categories"}},
		{name: "escaped space", line: `a\ b c`, want: []string{"a b", "c"}},
		{name: "empty quoted arg", line: `x ""`, want: []string{"x", ""}},
		{name: "tabs", line: "list\t\t", want: []string{"list"}},
		{name: "unterminated", line: `add "oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
