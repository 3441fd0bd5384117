package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostIsInfinite(t *testing.T) {
	tests := []struct {
		caption string
		cost    Cost
		want    bool
	}{
		{caption: "zero is finite", cost: 0, want: false},
		{caption: "a large but ordinary cost is finite", cost: 1_000_000, want: false},
		{caption: "exactly the sentinel is infinite", cost: Infinite, want: true},
		{caption: "beyond the sentinel is infinite", cost: Infinite + 1, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cost.IsInfinite())
		})
	}
}

func TestAddCostSaturates(t *testing.T) {
	tests := []struct {
		caption string
		a, b    Cost
		want    Cost
	}{
		{caption: "ordinary sum", a: 2, b: 3, want: 5},
		{caption: "infinite plus finite saturates", a: Infinite, b: 1, want: Infinite},
		{caption: "finite plus infinite saturates", a: 1, b: Infinite, want: Infinite},
		{caption: "sum that would overflow into infinite saturates", a: Infinite - 1, b: Infinite - 1, want: Infinite},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got := AddCost(tt.a, tt.b)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsInfinite() == (tt.want == Infinite))
		})
	}
}
