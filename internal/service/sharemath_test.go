package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitShares(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		n      int
		want   []float64
	}{
		{"even split", 90.00, 2, []float64{45.00, 45.00}},
		{"remainder goes to first debtor", 100.00, 3, []float64{33.34, 33.33, 33.33}},
		{"single debtor takes everything", 15.50, 1, []float64{15.50}},
		{"zero amount", 0, 3, []float64{0, 0, 0}},
		{"amount below one cent per debtor", 0.01, 2, []float64{0.01, 0}},
		{"no debtors", 10, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitShares(tt.amount, tt.n))
		})
	}
}

func TestSplitSharesSumToAmount(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 11, 33} {
		shares := SplitShares(123.45, n)

		var sumCents int64
		for _, share := range shares {
			sumCents += int64(math.Round(share * 100))
		}
		assert.Equal(t, int64(12345), sumCents, "n=%d", n)
	}
}
