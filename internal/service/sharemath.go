package service

import (
	"math"
)

// SplitShares divides amount evenly across n debtors. Arithmetic runs in
// cents so the shares always sum back to the amount exactly: every debtor
// gets the floor share and the first one absorbs the remainder cents.
func SplitShares(amount float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	totalCents := int64(math.Round(amount * 100))
	baseCents := totalCents / int64(n)
	remainderCents := totalCents % int64(n)

	shares := make([]float64, n)
	for i := range shares {
		shares[i] = float64(baseCents) / 100
	}
	shares[0] = float64(baseCents+remainderCents) / 100
	return shares
}
