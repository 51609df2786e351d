// Package prize computes per-winner payout shares from a fixed percentage
// schedule.
package prize

import "math/big"

// Schedule holds the payout percentages for ranks 1..3.
var Schedule = [3]int64{50, 30, 20} //nolint:gochecknoglobals // fixed payout contract

var hundred = big.NewInt(100) //nolint:gochecknoglobals // shared divisor

// Shares returns the payout amounts for the first min(n, 3) ranks of pool.
// Percentage arithmetic truncates toward zero; with fewer than 3 winners
// only the leading shares are paid and the remainder of the pool is not
// distributed.
func Shares(pool *big.Int, n int) []*big.Int {
	if n <= 0 {
		return nil
	}
	if n > len(Schedule) {
		n = len(Schedule)
	}

	shares := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		s := new(big.Int).Mul(pool, big.NewInt(Schedule[i]))
		shares[i] = s.Quo(s, hundred)
	}
	return shares
}
