/*
 *  mannwhitney.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/09/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// rankAverage ranks the values (starting at 1), ties get the average of
// their ranks. Also returns the tie term sum(t^3 - t) over all tie groups.
func rankAverage(values []float64) ([]float64, float64) {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return values[idx[i]] < values[idx[j]]
	})

	ranks := make([]float64, n)
	ties := 0.0
	for i := 0; i < n; {
		j := i + 1
		for j < n && values[idx[j]] == values[idx[i]] {
			j++
		}
		// Positions i..j-1 share the rank (i+1 + j) / 2
		rank := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = rank
		}
		t := float64(j - i)
		ties += t*t*t - t
		i = j
	}
	return ranks, ties
}

// MannWhitneyU runs the two-sided Mann-Whitney U test with the asymptotic
// normal approximation, tie correction and continuity correction. Returns the
// U statistic of x and the p-value.
func MannWhitneyU(x, y []float64) (float64, float64, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return math.NaN(), math.NaN(), ErrEmptySample
	}
	all := make([]float64, 0, n1+n2)
	all = append(all, x...)
	all = append(all, y...)
	ranks, ties := rankAverage(all)

	R1 := sumf(ranks[:n1])
	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	U1 := R1 - fn1*(fn1+1)/2
	U2 := fn1*fn2 - U1
	U := math.Max(U1, U2)

	mu := fn1 * fn2 / 2
	variance := fn1 * fn2 / 12 * ((n + 1) - ties/(n*(n-1)))
	if variance <= 0 {
		// All values tied
		return U1, 1, nil
	}
	z := (U - mu - 0.5) / math.Sqrt(variance)
	p := 2 * distuv.UnitNormal.Survival(z)
	return U1, math.Min(math.Max(p, 0), 1), nil
}
