/*
 *  fdr.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/12/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"math"
	"sort"
)

// AdjustBH returns the Benjamini-Hochberg adjusted p-values, in the order of
// the input. NaN p-values are left as NaN and not counted as tests.
func AdjustBH(pvals []float64) []float64 {
	qvals := make([]float64, len(pvals))
	var order []int
	for i, p := range pvals {
		if math.IsNaN(p) {
			qvals[i] = math.NaN()
			continue
		}
		order = append(order, i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pvals[order[i]] < pvals[order[j]]
	})

	m := float64(len(order))
	running := 1.0
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		q := pvals[i] * m / float64(k+1)
		running = math.Min(running, q)
		qvals[i] = running
	}
	return qvals
}
