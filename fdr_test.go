/*
 *  fdr_test.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/12/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit_test

import (
	"math"
	"testing"

	"github.com/tanghaibao/tadsplit"
)

func TestAdjustBH(t *testing.T) {
	pvals := []float64{0.04, 0.01, math.NaN(), 0.03, 0.5}
	expected := []float64{0.04 * 4 / 3, 0.04, math.NaN(), 0.04 * 4 / 3, 0.5}
	got := tadsplit.AdjustBH(pvals)
	for i := range expected {
		if math.IsNaN(expected[i]) {
			if !math.IsNaN(got[i]) {
				t.Errorf("q[%d] = %g; want NaN", i, got[i])
			}
			continue
		}
		if math.Abs(got[i]-expected[i]) > 1e-12 {
			t.Errorf("q[%d] = %g; want %g", i, got[i], expected[i])
		}
	}
}
