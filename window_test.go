/*
 *  window_test.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/06/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit_test

import (
	"testing"

	"github.com/tanghaibao/tadsplit"
)

func TestExpand(t *testing.T) {
	tad := tadsplit.TAD{Chrom: "chr1", Start: 0, End: 300}
	w := tadsplit.Expand(tad, 100, 1.1)
	if w.Chrom != "chr1" || w.Start != -150 || w.End != 450 {
		t.Fatalf("Expected window chr1:-150-450, got %s", w)
	}
	if w.Size < 329.999 || w.Size > 330.001 {
		t.Fatalf("Expected window size 330, got %g", w.Size)
	}
}

func TestDenormalizeIsInverse(t *testing.T) {
	tads := []tadsplit.TAD{
		{Chrom: "chr1", Start: 0, End: 300},
		{Chrom: "chr2", Start: 1500000, End: 2300000},
		{Chrom: "chrX", Start: 17, End: 17},
	}
	for _, binsize := range []int{1, 25, 100, 5000, 100000} {
		for _, tad := range tads {
			w := tadsplit.Denormalize(tadsplit.Expand(tad, binsize, 1.1), binsize)
			if got := w.TAD(); got != tad {
				t.Errorf("binsize %d: expected %s, got %s", binsize, tad, got)
			}
			if w.Size != float64(tad.Size()) {
				t.Errorf("binsize %d: expected size %d, got %g", binsize, tad.Size(), w.Size)
			}
		}
	}
}
