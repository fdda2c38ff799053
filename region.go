/*
 *  region.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/07/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"fmt"
	"math"
)

// Region is a genomic interval to fetch from a contact matrix
type Region struct {
	Chrom string
	Start int
	End   int
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// Bin is the genomic interval of one row (or column) of a contact matrix
type Bin struct {
	Start int
	End   int
}

// BuildRegion finds the region to fetch for a candidate group. One bound is
// the main window's own, the other the innermost small TAD boundary,
// whichever reaches further out.
func BuildRegion(main Window, small []TAD) Region {
	if len(small) == 0 {
		return Region{Chrom: main.Chrom, Start: floorInt(main.Start), End: ceilInt(main.End)}
	}
	smallStart := math.Inf(-1)
	smallEnd := math.Inf(1)
	for _, tad := range small {
		smallStart = math.Max(smallStart, float64(max(tad.Start, tad.End)))
		smallEnd = math.Min(smallEnd, float64(min(tad.Start, tad.End)))
	}
	return Region{
		Chrom: main.Chrom,
		Start: floorInt(math.Min(main.Start, smallStart)),
		End:   ceilInt(math.Max(main.End, smallEnd)),
	}
}

// MapToBins lists the matrix bins overlapping the region, in ascending order
func MapToBins(region Region, m MatrixHandle) ([]Bin, error) {
	bins, err := m.Bins(region)
	if err != nil {
		return nil, err
	}
	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: no bins in %s", ErrEmptyCandidateRegion, region)
	}
	return bins, nil
}

// FindBinIndex returns the first bin that contains the position, both ends
// of a bin count as inside
func FindBinIndex(position int, bins []Bin) (int, error) {
	for i, bin := range bins {
		if bin.Start <= position && position <= bin.End {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", ErrPositionNotFound, position)
}
