/*
 *  intensity.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/10/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// DiffMatrix computes log(A + 1) - log(B + 1) for every bin pair
func DiffMatrix(A, B mat64.Matrix) (*mat64.Dense, error) {
	ar, ac := A.Dims()
	br, bc := B.Dims()
	if ar != br || ac != bc {
		return nil, fmt.Errorf("contact matrices differ in shape: %dx%d vs %dx%d", ar, ac, br, bc)
	}
	D := mat64.NewDense(ar, ac, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			D.Set(i, j, math.Log(A.At(i, j)+1)-math.Log(B.At(i, j)+1))
		}
	}
	return D, nil
}

// blockColMeans averages each column of the block rows [r0, r1) x cols
// [c0, c1). The bounds are clipped to the matrix, an empty block gives no
// values.
func blockColMeans(M mat64.Matrix, r0, r1, c0, c1 int) []float64 {
	nr, nc := M.Dims()
	r0, r1 = max(r0, 0), min(r1, nr)
	c0, c1 = max(c0, 0), min(c1, nc)
	if r1 <= r0 || c1 <= c0 {
		return nil
	}
	means := make([]float64, 0, c1-c0)
	for j := c0; j < c1; j++ {
		col := make([]float64, 0, r1-r0)
		for i := r0; i < r1; i++ {
			col = append(col, M.At(i, j))
		}
		means = append(means, sumf(col)/float64(len(col)))
	}
	return means
}

// Intensities collects the square and hill samples of a candidate group.
// For every two adjacent small TADs the square sample takes the block
// between them and the hill sample the first TAD's own diagonal block; the
// last TAD adds only its diagonal block.
//
//         TAD k     TAD k+1
//       +-------+-----------+
// TAD k | hill  |  square   |
//       +-------+-----------+
func Intensities(D mat64.Matrix, small []TAD, bins []Bin) ([]float64, []float64, error) {
	if len(small) < 2 {
		return nil, nil, fmt.Errorf("need at least 2 small TADs, got %d", len(small))
	}
	starts := make([]int, len(small))
	ends := make([]int, len(small))
	for k, tad := range small {
		var err error
		if starts[k], err = FindBinIndex(tad.Start, bins); err != nil {
			return nil, nil, fmt.Errorf("start of %s: %w", tad, err)
		}
		if ends[k], err = FindBinIndex(tad.End, bins); err != nil {
			return nil, nil, fmt.Errorf("end of %s: %w", tad, err)
		}
	}

	var square, hill []float64
	for k := 0; k < len(small)-1; k++ {
		s1, e1 := starts[k], ends[k]
		s2, e2 := starts[k+1], ends[k+1]
		square = append(square, blockColMeans(D, s1, e1, s2+1, e2+1)...)
		hill = append(hill, blockColMeans(D, s1, e1+1, s1, e1+1)...)
	}
	last := len(small) - 1
	hill = append(hill, blockColMeans(D, starts[last], ends[last]+1, starts[last], ends[last]+1)...)
	return square, hill, nil
}

// SingleBinTADs returns the small TADs (all but the last) whose start and
// end fall into the same bin. Their square block has no rows and adds no
// values to the square sample.
func SingleBinTADs(small []TAD, bins []Bin) []TAD {
	var res []TAD
	for k := 0; k < len(small)-1; k++ {
		s, errS := FindBinIndex(small[k].Start, bins)
		e, errE := FindBinIndex(small[k].End, bins)
		if errS == nil && errE == nil && s == e {
			res = append(res, small[k])
		}
	}
	return res
}

// CompareIntensity scores a candidate group: the p-value of the
// Mann-Whitney U test between the square and hill samples of the
// difference of the two contact matrices
func CompareIntensity(small []TAD, A, B mat64.Matrix, bins []Bin) (float64, error) {
	D, err := DiffMatrix(A, B)
	if err != nil {
		return math.NaN(), err
	}
	if r, _ := D.Dims(); r != len(bins) {
		return math.NaN(), fmt.Errorf("matrix has %d rows but region has %d bins", r, len(bins))
	}
	square, hill, err := Intensities(D, small, bins)
	if err != nil {
		return math.NaN(), err
	}
	_, pvalue, err := MannWhitneyU(square, hill)
	if errors.Is(err, ErrEmptySample) {
		return math.NaN(), fmt.Errorf("%w: square sample has %d values, hill sample has %d values",
			ErrEmptyCandidateRegion, len(square), len(hill))
	}
	return pvalue, err
}
