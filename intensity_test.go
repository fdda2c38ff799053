/*
 *  intensity_test.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/10/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit_test

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/matrix/mat64"
	"github.com/tanghaibao/tadsplit"
)

func TestDiffMatrix(t *testing.T) {
	A := mat64.NewDense(2, 2, []float64{0, 1, 1, 3})
	B := mat64.NewDense(2, 2, []float64{0, 0, 0, 1})
	D, err := tadsplit.DiffMatrix(A, B)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{0, math.Log(2), math.Log(2), math.Log(4) - math.Log(2)}
	for k, v := range expected {
		if got := D.At(k/2, k%2); math.Abs(got-v) > 1e-12 {
			t.Errorf("D[%d,%d] = %g; want %g", k/2, k%2, got, v)
		}
	}

	if _, err := tadsplit.DiffMatrix(A, mat64.NewDense(3, 3, nil)); err == nil {
		t.Fatal("Expected an error on shape mismatch")
	}
}

func TestIntensities(t *testing.T) {
	n := 4
	D := mat64.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			D.Set(i, j, float64(i*n+j))
		}
	}
	bins := []tadsplit.Bin{{0, 100}, {100, 200}, {200, 300}, {300, 400}}
	small := []tadsplit.TAD{tad("chr1", 0, 200), tad("chr1", 200, 400)}

	square, hill, err := tadsplit.Intensities(D, small, bins)
	if err != nil {
		t.Fatal(err)
	}
	// Position 200 falls into bin 1, both bin ends are inclusive
	if len(square) != 2 || square[0] != 2 || square[1] != 3 {
		t.Fatalf("Expected square sample [2 3], got %v", square)
	}
	if len(hill) != 5 {
		t.Fatalf("Expected 5 hill values, got %d: %v", len(hill), hill)
	}
	if hill[0] != 2 || hill[1] != 3 {
		t.Errorf("Expected hill sample to start with [2 3], got %v", hill)
	}

	if _, _, err := tadsplit.Intensities(D, small[:1], bins); err == nil {
		t.Fatal("Expected an error with a single small TAD")
	}
}

func TestCompareIntensity(t *testing.T) {
	n := 8
	A := mat64.NewDense(n, n, nil)
	B := mat64.NewDense(n, n, nil)
	bins := make([]tadsplit.Bin, n)
	for i := 0; i < n; i++ {
		bins[i] = tadsplit.Bin{Start: i * 100, End: (i + 1) * 100}
		for j := 0; j < n; j++ {
			v := 1.0
			if (i < 4) == (j < 4) {
				v = 20
			}
			A.Set(i, j, v)
			B.Set(i, j, 5)
		}
	}
	small := []tadsplit.TAD{tad("chr1", 0, 400), tad("chr1", 400, 800)}
	p, err := tadsplit.CompareIntensity(small, A, B, bins)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		t.Fatalf("Expected a p-value in [0, 1], got %g", p)
	}
	if p >= 0.05 {
		t.Errorf("Expected a clear difference between square and hill, got p = %g", p)
	}

	pSame, err := tadsplit.CompareIntensity(small, B, B, bins)
	if err != nil {
		t.Fatal(err)
	}
	if pSame != 1 {
		t.Errorf("Expected p = 1 on identical maps, got %g", pSame)
	}

	if _, err := tadsplit.CompareIntensity(small, A, B, bins[:4]); err == nil {
		t.Fatal("Expected an error when bins and matrix disagree")
	}
}

func TestCompareIntensityEmptySample(t *testing.T) {
	A := mat64.NewDense(2, 2, []float64{1, 2, 2, 1})
	bins := []tadsplit.Bin{{0, 100}, {100, 200}}
	small := []tadsplit.TAD{tad("chr1", 0, 50), tad("chr1", 50, 100)}
	_, err := tadsplit.CompareIntensity(small, A, A, bins)
	if !errors.Is(err, tadsplit.ErrEmptyCandidateRegion) {
		t.Fatalf("Expected ErrEmptyCandidateRegion, got %v", err)
	}
}

func TestSingleBinTADs(t *testing.T) {
	n := 8
	A := mat64.NewDense(n, n, nil)
	B := mat64.NewDense(n, n, nil)
	bins := make([]tadsplit.Bin, n)
	for i := 0; i < n; i++ {
		bins[i] = tadsplit.Bin{Start: i * 100, End: (i + 1) * 100}
		for j := 0; j < n; j++ {
			A.Set(i, j, float64(1+i+j))
			B.Set(i, j, 3)
		}
	}
	small := []tadsplit.TAD{
		tad("chr1", 0, 200),
		tad("chr1", 200, 400),
		tad("chr1", 410, 450),
		tad("chr1", 450, 800),
	}
	single := tadsplit.SingleBinTADs(small, bins)
	if len(single) != 1 || single[0] != small[2] {
		t.Fatalf("Expected only %s within one bin, got %v", small[2], single)
	}

	// The group is still scored on the remaining blocks
	p, err := tadsplit.CompareIntensity(small, A, B, bins)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		t.Fatalf("Expected a p-value in [0, 1], got %g", p)
	}

	// The last TAD has no square block
	if got := tadsplit.SingleBinTADs([]tadsplit.TAD{tad("chr1", 0, 400), tad("chr1", 410, 450)}, bins); len(got) != 0 {
		t.Errorf("Expected no single bin TADs, got %v", got)
	}
}
