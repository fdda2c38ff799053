/*
 *  contacts.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/08/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"fmt"
	"os"
	"strings"

	"github.com/gonum/matrix/mat64"
)

// MatrixHandle gives access to the binned contacts of one Hi-C map at a
// single resolution
type MatrixHandle interface {
	// Resolution returns the bin size in bp
	Resolution() int
	// Bins lists the bins overlapping the region in ascending order
	Bins(region Region) ([]Bin, error)
	// Submatrix returns the raw (unbalanced) contacts between all bins of
	// the region, rows and columns follow Bins
	Submatrix(region Region) (*mat64.Dense, error)
	// BinMatrix returns the contacts between the given bins of a chromosome,
	// bins past the stored data read as zero
	BinMatrix(chrom string, bins []Bin) (*mat64.Dense, error)
}

// OpenMatrix opens a contact matrix at the given resolution. A BAM file
// holds Hi-C read pairs, a directory holds one <chrom>.npy dense matrix per
// chromosome, anything else is read as `cooler dump --join` pixels.
func OpenMatrix(filename string, resolution int) (*ContactMap, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("invalid resolution %d", resolution)
	}
	if strings.HasSuffix(filename, ".bam") {
		return LoadBAMContacts(filename, resolution)
	}
	if fi, err := os.Stat(filename); err == nil && fi.IsDir() {
		return NewNpyContacts(filename, resolution), nil
	}
	return LoadPixelContacts(filename, resolution)
}

// contactValues is the storage of one chromosome, indexed by bin
type contactValues interface {
	At(i, j int) float64
}

// sparseContacts keeps the upper triangle of the nonzero pixels
type sparseContacts map[[2]int]float64

func (s sparseContacts) At(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	return s[[2]int{i, j}]
}

func (s sparseContacts) add(i, j int, v float64) {
	if i > j {
		i, j = j, i
	}
	s[[2]int{i, j}] += v
}

// chromContacts is the contact matrix of one chromosome. nStored is the
// number of bins held by a dense matrix, 0 for sparse storage.
type chromContacts struct {
	length  int
	nStored int
	values  contactValues
}

func (cc *chromContacts) at(i, j int) float64 {
	if cc.nStored > 0 && (i >= cc.nStored || j >= cc.nStored) {
		return 0
	}
	return cc.values.At(i, j)
}

// ContactMap is a MatrixHandle over per-chromosome contact storage. The
// chromosomes are either all loaded upfront or loaded on first access.
type ContactMap struct {
	Name       string
	resolution int
	chroms     map[string]*chromContacts
	sizes      map[string]int
	load       func(chrom string) (*chromContacts, error)
}

// newContactMap makes an empty map ready to be filled in
func newContactMap(name string, resolution int) *ContactMap {
	return &ContactMap{
		Name:       name,
		resolution: resolution,
		chroms:     make(map[string]*chromContacts),
	}
}

// Resolution returns the bin size in bp
func (r *ContactMap) Resolution() int {
	return r.resolution
}

// chrom gets the contacts of a chromosome, loading them if needed
func (r *ContactMap) chrom(name string) (*chromContacts, error) {
	if cc, ok := r.chroms[name]; ok {
		return cc, nil
	}
	if r.load == nil {
		return nil, fmt.Errorf("%w: `%s` in %s", ErrUnknownChrom, name, r.Name)
	}
	cc, err := r.load(name)
	if err != nil {
		return nil, err
	}
	if n, ok := r.sizes[name]; ok {
		cc.length = n
	}
	r.chroms[name] = cc
	return cc, nil
}

// SetChromSizes fixes the chromosome lengths instead of inferring them from
// the contacts. Chromosomes without a single contact become empty.
func (r *ContactMap) SetChromSizes(sizes map[string]int) {
	r.sizes = sizes
	for name, cc := range r.chroms {
		if n, ok := sizes[name]; ok {
			cc.length = n
		}
	}
	if r.load != nil {
		return
	}
	for name, n := range sizes {
		if _, ok := r.chroms[name]; !ok {
			r.chroms[name] = &chromContacts{length: n, values: make(sparseContacts)}
		}
	}
}

// binRange returns the half-open range of bin indices overlapping the region
func (r *ContactMap) binRange(region Region, cc *chromContacts) (int, int) {
	res := r.resolution
	nBins := (cc.length + res - 1) / res
	lo := 0
	if region.Start > 0 {
		lo = region.Start / res
	}
	hi := nBins
	if region.End < cc.length {
		hi = 0
		if region.End > 0 {
			hi = (region.End + res - 1) / res
		}
	}
	if lo > nBins {
		lo = nBins
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Bins lists the bins overlapping the region in ascending order
func (r *ContactMap) Bins(region Region) ([]Bin, error) {
	cc, err := r.chrom(region.Chrom)
	if err != nil {
		return nil, err
	}
	lo, hi := r.binRange(region, cc)
	bins := make([]Bin, 0, hi-lo)
	for i := lo; i < hi; i++ {
		bins = append(bins, Bin{
			Start: i * r.resolution,
			End:   min((i+1)*r.resolution, cc.length),
		})
	}
	return bins, nil
}

// Submatrix returns the contacts between all bins of the region
func (r *ContactMap) Submatrix(region Region) (*mat64.Dense, error) {
	bins, err := r.Bins(region)
	if err != nil {
		return nil, err
	}
	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: no bins in %s", ErrEmptyCandidateRegion, region)
	}
	return r.BinMatrix(region.Chrom, bins)
}

// BinMatrix returns the contacts between the bins, which may run past the
// end of the chromosome as this map knows it
func (r *ContactMap) BinMatrix(chrom string, bins []Bin) (*mat64.Dense, error) {
	cc, err := r.chrom(chrom)
	if err != nil {
		return nil, err
	}
	n := len(bins)
	if n == 0 {
		return nil, fmt.Errorf("%w: no bins on %s", ErrEmptyCandidateRegion, chrom)
	}
	idx := make([]int, n)
	for i, bin := range bins {
		idx[i] = bin.Start / r.resolution
	}
	M := mat64.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := cc.at(idx[i], idx[j])
			M.Set(i, j, v)
			M.Set(j, i, v)
		}
	}
	return M, nil
}
