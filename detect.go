/*
 *  detect.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/11/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/gonum/matrix/mat64"
	"gopkg.in/fatih/set.v0"
)

// Option tells which map holds the main TADs
type Option string

const (
	// Split means one TAD of the first map holds several TADs of the second map
	Split Option = "split"
	// Merge means one TAD of the second map holds several TADs of the first map
	Merge Option = "merge"
)

// Options lists the options in the order they are run
var Options = []Option{Split, Merge}

// Event is one row of the final table: one main TAD paired with one of its
// small TADs. The _1 columns always refer to the first map.
type Event struct {
	Chrom  string
	Start1 int
	End1   int
	Start2 int
	End2   int
	PValue float64
	QValue float64
}

// Table holds the final events of one option
type Table struct {
	Option     Option
	Events     []Event
	Scored     bool
	HasQValues bool
}

// mainTAD returns the coordinates of the main TAD of an event
func (r *Table) mainTAD(e Event) [2]int {
	if r.Option == Merge {
		return [2]int{e.Start2, e.End2}
	}
	return [2]int{e.Start1, e.End1}
}

// eventKey identifies an event, a main TAD on a chromosome
type eventKey struct {
	chrom string
	main  [2]int
}

func (r *Table) eventOf(e Event) eventKey {
	return eventKey{e.Chrom, r.mainTAD(e)}
}

// Count returns the number of distinct main TADs, i.e. the number of
// split (or merge) events
func (r *Table) Count() int {
	mains := set.New(set.NonThreadSafe)
	for _, e := range r.Events {
		mains.Add(r.mainTAD(e))
	}
	return mains.Size()
}

// WithQValues returns a copy of the table with Benjamini-Hochberg q-values,
// computed over events (not rows) and shared by all rows of an event
func (r *Table) WithQValues() *Table {
	idx := make(map[eventKey]int)
	var pvals []float64
	for _, e := range r.Events {
		k := r.eventOf(e)
		if _, ok := idx[k]; !ok {
			idx[k] = len(pvals)
			pvals = append(pvals, e.PValue)
		}
	}
	qvals := AdjustBH(pvals)

	res := &Table{Option: r.Option, Scored: r.Scored, HasQValues: true}
	res.Events = make([]Event, len(r.Events))
	for i, e := range r.Events {
		e.QValue = qvals[idx[r.eventOf(e)]]
		res.Events[i] = e
	}
	return res
}

// FindCandidates runs the interval matcher on every chromosome common to
// both maps and concatenates the candidate pairs
func FindCandidates(tads1, tads2 []TAD, binsize int, flexibility float64) ([]Pair, error) {
	var pairs []Pair
	for _, chrom := range CommonChroms(tads1, tads2) {
		chromPairs, err := FindSplits(ChromTADs(tads1, chrom), ChromTADs(tads2, chrom),
			binsize, flexibility)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", chrom, err)
		}
		log.Debugf("Found %d candidate pairs on %s", len(chromPairs), chrom)
		pairs = append(pairs, chromPairs...)
	}
	return pairs, nil
}

// Scorer computes the p-values of candidate groups from two contact matrices
type Scorer struct {
	A       MatrixHandle
	B       MatrixHandle
	DumpDir string // Write the difference matrix of each group here, if set
}

// ScoreGroup fetches the region of the group from both matrices and tests
// the intensities of the difference matrix
func (r *Scorer) ScoreGroup(opt Option, g Group) (float64, error) {
	region := BuildRegion(g.Main, g.Small)
	fail := func(err error) (float64, error) {
		return math.NaN(), &ScoringError{Option: opt, Main: g.Main, Region: region, Err: err}
	}
	bins, err := sharedBins(region, r.A, r.B)
	if err != nil {
		return fail(err)
	}
	A, err := r.A.BinMatrix(region.Chrom, bins)
	if err != nil {
		return fail(err)
	}
	B, err := r.B.BinMatrix(region.Chrom, bins)
	if err != nil {
		return fail(err)
	}
	for _, tad := range SingleBinTADs(g.Small, bins) {
		log.Warningf("%s %s: %s lies within one bin, its square block is left out of the test",
			opt, g.Main, tad)
	}
	if r.DumpDir != "" {
		if err := r.dump(opt, region, A, B); err != nil {
			return fail(err)
		}
	}
	pvalue, err := CompareIntensity(g.Small, A, B, bins)
	if err != nil {
		return fail(err)
	}
	log.Debugf("%s %s with %d small TADs: p = %.4g", opt, g.Main, len(g.Small), pvalue)
	return pvalue, nil
}

// sharedBins resolves the region on both maps and keeps the longer bin
// list. Sparse maps only know a chromosome up to its last contact, so the
// two lists may differ in their trailing bins.
func sharedBins(region Region, A, B MatrixHandle) ([]Bin, error) {
	if A.Resolution() != B.Resolution() {
		return nil, fmt.Errorf("resolutions differ: %d vs %d", A.Resolution(), B.Resolution())
	}
	binsA, errA := MapToBins(region, A)
	binsB, errB := MapToBins(region, B)
	for _, err := range []error{errA, errB} {
		if err != nil && !errors.Is(err, ErrEmptyCandidateRegion) {
			return nil, err
		}
	}
	if errA != nil && errB != nil {
		return nil, errA
	}
	if len(binsA) == len(binsB) {
		return binsA, nil
	}
	log.Warningf("The two maps end at different bins of %s (%d vs %d bins in %s), set chromosome sizes to avoid guessing",
		region.Chrom, len(binsA), len(binsB), region)
	if len(binsB) > len(binsA) {
		binsA, binsB = binsB, binsA
	}
	if len(binsB) > 0 && binsB[0].Start != binsA[0].Start {
		return nil, fmt.Errorf("bins of %s start at %d vs %d", region, binsA[0].Start, binsB[0].Start)
	}
	return binsA, nil
}

// Score returns a new candidate table where every row carries the p-value
// of its group. The first failure aborts scoring.
func (r *Scorer) Score(opt Option, pairs []Pair) ([]Pair, error) {
	scored := make([]Pair, 0, len(pairs))
	for _, g := range GroupPairs(pairs) {
		pvalue, err := r.ScoreGroup(opt, g)
		if err != nil {
			return nil, err
		}
		for _, small := range g.Small {
			scored = append(scored, Pair{Main: g.Main, Small: small, PValue: pvalue})
		}
	}
	return scored, nil
}

// Finalize reverts the window padding and orients the columns so that _1
// always refers to the first map
func Finalize(opt Option, pairs []Pair, binsize int, scored bool) *Table {
	t := &Table{Option: opt, Scored: scored}
	t.Events = make([]Event, 0, len(pairs))
	for _, p := range pairs {
		main := Denormalize(p.Main, binsize).TAD()
		e := Event{Chrom: main.Chrom, PValue: p.PValue, QValue: math.NaN()}
		if opt == Merge {
			e.Start1, e.End1 = p.Small.Start, p.Small.End
			e.Start2, e.End2 = main.Start, main.End
		} else {
			e.Start1, e.End1 = main.Start, main.End
			e.Start2, e.End2 = p.Small.Start, p.Small.End
		}
		t.Events = append(t.Events, e)
	}
	return t
}

// Detect runs one option of the pipeline on TADs of the first and second
// map. For Merge the two maps swap roles; the contact matrices never do.
func Detect(opt Option, tads1, tads2 []TAD, scorer *Scorer, binsize int, flexibility float64) (*Table, error) {
	if opt == Merge {
		tads1, tads2 = tads2, tads1
	}
	pairs, err := FindCandidates(tads1, tads2, binsize, flexibility)
	if err != nil {
		return nil, err
	}
	log.Noticef("Found %d candidate %s groups (%d pairs)", len(GroupPairs(pairs)), opt, len(pairs))

	if scorer == nil {
		return Finalize(opt, pairs, binsize, false), nil
	}
	scored, err := scorer.Score(opt, pairs)
	if err != nil {
		return nil, err
	}
	log.Noticef("Scored %d %s groups", len(GroupPairs(scored)), opt)
	return Finalize(opt, scored, binsize, true), nil
}

// dump writes the difference matrix of a region as npy
func (r *Scorer) dump(opt Option, region Region, A, B mat64.Matrix) error {
	D, err := DiffMatrix(A, B)
	if err != nil {
		return err
	}
	filename := filepath.Join(r.DumpDir,
		fmt.Sprintf("%s_%s_%d_%d.npy", opt, region.Chrom, region.Start, region.End))
	return WriteNpyMatrix(filename, D)
}
