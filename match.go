/*
 *  match.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/07/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"fmt"
	"math"
	"sort"

	"github.com/biogo/store/interval"
)

// Pair is one row of the candidate table: a main window from the first map
// and one small TAD from the second map that fits inside it
type Pair struct {
	Main   Window
	Small  TAD
	PValue float64
}

// Group is a main window with all its small TADs, in table order
type Group struct {
	Main  Window
	Small []TAD
}

// windowKey identifies a main window, duplicates are detected on the full
// (chrom, start, end) tuple
type windowKey struct {
	chrom      string
	start, end float64
}

func keyOf(w Window) windowKey {
	return windowKey{w.Chrom, w.Start, w.End}
}

// tadInterval is a closed TAD interval stored in the tree, the tree range is
// made half-open by adding one to the end
type tadInterval struct {
	start, end int
	uid        uintptr
}

func (i tadInterval) Overlap(b interval.IntRange) bool {
	return i.end+1 > b.Start && i.start < b.End
}

func (i tadInterval) ID() uintptr {
	return i.uid
}

func (i tadInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end + 1}
}

// windowQuery covers all integer positions a window may contain
type windowQuery struct {
	start, end int
}

func (q windowQuery) Overlap(b interval.IntRange) bool {
	return b.End > q.start && b.Start < q.end
}

// buildTADTrees indexes the TADs by chromosome, the uid of each interval is
// its index into tads
func buildTADTrees(tads []TAD) (map[string]*interval.IntTree, error) {
	trees := make(map[string]*interval.IntTree)
	for i, tad := range tads {
		if tad.End < tad.Start {
			return nil, fmt.Errorf("TAD %s ends before it starts", tad)
		}
		if _, ok := trees[tad.Chrom]; !ok {
			trees[tad.Chrom] = &interval.IntTree{}
		}
		iv := tadInterval{start: tad.Start, end: tad.End, uid: uintptr(i)}
		if err := trees[tad.Chrom].Insert(iv, false); err != nil {
			return nil, fmt.Errorf("TAD %s: %w", tad, err)
		}
	}
	return trees, nil
}

// containedTADs returns the TADs fully inside the window, in input order
func containedTADs(trees map[string]*interval.IntTree, tads []TAD, w Window) []TAD {
	tree, ok := trees[w.Chrom]
	if !ok {
		return nil
	}
	q := windowQuery{start: floorInt(w.Start), end: ceilInt(w.End) + 1}
	var uids []int
	for _, iv := range tree.Get(q) {
		uids = append(uids, int(iv.ID()))
	}
	sort.Ints(uids)

	var res []TAD
	for _, uid := range uids {
		tad := tads[uid]
		if w.Start <= float64(tad.Start) && w.End >= float64(tad.End) {
			res = append(res, tad)
		}
	}
	return res
}

// FindSplits proposes the candidate pairs where one TAD of the first map
// holds several TADs of the second map.
//
// Summary of algorithm:
// Step 1. Widen every TAD in tads1 into a window
// Step 2. Join the windows with tads2 on chromosome, keeping the TADs that
//         are contained in the window and not larger than the window size
// Step 3. Drop windows that contain a single TAD
// Step 4. Drop windows whose small TADs add up to more than the window size
func FindSplits(tads1, tads2 []TAD, binsize int, flexibility float64) ([]Pair, error) {
	trees, err := buildTADTrees(tads2)
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for _, tad := range tads1 {
		w := Expand(tad, binsize, flexibility)
		for _, small := range containedTADs(trees, tads2, w) {
			if w.Size >= float64(small.Size()) {
				pairs = append(pairs, Pair{Main: w, Small: small, PValue: math.NaN()})
			}
		}
	}
	nPairs := len(pairs)
	pairs = dropSingletons(pairs)
	pairs = dropOversized(pairs)
	log.Debugf("Contained pairs: %d, kept in groups: %s", nPairs, Percentage(len(pairs), nPairs))
	return pairs, nil
}

// dropSingletons keeps only the rows whose window appears at least twice
func dropSingletons(pairs []Pair) []Pair {
	counts := make(map[windowKey]int)
	for _, p := range pairs {
		counts[keyOf(p.Main)]++
	}
	var res []Pair
	for _, p := range pairs {
		if counts[keyOf(p.Main)] >= 2 {
			res = append(res, p)
		}
	}
	return res
}

// groupSpan aggregates all small TADs in one window
type groupSpan struct {
	start, end int
	size       int
}

// dropOversized removes the groups whose small TADs together are larger than
// the window allows
func dropOversized(pairs []Pair) []Pair {
	spans := make(map[windowKey]*groupSpan)
	for _, p := range pairs {
		k := keyOf(p.Main)
		if g, ok := spans[k]; ok {
			g.start = min(g.start, p.Small.Start)
			g.end = max(g.end, p.Small.End)
			g.size += p.Small.Size()
		} else {
			spans[k] = &groupSpan{p.Small.Start, p.Small.End, p.Small.Size()}
		}
	}

	var res []Pair
	dropped := make(map[windowKey]bool)
	for _, p := range pairs {
		k := keyOf(p.Main)
		g := spans[k]
		if p.Main.Size >= float64(g.size) {
			res = append(res, p)
			continue
		}
		if !dropped[k] {
			log.Debugf("Drop %s: small TADs span %d-%d with total size %d > %.1f",
				p.Main, g.start, g.end, g.size, p.Main.Size)
			dropped[k] = true
		}
	}
	return res
}

// GroupPairs cuts the table into maximal runs of rows sharing one window
func GroupPairs(pairs []Pair) []Group {
	var groups []Group
	for _, p := range pairs {
		n := len(groups)
		if n > 0 && keyOf(groups[n-1].Main) == keyOf(p.Main) {
			groups[n-1].Small = append(groups[n-1].Small, p.Small)
			continue
		}
		groups = append(groups, Group{Main: p.Main, Small: []TAD{p.Small}})
	}
	return groups
}
