/*
 *  match_test.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/07/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit_test

import (
	"testing"

	"github.com/tanghaibao/tadsplit"
)

func tad(chrom string, start, end int) tadsplit.TAD {
	return tadsplit.TAD{Chrom: chrom, Start: start, End: end}
}

func TestFindSplitsScenario(t *testing.T) {
	tads1 := []tadsplit.TAD{tad("chr1", 0, 300)}
	tads2 := []tadsplit.TAD{tad("chr1", 0, 140), tad("chr1", 150, 300)}
	pairs, err := tadsplit.FindSplits(tads1, tads2, 100, 1.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	for i, p := range pairs {
		if p.Main.Start != -150 || p.Main.End != 450 {
			t.Errorf("Pair %d: expected main window chr1:-150-450, got %s", i, p.Main)
		}
		if p.Small != tads2[i] {
			t.Errorf("Pair %d: expected small TAD %s, got %s", i, tads2[i], p.Small)
		}
	}
	groups := tadsplit.GroupPairs(pairs)
	if len(groups) != 1 || len(groups[0].Small) != 2 {
		t.Fatalf("Expected a single group of 2 small TADs, got %v", groups)
	}
}

func TestFindSplitsSingleMatch(t *testing.T) {
	tads1 := []tadsplit.TAD{tad("chr1", 0, 300)}
	tads2 := []tadsplit.TAD{tad("chr1", 0, 290), tad("chr1", 400, 900)}
	pairs, err := tadsplit.FindSplits(tads1, tads2, 100, 1.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 0 {
		t.Fatalf("A single contained TAD must not form a group, got %d pairs", len(pairs))
	}
}

func TestFindSplitsOversizedGroup(t *testing.T) {
	// Each small TAD fits on its own, the three of them together do not
	tads1 := []tadsplit.TAD{tad("chr1", 0, 300)}
	tads2 := []tadsplit.TAD{tad("chr1", -100, 100), tad("chr1", 100, 300), tad("chr1", 300, 400)}
	pairs, err := tadsplit.FindSplits(tads1, tads2, 100, 1.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 0 {
		t.Fatalf("Expected the oversized group to be dropped, got %d pairs", len(pairs))
	}
}

func TestFindSplitsOrderAndChroms(t *testing.T) {
	tads1 := []tadsplit.TAD{
		tad("chr1", 1000, 2000),
		tad("chr1", 0, 1000),
		tad("chr2", 0, 1000),
	}
	// Input order of the second map is kept inside a group, other
	// chromosomes never join
	tads2 := []tadsplit.TAD{
		tad("chr1", 500, 1000),
		tad("chr1", 0, 500),
		tad("chr1", 1000, 1500),
		tad("chr1", 1500, 2000),
		tad("chr2", 1000, 1500),
	}
	pairs, err := tadsplit.FindSplits(tads1, tads2, 10, 1.1)
	if err != nil {
		t.Fatal(err)
	}
	groups := tadsplit.GroupPairs(pairs)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Main.Start != 985 || groups[1].Main.Start != -15 {
		t.Fatalf("Groups are not in the order of the first map: %s, %s", groups[0].Main, groups[1].Main)
	}
	if groups[1].Small[0] != tads2[0] || groups[1].Small[1] != tads2[1] {
		t.Fatalf("Small TADs are not in input order: %v", groups[1].Small)
	}
}

func TestFindSplitsSameStartDifferentEnd(t *testing.T) {
	// Two main TADs share a start, each holds a single small TAD: neither
	// is a group
	tads1 := []tadsplit.TAD{tad("chr1", 0, 1000), tad("chr1", 0, 2000)}
	tads2 := []tadsplit.TAD{tad("chr1", 0, 900), tad("chr1", 1000, 1900)}
	pairs, err := tadsplit.FindSplits(tads1, tads2, 10, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range pairs {
		if p.Main.End == 1015 {
			t.Fatalf("Window %s with a single small TAD was kept", p.Main)
		}
	}
}

func TestFindSplitsEmpty(t *testing.T) {
	pairs, err := tadsplit.FindSplits(nil, []tadsplit.TAD{tad("chr1", 0, 10)}, 100, 1.1)
	if err != nil || len(pairs) != 0 {
		t.Fatalf("Expected no pairs and no error, got %d pairs and %v", len(pairs), err)
	}
}

func TestFindSplitsInvertedTAD(t *testing.T) {
	_, err := tadsplit.FindSplits([]tadsplit.TAD{tad("chr1", 0, 10)}, []tadsplit.TAD{tad("chr1", 10, 0)}, 100, 1.1)
	if err == nil {
		t.Fatal("Expected an error for a TAD with end before start")
	}
}
