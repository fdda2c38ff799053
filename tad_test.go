/*
 *  tad_test.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/06/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tanghaibao/tadsplit"
)

func TestLoadTADsCSV(t *testing.T) {
	// Index column as written by pandas, float coordinates
	content := `,chrom,start,end,score
0,chr1,0,300000,0.5
1,chr1,300000.0,500000.0,0.7
2,chr2,0,100000,0.1
`
	filename := writeFile(t, filepath.Join(t.TempDir(), "tads.csv"), content)
	tads, err := tadsplit.LoadTADs(filename)
	if err != nil {
		t.Fatal(err)
	}
	expected := []tadsplit.TAD{
		tad("chr1", 0, 300000),
		tad("chr1", 300000, 500000),
		tad("chr2", 0, 100000),
	}
	if !reflect.DeepEqual(tads, expected) {
		t.Fatalf("Expected %v, got %v", expected, tads)
	}
}

func TestLoadTADsTSV(t *testing.T) {
	content := "chrom\tstart\tend\nchr3\t100\t200\n"
	filename := writeFile(t, filepath.Join(t.TempDir(), "tads.tsv"), content)
	tads, err := tadsplit.LoadTADs(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(tads) != 1 || tads[0] != tad("chr3", 100, 200) {
		t.Fatalf("Expected a single TAD chr3:100-200, got %v", tads)
	}
}

func TestLoadTADsErrors(t *testing.T) {
	dir := t.TempDir()
	missing := writeFile(t, filepath.Join(dir, "missing.csv"), "chrom,begin,end\nchr1,0,100\n")
	if _, err := tadsplit.LoadTADs(missing); err == nil {
		t.Error("Expected an error on a missing start column")
	}
	invalid := writeFile(t, filepath.Join(dir, "invalid.csv"), "chrom,start,end\nchr1,zero,100\n")
	if _, err := tadsplit.LoadTADs(invalid); err == nil {
		t.Error("Expected an error on an invalid coordinate")
	}
	if _, err := tadsplit.LoadTADs(filepath.Join(dir, "absent.csv")); err == nil {
		t.Error("Expected an error on an absent file")
	}
}

func TestCommonChroms(t *testing.T) {
	tads1 := []tadsplit.TAD{tad("chr2", 0, 1), tad("chr1", 0, 1), tad("chr2", 1, 2), tad("chrX", 0, 1)}
	tads2 := []tadsplit.TAD{tad("chr1", 0, 1), tad("chr2", 0, 1)}
	common := tadsplit.CommonChroms(tads1, tads2)
	if !reflect.DeepEqual(common, []string{"chr2", "chr1"}) {
		t.Fatalf("Expected [chr2 chr1], got %v", common)
	}
	if got := tadsplit.ChromTADs(tads1, "chr2"); len(got) != 2 || got[1] != tad("chr2", 1, 2) {
		t.Fatalf("Expected both chr2 TADs in order, got %v", got)
	}
}
