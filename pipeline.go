/*
 *  pipeline.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/12/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// Detector runs split and merge detection between two TAD maps
//
// Summary of pipeline, done once for split and once for merge:
// Step 1. Match the TADs of the two maps, chromosome by chromosome
// Step 2. Score every candidate group on the two contact matrices
// Step 3. Revert the window padding and write the table
type Detector struct {
	Matrix1     string
	Matrix2     string
	ChromSizes  string // Chromosome lengths shared by both matrices, optional
	TADFile1    string
	TADFile2    string
	Resolution  int
	Binsize     int
	Flexibility float64
	OutDir      string
	Compression string
	FDR         bool
	DumpDir     string
	ReportFile  string
	SkipScoring bool // Only run the matcher, no contact matrices needed
}

// Result summarizes a run
type Result struct {
	TADCounts [2]int            `json:"tad_counts"`
	Counts    map[Option]int    `json:"counts"`
	Outputs   map[Option]string `json:"outputs"`
}

// Splits returns the number of split events
func (r *Result) Splits() int {
	return r.Counts[Split]
}

// Merges returns the number of merge events
func (r *Result) Merges() int {
	return r.Counts[Merge]
}

// Validate checks the parameters before anything is read
func (r *Detector) Validate() error {
	if r.Binsize <= 0 {
		return fmt.Errorf("binsize must be positive, got %d", r.Binsize)
	}
	if r.Flexibility < 1 {
		return fmt.Errorf("flexibility must be at least 1, got %g", r.Flexibility)
	}
	if r.SkipScoring {
		return nil
	}
	if r.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %d", r.Resolution)
	}
	if r.Matrix1 == "" || r.Matrix2 == "" {
		return fmt.Errorf("two contact matrices are required")
	}
	return nil
}

// load reads both TAD tables and opens both matrices concurrently
func (r *Detector) load() (tads1, tads2 []TAD, scorer *Scorer, err error) {
	var sizes map[string]int
	if !r.SkipScoring && r.ChromSizes != "" {
		if sizes, err = LoadChromSizes(r.ChromSizes); err != nil {
			return
		}
	}

	var g errgroup.Group
	g.Go(func() (err error) {
		tads1, err = LoadTADs(r.TADFile1)
		return
	})
	g.Go(func() (err error) {
		tads2, err = LoadTADs(r.TADFile2)
		return
	})
	if !r.SkipScoring {
		open := func(filename string) (MatrixHandle, error) {
			m, err := OpenMatrix(filename, r.Resolution)
			if err != nil {
				return nil, err
			}
			if sizes != nil {
				m.SetChromSizes(sizes)
			}
			return m, nil
		}
		scorer = &Scorer{DumpDir: r.DumpDir}
		g.Go(func() (err error) {
			scorer.A, err = open(r.Matrix1)
			return
		})
		g.Go(func() (err error) {
			scorer.B, err = open(r.Matrix2)
			return
		})
	}
	err = g.Wait()
	return
}

// Run kicks off the detection
func (r *Detector) Run() (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	for _, dir := range []string{r.OutDir, r.DumpDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	tads1, tads2, scorer, err := r.load()
	if err != nil {
		return nil, err
	}

	res := &Result{
		TADCounts: [2]int{len(tads1), len(tads2)},
		Counts:    make(map[Option]int),
		Outputs:   make(map[Option]string),
	}
	for _, opt := range Options {
		log.Noticef("Searching %ss in TADs ...", opt)
		t, err := Detect(opt, tads1, tads2, scorer, r.Binsize, r.Flexibility)
		if err != nil {
			return nil, err
		}
		if r.FDR && t.Scored {
			t = t.WithQValues()
			log.Noticef("%d %s events with q < %g", t.significant(FDRLevel), opt, FDRLevel)
		}
		filename, err := WriteTable(r.OutDir, string(opt), t, r.Compression)
		if err != nil {
			return nil, err
		}
		res.Counts[opt] = t.Count()
		res.Outputs[opt] = filename
		log.Noticef("The number of %ss: %d", opt, res.Counts[opt])
	}

	if r.ReportFile != "" {
		if err := WriteReport(r.ReportFile, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// significant counts the events with a q-value below the level
func (r *Table) significant(level float64) int {
	seen := make(map[eventKey]bool)
	n := 0
	for _, e := range r.Events {
		k := r.eventOf(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		if e.QValue < level {
			n++
		}
	}
	return n
}

// WriteReport writes the summary as json, "-" is stdout
func WriteReport(filename string, res *Result) error {
	report, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if filename == "-" {
		fmt.Println(string(report))
		return nil
	}
	if err := os.WriteFile(filename, append(report, '\n'), 0644); err != nil {
		return err
	}
	log.Noticef("Report written to `%s`", filename)
	return nil
}
