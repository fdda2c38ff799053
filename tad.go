/*
 *  tad.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/06/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shenwei356/xopen"
	"gopkg.in/fatih/set.v0"
)

// TAD is a single domain call on one chromosome
type TAD struct {
	Chrom string
	Start int
	End   int
}

// Size returns the length of the domain
func (r TAD) Size() int {
	return r.End - r.Start
}

func (r TAD) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// LoadTADs parses a TAD table. The table is comma or tab separated, may be
// gzipped and must have a header with at least the chrom, start and end
// columns. Any other column, including a leading index column, is ignored.
func LoadTADs(filename string) ([]TAD, error) {
	log.Noticef("Parse tadfile `%s`", filename)
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	content, err := ioutil.ReadAll(fh)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	tads, err := parseTADs(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	log.Noticef("A total of %d TADs imported from `%s`", len(tads), filename)
	return tads, nil
}

// parseTADs converts the raw table into TAD records
func parseTADs(content []byte) ([]TAD, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}
	delimiter := ','
	header := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		header = content[:i]
	}
	if bytes.IndexByte(header, '\t') >= 0 {
		delimiter = '\t'
	}

	df := dataframe.ReadCSV(bytes.NewReader(content),
		dataframe.WithDelimiter(delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	columns := set.New(set.NonThreadSafe)
	for _, name := range df.Names() {
		columns.Add(name)
	}
	for _, name := range []string{"chrom", "start", "end"} {
		if !columns.Has(name) {
			return nil, fmt.Errorf("missing column `%s`", name)
		}
	}

	chroms := df.Col("chrom").Records()
	starts := df.Col("start").Records()
	ends := df.Col("end").Records()
	tads := make([]TAD, 0, len(chroms))
	for i := range chroms {
		start, err := parseCoord(starts[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		end, err := parseCoord(ends[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		tads = append(tads, TAD{Chrom: chroms[i], Start: start, End: end})
	}
	return tads, nil
}

// parseCoord accepts both integer and float formatted coordinates, pandas
// writes the latter when a column ever held a missing value
func parseCoord(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate `%s`", s)
	}
	return int(f), nil
}

// Chroms returns the distinct chromosomes in order of first appearance
func Chroms(tads []TAD) []string {
	seen := set.New(set.NonThreadSafe)
	var chroms []string
	for _, tad := range tads {
		if seen.Has(tad.Chrom) {
			continue
		}
		seen.Add(tad.Chrom)
		chroms = append(chroms, tad.Chrom)
	}
	return chroms
}

// CommonChroms returns the chromosomes of the first map that are also in the
// second map. A mismatch in the number of chromosomes is only a warning.
func CommonChroms(tads1, tads2 []TAD) []string {
	chroms1, chroms2 := Chroms(tads1), Chroms(tads2)
	if len(chroms1) != len(chroms2) {
		log.Warningf("%v (%d vs %d)", ErrInputMismatch, len(chroms1), len(chroms2))
	}
	other := set.New(set.NonThreadSafe)
	for _, chrom := range chroms2 {
		other.Add(chrom)
	}
	var common []string
	for _, chrom := range chroms1 {
		if other.Has(chrom) {
			common = append(common, chrom)
		}
	}
	return common
}

// ChromTADs returns the TADs on a single chromosome, keeping input order
func ChromTADs(tads []TAD, chrom string) []TAD {
	var res []TAD
	for _, tad := range tads {
		if tad.Chrom == chrom {
			res = append(res, tad)
		}
	}
	return res
}
