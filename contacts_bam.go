/**
 * Filename: /Users/htang/code/tadsplit/contacts_bam.go
 * Path: /Users/htang/code/tadsplit
 * Created Date: Wednesday, January 3rd 2018, 11:21:45 am
 * Author: htang
 *
 * Copyright (c) 2018 Haibao Tang
 */

package tadsplit

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// skipFlags marks the records that do not count as a Hi-C contact
const skipFlags = sam.Unmapped | sam.MateUnmapped | sam.Secondary | sam.Supplementary |
	sam.Duplicate | sam.QCFail

// LoadBAMContacts converts the bamfile into binned contact counts. Each read
// pair is counted once, from its first read, and only when both reads map
// to the same chromosome.
func LoadBAMContacts(filename string, resolution int) (*ContactMap, error) {
	fh, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	log.Noticef("Parse bamfile `%s`", filename)
	br, err := bam.NewReader(fh, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer br.Close()

	r := newContactMap(filename, resolution)
	for _, ref := range br.Header().Refs() {
		r.chroms[ref.Name()] = &chromContacts{
			length: ref.Len(),
			values: make(sparseContacts),
		}
	}
	log.Noticef("Initiating contact maps for %d chromosomes", len(r.chroms))

	// Collect all intra-chromosomal links
	nLinks, nInter := 0, 0
	for {
		rec, err := br.Read()
		if err != nil {
			if err != io.EOF {
				return nil, fmt.Errorf("read %s: %w", filename, err)
			}
			break
		}
		if rec.Flags&skipFlags != 0 || rec.Flags&sam.Paired == 0 || rec.Flags&sam.Read1 == 0 {
			continue
		}
		if rec.Ref == nil || rec.MateRef == nil {
			continue
		}
		if rec.Ref.Name() != rec.MateRef.Name() {
			nInter++
			continue
		}
		cc := r.chroms[rec.Ref.Name()]
		cc.values.(sparseContacts).add(rec.Pos/resolution, rec.MatePos/resolution, 1)
		nLinks++
	}
	log.Noticef("A total of %d intra-chromosomal and %d inter-chromosomal links imported",
		nLinks, nInter)
	return r, nil
}
