/*
 *  contacts_text.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/08/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
)

// LoadPixelContacts parses the pixels written by `cooler dump --join`:
//
// chr1    0       100000  chr1    0       100000  1873
// chr1    0       100000  chr1    100000  200000  412
// chr1    100000  200000  chr1    100000  200000  2011
//
// Only intra-chromosomal pixels are kept. Lines starting with `#` and a
// header line are skipped. The file may be gzipped.
func LoadPixelContacts(filename string, resolution int) (*ContactMap, error) {
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	log.Noticef("Parse pixelfile `%s`", filename)

	r, err := readPixels(fh, filename, resolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return r, nil
}

// readPixels fills a ContactMap from a pixel stream
func readPixels(rd io.Reader, name string, resolution int) (*ContactMap, error) {
	r := newContactMap(name, resolution)
	reader := bufio.NewReader(rd)
	nPixels, nInter := 0, 0
	for lineno := 1; ; lineno++ {
		row, err := reader.ReadString('\n')
		row = strings.TrimSpace(row)
		if row == "" && err == io.EOF {
			break
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		if row == "" || row[0] == '#' {
			continue
		}
		words := strings.Fields(row)
		if len(words) < 7 {
			return nil, fmt.Errorf("line %d: expected 7 columns, got %d", lineno, len(words))
		}
		start1, err1 := strconv.Atoi(words[1])
		end1, err2 := strconv.Atoi(words[2])
		start2, err3 := strconv.Atoi(words[4])
		end2, err4 := strconv.Atoi(words[5])
		count, err5 := strconv.ParseFloat(words[6], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			if lineno == 1 {
				continue // Skip header
			}
			return nil, fmt.Errorf("line %d: malformed pixel `%s`", lineno, row)
		}
		if words[0] != words[3] {
			nInter++
			continue
		}

		cc, ok := r.chroms[words[0]]
		if !ok {
			cc = &chromContacts{values: make(sparseContacts)}
			r.chroms[words[0]] = cc
		}
		cc.length = max(cc.length, max(end1, end2))
		cc.values.(sparseContacts).add(start1/resolution, start2/resolution, count)
		nPixels++

		if err == io.EOF {
			break
		}
	}
	log.Noticef("A total of %d intra-chromosomal pixels imported on %d chromosomes (%d inter skipped)",
		nPixels, len(r.chroms), nInter)
	return r, nil
}

// LoadChromSizes parses chromosome lengths, one `chrom length` pair per line
// as written by `cooler dump -t chroms` or found in UCSC chrom.sizes files.
// A header line is skipped.
func LoadChromSizes(filename string) (map[string]int, error) {
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	log.Noticef("Parse chromsizes `%s`", filename)

	sizes := make(map[string]int)
	reader := bufio.NewReader(fh)
	for lineno := 1; ; lineno++ {
		row, err := reader.ReadString('\n')
		row = strings.TrimSpace(row)
		if row == "" && err == io.EOF {
			break
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		if row == "" || row[0] == '#' {
			continue
		}
		words := strings.Fields(row)
		if len(words) < 2 {
			return nil, fmt.Errorf("%s line %d: expected chrom and length", filename, lineno)
		}
		length, err := strconv.Atoi(words[1])
		if err != nil || length < 0 {
			if lineno == 1 {
				continue // Skip header
			}
			return nil, fmt.Errorf("%s line %d: invalid length `%s`", filename, lineno, words[1])
		}
		sizes[words[0]] = length
	}
	log.Noticef("A total of %d chromosome sizes imported", len(sizes))
	return sizes, nil
}
