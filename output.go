/*
 *  output.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/12/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pierrec/lz4"
	"github.com/shenwei356/xopen"
)

// Compression formats accepted by WriteTable
const (
	CompressNone = ""
	CompressGzip = "gz"
	CompressLz4  = "lz4"
)

// formatFloat prints a p-value without losing small values
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Frame converts the table into a dataframe with the columns
// chrom, start_1, end_1, start_2, end_2 and, when scored, pvalue (and qvalue)
func (r *Table) Frame() dataframe.DataFrame {
	n := len(r.Events)
	chroms := make([]string, n)
	start1, end1 := make([]int, n), make([]int, n)
	start2, end2 := make([]int, n), make([]int, n)
	pvals, qvals := make([]string, n), make([]string, n)
	for i, e := range r.Events {
		chroms[i] = e.Chrom
		start1[i], end1[i] = e.Start1, e.End1
		start2[i], end2[i] = e.Start2, e.End2
		pvals[i], qvals[i] = formatFloat(e.PValue), formatFloat(e.QValue)
	}

	columns := []series.Series{
		series.New(chroms, series.String, "chrom"),
		series.New(start1, series.Int, "start_1"),
		series.New(end1, series.Int, "end_1"),
		series.New(start2, series.Int, "start_2"),
		series.New(end2, series.Int, "end_2"),
	}
	if r.Scored {
		columns = append(columns, series.New(pvals, series.String, "pvalue"))
	}
	if r.HasQValues {
		columns = append(columns, series.New(qvals, series.String, "qvalue"))
	}
	return dataframe.New(columns...)
}

// tableWriter is where the csv goes, closing it flushes any compression
type tableWriter interface {
	io.Writer
	Close() error
}

// lz4File closes both the lz4 frame and the file underneath
type lz4File struct {
	*lz4.Writer
	f *os.File
}

func (w lz4File) Close() error {
	if err := w.Writer.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// createTableWriter opens the output file for the compression
func createTableWriter(filename, compression string) (tableWriter, error) {
	switch compression {
	case CompressNone, CompressGzip:
		return xopen.Wopen(filename)
	case CompressLz4:
		f, err := os.Create(filename)
		if err != nil {
			return nil, err
		}
		return lz4File{Writer: lz4.NewWriter(f), f: f}, nil
	}
	return nil, fmt.Errorf("unknown compression `%s`", compression)
}

// TableFilename returns the output path of an option
func TableFilename(outdir, name, compression string) string {
	filename := filepath.Join(outdir, name+"_coords.csv")
	if compression != CompressNone {
		filename += "." + compression
	}
	return filename
}

// WriteTable writes the table as csv to <outdir>/<name>_coords.csv, with a
// .gz or .lz4 suffix when compressed
func WriteTable(outdir, name string, t *Table, compression string) (string, error) {
	filename := TableFilename(outdir, name, compression)
	w, err := createTableWriter(filename, compression)
	if err != nil {
		return "", err
	}
	if err := t.Frame().WriteCSV(w); err != nil {
		w.Close()
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	log.Noticef("%d %s rows written to `%s`", len(t.Events), name, filename)
	return filename, nil
}
