/*
 *  contacts_npy.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/09/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gonum/matrix/mat64"
	"github.com/kshedden/gonpy"
)

// NewNpyContacts serves contacts from a directory holding one square
// <chrom>.npy matrix per chromosome, bin i of a chromosome starts at
// i * resolution. Chromosomes are read on first use and kept.
func NewNpyContacts(dir string, resolution int) *ContactMap {
	r := newContactMap(dir, resolution)
	r.load = func(chrom string) (*chromContacts, error) {
		return loadNpyChrom(filepath.Join(dir, chrom+".npy"), resolution)
	}
	return r
}

// loadNpyChrom reads one dense chromosome matrix
func loadNpyChrom(filename string, resolution int) (*chromContacts, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: missing `%s`", ErrUnknownChrom, filename)
	}
	log.Noticef("Parse npyfile `%s`", filename)
	rdr, err := gonpy.NewFileReader(filename)
	if err != nil {
		return nil, err
	}
	if len(rdr.Shape) != 2 || rdr.Shape[0] != rdr.Shape[1] {
		return nil, fmt.Errorf("%s: expected a square matrix, got shape %v", filename, rdr.Shape)
	}
	n := rdr.Shape[0]
	if n == 0 {
		return nil, fmt.Errorf("%s: empty matrix", filename)
	}

	var data []float64
	switch rdr.Dtype {
	case "f8":
		data, err = rdr.GetFloat64()
	case "f4":
		var d []float32
		d, err = rdr.GetFloat32()
		data = make([]float64, len(d))
		for i, v := range d {
			data[i] = float64(v)
		}
	case "i8":
		var d []int64
		d, err = rdr.GetInt64()
		data = make([]float64, len(d))
		for i, v := range d {
			data[i] = float64(v)
		}
	case "i4":
		var d []int32
		d, err = rdr.GetInt32()
		data = make([]float64, len(d))
		for i, v := range d {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported dtype %s", filename, rdr.Dtype)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	var M mat64.Matrix = mat64.NewDense(n, n, data)
	if rdr.ColumnMajor {
		M = M.T()
	}
	return &chromContacts{length: n * resolution, nStored: n, values: M}, nil
}

// WriteNpyMatrix serializes a matrix to disk as a row-major float64 npy
func WriteNpyMatrix(filename string, M mat64.Matrix) error {
	r, c := M.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, M.At(i, j))
		}
	}
	w, err := gonpy.NewFileWriter(filename)
	if err != nil {
		return err
	}
	w.Shape = []int{r, c}
	return w.WriteFloat64(data)
}
