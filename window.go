/*
 *  window.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/06/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"fmt"
	"math"
)

// Window is a TAD widened by BinsizeCoef bins on each side. Size is the
// original TAD size times the flexibility, i.e. the largest total size of
// small TADs that may fit into it.
type Window struct {
	Chrom string
	Start float64
	End   float64
	Size  float64
}

func (r Window) String() string {
	return fmt.Sprintf("%s:%g-%g", r.Chrom, r.Start, r.End)
}

// Expand widens the TAD into a search window
func Expand(tad TAD, binsize int, flexibility float64) Window {
	pad := BinsizeCoef * float64(binsize)
	return Window{
		Chrom: tad.Chrom,
		Start: float64(tad.Start) - pad,
		End:   float64(tad.End) + pad,
		Size:  float64(tad.End-tad.Start) * flexibility,
	}
}

// Denormalize reverts the padding done by Expand, size becomes end - start
func Denormalize(w Window, binsize int) Window {
	pad := BinsizeCoef * float64(binsize)
	start := w.Start + pad
	end := w.End - pad
	return Window{
		Chrom: w.Chrom,
		Start: start,
		End:   end,
		Size:  end - start,
	}
}

// TAD converts a denormalized window back to integer coordinates
func (r Window) TAD() TAD {
	return TAD{
		Chrom: r.Chrom,
		Start: int(math.Round(r.Start)),
		End:   int(math.Round(r.End)),
	}
}
