/**
 * Filename: /Users/bao/code/tadsplit/base.go
 * Path: /Users/bao/code/tadsplit
 * Created Date: Tuesday, March 5th 2024, 8:07:22 pm
 * Author: bao
 *
 * Copyright (c) 2024 Haibao Tang
 */

package tadsplit

import (
	"fmt"
	"math"
	"os"

	logging "github.com/op/go-logging"
)

const (
	// Version is the current version of tadsplit
	Version = "0.3.1"
	// BinsizeCoef is how many bins a TAD is widened by on each side for matching
	BinsizeCoef = 1.5
	// DefaultFlexibility is the multiplier on the main TAD size for matching
	DefaultFlexibility = 1.1
	// DefaultBinsize is the bin size used to widen TADs
	DefaultBinsize = 100000
	// DefaultResolution is the resolution of the contact matrices
	DefaultResolution = 100000
	// FDRLevel is the cutoff used when reporting significant events
	FDRLevel = 0.05
)

var log = logging.MustGetLogger("tadsplit")
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter contains the fancy debug formatter
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

// min gets the minimum for two ints
func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// max gets the maximum for two ints
func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// floorInt rounds a coordinate down to an int
func floorInt(x float64) int {
	return int(math.Floor(x))
}

// ceilInt rounds a coordinate up to an int
func ceilInt(x float64) int {
	return int(math.Ceil(x))
}

// sumf gets the sum for a float64 slice
func sumf(a []float64) float64 {
	ans := 0.0
	for _, x := range a {
		ans += x
	}
	return ans
}

// Percentage prints a human readable message of the percentage
func Percentage(a, b int) string {
	if b == 0 {
		return fmt.Sprintf("%d of %d", a, b)
	}
	return fmt.Sprintf("%d of %d (%.1f %%)", a, b, float64(a)*100./float64(b))
}
