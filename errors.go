/*
 *  errors.go
 *  tadsplit
 *
 *  Created by Haibao Tang on 03/06/24
 *  Copyright © 2024 Haibao Tang. All rights reserved.
 */

package tadsplit

import (
	"errors"
	"fmt"
)

var (
	// ErrInputMismatch is reported when the two TAD tables cover different chromosomes
	ErrInputMismatch = errors.New("different numbers of chromosomes were detected")
	// ErrEmptyCandidateRegion is returned when a region has no bins or an intensity sample is empty
	ErrEmptyCandidateRegion = errors.New("empty candidate region")
	// ErrPositionNotFound is returned when a coordinate falls outside all bins
	ErrPositionNotFound = errors.New("position not found in bins")
	// ErrUnknownChrom is returned when a contact matrix has no data for a chromosome
	ErrUnknownChrom = errors.New("chromosome not found in contact matrix")
	// ErrEmptySample is returned by the rank test when one of the samples has no values
	ErrEmptySample = errors.New("empty sample")
)

// ScoringError describes the candidate group that failed to score
type ScoringError struct {
	Option Option
	Main   Window
	Region Region
	Err    error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring %s candidate %s (region %s): %v",
		e.Option, e.Main, e.Region, e.Err)
}

// Unwrap returns the underlying cause
func (e *ScoringError) Unwrap() error {
	return e.Err
}
