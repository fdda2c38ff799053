/**
 * Filename: /Users/htang/code/tadsplit/cmd/tadsplit.go
 * Path: /Users/htang/code/tadsplit/cmd
 * Created Date: Wednesday, March 13th 2024, 11:21:45 am
 * Author: htang
 *
 * Copyright (c) 2024 Haibao Tang
 */

package main

import (
	"fmt"
	"strings"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
	"github.com/tanghaibao/tadsplit"
)

var (
	verbose     bool
	binsize     int
	resolution  int
	flexibility float64
	outDir      string
	compression string
	fdr         bool
	dumpDir     string
	chromSizes  string
	reportFile  string
)

// banner prints the separate steps
func banner(message string) {
	message = "* " + message + " *"
	log.Noticef(strings.Repeat("*", len(message)))
	log.Noticef(message)
	log.Noticef(strings.Repeat("*", len(message)))
}

var rootCmd = &cobra.Command{
	Use:     "tadsplit",
	Short:   "Detect split and merge events between two TAD maps",
	Version: tadsplit.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.NOTICE
		if verbose {
			level = logging.DEBUG
		}
		logging.SetLevel(level, "tadsplit")
		logging.SetLevel(level, "main")
	},
	SilenceUsage: true,
}

var detectCmd = &cobra.Command{
	Use:   "detect matrix1 matrix2 tads1.csv tads2.csv",
	Short: "Find and score split and merge events",
	Long: `
Detect function:
Given two TAD tables called on two Hi-C maps, find every TAD of one map that
holds two or more TADs of the other map. A TAD of the first map holding TADs
of the second map is a split, the reverse is a merge. Each event is scored
with a Mann-Whitney U test between the contacts inside the small TADs and the
contacts between adjacent small TADs, on the log-ratio of the two maps.

A contact matrix is either a BAM file of Hi-C read pairs, a directory of
<chrom>.npy dense matrices, or the text output of "cooler dump --join".
Text pixels carry no chromosome lengths, pass --chromsizes so that both maps
agree on them.
The two TAD tables need the columns chrom, start and end.

Writes split_coords.csv and merge_coords.csv to the output directory.
`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tadsplit.Detector{
			Matrix1: args[0], Matrix2: args[1], ChromSizes: chromSizes,
			TADFile1: args[2], TADFile2: args[3],
			Resolution: resolution, Binsize: binsize, Flexibility: flexibility,
			OutDir: outDir, Compression: compression,
			FDR: fdr, DumpDir: dumpDir, ReportFile: reportFile,
		}
		banner(fmt.Sprintf("Detection started (resolution = %d, binsize = %d)", resolution, binsize))
		res, err := p.Run()
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match tads1.csv tads2.csv",
	Short: "Find candidate split and merge events without scoring",
	Long: `
Match function:
Only run the interval matching between the two TAD tables, no contact
matrices needed. The tables have the same layout as the ones of "detect",
minus the pvalue column.
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tadsplit.Detector{
			TADFile1: args[0], TADFile2: args[1],
			Binsize: binsize, Flexibility: flexibility,
			OutDir: outDir, Compression: compression,
			ReportFile: reportFile, SkipScoring: true,
		}
		banner(fmt.Sprintf("Matching started (binsize = %d)", binsize))
		res, err := p.Run()
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

// printResult shows the summary of a successful run
func printResult(res *tadsplit.Result) {
	log.Notice("Success")
	fmt.Printf("Total TADs count on first|second map: (%d, %d)\n", res.TADCounts[0], res.TADCounts[1])
	fmt.Printf("The number of splits|merges: (%d, %d)\n", res.Splits(), res.Merges())
	fmt.Printf("Output location:\n")
	for _, opt := range tadsplit.Options {
		fmt.Printf("  %s\n", res.Outputs[opt])
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every candidate group")
	for _, cmd := range []*cobra.Command{detectCmd, matchCmd} {
		cmd.Flags().IntVar(&binsize, "binsize", tadsplit.DefaultBinsize, "Bin size used to widen TADs for matching")
		cmd.Flags().Float64Var(&flexibility, "flexibility", tadsplit.DefaultFlexibility, "Allowed excess of the small TADs over the main TAD size")
		cmd.Flags().StringVarP(&outDir, "outdir", "o", ".", "Output directory")
		cmd.Flags().StringVar(&compression, "compress", "", "Compress the tables: gz or lz4")
		cmd.Flags().StringVar(&reportFile, "report", "", "Write a json summary here (- for stdout)")
	}
	detectCmd.Flags().IntVarP(&resolution, "resolution", "r", tadsplit.DefaultResolution, "Resolution of the contact matrices")
	detectCmd.Flags().BoolVar(&fdr, "fdr", false, "Add Benjamini-Hochberg q-values")
	detectCmd.Flags().StringVar(&chromSizes, "chromsizes", "", "Chromosome lengths (chrom<TAB>length), e.g. from cooler dump -t chroms")
	detectCmd.Flags().StringVar(&dumpDir, "dump", "", "Write the difference matrix of each event as npy into this directory")

	rootCmd.AddCommand(detectCmd, matchCmd)
}

// Execute runs the command line
func Execute() error {
	return rootCmd.Execute()
}
