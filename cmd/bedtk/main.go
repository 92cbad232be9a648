// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
bedtk is a thin subcommand dispatcher over the sweep package's streaming
interval operations. Argument parsing and file plumbing live here; every
algorithm lives in package sweep.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/biogo/hts/bam"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/bedsweep/bed"
	"github.com/grailbio/bedsweep/genome"
	"github.com/grailbio/bedsweep/sweep"
)

func bedtkUsage() {
	fmt.Printf("Usage: %s <command> [OPTIONS]\n", os.Args[0])
	fmt.Printf("Commands: intersect, subtract, merge, closest, coverage, window, genomecov, complement, multiinter, jaccard\n")
}

func main() {
	flag.Usage = bedtkUsage
	shutdown := grail.Init()
	defer shutdown()

	if len(os.Args) < 2 {
		bedtkUsage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "intersect":
		err = runIntersect(args)
	case "subtract":
		err = runSubtract(args)
	case "merge":
		err = runMerge(args)
	case "closest":
		err = runClosest(args)
	case "coverage":
		err = runCoverage(args)
	case "window":
		err = runWindow(args)
	case "genomecov":
		err = runGenomecov(args)
	case "complement":
		err = runComplement(args)
	case "multiinter":
		err = runMultiinter(args)
	case "jaccard":
		err = runJaccard(args)
	case "-h", "--help", "help":
		bedtkUsage()
		return
	default:
		log.Fatalf("unknown command %q", cmd)
	}
	if err != nil {
		log.Panicf("%s: %v", cmd, err)
	}
}

// openScanner opens path with OpenScanner, or wraps os.Stdin when path is
// "-" or empty.
func openScanner(path string) (*bed.Scanner, error) {
	if path == "" || path == "-" {
		return bed.NewScanner(os.Stdin), nil
	}
	return bed.OpenScanner(vcontext.Background(), path)
}

func openOutput(path string) (*bed.Writer, func() error, error) {
	if path == "" || path == "-" {
		return bed.NewWriter(os.Stdout), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return bed.NewWriter(f), f.Close, nil
}

func loadGenome(path string) (*genome.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return genome.Load(f)
}

// loadGenomeFromBAM builds a genome.Table from a BAM file's header, the
// same reference-list source interval.NewBEDOpts.SAMHeader reads, letting
// genomecov/complement work against an aligned-read file directly instead
// of a separate genome file.
func loadGenomeFromBAM(path string) (*genome.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, err
	}
	return genome.NewFromSAMHeader(br.Header()), nil
}

// loadGenomeFlags resolves the -g/-ibam genome source flags shared by
// genomecov and complement; exactly one of genomePath, bamPath must be set.
func loadGenomeFlags(cmd, genomePath, bamPath string) (*genome.Table, error) {
	switch {
	case genomePath != "" && bamPath != "":
		return nil, fmt.Errorf("%s: -g and -ibam are mutually exclusive", cmd)
	case genomePath != "":
		return loadGenome(genomePath)
	case bamPath != "":
		return loadGenomeFromBAM(bamPath)
	default:
		return nil, fmt.Errorf("%s: one of -g or -ibam is required", cmd)
	}
}

func runIntersect(args []string) error {
	fs := flag.NewFlagSet("intersect", flag.ExitOnError)
	a := fs.String("a", "", "input A BED path")
	b := fs.String("b", "", "input B BED path")
	out := fs.String("o", "-", "output path (- for stdout)")
	var cfg sweep.IntersectConfig
	fs.BoolVar(&cfg.WriteA, "wa", false, "write original A entry")
	fs.BoolVar(&cfg.WriteB, "wb", false, "write original B entry")
	fs.BoolVar(&cfg.Count, "c", false, "report count of overlaps per A")
	fs.BoolVar(&cfg.Unique, "u", false, "report each A once if any overlap")
	fs.BoolVar(&cfg.NoOverlap, "v", false, "report A entries with no overlap")
	fs.Float64Var(&cfg.FractionA, "f", 0, "minimum overlap fraction of A")
	fs.Float64Var(&cfg.FractionB, "F", 0, "minimum overlap fraction of B")
	fs.BoolVar(&cfg.Reciprocal, "r", false, "require reciprocal fraction")
	fs.BoolVar(&cfg.SameStrand, "s", false, "require same strand")
	fs.BoolVar(&cfg.OppositeStrand, "S", false, "require opposite strand")
	if err := fs.Parse(args); err != nil {
		return err
	}

	aSc, err := openScanner(*a)
	if err != nil {
		return err
	}
	defer aSc.Close()
	bSc, err := openScanner(*b)
	if err != nil {
		return err
	}
	defer bSc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Intersect(aSc, bSc, w, cfg)
}

func runSubtract(args []string) error {
	fs := flag.NewFlagSet("subtract", flag.ExitOnError)
	a := fs.String("a", "", "input A BED path")
	b := fs.String("b", "", "input B BED path")
	out := fs.String("o", "-", "output path (- for stdout)")
	var cfg sweep.SubtractConfig
	fs.BoolVar(&cfg.RemoveEntire, "A", false, "remove entire A feature on any overlap")
	fs.Float64Var(&cfg.Fraction, "f", 0, "minimum overlap fraction of A to count")
	fs.BoolVar(&cfg.Reciprocal, "r", false, "require reciprocal fraction")
	if err := fs.Parse(args); err != nil {
		return err
	}

	aSc, err := openScanner(*a)
	if err != nil {
		return err
	}
	defer aSc.Close()
	bSc, err := openScanner(*b)
	if err != nil {
		return err
	}
	defer bSc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Subtract(aSc, bSc, w, cfg)
}

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	in := fs.String("i", "-", "input BED path (- for stdin)")
	out := fs.String("o", "-", "output path (- for stdout)")
	var cfg sweep.MergeConfig
	fs.Int64Var(&cfg.Distance, "d", 0, "maximum gap between features to merge")
	fs.BoolVar(&cfg.StrandSpecific, "s", false, "only merge features on the same strand")
	fs.BoolVar(&cfg.Count, "c", false, "report count of merged features")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sc, err := openScanner(*in)
	if err != nil {
		return err
	}
	defer sc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Merge(sc, w, cfg)
}

func runClosest(args []string) error {
	fs := flag.NewFlagSet("closest", flag.ExitOnError)
	a := fs.String("a", "", "input A BED path")
	b := fs.String("b", "", "input B BED path")
	out := fs.String("o", "-", "output path (- for stdout)")
	cfg := sweep.DefaultClosestConfig()
	fs.BoolVar(&cfg.IgnoreOverlaps, "io", false, "ignore overlapping B features")
	fs.BoolVar(&cfg.IgnoreUpstream, "iu", false, "ignore upstream B features")
	fs.BoolVar(&cfg.IgnoreDownstream, "id", false, "ignore downstream B features")
	firstTieOnly := fs.Bool("t-first", false, "report only the first tied match instead of all ties")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.ReportAllTies = !*firstTieOnly

	aSc, err := openScanner(*a)
	if err != nil {
		return err
	}
	defer aSc.Close()
	bSc, err := openScanner(*b)
	if err != nil {
		return err
	}
	defer bSc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Closest(aSc, bSc, w, cfg)
}

func runCoverage(args []string) error {
	fs := flag.NewFlagSet("coverage", flag.ExitOnError)
	a := fs.String("a", "", "input A BED path")
	b := fs.String("b", "", "input B BED path")
	out := fs.String("o", "-", "output path (- for stdout)")
	var cfg sweep.CoverageConfig
	fs.BoolVar(&cfg.PerBase, "d", false, "report per-base depth")
	fs.BoolVar(&cfg.Histogram, "hist", false, "report a depth histogram")
	fs.BoolVar(&cfg.Mean, "mean", false, "report mean depth per A")
	if err := fs.Parse(args); err != nil {
		return err
	}

	aSc, err := openScanner(*a)
	if err != nil {
		return err
	}
	defer aSc.Close()
	bSc, err := openScanner(*b)
	if err != nil {
		return err
	}
	defer bSc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Coverage(aSc, bSc, w, cfg)
}

func runWindow(args []string) error {
	fs := flag.NewFlagSet("window", flag.ExitOnError)
	a := fs.String("a", "", "input A BED path")
	b := fs.String("b", "", "input B BED path")
	out := fs.String("o", "-", "output path (- for stdout)")
	var cfg sweep.WindowConfig
	fs.Int64Var(&cfg.Window, "w", 1000, "symmetric window size")
	fs.Int64Var(&cfg.Left, "l", 0, "left window size (overrides -w)")
	fs.Int64Var(&cfg.Right, "r", 0, "right window size (overrides -w)")
	fs.BoolVar(&cfg.Count, "c", false, "report count of matches per A")
	fs.BoolVar(&cfg.NoOverlap, "v", false, "report A entries with no match in window")
	if err := fs.Parse(args); err != nil {
		return err
	}

	aSc, err := openScanner(*a)
	if err != nil {
		return err
	}
	defer aSc.Close()
	bSc, err := openScanner(*b)
	if err != nil {
		return err
	}
	defer bSc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Window(aSc, bSc, w, cfg)
}

func runGenomecov(args []string) error {
	fs := flag.NewFlagSet("genomecov", flag.ExitOnError)
	in := fs.String("i", "-", "input BED path (- for stdin)")
	genomePath := fs.String("g", "", "genome file path (chrom<TAB>size)")
	bamPath := fs.String("ibam", "", "BAM file path to read the genome from its header")
	out := fs.String("o", "-", "output path (- for stdout)")
	bg := fs.Bool("bg", false, "report BedGraph (skip depth-0 regions)")
	bga := fs.Bool("bga", false, "report BedGraph (include depth-0 regions)")
	perBase := fs.Bool("d", false, "report per-base depth")
	var cfg sweep.GenomecovConfig
	fs.Float64Var(&cfg.Scale, "scale", 0, "scale depth by this factor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch {
	case *bg:
		cfg.Mode = sweep.GenomecovBedGraph
	case *bga:
		cfg.Mode = sweep.GenomecovBedGraphAll
	case *perBase:
		cfg.Mode = sweep.GenomecovPerBase
	default:
		cfg.Mode = sweep.GenomecovHistogram
	}

	g, err := loadGenomeFlags("genomecov", *genomePath, *bamPath)
	if err != nil {
		return err
	}
	sc, err := openScanner(*in)
	if err != nil {
		return err
	}
	defer sc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Genomecov(sc, g, w, cfg)
}

func runComplement(args []string) error {
	fs := flag.NewFlagSet("complement", flag.ExitOnError)
	in := fs.String("i", "-", "input BED path (- for stdin)")
	genomePath := fs.String("g", "", "genome file path (chrom<TAB>size)")
	bamPath := fs.String("ibam", "", "BAM file path to read the genome from its header")
	out := fs.String("o", "-", "output path (- for stdout)")
	var cfg sweep.ComplementConfig
	fs.BoolVar(&cfg.AssumeGenomeOrder, "L", false, "assume input is already in genome-table order")
	fs.BoolVar(&cfg.ErrorOnUnknownChromosome, "strict", false, "error on chromosomes absent from the genome file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := loadGenomeFlags("complement", *genomePath, *bamPath)
	if err != nil {
		return err
	}
	sc, err := openScanner(*in)
	if err != nil {
		return err
	}
	defer sc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Complement(sc, g, w, cfg)
}

func runMultiinter(args []string) error {
	fs := flag.NewFlagSet("multiinter", flag.ExitOnError)
	out := fs.String("o", "-", "output path (- for stdout)")
	var cfg sweep.MultiinterConfig
	fs.BoolVar(&cfg.Cluster, "cluster", false, "report only regions where every input is active")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("multiinter: at least one input BED path is required")
	}

	scanners := make([]*bed.Scanner, len(paths))
	for i, p := range paths {
		sc, err := openScanner(p)
		if err != nil {
			return err
		}
		defer sc.Close()
		scanners[i] = sc
	}
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Multiinter(scanners, w, cfg)
}

func runJaccard(args []string) error {
	fs := flag.NewFlagSet("jaccard", flag.ExitOnError)
	a := fs.String("a", "", "input A BED path")
	b := fs.String("b", "", "input B BED path")
	out := fs.String("o", "-", "output path (- for stdout)")
	var cfg sweep.JaccardConfig
	fs.BoolVar(&cfg.SameStrand, "s", false, "require same strand")
	fs.Float64Var(&cfg.FractionA, "f", 0, "minimum overlap fraction of A")
	fs.Float64Var(&cfg.FractionB, "F", 0, "minimum overlap fraction of B")
	fs.BoolVar(&cfg.Reciprocal, "r", false, "require reciprocal fraction")
	if err := fs.Parse(args); err != nil {
		return err
	}

	aSc, err := openScanner(*a)
	if err != nil {
		return err
	}
	defer aSc.Close()
	bSc, err := openScanner(*b)
	if err != nil {
		return err
	}
	defer bSc.Close()
	w, closeOut, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOut()

	return sweep.Jaccard(aSc, bSc, w, cfg)
}
