// fastqp: simple NGS read quality assessment.
// Subsamples a FASTQ/SAM read stream, tallies per-cycle statistics, and
// emits a tidy report plus optional figures.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

const (
	VERSION      = "1.0.0"
	PHRED_OFFSET = 33

	// records inspected when estimating the input's read count
	SAMPLE_LIMIT = 10000

	DEFAULT_NREADS      = 2000000
	DEFAULT_KMER        = 5
	DEFAULT_MEDIAN_QUAL = 30
	DEFAULT_BASE_PROBS  = "0.25,0.25,0.25,0.25,0.1"
)

// exitFunc is swapped out in tests
var exitFunc = os.Exit

// Define color functions
var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// Flag variables for the root command
var (
	inFile        string
	textFile      string
	figureOutput  string
	writeFigures  bool
	sampleName    string
	quiet         bool
	binSize       int
	nReads        int
	kmerLen       int
	baseProbs     string
	leftLimit     int
	rightLimit    int
	medianQualMin int
	alignedOnly   bool
	unalignedOnly bool
	countDups     bool
	exactDups     bool
	version       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fastqp",
		Short: bold("Simple NGS read quality assessment"),
		Run:   runRoot,
	}

	rootCmd.SetHelpFunc(helpFunc)

	flags := rootCmd.Flags()
	flags.StringVarP(&inFile, "in", "i", "", "Input file: .fastq/.fq[.gz] or .sam (use '-' for stdin)")
	flags.StringVarP(&textFile, "text", "e", "-", "File name for tidy text output (default: stdout)")
	flags.StringVarP(&figureOutput, "output", "o", "fastqp_figures", "Base name for the figure archive")
	flags.BoolVarP(&writeFigures, "figures", "f", false, "Write the figure archive")
	flags.StringVarP(&sampleName, "name", "a", "", "Sample name for report rows (default: input file name)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Do not print progress or warning messages")
	flags.IntVarP(&binSize, "binsize", "s", 0, "Sampling stride override (default: auto)")
	flags.IntVarP(&nReads, "nreads", "n", DEFAULT_NREADS, "Number of reads to sample from the input")
	flags.IntVarP(&kmerLen, "kmer", "k", DEFAULT_KMER, "Length of kmer for over-represented kmer counts (2-7)")
	flags.StringVarP(&baseProbs, "base-probs", "p", DEFAULT_BASE_PROBS, "Probabilities for observing A,T,C,G,N in reads")
	flags.IntVarP(&leftLimit, "leftlimit", "l", 1, "Leftmost cycle limit (1-based)")
	flags.IntVarP(&rightLimit, "rightlimit", "r", -1, "Rightmost cycle limit (-1 for none)")
	flags.IntVar(&medianQualMin, "median-qual", DEFAULT_MEDIAN_QUAL, "Median quality threshold for failing QC")
	flags.BoolVar(&alignedOnly, "aligned-only", false, "Only aligned reads (SAM input)")
	flags.BoolVar(&unalignedOnly, "unaligned-only", false, "Only unaligned reads (SAM input)")
	flags.BoolVarP(&countDups, "count-duplicates", "d", false, "Estimate the sequence duplication rate")
	flags.BoolVar(&exactDups, "exact-duplicates", false, "Use the exact (compressed) duplicate store")
	flags.BoolVarP(&version, "version", "v", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		fmt.Fprintln(os.Stderr, red("Try 'fastqp --help' for more information"))
		exitFunc(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) {
	if version {
		fmt.Printf("fastqp %s\n", VERSION)
		exitFunc(0)
	}

	if inFile == "" {
		helpFunc(cmd, args)
		return
	}

	if err := validateFlags(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		exitFunc(1)
	}

	if err := runMetrics(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		exitFunc(1)
	}
}

func validateFlags() error {
	if kmerLen < 2 || kmerLen > 7 {
		return errors.New("kmer length must be between 2 and 7")
	}
	if leftLimit < 1 {
		return errors.New("leftlimit must be >= 1")
	}
	if alignedOnly && unalignedOnly {
		return errors.New("--aligned-only and --unaligned-only are mutually exclusive")
	}
	if binSize < 0 {
		return errors.New("binsize must be positive")
	}
	if _, err := parseBaseProbs(baseProbs); err != nil {
		return err
	}
	return nil
}

// isSAMFile reports whether path looks like a SAM alignment file,
// ignoring a trailing compression extension.
func isSAMFile(path string) bool {
	base := strings.ToLower(path)
	for _, ext := range []string{".gz", ".zst", ".xz", ".bz2"} {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.HasSuffix(base, ".sam")
}

// defaultSampleName strips the directory and everything after the first
// dot from the input path.
func defaultSampleName(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// runMetrics wires the pipeline: estimate the stride, resolve the
// duplicate-set capability, stream the subsampled reads through the
// aggregator, derive statistics, then report and plot.
func runMetrics() error {
	start := time.Now()
	isSAM := isSAMFile(inFile)

	sample := sampleName
	if sample == "" {
		sample = defaultSampleName(inFile)
	}

	priors, err := parseBaseProbs(baseProbs)
	if err != nil {
		return err
	}

	estRecords, stride, err := estimateInput(inFile, isSAM, nReads, binSize, quiet)
	if err != nil {
		return err
	}

	// Capabilities are resolved before the main loop: a missing
	// duplicate set must fail here, not mid-stream.
	var dupSet DuplicateSet
	if countDups {
		dupSet, err = newDuplicateSet(exactDups)
		if err != nil {
			return err
		}
	}

	var src ReadSource
	if isSAM {
		src, err = newSamSource(inFile)
	} else {
		src, err = newFastxSource(inFile)
	}
	if err != nil {
		return err
	}
	defer src.Close()

	agg := NewAggregator(leftLimit, rightLimit, kmerLen, stride, estRecords)
	agg.AlignedOnly = alignedOnly
	agg.UnalignedOnly = unalignedOnly
	agg.Duplicates = dupSet
	agg.Quiet = quiet

	if err := agg.Run(subsample(src, stride)); err != nil {
		return err
	}

	summary := agg.Summarize(sample, priors, adapterSequences, isSAM)

	outfh, err := xopen.Wopen(textFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %v", err)
	}
	defer outfh.Close()

	if err := writeTidy(outfh, summary); err != nil {
		return fmt.Errorf("error writing report: %v", err)
	}

	if !quiet {
		elapsed := time.Since(start).Truncate(time.Second)
		fmt.Fprintf(os.Stderr, "There were %d reads in the file. Analysis finished in %s.\n",
			summary.Reads, elapsed)
		printWarnings(os.Stderr, summary, medianQualMin)
	}

	if writeFigures {
		plotter := &echartsPlotter{Output: figureOutput}
		if err := plotter.Plot(summary); err != nil {
			// figure output is best effort; the report already exists
			fmt.Fprintln(os.Stderr, yellow("Warning: "+err.Error()))
		}
	}
	return nil
}
