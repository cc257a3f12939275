package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func getColorizedLogo() string {
	return cyan("⣿⣶⣦⣄⣀ fastqp")
}

// Custom help function with nicely formatted, colorized usage text
func helpFunc(cmd *cobra.Command, args []string) {
	fmt.Printf(`
%s

%s
  Subsamples reads from FASTQ or SAM input, tallies per-cycle
  nucleotide, quality, kmer and mismatch distributions, and writes a
  tidy tab-separated report. Optionally estimates the duplication rate
  and renders a zip archive of figures.

%s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s

%s
  # FASTQ input, tidy report to stdout
  %s

  # Gzipped input with an explicit sampling stride, figures included
  %s

  # SAM input, aligned reads only, with duplicate-rate estimation
  %s

  # Streamed input (no read-count estimation, stride defaults to 1)
  %s

`,
		bold(getColorizedLogo()+" v."+VERSION+" - simple NGS read quality assessment"),
		bold(yellow("Description:")),
		bold(yellow("Flags:")),
		cyan("-i, --in")+" <string>          : Input file: .fastq/.fq[.gz] or .sam (use '-' for stdin)",
		cyan("-e, --text")+" <string>        : Tidy text output (default '-' for stdout; .gz/.zst supported)",
		cyan("-o, --output")+" <string>      : Base name for the figure archive (default, 'fastqp_figures')",
		cyan("-f, --figures")+" <bool>       : Write the figure archive (default, false)",
		cyan("-a, --name")+" <string>        : Sample name for report rows (default: input file name)",
		cyan("-q, --quiet")+" <bool>         : Do not print progress or warning messages",
		cyan("-s, --binsize")+" <int>        : Sampling stride override (default: auto)",
		cyan("-n, --nreads")+" <int>         : Number of reads to sample from the input (default, 2000000)",
		cyan("-k, --kmer")+" <int>           : Kmer length for over-represented kmer counts (2-7; default, 5)",
		cyan("-p, --base-probs")+" <string>  : Prior probabilities for A,T,C,G,N (default, '0.25,0.25,0.25,0.25,0.1')",
		cyan("-l, --leftlimit")+" <int>      : Leftmost cycle limit, 1-based (default, 1)",
		cyan("-r, --rightlimit")+" <int>     : Rightmost cycle limit, -1 for none (default, -1)",
		cyan("    --median-qual")+" <int>    : Median quality threshold for failing QC (default, 30)",
		cyan("    --aligned-only")+" <bool>  : Only aligned reads (SAM input)",
		cyan("    --unaligned-only")+" <bool>: Only unaligned reads (SAM input)",
		cyan("-d, --count-duplicates")+"     : Estimate the sequence duplication rate",
		cyan("    --exact-duplicates")+"     : Use the exact (compressed) duplicate store",
		bold(yellow("Usage examples:")),
		cyan("fastqp -i input.fastq"),
		cyan("fastqp -i input.fq.gz -s 10 -f -o figures -e report.tsv"),
		cyan("fastqp -i aligned.sam --aligned-only -d"),
		cyan("cat input.fq | fastqp -i - -e report.tsv"),
	)
}
