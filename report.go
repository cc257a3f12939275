// Tidy text output and QC warnings. Downstream tooling depends on the
// exact row order and column semantics, so the blocks below are written
// in a fixed sequence: reads, read_len, quantiles, per-base counts,
// pos_gc, read_gc 0-100, kmer obs/exp, optional duplicate rate.

package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
)

var quantileColumns = []string{"q05", "q25", "q50", "q75", "q95"}

func tidyInt(w io.Writer, sample, column, pos string, value int) error {
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", sample, column, pos, value)
	return err
}

func tidyFloat(w io.Writer, sample, column, pos string, value float64) error {
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sample, column, pos,
		strconv.FormatFloat(value, 'g', -1, 64))
	return err
}

// writeTidy writes one line per (sample, metric, position, value)
// observation, tab-separated. Positionless rows carry "None".
func writeTidy(w io.Writer, s *Summary) error {
	if err := tidyInt(w, s.Sample, "reads", "None", s.Reads); err != nil {
		return err
	}

	lengths := make([]int, 0, len(s.ReadLen))
	for length := range s.ReadLen {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	for _, length := range lengths {
		if err := tidyInt(w, s.Sample, "read_len", strconv.Itoa(length), s.ReadLen[length]); err != nil {
			return err
		}
	}

	for i, pos := range s.Positions {
		for j, column := range quantileColumns {
			if err := tidyFloat(w, s.Sample, column, strconv.Itoa(pos), s.Quantiles[i][j]); err != nil {
				return err
			}
		}
	}

	for _, base := range s.Bases {
		for _, pos := range s.Positions {
			if err := tidyInt(w, s.Sample, base, strconv.Itoa(pos), s.CycleNuc[pos][base]); err != nil {
				return err
			}
		}
	}

	for i, pos := range s.Positions {
		if err := tidyFloat(w, s.Sample, "pos_gc", strconv.Itoa(pos), s.PosGC[i]); err != nil {
			return err
		}
	}

	for pct := 0; pct <= 100; pct++ {
		if err := tidyInt(w, s.Sample, "read_gc", strconv.Itoa(pct), s.ReadGC[pct]); err != nil {
			return err
		}
	}

	kmers := make([]string, 0, len(s.KmerRatios))
	for kmer := range s.KmerRatios {
		kmers = append(kmers, kmer)
	}
	// ascending by ratio, kmer string breaking ties
	sort.Slice(kmers, func(i, j int) bool {
		ri, rj := s.KmerRatios[kmers[i]], s.KmerRatios[kmers[j]]
		if ri != rj {
			return ri < rj
		}
		return kmers[i] < kmers[j]
	})
	for _, kmer := range kmers {
		if err := tidyFloat(w, s.Sample, kmer, "None", s.KmerRatios[kmer]); err != nil {
			return err
		}
	}

	if s.CountDuplicates {
		if err := tidyFloat(w, s.Sample, "duplicate", "None", s.DuplicateRate); err != nil {
			return err
		}
	}
	return nil
}

// printWarnings emits the advisory QC warnings. They never affect the
// exit status.
func printWarnings(w io.Writer, s *Summary, medianQualThreshold int) {
	for _, bias := range s.BiasedKmers {
		fmt.Fprintln(w, yellow(fmt.Sprintf(
			"KmerWarning: kmer %s has a non-uniform profile (slope = %g, p = %g).",
			bias.Kmer, bias.Slope, bias.P)))
	}
	if s.MedianQual < float64(medianQualThreshold) {
		fmt.Fprintln(w, yellow(fmt.Sprintf(
			"QualityWarning: median base quality score is %g.", s.MedianQual)))
	}
}
