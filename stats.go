// Derived statistics: histogram quantiles, per-cycle GC, median
// quality, and assembly of the Summary handed to reporting and plotting.

package main

import (
	"math"
	"sort"
)

var quantileFracs = []float64{0.05, 0.25, 0.5, 0.75, 0.95}

// percentile computes the empirical quantile at frac from a value-count
// histogram, interpolating linearly between order statistics. This is a
// percentile of the histogram, not of raw samples.
func percentile(hist map[int]int, frac float64) float64 {
	n := 0
	values := make([]int, 0, len(hist))
	for v, c := range hist {
		if c <= 0 {
			continue
		}
		values = append(values, v)
		n += c
	}
	if n == 0 {
		return 0
	}
	sort.Ints(values)

	// value of the rank-th order statistic (0-based)
	valueAt := func(rank int) float64 {
		cum := 0
		for _, v := range values {
			cum += hist[v]
			if rank < cum {
				return float64(v)
			}
		}
		return float64(values[len(values)-1])
	}

	k := float64(n-1) * frac
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return valueAt(int(k))
	}
	return valueAt(int(f))*(c-k) + valueAt(int(c))*(k-f)
}

// cycleQuantiles re-keys the quality tally from symbol to Phred score
// and computes q05..q95 for every cycle position. quantiles[i] holds
// the five values for positions[i].
func cycleQuantiles(cycleQual CycleTally) (positions []int, quantiles [][]float64) {
	positions = cycleQual.Positions()
	quantiles = make([][]float64, len(positions))
	for i, pos := range positions {
		hist := qualityHistogram(cycleQual[pos])
		row := make([]float64, len(quantileFracs))
		for j, frac := range quantileFracs {
			row[j] = percentile(hist, frac)
		}
		quantiles[i] = row
	}
	return positions, quantiles
}

// qualityHistogram converts symbol counts to Phred-score counts.
func qualityHistogram(symbols map[string]int) map[int]int {
	hist := make(map[int]int, len(symbols))
	for sym, count := range symbols {
		if len(sym) == 0 {
			continue
		}
		hist[int(sym[0])-PHRED_OFFSET] += count
	}
	return hist
}

// medianQuality is the overall median base quality across all cycles.
func medianQuality(cycleQual CycleTally) float64 {
	combined := make(map[int]int)
	for _, symbols := range cycleQual {
		for sym, count := range symbols {
			if len(sym) == 0 {
				continue
			}
			combined[int(sym[0])-PHRED_OFFSET] += count
		}
	}
	return percentile(combined, 0.5)
}

// positionGC computes the GC percentage at each cycle position. A
// position with no A/C/G/T calls is defined as 0.
func positionGC(cycleNuc CycleTally, positions []int) []float64 {
	posGC := make([]float64, len(positions))
	for i, pos := range positions {
		counts := cycleNuc[pos]
		gc := counts["C"] + counts["G"]
		acgt := gc + counts["A"] + counts["T"]
		if acgt == 0 {
			continue
		}
		posGC[i] = float64(gc) / float64(acgt) * 100
	}
	return posGC
}

// observedBases returns the sorted set of nucleotide symbols seen at
// any cycle position.
func observedBases(cycleNuc CycleTally) []string {
	set := make(map[string]bool)
	for _, symbols := range cycleNuc {
		for sym := range symbols {
			set[sym] = true
		}
	}
	bases := make([]string, 0, len(set))
	for sym := range set {
		bases = append(bases, sym)
	}
	sort.Strings(bases)
	return bases
}

// Summary is the read-only result of a completed pass: the raw tallies
// plus every derived statistic, in the shape consumed by the tidy
// report and the Plotter.
type Summary struct {
	Sample string

	// Reads is the stride-weighted processed-read total.
	Reads int

	Positions []int
	Quantiles [][]float64 // per position: q05, q25, q50, q75, q95

	MedianQual float64

	ReadLen Histogram
	ReadGC  Histogram
	PosGC   []float64

	Bases         []string
	CycleNuc      CycleTally
	CycleQual     CycleTally
	CycleKmer     CycleTally
	CycleMismatch map[byte]CycleTally

	KmerRatios   map[string]float64
	BiasedKmers  []KmerBias
	AdapterKmers map[string]bool

	CountDuplicates bool
	DuplicateRate   float64

	Aligned bool
}

// Summarize runs the derived-statistics pass over the aggregator's
// tallies. The tallies themselves are not modified.
func (a *Aggregator) Summarize(sample string, priors [5]float64, adapters []string, aligned bool) *Summary {
	positions, quantiles := cycleQuantiles(a.CycleQual)

	s := &Summary{
		Sample:        sample,
		Reads:         a.ReadsProcessed,
		Positions:     positions,
		Quantiles:     quantiles,
		MedianQual:    medianQuality(a.CycleQual),
		ReadLen:       a.ReadLen,
		ReadGC:        a.ReadGC,
		PosGC:         positionGC(a.CycleNuc, positions),
		Bases:         observedBases(a.CycleNuc),
		CycleNuc:      a.CycleNuc,
		CycleQual:     a.CycleQual,
		CycleKmer:     a.CycleKmer,
		CycleMismatch: a.CycleMismatch,
		AdapterKmers:  adapterKmers(adapters, a.Kmer),
		Aligned:       aligned,
	}
	s.KmerRatios, s.BiasedKmers = kmerStats(a.CycleKmer, a.ReadLen, priors)

	if a.Duplicates != nil {
		s.CountDuplicates = true
		if a.ReadsProcessed > 0 {
			s.DuplicateRate = float64(a.DuplicateReads) / float64(a.ReadsProcessed)
		}
	}
	return s
}
