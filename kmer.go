// Kmer statistics: observed/expected ratios against configurable base
// priors, and the regression test flagging kmers with a positional bias.

package main

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	biasSlopeThreshold = 2.0
	biasPThreshold     = 0.05
	maxBiasedKmers     = 10
)

// priorBases fixes the order of the base-probability vector.
var priorBases = [5]byte{'A', 'T', 'C', 'G', 'N'}

// KmerBias describes a kmer whose per-cycle counts show a significant
// linear trend along the read.
type KmerBias struct {
	Kmer  string
	Slope float64
	P     float64
}

// parseBaseProbs parses a comma-separated probability vector for
// A,T,C,G,N, e.g. "0.25,0.25,0.25,0.25,0.1".
func parseBaseProbs(s string) ([5]float64, error) {
	var priors [5]float64
	parts := strings.Split(s, ",")
	if len(parts) != len(priors) {
		return priors, fmt.Errorf("expected 5 base probabilities (A,T,C,G,N), got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return priors, fmt.Errorf("invalid base probability %q: %v", p, err)
		}
		priors[i] = v
	}
	return priors, nil
}

// expectedFraction multiplies, for each base, its prior probability
// raised to the base's occurrence count in the kmer.
func expectedFraction(kmer string, priors [5]float64) float64 {
	fraction := 1.0
	for i, base := range priorBases {
		count := strings.Count(kmer, string(base))
		if count > 0 {
			fraction *= math.Pow(priors[i], float64(count))
		}
	}
	return fraction
}

// kmerStats computes the observed/expected ratio for every kmer seen at
// any position, and flags kmers whose count-versus-position regression
// has |slope| > 2 with a two-sided p-value below 0.05. At most the 10
// most significant flagged kmers are retained, most significant first.
func kmerStats(cycleKmers CycleTally, readLen Histogram, priors [5]float64) (map[string]float64, []KmerBias) {
	positions := cycleKmers.Positions()

	universe := make(map[string]bool)
	for _, symbols := range cycleKmers {
		for kmer := range symbols {
			universe[kmer] = true
		}
	}

	sequencedBases := 0
	for length, count := range readLen {
		sequencedBases += length * count
	}

	ratios := make(map[string]float64, len(universe))
	var biased []KmerBias

	xs := make([]float64, len(positions))
	for i, pos := range positions {
		xs[i] = float64(pos)
	}
	ys := make([]float64, len(positions))

	for kmer := range universe {
		total := 0
		for i, pos := range positions {
			count := cycleKmers[pos][kmer]
			ys[i] = float64(count)
			total += count
		}

		expected := expectedFraction(kmer, priors) * float64(sequencedBases)
		if expected > 0 {
			ratios[kmer] = float64(total) / expected
		}

		slope, p := regressionSlope(xs, ys)
		if math.Abs(slope) > biasSlopeThreshold && p < biasPThreshold {
			biased = append(biased, KmerBias{Kmer: kmer, Slope: slope, P: p})
		}
	}

	sort.Slice(biased, func(i, j int) bool {
		if biased[i].P != biased[j].P {
			return biased[i].P < biased[j].P
		}
		return biased[i].Kmer < biased[j].Kmer
	})
	if len(biased) > maxBiasedKmers {
		biased = biased[:maxBiasedKmers]
	}
	return ratios, biased
}

// regressionSlope fits an ordinary least-squares line to (xs, ys) and
// returns the slope with the two-sided p-value of its t statistic.
// Fewer than three points cannot reject anything: p is 1.
func regressionSlope(xs, ys []float64) (slope, p float64) {
	n := len(xs)
	if n < 3 {
		return 0, 1
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	meanX := stat.Mean(xs, nil)
	var ssr, sxx float64
	for i := range xs {
		resid := ys[i] - (alpha + beta*xs[i])
		ssr += resid * resid
		dx := xs[i] - meanX
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, 1
	}

	se := math.Sqrt(ssr / float64(n-2) / sxx)
	if se == 0 {
		// perfect fit: a nonzero slope is unambiguous
		if beta == 0 {
			return 0, 1
		}
		return beta, 0
	}

	t := beta / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return beta, 2 * dist.CDF(-math.Abs(t))
}

// adapterKmers returns the set of all kmers of length k occurring in
// the known adapter sequences. The engine only supplies the set; the
// plotter compares it against the observed kmer positions.
func adapterKmers(adapters []string, k int) map[string]bool {
	set := make(map[string]bool)
	for _, adapter := range adapters {
		for i := 0; i+k <= len(adapter); i++ {
			set[adapter[i:i+k]] = true
		}
	}
	return set
}
