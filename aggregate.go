// Single-pass streaming aggregation of per-cycle tallies over the
// subsampled read stream.

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// CycleTally maps a 1-based cycle position to symbol counts. Symbols
// are nucleotides, quality characters, or kmer strings depending on the
// tally. Counts are only ever incremented.
type CycleTally map[int]map[string]int

func (t CycleTally) Inc(pos int, symbol string) {
	m, ok := t[pos]
	if !ok {
		m = make(map[string]int)
		t[pos] = m
	}
	m[symbol]++
}

// Total returns the sum of all symbol counts at pos.
func (t CycleTally) Total(pos int) int {
	sum := 0
	for _, c := range t[pos] {
		sum += c
	}
	return sum
}

// Positions returns the tallied cycle positions in ascending order.
func (t CycleTally) Positions() []int {
	positions := make([]int, 0, len(t))
	for pos := range t {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}

// Merge adds other into t element-wise. Merging is associative and
// commutative, which is all a partitioned ingestion scheme needs to
// combine per-partition tallies before the statistics pass.
func (t CycleTally) Merge(other CycleTally) {
	for pos, symbols := range other {
		for symbol, count := range symbols {
			m, ok := t[pos]
			if !ok {
				m = make(map[string]int)
				t[pos] = m
			}
			m[symbol] += count
		}
	}
}

// Histogram counts occurrences of an integer-valued observation, such
// as read length or GC percentage.
type Histogram map[int]int

func (h Histogram) Merge(other Histogram) {
	for k, v := range other {
		h[k] += v
	}
}

// Aggregator owns the tally structures for the duration of the pass.
// All fields are written only by Run and read-only afterwards.
type Aggregator struct {
	LeftLimit  int
	RightLimit int
	Kmer       int

	// Stride weighting and estimated totals for progress reporting.
	// EstRecords == 0 disables percent-complete notices.
	Stride     int
	EstRecords int

	AlignedOnly   bool
	UnalignedOnly bool

	// Duplicates is nil when duplicate tracking is disabled.
	Duplicates DuplicateSet

	Quiet    bool
	Progress io.Writer

	CycleNuc      CycleTally
	CycleQual     CycleTally
	CycleKmer     CycleTally
	CycleMismatch map[byte]CycleTally
	ReadLen       Histogram
	ReadGC        Histogram

	DuplicateReads int
	// ReadsProcessed advances by the stride weight for every record
	// seen, including reads skipped by role filters or windowing.
	ReadsProcessed int

	start       time.Time
	nextPercent int
}

// NewAggregator returns an Aggregator with empty tallies and the cycle
// window [leftLimit, rightLimit] (1-based inclusive, rightLimit < 0
// meaning "to end").
func NewAggregator(leftLimit, rightLimit, kmer, stride, estRecords int) *Aggregator {
	return &Aggregator{
		LeftLimit:  leftLimit,
		RightLimit: rightLimit,
		Kmer:       kmer,
		Stride:     stride,
		EstRecords: estRecords,
		Progress:   os.Stderr,
		CycleNuc:   make(CycleTally),
		CycleQual:  make(CycleTally),
		CycleKmer:  make(CycleTally),
		CycleMismatch: map[byte]CycleTally{
			'A': make(CycleTally),
			'C': make(CycleTally),
			'G': make(CycleTally),
			'T': make(CycleTally),
		},
		ReadLen:     make(Histogram),
		ReadGC:      make(Histogram),
		nextPercent: 10,
	}
}

// windowStatus reports what a read contributed to the tallies.
type windowStatus int

const (
	windowOK windowStatus = iota
	// windowEmpty marks reads whose trimmed window holds no bases.
	// They count toward ReadsProcessed but contribute no tallies;
	// the percent-complete reporting depends on that total.
	windowEmpty
)

// applyWindow trims seq, qual and ref (ref may be nil) to the cycle
// window. The window never errors: limits beyond the read's length
// simply leave nothing behind.
func (a *Aggregator) applyWindow(seq, qual, ref []byte) (s, q, r []byte, status windowStatus) {
	lo := a.LeftLimit - 1
	hi := len(seq)
	if a.RightLimit > 0 && a.RightLimit < hi {
		hi = a.RightLimit
	}
	if lo < 0 {
		lo = 0
	}
	if lo >= hi {
		return nil, nil, nil, windowEmpty
	}
	s, q = seq[lo:hi], qual[lo:hi]
	if ref != nil && len(ref) == len(seq) {
		r = ref[lo:hi]
	}
	return s, q, r, windowOK
}

// Run consumes the stream exactly once, in order, updating every tally.
func (a *Aggregator) Run(src ReadSource) error {
	a.start = time.Now()
	for {
		read, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		a.tally(read)
		a.progress()
		a.ReadsProcessed += a.Stride
	}
	return nil
}

func (a *Aggregator) tally(read *Read) {
	if read.Aligned {
		if a.AlignedOnly && !read.Mapped {
			return
		}
		if a.UnalignedOnly && read.Mapped {
			return
		}
	}

	seq, qual := read.Seq, read.Qual

	// Derive the reference before any reversal: the MD tag describes
	// the read in genomic orientation. Malformed metadata is never
	// fatal; the read just loses its mismatch tallies.
	var ref []byte
	if read.Aligned && read.Mapped && read.MD != "" {
		ref, _ = decodeMD(seq, read.MD)
	}

	// Reverse-strand reads are flipped so cycle positions follow
	// sequencing order, not genomic order.
	if read.Aligned && read.Reverse {
		seq = append([]byte(nil), seq...)
		qual = append([]byte(nil), qual...)
		reverseBytes(seq)
		reverseBytes(qual)
		if ref != nil {
			reverseBytes(ref)
		}
	}

	seq, qual, ref, status := a.applyWindow(seq, qual, ref)
	if status == windowEmpty || len(seq) == 0 {
		return
	}

	a.ReadGC[gcPercent(seq)]++

	if a.Duplicates != nil {
		if a.Duplicates.Contains(seq) {
			a.DuplicateReads++
		} else {
			a.Duplicates.Insert(seq)
		}
	}

	for i := range seq {
		pos := a.LeftLimit + i
		a.CycleNuc.Inc(pos, string(seq[i]))
		a.CycleQual.Inc(pos, string(qual[i]))
	}
	a.ReadLen[len(qual)]++

	for i := 0; i+a.Kmer <= len(seq); i++ {
		a.CycleKmer.Inc(a.LeftLimit+i, string(seq[i:i+a.Kmer]))
	}

	if read.Aligned && read.Mapped && ref != nil {
		for i := range seq {
			if i >= len(ref) || seq[i] == ref[i] {
				continue
			}
			tally, ok := a.CycleMismatch[ref[i]]
			if !ok {
				// unrecognized reference base: drop this observation
				continue
			}
			tally.Inc(a.LeftLimit+i, string(seq[i]))
		}
	}
}

// gcPercent returns the integer GC percentage of seq. A zero-length
// sequence is defined as 0 rather than an error.
func gcPercent(seq []byte) int {
	if len(seq) == 0 {
		return 0
	}
	gc := 0
	for _, b := range seq {
		if b == 'G' || b == 'C' {
			gc++
		}
	}
	return 100 * gc / len(seq)
}

// progress emits a notice at each 10-percentage-point threshold of
// estimated completion. Reporting only: no effect on tallies.
func (a *Aggregator) progress() {
	if a.Quiet || a.EstRecords <= 0 || a.Progress == nil {
		return
	}
	for float64(a.ReadsProcessed)/float64(a.EstRecords)*100 >= float64(a.nextPercent) && a.nextPercent <= 100 {
		elapsed := time.Since(a.start).Truncate(time.Second)
		fmt.Fprintf(a.Progress, "Approximately %d%% complete at read %d in %s\n",
			a.nextPercent, a.ReadsProcessed, elapsed)
		a.nextPercent += 10
	}
}
