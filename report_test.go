package main

import (
	"strings"
	"testing"
)

func testSummary() *Summary {
	return &Summary{
		Sample:    "sample1",
		Reads:     8,
		Positions: []int{1, 2},
		Quantiles: [][]float64{
			{30, 32, 35, 38, 40},
			{28, 30, 33, 36, 39},
		},
		MedianQual: 35,
		ReadLen:    Histogram{2: 8},
		ReadGC:     Histogram{50: 8},
		PosGC:      []float64{50, 50},
		Bases:      []string{"A", "C"},
		CycleNuc: CycleTally{
			1: {"A": 8},
			2: {"C": 8},
		},
		KmerRatios: map[string]float64{
			"AC": 1.5,
			"CA": 0.5,
		},
	}
}

func TestWriteTidyRowOrder(t *testing.T) {
	var buf strings.Builder
	if err := writeTidy(&buf, testSummary()); err != nil {
		t.Fatalf("writeTidy() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	// reads, 1 read_len, 2*5 quantiles, 2 bases * 2 positions,
	// 2 pos_gc, 101 read_gc, 2 kmers
	wantLines := 1 + 1 + 10 + 4 + 2 + 101 + 2
	if len(lines) != wantLines {
		t.Fatalf("got %d lines, want %d", len(lines), wantLines)
	}

	wantPrefix := []string{
		"sample1\treads\tNone\t8",
		"sample1\tread_len\t2\t8",
		"sample1\tq05\t1\t30",
		"sample1\tq25\t1\t32",
		"sample1\tq50\t1\t35",
		"sample1\tq75\t1\t38",
		"sample1\tq95\t1\t40",
		"sample1\tq05\t2\t28",
	}
	for i, want := range wantPrefix {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}

	// base counts follow the quantile block, base-major
	if lines[12] != "sample1\tA\t1\t8" {
		t.Errorf("line 12 = %q, want A count at position 1", lines[12])
	}
	if lines[13] != "sample1\tA\t2\t0" {
		t.Errorf("line 13 = %q, want zero A count at position 2", lines[13])
	}
	if lines[14] != "sample1\tC\t1\t0" {
		t.Errorf("line 14 = %q, want zero C count at position 1", lines[14])
	}

	if lines[16] != "sample1\tpos_gc\t1\t50" {
		t.Errorf("line 16 = %q, want pos_gc at position 1", lines[16])
	}

	// read_gc spans all percentages, including empty bins
	if lines[18] != "sample1\tread_gc\t0\t0" {
		t.Errorf("line 18 = %q, want read_gc bin 0", lines[18])
	}
	if lines[68] != "sample1\tread_gc\t50\t8" {
		t.Errorf("line 68 = %q, want read_gc bin 50", lines[68])
	}
	if lines[118] != "sample1\tread_gc\t100\t0" {
		t.Errorf("line 118 = %q, want read_gc bin 100", lines[118])
	}

	// kmers in ascending ratio order
	if lines[119] != "sample1\tCA\tNone\t0.5" {
		t.Errorf("line 119 = %q, want lowest-ratio kmer first", lines[119])
	}
	if lines[120] != "sample1\tAC\tNone\t1.5" {
		t.Errorf("line 120 = %q, want highest-ratio kmer last", lines[120])
	}
}

func TestWriteTidyDuplicateRow(t *testing.T) {
	s := testSummary()
	s.CountDuplicates = true
	s.DuplicateRate = 0.25

	var buf strings.Builder
	if err := writeTidy(&buf, s); err != nil {
		t.Fatalf("writeTidy() error = %v", err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "sample1\tduplicate\tNone\t0.25\n") {
		t.Errorf("output does not end with the duplicate row:\n%s", out)
	}

	s.CountDuplicates = false
	buf.Reset()
	if err := writeTidy(&buf, s); err != nil {
		t.Fatalf("writeTidy() error = %v", err)
	}
	if strings.Contains(buf.String(), "duplicate") {
		t.Error("duplicate row written without duplicate counting enabled")
	}
}

func TestWriteTidyKmerTieBreak(t *testing.T) {
	s := testSummary()
	s.KmerRatios = map[string]float64{"TT": 1, "AA": 1, "GG": 1}

	var buf strings.Builder
	if err := writeTidy(&buf, s); err != nil {
		t.Fatalf("writeTidy() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	tail := lines[len(lines)-3:]
	want := []string{
		"sample1\tAA\tNone\t1",
		"sample1\tGG\tNone\t1",
		"sample1\tTT\tNone\t1",
	}
	for i := range want {
		if tail[i] != want[i] {
			t.Errorf("kmer row %d = %q, want %q", i, tail[i], want[i])
		}
	}
}

func TestPrintWarnings(t *testing.T) {
	tests := []struct {
		name      string
		summary   *Summary
		threshold int
		want      []string
		wantNone  bool
	}{
		{
			name: "Biased kmer",
			summary: &Summary{
				MedianQual:  35,
				BiasedKmers: []KmerBias{{Kmer: "GGGGG", Slope: 4.2, P: 0.001}},
			},
			threshold: 30,
			want:      []string{"KmerWarning", "GGGGG"},
		},
		{
			name:      "Low median quality",
			summary:   &Summary{MedianQual: 22},
			threshold: 30,
			want:      []string{"QualityWarning", "22"},
		},
		{
			name:      "All clear",
			summary:   &Summary{MedianQual: 35},
			threshold: 30,
			wantNone:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			printWarnings(&buf, tt.summary, tt.threshold)
			out := buf.String()
			if tt.wantNone {
				if out != "" {
					t.Errorf("unexpected warnings:\n%s", out)
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("warnings missing %q:\n%s", want, out)
				}
			}
		})
	}
}
