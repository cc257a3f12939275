package main

import (
	"fmt"
	"testing"
)

func duplicateSets(t *testing.T) map[string]DuplicateSet {
	t.Helper()
	sets := make(map[string]DuplicateSet)
	for name, exact := range map[string]bool{"bloom": false, "exact": true} {
		set, err := newDuplicateSet(exact)
		if err != nil {
			t.Fatalf("newDuplicateSet(%v) error = %v", exact, err)
		}
		sets[name] = set
	}
	return sets
}

func TestDuplicateSetNoFalseNegatives(t *testing.T) {
	// insert(x) followed by contains(x) must always hold
	for name, set := range duplicateSets(t) {
		t.Run(name, func(t *testing.T) {
			var inserted [][]byte
			for i := 0; i < 1000; i++ {
				seq := []byte(fmt.Sprintf("ACGT%08dTGCA", i))
				set.Insert(seq)
				inserted = append(inserted, seq)
			}
			for _, seq := range inserted {
				if !set.Contains(seq) {
					t.Fatalf("Contains(%s) = false after Insert", seq)
				}
			}
		})
	}
}

func TestDuplicateSetFalsePositiveRate(t *testing.T) {
	for name, set := range duplicateSets(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				set.Insert([]byte(fmt.Sprintf("IN%08d", i)))
			}
			falsePositives := 0
			const probes = 10000
			for i := 0; i < probes; i++ {
				if set.Contains([]byte(fmt.Sprintf("OUT%08d", i))) {
					falsePositives++
				}
			}
			// base false-positive rate is 0.001; allow generous slack
			if rate := float64(falsePositives) / probes; rate > 0.01 {
				t.Errorf("false-positive rate = %v, want <= 0.01", rate)
			}
		})
	}
}

func TestScalableBloomGrowth(t *testing.T) {
	set := newScalableBloomSet()
	// push well past the initial capacity to force new stages
	n := bloomInitialCapacity*2 + 100
	for i := 0; i < n; i++ {
		set.Insert([]byte(fmt.Sprintf("READ%010d", i)))
	}
	if len(set.stages) < 2 {
		t.Errorf("stages = %d, want growth beyond the initial filter", len(set.stages))
	}
	// no false negatives across stage boundaries
	for _, i := range []int{0, bloomInitialCapacity - 1, bloomInitialCapacity, n - 1} {
		seq := []byte(fmt.Sprintf("READ%010d", i))
		if !set.Contains(seq) {
			t.Errorf("Contains(%s) = false after growth", seq)
		}
	}
}

func TestExactDuplicateSet(t *testing.T) {
	set, err := newExactDuplicateSet()
	if err != nil {
		t.Fatal(err)
	}
	seq := []byte("ACGTACGTACGTACGT")
	if set.Contains(seq) {
		t.Error("Contains() = true before Insert")
	}
	set.Insert(seq)
	if !set.Contains(seq) {
		t.Error("Contains() = false after Insert")
	}
	if set.Contains([]byte("ACGTACGTACGTACGA")) {
		t.Error("Contains() = true for a near-miss sequence")
	}
}
