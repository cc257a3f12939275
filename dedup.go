// Probabilistic duplicate detection. A scalable Bloom filter gives a
// bounded false-positive rate with zero false negatives and no fixed
// capacity; an exact store backed by zstd-compressed sequences is
// available when approximate counts are not acceptable.

package main

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/klauspost/compress/zstd"
)

// ErrNoDuplicateSet is returned when duplicate tracking was requested
// but the backing store could not be constructed.
var ErrNoDuplicateSet = errors.New("duplicate tracking requested but no duplicate set is available")

// DuplicateSet is a write-once membership structure for read sequences:
// a sequence inserted is reported as seen for the remainder of the run.
type DuplicateSet interface {
	Contains(seq []byte) bool
	Insert(seq []byte)
}

// newDuplicateSet resolves the duplicate-set capability once, before
// the main loop starts. Construction failure is fatal to the run.
func newDuplicateSet(exact bool) (DuplicateSet, error) {
	if exact {
		s, err := newExactDuplicateSet()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDuplicateSet, err)
		}
		return s, nil
	}
	return newScalableBloomSet(), nil
}

const (
	bloomInitialCapacity = 1 << 16
	bloomGrowth          = 2   // capacity factor per stage (small set growth)
	bloomTightening      = 0.9 // error budget left to each new stage
	bloomBaseFPRate      = 0.001
)

// scalableBloomSet chains Bloom filters of geometrically growing
// capacity and tightening false-positive rates, so the compound error
// rate stays bounded while the set grows without limit.
type scalableBloomSet struct {
	stages   []*bloom.BloomFilter
	capacity uint
	fpRate   float64
	inserted uint
}

func newScalableBloomSet() *scalableBloomSet {
	s := &scalableBloomSet{
		capacity: bloomInitialCapacity,
		fpRate:   bloomBaseFPRate,
	}
	s.stages = append(s.stages, bloom.NewWithEstimates(s.capacity, s.fpRate))
	return s
}

func (s *scalableBloomSet) Contains(seq []byte) bool {
	for _, f := range s.stages {
		if f.Test(seq) {
			return true
		}
	}
	return false
}

func (s *scalableBloomSet) Insert(seq []byte) {
	if s.inserted >= s.capacity {
		s.capacity *= bloomGrowth
		s.fpRate *= bloomTightening
		s.stages = append(s.stages, bloom.NewWithEstimates(s.capacity, s.fpRate))
		s.inserted = 0
	}
	s.stages[len(s.stages)-1].Add(seq)
	s.inserted++
}

// exactDuplicateSet keys a set by the zstd-compressed sequence, trading
// CPU for a smaller resident footprint on long, low-complexity reads.
type exactDuplicateSet struct {
	encoder *zstd.Encoder
	seen    map[string]struct{}
}

func newExactDuplicateSet() (*exactDuplicateSet, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	return &exactDuplicateSet{
		encoder: encoder,
		seen:    make(map[string]struct{}),
	}, nil
}

func (s *exactDuplicateSet) key(seq []byte) string {
	return string(s.encoder.EncodeAll(seq, make([]byte, 0, len(seq)/2)))
}

func (s *exactDuplicateSet) Contains(seq []byte) bool {
	_, ok := s.seen[s.key(seq)]
	return ok
}

func (s *exactDuplicateSet) Insert(seq []byte) {
	s.seen[s.key(seq)] = struct{}{}
}
