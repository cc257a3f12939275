// Abstract read model consumed by the metrics engine.
// Format-specific decoding lives in reader.go (FASTQ) and sam.go (SAM).

package main

import "io"

// Read is a single sequencing record reduced to what the tallies need.
// Seq holds bases over {A,C,G,T,N}; Qual holds Phred+33 quality symbols
// of the same length. Aligned records additionally carry the mapping
// state, strand, and the raw MD tag from which a reference sequence can
// be derived.
type Read struct {
	Name []byte
	Seq  []byte
	Qual []byte

	// Set for records originating from an alignment file.
	Aligned bool
	Mapped  bool
	Reverse bool
	MD      string

	// Approximate on-disk size of the serialized record, used only for
	// read-count estimation.
	Size int
}

// ReadSource yields a finite, non-restartable stream of reads.
// Next returns io.EOF when the stream is exhausted.
type ReadSource interface {
	Next() (*Read, error)
	Close() error
}

// subsample reduces src to every n-th record. The skipped records are
// consumed from the underlying source so that a stride of 1 is a no-op
// wrapper and larger strides yield records 0, n, 2n, ...
func subsample(src ReadSource, n int) ReadSource {
	if n <= 1 {
		return src
	}
	return &strideSource{src: src, n: n}
}

type strideSource struct {
	src ReadSource
	n   int
}

func (s *strideSource) Next() (*Read, error) {
	r, err := s.src.Next()
	if err != nil {
		return nil, err
	}
	for i := 1; i < s.n; i++ {
		if _, err := s.src.Next(); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}
	return r, nil
}

func (s *strideSource) Close() error { return s.src.Close() }

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
