// SAM-backed ReadSource built on biogo/hts, plus the MD-tag decoding
// step used to derive a per-read reference sequence for mismatch tallies.

package main

import (
	"fmt"
	"io"

	"github.com/biogo/hts/sam"
	"github.com/shenwei356/xopen"
)

var mdTag = []byte("MD")

type samSource struct {
	fh     *xopen.Reader
	reader *sam.Reader
}

// newSamSource opens a SAM file (optionally compressed) and parses its
// header. Use "-" for stdin.
func newSamSource(path string) (*samSource, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %v", err)
	}
	reader, err := sam.NewReader(fh)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("error creating SAM reader: %v", err)
	}
	return &samSource{fh: fh, reader: reader}, nil
}

func (s *samSource) Next() (*Read, error) {
	rec, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("error reading record: %v", err)
	}

	sq := rec.Seq.Expand()
	qual := make([]byte, len(rec.Qual))
	for i, q := range rec.Qual {
		if q == 0xff { // quality string absent ("*")
			q = 0
		}
		qual[i] = q + PHRED_OFFSET
	}

	read := &Read{
		Name:    []byte(rec.Name),
		Seq:     sq,
		Qual:    qual,
		Aligned: true,
		Mapped:  rec.Flags&sam.Unmapped == 0,
		Reverse: rec.Flags&sam.Reverse != 0,
		// rough serialized length: 11 tab-separated fields plus tags
		Size: len(rec.Name) + len(sq) + len(qual) + 48,
	}
	if aux, ok := rec.Tag(mdTag); ok {
		if md, ok := aux.Value().(string); ok {
			read.MD = md
		}
	}
	return read, nil
}

func (s *samSource) Close() error {
	return s.fh.Close()
}

// decodeMD reconstructs the reference bases covered by a read from its
// MD tag. Runs of digits copy bases from the read, letters substitute
// the reference base, and "^"-prefixed runs are reference deletions that
// consume no read bases. Returns an error when the tag does not span
// the read exactly; callers treat that as malformed alignment metadata
// and skip mismatch tallying for the read.
func decodeMD(seq []byte, md string) ([]byte, error) {
	ref := make([]byte, 0, len(seq))
	pos := 0 // position in seq
	i := 0
	for i < len(md) {
		c := md[i]
		switch {
		case c >= '0' && c <= '9':
			n := 0
			for i < len(md) && md[i] >= '0' && md[i] <= '9' {
				n = n*10 + int(md[i]-'0')
				i++
			}
			if pos+n > len(seq) {
				return nil, fmt.Errorf("MD tag %q overruns read of length %d", md, len(seq))
			}
			ref = append(ref, seq[pos:pos+n]...)
			pos += n
		case c == '^':
			i++
			for i < len(md) && isBase(md[i]) {
				i++
			}
		case isBase(c):
			if pos >= len(seq) {
				return nil, fmt.Errorf("MD tag %q overruns read of length %d", md, len(seq))
			}
			ref = append(ref, c)
			pos++
			i++
		default:
			return nil, fmt.Errorf("invalid character %q in MD tag %q", c, md)
		}
	}
	if pos != len(seq) {
		return nil, fmt.Errorf("MD tag %q covers %d of %d read bases", md, pos, len(seq))
	}
	return ref, nil
}

func isBase(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'N':
		return true
	}
	return false
}
