// FASTQ-backed ReadSource built on the shenwei356/bio fastx reader.

package main

import (
	"fmt"
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

type fastxSource struct {
	reader *fastx.Reader
}

// newFastxSource opens a FASTQ (optionally gzip/zstd compressed) file,
// or stdin when path is "-".
func newFastxSource(path string) (*fastxSource, error) {
	reader, err := fastx.NewReader(seq.DNAredundant, path, fastx.DefaultIDRegexp)
	if err != nil {
		return nil, fmt.Errorf("error creating reader: %v", err)
	}
	return &fastxSource{reader: reader}, nil
}

func (s *fastxSource) Next() (*Read, error) {
	record, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("error reading record: %v", err)
	}

	// The fastx reader reuses record buffers, so copy before handing
	// the read downstream.
	name := make([]byte, len(record.Name))
	copy(name, record.Name)
	sq := make([]byte, len(record.Seq.Seq))
	copy(sq, record.Seq.Seq)
	qual := make([]byte, len(record.Seq.Qual))
	copy(qual, record.Seq.Qual)

	return &Read{
		Name: name,
		Seq:  sq,
		Qual: qual,
		// "@" + name + "\n" + seq + "\n+\n" + qual + "\n"
		Size: len(name) + len(sq) + len(qual) + 6,
	}, nil
}

func (s *fastxSource) Close() error {
	s.reader.Close()
	return nil
}
