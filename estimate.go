// Sampling-rate estimation: how many records the input likely holds,
// and the stride needed to keep the sampled subset near the read budget.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shenwei356/xopen"
)

// ErrEmptyInput is returned when the input is detected to hold no records.
var ErrEmptyInput = errors.New("the input file appears empty, please check the file for data")

// prefixSample reads up to limit records from src and records their
// sequence lengths and approximate serialized sizes. The source is
// consumed and cannot be reused for the main pass. On error the
// records sampled so far are still returned.
func prefixSample(src ReadSource, limit int) (lengths, sizes []int, err error) {
	for len(sizes) < limit {
		read, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return lengths, sizes, err
		}
		lengths = append(lengths, len(read.Seq))
		sizes = append(sizes, read.Size)
	}
	return lengths, sizes, nil
}

func meanInt(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// estimateRecords estimates the total record count of an input of
// totalBytes bytes from the sampled serialized record sizes. Returns 0
// when no records were sampled.
func estimateRecords(sizes []int, totalBytes int64) int {
	meanBytes := meanInt(sizes)
	if meanBytes == 0 {
		return 0
	}
	return int(float64(totalBytes) / meanBytes)
}

// computeStride derives the sampling stride from the estimated record
// count and the target number of sampled reads. An explicit override
// (> 0) wins. The result is always >= 1.
func computeStride(estRecords, nreads, override int) int {
	if override > 0 {
		return override
	}
	if nreads <= 0 {
		return 1
	}
	n := estRecords / nreads
	if n < 1 {
		return 1
	}
	return n
}

// isCompressedFile reports whether path carries a compression extension
// the readers decompress transparently.
func isCompressedFile(path string) bool {
	base := strings.ToLower(path)
	for _, ext := range []string{".gz", ".zst", ".xz", ".bz2"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

// decompressedSize streams path through the decompressing reader and
// returns the uncompressed byte count.
func decompressedSize(path string) (int64, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return 0, fmt.Errorf("error opening input file: %v", err)
	}
	defer fh.Close()
	return io.Copy(io.Discard, fh)
}

// estimateInput runs the prefix-sampling pass over path and reports the
// estimated record count and chosen stride. For streamed input (path
// "-") the byte size cannot be determined: the stride falls back to the
// override or 1 and the estimate is 0 (progress reporting disabled).
func estimateInput(path string, isSAM bool, nreads, override int, quiet bool) (estRecords, stride int, err error) {
	if path == "-" {
		stride = computeStride(0, 0, override)
		if !quiet {
			fmt.Fprintf(os.Stderr, "Reading from stdin, bin size set to %d.\n", stride)
		}
		return 0, stride, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("error reading input file: %v", err)
	}
	if info.Size() == 0 {
		return 0, 0, ErrEmptyInput
	}

	var src ReadSource
	if isSAM {
		src, err = newSamSource(path)
	} else {
		src, err = newFastxSource(path)
	}
	if err != nil {
		return 0, 0, err
	}
	defer src.Close()

	lengths, sizes, err := prefixSample(src, SAMPLE_LIMIT)
	if err != nil && len(sizes) == 0 {
		// unreadable before the first record: treat as empty input
		return 0, 0, ErrEmptyInput
	}
	if err != nil {
		return 0, 0, err
	}

	// The on-disk size of compressed input understates the record count
	// by the compression ratio, so the serialized record sizes must be
	// weighed against the decompressed byte count instead.
	totalBytes := info.Size()
	if isCompressedFile(path) {
		if override > 0 {
			// forced stride: skip the decompression scan; without a
			// decompressed size there is no usable estimate, and
			// percent-complete reporting stays disabled
			if len(sizes) == 0 {
				return 0, 0, ErrEmptyInput
			}
			if !quiet {
				fmt.Fprintf(os.Stderr, "Bin size (-s) set to %d.\n", override)
			}
			return 0, override, nil
		}
		totalBytes, err = decompressedSize(path)
		if err != nil {
			return 0, 0, err
		}
	}

	estRecords = estimateRecords(sizes, totalBytes)
	if estRecords == 0 {
		return 0, 0, ErrEmptyInput
	}
	if !quiet {
		fmt.Fprintf(os.Stderr, "At %.0f bytes per read of %.0f length we estimate %d reads in input file.\n",
			meanInt(sizes), meanInt(lengths), estRecords)
	}

	stride = computeStride(estRecords, nreads, override)
	if !quiet {
		fmt.Fprintf(os.Stderr, "Bin size (-s) set to %d.\n", stride)
	}
	return estRecords, stride, nil
}
