package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeMD(t *testing.T) {
	tests := []struct {
		name    string
		seq     string
		md      string
		want    string
		wantErr bool
	}{
		{
			name: "Identity",
			seq:  "ACGT",
			md:   "4",
			want: "ACGT",
		},
		{
			name: "Single mismatch",
			seq:  "ACGT",
			md:   "2A1",
			want: "ACAT",
		},
		{
			name: "Mismatch at first base",
			seq:  "ACGT",
			md:   "0T3",
			want: "TCGT",
		},
		{
			name: "Multiple mismatches",
			seq:  "ACGTACGT",
			md:   "1G2C3",
			want: "AGGTCCGT",
		},
		{
			name: "Deletion consumes no read bases",
			seq:  "ACGT",
			md:   "2^TTA2",
			want: "ACGT",
		},
		{
			name: "Deletion then mismatch",
			seq:  "ACGT",
			md:   "2^GG1A0",
			want: "ACGA",
		},
		{
			name:    "Match run overruns read",
			seq:     "ACGT",
			md:      "99",
			wantErr: true,
		},
		{
			name:    "Mismatch overruns read",
			seq:     "ACGT",
			md:      "4A",
			wantErr: true,
		},
		{
			name:    "Incomplete coverage",
			seq:     "ACGT",
			md:      "2",
			wantErr: true,
		},
		{
			name:    "Invalid character",
			seq:     "ACGT",
			md:      "2x1",
			wantErr: true,
		},
		{
			name: "Empty read empty tag",
			seq:  "",
			md:   "0",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeMD([]byte(tt.seq), tt.md)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeMD() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("decodeMD() = %s, want %s", got, tt.want)
			}
		})
	}
}

const testSAM = "@HD\tVN:1.6\tSO:unsorted\n" +
	"@SQ\tSN:chr1\tLN:1000\n" +
	"read1\t0\tchr1\t1\t60\t4M\t*\t0\t0\tACGT\tIIII\tMD:Z:2A1\n" +
	"read2\t16\tchr1\t10\t60\t4M\t*\t0\t0\tTTTT\tAAAA\tMD:Z:4\n" +
	"read3\t4\t*\t0\t0\t*\t*\t0\t0\tGGGG\tBBBB\n"

func writeTestSAM(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sam")
	if err := os.WriteFile(path, []byte(testSAM), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestSamSource(t *testing.T) {
	src, err := newSamSource(writeTestSAM(t))
	if err != nil {
		t.Fatalf("newSamSource() error = %v", err)
	}
	defer src.Close()

	r1, err := src.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(r1.Name) != "read1" {
		t.Errorf("Name = %s, want read1", r1.Name)
	}
	if string(r1.Seq) != "ACGT" {
		t.Errorf("Seq = %s, want ACGT", r1.Seq)
	}
	if string(r1.Qual) != "IIII" {
		t.Errorf("Qual = %s, want IIII", r1.Qual)
	}
	if !r1.Aligned || !r1.Mapped || r1.Reverse {
		t.Errorf("flags = aligned %v mapped %v reverse %v, want true true false",
			r1.Aligned, r1.Mapped, r1.Reverse)
	}
	if r1.MD != "2A1" {
		t.Errorf("MD = %q, want 2A1", r1.MD)
	}

	r2, err := src.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !r2.Reverse {
		t.Error("read2 should be flagged reverse")
	}
	if !r2.Mapped {
		t.Error("read2 should be flagged mapped")
	}

	r3, err := src.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if r3.Mapped {
		t.Error("read3 should be flagged unmapped")
	}
	if r3.MD != "" {
		t.Errorf("MD = %q, want empty for a record without the tag", r3.MD)
	}

	if _, err := src.Next(); err != io.EOF {
		t.Errorf("Next() after last record = %v, want io.EOF", err)
	}
}

func TestIsSAMFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"sample.sam", true},
		{"sample.sam.gz", true},
		{"SAMPLE.SAM.ZST", true},
		{"sample.fastq", false},
		{"sample.fastq.gz", false},
		{"sample", false},
	}
	for _, tt := range tests {
		if got := isSAMFile(tt.path); got != tt.want {
			t.Errorf("isSAMFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDefaultSampleName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"-", "stdin"},
		{"sample.fastq", "sample"},
		{"/data/run42.fastq.gz", "run42"},
		{"plain", "plain"},
		{".hidden", ".hidden"},
	}
	for _, tt := range tests {
		if got := defaultSampleName(tt.path); got != tt.want {
			t.Errorf("defaultSampleName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
