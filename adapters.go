// Known adapter sequences screened for kmer overlap. Static
// configuration injected into the engine, not consulted anywhere else.

package main

var adapterSequences = []string{
	// TruSeq universal and indexed adapters
	"AATGATACGGCGACCACCGAGATCTACACTCTTTCCCTACACGACGCTCTTCCGATCT",
	"GATCGGAAGAGCACACGTCTGAACTCCAGTCACATCACGATCTCGTATGCCGTCTTCTGCTTG",
	"GATCGGAAGAGCACACGTCTGAACTCCAGTCACCGATGTATCTCGTATGCCGTCTTCTGCTTG",
	"GATCGGAAGAGCACACGTCTGAACTCCAGTCACTTAGGCATCTCGTATGCCGTCTTCTGCTTG",
	"GATCGGAAGAGCACACGTCTGAACTCCAGTCACTGACCAATCTCGTATGCCGTCTTCTGCTTG",
	"GATCGGAAGAGCACACGTCTGAACTCCAGTCACACAGTGATCTCGTATGCCGTCTTCTGCTTG",
	"GATCGGAAGAGCACACGTCTGAACTCCAGTCACGCCAATATCTCGTATGCCGTCTTCTGCTTG",
	"GATCGGAAGAGCACACGTCTGAACTCCAGTCACCAGATCATCTCGTATGCCGTCTTCTGCTTG",
	"GATCGGAAGAGCACACGTCTGAACTCCAGTCACACTTGAATCTCGTATGCCGTCTTCTGCTTG",
	// Nextera transposase sequences
	"TCGTCGGCAGCGTCAGATGTGTATAAGAGACAG",
	"GTCTCGTGGGCTCGGAGATGTGTATAAGAGACAG",
	// TruSeq small RNA 3' and 5' adapters
	"TGGAATTCTCGGGTGCCAAGG",
	"GTTCAGAGTTCTACAGTCCGACGATC",
	// Illumina single-end and paired-end PCR primers
	"AATGATACGGCGACCACCGAGATCTACACTCTTTCCCTACACGACGCTCTTCCGATCT",
	"CAAGCAGAAGACGGCATACGAGCTCTTCCGATCT",
}
