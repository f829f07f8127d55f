// elscore: scoring and merging of called genomic loci.
// Copyright (c) 2017-2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

// Package fasta reads reference sequences from FASTA files.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"github.com/biogo/hts/fai"

	"github.com/exascience/elscore/internal"
)

// ReadFai parses the contents of an FAI file.
func ReadFai(r io.Reader) (fai.Index, error) {
	index, err := fai.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("badly formatted fai contents: %w", err)
	}
	if index == nil {
		index = make(fai.Index)
	}
	return index, nil
}

// LoadFai parses an FAI file.
func LoadFai(filename string) (index fai.Index, err error) {
	f, err := internal.FileOpen(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f, &err)
	if index, err = ReadFai(f); err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	return index, nil
}

func contigFromHeader(b []byte) string {
	i := 1
	for ; i < len(b); i++ {
		if c := b[i]; c >= '!' && c <= '~' {
			break
		}
	}
	j := i + 1
	for ; j < len(b); j++ {
		if c := b[j]; c < '!' || c > '~' {
			break
		}
	}
	if i >= len(b) {
		return ""
	}
	return string(b[i:j])
}

var upperAndNTable [256]byte

func init() {
	for i := range upperAndNTable {
		upperAndNTable[i] = byte(i)
	}
	for _, c := range []byte("ACGTNRYMKWSBDHV") {
		n := byte('N')
		switch c {
		case 'A', 'C', 'G', 'T':
			n = c
		}
		upperAndNTable[c] = n
		upperAndNTable[c+'a'-'A'] = n
	}
}

// toUpperAndN converts a base to upper case, and normalizes ambiguity
// codes to N.
func toUpperAndN(base byte) byte {
	return upperAndNTable[base]
}

// A Contig holds the upper case bases of a reference sequence.
type Contig []byte

// GetSubstring returns the bases in [start, start+length).
func (contig Contig) GetSubstring(start, length int) string {
	if start < 0 || length < 0 || start+length > len(contig) {
		log.Panicf("range [%v, %v) outside of contig of length %v", start, start+length, len(contig))
	}
	return string(contig[start : start+length])
}

// A Reference maps contig names to contigs.
type Reference map[string]Contig

func initSeq(contig string, index fai.Index) Contig {
	if record, ok := index[contig]; ok {
		return make(Contig, 0, record.Length)
	}
	return nil
}

func checkLength(contig string, seq Contig, index fai.Index) error {
	if record, ok := index[contig]; ok && record.Length != len(seq) {
		return fmt.Errorf("invalid fasta contents - contig %v has %v bases, fai index lists %v", contig, len(seq), record.Length)
	}
	return nil
}

// ReadFasta sequentially parses FASTA contents. All bases are converted
// to upper case, and ambiguity codes are normalized to N.
//
// If an index is given, the sequences are pre-allocated
// to reduce pressure on the garbage collector, and their lengths
// are checked against the index.
func ReadFasta(r io.Reader, index fai.Index) (Reference, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var contig string
	var seq Contig
	reference := make(Reference)
	for scanner.Scan() {
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		if b[0] == '>' {
			if contig != "" {
				if err := checkLength(contig, seq, index); err != nil {
					return nil, err
				}
				reference[contig] = seq
			}
			if contig = contigFromHeader(b); contig == "" {
				return nil, fmt.Errorf("invalid fasta contents - header without contig name")
			}
			if _, ok := reference[contig]; ok {
				return nil, fmt.Errorf("invalid fasta contents - duplicate contig %v", contig)
			}
			seq = initSeq(contig, index)
			continue
		}
		if contig == "" {
			return nil, fmt.Errorf("invalid fasta contents - missing first header")
		}
		for _, c := range b {
			seq = append(seq, toUpperAndN(c))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if contig == "" {
		return nil, fmt.Errorf("empty fasta contents")
	}
	if err := checkLength(contig, seq, index); err != nil {
		return nil, err
	}
	reference[contig] = seq
	return reference, nil
}

// ParseFasta parses a FASTA file, or standard input if filename is "-".
// The index may be nil.
func ParseFasta(filename string, index fai.Index) (reference Reference, err error) {
	f, err := internal.FileOpen(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f, &err)
	if reference, err = ReadFasta(f, index); err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	return reference, nil
}
