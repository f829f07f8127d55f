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

package locus

import (
	"github.com/biogo/hts/sam"
)

// An IndelKey identifies an indel by its 0-based left position, the
// number of deleted reference bases, and the inserted bases.
type IndelKey struct {
	Pos            int
	DeleteLength   int
	InsertSequence string
}

// RightPos returns the position after the deleted bases.
func (key IndelKey) RightPos() int {
	return key.Pos + key.DeleteLength
}

// InsertLength returns the number of inserted bases.
func (key IndelKey) InsertLength() int {
	return len(key.InsertSequence)
}

// An IndelAllele is one called indel allele.
type IndelAllele struct {
	IndelKey
	VcfRefSeq   string
	VcfIndelSeq string
	IndelQphred int
	MaxGtQphred int
	GQ          int
	GQX         int
	// Cigar aligns the haplotype of the allele against the reference,
	// starting at the VCF padding base.
	Cigar sam.Cigar
}

// SetHapCigar sets the haplotype alignment to lead matches, the
// insertion, the deletion, and trail matches. Empty operations are
// left out.
func (allele *IndelAllele) SetHapCigar(lead, trail int) {
	allele.Cigar = allele.Cigar[:0]
	if lead > 0 {
		allele.Cigar = append(allele.Cigar, sam.NewCigarOp(sam.CigarMatch, lead))
	}
	if n := allele.InsertLength(); n > 0 {
		allele.Cigar = append(allele.Cigar, sam.NewCigarOp(sam.CigarInsertion, n))
	}
	if n := allele.DeleteLength; n > 0 {
		allele.Cigar = append(allele.Cigar, sam.NewCigarOp(sam.CigarDeletion, n))
	}
	if trail > 0 {
		allele.Cigar = append(allele.Cigar, sam.NewCigarOp(sam.CigarMatch, trail))
	}
}

// SetVcfSequences sets the VCF REF and ALT strings of the allele from
// the reference, including the padding base before the indel.
func (allele *IndelAllele) SetVcfSequences(ref Reference) {
	if allele.Pos < 1 {
		invariantf("indel at position %v has no padding base", allele.Pos)
	}
	allele.VcfRefSeq = ref.GetSubstring(allele.Pos-1, allele.DeleteLength+1)
	allele.VcfIndelSeq = allele.VcfRefSeq[:1] + allele.InsertSequence
}

func isAlignMatch(t sam.CigarOpType) bool {
	switch t {
	case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
		return true
	default:
		return false
	}
}

// addCigarToPloidy counts the aligned positions of cigar into ploidy.
// The cigar starts at the padding base, which precedes ploidy[0] and is
// not counted.
func addCigarToPloidy(cigar sam.Cigar, ploidy []int) {
	offset := -1
	for _, op := range cigar {
		switch t := op.Type(); {
		case isAlignMatch(t):
			for j := 0; j < op.Len(); j++ {
				if offset >= 0 {
					if offset >= len(ploidy) {
						invariantf("haplotype alignment %v exceeds ploidy track of length %v", cigar, len(ploidy))
					}
					ploidy[offset]++
				}
				offset++
			}
		case t == sam.CigarDeletion:
			offset += op.Len()
		}
	}
}
