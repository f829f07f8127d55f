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

// AddOverlap merges the allele of overlap, an indel call that overlaps
// l on the other haplotype, into l. Both loci must have exactly one
// allele, and overlap must not start before l. Afterwards l has two
// alleles whose VCF sequences span the combined range of both indels,
// and overlap has none.
//
// Only the first allele of l receives the VCF reference sequence of the
// combined range.
func (l *IndelLocus) AddOverlap(ref Reference, overlap *IndelLocus) {
	if len(l.Alleles) != 1 || len(overlap.Alleles) != 1 {
		invariantf("overlapping indel loci at positions %v and %v have %v and %v alleles instead of one each",
			l.Pos, overlap.Pos, len(l.Alleles), len(overlap.Alleles))
	}
	if overlap.Pos < l.Pos {
		invariantf("overlapping indel locus at position %v starts before indel locus at position %v", overlap.Pos, l.Pos)
	}

	first := &l.Alleles[0]
	overlapAllele := &overlap.Alleles[0]

	indelEndPos := max(first.RightPos(), overlapAllele.RightPos())
	indelBeginPos := l.Pos - 1

	first.VcfRefSeq = ref.GetSubstring(indelBeginPos, indelEndPos-indelBeginPos)

	l.Ploidy = make([]int, indelEndPos-l.Pos)

	extend := func(pos int, allele *IndelAllele) {
		leading := ref.GetSubstring(indelBeginPos, pos-indelBeginPos-1)
		trailing := ref.GetSubstring(allele.RightPos(), indelEndPos-allele.RightPos())
		allele.VcfIndelSeq = leading + allele.VcfIndelSeq + trailing
		allele.SetHapCigar(len(leading)+1, len(trailing))
		addCigarToPloidy(allele.Cigar, l.Ploidy)
	}
	extend(l.Pos, first)
	extend(overlap.Pos, overlapAllele)

	for offset, ploidy := range l.Ploidy {
		if ploidy >= 2 {
			invariantf("merged indel loci at positions %v and %v cover position %v with ploidy %v",
				l.Pos, overlap.Pos, l.Pos+offset, ploidy)
		}
	}

	first.IndelQphred = min(first.IndelQphred, overlapAllele.IndelQphred)
	first.MaxGtQphred = min(first.MaxGtQphred, overlapAllele.MaxGtQphred)
	first.GQ = min(first.GQ, overlapAllele.GQ)
	first.GQX = min(first.GQX, overlapAllele.GQX)

	l.Filters.Merge(&overlap.Filters)
	l.EmpiricalScore = l.EmpiricalScore.Merge(overlap.EmpiricalScore)

	l.Alleles = append(l.Alleles, *overlapAllele)
	l.IsOverlap = true
	overlap.Alleles = nil
}
