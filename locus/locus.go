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

// Package locus models called loci, SNV sites and indels, together with
// their filters, scores and alleles. It merges overlapping
// heterozygous indels into a single locus, and computes the empirical
// variant scoring features of SNV sites.
//
// Broken invariants are reported with a panic of type
// *InvariantViolation. Use Guard to turn them into errors at the level
// of a single locus.
package locus

import (
	"fmt"

	"github.com/exascience/elscore/evs"
)

// A Reference provides the bases of a reference contig.
type Reference interface {
	// GetSubstring returns the bases in [start, start+length).
	GetSubstring(start, length int) string
}

// A Base is a reference or read base.
type Base uint8

// The bases. NBases is also used for an unknown base.
const (
	A Base = iota
	C
	G
	T
	NBases
)

// ParseBase returns the base for one of the letters ACGT.
func ParseBase(b byte) (Base, error) {
	switch b {
	case 'A', 'a':
		return A, nil
	case 'C', 'c':
		return C, nil
	case 'G', 'g':
		return G, nil
	case 'T', 't':
		return T, nil
	default:
		return NBases, fmt.Errorf("invalid base %q", b)
	}
}

func (b Base) String() string {
	if b >= NBases {
		return "N"
	}
	return "ACGT"[b : b+1]
}

// A Genotype is an unordered diploid genotype.
type Genotype uint8

// The diploid genotypes.
const (
	AA Genotype = iota
	CC
	GG
	TT
	AC
	AG
	AT
	CG
	CT
	GT
	genotypeCount
)

var genotypeBases = [genotypeCount][2]Base{
	{A, A}, {C, C}, {G, G}, {T, T},
	{A, C}, {A, G}, {A, T}, {C, G}, {C, T}, {G, T},
}

// ParseGenotype returns the genotype for a two-letter string such as
// "AG". The order of the letters does not matter.
func ParseGenotype(s string) (Genotype, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid genotype %q", s)
	}
	b1, err := ParseBase(s[0])
	if err != nil {
		return 0, fmt.Errorf("invalid genotype %q: %w", s, err)
	}
	b2, err := ParseBase(s[1])
	if err != nil {
		return 0, fmt.Errorf("invalid genotype %q: %w", s, err)
	}
	if b2 < b1 {
		b1, b2 = b2, b1
	}
	for gt, bases := range genotypeBases {
		if bases[0] == b1 && bases[1] == b2 {
			return Genotype(gt), nil
		}
	}
	panic("unreachable")
}

// Bases returns the two bases of the genotype.
func (gt Genotype) Bases() (Base, Base) {
	bases := genotypeBases[gt]
	return bases[0], bases[1]
}

// Contains determines whether b is one of the bases of the genotype.
func (gt Genotype) Contains(b Base) bool {
	bases := genotypeBases[gt]
	return bases[0] == b || bases[1] == b
}

// IsHet determines whether the genotype has two different bases.
func (gt Genotype) IsHet() bool {
	bases := genotypeBases[gt]
	return bases[0] != bases[1]
}

func (gt Genotype) String() string {
	b1, b2 := gt.Bases()
	return b1.String() + b2.String()
}

// Zygosity classifies a genotype call against the reference.
type Zygosity uint8

// The zygosities.
const (
	HomRef Zygosity = iota
	Het
	Hom
	HetAlt
)

var zygosityNames = [...]string{"HomRef", "Het", "Hom", "HetAlt"}

func (z Zygosity) String() string {
	return zygosityNames[z]
}

// ParseZygosity returns the zygosity with the given name.
func ParseZygosity(s string) (Zygosity, error) {
	for z, name := range zygosityNames {
		if name == s {
			return Zygosity(z), nil
		}
	}
	return 0, fmt.Errorf("invalid zygosity %q", s)
}

// IsVariant determines whether the zygosity denotes a variant call.
func (z Zygosity) IsVariant() bool {
	return z != HomRef
}

// A VariantClass selects the scoring model of an SNV site.
type VariantClass uint8

// The variant classes.
const (
	Germline VariantClass = iota
	RNA
)

func (c VariantClass) String() string {
	if c == RNA {
		return "RNA"
	}
	return "Germline"
}

// A SiteLocus is a called SNV site, or a reference site.
type SiteLocus struct {
	Pos      int
	RefBase  Base
	Genotype Genotype
	Class    VariantClass

	// AlleleObservationCounts holds the number of used basecalls per
	// base.
	AlleleObservationCounts [NBases]uint
	UsedCalls               uint
	UnusedCalls             uint
	MapqCount               uint
	MapqZeroCount           uint
	MapqRMS                 float64
	MQRankSum               float64
	ReadPosRankSum          float64
	BaseQRankSum            float64
	AvgBaseQ                float64
	RawPos                  float64
	Hpol                    int
	StrandBias              float64
	SnvQphred               int
	GQ                      int
	GQX                     int

	Filters        FilterSet
	EmpiricalScore EmpiricalScore

	Features            *evs.FeatureVector
	DevelopmentFeatures *evs.FeatureVector
}

// Zygosity classifies the genotype of the site against its reference
// base.
func (site *SiteLocus) Zygosity() Zygosity {
	hasRef := site.Genotype.Contains(site.RefBase)
	switch {
	case site.Genotype.IsHet() && hasRef:
		return Het
	case site.Genotype.IsHet():
		return HetAlt
	case hasRef:
		return HomRef
	default:
		return Hom
	}
}

// IsHet determines whether the site is heterozygous with one reference
// allele.
func (site *SiteLocus) IsHet() bool {
	return site.Zygosity() == Het
}

// IsHetAlt determines whether the site is heterozygous with two
// different alternate alleles.
func (site *SiteLocus) IsHetAlt() bool {
	return site.Zygosity() == HetAlt
}

// An IndelLocus is a called indel with one allele, or two alleles after
// merging an overlapping indel call.
type IndelLocus struct {
	Pos     int
	Alleles []IndelAllele
	Filters FilterSet
	// Ploidy counts for each position in [Pos, End()) the number of
	// called haplotypes that align to it.
	Ploidy         []int
	EmpiricalScore EmpiricalScore
	Zygosity       Zygosity
	IsOverlap      bool
}

// NewIndelLocus returns a locus for a single allele. If the allele has
// no haplotype alignment yet, a default one is set.
func NewIndelLocus(allele IndelAllele, zygosity Zygosity) *IndelLocus {
	if len(allele.Cigar) == 0 {
		allele.SetHapCigar(1, 0)
	}
	l := &IndelLocus{
		Pos:      allele.Pos,
		Alleles:  []IndelAllele{allele},
		Zygosity: zygosity,
	}
	l.Ploidy = make([]int, l.End()-l.Pos)
	addCigarToPloidy(allele.Cigar, l.Ploidy)
	return l
}

// First returns the first allele of the locus.
func (l *IndelLocus) First() *IndelAllele {
	if len(l.Alleles) == 0 {
		invariantf("indel locus at position %v has no alleles", l.Pos)
	}
	return &l.Alleles[0]
}

// End returns the largest right position of the alleles.
func (l *IndelLocus) End() int {
	result := 0
	for i := range l.Alleles {
		if pos := l.Alleles[i].RightPos(); pos > result {
			result = pos
		}
	}
	return result
}

// PloidyAt returns the ploidy track entry at offset from Pos.
func (l *IndelLocus) PloidyAt(offset int) int {
	if offset < 0 || offset >= len(l.Ploidy) {
		invariantf("ploidy offset %v exceeds ploidy region size %v", offset, len(l.Ploidy))
	}
	return l.Ploidy[offset]
}

// IsSimpleHet determines whether the locus is an unmerged heterozygous
// indel call with a single allele.
func (l *IndelLocus) IsSimpleHet() bool {
	return len(l.Alleles) == 1 && !l.IsOverlap && l.Zygosity == Het
}
