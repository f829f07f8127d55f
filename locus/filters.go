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
	"io"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// A Filter is a reason for not passing a locus.
type Filter uint

// The filters, in output order.
const (
	IndelConflict Filter = iota
	SiteConflict
	LowGQX
	HighDPFRatio
	HighSNVSB
	HighDepth
	LowDepth
	NotGenotyped
	PloidyConflict
	NoPassedVariantGTs
	filterCount
)

var filterLabels = [filterCount]string{
	"IndelConflict",
	"SiteConflict",
	"LowGQX",
	"HighDPFRatio",
	"HighSNVSB",
	"HighDepth",
	"LowDepth",
	"NotGenotyped",
	"PloidyConflict",
	"NoPassedVariantGTs",
}

var filterDescriptions = [filterCount]string{
	"Indel genotypes from two or more loci conflict in at least one sample",
	"Site is filtered due to an overlapping indel call filter",
	"Locus GQX is below threshold or not present",
	"The fraction of basecalls filtered out at a site is greater than the threshold",
	"Sample SNV strand bias value (SB) exceeds the threshold",
	"Locus depth is greater than a multiple of the chromosome mean depth",
	"Locus depth is below the threshold",
	"Locus contains forced genotype alleles which could not be genotyped",
	"Genotype call from variant caller not consistent with chromosome ploidy",
	"No sample at this locus passes all sample filters and has a variant genotype",
}

// Filters returns all filters in output order.
func Filters() []Filter {
	result := make([]Filter, filterCount)
	for i := range result {
		result[i] = Filter(i)
	}
	return result
}

// Label returns the FILTER label of f.
func (f Filter) Label() string {
	return filterLabels[f]
}

// Description returns the header description of f.
func (f Filter) Description() string {
	return filterDescriptions[f]
}

func (f Filter) String() string {
	return f.Label()
}

// A FilterSet is a set of filters. The zero value is an empty set.
type FilterSet struct {
	bits bitset.BitSet
}

// Set adds f to the set.
func (fs *FilterSet) Set(f Filter) {
	fs.bits.Set(uint(f))
}

// Test determines whether f is in the set.
func (fs *FilterSet) Test(f Filter) bool {
	return fs.bits.Test(uint(f))
}

// Merge adds all filters of other to the set.
func (fs *FilterSet) Merge(other *FilterSet) {
	fs.bits.InPlaceUnion(&other.bits)
}

// None determines whether the set is empty.
func (fs *FilterSet) None() bool {
	return fs.bits.None()
}

// Clone returns an independent copy of the set.
func (fs *FilterSet) Clone() FilterSet {
	return FilterSet{bits: *fs.bits.Clone()}
}

// Write outputs PASS for an empty set, and the labels of the filters
// in the set separated by semicolons otherwise. Labels are always in
// output order.
func (fs *FilterSet) Write(out io.Writer) error {
	_, err := io.WriteString(out, fs.String())
	return err
}

func (fs *FilterSet) String() string {
	if fs.None() {
		return "PASS"
	}
	var b strings.Builder
	for f := Filter(0); f < filterCount; f++ {
		if !fs.Test(f) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(filterLabels[f])
	}
	return b.String()
}
