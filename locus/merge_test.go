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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringReference string

func (ref stringReference) GetSubstring(start, length int) string {
	return string(ref)[start : start+length]
}

const testReference = stringReference("ACGTACGT")

func newTestIndel(pos, deleteLength int, insert string, qual int) *IndelLocus {
	allele := IndelAllele{
		IndelKey:    IndelKey{Pos: pos, DeleteLength: deleteLength, InsertSequence: insert},
		IndelQphred: qual,
		MaxGtQphred: qual + 1,
		GQ:          qual + 2,
		GQX:         qual + 3,
	}
	allele.SetVcfSequences(testReference)
	return NewIndelLocus(allele, Het)
}

func requireViolation(t *testing.T, f func()) *InvariantViolation {
	t.Helper()
	err := Guard(f)
	require.Error(t, err)
	var v *InvariantViolation
	require.True(t, errors.As(err, &v))
	return v
}

func TestSetVcfSequences(t *testing.T) {
	deletion := newTestIndel(2, 2, "", 10)
	assert.Equal(t, "CGT", deletion.First().VcfRefSeq)
	assert.Equal(t, "C", deletion.First().VcfIndelSeq)
	assert.Equal(t, "1M2D", deletion.First().Cigar.String())
	assert.Equal(t, []int{0, 0}, deletion.Ploidy)
	assert.Equal(t, 4, deletion.End())

	insertion := newTestIndel(4, 0, "GG", 10)
	assert.Equal(t, "T", insertion.First().VcfRefSeq)
	assert.Equal(t, "TGG", insertion.First().VcfIndelSeq)
	assert.Equal(t, "1M2I", insertion.First().Cigar.String())
	assert.Empty(t, insertion.Ploidy)
}

func TestSetHapCigar(t *testing.T) {
	allele := IndelAllele{IndelKey: IndelKey{Pos: 5, DeleteLength: 3, InsertSequence: "AC"}}
	allele.SetHapCigar(2, 4)
	assert.Equal(t, "2M2I3D4M", allele.Cigar.String())
	allele.SetHapCigar(0, 0)
	assert.Equal(t, "2I3D", allele.Cigar.String())
}

func TestAddOverlapAdjacent(t *testing.T) {
	primary := newTestIndel(2, 2, "", 30)
	primary.Filters.Set(LowGQX)
	primary.EmpiricalScore = NewScore(12)
	secondary := newTestIndel(4, 2, "", 20)
	secondary.Filters.Set(HighSNVSB)

	primary.AddOverlap(testReference, secondary)

	require.Len(t, primary.Alleles, 2)
	assert.True(t, primary.IsOverlap)
	assert.Empty(t, secondary.Alleles)
	assert.Equal(t, 6, primary.End())

	require.Len(t, primary.Ploidy, 4)
	assert.Equal(t, []int{1, 1, 1, 1}, primary.Ploidy)
	for offset := range primary.Ploidy {
		assert.Less(t, primary.PloidyAt(offset), 2)
	}

	assert.Equal(t, "LowGQX;HighSNVSB", primary.Filters.String())

	first, second := primary.Alleles[0], primary.Alleles[1]
	assert.Equal(t, "CGTAC", first.VcfRefSeq)
	assert.Equal(t, "C"+"AC", first.VcfIndelSeq)
	assert.Equal(t, "CG"+"T", second.VcfIndelSeq)
	assert.Equal(t, "1M2D2M", first.Cigar.String())
	assert.Equal(t, "3M2D", second.Cigar.String())

	// the reference sequence of the combined range is only kept in the
	// first allele
	assert.Equal(t, "TAC", second.VcfRefSeq)

	assert.Equal(t, 20, first.IndelQphred)
	assert.Equal(t, 21, first.MaxGtQphred)
	assert.Equal(t, 22, first.GQ)
	assert.Equal(t, 23, first.GQX)
	assert.Equal(t, 12.0, primary.EmpiricalScore.Float())
}

func TestAddOverlapDoubleCover(t *testing.T) {
	primary := newTestIndel(2, 1, "", 30)
	secondary := newTestIndel(4, 0, "GG", 30)
	v := requireViolation(t, func() { primary.AddOverlap(testReference, secondary) })
	assert.Contains(t, v.Message, "ploidy 2")
}

func TestAddOverlapIdenticalSpans(t *testing.T) {
	primary := newTestIndel(2, 2, "", 30)
	secondary := newTestIndel(2, 2, "", 40)
	primary.AddOverlap(testReference, secondary)

	require.Len(t, primary.Alleles, 2)
	assert.Equal(t, []int{0, 0}, primary.Ploidy)
	assert.Equal(t, "CGT", primary.Alleles[0].VcfRefSeq)
	assert.Equal(t, "C", primary.Alleles[0].VcfIndelSeq)
	assert.Equal(t, "C", primary.Alleles[1].VcfIndelSeq)
	assert.Equal(t, 30, primary.Alleles[0].IndelQphred)
}

func TestAddOverlapScores(t *testing.T) {
	for _, tc := range []struct {
		primary, secondary EmpiricalScore
		expected           float64
	}{
		{EmpiricalScore{}, NewScore(7), 7},
		{NewScore(3), NewScore(5), 3},
		{EmpiricalScore{}, EmpiricalScore{}, -1},
		{NewScore(8), EmpiricalScore{}, 8},
	} {
		primary := newTestIndel(2, 2, "", 30)
		primary.EmpiricalScore = tc.primary
		secondary := newTestIndel(4, 2, "", 30)
		secondary.EmpiricalScore = tc.secondary
		primary.AddOverlap(testReference, secondary)
		assert.Equal(t, tc.expected, primary.EmpiricalScore.Float())
	}
}

func TestAddOverlapPreconditions(t *testing.T) {
	primary := newTestIndel(2, 2, "", 30)
	primary.AddOverlap(testReference, newTestIndel(4, 2, "", 30))
	v := requireViolation(t, func() { primary.AddOverlap(testReference, newTestIndel(5, 1, "", 30)) })
	assert.Equal(t, []interface{}{2, 5, 2, 1}, v.Values)

	empty := newTestIndel(4, 2, "", 30)
	empty.Alleles = nil
	requireViolation(t, func() { newTestIndel(2, 2, "", 30).AddOverlap(testReference, empty) })

	requireViolation(t, func() { newTestIndel(4, 2, "", 30).AddOverlap(testReference, newTestIndel(2, 2, "", 30)) })
}

func TestPloidyAt(t *testing.T) {
	l := newTestIndel(2, 2, "", 30)
	assert.Equal(t, 0, l.PloidyAt(1))
	v := requireViolation(t, func() { l.PloidyAt(2) })
	assert.Equal(t, []interface{}{2, 2}, v.Values)
	requireViolation(t, func() { l.PloidyAt(-1) })
}

func TestIsSimpleHet(t *testing.T) {
	l := newTestIndel(2, 2, "", 30)
	assert.True(t, l.IsSimpleHet())
	l.Zygosity = Hom
	assert.False(t, l.IsSimpleHet())
	l.Zygosity = Het
	l.AddOverlap(testReference, newTestIndel(4, 2, "", 30))
	assert.False(t, l.IsSimpleHet())
}
