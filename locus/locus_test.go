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
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSetWrite(t *testing.T) {
	var fs FilterSet
	assert.True(t, fs.None())
	assert.Equal(t, "PASS", fs.String())

	fs.Set(PloidyConflict)
	fs.Set(IndelConflict)
	fs.Set(LowGQX)
	assert.False(t, fs.None())

	var buf bytes.Buffer
	require.NoError(t, fs.Write(&buf))
	assert.Equal(t, "IndelConflict;LowGQX;PloidyConflict", buf.String())
}

func TestFilterSetMerge(t *testing.T) {
	filters := Filters()
	for i, f1 := range filters {
		for _, f2 := range filters[i:] {
			var a, b FilterSet
			a.Set(f1)
			b.Set(f2)
			merged := a.Clone()
			merged.Merge(&b)
			for _, f := range filters {
				assert.Equal(t, a.Test(f) || b.Test(f), merged.Test(f), "%v %v %v", f1, f2, f)
			}
		}
	}

	var a, empty FilterSet
	a.Set(HighDepth)
	a.Merge(&empty)
	assert.Equal(t, "HighDepth", a.String())
	empty.Merge(&a)
	assert.Equal(t, "HighDepth", empty.String())
}

func TestFilterSetClone(t *testing.T) {
	var a FilterSet
	a.Set(LowDepth)
	b := a.Clone()
	b.Set(HighSNVSB)
	assert.Equal(t, "LowDepth", a.String())
	assert.Equal(t, "HighSNVSB;LowDepth", b.String())
}

func TestFilterLabels(t *testing.T) {
	filters := Filters()
	assert.Len(t, filters, 10)
	assert.Equal(t, NoPassedVariantGTs, filters[len(filters)-1])
	for _, f := range filters {
		assert.NotEmpty(t, f.Label())
		assert.NotEmpty(t, f.Description())
	}
	assert.Equal(t, "HighDPFRatio", HighDPFRatio.String())
}

func TestEmpiricalScoreMerge(t *testing.T) {
	unset := EmpiricalScore{}
	assert.Equal(t, 7.0, unset.Merge(NewScore(7)).Float())
	assert.Equal(t, 3.0, NewScore(3).Merge(NewScore(5)).Float())
	assert.Equal(t, 3.0, NewScore(5).Merge(NewScore(3)).Float())
	assert.Equal(t, -1.0, unset.Merge(unset).Float())
	assert.Equal(t, 5.0, NewScore(5).Merge(unset).Float())
	assert.Equal(t, 0.0, NewScore(0).Merge(NewScore(9)).Float())

	value, ok := NewScore(4).Get()
	assert.True(t, ok)
	assert.Equal(t, 4, value)
	_, ok = unset.Get()
	assert.False(t, ok)
	assert.False(t, unset.IsSet())
}

func TestGuard(t *testing.T) {
	assert.NoError(t, Guard(func() {}))

	err := Guard(func() { invariantf("bad value %v", 42) })
	require.Error(t, err)
	var v *InvariantViolation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "bad value 42", v.Message)
	assert.Equal(t, []interface{}{42}, v.Values)

	assert.PanicsWithValue(t, "other", func() {
		_ = Guard(func() { panic("other") })
	})
}

func TestGenotypes(t *testing.T) {
	gt, err := ParseGenotype("GA")
	require.NoError(t, err)
	assert.Equal(t, AG, gt)
	assert.True(t, gt.IsHet())
	assert.True(t, gt.Contains(A))
	assert.True(t, gt.Contains(G))
	assert.False(t, gt.Contains(C))
	assert.Equal(t, "AG", gt.String())

	gt, err = ParseGenotype("tt")
	require.NoError(t, err)
	assert.Equal(t, TT, gt)
	assert.False(t, gt.IsHet())

	for _, s := range []string{"", "A", "AN", "ACG"} {
		_, err := ParseGenotype(s)
		assert.Error(t, err, s)
	}

	z, err := ParseZygosity("HetAlt")
	require.NoError(t, err)
	assert.Equal(t, HetAlt, z)
	_, err = ParseZygosity("het")
	assert.Error(t, err)
}

func TestSiteZygosity(t *testing.T) {
	for _, tc := range []struct {
		ref      Base
		gt       Genotype
		expected Zygosity
	}{
		{A, AA, HomRef},
		{A, AC, Het},
		{A, CC, Hom},
		{A, CG, HetAlt},
		{T, AT, Het},
	} {
		site := SiteLocus{RefBase: tc.ref, Genotype: tc.gt}
		assert.Equal(t, tc.expected, site.Zygosity(), "%v %v", tc.ref, tc.gt)
	}
}
