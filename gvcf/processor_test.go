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

package gvcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/exascience/elscore/depth"
	"github.com/exascience/elscore/evs"
	"github.com/exascience/elscore/fasta"
	"github.com/exascience/elscore/intervals"
	"github.com/exascience/elscore/locus"
	"github.com/exascience/elscore/ploidy"
)

var testReference = fasta.Contig("ACGTACGTACGTACGT")

func newIndel(pos, deleteLength int, insert string, zygosity locus.Zygosity) *locus.IndelLocus {
	allele := locus.IndelAllele{
		IndelKey:    locus.IndelKey{Pos: pos, DeleteLength: deleteLength, InsertSequence: insert},
		IndelQphred: 40,
		MaxGtQphred: 40,
		GQ:          40,
		GQX:         40,
	}
	allele.SetVcfSequences(testReference)
	return locus.NewIndelLocus(allele, zygosity)
}

func newSite(pos int, ref locus.Base, gt locus.Genotype) *locus.SiteLocus {
	site := &locus.SiteLocus{
		Pos:       pos,
		RefBase:   ref,
		Genotype:  gt,
		UsedCalls: 20,
		MapqCount: 25,
		MapqRMS:   60,
		GQ:        50,
		GQX:       45,
	}
	site.AlleleObservationCounts[ref] = 10
	return site
}

func newTestProcessor() (*Processor, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewProcessor(locus.FeatureOptions{IsUniformDepthExpected: true}, depth.Map{"chr1": 30})
	p.Logger = zap.New(core)
	return p, logs
}

func TestMergeOverlappingHetIndels(t *testing.T) {
	p, _ := newTestProcessor()
	region := &Region{
		Chrom:     "chr1",
		Reference: testReference,
		Indels: []*locus.IndelLocus{
			newIndel(4, 2, "", locus.Het),
			newIndel(2, 2, "", locus.Het),
			newIndel(10, 1, "", locus.Hom),
		},
	}
	stats := p.ProcessRegion(region)

	require.Len(t, region.Indels, 2)
	merged := region.Indels[0]
	assert.Equal(t, 2, merged.Pos)
	require.Len(t, merged.Alleles, 2)
	assert.Equal(t, locus.HetAlt, merged.Zygosity)
	assert.True(t, merged.IsOverlap)
	assert.Equal(t, []int{1, 1, 1, 1}, merged.Ploidy)
	assert.Equal(t, "CGTAC", merged.Alleles[0].VcfRefSeq)
	assert.Equal(t, "PASS", merged.Filters.String())
	assert.Equal(t, 10, region.Indels[1].Pos)

	assert.Equal(t, Stats{Indels: 2, MergedIndels: 1}, stats)
}

func TestConflictingIndels(t *testing.T) {
	p, _ := newTestProcessor()
	region := &Region{
		Chrom:     "chr1",
		Reference: testReference,
		Indels: []*locus.IndelLocus{
			newIndel(2, 3, "", locus.Het),
			newIndel(3, 1, "", locus.Het),
			newIndel(4, 0, "TT", locus.Het),
			newIndel(9, 2, "", locus.Het),
			newIndel(10, 1, "", locus.Hom),
		},
		Sites: []*locus.SiteLocus{
			newSite(3, locus.T, locus.AT),
			newSite(8, locus.A, locus.AA),
			newSite(10, locus.C, locus.CC),
			newSite(12, locus.A, locus.AC),
		},
	}
	stats := p.ProcessRegion(region)

	require.Len(t, region.Indels, 5)
	for _, indel := range region.Indels {
		assert.True(t, indel.Filters.Test(locus.IndelConflict), indel.Pos)
		assert.Len(t, indel.Alleles, 1)
	}
	assert.True(t, region.Sites[0].Filters.Test(locus.SiteConflict))
	assert.False(t, region.Sites[1].Filters.Test(locus.SiteConflict))
	assert.True(t, region.Sites[2].Filters.Test(locus.SiteConflict))
	assert.False(t, region.Sites[3].Filters.Test(locus.SiteConflict))
	assert.Equal(t, 5, stats.IndelConflicts)
	assert.Equal(t, 2, stats.SiteConflicts)
}

type unavailableReference struct{}

func (unavailableReference) GetSubstring(start, length int) string {
	panic(&locus.InvariantViolation{Message: "reference range not available", Values: []interface{}{start, length}})
}

func TestFailedMergeIsDropped(t *testing.T) {
	p, logs := newTestProcessor()
	region := &Region{
		Chrom:     "chr1",
		Reference: unavailableReference{},
		Indels: []*locus.IndelLocus{
			newIndel(2, 2, "", locus.Het),
			newIndel(3, 2, "", locus.Het),
			newIndel(8, 1, "", locus.Het),
		},
	}
	stats := p.ProcessRegion(region)

	require.Len(t, region.Indels, 1)
	assert.Equal(t, 8, region.Indels[0].Pos)
	assert.Equal(t, 2, stats.DroppedLoci)
	assert.Equal(t, 0, stats.MergedIndels)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "chr1", warnings[0].ContextMap()["chrom"])
	assert.Equal(t, int64(2), warnings[0].ContextMap()["pos"])
	assert.Equal(t, int64(3), warnings[0].ContextMap()["overlap"])
}

func TestPloidyConflicts(t *testing.T) {
	m := ploidy.NewRegionMap(1)
	m.Add("chr1", intervals.Interval{Start: 0, End: 6}, []int{1})
	m.Add("chr1", intervals.Interval{Start: 6, End: 12}, []int{0})
	require.NoError(t, m.Finalize())

	p, _ := newTestProcessor()
	p.Ploidy = m
	region := &Region{
		Chrom:     "chr1",
		Reference: testReference,
		Sites: []*locus.SiteLocus{
			newSite(1, locus.C, locus.CG),
			newSite(3, locus.T, locus.AA),
			newSite(7, locus.T, locus.GT),
			newSite(8, locus.A, locus.AA),
			newSite(14, locus.G, locus.GT),
		},
		Indels: []*locus.IndelLocus{
			newIndel(2, 1, "", locus.Het),
			newIndel(4, 1, "", locus.Hom),
		},
	}
	stats := p.ProcessRegion(region)

	var conflicts []int
	for _, site := range region.Sites {
		if site.Filters.Test(locus.PloidyConflict) {
			conflicts = append(conflicts, site.Pos)
		}
	}
	assert.Equal(t, []int{1, 7}, conflicts)
	assert.True(t, region.Indels[0].Filters.Test(locus.PloidyConflict))
	assert.False(t, region.Indels[1].Filters.Test(locus.PloidyConflict))
	assert.Equal(t, 3, stats.PloidyConflicts)
}

func TestComputeFeatures(t *testing.T) {
	p, logs := newTestProcessor()
	noRef := newSite(9, locus.A, locus.CC)
	noRef.RefBase = locus.NBases
	region := &Region{
		Chrom: "chr1",
		Sites: []*locus.SiteLocus{
			newSite(5, locus.C, locus.CT),
			newSite(1, locus.C, locus.CC),
			noRef,
		},
	}
	stats := p.ProcessRegion(region)

	require.Len(t, region.Sites, 2)
	assert.Equal(t, 1, region.Sites[0].Pos)
	assert.Nil(t, region.Sites[0].Features)

	features := region.Sites[1].Features
	require.NotNil(t, features)
	assert.Equal(t, evs.GermlineSNV, features.FeatureSet())
	value, ok := features.Get(evs.GermlineTDPNorm)
	assert.True(t, ok)
	assert.InDelta(t, 25.0/30, value, 1e-12)

	assert.Equal(t, 1, stats.DroppedLoci)
	assert.Equal(t, 1, logs.FilterMessage("dropping site without scoring features").Len())
}

func TestProcess(t *testing.T) {
	p, logs := newTestProcessor()
	var regions []*Region
	for i := 0; i < 16; i++ {
		regions = append(regions, &Region{
			Chrom:     "chr1",
			Reference: testReference,
			Sites:     []*locus.SiteLocus{newSite(1, locus.C, locus.CT)},
			Indels: []*locus.IndelLocus{
				newIndel(2, 2, "", locus.Het),
				newIndel(4, 2, "", locus.Het),
			},
		})
	}
	stats, err := p.Process(regions)
	require.NoError(t, err)
	assert.Equal(t, Stats{Sites: 16, Indels: 16, MergedIndels: 16}, stats)
	for _, region := range regions {
		assert.Len(t, region.Indels, 1)
		assert.NotNil(t, region.Sites[0].Features)
	}
	assert.Equal(t, 1, logs.FilterMessage("processed regions").Len())

	_, err = p.Process([]*Region{{Chrom: "chr2", Indels: []*locus.IndelLocus{newIndel(2, 2, "", locus.Het)}}})
	assert.Error(t, err)
}
