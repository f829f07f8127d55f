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
	"sort"

	"go.uber.org/zap"

	"github.com/exascience/elscore/locus"
)

// conflictsWithPloidy determines whether a call of zygosity z is
// impossible in a region of the given ploidy.
func conflictsWithPloidy(z locus.Zygosity, ploidy int) bool {
	switch ploidy {
	case 0:
		return z.IsVariant()
	case 1:
		return z == locus.Het || z == locus.HetAlt
	default:
		return false
	}
}

func (p *Processor) markPloidyConflicts(region *Region, stats *Stats) {
	if p.Ploidy == nil {
		return
	}
	check := func(pos int, z locus.Zygosity, filters *locus.FilterSet) {
		if ploidy, ok := p.Ploidy.PloidyAt(region.Chrom, int32(pos), p.Sample); ok && conflictsWithPloidy(z, ploidy) {
			filters.Set(locus.PloidyConflict)
			stats.PloidyConflicts++
		}
	}
	for _, site := range region.Sites {
		check(site.Pos, site.Zygosity(), &site.Filters)
	}
	for _, indel := range region.Indels {
		check(indel.Pos, indel.Zygosity, &indel.Filters)
	}
}

// computeFeatures sorts the sites of the region, and computes the
// scoring features of its variant sites. Sites for which this fails are
// dropped.
func (p *Processor) computeFeatures(region *Region, logger *zap.Logger, stats *Stats) {
	sort.SliceStable(region.Sites, func(i, j int) bool {
		return region.Sites[i].Pos < region.Sites[j].Pos
	})
	chromDepth, ok := p.ChromDepth.Depth(region.Chrom)
	if !ok && p.Features.IsUniformDepthExpected {
		logger.Debug("no expected depth for chromosome")
	}
	sites := region.Sites[:0]
	for _, site := range region.Sites {
		if site.Zygosity().IsVariant() {
			if err := locus.Guard(func() {
				locus.ComputeEmpiricalScoringFeatures(site, p.Features, chromDepth)
			}); err != nil {
				logger.Warn("dropping site without scoring features",
					zap.Int("pos", site.Pos),
					zap.Error(err))
				stats.DroppedLoci++
				continue
			}
		}
		sites = append(sites, site)
	}
	region.Sites = sites
}
