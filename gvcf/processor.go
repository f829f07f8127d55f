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

// Package gvcf drives the scoring of called loci, region by region:
// overlapping heterozygous indels are merged, conflicting indels and
// the sites they cover are filtered, calls that contradict the ploidy
// of their region are filtered, and the scoring features of variant
// sites are computed.
package gvcf

import (
	"errors"

	"github.com/exascience/pargo/parallel"
	"go.uber.org/zap"

	"github.com/exascience/elscore/depth"
	"github.com/exascience/elscore/locus"
	"github.com/exascience/elscore/ploidy"
)

// A Region holds the loci called on a range of a chromosome. Loci are
// exclusively owned by the region.
type Region struct {
	Chrom     string
	Reference locus.Reference
	Sites     []*locus.SiteLocus
	Indels    []*locus.IndelLocus
}

// Stats counts what happened while processing regions.
type Stats struct {
	Sites           int
	Indels          int
	MergedIndels    int
	IndelConflicts  int
	SiteConflicts   int
	PloidyConflicts int
	DroppedLoci     int
}

func (s *Stats) add(other Stats) {
	s.Sites += other.Sites
	s.Indels += other.Indels
	s.MergedIndels += other.MergedIndels
	s.IndelConflicts += other.IndelConflicts
	s.SiteConflicts += other.SiteConflicts
	s.PloidyConflicts += other.PloidyConflicts
	s.DroppedLoci += other.DroppedLoci
}

// A Processor processes regions of called loci.
type Processor struct {
	Features locus.FeatureOptions
	// ChromDepth is the expected depth per chromosome. Chromosomes
	// without an entry have depth 0, which disables depth
	// normalization.
	ChromDepth depth.Map
	// Ploidy holds optional ploidy overrides, looked up for Sample.
	Ploidy *ploidy.RegionMap
	Sample int
	Logger *zap.Logger
}

// NewProcessor returns a Processor that logs nothing.
func NewProcessor(features locus.FeatureOptions, chromDepth depth.Map) *Processor {
	return &Processor{
		Features:   features,
		ChromDepth: chromDepth,
		Logger:     zap.NewNop(),
	}
}

func (p *Processor) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

var errMissingReference = errors.New("region with indels has no reference")

// Process processes the regions in parallel, and returns the combined
// statistics. Each region is processed by exactly one goroutine.
func (p *Processor) Process(regions []*Region) (Stats, error) {
	for _, region := range regions {
		if region.Reference == nil && len(region.Indels) > 0 {
			return Stats{}, errMissingReference
		}
	}
	stats := make([]Stats, len(regions))
	parallel.Range(0, len(regions), 0, func(low, high int) {
		for i := low; i < high; i++ {
			stats[i] = p.ProcessRegion(regions[i])
		}
	})
	var total Stats
	for _, s := range stats {
		total.add(s)
	}
	p.logger().Info("processed regions",
		zap.Int("regions", len(regions)),
		zap.Int("sites", total.Sites),
		zap.Int("indels", total.Indels),
		zap.Int("merged", total.MergedIndels),
		zap.Int("dropped", total.DroppedLoci))
	return total, nil
}

// ProcessRegion processes the loci of a single region in place. Loci
// that break an invariant are logged and removed from the region.
func (p *Processor) ProcessRegion(region *Region) (stats Stats) {
	logger := p.logger().With(zap.String("chrom", region.Chrom))
	conflicts := p.processIndels(region, logger, &stats)
	p.markSiteConflicts(region, conflicts, &stats)
	p.markPloidyConflicts(region, &stats)
	p.computeFeatures(region, logger, &stats)
	stats.Sites = len(region.Sites)
	stats.Indels = len(region.Indels)
	return stats
}
