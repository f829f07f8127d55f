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

	psort "github.com/exascience/pargo/sort"
	"go.uber.org/zap"

	"github.com/exascience/elscore/intervals"
	"github.com/exascience/elscore/locus"
)

type indelSorter []*locus.IndelLocus

func (s indelSorter) SequentialSort(i, j int) {
	slice := s[i:j]
	sort.SliceStable(slice, func(i, j int) bool {
		return slice[i].Pos < slice[j].Pos
	})
}

func (s indelSorter) NewTemp() psort.StableSorter {
	return indelSorter(make([]*locus.IndelLocus, len(s)))
}

func (s indelSorter) Len() int {
	return len(s)
}

func (s indelSorter) Less(i, j int) bool {
	return s[i].Pos < s[j].Pos
}

func (s indelSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(indelSorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

func indelSpan(indel *locus.IndelLocus) intervals.Interval {
	return intervals.Interval{Start: int32(indel.Pos), End: int32(indel.End())}
}

// processIndels sorts the indels of the region, and groups indels that
// touch or overlap. A group of two simple heterozygous indels is merged
// into one locus; the indels of any other group of two or more are
// filtered as conflicting. Returns the flattened spans of the
// conflicting groups.
func (p *Processor) processIndels(region *Region, logger *zap.Logger, stats *Stats) []intervals.Interval {
	indels := region.Indels
	psort.StableSort(indelSorter(indels))

	result := indels[:0]
	var conflicts []intervals.Interval
	for i := 0; i < len(indels); {
		span := indelSpan(indels[i])
		j := i + 1
		for j < len(indels) && span.Extend(indelSpan(indels[j])) {
			j++
		}
		group := indels[i:j]
		i = j

		switch {
		case len(group) == 1:
			result = append(result, group[0])

		case len(group) == 2 && group[0].IsSimpleHet() && group[1].IsSimpleHet():
			primary, overlap := group[0], group[1]
			if err := locus.Guard(func() { primary.AddOverlap(region.Reference, overlap) }); err != nil {
				logger.Warn("dropping overlapping indels that cannot be merged",
					zap.Int("pos", primary.Pos),
					zap.Int("overlap", overlap.Pos),
					zap.Error(err))
				stats.DroppedLoci += 2
				continue
			}
			primary.Zygosity = locus.HetAlt
			stats.MergedIndels++
			result = append(result, primary)

		default:
			for _, indel := range group {
				indel.Filters.Set(locus.IndelConflict)
				result = append(result, indel)
			}
			stats.IndelConflicts += len(group)
			conflicts = append(conflicts, span)
		}
	}
	for k := len(result); k < len(indels); k++ {
		indels[k] = nil
	}
	region.Indels = result
	return intervals.Flatten(conflicts)
}

// markSiteConflicts filters the sites covered by conflicting indels.
func (p *Processor) markSiteConflicts(region *Region, conflicts []intervals.Interval, stats *Stats) {
	if len(conflicts) == 0 {
		return
	}
	for _, site := range region.Sites {
		if intervals.Find(conflicts, int32(site.Pos)) >= 0 {
			site.Filters.Set(locus.SiteConflict)
			stats.SiteConflicts++
		}
	}
}
