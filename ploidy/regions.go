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

package ploidy

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"strings"

	psort "github.com/exascience/pargo/sort"

	"github.com/exascience/elscore/internal"
	"github.com/exascience/elscore/intervals"
	"github.com/exascience/elscore/vcf"
)

// A Region assigns a ploidy to each sample over a range of a
// chromosome.
type Region struct {
	intervals.Interval
	Ploidy []int
}

type regionSorter []Region

func (s regionSorter) SequentialSort(i, j int) {
	slice := s[i:j]
	sort.SliceStable(slice, func(i, j int) bool {
		return slice[i].Start < slice[j].Start
	})
}

func (s regionSorter) NewTemp() psort.StableSorter {
	return regionSorter(make([]Region, len(s)))
}

func (s regionSorter) Len() int {
	return len(s)
}

func (s regionSorter) Less(i, j int) bool {
	return s[i].Start < s[j].Start
}

func (s regionSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(regionSorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// A RegionMap holds ploidy overrides per chromosome. Regions are added
// in any order, then Finalize must be called before any lookup.
type RegionMap struct {
	sampleCount int
	regions     map[string][]Region
	ranges      map[string][]intervals.Interval
	finalized   bool
}

// NewRegionMap returns an empty RegionMap for the given number of
// samples.
func NewRegionMap(sampleCount int) *RegionMap {
	return &RegionMap{
		sampleCount: sampleCount,
		regions:     make(map[string][]Region),
	}
}

// SampleCount returns the number of samples of the map.
func (m *RegionMap) SampleCount() int {
	return m.sampleCount
}

// Add records a region. Empty ranges are ignored.
func (m *RegionMap) Add(chrom string, interval intervals.Interval, ploidy []int) {
	if m.finalized {
		log.Panic("Add called on a finalized ploidy region map")
	}
	if len(ploidy) != m.sampleCount {
		log.Panicf("ploidy region with %v samples added to a map for %v samples", len(ploidy), m.sampleCount)
	}
	if interval.Len() <= 0 {
		return
	}
	m.regions[chrom] = append(m.regions[chrom], Region{Interval: interval, Ploidy: ploidy})
}

// Finalize sorts the regions of each chromosome, and reports an error
// if two regions of the same chromosome overlap.
func (m *RegionMap) Finalize() error {
	m.ranges = make(map[string][]intervals.Interval, len(m.regions))
	for chrom, regions := range m.regions {
		psort.StableSort(regionSorter(regions))
		ranges := make([]intervals.Interval, len(regions))
		for i, region := range regions {
			if i > 0 && regions[i-1].Overlaps(region.Interval) {
				return fmt.Errorf("overlapping ploidy regions %v-%v and %v-%v on chromosome %v",
					regions[i-1].Start, regions[i-1].End, region.Start, region.End, chrom)
			}
			ranges[i] = region.Interval
		}
		m.ranges[chrom] = ranges
	}
	m.finalized = true
	return nil
}

func (m *RegionMap) checkFinalized() {
	if !m.finalized {
		log.Panic("ploidy region map used before Finalize")
	}
}

// PloidyAt returns the ploidy of sample at the 0-based position pos of
// chrom. It returns false if no region covers the position, or if the
// ploidy of the sample is Unknown there.
func (m *RegionMap) PloidyAt(chrom string, pos int32, sample int) (int, bool) {
	m.checkFinalized()
	index := intervals.Find(m.ranges[chrom], pos)
	if index < 0 {
		return 0, false
	}
	ploidy := m.regions[chrom][index].Ploidy[sample]
	if ploidy == Unknown {
		return 0, false
	}
	return ploidy, true
}

// Chromosomes returns the chromosomes with at least one region, in
// sorted order.
func (m *RegionMap) Chromosomes() []string {
	result := make([]string, 0, len(m.regions))
	for chrom := range m.regions {
		result = append(result, chrom)
	}
	sort.Strings(result)
	return result
}

// Regions returns the sorted regions of chrom. The result must not be
// modified.
func (m *RegionMap) Regions(chrom string) []Region {
	m.checkFinalized()
	return m.regions[chrom]
}

// Covered returns the ranges of chrom covered by some region, with
// touching regions joined.
func (m *RegionMap) Covered(chrom string) []intervals.Interval {
	m.checkFinalized()
	ranges := m.ranges[chrom]
	return intervals.Flatten(append([]intervals.Interval(nil), ranges...))
}

func isBedHeader(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "track") ||
		strings.HasPrefix(line, "browser")
}

// ReadBed reads a single-sample ploidy map from BED lines.
func ReadBed(r io.Reader) (*RegionMap, error) {
	m := NewRegionMap(1)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || isBedHeader(line) {
			continue
		}
		record, err := ParseBedRecord(line)
		if err != nil {
			return nil, err
		}
		m.Add(record.Chrom, record.Range, []int{record.Ploidy})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, m.Finalize()
}

// ReadVcf reads a ploidy map for sampleCount samples from VCF lines.
func ReadVcf(r io.Reader, sampleCount int) (*RegionMap, error) {
	m := NewRegionMap(sampleCount)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !vcf.IsDataLine(line) {
			continue
		}
		record, err := ParseVcf(sampleCount, line)
		if err != nil {
			return nil, err
		}
		m.Add(record.Chrom, record.Range, record.Ploidy)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, m.Finalize()
}

// LoadBed reads a single-sample ploidy map from a BED file, or from
// standard input if filename is "-".
func LoadBed(filename string) (m *RegionMap, err error) {
	file, err := internal.FileOpen(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(file, &err)
	return ReadBed(file)
}

// LoadVcf reads a ploidy map for sampleCount samples from a VCF file,
// or from standard input if filename is "-".
func LoadVcf(filename string, sampleCount int) (m *RegionMap, err error) {
	file, err := internal.FileOpen(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(file, &err)
	return ReadVcf(file, sampleCount)
}

// Load reads a ploidy map from a BED or VCF file, depending on its
// extension. BED maps always hold a single sample.
func Load(filename string, sampleCount int) (*RegionMap, error) {
	switch filepath.Ext(filename) {
	case ".bed":
		return LoadBed(filename)
	case ".vcf":
		return LoadVcf(filename, sampleCount)
	default:
		return nil, fmt.Errorf("unknown ploidy file extension in %v", filename)
	}
}
