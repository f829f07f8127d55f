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

package cmd

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/exascience/elscore/continuous"
	"github.com/exascience/elscore/fasta"
	"github.com/exascience/elscore/gvcf"
	"github.com/exascience/elscore/locus"
)

// Loci are read from YAML documents of the following form. Positions
// are 1-based. Indels are given in VCF style, with the padding base at
// pos as the first base of ref and alt.
//
//	regions:
//	  - chrom: chr1
//	    class: rna
//	    sites:
//	      - pos: 101
//	        genotype: AG
//	        counts: {A: 10, G: 6}
//	        usedCalls: 16
//	        strand: [3, 3, 5, 5]
//	    indels:
//	      - pos: 200
//	        ref: CGT
//	        alt: C
//	        zygosity: Het
type lociInput struct {
	Regions []regionInput `yaml:"regions"`
}

type regionInput struct {
	Chrom  string       `yaml:"chrom"`
	Class  string       `yaml:"class"`
	Sites  []siteInput  `yaml:"sites"`
	Indels []indelInput `yaml:"indels"`
}

type siteInput struct {
	Pos            int             `yaml:"pos"`
	Genotype       string          `yaml:"genotype"`
	Counts         map[string]uint `yaml:"counts"`
	UsedCalls      uint            `yaml:"usedCalls"`
	UnusedCalls    uint            `yaml:"unusedCalls"`
	MapqCount      uint            `yaml:"mapqCount"`
	MapqZeroCount  uint            `yaml:"mapqZeroCount"`
	MapqRMS        float64         `yaml:"mapqRMS"`
	MQRankSum      float64         `yaml:"mqRankSum"`
	ReadPosRankSum float64         `yaml:"readPosRankSum"`
	BaseQRankSum   float64         `yaml:"baseQRankSum"`
	AvgBaseQ       float64         `yaml:"avgBaseQ"`
	RawPos         float64         `yaml:"rawPos"`
	Hpol           int             `yaml:"hpol"`
	StrandBias     float64         `yaml:"strandBias"`
	Strand         []uint          `yaml:"strand"`
	SnvQphred      int             `yaml:"snvQphred"`
	GQ             int             `yaml:"gq"`
	GQX            int             `yaml:"gqx"`
	Filters        []string        `yaml:"filters"`
	Score          *int            `yaml:"score"`
}

type indelInput struct {
	Pos         int      `yaml:"pos"`
	Ref         string   `yaml:"ref"`
	Alt         string   `yaml:"alt"`
	Zygosity    string   `yaml:"zygosity"`
	IndelQphred int      `yaml:"indelQphred"`
	MaxGtQphred int      `yaml:"maxGtQphred"`
	GQ          int      `yaml:"gq"`
	GQX         int      `yaml:"gqx"`
	Filters     []string `yaml:"filters"`
	Score       *int     `yaml:"score"`
}

type lociBuilder struct {
	reference fasta.Reference
	caller    continuous.Caller
	class     locus.VariantClass
}

func parseFilters(labels []string, filters *locus.FilterSet) error {
nextLabel:
	for _, label := range labels {
		for _, f := range locus.Filters() {
			if f.Label() == label {
				filters.Set(f)
				continue nextLabel
			}
		}
		return fmt.Errorf("unknown filter %v", label)
	}
	return nil
}

func parseClass(s string, defaultClass locus.VariantClass) (locus.VariantClass, error) {
	switch s {
	case "":
		return defaultClass, nil
	case "germline":
		return locus.Germline, nil
	case "rna":
		return locus.RNA, nil
	default:
		return 0, fmt.Errorf("unknown variant class %v", s)
	}
}

func (b *lociBuilder) site(contig fasta.Contig, in siteInput) (*locus.SiteLocus, error) {
	if in.Pos < 1 || in.Pos > len(contig) {
		return nil, fmt.Errorf("position %v outside of reference", in.Pos)
	}
	site := &locus.SiteLocus{
		Pos:            in.Pos - 1,
		UsedCalls:      in.UsedCalls,
		UnusedCalls:    in.UnusedCalls,
		MapqCount:      in.MapqCount,
		MapqZeroCount:  in.MapqZeroCount,
		MapqRMS:        in.MapqRMS,
		MQRankSum:      in.MQRankSum,
		ReadPosRankSum: in.ReadPosRankSum,
		BaseQRankSum:   in.BaseQRankSum,
		AvgBaseQ:       in.AvgBaseQ,
		RawPos:         in.RawPos,
		Hpol:           in.Hpol,
		StrandBias:     in.StrandBias,
		SnvQphred:      in.SnvQphred,
		GQ:             in.GQ,
		GQX:            in.GQX,
	}
	site.Class = b.class
	var err error
	if site.RefBase, err = locus.ParseBase(contig[site.Pos]); err != nil {
		return nil, fmt.Errorf("reference base at position %v: %w", in.Pos, err)
	}
	if site.Genotype, err = locus.ParseGenotype(in.Genotype); err != nil {
		return nil, fmt.Errorf("site at position %v: %w", in.Pos, err)
	}
	for label, count := range in.Counts {
		if len(label) != 1 {
			return nil, fmt.Errorf("site at position %v: invalid base %q", in.Pos, label)
		}
		base, err := locus.ParseBase(label[0])
		if err != nil {
			return nil, fmt.Errorf("site at position %v: %w", in.Pos, err)
		}
		site.AlleleObservationCounts[base] = count
	}
	switch len(in.Strand) {
	case 0:
	case 4:
		site.StrandBias = b.caller.StrandBias(in.Strand[0], in.Strand[1], in.Strand[2], in.Strand[3])
	default:
		return nil, fmt.Errorf("site at position %v: strand needs four counts, got %v", in.Pos, len(in.Strand))
	}
	if err := parseFilters(in.Filters, &site.Filters); err != nil {
		return nil, fmt.Errorf("site at position %v: %w", in.Pos, err)
	}
	if in.Score != nil {
		site.EmpiricalScore = locus.NewScore(*in.Score)
	}
	return site, nil
}

func (b *lociBuilder) indel(contig fasta.Contig, in indelInput) (*locus.IndelLocus, error) {
	if len(in.Ref) == 0 || len(in.Alt) == 0 || in.Ref[0] != in.Alt[0] {
		return nil, fmt.Errorf("indel at position %v: ref and alt must share the padding base", in.Pos)
	}
	if len(in.Ref) == 1 && len(in.Alt) == 1 {
		return nil, fmt.Errorf("indel at position %v: neither deletes nor inserts bases", in.Pos)
	}
	if in.Pos < 1 || in.Pos-1+len(in.Ref) > len(contig) {
		return nil, fmt.Errorf("indel at position %v outside of reference", in.Pos)
	}
	if ref := contig.GetSubstring(in.Pos-1, len(in.Ref)); ref != in.Ref {
		return nil, fmt.Errorf("indel at position %v: ref %v does not match reference %v", in.Pos, in.Ref, ref)
	}
	zygosity, err := locus.ParseZygosity(in.Zygosity)
	if err != nil {
		return nil, fmt.Errorf("indel at position %v: %w", in.Pos, err)
	}
	allele := locus.IndelAllele{
		IndelKey: locus.IndelKey{
			Pos:            in.Pos,
			DeleteLength:   len(in.Ref) - 1,
			InsertSequence: in.Alt[1:],
		},
		IndelQphred: in.IndelQphred,
		MaxGtQphred: in.MaxGtQphred,
		GQ:          in.GQ,
		GQX:         in.GQX,
	}
	allele.SetVcfSequences(contig)
	indel := locus.NewIndelLocus(allele, zygosity)
	if err := parseFilters(in.Filters, &indel.Filters); err != nil {
		return nil, fmt.Errorf("indel at position %v: %w", in.Pos, err)
	}
	if in.Score != nil {
		indel.EmpiricalScore = locus.NewScore(*in.Score)
	}
	return indel, nil
}

func (b *lociBuilder) region(in regionInput) (*gvcf.Region, error) {
	contig, ok := b.reference[in.Chrom]
	if !ok {
		return nil, fmt.Errorf("chromosome %v not in reference", in.Chrom)
	}
	class, err := parseClass(in.Class, b.class)
	if err != nil {
		return nil, fmt.Errorf("chromosome %v: %w", in.Chrom, err)
	}
	rb := *b
	rb.class = class
	region := &gvcf.Region{Chrom: in.Chrom, Reference: contig}
	for _, s := range in.Sites {
		site, err := rb.site(contig, s)
		if err != nil {
			return nil, fmt.Errorf("chromosome %v: %w", in.Chrom, err)
		}
		region.Sites = append(region.Sites, site)
	}
	for _, i := range in.Indels {
		indel, err := rb.indel(contig, i)
		if err != nil {
			return nil, fmt.Errorf("chromosome %v: %w", in.Chrom, err)
		}
		region.Indels = append(region.Indels, indel)
	}
	return region, nil
}

// readLoci reads the regions of a YAML loci document.
func (b *lociBuilder) readLoci(r io.Reader) ([]*gvcf.Region, error) {
	var input lociInput
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&input); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing loci: %w", err)
	}
	regions := make([]*gvcf.Region, 0, len(input.Regions))
	for _, in := range input.Regions {
		region, err := b.region(in)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	return regions, nil
}
