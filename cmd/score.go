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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/fai"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exascience/elscore/continuous"
	"github.com/exascience/elscore/depth"
	"github.com/exascience/elscore/evs"
	"github.com/exascience/elscore/fasta"
	"github.com/exascience/elscore/gvcf"
	"github.com/exascience/elscore/internal"
	"github.com/exascience/elscore/locus"
	"github.com/exascience/elscore/ploidy"
)

const scoreHelp = "score parameters:\n" +
	"elscore score loci.yaml\n" +
	"[--reference file.fasta]\n" +
	"[--rna]\n" +
	"[--uniform-depth]\n" +
	"[--development-features]\n" +
	"[--strand-bias-error-rate nr]\n" +
	"[--chrom-depth file.tsv]\n" +
	"[--ploidy file.bed|file.vcf]\n" +
	"[--ploidy-sample-count nr]\n" +
	"[--ploidy-sample nr]\n"

func newScoreCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <loci.yaml>",
		Short: "Merge, filter, and compute scoring features of called loci",
		Long:  scoreHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.score(args[0], cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.String(keyReference, "", "reference FASTA file, with an optional .fai index next to it")
	flags.Bool(keyRNA, false, "score sites with the RNA model")
	flags.Bool(keyUniformDepth, false, "normalize depth features by the chromosome depth")
	flags.Bool(keyDevelopmentFeatures, false, "also compute development features")
	flags.Float64(keyStrandBiasErrorRate, continuous.DefaultStrandBiasErrorRate, "per-read error rate for strand bias")
	flags.String(keyChromDepth, "", "tab-separated chromosome depth file")
	flags.String(keyPloidy, "", "ploidy override file in BED or VCF format")
	flags.Int(keyPloidySampleCount, 1, "number of samples in a VCF ploidy file")
	flags.Int(keyPloidySample, 0, "index of the sample whose ploidy overrides apply")
	return cmd
}

func loadReference(filename string) (fasta.Reference, error) {
	var index fai.Index
	if filename != "-" {
		if _, err := os.Stat(filename + ".fai"); err == nil {
			if index, err = fasta.LoadFai(filename + ".fai"); err != nil {
				return nil, err
			}
		}
	}
	return fasta.ParseFasta(filename, index)
}

func (a *app) newProcessor() (*gvcf.Processor, error) {
	v := a.config
	features := locus.FeatureOptions{
		IsUniformDepthExpected:       v.GetBool(keyUniformDepth),
		IsComputeDevelopmentFeatures: v.GetBool(keyDevelopmentFeatures),
	}

	var chromDepth depth.Map
	if filename := v.GetString(keyChromDepth); filename != "" {
		if err := checkExist("--"+keyChromDepth, filename); err != nil {
			return nil, err
		}
		var err error
		if chromDepth, err = depth.Load(filename); err != nil {
			return nil, err
		}
	} else if features.IsUniformDepthExpected {
		a.logger.Warn("uniform depth expected without chromosome depths, depth features are not normalized")
	}

	p := gvcf.NewProcessor(features, chromDepth)
	p.Logger = a.logger

	if filename := v.GetString(keyPloidy); filename != "" {
		if err := checkExist("--"+keyPloidy, filename); err != nil {
			return nil, err
		}
		sampleCount := v.GetInt(keyPloidySampleCount)
		if sampleCount < 1 {
			return nil, fmt.Errorf("invalid --%v %v", keyPloidySampleCount, sampleCount)
		}
		regions, err := ploidy.Load(filename, sampleCount)
		if err != nil {
			return nil, err
		}
		sample := v.GetInt(keyPloidySample)
		if sample < 0 || sample >= regions.SampleCount() {
			return nil, fmt.Errorf("invalid --%v %v for %v samples", keyPloidySample, sample, regions.SampleCount())
		}
		p.Ploidy = regions
		p.Sample = sample
	}
	return p, nil
}

func (a *app) newCaller() (continuous.Caller, error) {
	caller := continuous.NewCaller()
	rate := a.config.GetFloat64(keyStrandBiasErrorRate)
	if rate <= 0 || rate >= 1 {
		return caller, fmt.Errorf("invalid --%v %v, must be between 0 and 1", keyStrandBiasErrorRate, rate)
	}
	caller.StrandBiasErrorRate = rate
	return caller, nil
}

func (a *app) score(lociFile string, out io.Writer) (err error) {
	v := a.config
	referenceFile := v.GetString(keyReference)
	if err := checkExist("--"+keyReference, referenceFile); err != nil {
		return err
	}
	if err := checkExist("loci", lociFile); err != nil {
		return err
	}
	if lociFile == "-" && referenceFile == "-" {
		return fmt.Errorf("loci and reference cannot both be read from standard input")
	}

	caller, err := a.newCaller()
	if err != nil {
		return err
	}
	processor, err := a.newProcessor()
	if err != nil {
		return err
	}
	reference, err := loadReference(referenceFile)
	if err != nil {
		return err
	}
	a.logger.Info("loaded reference", zap.String("file", referenceFile), zap.Int("contigs", len(reference)))

	builder := &lociBuilder{reference: reference, caller: caller}
	if v.GetBool(keyRNA) {
		builder.class = locus.RNA
	}
	f, err := internal.FileOpen(lociFile)
	if err != nil {
		return err
	}
	defer internal.Close(f, &err)
	regions, err := builder.readLoci(f)
	if err != nil {
		return fmt.Errorf("%v: %w", lociFile, err)
	}

	stats, err := processor.Process(regions)
	if err != nil {
		return err
	}
	a.logger.Info("scored loci",
		zap.Int("sites", stats.Sites),
		zap.Int("indels", stats.Indels),
		zap.Int("indel-conflicts", stats.IndelConflicts),
		zap.Int("site-conflicts", stats.SiteConflicts),
		zap.Int("ploidy-conflicts", stats.PloidyConflicts))

	output := bufio.NewWriter(out)
	for _, region := range regions {
		if err = writeRegion(output, region); err != nil {
			return err
		}
	}
	return output.Flush()
}

func siteAlt(site *locus.SiteLocus) string {
	b1, b2 := site.Genotype.Bases()
	var alts []string
	if b1 != site.RefBase {
		alts = append(alts, b1.String())
	}
	if b2 != site.RefBase && b2 != b1 {
		alts = append(alts, b2.String())
	}
	if len(alts) == 0 {
		return "."
	}
	return strings.Join(alts, ",")
}

func writeScore(out *bufio.Writer, score locus.EmpiricalScore) {
	if value, ok := score.Get(); ok {
		out.WriteString(strconv.Itoa(value))
	} else {
		out.WriteByte('.')
	}
}

func writeFeatures(out *bufio.Writer, features *evs.FeatureVector) error {
	if features == nil {
		return out.WriteByte('.')
	}
	return features.Write(out)
}

func writeSite(out *bufio.Writer, chrom string, site *locus.SiteLocus) error {
	fmt.Fprintf(out, "%v\t%v\t%v\t%v\t", chrom, site.Pos+1, site.RefBase, siteAlt(site))
	if err := site.Filters.Write(out); err != nil {
		return err
	}
	out.WriteByte('\t')
	writeScore(out, site.EmpiricalScore)
	out.WriteByte('\t')
	if err := writeFeatures(out, site.Features); err != nil {
		return err
	}
	out.WriteByte('\t')
	if err := writeFeatures(out, site.DevelopmentFeatures); err != nil {
		return err
	}
	return out.WriteByte('\n')
}

func writeIndel(out *bufio.Writer, chrom string, indel *locus.IndelLocus) error {
	alts := make([]string, len(indel.Alleles))
	for i := range indel.Alleles {
		alts[i] = indel.Alleles[i].VcfIndelSeq
	}
	fmt.Fprintf(out, "%v\t%v\t%v\t%v\t", chrom, indel.Pos, indel.First().VcfRefSeq, strings.Join(alts, ","))
	if err := indel.Filters.Write(out); err != nil {
		return err
	}
	out.WriteByte('\t')
	writeScore(out, indel.EmpiricalScore)
	_, err := out.WriteString("\t.\t.\n")
	return err
}

// writeRegion writes the sites and indels of a region in position
// order, one tab-separated line per locus.
func writeRegion(out *bufio.Writer, region *gvcf.Region) error {
	sites, indels := region.Sites, region.Indels
	for len(sites) > 0 || len(indels) > 0 {
		if len(indels) == 0 || (len(sites) > 0 && sites[0].Pos+1 <= indels[0].Pos) {
			if err := writeSite(out, region.Chrom, sites[0]); err != nil {
				return err
			}
			sites = sites[1:]
		} else {
			if err := writeIndel(out, region.Chrom, indels[0]); err != nil {
				return err
			}
			indels = indels[1:]
		}
	}
	return nil
}
