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
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exascience/elscore/ploidy"
)

func newPloidyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ploidy <file.bed|file.vcf>",
		Short: "Check a ploidy override file and print its regions",
		Long: `ploidy parses a ploidy override file in BED or VCF format, checks that
its regions do not overlap, and prints one line per region with the
chromosome, the 0-based half-open range, and the ploidy of each sample.
Unknown ploidies are printed as a dot. With --covered, it prints the
ranges covered by some region instead, with touching regions joined.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ploidy(args[0], cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.Int(keyPloidySampleCount, 1, "number of samples in a VCF ploidy file")
	flags.Bool(keyCovered, false, "print the covered ranges per chromosome")
	return cmd
}

func (a *app) ploidy(filename string, out io.Writer) error {
	if err := checkExist("ploidy", filename); err != nil {
		return err
	}
	sampleCount := a.config.GetInt(keyPloidySampleCount)
	if sampleCount < 1 {
		return fmt.Errorf("invalid --%v %v", keyPloidySampleCount, sampleCount)
	}
	regions, err := ploidy.Load(filename, sampleCount)
	if err != nil {
		return err
	}

	output := bufio.NewWriter(out)
	count := 0
	for _, chrom := range regions.Chromosomes() {
		if a.config.GetBool(keyCovered) {
			for _, covered := range regions.Covered(chrom) {
				fmt.Fprintf(output, "%v\t%v\t%v\n", chrom, covered.Start, covered.End)
			}
		} else {
			for _, region := range regions.Regions(chrom) {
				writePloidyRegion(output, chrom, region)
			}
		}
		count += len(regions.Regions(chrom))
	}
	a.logger.Info("checked ploidy file",
		zap.String("file", filename),
		zap.Int("samples", regions.SampleCount()),
		zap.Int("regions", count))
	return output.Flush()
}

func writePloidyRegion(out *bufio.Writer, chrom string, region ploidy.Region) {
	fmt.Fprintf(out, "%v\t%v\t%v", chrom, region.Start, region.End)
	for _, p := range region.Ploidy {
		out.WriteByte('\t')
		if p == ploidy.Unknown {
			out.WriteByte('.')
		} else {
			out.WriteString(strconv.Itoa(p))
		}
	}
	out.WriteByte('\n')
}
