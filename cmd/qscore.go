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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/exascience/elscore/continuous"
)

func newQscoreCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qscore <allele-count> <total-count>",
		Short: "Print the sequencing error q-score of an allele",
		Long: `qscore prints the phred-scaled probability that an allele observed
allele-count times out of total-count basecalls is the result of
sequencing error. With --strand, it also prints the strand bias of the
allele given its forward, reverse, forward other, and reverse other
counts.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alleleCount, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid allele count %v: %w", args[0], err)
			}
			totalCount, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid total count %v: %w", args[1], err)
			}
			if alleleCount > totalCount {
				return fmt.Errorf("allele count %v exceeds total count %v", alleleCount, totalCount)
			}
			v := a.config
			expected, maxQscore := v.GetInt(keyExpectedQscore), v.GetInt(keyMaxQscore)
			if expected <= 0 || maxQscore <= 0 {
				return fmt.Errorf("q-scores must be positive, got --%v %v and --%v %v",
					keyExpectedQscore, expected, keyMaxQscore, maxQscore)
			}
			out := cmd.OutOrStdout()
			q := continuous.AlleleSequencingErrorQscore(uint(alleleCount), uint(totalCount), expected, maxQscore)
			fmt.Fprintln(out, q)

			strand := v.GetIntSlice(keyStrand)
			if len(strand) == 0 {
				return nil
			}
			if len(strand) != 4 {
				return fmt.Errorf("--%v needs four counts, got %v", keyStrand, len(strand))
			}
			for _, c := range strand {
				if c < 0 {
					return fmt.Errorf("negative --%v count %v", keyStrand, c)
				}
			}
			caller, err := a.newCaller()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, caller.StrandBias(uint(strand[0]), uint(strand[1]), uint(strand[2]), uint(strand[3])))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Int(keyExpectedQscore, 20, "expected basecall q-score")
	flags.Int(keyMaxQscore, 40, "maximum reported q-score")
	flags.IntSlice(keyStrand, nil, "fwd-alt,rev-alt,fwd-other,rev-other counts for strand bias")
	flags.Float64(keyStrandBiasErrorRate, continuous.DefaultStrandBiasErrorRate, "per-read error rate for strand bias")
	return cmd
}
