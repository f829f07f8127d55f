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

	"github.com/spf13/cobra"

	"github.com/exascience/elscore/locus"
)

func newFiltersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Print the VCF header lines of the locus filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			for _, f := range locus.Filters() {
				fmt.Fprintf(out, "##FILTER=<ID=%v,Description=\"%v\">\n", f.Label(), f.Description())
			}
			return out.Flush()
		},
	}
}
