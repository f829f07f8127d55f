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

// Package depth reads the expected depth of each chromosome, as
// estimated by a separate pass over the alignments.
package depth

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/exascience/elscore/internal"
)

// A Map holds the expected depth per chromosome.
type Map map[string]float64

// Depth returns the expected depth of chrom.
func (m Map) Depth(chrom string) (float64, bool) {
	depth, ok := m[chrom]
	return depth, ok
}

// Read parses lines of the form chrom<TAB>depth. Empty lines and lines
// starting with # are skipped.
func Read(r io.Reader) (Map, error) {
	m := make(Map)
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 2 || fields[0] == "" {
			return nil, fmt.Errorf("invalid chromosome depth line %v: %q", line, text)
		}
		depth, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid depth in chromosome depth line %v: %w", line, err)
		}
		if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return nil, fmt.Errorf("invalid depth %v in chromosome depth line %v", depth, line)
		}
		if _, ok := m[fields[0]]; ok {
			return nil, fmt.Errorf("duplicate chromosome %v in chromosome depth line %v", fields[0], line)
		}
		m[fields[0]] = depth
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load parses a chromosome depth file, or standard input if filename
// is "-".
func Load(filename string) (m Map, err error) {
	f, err := internal.FileOpen(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f, &err)
	return Read(f)
}
