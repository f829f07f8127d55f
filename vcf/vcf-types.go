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

package vcf

import "strings"

// Missing is the VCF representation of a missing value.
const Missing = "."

type (
	// InfoEntry is one key/value pair of an INFO column. Flags have an
	// empty Value.
	InfoEntry struct {
		Key, Value string
	}

	// Record is a VCF data line, with column values kept as strings
	// except for POS and QUAL. Flags and missing values follow the
	// conventions of the VCF format: Pos < 0 if unknown, nil ID, Alt and
	// Filter if missing, HasQual false if QUAL is missing.
	Record struct {
		Chrom   string
		Pos     int32
		ID      []string
		Ref     string
		Alt     []string
		Qual    float64
		HasQual bool
		Filter  []string
		Info    []InfoEntry
		Format  []string
		// Samples holds one slice of values per sample column, in
		// FORMAT order. Trailing fields may be dropped, as permitted by
		// the VCF format.
		Samples [][]string
	}
)

// InfoValue returns the value of the given INFO key.
func (r *Record) InfoValue(key string) (string, bool) {
	for _, entry := range r.Info {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

// FormatIndex returns the position of key in the FORMAT column, or -1.
func (r *Record) FormatIndex(key string) int {
	for i, f := range r.Format {
		if f == key {
			return i
		}
	}
	return -1
}

// SampleValue returns the value of the given FORMAT key for a sample.
// A key that is absent from the FORMAT column, or dropped from the end
// of the sample column, reports false.
func (r *Record) SampleValue(sample int, key string) (string, bool) {
	index := r.FormatIndex(key)
	if index < 0 || index >= len(r.Samples[sample]) {
		return "", false
	}
	return r.Samples[sample][index], true
}

// IsDataLine determines whether line holds a VCF record rather than
// meta information, a header or nothing.
func IsDataLine(line string) bool {
	return strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "#")
}
