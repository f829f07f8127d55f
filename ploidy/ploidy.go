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

// Package ploidy parses externally supplied ploidy overrides, given
// either as BED regions with a ploidy column, or as VCF records with a
// per-sample copy number.
package ploidy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/exascience/elscore/intervals"
	"github.com/exascience/elscore/vcf"
)

// Unknown is the ploidy of a sample whose copy number is missing.
const Unknown = -1

// A ParseError reports a ploidy line that cannot be used as an
// override.
type ParseError struct {
	Line   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v in ploidy line %q: %v", e.Reason, e.Line, e.Err)
	}
	return fmt.Sprintf("%v in ploidy line %q", e.Reason, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// A BedRecord is one BED3+1 line: chrom, start, end and ploidy.
type BedRecord struct {
	Chrom  string
	Range  intervals.Interval
	Ploidy int
}

func parseNonNegative(s string) (int, error) {
	value, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, fmt.Errorf("negative value %v", value)
	}
	return int(value), nil
}

func parsePosition(s string) (int32, error) {
	value, err := parseNonNegative(s)
	return int32(value), err
}

// ParseBedRecord parses a tab-delimited BED line whose fourth column
// holds a ploidy value. Columns beyond the fourth are ignored.
func ParseBedRecord(line string) (BedRecord, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < 4 {
		return BedRecord{}, &ParseError{Line: line, Reason: "missing ploidy column"}
	}
	if fields[0] == "" {
		return BedRecord{}, &ParseError{Line: line, Reason: "empty chromosome name"}
	}
	start, err := parsePosition(fields[1])
	if err != nil {
		return BedRecord{}, &ParseError{Line: line, Reason: "invalid start position", Err: err}
	}
	end, err := parsePosition(fields[2])
	if err != nil {
		return BedRecord{}, &ParseError{Line: line, Reason: "invalid end position", Err: err}
	}
	if end < start {
		return BedRecord{}, &ParseError{Line: line, Reason: fmt.Sprintf("end position %v before start position %v", end, start)}
	}
	ploidy, err := parseNonNegative(fields[3])
	if err != nil {
		return BedRecord{}, &ParseError{Line: line, Reason: "invalid ploidy value", Err: err}
	}
	return BedRecord{
		Chrom:  fields[0],
		Range:  intervals.Interval{Start: start, End: end},
		Ploidy: ploidy,
	}, nil
}

// ParseBed returns the ploidy of a BED line, or false if the line does
// not parse as a valid ploidy override.
func ParseBed(line string) (int, bool) {
	record, err := ParseBedRecord(line)
	if err != nil {
		return 0, false
	}
	return record.Ploidy, true
}

// ParseBedStrict returns the ploidy of a BED line, or a *ParseError if
// the line does not parse as a valid ploidy override.
func ParseBedStrict(line string) (int, error) {
	record, err := ParseBedRecord(line)
	if err != nil {
		return 0, err
	}
	return record.Ploidy, nil
}

// A VcfRecord is a ploidy override parsed from a VCF record.
type VcfRecord struct {
	Chrom string
	// Range covers the positions after the padding base at POS up to
	// and including END, as 0-based half-open coordinates.
	Range intervals.Interval
	// Ploidy holds one value per sample, Unknown if the copy number of
	// the sample is missing.
	Ploidy []int
}

const (
	endKey = "END"
	cnKey  = "CN"
)

// ParseVcf parses a VCF record that carries an INFO/END entry and a
// FORMAT/CN entry for each sample. The record must have exactly
// expectedSampleCount sample columns.
func ParseVcf(expectedSampleCount int, line string) (VcfRecord, error) {
	record, err := vcf.ParseRecordLine(line)
	if err != nil {
		return VcfRecord{}, &ParseError{Line: line, Reason: "malformed VCF record", Err: err}
	}
	if record.Pos < 1 {
		return VcfRecord{}, &ParseError{Line: line, Reason: "invalid POS"}
	}
	if len(record.Samples) != expectedSampleCount {
		return VcfRecord{}, &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("unexpected sample count %v, expected %v", len(record.Samples), expectedSampleCount),
		}
	}
	endValue, ok := record.InfoValue(endKey)
	if !ok {
		return VcfRecord{}, &ParseError{Line: line, Reason: "missing INFO/END"}
	}
	end, err := parsePosition(endValue)
	if err != nil {
		return VcfRecord{}, &ParseError{Line: line, Reason: "invalid INFO/END", Err: err}
	}
	if end < record.Pos {
		return VcfRecord{}, &ParseError{Line: line, Reason: fmt.Sprintf("END %v before POS %v", end, record.Pos)}
	}
	if expectedSampleCount > 0 && record.FormatIndex(cnKey) < 0 {
		return VcfRecord{}, &ParseError{Line: line, Reason: "missing FORMAT/CN"}
	}
	result := VcfRecord{
		Chrom:  record.Chrom,
		Range:  intervals.Interval{Start: record.Pos, End: end},
		Ploidy: make([]int, expectedSampleCount),
	}
	for sample := range result.Ploidy {
		cn, ok := record.SampleValue(sample, cnKey)
		if !ok || cn == vcf.Missing || cn == "" {
			result.Ploidy[sample] = Unknown
			continue
		}
		value, err := parseNonNegative(cn)
		if err != nil {
			return VcfRecord{}, &ParseError{Line: line, Reason: fmt.Sprintf("invalid CN value for sample %v", sample), Err: err}
		}
		result.Ploidy[sample] = value
	}
	return result, nil
}
