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

import (
	"errors"
	"strconv"
	"strings"
)

var errMissingTab = errors.New("missing tabulator in VCF data line")

// A StringScanner can be used scan/parse strings representing
// lines in VCF files.
//
// The zero StringScanner is valid and empty.
type StringScanner struct {
	index int
	data  string
	err   error
}

// Reset resets the scanner, and initializes it with the given string.
func (sc *StringScanner) Reset(s string) {
	sc.index = 0
	sc.data = strings.TrimRight(s, "\r\n")
	sc.err = nil
}

// Len returns the number of ASCII characters that still need to be
// scanned/parsed.
func (sc *StringScanner) Len() int {
	return len(sc.data) - sc.index
}

// Err returns the first error encountered while scanning.
func (sc *StringScanner) Err() error {
	return sc.err
}

func (sc *StringScanner) readUntilByte(c byte) (s string, found bool) {
	start := sc.index
	for end := sc.index; end < len(sc.data); end++ {
		if sc.data[end] == c {
			sc.index = end + 1
			return sc.data[start:end], true
		}
	}
	sc.index = len(sc.data)
	return sc.data[start:], false
}

func (sc *StringScanner) missingEntry() bool {
	if (sc.err != nil) || (sc.index >= len(sc.data)) {
		return true
	}
	if sc.data[sc.index] == '.' {
		next := sc.index + 1
		if next >= len(sc.data) {
			sc.index = next
			return true
		}
		if sc.data[next] == '\t' {
			sc.index = next + 1
			return true
		}
	}
	return false
}

// doColumn reads a mandatory column that is followed by a tabulator.
func (sc *StringScanner) doColumn() string {
	if sc.err != nil {
		return ""
	}
	value, ok := sc.readUntilByte('\t')
	if !ok {
		sc.err = errMissingTab
		return ""
	}
	return value
}

func (sc *StringScanner) doString() string {
	if sc.missingEntry() {
		return Missing
	}
	return sc.doColumn()
}

func (sc *StringScanner) doInt32() int32 {
	if sc.missingEntry() {
		return -1
	}
	value := sc.doColumn()
	if sc.err != nil {
		return -1
	}
	i, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		sc.err = err
		return -1
	}
	return int32(i)
}

func (sc *StringScanner) doFloat() (float64, bool) {
	if sc.missingEntry() {
		return 0, false
	}
	value := sc.doColumn()
	if sc.err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		sc.err = err
		return 0, false
	}
	return f, true
}

func (sc *StringScanner) doStringList(separator string) []string {
	if sc.missingEntry() {
		return nil
	}
	value := sc.doColumn()
	if sc.err != nil {
		return nil
	}
	return strings.Split(value, separator)
}

func (sc *StringScanner) doInfo() (result []InfoEntry) {
	if sc.missingEntry() {
		return nil
	}
	value, _ := sc.readUntilByte('\t')
	for _, field := range strings.Split(value, ";") {
		if field == "" {
			continue
		}
		if eq := strings.IndexByte(field, '='); eq >= 0 {
			result = append(result, InfoEntry{Key: field[:eq], Value: field[eq+1:]})
		} else {
			result = append(result, InfoEntry{Key: field})
		}
	}
	return result
}

func (sc *StringScanner) doSample() []string {
	value, _ := sc.readUntilByte('\t')
	return strings.Split(value, ":")
}

// ParseRecord parses a VCF data line. Every sample column present on
// the line is parsed.
func (sc *StringScanner) ParseRecord() (*Record, error) {
	var record Record
	record.Chrom = sc.doColumn()
	record.Pos = sc.doInt32()
	record.ID = sc.doStringList(";")
	record.Ref = sc.doString()
	record.Alt = sc.doStringList(",")
	record.Qual, record.HasQual = sc.doFloat()
	record.Filter = sc.doStringList(";")
	if sc.err != nil {
		return nil, sc.err
	}
	if sc.Len() == 0 && !strings.HasSuffix(sc.data, "\t") {
		return nil, errors.New("missing INFO column in VCF data line")
	}
	record.Info = sc.doInfo()
	if sc.Len() > 0 {
		format, _ := sc.readUntilByte('\t')
		record.Format = strings.Split(format, ":")
		for sc.Len() > 0 {
			record.Samples = append(record.Samples, sc.doSample())
		}
	}
	if record.Chrom == "" {
		return nil, errors.New("empty CHROM column in VCF data line")
	}
	return &record, nil
}

// ParseRecordLine parses a single VCF data line.
func ParseRecordLine(line string) (*Record, error) {
	var sc StringScanner
	sc.Reset(line)
	return sc.ParseRecord()
}
