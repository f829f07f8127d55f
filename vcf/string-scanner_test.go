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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordLine(t *testing.T) {
	record, err := ParseRecordLine("chrX\t2699521\t.\tN\t<CNV>\t.\tPASS\tEND=154931043;IMPRECISE\tGT:CN\t.:1\t./.:2\n")
	require.NoError(t, err)
	assert.Equal(t, "chrX", record.Chrom)
	assert.Equal(t, int32(2699521), record.Pos)
	assert.Nil(t, record.ID)
	assert.Equal(t, "N", record.Ref)
	assert.Equal(t, []string{"<CNV>"}, record.Alt)
	assert.False(t, record.HasQual)
	assert.Equal(t, []string{"PASS"}, record.Filter)

	end, ok := record.InfoValue("END")
	require.True(t, ok)
	assert.Equal(t, "154931043", end)
	flag, ok := record.InfoValue("IMPRECISE")
	assert.True(t, ok)
	assert.Equal(t, "", flag)
	_, ok = record.InfoValue("SVTYPE")
	assert.False(t, ok)

	assert.Equal(t, []string{"GT", "CN"}, record.Format)
	require.Len(t, record.Samples, 2)
	cn, ok := record.SampleValue(1, "CN")
	require.True(t, ok)
	assert.Equal(t, "2", cn)
	_, ok = record.SampleValue(0, "FT")
	assert.False(t, ok)
}

func TestParseRecordLineQualAndDroppedFields(t *testing.T) {
	record, err := ParseRecordLine("1\t100\trs1;rs2\tA\tC,G\t30.5\tLowGQX;HighDepth\t.\tGT:CN\t0/1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rs1", "rs2"}, record.ID)
	assert.Equal(t, []string{"C", "G"}, record.Alt)
	assert.True(t, record.HasQual)
	assert.InDelta(t, 30.5, record.Qual, 1e-12)
	assert.Equal(t, []string{"LowGQX", "HighDepth"}, record.Filter)
	assert.Nil(t, record.Info)
	require.Len(t, record.Samples, 1)
	_, ok := record.SampleValue(0, "CN")
	assert.False(t, ok, "trailing CN field was dropped from the sample column")
}

func TestParseRecordLineErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"1\t100",
		"1\tabc\t.\tA\tC\t.\tPASS\t.",
		"1\t100\t.\tA\tC\t.\tPASS",
		"1\t100\t.\tA\tC\tbad\tPASS\t.",
	} {
		_, err := ParseRecordLine(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestIsDataLine(t *testing.T) {
	assert.False(t, IsDataLine("##fileformat=VCFv4.3"))
	assert.False(t, IsDataLine("#CHROM\tPOS"))
	assert.False(t, IsDataLine("   "))
	assert.True(t, IsDataLine("1\t100\t.\tA\tC\t.\tPASS\t."))
}
