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

// Package evs defines the named features from which the empirical
// variant score (EVS) of a called locus is computed by an external
// scoring model.
//
// There are four fixed feature sets: germline SNV production and
// development features, and RNA SNV production and development
// features. The order of the features in a set is stable, and is the
// order in which values are handed to the scoring model.
package evs

// A Feature is the index of a feature within its FeatureSet.
type Feature int

// A FeatureSet is a fixed, ordered enumeration of feature labels.
type FeatureSet struct {
	name   string
	labels []string
}

func newFeatureSet(name string, labels ...string) *FeatureSet {
	return &FeatureSet{name: name, labels: labels}
}

// Name returns the name of the feature set.
func (set *FeatureSet) Name() string {
	return set.name
}

// Len returns the number of features in the set.
func (set *FeatureSet) Len() int {
	return len(set.labels)
}

// Label returns the label of the given feature.
func (set *FeatureSet) Label(f Feature) string {
	return set.labels[f]
}

// Labels returns all feature labels in order.
func (set *FeatureSet) Labels() []string {
	return append([]string(nil), set.labels...)
}

// Germline SNV production features.
const (
	GermlineGENO Feature = iota
	GermlineMQ
	GermlineSNVHPOL
	GermlineSNVSB
	GermlineMQRankSum
	GermlineReadPosRankSum
	GermlineTDPNorm
	GermlineFDPNorm
	GermlineFGQXExact
)

// GermlineSNV is the feature set used by the germline SNV scoring model.
var GermlineSNV = newFeatureSet("GermlineSNV",
	"GENO",
	"I_MQ",
	"I_SNVHPOL",
	"I_SNVSB",
	"I_MQRankSum",
	"I_ReadPosRankSum",
	"TDP_NORM",
	"F_DP_NORM",
	"F_GQX_EXACT",
)

// Germline SNV development features.
const (
	GermlineDevBaseQRankSum Feature = iota
	GermlineDevABLower
	GermlineDevAB
	GermlineDevRawBaseQ
	GermlineDevRawPos
	GermlineDevMapqZeroFraction
	GermlineDevQUALNorm
	GermlineDevFGQXNorm
	GermlineDevFGQNorm
	GermlineDevAD0Norm
	GermlineDevAD1Norm
	GermlineDevQUALExact
	GermlineDevFGQExact
)

// GermlineSNVDevelopment holds experimental germline SNV features that
// are not used by the production model.
var GermlineSNVDevelopment = newFeatureSet("GermlineSNVDevelopment",
	"I_BaseQRankSum",
	"ABlower",
	"AB",
	"I_RawBaseQ",
	"I_RawPos",
	"mapqZeroFraction",
	"QUAL_NORM",
	"F_GQX_NORM",
	"F_GQ_NORM",
	"AD0_NORM",
	"AD1_NORM",
	"QUAL_EXACT",
	"F_GQ_EXACT",
)

// RNA SNV production features.
const (
	RNAGT Feature = iota
	RNAQUAL
	RNAFDP
	RNAFDPF
	RNAFGQ
	RNAFGQX
	RNAAvgBaseQ
	RNAAvgPos
	RNABaseQRankSum
	RNAReadPosRankSum
	RNASNVHPOL
	RNASNVSB
	RNAAD0
	RNAAD1
	RNAADR
)

// RNASNV is the feature set used by the RNA SNV scoring model.
var RNASNV = newFeatureSet("RNASNV",
	"GT",
	"QUAL",
	"F_DP",
	"F_DPF",
	"F_GQ",
	"F_GQX",
	"I_AvgBaseQ",
	"I_AvgPos",
	"I_BaseQRankSum",
	"I_ReadPosRankSum",
	"I_SNVHPOL",
	"I_SNVSB",
	"AD0",
	"AD1",
	"ADR",
)

// RNA SNV development features.
const (
	RNADevMQ Feature = iota
	RNADevMQRankSum
	RNADevMapqZeroFraction
	RNADevFDPNorm
	RNADevQUALNorm
	RNADevFGQXNorm
	RNADevFGQNorm
	RNADevAD0Norm
	RNADevAD1Norm
	RNADevQUALExact
	RNADevFGQXExact
	RNADevFGQExact
)

// RNASNVDevelopment holds experimental RNA SNV features that are not
// used by the production model.
var RNASNVDevelopment = newFeatureSet("RNASNVDevelopment",
	"I_MQ",
	"I_MQRankSum",
	"mapqZeroFraction",
	"F_DP_NORM",
	"QUAL_NORM",
	"F_GQX_NORM",
	"F_GQ_NORM",
	"AD0_NORM",
	"AD1_NORM",
	"QUAL_EXACT",
	"F_GQX_EXACT",
	"F_GQ_EXACT",
)
