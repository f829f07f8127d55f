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

package locus

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/exascience/elscore/evs"
	"github.com/exascience/elscore/internal"
)

// FeatureOptions control the computation of scoring features.
type FeatureOptions struct {
	// IsUniformDepthExpected normalizes the locus depth by the
	// chromosome depth. Set it for whole genome runs.
	IsUniformDepthExpected bool
	// IsComputeDevelopmentFeatures also computes the features that
	// are not used by the production scoring models.
	IsComputeDevelopmentFeatures bool
}

type featureInputs struct {
	chromDepthFactor         float64
	filteredLocusDepthFactor float64
	r0, r1                   float64
	mapqZeroFraction         float64
	locusUsedDepthFraction   float64
}

func newFeatureInputs(site *SiteLocus, chromDepth float64) featureInputs {
	filteredLocusDepth := float64(site.UsedCalls)
	locusDepth := float64(site.MapqCount)

	if site.RefBase >= NBases {
		invariantf("site at position %v has no reference base", site.Pos)
	}

	// for a het-alt genotype, the second alternate base is used
	altBase := NBases
	for b := A; b < NBases; b++ {
		if b != site.RefBase && site.Genotype.Contains(b) {
			altBase = b
		}
	}
	if altBase == NBases {
		invariantf("genotype %v at position %v contains no alternate base for reference base %v",
			site.Genotype, site.Pos, site.RefBase)
	}

	in := featureInputs{
		chromDepthFactor:         internal.SafeFrac(1, chromDepth),
		filteredLocusDepthFactor: internal.SafeFrac(1, filteredLocusDepth),
		mapqZeroFraction:         internal.SafeFrac(float64(site.MapqZeroCount), float64(site.MapqCount)),
		locusUsedDepthFraction:   filteredLocusDepth * internal.SafeFrac(1, locusDepth),
	}
	in.r0 = float64(site.AlleleObservationCounts[site.RefBase])
	in.r1 = float64(site.AlleleObservationCounts[altBase])
	return in
}

// ComputeEmpiricalScoringFeatures computes the scoring features of a
// variant SNV site for the scoring model of its variant class, and
// stores them in the site. Development features are only computed on
// request; otherwise they are nil. chromDepth is the expected depth of
// the chromosome of the site.
func ComputeEmpiricalScoringFeatures(site *SiteLocus, opts FeatureOptions, chromDepth float64) {
	in := newFeatureInputs(site, chromDepth)
	if site.Class == RNA {
		site.Features, site.DevelopmentFeatures = rnaFeatures(site, in, opts)
	} else {
		site.Features, site.DevelopmentFeatures = germlineFeatures(site, in, opts)
	}
}

func rnaFeatures(site *SiteLocus, in featureInputs, opts FeatureOptions) (features, development *evs.FeatureVector) {
	features = evs.RNASNV.NewVector()

	genotype := 2.0
	if z := site.Zygosity(); z == Het || z == HetAlt {
		genotype = 1.0
	}
	features.Set(evs.RNAGT, genotype)

	features.Set(evs.RNAQUAL, float64(site.SnvQphred)*in.chromDepthFactor)
	features.Set(evs.RNAFDP, float64(site.UsedCalls)*in.chromDepthFactor)
	features.Set(evs.RNAFDPF, float64(site.UnusedCalls)*in.chromDepthFactor)
	features.Set(evs.RNAFGQ, float64(site.GQ)*in.chromDepthFactor)
	features.Set(evs.RNAFGQX, float64(site.GQX)*in.chromDepthFactor)

	features.Set(evs.RNAAvgBaseQ, site.AvgBaseQ)
	features.Set(evs.RNAAvgPos, site.RawPos)
	features.Set(evs.RNABaseQRankSum, site.BaseQRankSum)
	features.Set(evs.RNAReadPosRankSum, site.ReadPosRankSum)
	features.Set(evs.RNASNVHPOL, float64(site.Hpol))
	features.Set(evs.RNASNVSB, site.StrandBias)

	features.Set(evs.RNAAD0, in.r0*in.chromDepthFactor)
	features.Set(evs.RNAAD1, in.r1*in.chromDepthFactor)
	features.Set(evs.RNAADR, internal.SafeFrac(in.r0, in.r0+in.r1))

	if !opts.IsComputeDevelopmentFeatures {
		return features, nil
	}

	development = evs.RNASNVDevelopment.NewVector()
	development.Set(evs.RNADevMQ, site.MapqRMS)
	development.Set(evs.RNADevMQRankSum, site.MQRankSum)
	development.Set(evs.RNADevMapqZeroFraction, in.mapqZeroFraction)
	development.Set(evs.RNADevFDPNorm, in.locusUsedDepthFraction)
	development.Set(evs.RNADevQUALNorm, float64(site.SnvQphred)*in.filteredLocusDepthFactor)
	development.Set(evs.RNADevFGQXNorm, float64(site.GQX)*in.filteredLocusDepthFactor)
	development.Set(evs.RNADevFGQNorm, float64(site.GQ)*in.filteredLocusDepthFactor)
	development.Set(evs.RNADevAD0Norm, in.r0*in.filteredLocusDepthFactor)
	development.Set(evs.RNADevAD1Norm, in.r1*in.filteredLocusDepthFactor)
	development.Set(evs.RNADevQUALExact, float64(site.SnvQphred))
	development.Set(evs.RNADevFGQXExact, float64(site.GQX))
	development.Set(evs.RNADevFGQExact, float64(site.GQ))
	return features, development
}

const alleleBiasEpsilon = 1e-30

// alleleBias returns the negative log probabilities of the reference
// and alternate observation counts under a fair split, for the lower
// tail of the reference count and for both tails.
func alleleBias(r0, r1 float64) (lower, twoSided float64) {
	binomial := distuv.Binomial{N: r0 + r1, P: 0.5}
	lowerTail := binomial.CDF(r0)
	upperTail := binomial.CDF(r1)
	lower = -math.Log(lowerTail + alleleBiasEpsilon)
	twoSided = -math.Log(math.Min(1, 2*math.Min(lowerTail, upperTail)) + alleleBiasEpsilon)
	return lower, twoSided
}

func germlineFeatures(site *SiteLocus, in featureInputs, opts FeatureOptions) (features, development *evs.FeatureVector) {
	features = evs.GermlineSNV.NewVector()

	var genotype float64
	switch site.Zygosity() {
	case HetAlt:
		genotype = 2
	case Het:
		genotype = 0
	default:
		genotype = 1
	}
	features.Set(evs.GermlineGENO, genotype)

	features.Set(evs.GermlineMQ, site.MapqRMS)
	features.Set(evs.GermlineSNVHPOL, float64(site.Hpol))
	features.Set(evs.GermlineSNVSB, site.StrandBias)
	features.Set(evs.GermlineMQRankSum, site.MQRankSum)
	features.Set(evs.GermlineReadPosRankSum, site.ReadPosRankSum)

	relativeLocusDepth := 1.0
	if opts.IsUniformDepthExpected {
		relativeLocusDepth = float64(site.MapqCount) * in.chromDepthFactor
	}
	features.Set(evs.GermlineTDPNorm, relativeLocusDepth)
	features.Set(evs.GermlineFDPNorm, in.locusUsedDepthFraction)
	features.Set(evs.GermlineFGQXExact, float64(site.GQX))

	if !opts.IsComputeDevelopmentFeatures {
		return features, nil
	}

	development = evs.GermlineSNVDevelopment.NewVector()
	development.Set(evs.GermlineDevBaseQRankSum, site.BaseQRankSum)
	lower, twoSided := alleleBias(in.r0, in.r1)
	development.Set(evs.GermlineDevABLower, lower)
	development.Set(evs.GermlineDevAB, twoSided)
	development.Set(evs.GermlineDevRawBaseQ, site.AvgBaseQ)
	development.Set(evs.GermlineDevRawPos, site.RawPos)
	development.Set(evs.GermlineDevMapqZeroFraction, in.mapqZeroFraction)
	development.Set(evs.GermlineDevQUALNorm, float64(site.SnvQphred)*in.filteredLocusDepthFactor)
	development.Set(evs.GermlineDevFGQXNorm, float64(site.GQX)*in.filteredLocusDepthFactor)
	development.Set(evs.GermlineDevFGQNorm, float64(site.GQ)*in.filteredLocusDepthFactor)
	development.Set(evs.GermlineDevAD0Norm, in.r0*in.filteredLocusDepthFactor)
	development.Set(evs.GermlineDevAD1Norm, in.r1*in.filteredLocusDepthFactor)
	development.Set(evs.GermlineDevQUALExact, float64(site.SnvQphred))
	development.Set(evs.GermlineDevFGQExact, float64(site.GQ))
	return features, development
}
