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

// Package continuous implements the statistics used by the continuous
// (non-diploid) variant caller: a Poisson sequencing-error quality
// score for an allele, and a binomial strand-bias log-likelihood ratio.
package continuous

import (
	"log"
	"math"

	"github.com/exascience/elscore/internal"
	"gonum.org/v1/gonum/mathext"
)

// DefaultStrandBiasErrorRate is the nominal per-read error rate assumed
// on the strand that is not supporting an allele.
const DefaultStrandBiasErrorRate = 0.005

// A Caller holds the tunable constants of the continuous caller. The
// zero value uses the default constants.
type Caller struct {
	// StrandBiasErrorRate must be in (0, 1). Zero selects
	// DefaultStrandBiasErrorRate.
	StrandBiasErrorRate float64
}

func (caller Caller) strandBiasErrorRate() float64 {
	rate := caller.StrandBiasErrorRate
	switch {
	case rate == 0:
		return DefaultStrandBiasErrorRate
	case rate < 0 || rate >= 1 || math.IsNaN(rate):
		log.Panicf("strand bias error rate %v outside of (0, 1)", rate)
	}
	return rate
}

// NewCaller returns a Caller with the default constants.
func NewCaller() Caller {
	return Caller{StrandBiasErrorRate: DefaultStrandBiasErrorRate}
}

// QphredToErrorProb converts a phred-scaled quality score to an error
// probability.
func QphredToErrorProb(qscore int) float64 {
	return math.Pow(10, float64(qscore)/-10)
}

// ErrorProbToQphred converts an error probability to a rounded
// phred-scaled quality score.
func ErrorProbToQphred(prob float64) int {
	return int(math.Floor(-10*math.Log10(prob) + 0.5))
}

// alleleSequencingErrorProb returns the probability that
// alleleCount or more observations of an allele are generated by
// sequencing error alone, when each of totalCount observations is an
// error with the probability given by expectedQscore. The count of
// errors is modelled as Poisson, and P(X >= k) for mean lambda is the
// regularized lower incomplete gamma function P(k, lambda).
func alleleSequencingErrorProb(alleleCount, totalCount uint, expectedQscore int) float64 {
	if alleleCount == 0 {
		return 1
	}
	expectedErrorCount := float64(totalCount) * QphredToErrorProb(expectedQscore)
	return mathext.GammaIncReg(float64(alleleCount), expectedErrorCount)
}

// AlleleSequencingErrorQscore returns the phred-scaled probability that
// an allele observed alleleCount times out of totalCount observations
// is the result of sequencing error, capped at maxQscore.
//
// When the allele is the only alternate allele, the result relates to
// the probability that the locus is not variant. The result is
// non-decreasing in alleleCount.
func AlleleSequencingErrorQscore(alleleCount, totalCount uint, expectedQscore, maxQscore int) int {
	prob := alleleSequencingErrorProb(alleleCount, totalCount, expectedQscore)
	if prob <= 0 {
		return maxQscore
	}
	if q := ErrorProbToQphred(prob); q < maxQscore {
		return q
	}
	return maxQscore
}

func binomialLogDensity(trials, successes uint, successProb float64) float64 {
	if trials == 0 {
		return 0
	}
	return logBinomialProbability(int(successes), int(trials), successProb, 1-successProb)
}

// StrandBias returns the log-likelihood ratio of the allele being
// generated on one strand only, versus being present on both strands
// at the same frequency. Larger values indicate stronger evidence of a
// strand-specific artifact.
func (caller Caller) StrandBias(fwdAlt, revAlt, fwdOther, revOther uint) float64 {
	fwdTotal := fwdAlt + fwdOther
	revTotal := revAlt + revOther
	total := fwdTotal + revTotal
	if total == 0 {
		return 0
	}

	fwdAltFreq := internal.SafeFrac(float64(fwdAlt), float64(fwdTotal))
	revAltFreq := internal.SafeFrac(float64(revAlt), float64(revTotal))
	altFreq := internal.SafeFrac(float64(fwdAlt+revAlt), float64(total))

	errorRate := caller.strandBiasErrorRate()

	fwdLnp := binomialLogDensity(fwdTotal, fwdAlt, fwdAltFreq) + binomialLogDensity(revTotal, revAlt, errorRate)
	revLnp := binomialLogDensity(fwdTotal, fwdAlt, errorRate) + binomialLogDensity(revTotal, revAlt, revAltFreq)
	lnp := binomialLogDensity(fwdTotal, fwdAlt, altFreq) + binomialLogDensity(revTotal, revAlt, altFreq)

	return math.Max(fwdLnp, revLnp) - lnp
}
