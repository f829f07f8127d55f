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

package continuous

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQphredConversions(t *testing.T) {
	assert.InDelta(t, 0.1, QphredToErrorProb(10), 1e-15)
	assert.InDelta(t, 0.001, QphredToErrorProb(30), 1e-15)
	assert.Equal(t, 0, ErrorProbToQphred(1))
	assert.Equal(t, 20, ErrorProbToQphred(0.01))
	assert.Equal(t, 3, ErrorProbToQphred(0.5))
}

func TestAlleleSequencingErrorQscoreZeroCount(t *testing.T) {
	for _, total := range []uint{1, 10, 1000} {
		for _, q := range []int{10, 20, 40} {
			assert.Equal(t, 0, AlleleSequencingErrorQscore(0, total, q, 60))
		}
	}
}

func TestAlleleSequencingErrorQscoreMonotonic(t *testing.T) {
	const total = 200
	for _, q := range []int{10, 17, 30} {
		previous := AlleleSequencingErrorQscore(0, total, q, 60)
		for count := uint(1); count <= total; count++ {
			score := AlleleSequencingErrorQscore(count, total, q, 60)
			assert.GreaterOrEqual(t, score, previous, "count %v q %v", count, q)
			assert.LessOrEqual(t, score, 60)
			previous = score
		}
		assert.Equal(t, 60, previous)
	}
}

func TestAlleleSequencingErrorQscorePoisson(t *testing.T) {
	// 100 observations at Q20 give lambda = 1, and P(X >= 1) = 1 - e^-1.
	expected := ErrorProbToQphred(1 - math.Exp(-1))
	assert.Equal(t, expected, AlleleSequencingErrorQscore(1, 100, 20, 60))

	// P(X >= 2) = 1 - e^-1 - e^-1
	expected = ErrorProbToQphred(1 - 2*math.Exp(-1))
	assert.Equal(t, expected, AlleleSequencingErrorQscore(2, 100, 20, 60))
}

func TestAlleleSequencingErrorQscoreNoExpectedErrors(t *testing.T) {
	assert.Equal(t, 35, AlleleSequencingErrorQscore(3, 0, 20, 35))
}

func TestStrandBiasNoObservations(t *testing.T) {
	assert.Equal(t, 0.0, NewCaller().StrandBias(0, 0, 0, 0))
}

func TestStrandBiasFinite(t *testing.T) {
	caller := NewCaller()
	for fwdAlt := uint(0); fwdAlt < 6; fwdAlt++ {
		for revAlt := uint(0); revAlt < 6; revAlt++ {
			for fwdOther := uint(0); fwdOther < 6; fwdOther++ {
				for revOther := uint(0); revOther < 6; revOther++ {
					sb := caller.StrandBias(fwdAlt, revAlt, fwdOther, revOther)
					assert.False(t, math.IsNaN(sb) || math.IsInf(sb, 0),
						"StrandBias(%v, %v, %v, %v) = %v", fwdAlt, revAlt, fwdOther, revOther, sb)
				}
			}
		}
	}
}

func TestStrandBiasDirection(t *testing.T) {
	caller := NewCaller()
	biased := caller.StrandBias(20, 0, 0, 20)
	balanced := caller.StrandBias(10, 10, 10, 10)
	assert.Greater(t, biased, 0.0)
	assert.Less(t, balanced, 0.0)
	assert.InDelta(t, caller.StrandBias(20, 0, 0, 20), caller.StrandBias(0, 20, 20, 0), 1e-9)
	assert.InDelta(t, caller.StrandBias(7, 2, 5, 9), caller.StrandBias(2, 7, 9, 5), 1e-9)
}

func TestStrandBiasErrorRateIsConfigurable(t *testing.T) {
	strict := Caller{StrandBiasErrorRate: 0.001}
	lenient := Caller{StrandBiasErrorRate: 0.05}
	assert.NotEqual(t, strict.StrandBias(12, 1, 3, 14), lenient.StrandBias(12, 1, 3, 14))
}

func exactLogBinomial(x, n int, p float64) float64 {
	lgn, _ := math.Lgamma(float64(n + 1))
	lgx, _ := math.Lgamma(float64(x + 1))
	lgnx, _ := math.Lgamma(float64(n - x + 1))
	return lgn - lgx - lgnx + float64(x)*math.Log(p) + float64(n-x)*math.Log(1-p)
}

func TestStrandBiasZeroCallerUsesDefaultRate(t *testing.T) {
	sb := Caller{}.StrandBias(5, 3, 5, 5)
	assert.False(t, math.IsInf(sb, 0) || math.IsNaN(sb))
	assert.Equal(t, NewCaller().StrandBias(5, 3, 5, 5), sb)
	assert.Equal(t, NewCaller().StrandBias(20, 0, 0, 20), Caller{}.StrandBias(20, 0, 0, 20))
}

func TestStrandBiasInvalidErrorRate(t *testing.T) {
	for _, rate := range []float64{-0.1, 1, 2, math.NaN()} {
		caller := Caller{StrandBiasErrorRate: rate}
		assert.Panics(t, func() { caller.StrandBias(5, 3, 5, 5) }, "rate %v", rate)
	}
}

func TestLogBinomialProbability(t *testing.T) {
	for _, n := range []int{1, 5, 17, 40, 300} {
		for _, p := range []float64{0.005, 0.3, 0.5, 0.9} {
			for x := 0; x <= n; x += 1 + n/10 {
				assert.InDelta(t, exactLogBinomial(x, n, p), logBinomialProbability(x, n, p, 1-p), 1e-8,
					"x %v n %v p %v", x, n, p)
			}
		}
	}
	assert.Equal(t, 0.0, logBinomialProbability(0, 10, 0, 1))
	assert.Equal(t, 0.0, logBinomialProbability(10, 10, 1, 0))
	assert.Equal(t, 0.0, binomialLogDensity(0, 0, 0.5))
}
