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

import "math"

// Saddle point expansion of the binomial log density, after Loader,
// "Fast and Accurate Computation of Binomial Probabilities" (2000).
// Unlike a direct evaluation it stays finite when p is 0 or 1 and the
// count is at the matching end of the support.

func getDeviancePart(x, mu float64) (ret float64) {
	if d, t := x-mu, x+mu; math.Abs(d) < 0.1*t {
		v := d / t
		s1 := v * d
		s := math.NaN()
		ej := 2 * x * v
		v *= v
		for j := 1; s1 != s; j++ {
			s = s1
			ej *= v
			s1 += ej / float64(j*2+1)
		}
		ret = s1
	} else {
		ret = x*math.Log(x/mu) + mu - x
	}
	return
}

var (
	halfLog2Pi = 0.5 * math.Log(2*math.Pi)

	exactStirlingErrors = [...]float64{
		0, 0.15342640972002736, 0.08106146679532726, 0.05481412105191765, 0.0413406959554093,
		0.03316287351993629, 0.02767792568499834, 0.023746163656297496, 0.020790672103765093,
		0.018488450532673187, 0.016644691189821193, 0.015134973221917378, 0.013876128823070748,
		0.012810465242920227, 0.01189670994589177, 0.011104559758206917, 0.010411265261972096,
		0.009799416126158804, 0.009255462182712733, 0.008768700134139386, 0.00833056343336287,
		0.00793411456431402, 0.007573675487951841, 0.007244554301320383, 0.00694284010720953,
		0.006665247032707682, 0.006408994188004207, 0.006171712263039458, 0.0059513701127588475,
		0.0057462165130101155, 0.005554733551962801,
	}
)

// getStirlingError returns log(z!) - log(sqrt(2*pi*z)*(z/e)^z).
func getStirlingError(z float64) float64 {
	if z < 15 {
		z2 := 2 * z
		if math.Floor(z2) == z2 {
			return exactStirlingErrors[int(z2)]
		}
		lg, _ := math.Lgamma(z + 1)
		return lg - (z+0.5)*math.Log(z) + z - halfLog2Pi
	}
	z2 := z * z
	return (0.08333333333333333 - (0.002777777777777778-(7.936507936507937e-4-(5.952380952380953e-4-8.417508417508417e-4/z2)/z2)/z2)/z2) / z
}

// logBinomialProbability returns the natural log of the probability
// of x successes in n trials, with success probability p and q = 1-p.
func logBinomialProbability(x, n int, p, q float64) float64 {
	fn := float64(n)
	switch {
	case x == 0:
		if p < 0.1 {
			return -getDeviancePart(fn, fn*q) - fn*p
		}
		return fn * math.Log(q)
	case x == n:
		if q < 0.1 {
			return -getDeviancePart(fn, fn*p) - fn*q
		}
		return fn * math.Log(p)
	default:
		fx := float64(x)
		fnx := float64(n - x)
		ret := getStirlingError(fn) - getStirlingError(fx) - getStirlingError(fnx) -
			getDeviancePart(fx, fn*p) - getDeviancePart(fnx, fn*q)
		f := 2 * math.Pi * fx * fnx / fn
		return ret - 0.5*math.Log(f)
	}
}
