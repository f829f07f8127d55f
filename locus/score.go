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

// An EmpiricalScore is an empirical variant score that may be unset.
// The zero value is unset.
type EmpiricalScore struct {
	value int
	isSet bool
}

// NewScore returns a set score.
func NewScore(value int) EmpiricalScore {
	return EmpiricalScore{value: value, isSet: true}
}

// Get returns the score, and whether it is set.
func (s EmpiricalScore) Get() (int, bool) {
	return s.value, s.isSet
}

// IsSet determines whether the score has a value.
func (s EmpiricalScore) IsSet() bool {
	return s.isSet
}

// Float returns the score, or -1 if it is unset.
func (s EmpiricalScore) Float() float64 {
	if !s.isSet {
		return -1
	}
	return float64(s.value)
}

// Merge combines the scores of two merged loci. An unset score takes
// the other score, and two set scores yield their minimum.
func (s EmpiricalScore) Merge(other EmpiricalScore) EmpiricalScore {
	switch {
	case !s.isSet:
		return other
	case !other.isSet:
		return s
	case other.value < s.value:
		return other
	default:
		return s
	}
}
