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

package evs

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/bits-and-blooms/bitset"
)

// A FeatureVector holds one value per feature of its FeatureSet.
type FeatureVector struct {
	set    *FeatureSet
	values []float64
	isSet  *bitset.BitSet
}

// NewVector allocates an empty FeatureVector for the set.
func (set *FeatureSet) NewVector() *FeatureVector {
	return &FeatureVector{
		set:    set,
		values: make([]float64, set.Len()),
		isSet:  bitset.New(uint(set.Len())),
	}
}

// FeatureSet returns the set the vector belongs to.
func (v *FeatureVector) FeatureSet() *FeatureSet {
	return v.set
}

func (v *FeatureVector) checkFeature(f Feature) {
	if f < 0 || int(f) >= len(v.values) {
		log.Panicf("feature index %v out of range for feature set %v of size %v", int(f), v.set.name, len(v.values))
	}
}

// Set stores the value of feature f.
func (v *FeatureVector) Set(f Feature, value float64) {
	v.checkFeature(f)
	v.values[f] = value
	v.isSet.Set(uint(f))
}

// Get returns the value of feature f, and whether it was set.
func (v *FeatureVector) Get(f Feature) (float64, bool) {
	v.checkFeature(f)
	return v.values[f], v.isSet.Test(uint(f))
}

// Complete determines whether every feature of the set has a value.
func (v *FeatureVector) Complete() bool {
	return v.isSet.Count() == uint(len(v.values))
}

// Write outputs the values as a comma-separated list in feature order.
// All features must be set.
func (v *FeatureVector) Write(out io.Writer) error {
	if !v.Complete() {
		for i := range v.values {
			if !v.isSet.Test(uint(i)) {
				return fmt.Errorf("feature %v of feature set %v has no value", v.set.labels[i], v.set.name)
			}
		}
	}
	buf := make([]byte, 0, 8*len(v.values))
	for i, value := range v.values {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendFloat(buf, value, 'g', -1, 64)
	}
	_, err := out.Write(buf)
	return err
}
